// Copyright 2025 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package api is the HTTP request layer in front of the scheduler.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/cockroachdb/rwsched/internal/api/handler"
	"github.com/cockroachdb/rwsched/internal/api/middleware"
	"github.com/cockroachdb/rwsched/internal/config"
)

// Server wraps a gin engine.
type Server struct {
	engine *gin.Engine
	logger *logrus.Logger
}

// New constructs a Server with request logging and panic recovery.
func New(appEnv config.AppEnv, logger *logrus.Logger) *Server {
	switch appEnv {
	case config.ProductionEnv:
		gin.SetMode(gin.ReleaseMode)
	case config.TestEnv:
		gin.SetMode(gin.TestMode)
	}

	r := gin.New()
	r.RedirectTrailingSlash = false
	r.Use(middleware.Logger(logger), gin.Recovery())

	return &Server{
		engine: r,
		logger: logger,
	}
}

// Handler returns the http.Handler that serves the routes.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// SetupAPIRoutes registers the scheduler routes.
func (s *Server) SetupAPIRoutes(h *handler.ReaderWriterHandler) {
	api := s.engine.Group("api")
	api.GET("/version", h.Version)

	rw := api.Group("readerwriter")
	{
		rw.POST("/addReader", h.AddReader)
		rw.POST("/addWriter", h.AddWriter)
		rw.POST("/processQueue/:mode", h.ProcessQueue)
		rw.GET("/status", h.Status)
	}
}

// Serve listens on the address until the context is canceled, then
// allows in-flight requests up to the grace period to finish.
func (s *Server) Serve(ctx context.Context, address string, grace time.Duration) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Infof("rest server starting at: %s", address)
	srvError := make(chan error, 1)
	go func() {
		srvError <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		// graceful shutdown
		s.logger.Info("rest server is shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-srvError:
		return errors.Wrap(err, "rest server")
	}
}
