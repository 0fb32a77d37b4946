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

// Package command contains the rwsched subcommands.
package command

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cockroachdb/rwsched/internal/api"
	"github.com/cockroachdb/rwsched/internal/api/handler"
	"github.com/cockroachdb/rwsched/internal/config"
	"github.com/cockroachdb/rwsched/internal/service"
	"github.com/cockroachdb/rwsched/version"
)

// Server runs the request layer.
type Server struct{}

// Command returns the serve subcommand.
func (cmd Server) Command(ctx context.Context, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "run the scheduler server",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return cmd.main(ctx, cfg)
		},
	}
}

func (cmd Server) main(ctx context.Context, cfg *config.Config) error {
	logger := cfg.NewLogger()
	logger.WithContext(ctx).Info(version.Banner())

	// The one scheduler instance shared by every request.
	scheduler := service.New(cfg, logger)

	server := api.New(cfg.AppEnv, logger)
	server.SetupAPIRoutes(handler.New(scheduler))

	if err := server.Serve(ctx, cfg.HTTP.BindAddr, cfg.HTTP.ShutdownGrace); err != nil {
		return errors.Wrap(err, "server")
	}
	logger.Info("server stopped")
	return nil
}
