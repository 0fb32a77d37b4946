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

// Package handler maps HTTP requests onto the scheduler operations.
package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/cockroachdb/rwsched/internal/service"
	"github.com/cockroachdb/rwsched/rwqueue"
	"github.com/cockroachdb/rwsched/version"
)

// ReaderWriterHandler serves the readerwriter routes.
type ReaderWriterHandler struct {
	scheduler scheduler
}

type scheduler interface {
	AddReader() string
	AddWriter() string
	Process(ctx context.Context, mode string) error
	Status() service.Snapshot
}

// New constructs a handler.
func New(scheduler scheduler) *ReaderWriterHandler {
	return &ReaderWriterHandler{
		scheduler: scheduler,
	}
}

// AddReader queues a reader item.
func (h *ReaderWriterHandler) AddReader(c *gin.Context) {
	id := h.scheduler.AddReader()
	c.JSON(http.StatusOK, gin.H{"message": "Reader added to queue.", "id": id})
}

// AddWriter queues a writer item.
func (h *ReaderWriterHandler) AddWriter(c *gin.Context) {
	id := h.scheduler.AddWriter()
	c.JSON(http.StatusOK, gin.H{"message": "Writer added to queue.", "id": id})
}

// ProcessQueue drains both queues and responds once they are empty. The
// drain stops early if the client goes away.
func (h *ReaderWriterHandler) ProcessQueue(c *gin.Context) {
	mode := c.Param("mode")
	if err := h.scheduler.Process(c.Request.Context(), mode); err != nil {
		_ = c.Error(err)
		var itemErr *rwqueue.ItemError
		switch {
		case errors.Is(err, rwqueue.ErrInvalidMode):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.As(err, &itemErr):
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "kind": itemErr.Kind.String()})
		default:
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Processed queue in %s mode.", mode)})
}

// Status reports the pending item counts.
func (h *ReaderWriterHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.scheduler.Status())
}

// Version reports the server build.
func (h *ReaderWriterHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"version": version.Banner()})
}
