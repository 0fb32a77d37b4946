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

// Package service queues the demo reader and writer items and exposes
// the scheduler operations to the request layer.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"github.com/cockroachdb/rwsched/internal/config"
	"github.com/cockroachdb/rwsched/rwqueue"
)

// Snapshot is the status reported to callers.
type Snapshot struct {
	ReadersInQueue  int   `json:"readersInQueue"`
	WritersInQueue  int   `json:"writersInQueue"`
	Draining        bool  `json:"draining"`
	ExecutedReaders int64 `json:"executedReaders"`
	ExecutedWriters int64 `json:"executedWriters"`
}

// Scheduler owns the process-wide rwqueue.Scheduler.
type Scheduler struct {
	logger   *logrus.Logger
	sched    *rwqueue.Scheduler
	workload config.Workload

	executed struct {
		readers atomic.Int64
		writers atomic.Int64
	}
}

// New constructs a Scheduler from the configuration.
func New(cfg *config.Config, logger *logrus.Logger) *Scheduler {
	s := &Scheduler{
		logger:   logger,
		workload: cfg.Workload,
	}
	s.sched = rwqueue.New(cfg.SchedulerOptions(s.events()))
	return s
}

// AddReader queues a demo reader item and returns its id.
func (s *Scheduler) AddReader() string {
	id := uuid.NewString()
	s.sched.EnqueueReader(s.demoItem(rwqueue.ReaderKind, id, s.workload.ReaderWork))
	return id
}

// AddWriter queues a demo writer item and returns its id.
func (s *Scheduler) AddWriter() string {
	id := uuid.NewString()
	s.sched.EnqueueWriter(s.demoItem(rwqueue.WriterKind, id, s.workload.WriterWork))
	return id
}

// Process drains both queues using the named mode.
func (s *Scheduler) Process(ctx context.Context, mode string) error {
	if err := s.sched.Drain(ctx, mode); err != nil {
		return errors.Wrapf(err, "process queue in %s mode", mode)
	}
	return nil
}

// Status reports the pending and executed item counts.
func (s *Scheduler) Status() Snapshot {
	pending := s.sched.Status()
	state, _ := s.sched.State()
	return Snapshot{
		ReadersInQueue:  pending.PendingReaders,
		WritersInQueue:  pending.PendingWriters,
		Draining:        state == rwqueue.Draining,
		ExecutedReaders: s.executed.readers.Load(),
		ExecutedWriters: s.executed.writers.Load(),
	}
}

// demoItem logs the queue status and then simulates work of the given
// duration.
func (s *Scheduler) demoItem(kind rwqueue.Kind, id string, work time.Duration) rwqueue.Item {
	return rwqueue.ItemFunc(func(ctx context.Context) error {
		pending := s.sched.Status()
		s.logger.WithFields(logrus.Fields{
			"item":           id,
			"kind":           kind.String(),
			"readersInQueue": pending.PendingReaders,
			"writersInQueue": pending.PendingWriters,
		}).Infof("%s action done", kind)

		timer := time.NewTimer(work)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}

		switch kind {
		case rwqueue.ReaderKind:
			s.executed.readers.Inc()
		case rwqueue.WriterKind:
			s.executed.writers.Inc()
		}
		return nil
	})
}

func (s *Scheduler) events() *rwqueue.Events {
	return &rwqueue.Events{
		OnEnqueue: func(kind rwqueue.Kind, queued int) {
			s.logger.WithFields(logrus.Fields{
				"kind":   kind.String(),
				"queued": queued,
			}).Debug("item queued")
		},
		OnComplete: func(kind rwqueue.Kind, elapsed time.Duration, err error) {
			entry := s.logger.WithFields(logrus.Fields{
				"kind":    kind.String(),
				"elapsed": elapsed,
			})
			if err != nil {
				entry.WithError(err).Warn("item failed")
				return
			}
			entry.Debug("item complete")
		},
		OnDrain: func(mode rwqueue.Mode) {
			s.logger.WithField("mode", mode.String()).Info("processing queue")
		},
		OnDrained: func(mode rwqueue.Mode, elapsed time.Duration, err error) {
			entry := s.logger.WithFields(logrus.Fields{
				"mode":    mode.String(),
				"elapsed": elapsed,
			})
			if err != nil {
				entry.WithError(err).Warn("queue processing aborted")
				return
			}
			entry.Info("queue processed")
		},
	}
}
