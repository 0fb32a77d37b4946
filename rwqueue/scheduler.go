// Copyright 2024 The Cockroach Authors
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

package rwqueue

import (
	"context"
	"time"

	"github.com/cockroachdb/field-eng-powertools/notify"
	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"
)

// DefaultIdleDelay is the pause between passes of the reader-priority
// and writer-priority policies.
const DefaultIdleDelay = 10 * time.Millisecond

// Options configures a [Scheduler]. The zero value is usable.
type Options struct {
	// Events receives optional monitoring callbacks.
	Events *Events
	// Guard protects the shared resource. A new Guard is allocated if
	// nil. Schedulers that protect the same resource may share one.
	Guard *Guard
	// IdleDelay is the pause between passes of the reader-priority and
	// writer-priority policies. Zero selects [DefaultIdleDelay]; a
	// negative value only yields the goroutine.
	IdleDelay time.Duration
	// ReaderParallelism bounds the number of reader items that the
	// reader-priority policy executes at once. Values less than two
	// execute readers one at a time on the draining goroutine.
	ReaderParallelism int
}

// Scheduler holds queued reader and writer items and executes them when
// drained.
//
// A Scheduler is internally synchronized and is safe for concurrent
// use. Calls to [Scheduler.Drain] are serialized. A Scheduler should not
// be copied after it has been created.
type Scheduler struct {
	events            *Events
	guard             *Guard
	idleDelay         time.Duration
	readerParallelism int

	readers *Queue[*pending] // Internally synchronized.
	writers *Queue[*pending] // Internally synchronized.

	drainSem *semaphore.Weighted // Serializes calls to Drain.
	state    notify.Var[DrainState]
}

// New constructs a [Scheduler]. The options may be nil.
func New(opts *Options) *Scheduler {
	if opts == nil {
		opts = &Options{}
	}
	s := &Scheduler{
		events:            opts.Events,
		guard:             opts.Guard,
		idleDelay:         opts.IdleDelay,
		readerParallelism: opts.ReaderParallelism,
		readers:           NewQueue[*pending](),
		writers:           NewQueue[*pending](),
		drainSem:          semaphore.NewWeighted(1),
	}
	if s.guard == nil {
		s.guard = NewGuard()
	}
	if s.idleDelay == 0 {
		s.idleDelay = DefaultIdleDelay
	}
	s.state.Set(Idle)
	return s
}

// EnqueueReader appends the item to the reader queue. Reader items
// never acquire the [Guard]. Nil items are ignored.
func (s *Scheduler) EnqueueReader(item Item) {
	s.enqueue(s.readers, ReaderKind, item)
}

// EnqueueWriter appends the item to the writer queue. Writer items
// execute while holding the [Guard]. Nil items are ignored.
func (s *Scheduler) EnqueueWriter(item Item) {
	s.enqueue(s.writers, WriterKind, item)
}

func (s *Scheduler) enqueue(q *Queue[*pending], kind Kind, item Item) {
	if item == nil {
		return
	}
	queued := q.Enqueue(&pending{
		item:     item,
		kind:     kind,
		enqueued: time.Now(),
	})
	s.events.doEnqueue(kind, queued)
}

// Guard returns the Guard that serializes writer items.
func (s *Scheduler) Guard() *Guard {
	return s.guard
}

// Status returns the number of pending items in each queue. Both
// lengths are read at the same instant: the call briefly holds the
// reader queue lock and then the writer queue lock, so an enqueue on
// either queue may wait for it to finish.
func (s *Scheduler) Status() Status {
	r, w := lengths(s.readers, s.writers)
	return Status{PendingReaders: r, PendingWriters: w}
}

// State returns the current drain state and a channel that is closed
// when the state next changes.
func (s *Scheduler) State() (DrainState, <-chan struct{}) {
	return s.state.Get()
}

// Drain executes queued items using the policy named by mode, which is
// matched without regard to case. It returns once both queues have been
// observed empty at the same instant, including items enqueued while
// the drain is in progress.
//
// An unrecognized mode returns an error wrapping [ErrInvalidMode] and
// no item is executed. A failing item aborts the drain and is reported
// as an [*ItemError]. Canceling the context aborts the drain before the
// next item is started; unstarted items remain queued.
func (s *Scheduler) Drain(ctx context.Context, mode string) error {
	m, err := ParseMode(mode)
	if err != nil {
		return err
	}
	return s.DrainMode(ctx, m)
}

// DrainMode is equivalent to [Scheduler.Drain] with a parsed Mode.
func (s *Scheduler) DrainMode(ctx context.Context, mode Mode) error {
	var policy func(context.Context) error
	switch mode {
	case ReaderPriority:
		policy = s.drainReadersFirst
	case WriterPriority:
		policy = s.drainWritersFirst
	case Optimized:
		policy = s.drainOptimized
	default:
		return errors.Wrapf(ErrInvalidMode, "unknown mode %s", mode)
	}

	if err := s.drainSem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.drainSem.Release(1)

	s.state.Set(Draining)
	defer s.state.Set(Idle)

	start := time.Now()
	s.events.doDrain(mode)
	err := policy(ctx)
	s.events.doDrained(mode, time.Since(start), err)
	return err
}
