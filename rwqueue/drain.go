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
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// drainReadersFirst empties the reader queue, then runs at most one
// writer, then pauses before checking the queues again.
func (s *Scheduler) drainReadersFirst(ctx context.Context) error {
	for !s.Status().Empty() {
		if err := s.drainReaders(ctx); err != nil {
			return err
		}
		if _, err := s.nextWriter(ctx); err != nil {
			return err
		}
		if err := s.idle(ctx); err != nil {
			return err
		}
	}
	return nil
}

// drainWritersFirst empties the writer queue, one guarded item at a
// time, then runs at most one reader, then pauses before checking the
// queues again.
func (s *Scheduler) drainWritersFirst(ctx context.Context) error {
	for !s.Status().Empty() {
		for {
			ran, err := s.nextWriter(ctx)
			if err != nil {
				return err
			}
			if !ran {
				break
			}
		}
		if _, err := s.nextReader(ctx); err != nil {
			return err
		}
		if err := s.idle(ctx); err != nil {
			return err
		}
	}
	return nil
}

// drainOptimized runs at most one reader and one writer per pass and
// yields between passes.
func (s *Scheduler) drainOptimized(ctx context.Context) error {
	for !s.Status().Empty() {
		if _, err := s.nextReader(ctx); err != nil {
			return err
		}
		if _, err := s.nextWriter(ctx); err != nil {
			return err
		}
		runtime.Gosched()
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

// drainReaders executes reader items until the reader queue is empty.
// When parallelism is enabled, readers are started in queue order and
// all of them have returned before drainReaders does.
func (s *Scheduler) drainReaders(ctx context.Context) error {
	if s.readerParallelism < 2 {
		for {
			ran, err := s.nextReader(ctx)
			if err != nil || !ran {
				return err
			}
		}
	}

	// A slot is taken before a reader is dequeued, so a reader leaves the
	// queue only once it is certain to start. A failing reader cancels
	// the group before giving its slot back.
	groupCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	slots := semaphore.NewWeighted(int64(s.readerParallelism))

	var eg errgroup.Group
	for {
		if err := slots.Acquire(groupCtx, 1); err != nil {
			break
		}
		if groupCtx.Err() != nil {
			slots.Release(1)
			break
		}
		p, ok := s.readers.TryDequeue()
		if !ok {
			slots.Release(1)
			break
		}
		eg.Go(func() error {
			defer slots.Release(1)
			err := s.execute(groupCtx, p)
			if err != nil {
				cancel(err)
			}
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// nextReader executes the reader at the head of the queue. It returns
// false if the queue was empty.
func (s *Scheduler) nextReader(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	p, ok := s.readers.TryDequeue()
	if !ok {
		return false, nil
	}
	return true, s.execute(ctx, p)
}

// nextWriter executes the writer at the head of the queue while holding
// the guard. The item is dequeued only once the guard is held, so a
// cancellation while waiting leaves it queued. It returns false if the
// queue was empty.
func (s *Scheduler) nextWriter(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s.writers.IsEmpty() {
		return false, nil
	}
	ran := false
	err := s.guard.Do(ctx, func() error {
		p, ok := s.writers.TryDequeue()
		if !ok {
			return nil
		}
		ran = true
		return s.execute(ctx, p)
	})
	return ran, err
}

// execute invokes the item and reports failures as an ItemError.
func (s *Scheduler) execute(ctx context.Context, p *pending) error {
	s.events.doStarted(p.kind, time.Since(p.enqueued))
	start := time.Now()
	err := tryExecute(ctx, p.item)
	s.events.doComplete(p.kind, time.Since(start), err)
	if err != nil {
		return &ItemError{Kind: p.kind, cause: err}
	}
	return nil
}

// idle pauses between passes so that a drain waiting on new arrivals
// does not spin.
func (s *Scheduler) idle(ctx context.Context) error {
	if s.idleDelay < 0 {
		runtime.Gosched()
		return ctx.Err()
	}
	timer := time.NewTimer(s.idleDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
