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

/*
Package rwqueue schedules reader and writer work items against a single
shared resource.

Work is queued as reader items, which never take the resource guard, or
writer items, which execute only while holding it:

	// The placeholder work performed by each item.
	read := ItemFunc(func(ctx context.Context) error { return nil })
	write := ItemFunc(func(ctx context.Context) error { return nil })

	// A Scheduler owns one reader queue, one writer queue and a guard.
	s := New(nil)
	s.EnqueueReader(read)
	s.EnqueueWriter(write)

	// Run every queued item, readers first.
	err := s.Drain(ctx, "reader")

Queued work does not run until a drain is requested. A drain selects one
of three policies. [ReaderPriority] empties the reader queue before
admitting a single writer, [WriterPriority] does the reverse, and
[Optimized] alternates one reader with one writer per pass. A drain
returns once both queues are observed empty at the same instant.

Each queue is guarded by its own lock, so enqueueing a writer never
blocks on the reader queue. The [Guard] is a third, independent
primitive that only writer execution acquires.
*/
package rwqueue
