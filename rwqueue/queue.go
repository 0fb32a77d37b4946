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

import "sync"

type entry[V any] struct {
	elt  V
	next *entry[V]
}

// A Queue is an unbounded FIFO of values.
//
// The length check and the removal performed by [Queue.TryDequeue]
// happen under the same lock, so a caller that observes a non-empty
// queue through TryDequeue always receives a value.
//
// A Queue is internally synchronized and is safe for concurrent use. A
// Queue should not be copied after it has been created.
type Queue[V any] struct {
	mu struct {
		sync.Mutex

		head *entry[V]
		tail *entry[V]
		len  int
	}
}

// NewQueue constructs a [Queue].
func NewQueue[V any]() *Queue[V] {
	return &Queue[V]{}
}

// Enqueue appends the value to the tail of the queue and returns the
// length of the queue after the append.
func (q *Queue[V]) Enqueue(val V) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	e := &entry[V]{elt: val}
	if q.mu.tail == nil {
		q.mu.head = e
	} else {
		q.mu.tail.next = e
	}
	q.mu.tail = e
	q.mu.len++
	return q.mu.len
}

// TryDequeue removes and returns the value at the head of the queue. It
// returns false if the queue is empty.
func (q *Queue[V]) TryDequeue() (V, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	h := q.mu.head
	if h == nil {
		return *new(V), false
	}
	q.mu.head = h.next
	if q.mu.head == nil {
		q.mu.tail = nil
	}
	q.mu.len--

	// Drop references for the garbage collector.
	val := h.elt
	h.elt = *new(V)
	h.next = nil
	return val, true
}

// IsEmpty returns true if there are no elements in the queue.
func (q *Queue[V]) IsEmpty() bool {
	return q.Len() == 0
}

// Len returns the number of elements in the queue.
func (q *Queue[V]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.mu.len
}

// lengths reads the length of both queues while holding both locks, so
// the pair reflects a single instant. Locks are always taken in
// argument order; callers must use a consistent order.
func lengths[A, B any](a *Queue[A], b *Queue[B]) (int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	b.mu.Lock()
	defer b.mu.Unlock()
	return a.mu.len, b.mu.len
}
