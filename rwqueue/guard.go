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

	"golang.org/x/sync/semaphore"
)

// A Guard is an exclusive-access token for the shared resource. At most
// one callback executes under the Guard at any time.
//
// A Guard may be shared between schedulers that protect the same
// resource. A Guard is internally synchronized and is safe for
// concurrent use.
type Guard struct {
	sem *semaphore.Weighted
}

// NewGuard constructs an unheld [Guard].
func NewGuard() *Guard {
	return &Guard{sem: semaphore.NewWeighted(1)}
}

// Do waits for the Guard, invokes fn and then releases the Guard. The
// release happens even if fn returns an error or panics. If the context
// is canceled while waiting, fn is not called and the context's error
// is returned.
func (g *Guard) Do(ctx context.Context, fn func() error) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer g.sem.Release(1)
	return fn()
}

// Free reports whether the Guard could be acquired without waiting at
// the instant of the call.
func (g *Guard) Free() bool {
	if !g.sem.TryAcquire(1) {
		return false
	}
	g.sem.Release(1)
	return true
}
