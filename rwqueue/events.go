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

import "time"

// Events provides a [Scheduler] with optional callbacks to monitor
// queued and executing items. Callbacks are invoked synchronously and
// must not call back into the Scheduler's Drain method.
//
// See [Options.Events].
type Events struct {
	OnEnqueue  func(kind Kind, queued int)
	OnStarted  func(kind Kind, sinceEnqueued time.Duration)
	OnComplete func(kind Kind, elapsed time.Duration, err error)
	OnDrain    func(mode Mode)
	OnDrained  func(mode Mode, elapsed time.Duration, err error)
}

func (e *Events) doEnqueue(kind Kind, queued int) {
	if e != nil && e.OnEnqueue != nil {
		e.OnEnqueue(kind, queued)
	}
}

func (e *Events) doStarted(kind Kind, sinceEnqueued time.Duration) {
	if e != nil && e.OnStarted != nil {
		e.OnStarted(kind, sinceEnqueued)
	}
}

func (e *Events) doComplete(kind Kind, elapsed time.Duration, err error) {
	if e != nil && e.OnComplete != nil {
		e.OnComplete(kind, elapsed, err)
	}
}

func (e *Events) doDrain(mode Mode) {
	if e != nil && e.OnDrain != nil {
		e.OnDrain(mode)
	}
}

func (e *Events) doDrained(mode Mode, elapsed time.Duration, err error) {
	if e != nil && e.OnDrained != nil {
		e.OnDrained(mode, elapsed, err)
	}
}
