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

import "fmt"

// Status is a point-in-time snapshot of the pending work in a
// [Scheduler].
type Status struct {
	PendingReaders int
	PendingWriters int
}

// Empty returns true if neither queue holds an item.
func (s Status) Empty() bool {
	return s.PendingReaders == 0 && s.PendingWriters == 0
}

func (s Status) String() string {
	return fmt.Sprintf("readers=%d writers=%d", s.PendingReaders, s.PendingWriters)
}

// DrainState is published by [Scheduler.State].
type DrainState int

// The states of a Scheduler.
const (
	Idle DrainState = iota
	Draining
)

func (s DrainState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Draining:
		return "draining"
	default:
		return fmt.Sprintf("DrainState(%d)", int(s))
	}
}
