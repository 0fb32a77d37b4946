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

package retry

import (
	"time"

	"github.com/pkg/errors"
)

// ErrInvalidArg is raised if an invalid argument is passed to a backoff strategy.
var ErrInvalidArg = errors.New("invalid argument")

// ExpBackoff doubles the delay after each attempt, up to a maximum.
type ExpBackoff struct {
	base, max time.Duration
	limit     int // 0 = forever

	current  time.Duration
	attempts int
}

var _ Backoff = &ExpBackoff{}

// NewExpBackoff builds an exponential backoff strategy. The maximum
// delay must be between a millisecond and one hour and no smaller than
// the base delay. Use limit=0 for unlimited retries.
func NewExpBackoff(baseDelay, maxDelay time.Duration, limit int) (*ExpBackoff, error) {
	switch {
	case maxDelay > time.Hour:
		return nil, errors.Wrapf(ErrInvalidArg, "max delay %s exceeds one hour", maxDelay)
	case maxDelay < time.Millisecond:
		return nil, errors.Wrapf(ErrInvalidArg, "max delay %s is less than a millisecond", maxDelay)
	case baseDelay > maxDelay:
		return nil, errors.Wrapf(ErrInvalidArg, "base delay %s exceeds max delay %s", baseDelay, maxDelay)
	case limit < 0:
		return nil, errors.Wrapf(ErrInvalidArg, "negative limit %d", limit)
	}
	return &ExpBackoff{base: baseDelay, max: maxDelay, limit: limit}, nil
}

// Next implements Backoff.
func (e *ExpBackoff) Next() (time.Duration, bool) {
	if e.limit != 0 && e.attempts >= e.limit {
		return 0, true
	}
	e.attempts++
	if e.current >= e.max {
		return e.max, false
	}
	e.current = e.base << (e.attempts - 1)
	if e.current > e.max || e.current <= 0 {
		e.current = e.max
	}
	return e.current, false
}

// Attempts returns the number of delays handed out so far.
func (e *ExpBackoff) Attempts() int {
	return e.attempts
}
