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

// Package retry re-runs operations that fail with a transient error,
// pacing the attempts with a supplied backoff strategy.
package retry

import (
	"time"

	"github.com/cockroachdb/field-eng-powertools/stopper"
	"github.com/pkg/errors"
)

var (
	// ErrMaxRetries is returned when the backoff strategy gives up.
	ErrMaxRetries = errors.New("too many retries")
	// ErrRetriable tags errors from operations that can be retried.
	ErrRetriable = errors.New("retriable error")
)

// Operation to be retried.
type Operation func(ctx *stopper.Context) error

// Backoff strategy. Strategies from github.com/sethvargo/go-retry
// satisfy this interface.
type Backoff interface {
	// Next returns the delay before the next attempt. It returns true
	// if no further attempts should be made.
	Next() (delay time.Duration, stop bool)
}

// Retriable marks err as transient, so that [Retry] will attempt the
// operation again. A nil error is returned as-is.
func Retriable(err error) error {
	if err == nil {
		return nil
	}
	return &retriableErr{cause: err}
}

type retriableErr struct {
	cause error
}

func (e *retriableErr) Error() string { return e.cause.Error() }

// Unwrap exposes both the cause and the ErrRetriable tag.
func (e *retriableErr) Unwrap() []error { return []error{e.cause, ErrRetriable} }

// Retry invokes the operation until it succeeds or returns an error that
// is not tagged with [ErrRetriable]. When the strategy stops, the last
// error is returned wrapped around [ErrMaxRetries]. If the context is
// stopped while waiting, the last error is returned.
func Retry(ctx *stopper.Context, strategy Backoff, op Operation) error {
	for {
		err := op(ctx)
		if err == nil || !errors.Is(err, ErrRetriable) {
			return err
		}
		delay, stop := strategy.Next()
		if stop {
			return errors.Wrapf(ErrMaxRetries, "last error: %v", err)
		}
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
			// try again
		case <-ctx.Stopping():
			timer.Stop()
			return err
		case <-ctx.Done():
			timer.Stop()
			return err
		}
	}
}
