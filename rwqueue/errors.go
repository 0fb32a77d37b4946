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
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidMode is returned from [ParseMode] and [Scheduler.Drain] for
// an unrecognized mode string.
var ErrInvalidMode = errors.New("invalid mode")

// ItemError is returned from [Scheduler.Drain] when a work item fails.
// The item has already been removed from its queue and is not retried.
type ItemError struct {
	Kind  Kind
	cause error
}

// Error returns a message.
func (e *ItemError) Error() string {
	return fmt.Sprintf("%s item failed: %v", e.Kind, e.cause)
}

// Unwrap returns the error returned or raised by the item.
func (e *ItemError) Unwrap() error { return e.cause }

// Cause supports errors.Cause from github.com/pkg/errors.
func (e *ItemError) Cause() error { return e.cause }
