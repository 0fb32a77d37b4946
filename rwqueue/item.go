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
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// An Item is a unit of work provided to [Scheduler.EnqueueReader] or
// [Scheduler.EnqueueWriter]. It is executed at most once.
type Item interface {
	// Execute performs the work. The context is the one passed to
	// [Scheduler.Drain].
	Execute(ctx context.Context) error
}

// ItemFunc adapts a function to the [Item] interface.
type ItemFunc func(ctx context.Context) error

// Execute implements [Item].
func (fn ItemFunc) Execute(ctx context.Context) error { return fn(ctx) }

// Action returns an [Item] that invokes a callback which cannot fail.
func Action(fn func()) Item {
	return ItemFunc(func(context.Context) error {
		fn()
		return nil
	})
}

// Kind identifies the queue an item was submitted to.
type Kind int

// The kinds of items.
const (
	ReaderKind Kind = iota
	WriterKind
)

func (k Kind) String() string {
	switch k {
	case ReaderKind:
		return "reader"
	case WriterKind:
		return "writer"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// pending is the queued form of an Item.
type pending struct {
	item     Item
	kind     Kind
	enqueued time.Time
}

// tryExecute invokes the item with a panic handler.
func tryExecute(ctx context.Context, item Item) (err error) {
	// Install panic handler before executing user code.
	defer func() {
		x := recover()
		switch t := x.(type) {
		case nil:
		// Success.
		case error:
			err = errors.Wrap(t, "panic in item")
		default:
			err = errors.Errorf("panic in item: %v", t)
		}
	}()

	return item.Execute(ctx)
}
