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
	"strings"

	"github.com/pkg/errors"
)

// Mode selects the policy used by [Scheduler.Drain].
type Mode int

// The drain policies.
const (
	// ReaderPriority empties the reader queue before running one
	// writer. Writers may starve while readers keep arriving.
	ReaderPriority Mode = iota + 1
	// WriterPriority empties the writer queue before running one
	// reader. Readers may starve while writers keep arriving.
	WriterPriority
	// Optimized runs at most one reader and one writer per pass.
	Optimized
)

// Modes lists the valid modes in a stable order.
var Modes = []Mode{ReaderPriority, WriterPriority, Optimized}

// ParseMode matches the name of a mode, ignoring case. An unknown name
// returns an error that wraps [ErrInvalidMode].
func ParseMode(name string) (Mode, error) {
	for _, m := range Modes {
		if strings.EqualFold(name, m.String()) {
			return m, nil
		}
	}
	return 0, errors.Wrapf(ErrInvalidMode, "unknown mode %q (available: reader, writer, optimized)", name)
}

func (m Mode) String() string {
	switch m {
	case ReaderPriority:
		return "reader"
	case WriterPriority:
		return "writer"
	case Optimized:
		return "optimized"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}
