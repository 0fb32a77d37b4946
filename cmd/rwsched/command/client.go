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

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cockroachdb/rwsched/internal/client"
	"github.com/cockroachdb/rwsched/internal/config"
	"github.com/cockroachdb/rwsched/rwqueue"
)

func newClient(ctx context.Context, cfg *config.Config) (*client.Client, error) {
	c, err := client.New(cfg.Client, cfg.NewLogger())
	if err != nil {
		return nil, err
	}
	if err := c.CheckVersion(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Enqueue queues demo items on a running server.
type Enqueue struct {
	Writer bool
}

// Command returns the reader or writer subcommand.
func (cmd Enqueue) Command(ctx context.Context, cfg *config.Config) *cobra.Command {
	kind := rwqueue.ReaderKind
	if cmd.Writer {
		kind = rwqueue.WriterKind
	}
	var count int
	sub := &cobra.Command{
		Use:   kind.String(),
		Short: fmt.Sprintf("queue %s items on a running server", kind),
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			cl, err := newClient(ctx, cfg)
			if err != nil {
				return err
			}
			add := cl.AddReader
			if cmd.Writer {
				add = cl.AddWriter
			}
			for i := 0; i < count; i++ {
				id, err := add(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.OutOrStdout(), "%s %s queued\n", kind, id)
			}
			return nil
		},
	}
	sub.Flags().IntVarP(&count, "count", "n", 1, "the number of items to queue")
	return sub
}

// Drain processes a running server's queues.
type Drain struct{}

// Command returns the drain subcommand.
func (cmd Drain) Command(ctx context.Context, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:       "drain {reader|writer|optimized}",
		Short:     "process the queues of a running server",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"reader", "writer", "optimized"},
		RunE: func(c *cobra.Command, args []string) error {
			// Reject bad modes before contacting the server.
			if _, err := rwqueue.ParseMode(args[0]); err != nil {
				return err
			}
			cl, err := newClient(ctx, cfg)
			if err != nil {
				return err
			}
			msg, err := cl.Process(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), msg)
			return nil
		},
	}
}

// Status prints the queue status of a running server.
type Status struct{}

// Command returns the status subcommand.
func (cmd Status) Command(ctx context.Context, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "print the queue status of a running server",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			cl, err := newClient(ctx, cfg)
			if err != nil {
				return err
			}
			status, err := cl.Status(ctx)
			if err != nil {
				return err
			}
			return printJSON(c.OutOrStdout(), status)
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
