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

// Command rwsched runs the readers-writers scheduler server and talks
// to a running one.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cockroachdb/rwsched/cmd/rwsched/command"
	"github.com/cockroachdb/rwsched/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	const description = "Readers-Writers Scheduler"
	cfg := &config.Config{}
	root := &cobra.Command{
		Use:           "rwsched",
		Short:         description,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return cfg.Preflight()
		},
	}
	cfg.Bind(root.PersistentFlags())

	root.AddCommand(
		command.Server{}.Command(ctx, cfg),
		command.Enqueue{Writer: false}.Command(ctx, cfg),
		command.Enqueue{Writer: true}.Command(ctx, cfg),
		command.Drain{}.Command(ctx, cfg),
		command.Status{}.Command(ctx, cfg),
		command.Version{}.Command(),
	)

	if err := root.Execute(); err != nil {
		log.WithContext(ctx).Errorf("failed to execute root command: %v", err)
		os.Exit(1)
	}
}
