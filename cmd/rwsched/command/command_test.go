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
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/cockroachdb/rwsched/internal/api"
	"github.com/cockroachdb/rwsched/internal/api/handler"
	"github.com/cockroachdb/rwsched/internal/config"
	"github.com/cockroachdb/rwsched/internal/service"
	"github.com/cockroachdb/rwsched/rwqueue"
)

// execute runs a root command assembled like main's.
func execute(t *testing.T, serverURL string, args ...string) (string, error) {
	t.Helper()
	ctx := context.Background()
	cfg := &config.Config{}
	root := &cobra.Command{
		Use:           "rwsched",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return cfg.Preflight()
		},
	}
	cfg.Bind(root.PersistentFlags())
	root.AddCommand(
		Enqueue{Writer: false}.Command(ctx, cfg),
		Enqueue{Writer: true}.Command(ctx, cfg),
		Drain{}.Command(ctx, cfg),
		Status{}.Command(ctx, cfg),
		Version{}.Command(),
	)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(append(args,
		"--server", serverURL,
		"--retry-limit", "1",
		"--retry-base", "1ms",
		"--retry-max", "1ms",
		"--log-level", "error",
	))
	err := root.Execute()
	return out.String(), err
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger, _ := test.NewNullLogger()
	svc := service.New(&config.Config{
		Scheduler: config.Scheduler{IdleDelay: time.Millisecond, ReaderParallelism: 1},
		Workload:  config.Workload{ReaderWork: time.Millisecond, WriterWork: time.Millisecond},
	}, logger)
	s := api.New(config.TestEnv, logger)
	s.SetupAPIRoutes(handler.New(svc))
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestCommands(t *testing.T) {
	r := require.New(t)
	srv := newTestServer(t)

	out, err := execute(t, srv.URL, "reader", "-n", "3")
	r.NoError(err)
	r.Equal(3, bytes.Count([]byte(out), []byte("reader ")))

	_, err = execute(t, srv.URL, "writer")
	r.NoError(err)

	out, err = execute(t, srv.URL, "status")
	r.NoError(err)
	var status service.Snapshot
	r.NoError(json.Unmarshal([]byte(out), &status))
	r.Equal(service.Snapshot{ReadersInQueue: 3, WritersInQueue: 1}, status)

	out, err = execute(t, srv.URL, "drain", "optimized")
	r.NoError(err)
	r.Equal("Processed queue in optimized mode.\n", out)

	out, err = execute(t, srv.URL, "version")
	r.NoError(err)
	r.Contains(out, "rwsched v")
}

func TestDrainRejectsModeLocally(t *testing.T) {
	r := require.New(t)
	// Nothing listens here; the mode is rejected before dialing.
	_, err := execute(t, "http://127.0.0.1:1", "drain", "bogus")
	r.ErrorIs(err, rwqueue.ErrInvalidMode)
}
