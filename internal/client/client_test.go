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

package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/cockroachdb/rwsched/internal/api"
	"github.com/cockroachdb/rwsched/internal/api/handler"
	"github.com/cockroachdb/rwsched/internal/config"
	"github.com/cockroachdb/rwsched/internal/service"
	"github.com/cockroachdb/rwsched/retry"
)

func clientConfig(baseURL string) config.Client {
	return config.Client{
		BaseURL:    baseURL,
		Timeout:    10 * time.Second,
		RetryBase:  time.Millisecond,
		RetryMax:   2 * time.Millisecond,
		RetryLimit: 2,
	}
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

func TestRoundTrip(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()
	srv := newTestServer(t)
	logger, _ := test.NewNullLogger()
	c, err := New(clientConfig(srv.URL), logger)
	r.NoError(err)

	r.NoError(c.CheckVersion(ctx))

	id, err := c.AddReader(ctx)
	r.NoError(err)
	r.NotEmpty(id)
	_, err = c.AddWriter(ctx)
	r.NoError(err)

	status, err := c.Status(ctx)
	r.NoError(err)
	r.Equal(service.Snapshot{ReadersInQueue: 1, WritersInQueue: 1}, status)

	_, err = c.Process(ctx, "bogus")
	var statusErr *StatusError
	r.ErrorAs(err, &statusErr)
	r.Equal(http.StatusBadRequest, statusErr.Code)
	r.Contains(statusErr.Message, "invalid mode")

	msg, err := c.Process(ctx, "writer")
	r.NoError(err)
	r.Equal("Processed queue in writer mode.", msg)

	status, err = c.Status(ctx)
	r.NoError(err)
	r.Equal(service.Snapshot{ExecutedReaders: 1, ExecutedWriters: 1}, status)
}

func TestUnreachableServer(t *testing.T) {
	r := require.New(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	logger, hook := test.NewNullLogger()
	c, err := New(clientConfig(url), logger)
	r.NoError(err)

	_, err = c.Status(context.Background())
	r.True(errors.Is(err, retry.ErrMaxRetries), "%v", err)

	last := hook.LastEntry()
	r.NotNil(last)
	r.Equal(logrus.WarnLevel, last.Level)
	r.Contains(last.Message, "after 2 retries")
}
