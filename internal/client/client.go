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

// Package client calls a running rwsched server.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"

	"github.com/cockroachdb/field-eng-powertools/stopper"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/cockroachdb/rwsched/internal/config"
	"github.com/cockroachdb/rwsched/internal/service"
	"github.com/cockroachdb/rwsched/retry"
	"github.com/cockroachdb/rwsched/version"
)

// StatusError is returned when the server answers with a non-200 code.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// Client issues requests against the readerwriter routes.
type Client struct {
	base   *url.URL
	cfg    config.Client
	http   *http.Client
	logger *logrus.Logger
}

// New constructs a Client.
func New(cfg config.Client, logger *logrus.Logger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "server URL")
	}
	return &Client{
		base:   base,
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}, nil
}

type queued struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// AddReader queues a demo reader item and returns its id.
func (c *Client) AddReader(ctx context.Context) (string, error) {
	var out queued
	err := c.do(ctx, http.MethodPost, "api/readerwriter/addReader", &out)
	return out.ID, err
}

// AddWriter queues a demo writer item and returns its id.
func (c *Client) AddWriter(ctx context.Context) (string, error) {
	var out queued
	err := c.do(ctx, http.MethodPost, "api/readerwriter/addWriter", &out)
	return out.ID, err
}

// Process drains the server's queues using the named mode and returns
// the server's message.
func (c *Client) Process(ctx context.Context, mode string) (string, error) {
	var out queued
	err := c.do(ctx, http.MethodPost, "api/readerwriter/processQueue/"+url.PathEscape(mode), &out)
	return out.Message, err
}

// Status returns the server's pending and executed item counts.
func (c *Client) Status(ctx context.Context) (service.Snapshot, error) {
	var out service.Snapshot
	err := c.do(ctx, http.MethodGet, "api/readerwriter/status", &out)
	return out, err
}

// Version returns the server's build version.
func (c *Client) Version(ctx context.Context) (*version.BuildVersion, error) {
	var out struct {
		Version string `json:"version"`
	}
	if err := c.do(ctx, http.MethodGet, "api/version", &out); err != nil {
		return nil, err
	}
	return version.Parse(out.Version)
}

// CheckVersion returns an error if the server cannot be driven by this
// client.
func (c *Client) CheckVersion(ctx context.Context) error {
	server, err := c.Version(ctx)
	if err != nil {
		return err
	}
	if !server.Compatible(version.Current()) {
		return errors.Errorf("server %s is not compatible with client %s", server, version.Current())
	}
	return nil
}

// do sends the request, retrying while the server cannot be dialed.
// Requests that reached the server are never repeated.
func (c *Client) do(ctx context.Context, method, path string, out any) error {
	backoff, err := retry.NewExpBackoff(c.cfg.RetryBase, c.cfg.RetryMax, c.cfg.RetryLimit)
	if err != nil {
		return err
	}
	target := c.base.ResolveReference(&url.URL{Path: path})

	stop := stopper.WithContext(ctx)
	defer stop.Stop(0)

	err = retry.Retry(stop, backoff, func(ctx *stopper.Context) error {
		req, err := http.NewRequestWithContext(ctx, method, target.String(), nil)
		if err != nil {
			return errors.WithStack(err)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			var opErr *net.OpError
			if errors.As(err, &opErr) && opErr.Op == "dial" {
				c.logger.WithError(err).Debugf("retrying %s %s", method, target)
				return retry.Retriable(err)
			}
			return errors.Wrapf(err, "%s %s", method, target)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return errors.Wrap(err, "read response")
		}
		if resp.StatusCode != http.StatusOK {
			var failure struct {
				Error string `json:"error"`
			}
			if json.Unmarshal(body, &failure) != nil || failure.Error == "" {
				failure.Error = http.StatusText(resp.StatusCode)
			}
			return &StatusError{Code: resp.StatusCode, Message: failure.Error}
		}
		return errors.Wrap(json.Unmarshal(body, out), "decode response")
	})
	if errors.Is(err, retry.ErrMaxRetries) {
		c.logger.WithError(err).Warnf("giving up on %s %s after %d retries", method, target, backoff.Attempts())
	}
	return err
}
