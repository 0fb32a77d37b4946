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

// Package config holds the process configuration of rwsched.
package config

import (
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/cockroachdb/rwsched/rwqueue"
)

// AppEnv names the deployment environment.
type AppEnv string

// The known environments.
const (
	ProductionEnv AppEnv = "production"
	StageEnv      AppEnv = "stage"
	DevelopEnv    AppEnv = "develop"
	LocalEnv      AppEnv = "local"
	TestEnv       AppEnv = "test"
)

type (
	// Config is bound to command-line flags by [Config.Bind] and
	// validated by [Config.Preflight].
	Config struct {
		AppEnv    AppEnv
		LogLevel  logrus.Level
		HTTP      HTTP
		Scheduler Scheduler
		Workload  Workload
		Client    Client

		appEnv   string
		logLevel string
	}

	// HTTP configures the request layer.
	HTTP struct {
		BindAddr      string
		ShutdownGrace time.Duration
	}

	// Scheduler configures the rwqueue.Scheduler.
	Scheduler struct {
		IdleDelay         time.Duration
		ReaderParallelism int
	}

	// Workload configures the demo items queued by the request layer.
	Workload struct {
		ReaderWork time.Duration
		WriterWork time.Duration
	}

	// Client configures the commands that call a running server.
	Client struct {
		BaseURL    string
		Timeout    time.Duration
		RetryBase  time.Duration
		RetryMax   time.Duration
		RetryLimit int
	}
)

// Bind registers flags for every configurable field.
func (c *Config) Bind(flags *pflag.FlagSet) {
	flags.StringVar(&c.appEnv, "env", string(LocalEnv),
		"deployment environment: production, stage, develop, local or test")
	flags.StringVar(&c.logLevel, "log-level", logrus.InfoLevel.String(),
		"log verbosity: trace, debug, info, warn or error")

	flags.StringVar(&c.HTTP.BindAddr, "bind-addr", ":8080",
		"the network address the server listens on")
	flags.DurationVar(&c.HTTP.ShutdownGrace, "shutdown-grace", 5*time.Second,
		"how long in-flight requests may run after a shutdown signal")

	flags.DurationVar(&c.Scheduler.IdleDelay, "idle-delay", rwqueue.DefaultIdleDelay,
		"the pause between passes of the reader and writer drain policies")
	flags.IntVar(&c.Scheduler.ReaderParallelism, "reader-parallelism", 1,
		"the number of reader items the reader policy may execute at once")

	flags.DurationVar(&c.Workload.ReaderWork, "reader-work", 100*time.Millisecond,
		"how long each demo reader item takes")
	flags.DurationVar(&c.Workload.WriterWork, "writer-work", 2*time.Second,
		"how long each demo writer item takes")

	flags.StringVar(&c.Client.BaseURL, "server", "http://127.0.0.1:8080",
		"the base URL of a running rwsched server")
	flags.DurationVar(&c.Client.Timeout, "request-timeout", 5*time.Minute,
		"the upper bound on a single request to the server")
	flags.DurationVar(&c.Client.RetryBase, "retry-base", 100*time.Millisecond,
		"the initial delay before retrying an unreachable server")
	flags.DurationVar(&c.Client.RetryMax, "retry-max", 2*time.Second,
		"the maximum delay between retries")
	flags.IntVar(&c.Client.RetryLimit, "retry-limit", 5,
		"the number of retries against an unreachable server; 0 retries forever")
}

// Preflight parses and validates the bound values.
func (c *Config) Preflight() error {
	switch env := AppEnv(c.appEnv); env {
	case ProductionEnv, StageEnv, DevelopEnv, LocalEnv, TestEnv:
		c.AppEnv = env
	case "":
		c.AppEnv = LocalEnv
	default:
		return errors.Errorf("unknown environment %q", c.appEnv)
	}

	if c.logLevel == "" {
		c.LogLevel = logrus.InfoLevel
	} else {
		lvl, err := logrus.ParseLevel(c.logLevel)
		if err != nil {
			return errors.Wrap(err, "log-level")
		}
		c.LogLevel = lvl
	}

	if c.HTTP.BindAddr == "" {
		return errors.New("bind-addr must be set")
	}
	if c.HTTP.ShutdownGrace < 0 {
		return errors.New("shutdown-grace must not be negative")
	}
	if c.Scheduler.ReaderParallelism < 1 {
		return errors.Errorf("reader-parallelism must be at least 1, got %d", c.Scheduler.ReaderParallelism)
	}
	if c.Workload.ReaderWork < 0 || c.Workload.WriterWork < 0 {
		return errors.New("reader-work and writer-work must not be negative")
	}

	u, err := url.Parse(c.Client.BaseURL)
	if err != nil {
		return errors.Wrap(err, "server")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.Errorf("server URL %q must use http or https", c.Client.BaseURL)
	}
	if c.Client.RetryLimit < 0 {
		return errors.New("retry-limit must not be negative")
	}
	return nil
}

// SchedulerOptions returns the options for a rwqueue.Scheduler.
func (c *Config) SchedulerOptions(events *rwqueue.Events) *rwqueue.Options {
	return &rwqueue.Options{
		Events:            events,
		IdleDelay:         c.Scheduler.IdleDelay,
		ReaderParallelism: c.Scheduler.ReaderParallelism,
	}
}

// NewLogger builds the process logger. Production environments log JSON.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(c.LogLevel)
	if c.AppEnv == ProductionEnv {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
