// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package redis reads extension manifests from a Redis hash.
//
// Every field of the hash holds one manifest. Fields are registered in lexical
// order.
package redis

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"

	"github.com/diaoyongbao/fe-sub001/bundle"
	"github.com/diaoyongbao/fe-sub001/errors"
	"github.com/diaoyongbao/fe-sub001/log"
)

const (
	defaultTimeout    = 3 * time.Second
	defaultMaxRetries = 3
)

// Source reads manifests from a Redis hash.
type Source struct {
	config *Config
	logger log.Logger
}

// enforce compilation error
var _ bundle.Source = (*Source)(nil)

// NewSource creates an instance of Source
func NewSource(config *Config, opts ...Option) *Source {
	source := &Source{
		config: config,
		logger: log.DefaultLogger,
	}

	for _, opt := range opts {
		opt.Apply(source)
	}
	return source
}

// ID returns the source identifier
func (s *Source) ID() string {
	return fmt.Sprintf("redis:%s/%d/%s", s.config.Addr, s.config.DB, s.config.Key)
}

// FetchAndRegister reads every field of the hash and registers its manifest.
func (s *Source) FetchAndRegister(ctx context.Context, registrar bundle.Registrar) error {
	if err := s.config.Validate(); err != nil {
		return multierr.Append(errors.ErrInvalidConfig, err)
	}

	timeout := s.config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	maxRetries := s.config.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	client := redis.NewClient(&redis.Options{
		Addr:         s.config.Addr,
		Username:     s.config.Username,
		Password:     s.config.Password,
		DB:           s.config.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})
	defer client.Close()

	retrier := retry.NewRetrier(maxRetries, 100*time.Millisecond, time.Second)
	if err := retrier.RunContext(ctx, func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}); err != nil {
		return fmt.Errorf("failed to reach redis: %w", err)
	}

	values, err := client.HGetAll(ctx, s.config.Key).Result()
	if err != nil {
		return fmt.Errorf("failed to read redis hash: %w", err)
	}

	fields := make([]string, 0, len(values))
	for field := range values {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	entries := make([]bundle.Entry, 0, len(fields))
	for _, field := range fields {
		entries = append(entries, bundle.Entry{
			Location: field,
			Payload:  []byte(values[field]),
		})
	}

	s.logger.Debugf("source=(%s) found %d manifests", s.ID(), len(entries))
	return bundle.NewDecoder().RegisterEntries(registrar, s.logger, entries...)
}
