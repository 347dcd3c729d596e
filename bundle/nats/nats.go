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

// Package nats reads extension manifests from a NATS JetStream key-value bucket.
//
// Every key of the bucket holds one manifest. A key ending with .br or .zst
// holds a compressed manifest. Keys are registered in lexical order.
package nats

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/multierr"

	"github.com/diaoyongbao/fe-sub001/bundle"
	gerrors "github.com/diaoyongbao/fe-sub001/errors"
	"github.com/diaoyongbao/fe-sub001/log"
)

const (
	defaultTimeout    = time.Second
	defaultMaxRetries = 5
)

// Source reads manifests from a JetStream key-value bucket.
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
	return "nats:" + s.config.NatsServer + "/" + s.config.Bucket
}

// FetchAndRegister reads every key of the bucket and registers its manifest.
func (s *Source) FetchAndRegister(ctx context.Context, registrar bundle.Registrar) error {
	if err := s.config.Validate(); err != nil {
		return multierr.Append(gerrors.ErrInvalidConfig, err)
	}

	// payloads are de-duplicated within a single fetch
	decoder := bundle.NewDecoder()

	connection, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer connection.Close()

	js, err := jetstream.New(connection)
	if err != nil {
		return err
	}

	kv, err := js.KeyValue(ctx, s.config.Bucket)
	if err != nil {
		return err
	}

	lister, err := kv.ListKeys(ctx)
	if err != nil {
		return err
	}

	var keys []string
	for key := range lister.Keys() {
		keys = append(keys, key)
	}
	_ = lister.Stop()
	sort.Strings(keys)

	s.logger.Debugf("source=(%s) found %d manifests", s.ID(), len(keys))

	var errs error
	for _, key := range keys {
		entry, err := kv.Get(ctx, key)
		if err != nil {
			if errors.Is(err, jetstream.ErrKeyNotFound) {
				// deleted since listed
				continue
			}
			errs = multierr.Append(errs, err)
			continue
		}

		errs = multierr.Append(errs, decoder.RegisterEntries(registrar, s.logger, bundle.Entry{
			Location: key,
			Payload:  entry.Value(),
		}))
	}
	return errs
}

func (s *Source) connect(ctx context.Context) (*nats.Conn, error) {
	timeout := s.config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	maxRetries := s.config.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	opts := nats.GetDefaultOptions()
	opts.Url = s.config.NatsServer
	opts.Name = "console-extensions"
	opts.Timeout = timeout
	opts.ReconnectWait = 2 * time.Second
	opts.MaxReconnect = -1

	var connection *nats.Conn
	// exponential backoff starting at 100ms, capped at the reconnect wait
	retrier := retry.NewRetrier(maxRetries, 100*time.Millisecond, opts.ReconnectWait)
	err := retrier.RunContext(ctx, func(context.Context) error {
		var err error
		connection, err = opts.Connect()
		return err
	})
	if err != nil {
		return nil, err
	}
	return connection, nil
}
