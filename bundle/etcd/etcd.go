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

// Package etcd reads extension manifests from etcd.
//
// Every key under the configured prefix holds one manifest. Keys are
// registered in ascending key order.
package etcd

import (
	"context"
	"errors"
	"fmt"

	clientv3 "go.etcd.io/etcd/client/v3"
	"go.uber.org/multierr"

	"github.com/diaoyongbao/fe-sub001/bundle"
	gerrors "github.com/diaoyongbao/fe-sub001/errors"
	"github.com/diaoyongbao/fe-sub001/log"
)

// Source reads manifests from an etcd key prefix.
type Source struct {
	config *Config
	logger log.Logger
}

// enforce compilation error
var _ bundle.Source = (*Source)(nil)

// NewSource creates an instance of Source
func NewSource(config *Config, opts ...Option) *Source {
	config.Sanitize()
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
	return "etcd:" + s.config.location()
}

// FetchAndRegister reads every key under the prefix and registers its manifest.
func (s *Source) FetchAndRegister(ctx context.Context, registrar bundle.Registrar) (err error) {
	if err := s.config.Validate(); err != nil {
		return multierr.Append(gerrors.ErrInvalidConfig, err)
	}

	client, err := clientv3.New(clientv3.Config{
		Endpoints:   s.config.Endpoints,
		DialTimeout: s.config.DialTimeout,
		TLS:         s.config.TLS,
		Username:    s.config.Username,
		Password:    s.config.Password,
		Context:     ctx,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close etcd client: %w", cerr))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	resp, err := client.Get(ctx, s.config.Prefix,
		clientv3.WithPrefix(),
		clientv3.WithSort(clientv3.SortByKey, clientv3.SortAscend))
	if err != nil {
		return fmt.Errorf("failed to read etcd prefix: %w", err)
	}

	entries := make([]bundle.Entry, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		entries = append(entries, bundle.Entry{
			Location: string(kv.Key),
			Payload:  kv.Value,
		})
	}

	s.logger.Debugf("source=(%s) found %d manifests", s.ID(), len(entries))
	return bundle.NewDecoder().RegisterEntries(registrar, s.logger, entries...)
}
