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

// Package consul reads extension manifests from the Consul KV store.
//
// Every key under the configured prefix holds one manifest. Keys are
// registered in the lexical order Consul returns them.
package consul

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/consul/api"
	"go.uber.org/multierr"

	"github.com/diaoyongbao/fe-sub001/bundle"
	"github.com/diaoyongbao/fe-sub001/errors"
	"github.com/diaoyongbao/fe-sub001/log"
)

// Source reads manifests from a Consul KV prefix.
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
	return "consul:" + s.config.Address + "/" + s.config.Prefix
}

// FetchAndRegister lists the keys under the prefix and registers their manifests.
func (s *Source) FetchAndRegister(ctx context.Context, registrar bundle.Registrar) error {
	if err := s.config.Validate(); err != nil {
		return multierr.Append(errors.ErrInvalidConfig, err)
	}

	consulConfig := api.DefaultConfig()
	consulConfig.Address = s.config.Address
	consulConfig.Datacenter = s.config.Datacenter
	consulConfig.Token = s.config.Token

	client, err := api.NewClient(consulConfig)
	if err != nil {
		return fmt.Errorf("failed to create consul client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	queryOptions := (&api.QueryOptions{Datacenter: s.config.Datacenter}).WithContext(ctx)
	pairs, _, err := client.KV().List(s.config.Prefix, queryOptions)
	if err != nil {
		return fmt.Errorf("failed to list consul keys: %w", err)
	}

	entries := make([]bundle.Entry, 0, len(pairs))
	for _, pair := range pairs {
		// folders are keys ending with a slash and holding no value
		if strings.HasSuffix(pair.Key, "/") || len(pair.Value) == 0 {
			continue
		}
		entries = append(entries, bundle.Entry{
			Location: pair.Key,
			Payload:  pair.Value,
		})
	}

	s.logger.Debugf("source=(%s) found %d manifests", s.ID(), len(entries))
	return bundle.NewDecoder().RegisterEntries(registrar, s.logger, entries...)
}
