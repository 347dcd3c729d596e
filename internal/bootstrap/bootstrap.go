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

// Package bootstrap turns the configured sources into bundle sources.
package bootstrap

import (
	"context"

	"github.com/diaoyongbao/fe-sub001/bundle"
	"github.com/diaoyongbao/fe-sub001/bundle/bolt"
	"github.com/diaoyongbao/fe-sub001/bundle/consul"
	"github.com/diaoyongbao/fe-sub001/bundle/etcd"
	"github.com/diaoyongbao/fe-sub001/bundle/file"
	"github.com/diaoyongbao/fe-sub001/bundle/http"
	"github.com/diaoyongbao/fe-sub001/bundle/kubernetes"
	"github.com/diaoyongbao/fe-sub001/bundle/nats"
	"github.com/diaoyongbao/fe-sub001/bundle/redis"
	"github.com/diaoyongbao/fe-sub001/bundle/static"
	"github.com/diaoyongbao/fe-sub001/config"
	"github.com/diaoyongbao/fe-sub001/errors"
	"github.com/diaoyongbao/fe-sub001/log"
)

// Sources creates the bundle sources of cfg, in order.
func Sources(cfg *config.Config, logger log.Logger) ([]bundle.Source, error) {
	sources := make([]bundle.Source, 0, len(cfg.Sources))
	for _, sourceConfig := range cfg.Sources {
		source, err := NewSource(sourceConfig, logger)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}
	return sources, nil
}

// NewSource creates the bundle source described by sourceConfig.
func NewSource(sourceConfig config.SourceConfig, logger log.Logger) (bundle.Source, error) {
	source, err := newSource(sourceConfig, logger)
	if err != nil {
		return nil, err
	}

	if sourceConfig.ID != "" {
		return &identified{Source: source, id: sourceConfig.ID}, nil
	}
	return source, nil
}

func newSource(sc config.SourceConfig, logger log.Logger) (bundle.Source, error) {
	timeout := sc.Timeout.Duration
	switch sc.Type {
	case config.TypeStatic:
		return static.NewSource(&static.Config{
			Name:        sc.Name,
			Descriptors: sc.Descriptors,
		}, static.WithLogger(logger)), nil
	case config.TypeFile:
		return file.NewSource(&file.Config{
			Dir:       sc.Dir,
			Recursive: sc.Recursive,
		}, file.WithLogger(logger)), nil
	case config.TypeHTTP:
		return http.NewSource(&http.Config{
			URLs:    sc.URLs,
			Headers: sc.Headers,
			Timeout: timeout,
			H2C:     sc.H2C,
		}, http.WithLogger(logger)), nil
	case config.TypeNATS:
		return nats.NewSource(&nats.Config{
			NatsServer: sc.Server,
			Bucket:     sc.Bucket,
			Timeout:    timeout,
			MaxRetries: sc.MaxRetries,
		}, nats.WithLogger(logger)), nil
	case config.TypeConsul:
		return consul.NewSource(&consul.Config{
			Address:    sc.Address,
			Datacenter: sc.Datacenter,
			Token:      sc.Token,
			Prefix:     sc.Prefix,
			Timeout:    timeout,
		}, consul.WithLogger(logger)), nil
	case config.TypeEtcd:
		return etcd.NewSource(&etcd.Config{
			Endpoints: sc.Endpoints,
			Prefix:    sc.Prefix,
			Username:  sc.Username,
			Password:  sc.Password,
			Timeout:   timeout,
		}, etcd.WithLogger(logger)), nil
	case config.TypeRedis:
		return redis.NewSource(&redis.Config{
			Addr:       sc.Addr,
			Username:   sc.Username,
			Password:   sc.Password,
			DB:         sc.DB,
			Key:        sc.Key,
			Timeout:    timeout,
			MaxRetries: sc.MaxRetries,
		}, redis.WithLogger(logger)), nil
	case config.TypeKubernetes:
		return kubernetes.NewSource(&kubernetes.Config{
			Namespace: sc.Namespace,
			Labels:    sc.Labels,
		}, kubernetes.WithLogger(logger)), nil
	case config.TypeBolt:
		return bolt.NewSource(&bolt.Config{
			Path:    sc.Path,
			Bucket:  sc.Bucket,
			Timeout: timeout,
		}, bolt.WithLogger(logger)), nil
	default:
		return nil, errors.NewErrUnknownSourceType(sc.Type)
	}
}

// identified overrides the identifier of a source
type identified struct {
	bundle.Source
	id string
}

// enforce compilation error
var _ bundle.Source = (*identified)(nil)

func (x *identified) ID() string {
	return x.id
}

func (x *identified) FetchAndRegister(ctx context.Context, registrar bundle.Registrar) error {
	return x.Source.FetchAndRegister(ctx, registrar)
}
