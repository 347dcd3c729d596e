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

// Package bolt reads extension manifests from a bbolt database.
//
// Every key of the configured bucket holds one manifest. Keys are registered
// in byte order. The database is opened read-only while fetching so several
// console instances can share the same file; Put is the write side used by
// tooling.
package bolt

import (
	"context"
	"errors"
	"fmt"
	"os"

	bbolt "go.etcd.io/bbolt"
	"go.uber.org/multierr"

	"github.com/diaoyongbao/fe-sub001/bundle"
	gerrors "github.com/diaoyongbao/fe-sub001/errors"
	"github.com/diaoyongbao/fe-sub001/log"
)

const fileMode os.FileMode = 0o600

// Source reads manifests from a bbolt bucket.
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
	return "bolt:" + s.config.Path + "#" + s.config.Bucket
}

// FetchAndRegister reads every key of the bucket and registers its manifest.
func (s *Source) FetchAndRegister(ctx context.Context, registrar bundle.Registrar) error {
	if err := s.config.Validate(); err != nil {
		return multierr.Append(gerrors.ErrInvalidConfig, err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	db, err := bbolt.Open(s.config.Path, fileMode, &bbolt.Options{
		Timeout:  s.config.Timeout,
		ReadOnly: true,
	})
	if err != nil {
		return fmt.Errorf("failed to open boltdb: %w", err)
	}
	defer db.Close()

	var entries []bundle.Entry
	err = db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(s.config.Bucket))
		if bucket == nil {
			return fmt.Errorf("bucket %q missing", s.config.Bucket)
		}

		return bucket.ForEach(func(key, value []byte) error {
			// nested buckets have a nil value
			if value == nil {
				return nil
			}
			// values are only valid for the life of the transaction
			payload := make([]byte, len(value))
			copy(payload, value)
			entries = append(entries, bundle.Entry{
				Location: string(key),
				Payload:  payload,
			})
			return nil
		})
	})
	if err != nil {
		return err
	}

	s.logger.Debugf("source=(%s) found %d manifests", s.ID(), len(entries))
	return bundle.NewDecoder().RegisterEntries(registrar, s.logger, entries...)
}

// Put stores payload under key in the configured bucket, creating the
// database and the bucket when missing.
func Put(ctx context.Context, config *Config, key string, payload []byte) error {
	config.Sanitize()
	if err := config.Validate(); err != nil {
		return multierr.Append(gerrors.ErrInvalidConfig, err)
	}

	if key == "" {
		return errors.New("the [key] is required")
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	db, err := bbolt.Open(config.Path, fileMode, &bbolt.Options{Timeout: config.Timeout})
	if err != nil {
		return fmt.Errorf("failed to open boltdb: %w", err)
	}
	defer db.Close()

	return db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(config.Bucket))
		if err != nil {
			return err
		}
		return bucket.Put([]byte(key), payload)
	})
}
