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

// Package file reads extension manifests from a local directory.
//
// Every .yaml, .yml and .json file is a manifest. A manifest may be compressed,
// in which case its name ends with .br (Brotli) or .zst (Zstandard). Files are
// registered in lexical order of their path.
package file

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/multierr"

	"github.com/diaoyongbao/fe-sub001/bundle"
	"github.com/diaoyongbao/fe-sub001/errors"
	"github.com/diaoyongbao/fe-sub001/log"
)

// Source reads manifests from a directory.
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
	return "file:" + s.config.Dir
}

// FetchAndRegister reads every manifest of the directory and registers it.
func (s *Source) FetchAndRegister(ctx context.Context, registrar bundle.Registrar) error {
	if err := s.config.Validate(); err != nil {
		return multierr.Append(errors.ErrInvalidConfig, err)
	}

	// payloads are de-duplicated within a single fetch
	decoder := bundle.NewDecoder()

	paths, err := s.manifests()
	if err != nil {
		return err
	}

	s.logger.Debugf("source=(%s) found %d manifests", s.ID(), len(paths))

	var errs error
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}

		payload, err := os.ReadFile(path)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}

		errs = multierr.Append(errs, decoder.RegisterEntries(registrar, s.logger, bundle.Entry{
			Location: path,
			Payload:  payload,
		}))
	}
	return errs
}

func (s *Source) manifests() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.config.Dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() {
			if path != s.config.Dir && !s.config.Recursive {
				return filepath.SkipDir
			}
			return nil
		}

		if bundle.IsManifest(entry.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}
