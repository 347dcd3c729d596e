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

// Package http downloads extension manifests over HTTP.
//
// The source advertises Brotli and Zstandard in Accept-Encoding and decodes the
// response according to its Content-Encoding.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/multierr"

	"github.com/diaoyongbao/fe-sub001/bundle"
	"github.com/diaoyongbao/fe-sub001/errors"
	"github.com/diaoyongbao/fe-sub001/internal/compression"
	inet "github.com/diaoyongbao/fe-sub001/internal/http"
	"github.com/diaoyongbao/fe-sub001/log"
)

// maxManifestSize bounds the size of a downloaded manifest
const maxManifestSize = 4 << 20

var acceptEncoding = strings.Join([]string{compression.Brotli, compression.Zstd, compression.Identity}, ", ")

// Source downloads manifests from a list of URLs.
type Source struct {
	config *Config
	client *http.Client
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

	if source.client == nil {
		if config.H2C {
			source.client = inet.NewH2CClient(config.Timeout)
		} else {
			source.client = inet.NewClient(config.Timeout)
		}
	}
	return source
}

// ID returns the source identifier
func (s *Source) ID() string {
	return "http:" + strings.Join(s.config.URLs, ",")
}

// FetchAndRegister downloads every manifest in order and registers it.
// A failing URL does not prevent the next ones from being fetched.
func (s *Source) FetchAndRegister(ctx context.Context, registrar bundle.Registrar) error {
	if err := s.config.Validate(); err != nil {
		return multierr.Append(errors.ErrInvalidConfig, err)
	}

	// payloads are de-duplicated within a single fetch
	decoder := bundle.NewDecoder()

	var errs error
	for _, url := range s.config.URLs {
		entry, err := s.fetch(ctx, url)
		if err != nil {
			s.logger.Warnf("source=(%s) failed to download %s: %v", s.ID(), url, err)
			errs = multierr.Append(errs, err)
			continue
		}
		errs = multierr.Append(errs, decoder.RegisterEntries(registrar, s.logger, entry))
	}
	return errs
}

func (s *Source) fetch(ctx context.Context, url string) (bundle.Entry, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return bundle.Entry{}, err
	}

	request.Header.Set("Accept", "application/yaml, application/json")
	request.Header.Set("Accept-Encoding", acceptEncoding)
	for key, value := range s.config.Headers {
		request.Header.Set(key, value)
	}

	response, err := s.client.Do(request)
	if err != nil {
		return bundle.Entry{}, err
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, response.Body)
		return bundle.Entry{}, fmt.Errorf("unexpected status %s", response.Status)
	}

	payload, err := io.ReadAll(io.LimitReader(response.Body, maxManifestSize+1))
	if err != nil {
		return bundle.Entry{}, err
	}

	if len(payload) > maxManifestSize {
		return bundle.Entry{}, fmt.Errorf("manifest exceeds %d bytes", maxManifestSize)
	}

	encoding := response.Header.Get("Content-Encoding")
	if encoding != "" && !compression.Supported(encoding) {
		return bundle.Entry{}, fmt.Errorf("unsupported content encoding %q", encoding)
	}

	return bundle.Entry{
		Location: request.URL.Path,
		Encoding: encoding,
		Payload:  payload,
	}, nil
}
