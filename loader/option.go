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

package loader

import (
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/diaoyongbao/fe-sub001/eventstream"
	"github.com/diaoyongbao/fe-sub001/log"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a Loader.
	Apply(loader *Loader)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(loader *Loader)

// Apply applies the Loader's option
func (f OptionFunc) Apply(loader *Loader) {
	f(loader)
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(loader *Loader) {
		loader.logger = logger
	})
}

// WithSettleDelay sets the pause between the last fetch and the completion of
// the cycle. It gives bundles registering asynchronously a chance to finish.
// A negative value is ignored.
func WithSettleDelay(delay time.Duration) Option {
	return OptionFunc(func(loader *Loader) {
		if delay >= 0 {
			loader.settleDelay = delay
		}
	})
}

// WithFetchTimeout bounds every FetchAndRegister call. Zero disables it.
func WithFetchTimeout(timeout time.Duration) Option {
	return OptionFunc(func(loader *Loader) {
		if timeout >= 0 {
			loader.fetchTimeout = timeout
		}
	})
}

// WithEventStream sets the stream the completion event is published on
func WithEventStream(stream eventstream.Stream) Option {
	return OptionFunc(func(loader *Loader) {
		loader.eventStream = stream
	})
}

// WithMeter sets the meter of the loader instruments
func WithMeter(meter metric.Meter) Option {
	return OptionFunc(func(loader *Loader) {
		loader.meter = meter
	})
}
