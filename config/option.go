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

package config

import "time"

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a Config.
	Apply(config *Config)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(config *Config)

// Apply applies the Config's option
func (f OptionFunc) Apply(config *Config) {
	f(config)
}

// WithListenAddr sets the HTTP API address
func WithListenAddr(addr string) Option {
	return OptionFunc(func(config *Config) {
		config.ListenAddr = addr
	})
}

// WithLogLevel sets the log level
func WithLogLevel(level string) Option {
	return OptionFunc(func(config *Config) {
		config.LogLevel = level
	})
}

// WithSettleDelay sets the pause at the end of a load cycle
func WithSettleDelay(delay time.Duration) Option {
	return OptionFunc(func(config *Config) {
		config.SettleDelay.Duration = delay
	})
}

// WithFetchTimeout bounds every bundle source fetch
func WithFetchTimeout(timeout time.Duration) Option {
	return OptionFunc(func(config *Config) {
		config.FetchTimeout.Duration = timeout
	})
}

// WithBuiltinMenu sets the path of the built-in menu tree
func WithBuiltinMenu(path string) Option {
	return OptionFunc(func(config *Config) {
		config.BuiltinMenu = path
	})
}

// WithSources appends bundle sources
func WithSources(sources ...SourceConfig) Option {
	return OptionFunc(func(config *Config) {
		config.Sources = append(config.Sources, sources...)
	})
}
