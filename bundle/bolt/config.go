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

package bolt

import (
	"time"

	"github.com/diaoyongbao/fe-sub001/internal/validation"
)

// DefaultBucket is the bucket name used when none is configured.
const DefaultBucket = "extensions"

// Config represents the bbolt source configuration
type Config struct {
	// Path is the database file
	Path string
	// Bucket holds one manifest per key. Defaults to DefaultBucket.
	Bucket string
	// Timeout bounds the wait for the file lock. Defaults to 5s.
	Timeout time.Duration
}

// Sanitize sets the defaults.
func (x *Config) Sanitize() {
	if x.Bucket == "" {
		x.Bucket = DefaultBucket
	}
	if x.Timeout <= 0 {
		x.Timeout = 5 * time.Second
	}
}

// Validate checks whether the given configuration is valid
func (x *Config) Validate() error {
	return validation.New(validation.FailFast()).
		AddValidator(validation.NewEmptyStringValidator("Path", x.Path)).
		AddValidator(validation.NewEmptyStringValidator("Bucket", x.Bucket)).
		Validate()
}
