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

package redis

import (
	"time"

	"github.com/diaoyongbao/fe-sub001/internal/validation"
)

// Config represents the Redis source configuration
type Config struct {
	// Addr is the redis server address in the form host:port
	Addr string
	// Username for ACL authentication (optional)
	Username string
	// Password for authentication (optional)
	Password string
	// DB is the logical database
	DB int
	// Key is the hash holding one manifest per field
	Key string
	// Timeout bounds every redis command. Defaults to 3s.
	Timeout time.Duration
	// MaxRetries is the number of ping attempts before giving up. Defaults to 3.
	MaxRetries int
}

// Validate checks whether the given configuration is valid
func (x Config) Validate() error {
	return validation.New(validation.FailFast()).
		AddValidator(validation.NewEmptyStringValidator("Addr", x.Addr)).
		AddValidator(validation.NewEmptyStringValidator("Key", x.Key)).
		AddAssertion(x.DB >= 0, "DB must not be negative").
		Validate()
}
