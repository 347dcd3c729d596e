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

package http

import (
	"time"

	"github.com/diaoyongbao/fe-sub001/internal/validation"
)

// Config represents the HTTP source configuration
type Config struct {
	// URLs are the manifest locations, fetched in order
	URLs []string
	// Headers are added to every request, e.g. an authorization token
	Headers map[string]string
	// Timeout bounds every request. Zero means the client default.
	Timeout time.Duration
	// H2C speaks HTTP/2 over cleartext connections
	H2C bool
}

// Validate checks whether the given configuration is valid
func (x Config) Validate() error {
	chain := validation.New(validation.FailFast()).
		AddAssertion(len(x.URLs) > 0, "URLs are required")

	for _, url := range x.URLs {
		chain = chain.AddValidator(validation.NewURLValidator(url, "http", "https"))
	}
	return chain.Validate()
}
