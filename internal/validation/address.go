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

package validation

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// ListenAddressValidator validates a host:port pair a server can bind to.
// Unlike a dial address the host part may be empty.
type ListenAddressValidator struct {
	address string
}

var _ Validator = (*ListenAddressValidator)(nil)

// NewListenAddressValidator creates an instance of ListenAddressValidator
func NewListenAddressValidator(address string) *ListenAddressValidator {
	return &ListenAddressValidator{address: address}
}

// Validate implements Validator.
func (a *ListenAddressValidator) Validate() error {
	_, port, err := net.SplitHostPort(strings.TrimSpace(a.address))
	if err != nil {
		return fmt.Errorf("invalid address=(%s): %w", a.address, err)
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("invalid address=(%s): %w", a.address, err)
	}

	if portNum < 0 || portNum > 65535 {
		return fmt.Errorf("invalid address=(%s): port out of range", a.address)
	}
	return nil
}

// URLValidator checks that a value is an absolute URL with one of the allowed schemes
type URLValidator struct {
	raw     string
	schemes []string
}

var _ Validator = (*URLValidator)(nil)

// NewURLValidator creates an instance of URLValidator
func NewURLValidator(raw string, schemes ...string) *URLValidator {
	return &URLValidator{raw: raw, schemes: schemes}
}

// Validate implements Validator.
func (u *URLValidator) Validate() error {
	parsed, err := url.Parse(strings.TrimSpace(u.raw))
	if err != nil {
		return fmt.Errorf("invalid url=(%s): %w", u.raw, err)
	}

	if parsed.Host == "" {
		return fmt.Errorf("invalid url=(%s): missing host", u.raw)
	}

	if len(u.schemes) == 0 {
		return nil
	}

	for _, scheme := range u.schemes {
		if strings.EqualFold(parsed.Scheme, scheme) {
			return nil
		}
	}
	return fmt.Errorf("invalid url=(%s): scheme must be one of %v", u.raw, u.schemes)
}
