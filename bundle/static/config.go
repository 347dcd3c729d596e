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

package static

import (
	"github.com/diaoyongbao/fe-sub001/extension"
	"github.com/diaoyongbao/fe-sub001/internal/validation"
)

// Bundle is an extension compiled into the host binary. It registers its
// descriptors when the source is fetched.
type Bundle func(registrar Registrar) error

// Config represents the static source configuration
type Config struct {
	// Name identifies the set of bundles
	Name string
	// Descriptors are registered as-is, in order
	Descriptors []*extension.Descriptor
	// Bundles are invoked in order after the descriptors
	Bundles []Bundle
}

// Validate checks whether the given configuration is valid
func (x Config) Validate() error {
	return validation.New(validation.FailFast()).
		AddValidator(validation.NewEmptyStringValidator("Name", x.Name)).
		AddAssertion(len(x.Descriptors)+len(x.Bundles) > 0, "descriptors or bundles are required").
		Validate()
}
