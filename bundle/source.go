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

// Package bundle defines how extension bundles are discovered and fetched.
//
// A Source knows where a set of bundles lives and registers the descriptors
// they contribute into a Registrar. The sub-packages implement Source on top of
// in-process code, files, HTTP and several key-value stores.
package bundle

import (
	"context"

	"github.com/diaoyongbao/fe-sub001/extension"
)

// Registrar receives the descriptors produced by a Source.
// *registry.Registry implements it.
type Registrar interface {
	Register(descriptor *extension.Descriptor) error
}

// Source fetches extension bundles and registers their descriptors.
type Source interface {
	// ID identifies the source. The loader fetches a given ID at most once per cycle.
	ID() string
	// FetchAndRegister fetches the bundles and registers every descriptor they
	// hold into registrar. A returned error only affects this source.
	FetchAndRegister(ctx context.Context, registrar Registrar) error
}
