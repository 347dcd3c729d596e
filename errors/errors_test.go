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

package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	t.Run("With bundle fetch error", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := NewErrBundleFetch("http:https://example.com/ext.yaml", cause)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrBundleFetch)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "source=http:https://example.com/ext.yaml")
	})
	t.Run("With invalid descriptor error", func(t *testing.T) {
		err := NewErrInvalidDescriptor("mysql", nil)
		assert.ErrorIs(t, err, ErrInvalidDescriptor)
		assert.EqualError(t, err, "(extension=mysql) invalid extension descriptor")

		cause := errors.New("the [ID] is required")
		err = NewErrInvalidDescriptor("", cause)
		assert.ErrorIs(t, err, ErrInvalidDescriptor)
		assert.ErrorIs(t, err, cause)
	})
	t.Run("With unknown source type", func(t *testing.T) {
		err := NewErrUnknownSourceType("ftp")
		assert.ErrorIs(t, err, ErrUnknownSourceType)
		assert.EqualError(t, err, "type=(ftp) unknown bundle source type")
	})
	t.Run("With invalid manifest", func(t *testing.T) {
		cause := errors.New("yaml: line 1")
		err := NewErrInvalidManifest("ext.yaml", cause)
		assert.ErrorIs(t, err, ErrInvalidManifest)
		assert.ErrorIs(t, err, cause)
	})
	t.Run("With panic error", func(t *testing.T) {
		cause := errors.New("boom")
		err := NewPanicError(cause)
		assert.EqualError(t, err, "panic: boom")
		assert.ErrorIs(t, err, cause)

		err = NewPanicError("kaboom")
		assert.EqualError(t, err, "panic: kaboom")
	})
}
