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
	"fmt"
)

var (
	// ErrInvalidDescriptor is returned when an extension descriptor is nil or fails validation.
	ErrInvalidDescriptor = errors.New("invalid extension descriptor")

	// ErrMissingExtensionID is returned when a descriptor has no ID.
	ErrMissingExtensionID = errors.New("the extension ID is required")

	// ErrEmptyManifest is returned when a manifest payload holds nothing.
	ErrEmptyManifest = errors.New("empty manifest")

	// ErrNoExtension is returned when a manifest declares no extension.
	ErrNoExtension = errors.New("no extension found")

	// ErrDuplicateExtension indicates that an extension with the same ID is already registered.
	// The registry logs it and ignores the registration; it is never returned to callers.
	ErrDuplicateExtension = errors.New("extension already registered")

	// ErrInvalidExtensionID is returned when an extension ID does not match the accepted pattern.
	// A valid ID starts with an alphanumeric character ([a-zA-Z0-9]) followed by word characters,
	// hyphens, dots or slashes, and is at most 255 characters long.
	ErrInvalidExtensionID = errors.New("invalid extension ID, must start with [a-zA-Z0-9] and contain only [a-zA-Z0-9-_./]")

	// ErrBundleFetch wraps the failure of a single bundle source. It is isolated: the load
	// cycle logs it and moves on to the next source.
	ErrBundleFetch = errors.New("failed to fetch extension bundle")

	// ErrLoadCycle is the failure of a load cycle outside of the per-bundle handling.
	// The registry may stay partially loaded and not initialized.
	ErrLoadCycle = errors.New("extension load cycle failed")

	// ErrLoadSuperseded is the failure of a load cycle whose registry was cleared
	// before the cycle completed.
	ErrLoadSuperseded = errors.New("extension load cycle superseded by a registry clear")

	// ErrSourceNotInitialized is returned when a bundle source is used before it has been initialized.
	ErrSourceNotInitialized = errors.New("bundle source is not initialized")

	// ErrInvalidConfig is returned when a configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnknownSourceType is returned when a bundle source type is not supported.
	ErrUnknownSourceType = errors.New("unknown bundle source type")

	// ErrInvalidManifest is returned when a bundle manifest cannot be decoded.
	ErrInvalidManifest = errors.New("invalid extension manifest")

	// ErrNotReady is returned when the registry has not completed its load cycle.
	ErrNotReady = errors.New("extensions are not loaded yet")
)

// NewErrBundleFetch formats an ErrBundleFetch with the given source ID and cause.
func NewErrBundleFetch(sourceID string, err error) error {
	return fmt.Errorf("(source=%s) %w: %w", sourceID, ErrBundleFetch, err)
}

// NewErrInvalidDescriptor wraps the validation failure of the given extension.
func NewErrInvalidDescriptor(id string, err error) error {
	if err == nil {
		return fmt.Errorf("(extension=%s) %w", id, ErrInvalidDescriptor)
	}
	return fmt.Errorf("(extension=%s) %w: %w", id, ErrInvalidDescriptor, err)
}

// NewErrUnknownSourceType formats an ErrUnknownSourceType with the given type name.
func NewErrUnknownSourceType(kind string) error {
	return fmt.Errorf("type=(%s) %w", kind, ErrUnknownSourceType)
}

// NewErrInvalidManifest formats an ErrInvalidManifest with the manifest location.
func NewErrInvalidManifest(location string, err error) error {
	return fmt.Errorf("(manifest=%s) %w: %w", location, ErrInvalidManifest, err)
}

// PanicError wraps a value recovered from a panic.
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError from a recovered value
func NewPanicError(recovered any) *PanicError {
	if err, ok := recovered.(error); ok {
		return &PanicError{err: fmt.Errorf("panic: %w", err)}
	}
	return &PanicError{err: fmt.Errorf("panic: %v", recovered)}
}

// Error implements the standard error interface
func (p *PanicError) Error() string {
	return p.err.Error()
}

// Unwrap returns the underlying error
func (p *PanicError) Unwrap() error {
	return p.err
}
