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
	"regexp"

	gerrors "github.com/diaoyongbao/fe-sub001/errors"
)

const maxIDLength = 255

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-_./]*$`)

// IDValidator validates extension identifiers
type IDValidator struct {
	id string
}

var _ Validator = (*IDValidator)(nil)

// NewIDValidator creates an instance of IDValidator
func NewIDValidator(id string) *IDValidator {
	return &IDValidator{id: id}
}

// Validate implements Validator.
func (x *IDValidator) Validate() error {
	return New(FailFast()).
		AddValidator(NewEmptyStringValidator("ID", x.id)).
		AddAssertion(len(x.id) <= maxIDLength, fmt.Sprintf("ID=(%s) exceeds %d characters", x.id, maxIDLength)).
		AddValidator(NewPatternValidator(idPattern, x.id, fmt.Errorf("ID=(%s): %w", x.id, gerrors.ErrInvalidExtensionID))).
		Validate()
}
