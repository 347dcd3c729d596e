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
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	gerrors "github.com/diaoyongbao/fe-sub001/errors"
)

type validationTestSuite struct {
	suite.Suite
}

func TestValidation(t *testing.T) {
	suite.Run(t, new(validationTestSuite))
}

func (s *validationTestSuite) TestNewChain() {
	s.Run("new chain without option", func() {
		chain := New()
		s.Assert().NotNil(chain)
		s.Assert().False(chain.failFast)
	})
	s.Run("new chain with options", func() {
		chain := New(FailFast())
		s.Assert().True(chain.failFast)
		chain2 := New(AllErrors())
		s.Assert().False(chain2.failFast)
	})
}

func (s *validationTestSuite) TestValidate() {
	s.Run("with single validator", func() {
		err := New().
			AddValidator(NewEmptyStringValidator("field", "")).
			Validate()
		s.Assert().EqualError(err, "the [field] is required")
	})
	s.Run("with FailFast option", func() {
		err := New(FailFast()).
			AddValidator(NewEmptyStringValidator("field", "  ")).
			AddAssertion(false, "this is false").
			Validate()
		s.Assert().EqualError(err, "the [field] is required")
	})
	s.Run("with AllErrors option", func() {
		err := New(AllErrors()).
			AddValidator(NewEmptyStringValidator("field", "")).
			AddAssertion(false, "this is false").
			Validate()
		s.Assert().EqualError(err, "the [field] is required; this is false")
	})
	s.Run("with no violation", func() {
		err := New().
			AddValidator(NewEmptyStringValidator("field", "value")).
			AddAssertion(true, "never").
			Validate()
		s.Assert().NoError(err)
	})
}

func (s *validationTestSuite) TestBooleanValidator() {
	s.Assert().NoError(NewBooleanValidator(true, "error message").Validate())
	s.Assert().EqualError(NewBooleanValidator(false, "error message").Validate(), "error message")
}

func (s *validationTestSuite) TestPatternValidator() {
	pattern := regexp.MustCompile(`^[a-z]+$`)
	s.Assert().NoError(NewPatternValidator(pattern, "abc", nil).Validate())
	s.Assert().EqualError(NewPatternValidator(pattern, "ABC", nil).Validate(), "invalid expression")
	s.Assert().ErrorIs(NewPatternValidator(pattern, "ABC", gerrors.ErrInvalidConfig).Validate(), gerrors.ErrInvalidConfig)
}

func (s *validationTestSuite) TestIDValidator() {
	s.Run("with valid ids", func() {
		for _, id := range []string{"mysql", "ext-redis", "db_admin", "acme.io/mongo", "9lives"} {
			s.Assert().NoError(NewIDValidator(id).Validate(), id)
		}
	})
	s.Run("with empty id", func() {
		s.Assert().EqualError(NewIDValidator("").Validate(), "the [ID] is required")
	})
	s.Run("with invalid length", func() {
		s.Assert().Error(NewIDValidator(strings.Repeat("a", 300)).Validate())
	})
	s.Run("with invalid characters", func() {
		err := NewIDValidator("$omeN@me").Validate()
		s.Assert().ErrorIs(err, gerrors.ErrInvalidExtensionID)
	})
	s.Run("with leading hyphen", func() {
		s.Assert().ErrorIs(NewIDValidator("-ext").Validate(), gerrors.ErrInvalidExtensionID)
	})
}

func (s *validationTestSuite) TestListenAddressValidator() {
	s.Assert().NoError(NewListenAddressValidator("127.0.0.1:3222").Validate())
	s.Assert().NoError(NewListenAddressValidator(":8080").Validate())
	s.Assert().NoError(NewListenAddressValidator("0.0.0.0:0").Validate())
	s.Assert().Error(NewListenAddressValidator("127.0.0.1:-1").Validate())
	s.Assert().Error(NewListenAddressValidator("127.0.0.1:655387").Validate())
	s.Assert().Error(NewListenAddressValidator("localhost").Validate())
}

func (s *validationTestSuite) TestURLValidator() {
	s.Assert().NoError(NewURLValidator("https://cdn.example.com/ext.yaml", "http", "https").Validate())
	s.Assert().NoError(NewURLValidator("nats://127.0.0.1:4222").Validate())
	s.Assert().Error(NewURLValidator("ftp://example.com/ext.yaml", "http", "https").Validate())
	s.Assert().Error(NewURLValidator("/local/path").Validate())
}
