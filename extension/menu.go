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

package extension

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/diaoyongbao/fe-sub001/internal/validation"
)

// MenuNode is a node of a navigation tree.
//
// Key is unique among its siblings only. A non-empty Role restricts the node to
// users holding at least one of the listed roles.
type MenuNode struct {
	Key        string      `json:"key"`
	Label      string      `json:"label,omitempty"`
	Icon       string      `json:"icon,omitempty"`
	Children   []*MenuNode `json:"children,omitempty"`
	Role       []string    `json:"role,omitempty"`
	Order      *int        `json:"order,omitempty"`
	Deprecated bool        `json:"deprecated,omitempty"`
}

// SortOrder returns Order or DefaultMenuOrder when unset.
func (m *MenuNode) SortOrder() int {
	if m.Order == nil {
		return DefaultMenuOrder
	}
	return *m.Order
}

// HasChildren reports whether the node has at least one child.
func (m *MenuNode) HasChildren() bool {
	return len(m.Children) > 0
}

// WithChildren returns a shallow copy of the node holding the given children.
// The receiver is left untouched.
func (m *MenuNode) WithChildren(children []*MenuNode) *MenuNode {
	clone := *m
	clone.Children = children
	return &clone
}

func (m *MenuNode) validate(path string) error {
	err := validation.NewEmptyStringValidator(path+".key", m.Key).Validate()
	for i, child := range m.Children {
		if child == nil {
			err = multierr.Append(err, fmt.Errorf("%s.children[%d] is nil", path, i))
			continue
		}
		err = multierr.Append(err, child.validate(fmt.Sprintf("%s.children[%d]", path, i)))
	}
	return err
}
