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

// Package menu filters the built-in navigation tree by user role.
package menu

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/diaoyongbao/fe-sub001/extension"
)

// Filter returns the groups of tree visible to a user holding roles.
//
// The tree is read two levels deep: top-level groups and their children.
// A group without children is dropped. A child is visible when it declares no
// role or shares at least one role with the user. A group is kept, as a new
// node holding only its visible children, when at least one child is visible.
// Order is preserved and tree is never modified.
func Filter(tree []*extension.MenuNode, roles []string) []*extension.MenuNode {
	held := mapset.NewThreadUnsafeSet(roles...)

	filtered := make([]*extension.MenuNode, 0, len(tree))
	for _, group := range tree {
		if group == nil || !group.HasChildren() {
			continue
		}

		children := make([]*extension.MenuNode, 0, len(group.Children))
		for _, child := range group.Children {
			if child != nil && Visible(child, held) {
				children = append(children, child)
			}
		}

		if len(children) > 0 {
			filtered = append(filtered, group.WithChildren(children))
		}
	}
	return filtered
}

// Visible reports whether node is visible to a user holding the given roles.
func Visible(node *extension.MenuNode, roles mapset.Set[string]) bool {
	if len(node.Role) == 0 {
		return true
	}
	return roles.ContainsAny(node.Role...)
}
