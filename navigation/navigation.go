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

// Package navigation composes the menu rendered for a user: the built-in menu
// filtered by role followed by the extension menus filtered by permission.
package navigation

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/diaoyongbao/fe-sub001/access"
	"github.com/diaoyongbao/fe-sub001/extension"
	"github.com/diaoyongbao/fe-sub001/menu"
	"github.com/diaoyongbao/fe-sub001/registry"
)

// Compose returns the navigation of profile.
//
// The built-in groups come first, filtered by the profile roles. The extension
// menus follow in their registry order, filtered by the profile permissions.
// A nil profile holds no role and no permission.
func Compose(builtin []*extension.MenuNode, reg *registry.Registry, profile *access.Profile) []*extension.MenuNode {
	var roles, permissions []string
	if profile != nil {
		roles = profile.Roles
		permissions = profile.Permissions
	}

	composed := menu.Filter(builtin, roles)
	if reg == nil {
		return composed
	}
	return append(composed, reg.FilteredMenuItems(permissions)...)
}

// LoadBuiltin reads the built-in menu tree from a YAML or JSON file.
func LoadBuiltin(path string) ([]*extension.MenuNode, error) {
	bytea, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read built-in menu %s: %w", path, err)
	}
	return ParseBuiltin(bytea)
}

// ParseBuiltin decodes a built-in menu tree. Every node must have a key.
func ParseBuiltin(bytea []byte) ([]*extension.MenuNode, error) {
	var tree []*extension.MenuNode
	if err := yaml.Unmarshal(bytea, &tree); err != nil {
		return nil, fmt.Errorf("failed to decode built-in menu: %w", err)
	}

	for i, group := range tree {
		if err := checkKeys(group, fmt.Sprintf("menu[%d]", i)); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

func checkKeys(node *extension.MenuNode, path string) error {
	if node == nil {
		return fmt.Errorf("%s is nil", path)
	}
	if node.Key == "" {
		return fmt.Errorf("%s.key is required", path)
	}
	for i, child := range node.Children {
		if err := checkKeys(child, fmt.Sprintf("%s.children[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}
