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

// Package extension defines the contributions an extension makes to the console:
// its routes, its menu subtrees and the permission points it exposes.
//
// A Descriptor is produced once by a bundle when it is loaded and handed to the
// registry. It must not be mutated after registration.
package extension

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/diaoyongbao/fe-sub001/internal/validation"
)

// DefaultMenuOrder is the sort position of a menu node without an explicit order.
const DefaultMenuOrder = 100

// Descriptor describes one loaded extension.
type Descriptor struct {
	// ID is the unique identifier of the extension.
	//
	// The identifier must:
	//   - Be no more than 255 characters long.
	//   - Start with an alphanumeric character [a-zA-Z0-9].
	//   - Contain only alphanumeric characters, hyphens (-), underscores (_), dots (.) or slashes (/) thereafter.
	ID string `json:"id"`
	// Name is a human-readable name.
	Name string `json:"name,omitempty"`
	// Version is the extension version string.
	Version string `json:"version,omitempty"`
	// Routes are the routable paths contributed by the extension, in order.
	Routes []Route `json:"routes,omitempty"`
	// MenuItems are the top-level menu subtrees contributed by the extension, in order.
	MenuItems []*MenuNode `json:"menuItems,omitempty"`
	// RequiresPermission states whether the extension menus are permission gated.
	// A nil value means true.
	RequiresPermission *bool `json:"requiresPermission,omitempty"`
	// PermissionGroup lists the permission points the extension exposes.
	PermissionGroup *PermissionGroup `json:"permissionGroup,omitempty"`
}

// Route is a routable path contributed by an extension.
type Route struct {
	Path string `json:"path"`
	// Component is owned by the extension and never inspected by the registry.
	// Manifest based bundles set it to the component name.
	Component any     `json:"component,omitempty"`
	Exact     bool    `json:"exact,omitempty"`
	Children  []Route `json:"children,omitempty"`
}

// PermissionGroup groups the permission points of an extension.
type PermissionGroup struct {
	GroupName  string         `json:"groupName,omitempty"`
	GroupLabel string         `json:"groupLabel,omitempty"`
	Ops        []PermissionOp `json:"ops,omitempty"`
}

// PermissionOp is a named capability. By convention Name matches a menu or route key.
type PermissionOp struct {
	Name  string `json:"name"`
	Label string `json:"label,omitempty"`
}

// NeedsPermission resolves RequiresPermission, which defaults to true.
func (d *Descriptor) NeedsPermission() bool {
	if d.RequiresPermission == nil {
		return true
	}
	return *d.RequiresPermission
}

// PermissionNames returns the names of the declared permission ops.
// It returns an empty, non-nil slice when nothing is declared.
func (d *Descriptor) PermissionNames() []string {
	if d.PermissionGroup == nil {
		return []string{}
	}

	names := make([]string, 0, len(d.PermissionGroup.Ops))
	for _, op := range d.PermissionGroup.Ops {
		names = append(names, op.Name)
	}
	return names
}

// HasPermissionOps reports whether at least one permission op is declared.
func (d *Descriptor) HasPermissionOps() bool {
	return d.PermissionGroup != nil && len(d.PermissionGroup.Ops) > 0
}

// OwnsMenu reports whether one of the extension top-level menu nodes has the given key.
func (d *Descriptor) OwnsMenu(key string) bool {
	for _, node := range d.MenuItems {
		if node != nil && node.Key == key {
			return true
		}
	}
	return false
}

// Validate checks the descriptor shape. Every violation is reported.
func (d *Descriptor) Validate() error {
	err := validation.NewIDValidator(d.ID).Validate()

	for i, route := range d.Routes {
		err = multierr.Append(err, route.validate(fmt.Sprintf("routes[%d]", i)))
	}

	for i, node := range d.MenuItems {
		if node == nil {
			err = multierr.Append(err, fmt.Errorf("menuItems[%d] is nil", i))
			continue
		}
		err = multierr.Append(err, node.validate(fmt.Sprintf("menuItems[%d]", i)))
	}

	if d.PermissionGroup != nil {
		for i, op := range d.PermissionGroup.Ops {
			err = multierr.Append(err, validation.NewEmptyStringValidator(fmt.Sprintf("permissionGroup.ops[%d].name", i), op.Name).Validate())
		}
	}
	return err
}

func (r Route) validate(path string) error {
	err := validation.NewEmptyStringValidator(path+".path", r.Path).Validate()
	for i, child := range r.Children {
		err = multierr.Append(err, child.validate(fmt.Sprintf("%s.children[%d]", path, i)))
	}
	return err
}

// Bool returns a pointer to v. Handy for RequiresPermission literals.
func Bool(v bool) *bool {
	return &v
}

// Int returns a pointer to v. Handy for MenuNode.Order literals.
func Int(v int) *int {
	return &v
}
