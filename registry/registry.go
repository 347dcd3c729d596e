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

// Package registry holds every extension loaded into the console together with
// the routes and menu subtrees they contribute.
//
// A Registry is an explicitly constructed value shared by the loader, the
// navigation composer and the HTTP surface. All its methods are safe for
// concurrent use and every read returns a copy of the internal state.
package registry

import (
	"sort"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/atomic"

	"github.com/diaoyongbao/fe-sub001/errors"
	"github.com/diaoyongbao/fe-sub001/extension"
	"github.com/diaoyongbao/fe-sub001/future"
	"github.com/diaoyongbao/fe-sub001/log"
)

// DeclaredPermission is the permission group declared by one extension.
type DeclaredPermission struct {
	ID    string                     `json:"id"`
	Group *extension.PermissionGroup `json:"group"`
}

// Registry stores the registered extensions, their routes and their menus.
type Registry struct {
	mu sync.RWMutex

	extensions map[string]*extension.Descriptor
	// ids keeps the registration order
	ids    []string
	routes []extension.Route
	menus  []*extension.MenuNode

	initialized *atomic.Bool
	loadFuture  future.Future

	logger log.Logger
}

// New creates an empty Registry.
func New(opts ...Option) *Registry {
	registry := &Registry{
		extensions:  make(map[string]*extension.Descriptor),
		initialized: atomic.NewBool(false),
		logger:      log.DefaultLogger,
	}

	for _, opt := range opts {
		opt.Apply(registry)
	}

	return registry
}

// Register adds an extension with its routes and menus.
//
// Registering an ID that is already present is a no-op: the first registration
// wins, a warning is logged and nil is returned. Only a nil descriptor or an
// empty ID is rejected, with an error wrapping errors.ErrInvalidDescriptor.
// Any other shape violation is logged and the descriptor is stored as is.
func (r *Registry) Register(descriptor *extension.Descriptor) error {
	if descriptor == nil {
		err := errors.NewErrInvalidDescriptor("", nil)
		r.logger.Error(err)
		return err
	}

	if descriptor.ID == "" {
		err := errors.NewErrInvalidDescriptor("", errors.ErrMissingExtensionID)
		r.logger.Error(err)
		return err
	}

	if err := descriptor.Validate(); err != nil {
		r.logger.Warnf("(extension=%s) registered with violations: %v", descriptor.ID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.extensions[descriptor.ID]; ok {
		r.logger.Warnf("(extension=%s) %v, registration ignored", descriptor.ID, errors.ErrDuplicateExtension)
		return nil
	}

	r.extensions[descriptor.ID] = descriptor
	r.ids = append(r.ids, descriptor.ID)
	r.routes = append(r.routes, descriptor.Routes...)
	for _, node := range descriptor.MenuItems {
		// nil nodes cannot be rendered
		if node != nil {
			r.menus = append(r.menus, node)
		}
	}

	r.logger.Debugf("extension=(%s) registered with %d routes and %d menus",
		descriptor.ID, len(descriptor.Routes), len(descriptor.MenuItems))
	return nil
}

// Routes returns every registered route in registration order.
// Routes are never permission filtered.
func (r *Registry) Routes() []extension.Route {
	r.mu.RLock()
	defer r.mu.RUnlock()

	routes := make([]extension.Route, len(r.routes))
	copy(routes, r.routes)
	return routes
}

// MenuItems returns the top-level menu nodes of every extension sorted by
// their order, ascending. Nodes without an order sort as extension.DefaultMenuOrder
// and nodes sharing an order keep their registration order.
func (r *Registry) MenuItems() []*extension.MenuNode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedMenus()
}

// IsInitialized reports whether a load cycle completed.
func (r *Registry) IsInitialized() bool {
	return r.initialized.Load()
}

// SetInitialized sets the initialized flag.
func (r *Registry) SetInitialized(initialized bool) {
	r.initialized.Store(initialized)
}

// LoadFuture returns the in-flight or most recent load handle, nil when no
// load was started.
func (r *Registry) LoadFuture() future.Future {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loadFuture
}

// SetLoadFuture stores the load handle.
func (r *Registry) SetLoadFuture(f future.Future) {
	r.mu.Lock()
	r.loadFuture = f
	r.mu.Unlock()
}

// StartLoad stores f as the load handle unless one is already stored.
// It returns the stored handle and whether f was the one stored.
func (r *Registry) StartLoad(f future.Future) (future.Future, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loadFuture != nil {
		return r.loadFuture, false
	}
	r.loadFuture = f
	return f, true
}

// CompleteLoad marks the registry initialized when f is still the stored load
// handle. It reports false, leaving the registry untouched, when the handle was
// replaced or reset by Clear in the meantime.
func (r *Registry) CompleteLoad(f future.Future) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f == nil || r.loadFuture != f {
		return false
	}
	r.initialized.Store(true)
	return true
}

// Clear empties the registry and resets the load state.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.extensions = make(map[string]*extension.Descriptor)
	r.ids = nil
	r.routes = nil
	r.menus = nil
	r.loadFuture = nil
	r.initialized.Store(false)
}

// Extension returns the extension registered under id.
func (r *Registry) Extension(id string) (*extension.Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptor, ok := r.extensions[id]
	return descriptor, ok
}

// Extensions returns the registered extensions in registration order.
func (r *Registry) Extensions() []*extension.Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descriptors := make([]*extension.Descriptor, 0, len(r.ids))
	for _, id := range r.ids {
		descriptors = append(descriptors, r.extensions[id])
	}
	return descriptors
}

// Len returns the number of registered extensions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ids)
}

// RequiresPermission reports whether the menus of the given extension are
// permission gated. It returns false for an unknown extension.
func (r *Registry) RequiresPermission(id string) bool {
	descriptor, ok := r.Extension(id)
	if !ok {
		return false
	}
	return descriptor.NeedsPermission()
}

// PermissionNames returns the permission op names declared by the given
// extension, an empty slice when the extension is unknown or declares none.
func (r *Registry) PermissionNames(id string) []string {
	descriptor, ok := r.Extension(id)
	if !ok {
		return []string{}
	}
	return descriptor.PermissionNames()
}

// FilteredMenuItems returns the sorted top-level menus visible to a user
// holding the given permission names.
//
// A menu whose owner cannot be found is kept. A menu of an extension that does
// not require permission is kept. A menu of an extension declaring permission
// ops is kept when at least one op name is held. A menu of an extension that
// requires permission without declaring any op is dropped. Children are not
// filtered.
func (r *Registry) FilteredMenuItems(permissions []string) []*extension.MenuNode {
	held := mapset.NewThreadUnsafeSet(permissions...)

	r.mu.RLock()
	defer r.mu.RUnlock()

	menus := r.sortedMenus()
	filtered := make([]*extension.MenuNode, 0, len(menus))
	for _, menu := range menus {
		owner := r.owner(menu.Key)
		switch {
		case owner == nil:
			filtered = append(filtered, menu)
		case !owner.NeedsPermission():
			filtered = append(filtered, menu)
		case owner.HasPermissionOps():
			if held.ContainsAny(owner.PermissionNames()...) {
				filtered = append(filtered, menu)
			}
		default:
			r.logger.Debugf("menu=(%s) of extension=(%s) hidden: permission required but none declared", menu.Key, owner.ID)
		}
	}
	return filtered
}

// DeclaredPermissions returns the permission groups of the extensions that
// declare at least one op, in registration order.
func (r *Registry) DeclaredPermissions() []DeclaredPermission {
	r.mu.RLock()
	defer r.mu.RUnlock()

	declared := make([]DeclaredPermission, 0, len(r.ids))
	for _, id := range r.ids {
		descriptor := r.extensions[id]
		if descriptor.HasPermissionOps() {
			declared = append(declared, DeclaredPermission{
				ID:    descriptor.ID,
				Group: descriptor.PermissionGroup,
			})
		}
	}
	return declared
}

// sortedMenus must be called with the read lock held.
func (r *Registry) sortedMenus() []*extension.MenuNode {
	menus := make([]*extension.MenuNode, len(r.menus))
	copy(menus, r.menus)
	sort.SliceStable(menus, func(i, j int) bool {
		return menus[i].SortOrder() < menus[j].SortOrder()
	})
	return menus
}

// owner returns the first extension, in registration order, owning a
// top-level menu with the given key. It must be called with the read lock held.
func (r *Registry) owner(key string) *extension.Descriptor {
	for _, id := range r.ids {
		if descriptor := r.extensions[id]; descriptor.OwnsMenu(key) {
			return descriptor
		}
	}
	return nil
}
