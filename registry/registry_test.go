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

package registry

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/diaoyongbao/fe-sub001/errors"
	"github.com/diaoyongbao/fe-sub001/extension"
	"github.com/diaoyongbao/fe-sub001/future"
	"github.com/diaoyongbao/fe-sub001/log"
)

func newRegistry() *Registry {
	return New(WithLogger(log.DiscardLogger))
}

func keys(nodes []*extension.MenuNode) []string {
	out := make([]string, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, node.Key)
	}
	return out
}

func TestRegister(t *testing.T) {
	t.Run("With a new extension", func(t *testing.T) {
		reg := newRegistry()
		descriptor := &extension.Descriptor{
			ID:        "mysql",
			Name:      "MySQL",
			Routes:    []extension.Route{{Path: "/mysql"}, {Path: "/mysql/slowlog"}},
			MenuItems: []*extension.MenuNode{{Key: "mysql", Label: "MySQL"}},
		}
		require.NoError(t, reg.Register(descriptor))

		assert.Equal(t, 1, reg.Len())
		actual, ok := reg.Extension("mysql")
		require.True(t, ok)
		assert.Same(t, descriptor, actual)
		assert.Len(t, reg.Routes(), 2)
		assert.Equal(t, []string{"mysql"}, keys(reg.MenuItems()))
	})
	t.Run("With a duplicate ID the first registration wins", func(t *testing.T) {
		reg := newRegistry()
		first := &extension.Descriptor{
			ID:        "mysql",
			Name:      "first",
			Routes:    []extension.Route{{Path: "/a"}},
			MenuItems: []*extension.MenuNode{{Key: "a"}},
		}
		second := &extension.Descriptor{
			ID:        "mysql",
			Name:      "second",
			Routes:    []extension.Route{{Path: "/b"}},
			MenuItems: []*extension.MenuNode{{Key: "b"}},
		}
		require.NoError(t, reg.Register(first))
		require.NoError(t, reg.Register(second))

		assert.Equal(t, 1, reg.Len())
		actual, _ := reg.Extension("mysql")
		assert.Equal(t, "first", actual.Name)
		require.Len(t, reg.Routes(), 1)
		assert.Equal(t, "/a", reg.Routes()[0].Path)
		assert.Equal(t, []string{"a"}, keys(reg.MenuItems()))
	})
	t.Run("With a nil descriptor", func(t *testing.T) {
		reg := newRegistry()
		err := reg.Register(nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, gerrors.ErrInvalidDescriptor)
		assert.Zero(t, reg.Len())
	})
	t.Run("With a descriptor without ID", func(t *testing.T) {
		reg := newRegistry()
		err := reg.Register(&extension.Descriptor{Name: "nameless", Routes: []extension.Route{{Path: "/x"}}})
		require.Error(t, err)
		assert.ErrorIs(t, err, gerrors.ErrInvalidDescriptor)
		assert.ErrorIs(t, err, gerrors.ErrMissingExtensionID)
		assert.Zero(t, reg.Len())
		assert.Empty(t, reg.Routes())
	})
	t.Run("With descriptors of any shape", func(t *testing.T) {
		reg := newRegistry()
		descriptors := []*extension.Descriptor{
			{ID: "@acme/mysql"},
			{ID: "mysql manager"},
			{ID: "keyless", MenuItems: []*extension.MenuNode{{Label: "No key"}, nil}},
			{ID: "pathless", Routes: []extension.Route{{Component: "Page"}}},
		}
		for _, descriptor := range descriptors {
			require.NoError(t, reg.Register(descriptor))
		}

		assert.Equal(t, 4, reg.Len())
		for _, descriptor := range descriptors {
			actual, ok := reg.Extension(descriptor.ID)
			require.True(t, ok)
			assert.Same(t, descriptor, actual)
		}
		require.Len(t, reg.Routes(), 1)
		assert.Equal(t, "Page", reg.Routes()[0].Component)
		// the nil menu node is not aggregated
		require.Len(t, reg.MenuItems(), 1)
		assert.Equal(t, "No key", reg.MenuItems()[0].Label)
		assert.Len(t, reg.FilteredMenuItems(nil), 0)
	})
	t.Run("With concurrent registrations of the same ID", func(t *testing.T) {
		reg := newRegistry()
		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_ = reg.Register(&extension.Descriptor{
					ID:        "shared",
					Routes:    []extension.Route{{Path: fmt.Sprintf("/r%d", i)}},
					MenuItems: []*extension.MenuNode{{Key: fmt.Sprintf("k%d", i)}},
				})
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 1, reg.Len())
		assert.Len(t, reg.Routes(), 1)
		assert.Len(t, reg.MenuItems(), 1)
	})
}

func TestMenuItems(t *testing.T) {
	t.Run("With explicit orders", func(t *testing.T) {
		reg := newRegistry()
		require.NoError(t, reg.Register(&extension.Descriptor{ID: "a", MenuItems: []*extension.MenuNode{{Key: "thirty", Order: extension.Int(30)}}}))
		require.NoError(t, reg.Register(&extension.Descriptor{ID: "b", MenuItems: []*extension.MenuNode{{Key: "ten", Order: extension.Int(10)}}}))
		require.NoError(t, reg.Register(&extension.Descriptor{ID: "c", MenuItems: []*extension.MenuNode{{Key: "twenty", Order: extension.Int(20)}}}))

		assert.Equal(t, []string{"ten", "twenty", "thirty"}, keys(reg.MenuItems()))
	})
	t.Run("With default and equal orders the sort is stable", func(t *testing.T) {
		reg := newRegistry()
		require.NoError(t, reg.Register(&extension.Descriptor{ID: "a", MenuItems: []*extension.MenuNode{{Key: "default-1"}, {Key: "hundred", Order: extension.Int(100)}}}))
		require.NoError(t, reg.Register(&extension.Descriptor{ID: "b", MenuItems: []*extension.MenuNode{{Key: "default-2"}, {Key: "first", Order: extension.Int(1)}}}))
		require.NoError(t, reg.Register(&extension.Descriptor{ID: "c", MenuItems: []*extension.MenuNode{{Key: "last", Order: extension.Int(101)}}}))

		assert.Equal(t, []string{"first", "default-1", "hundred", "default-2", "last"}, keys(reg.MenuItems()))
	})
	t.Run("With the returned slice being a copy", func(t *testing.T) {
		reg := newRegistry()
		require.NoError(t, reg.Register(&extension.Descriptor{ID: "a", MenuItems: []*extension.MenuNode{{Key: "a"}}, Routes: []extension.Route{{Path: "/a"}}}))

		menus := reg.MenuItems()
		menus[0] = &extension.MenuNode{Key: "mutated"}
		routes := reg.Routes()
		routes[0].Path = "/mutated"

		assert.Equal(t, []string{"a"}, keys(reg.MenuItems()))
		assert.Equal(t, "/a", reg.Routes()[0].Path)
	})
}

func TestFilteredMenuItems(t *testing.T) {
	t.Run("With permission ops declared", func(t *testing.T) {
		reg := newRegistry()
		require.NoError(t, reg.Register(&extension.Descriptor{
			ID:        "x",
			MenuItems: []*extension.MenuNode{{Key: "g", Label: "G", Order: extension.Int(5), Children: []*extension.MenuNode{{Key: "/x", Label: "X"}}}},
			PermissionGroup: &extension.PermissionGroup{
				Ops: []extension.PermissionOp{{Name: "/x"}, {Name: "/x/admin"}},
			},
		}))

		assert.Equal(t, []string{"g"}, keys(reg.FilteredMenuItems([]string{"/x"})))
		assert.Equal(t, []string{"g"}, keys(reg.FilteredMenuItems([]string{"/other", "/x/admin"})))
		assert.Empty(t, reg.FilteredMenuItems([]string{"/other"}))
		assert.Empty(t, reg.FilteredMenuItems(nil))
	})
	t.Run("With permission not required", func(t *testing.T) {
		reg := newRegistry()
		require.NoError(t, reg.Register(&extension.Descriptor{
			ID:                 "open",
			RequiresPermission: extension.Bool(false),
			MenuItems:          []*extension.MenuNode{{Key: "open"}},
			PermissionGroup:    &extension.PermissionGroup{Ops: []extension.PermissionOp{{Name: "/open"}}},
		}))

		assert.Equal(t, []string{"open"}, keys(reg.FilteredMenuItems(nil)))
	})
	t.Run("With permission required and no ops declared", func(t *testing.T) {
		reg := newRegistry()
		require.NoError(t, reg.Register(&extension.Descriptor{
			ID:        "closed",
			MenuItems: []*extension.MenuNode{{Key: "closed"}},
		}))
		require.NoError(t, reg.Register(&extension.Descriptor{
			ID:                 "empty-group",
			RequiresPermission: extension.Bool(true),
			MenuItems:          []*extension.MenuNode{{Key: "empty"}},
			PermissionGroup:    &extension.PermissionGroup{GroupName: "empty"},
		}))

		assert.Empty(t, reg.FilteredMenuItems([]string{"closed", "empty"}))
	})
	t.Run("With the first owner in registration order", func(t *testing.T) {
		reg := newRegistry()
		require.NoError(t, reg.Register(&extension.Descriptor{
			ID:                 "first",
			RequiresPermission: extension.Bool(false),
			MenuItems:          []*extension.MenuNode{{Key: "shared"}},
		}))
		require.NoError(t, reg.Register(&extension.Descriptor{
			ID:        "second",
			MenuItems: []*extension.MenuNode{{Key: "shared"}},
		}))

		// both nodes resolve to the first owner, which is open
		assert.Equal(t, []string{"shared", "shared"}, keys(reg.FilteredMenuItems(nil)))
	})
	t.Run("With the output sorted and the children untouched", func(t *testing.T) {
		reg := newRegistry()
		child := &extension.MenuNode{Key: "/b/hidden", Role: []string{"Admin"}}
		require.NoError(t, reg.Register(&extension.Descriptor{
			ID:                 "b",
			RequiresPermission: extension.Bool(false),
			MenuItems:          []*extension.MenuNode{{Key: "b", Order: extension.Int(20), Children: []*extension.MenuNode{child}}},
		}))
		require.NoError(t, reg.Register(&extension.Descriptor{
			ID:                 "a",
			RequiresPermission: extension.Bool(false),
			MenuItems:          []*extension.MenuNode{{Key: "a", Order: extension.Int(10)}},
		}))

		filtered := reg.FilteredMenuItems(nil)
		assert.Equal(t, []string{"a", "b"}, keys(filtered))
		require.Len(t, filtered[1].Children, 1)
		assert.Same(t, child, filtered[1].Children[0])
	})
}

func TestPermissions(t *testing.T) {
	reg := newRegistry()
	group := &extension.PermissionGroup{
		GroupName:  "mysql",
		GroupLabel: "MySQL",
		Ops:        []extension.PermissionOp{{Name: "/mysql", Label: "View"}, {Name: "/mysql/kill", Label: "Kill"}},
	}
	require.NoError(t, reg.Register(&extension.Descriptor{ID: "mysql", PermissionGroup: group}))
	require.NoError(t, reg.Register(&extension.Descriptor{ID: "plain"}))
	require.NoError(t, reg.Register(&extension.Descriptor{ID: "open", RequiresPermission: extension.Bool(false)}))
	require.NoError(t, reg.Register(&extension.Descriptor{ID: "redis", PermissionGroup: &extension.PermissionGroup{Ops: []extension.PermissionOp{{Name: "/redis"}}}}))

	t.Run("With RequiresPermission", func(t *testing.T) {
		assert.True(t, reg.RequiresPermission("mysql"))
		assert.True(t, reg.RequiresPermission("plain"))
		assert.False(t, reg.RequiresPermission("open"))
		assert.False(t, reg.RequiresPermission("unknown"))
	})
	t.Run("With PermissionNames", func(t *testing.T) {
		assert.Equal(t, []string{"/mysql", "/mysql/kill"}, reg.PermissionNames("mysql"))
		names := reg.PermissionNames("plain")
		assert.NotNil(t, names)
		assert.Empty(t, names)
		assert.Empty(t, reg.PermissionNames("unknown"))
	})
	t.Run("With DeclaredPermissions", func(t *testing.T) {
		declared := reg.DeclaredPermissions()
		require.Len(t, declared, 2)
		assert.Equal(t, "mysql", declared[0].ID)
		assert.Same(t, group, declared[0].Group)
		assert.Equal(t, "redis", declared[1].ID)
	})
}

func TestLoadState(t *testing.T) {
	t.Run("With StartLoad storing only the first future", func(t *testing.T) {
		reg := newRegistry()
		assert.Nil(t, reg.LoadFuture())

		promise := future.NewPromise()
		stored, ok := reg.StartLoad(promise.Future())
		require.True(t, ok)
		assert.Same(t, promise.Future(), stored)

		other := future.NewPromise()
		stored, ok = reg.StartLoad(other.Future())
		require.False(t, ok)
		assert.Same(t, promise.Future(), stored)
		assert.Same(t, promise.Future(), reg.LoadFuture())
		promise.Success()
	})
	t.Run("With SetLoadFuture and SetInitialized", func(t *testing.T) {
		reg := newRegistry()
		f := future.Completed(nil)
		reg.SetLoadFuture(f)
		assert.Same(t, f, reg.LoadFuture())
		require.NoError(t, reg.LoadFuture().Await(context.Background()))

		assert.False(t, reg.IsInitialized())
		reg.SetInitialized(true)
		assert.True(t, reg.IsInitialized())
	})
	t.Run("With Clear", func(t *testing.T) {
		reg := newRegistry()
		require.NoError(t, reg.Register(&extension.Descriptor{
			ID:        "mysql",
			Routes:    []extension.Route{{Path: "/mysql"}},
			MenuItems: []*extension.MenuNode{{Key: "mysql"}},
		}))
		reg.SetInitialized(true)
		reg.SetLoadFuture(future.Completed(nil))

		reg.Clear()

		assert.Zero(t, reg.Len())
		assert.Empty(t, reg.Extensions())
		assert.Empty(t, reg.Routes())
		assert.Empty(t, reg.MenuItems())
		assert.False(t, reg.IsInitialized())
		assert.Nil(t, reg.LoadFuture())

		// the id can be registered again
		require.NoError(t, reg.Register(&extension.Descriptor{ID: "mysql", Name: "again"}))
		actual, ok := reg.Extension("mysql")
		require.True(t, ok)
		assert.Equal(t, "again", actual.Name)
	})
	t.Run("With Extensions in registration order", func(t *testing.T) {
		reg := newRegistry()
		for _, id := range []string{"c", "a", "b"} {
			require.NoError(t, reg.Register(&extension.Descriptor{ID: id}))
		}
		var ids []string
		for _, descriptor := range reg.Extensions() {
			ids = append(ids, descriptor.ID)
		}
		assert.Equal(t, []string{"c", "a", "b"}, ids)
	})
}

func TestCompleteLoad(t *testing.T) {
	t.Run("With the stored load handle", func(t *testing.T) {
		reg := newRegistry()
		f, started := reg.StartLoad(future.NewPromise().Future())
		require.True(t, started)

		assert.True(t, reg.CompleteLoad(f))
		assert.True(t, reg.IsInitialized())
	})
	t.Run("With a handle reset by Clear", func(t *testing.T) {
		reg := newRegistry()
		f, _ := reg.StartLoad(future.NewPromise().Future())
		reg.Clear()

		assert.False(t, reg.CompleteLoad(f))
		assert.False(t, reg.IsInitialized())
		assert.Nil(t, reg.LoadFuture())
	})
	t.Run("With a replaced handle", func(t *testing.T) {
		reg := newRegistry()
		stale, _ := reg.StartLoad(future.NewPromise().Future())
		reg.Clear()
		current, _ := reg.StartLoad(future.NewPromise().Future())

		assert.False(t, reg.CompleteLoad(stale))
		assert.False(t, reg.CompleteLoad(nil))
		assert.True(t, reg.CompleteLoad(current))
	})
}
