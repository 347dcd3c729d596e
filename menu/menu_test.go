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

package menu

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diaoyongbao/fe-sub001/extension"
)

func builtinTree() []*extension.MenuNode {
	return []*extension.MenuNode{
		{
			Key:   "system",
			Label: "System",
			Children: []*extension.MenuNode{
				{Key: "/system/users", Role: []string{"Admin"}},
				{Key: "/system/audit", Role: []string{"Admin", "Auditor"}},
			},
		},
		{
			Key:   "monitor",
			Label: "Monitor",
			Children: []*extension.MenuNode{
				{Key: "/monitor/dashboards"},
				{Key: "/monitor/alerts", Role: []string{}},
			},
		},
		{Key: "home", Label: "Home"},
	}
}

func keys(nodes []*extension.MenuNode) []string {
	out := make([]string, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, node.Key)
	}
	return out
}

func TestFilter(t *testing.T) {
	t.Run("With a role restricted group", func(t *testing.T) {
		tree := []*extension.MenuNode{
			{Key: "g", Children: []*extension.MenuNode{{Key: "c", Role: []string{"Admin"}}}},
		}

		assert.Empty(t, Filter(tree, []string{"Dev"}))

		filtered := Filter(tree, []string{"Admin"})
		require.Len(t, filtered, 1)
		assert.Equal(t, "g", filtered[0].Key)
		assert.Equal(t, []string{"c"}, keys(filtered[0].Children))
	})
	t.Run("With a group without children", func(t *testing.T) {
		filtered := Filter(builtinTree(), []string{"Admin"})
		assert.Equal(t, []string{"system", "monitor"}, keys(filtered))
	})
	t.Run("With partially visible children", func(t *testing.T) {
		filtered := Filter(builtinTree(), []string{"Auditor"})
		require.Len(t, filtered, 2)
		assert.Equal(t, []string{"/system/audit"}, keys(filtered[0].Children))
		assert.Equal(t, []string{"/monitor/dashboards", "/monitor/alerts"}, keys(filtered[1].Children))
	})
	t.Run("With no roles", func(t *testing.T) {
		filtered := Filter(builtinTree(), nil)
		assert.Equal(t, []string{"monitor"}, keys(filtered))
	})
	t.Run("With the source tree untouched", func(t *testing.T) {
		tree := builtinTree()
		filtered := Filter(tree, []string{"Auditor"})

		assert.NotSame(t, tree[0], filtered[0])
		assert.Len(t, tree[0].Children, 2)
		assert.Equal(t, "System", filtered[0].Label)
	})
	t.Run("With nil nodes", func(t *testing.T) {
		tree := []*extension.MenuNode{nil, {Key: "g", Children: []*extension.MenuNode{nil, {Key: "c"}}}}
		filtered := Filter(tree, nil)
		require.Len(t, filtered, 1)
		assert.Equal(t, []string{"c"}, keys(filtered[0].Children))
	})
	t.Run("With an empty tree", func(t *testing.T) {
		assert.Empty(t, Filter(nil, []string{"Admin"}))
	})
}

func TestVisible(t *testing.T) {
	roles := mapset.NewThreadUnsafeSet("Dev")
	assert.True(t, Visible(&extension.MenuNode{Key: "a"}, roles))
	assert.True(t, Visible(&extension.MenuNode{Key: "a", Role: []string{"Ops", "Dev"}}, roles))
	assert.False(t, Visible(&extension.MenuNode{Key: "a", Role: []string{"Ops"}}, roles))
}
