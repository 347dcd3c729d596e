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

package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travisjeffery/go-dynaport"

	"github.com/diaoyongbao/fe-sub001/extension"
	inet "github.com/diaoyongbao/fe-sub001/internal/http"
	"github.com/diaoyongbao/fe-sub001/log"
	"github.com/diaoyongbao/fe-sub001/registry"
)

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New(registry.WithLogger(log.DiscardLogger))
	require.NoError(t, reg.Register(&extension.Descriptor{
		ID:        "mysql",
		Name:      "MySQL",
		Version:   "1.2.0",
		Routes:    []extension.Route{{Path: "/mysql", Component: "MySQLPage", Exact: true}},
		MenuItems: []*extension.MenuNode{{Key: "mysql", Label: "MySQL", Order: extension.Int(10)}},
		PermissionGroup: &extension.PermissionGroup{
			GroupName: "mysql",
			Ops:       []extension.PermissionOp{{Name: "mysql", Label: "MySQL"}},
		},
	}))
	require.NoError(t, reg.Register(&extension.Descriptor{
		ID:                 "docs",
		RequiresPermission: extension.Bool(false),
		Routes:             []extension.Route{{Path: "/docs"}},
		MenuItems:          []*extension.MenuNode{{Key: "docs", Order: extension.Int(20)}},
	}))
	return reg
}

func get(t *testing.T, client *http.Client, url string, headers map[string]string) (int, []byte) {
	t.Helper()
	request, err := http.NewRequestWithContext(context.TODO(), http.MethodGet, url, nil)
	require.NoError(t, err)
	for key, value := range headers {
		request.Header.Set(key, value)
	}

	response, err := client.Do(request)
	require.NoError(t, err)
	defer response.Body.Close()

	assert.Equal(t, "application/json", response.Header.Get("Content-Type"))
	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	return response.StatusCode, body
}

func TestServer(t *testing.T) {
	builtin := []*extension.MenuNode{
		{Key: "sql", Children: []*extension.MenuNode{{Key: "query"}, {Key: "audit", Role: []string{"Admin"}}}},
		{Key: "system", Children: []*extension.MenuNode{{Key: "users", Role: []string{"Admin"}}}},
	}

	t.Run("With readiness", func(t *testing.T) {
		reg := newRegistry(t)
		ts := httptest.NewServer(New(reg, WithLogger(log.DiscardLogger)).Handler())
		defer ts.Close()

		status, body := get(t, ts.Client(), ts.URL+"/readyz", nil)
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Contains(t, string(body), "extensions are not loaded yet")

		reg.SetInitialized(true)
		status, _ = get(t, ts.Client(), ts.URL+"/readyz", nil)
		assert.Equal(t, http.StatusOK, status)
	})
	t.Run("With the navigation of an admin", func(t *testing.T) {
		reg := newRegistry(t)
		reg.SetInitialized(true)
		ts := httptest.NewServer(New(reg, WithLogger(log.DiscardLogger), WithBuiltinMenu(builtin)).Handler())
		defer ts.Close()

		status, body := get(t, ts.Client(), ts.URL+"/api/v1/navigation", map[string]string{
			HeaderUserName:        "root",
			HeaderUserRoles:       "Admin, Developer",
			HeaderUserPermissions: "mysql",
		})
		require.Equal(t, http.StatusOK, status)

		var nodes []*extension.MenuNode
		require.NoError(t, json.Unmarshal(body, &nodes))
		require.Len(t, nodes, 4)
		assert.Equal(t, "sql", nodes[0].Key)
		assert.Len(t, nodes[0].Children, 2)
		assert.Equal(t, "system", nodes[1].Key)
		assert.Equal(t, "mysql", nodes[2].Key)
		assert.Equal(t, "docs", nodes[3].Key)
	})
	t.Run("With the navigation of an anonymous caller", func(t *testing.T) {
		reg := newRegistry(t)
		ts := httptest.NewServer(New(reg, WithLogger(log.DiscardLogger), WithBuiltinMenu(builtin)).Handler())
		defer ts.Close()

		status, body := get(t, ts.Client(), ts.URL+"/api/v1/navigation", nil)
		require.Equal(t, http.StatusOK, status)

		var nodes []*extension.MenuNode
		require.NoError(t, json.Unmarshal(body, &nodes))
		require.Len(t, nodes, 2)
		assert.Equal(t, "sql", nodes[0].Key)
		assert.Len(t, nodes[0].Children, 1)
		assert.Equal(t, "docs", nodes[1].Key)
	})
	t.Run("With routes extensions and permissions", func(t *testing.T) {
		reg := newRegistry(t)
		ts := httptest.NewServer(New(reg, WithLogger(log.DiscardLogger)).Handler())
		defer ts.Close()

		status, body := get(t, ts.Client(), ts.URL+"/api/v1/routes", nil)
		require.Equal(t, http.StatusOK, status)
		var routes []extension.Route
		require.NoError(t, json.Unmarshal(body, &routes))
		require.Len(t, routes, 2)
		assert.Equal(t, "/mysql", routes[0].Path)
		assert.Equal(t, "MySQLPage", routes[0].Component)
		assert.Equal(t, "/docs", routes[1].Path)

		status, body = get(t, ts.Client(), ts.URL+"/api/v1/extensions", nil)
		require.Equal(t, http.StatusOK, status)
		var infos []ExtensionInfo
		require.NoError(t, json.Unmarshal(body, &infos))
		assert.Equal(t, []ExtensionInfo{
			{ID: "mysql", Name: "MySQL", Version: "1.2.0", RequiresPermission: true},
			{ID: "docs", RequiresPermission: false},
		}, infos)

		status, body = get(t, ts.Client(), ts.URL+"/api/v1/permissions", nil)
		require.Equal(t, http.StatusOK, status)
		var declared []registry.DeclaredPermission
		require.NoError(t, json.Unmarshal(body, &declared))
		require.Len(t, declared, 1)
		assert.Equal(t, "mysql", declared[0].ID)
		assert.Equal(t, "mysql", declared[0].Group.Ops[0].Name)
	})
	t.Run("With a route that cannot be encoded", func(t *testing.T) {
		reg := registry.New(registry.WithLogger(log.DiscardLogger))
		require.NoError(t, reg.Register(&extension.Descriptor{
			ID:     "native",
			Routes: []extension.Route{{Path: "/native", Component: func() {}}},
		}))
		ts := httptest.NewServer(New(reg, WithLogger(log.DiscardLogger)).Handler())
		defer ts.Close()

		status, _ := get(t, ts.Client(), ts.URL+"/api/v1/routes", nil)
		assert.Equal(t, http.StatusInternalServerError, status)
	})
	t.Run("With Start and Stop", func(t *testing.T) {
		ctx := context.TODO()
		reg := newRegistry(t)
		reg.SetInitialized(true)

		server := New(reg, WithLogger(log.DiscardLogger))
		assert.Nil(t, server.Addr())

		port := dynaport.Get(1)[0]
		require.NoError(t, server.Start(ctx, net.JoinHostPort("127.0.0.1", strconv.Itoa(port))))
		require.NotNil(t, server.Addr())

		client := inet.NewH2CClient(0)
		request, err := http.NewRequestWithContext(ctx, http.MethodGet, inet.URL("127.0.0.1", port)+"/readyz", nil)
		require.NoError(t, err)
		response, err := client.Do(request)
		require.NoError(t, err)
		_ = response.Body.Close()
		assert.Equal(t, http.StatusOK, response.StatusCode)
		assert.Equal(t, "HTTP/2.0", response.Proto)

		require.NoError(t, server.Stop(ctx))
		assert.Nil(t, server.Addr())
		require.NoError(t, server.Stop(ctx))
	})
}

func TestProfileFromRequest(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/api/v1/navigation", nil)
	request.Header.Set(HeaderUserName, " alice ")
	request.Header.Set(HeaderUserRoles, "Admin, ,Developer")
	request.Header.Add(HeaderUserPermissions, "mysql")
	request.Header.Add(HeaderUserPermissions, "redis,kafka")

	profile := ProfileFromRequest(request)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, []string{"Admin", "Developer"}, profile.Roles)
	assert.Equal(t, []string{"mysql", "redis", "kafka"}, profile.Permissions)

	profile = ProfileFromRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, profile.Username)
	assert.Nil(t, profile.Roles)
	assert.Nil(t, profile.Permissions)
}
