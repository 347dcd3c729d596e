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

// Package access describes the authenticated console user and the checks the
// route guards apply to it.
package access

import "slices"

// AdminRole grants every route guarded by IsAdmin.
const AdminRole = "Admin"

// Profile is the authenticated user as seen by the console.
type Profile struct {
	Username    string   `json:"username"`
	Roles       []string `json:"roles,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// IsAdmin reports whether profile holds the Admin role.
// A nil profile or a profile without roles is not an admin.
func IsAdmin(profile *Profile) bool {
	return HasAnyRole(profile, AdminRole)
}

// HasAnyRole reports whether profile holds at least one of roles.
func HasAnyRole(profile *Profile, roles ...string) bool {
	if profile == nil || len(profile.Roles) == 0 {
		return false
	}
	for _, role := range roles {
		if slices.Contains(profile.Roles, role) {
			return true
		}
	}
	return false
}

// HasPermission reports whether profile holds the named permission.
func HasPermission(profile *Profile, name string) bool {
	if profile == nil {
		return false
	}
	return slices.Contains(profile.Permissions, name)
}
