package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_AtLeast(t *testing.T) {
	tests := []struct {
		role Role
		min  Role
		want bool
	}{
		{RoleUser, RoleUser, true},
		{RoleUser, RoleAdmin, false},
		{RoleAdmin, RoleAdmin, true},
		{RoleSuperAdmin, RoleAdmin, true},
		{RoleAdmin, RoleSuperAdmin, false},
		{Role("editor"), RoleUser, false},
		{Role(""), RoleUser, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+">="+string(tt.min), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.AtLeast(tt.min))
		})
	}
}

func TestCapabilities(t *testing.T) {
	tests := []struct {
		name          string
		user          *User
		authenticated bool
		content       bool
		users         bool
	}{
		{"anonymous", nil, false, false, false},
		{"user", &User{Role: RoleUser}, true, false, false},
		{"admin", &User{Role: RoleAdmin}, true, true, false},
		{"super admin", &User{Role: RoleSuperAdmin}, true, true, true},
		{"unknown role", &User{Role: "moderator"}, true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.authenticated, IsAuthenticated(tt.user))
			assert.Equal(t, tt.content, CanManageContent(tt.user))
			assert.Equal(t, tt.users, CanManageUsers(tt.user))
		})
	}
}

func TestRole_Assignable(t *testing.T) {
	assert.True(t, RoleUser.Assignable())
	assert.True(t, RoleAdmin.Assignable())
	assert.False(t, RoleSuperAdmin.Assignable())
}

func TestFilterUsers(t *testing.T) {
	users := []AdminUser{
		{ID: "1", Username: "Root", Email: "root@example.com", Role: RoleSuperAdmin},
		{ID: "2", Username: "Alice", Email: "alice@example.com", Role: RoleAdmin},
		{ID: "3", Username: "bob", Email: "bob@kitchen.io", Role: RoleUser},
		{ID: "4", Username: "carol", Email: "carol@example.com", Role: RoleUser},
	}

	ids := func(us []AdminUser) []string {
		out := make([]string, 0, len(us))
		for _, u := range us {
			out = append(out, u.ID)
		}
		return out
	}

	tests := []struct {
		name string
		role string
		term string
		want []string
	}{
		{"all hides super admin", RoleFilterAll, "", []string{"2", "3", "4"}},
		{"empty role is all", "", "", []string{"2", "3", "4"}},
		{"by role", "user", "", []string{"3", "4"}},
		{"username case insensitive", RoleFilterAll, "ALI", []string{"2"}},
		{"email substring", RoleFilterAll, "kitchen", []string{"3"}},
		{"role and term", "admin", "bob", []string{}},
		{"super admin never matches", "super_admin", "root", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterUsers(users, tt.role, tt.term)))
		})
	}
}

func TestTheme(t *testing.T) {
	assert.True(t, ThemeLight.Valid())
	assert.False(t, Theme("sepia").Valid())
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())
	assert.Equal(t, ThemeDark, Theme("").Toggle())
}
