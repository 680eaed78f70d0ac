package domain

import (
	"io"
	"strings"
)

// Role represents the user's permission level.
type Role string

const (
	// RoleUser grants standard access.
	RoleUser Role = "user"
	// RoleAdmin can manage recipes and newsletters.
	RoleAdmin Role = "admin"
	// RoleSuperAdmin can additionally manage users.
	RoleSuperAdmin Role = "super_admin"
)

func (r Role) rank() int {
	switch r {
	case RoleUser:
		return 1
	case RoleAdmin:
		return 2
	case RoleSuperAdmin:
		return 3
	default:
		return 0
	}
}

// Valid returns true if the role is a recognized value.
func (r Role) Valid() bool {
	return r.rank() > 0
}

// AtLeast reports whether r grants everything min grants.
// Unknown roles grant nothing.
func (r Role) AtLeast(min Role) bool {
	return r.Valid() && r.rank() >= min.rank()
}

// Assignable reports whether a super admin may assign the role to another user.
func (r Role) Assignable() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is the account behind the current session.
type User struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	Role              Role   `json:"role"`
	Bio               string `json:"bio,omitempty"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
}

// IsAuthenticated reports whether u represents a session.
func IsAuthenticated(u *User) bool {
	return u != nil
}

// CanManageContent reports whether u may create, edit, or delete recipes and
// newsletters. Both the state guards and the CLI command visibility use it.
func CanManageContent(u *User) bool {
	return u != nil && u.Role.AtLeast(RoleAdmin)
}

// CanManageUsers reports whether u may administer other accounts.
func CanManageUsers(u *User) bool {
	return u != nil && u.Role == RoleSuperAdmin
}

// Attachment is an image picked by the user to send along with a form.
type Attachment struct {
	Filename    string
	ContentType string
	Data        io.Reader
}

// AdminUser is a row in the user management list.
type AdminUser struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	IsActive  bool   `json:"isActive"`
	PostCount int    `json:"postCount"`
}

// RoleFilterAll disables role filtering in FilterUsers.
const RoleFilterAll = "all"

// FilterUsers returns the rows shown on the user management screen. Super
// admins are never listed. role is RoleFilterAll (or empty) or a role name;
// term matches username or email as a case-insensitive substring.
func FilterUsers(users []AdminUser, role, term string) []AdminUser {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]AdminUser, 0, len(users))
	for _, u := range users {
		if u.Role == RoleSuperAdmin {
			continue
		}
		if role != "" && role != RoleFilterAll && string(u.Role) != role {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(u.Username), term) &&
			!strings.Contains(strings.ToLower(u.Email), term) {
			continue
		}
		out = append(out, u)
	}
	return out
}
