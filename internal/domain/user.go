package domain

import (
	"fmt"
	"strings"
	"time"
)

// UserRole is an account-wide role carried in the session token.
type UserRole int

const (
	// RoleNormal can only access granted domains.
	RoleNormal UserRole = iota
	// RoleContributor can submit domains and manage access to its own.
	RoleContributor
	// RoleAdmin can manage all domains and promote users to Contributor.
	RoleAdmin
	// RoleSysAdmin is Admin plus promoting users to Admin.
	RoleSysAdmin
)

func (r UserRole) String() string {
	switch r {
	case RoleNormal:
		return "Normal"
	case RoleContributor:
		return "Contributor"
	case RoleAdmin:
		return "Admin"
	case RoleSysAdmin:
		return "SysAdmin"
	}
	return fmt.Sprintf("UserRole(%d)", int(r))
}

// AtLeast reports whether r grants every permission of min.
func (r UserRole) AtLeast(min UserRole) bool { return r >= min }

// ParseUserRole accepts a role name (case-insensitive) or its number.
func ParseUserRole(s string) (UserRole, error) {
	s = strings.TrimSpace(s)
	for r := RoleNormal; r <= RoleSysAdmin; r++ {
		if strings.EqualFold(r.String(), s) || fmt.Sprint(int(r)) == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown user role %q (valid: Normal, Contributor, Admin, SysAdmin)", s)
}

// NullString is a string the API marks as unset with Valid=false.
type NullString struct {
	String string `json:"String"`
	Valid  bool   `json:"Valid"`
}

// User is an account as the user endpoints return it.
type User struct {
	ID        int64      `json:"ID"`
	Email     string     `json:"Email"`
	Name      string     `json:"Name"`
	StudentID NullString `json:"StuId"`
	Role      UserRole   `json:"Role"`
	CreatedAt time.Time  `json:"CreatedAt"`
}

// UpdateUserOpts holds an account update. Empty fields, and a nil Role,
// are left unchanged.
type UpdateUserOpts struct {
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	StudentID string    `json:"stuid,omitempty"`
	Role      *UserRole `json:"role,omitempty"`
	Password  string    `json:"password,omitempty"`
}

// IsEmpty reports whether the update would change nothing.
func (o UpdateUserOpts) IsEmpty() bool {
	return o.Name == "" && o.Email == "" && o.StudentID == "" && o.Role == nil && o.Password == ""
}
