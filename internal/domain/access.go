package domain

import (
	"fmt"
	"strings"
)

// AccessRole is a user's role on a single domain.
type AccessRole int

const (
	AccessReadOnly AccessRole = iota
	AccessReadWrite
	AccessManager
	AccessOwner
)

var accessRoleNames = map[AccessRole]string{
	AccessReadOnly:  "ReadOnly",
	AccessReadWrite: "ReadWrite",
	AccessManager:   "Manager",
	AccessOwner:     "Owner",
}

func (r AccessRole) String() string {
	if name, ok := accessRoleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("AccessRole(%d)", int(r))
}

// ParseAccessRole accepts a role name (case-insensitive) or its number.
func ParseAccessRole(s string) (AccessRole, error) {
	s = strings.TrimSpace(s)
	for role, name := range accessRoleNames {
		if strings.EqualFold(name, s) || fmt.Sprint(int(role)) == s {
			return role, nil
		}
	}
	return 0, fmt.Errorf("unknown access role %q (valid: ReadOnly, ReadWrite, Manager, Owner)", s)
}

// AccessGrant is one user's access to one domain.
type AccessGrant struct {
	DomainID   int64      `json:"domain_id"`
	DomainName string     `json:"domain_name"`
	UserID     int64      `json:"user_id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	Role       AccessRole `json:"role"`
}
