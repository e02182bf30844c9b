package domain

import (
	"strings"
	"time"
)

// Role partitions accounts: customers place orders, staff run the shop floor,
// the owner additionally manages the catalog, staff and dashboard.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleStaff    Role = "STAFF"
	RoleOwner    Role = "OWNER"
)

// ParseRole validates a wire-level role string.
func ParseRole(raw string) (Role, error) {
	switch r := Role(raw); r {
	case RoleCustomer, RoleStaff, RoleOwner:
		return r, nil
	}
	return "", Errorf(EINVALID, "unknown role %q", raw)
}

// User is an account in the directory: customer, staff, or owner.
type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	Phone        Phone
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
}

// DisplayName is the concatenated first and last name used in payment
// metadata and the dashboard.
func (u *User) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

func (u *User) Validate() error {
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return Errorf(EINVALID, "valid email required")
	}
	if u.FirstName == "" {
		return Errorf(EINVALID, "first name required")
	}
	if _, err := ParseRole(string(u.Role)); err != nil {
		return err
	}
	return nil
}
