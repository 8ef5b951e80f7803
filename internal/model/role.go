package model

import "strings"

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleStudent, RoleStaff:
		return true
	}
	return false
}

// Generic reports whether the role may be assigned through the generic
// account workflow. Doctor accounts carry a doctor profile document and
// must go through the doctor workflow.
func (r Role) Generic() bool {
	switch r {
	case RoleAdmin, RoleStudent, RoleStaff:
		return true
	}
	return false
}

// Capitalized returns the role with an upper-cased first letter, as used
// in account-creation confirmation messages.
func (r Role) Capitalized() string {
	s := string(r)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
