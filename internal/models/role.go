package models

import "strings"

// Role is the closed set of account roles. Authorization decisions switch
// exhaustively over these values; raw strings never leave this package.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTrainer Role = "trainer"
	RoleStudent Role = "student"
)

func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleTrainer:
		return RoleTrainer, true
	case RoleStudent, Role(""):
		return RoleStudent, true
	}
	return RoleStudent, false
}

func (role Role) Valid() bool {
	switch role {
	case RoleAdmin, RoleTrainer, RoleStudent:
		return true
	}
	return false
}
