package models

import (
	"github.com/golang-jwt/jwt/v5"
)

type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleLibrarian UserRole = "librarian"
	RoleStaff     UserRole = "staff"
)

// Token user types. Student tokens carry the students.id as UserID.
const (
	UserTypeStaff   = "user"
	UserTypeStudent = "student"
)

// JWTClaims is the payload of the access tokens this service accepts.
// Username is recorded as the actor on every audited write.
type JWTClaims struct {
	UserID   int      `json:"user_id"`
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
	UserType string   `json:"user_type"`
	jwt.RegisteredClaims
}
