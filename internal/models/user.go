package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the closed set of user types recognized by the API.
// The values match the wire format used by clients ("1" = admin, "2" = regular).
type Role string

const (
	RoleAdmin   Role = "1"
	RoleRegular Role = "2"
)

// Valid reports whether the role is one of the recognized user types.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleRegular
}

// OneOf reports whether the role is a member of the allowed set.
func (r Role) OneOf(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// User represents a registered user of the platform.
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserType  Role           `json:"userType" gorm:"type:varchar(8)" validate:"required"`
	FirstName string         `json:"firstName" gorm:"type:varchar(100)" validate:"required"`
	LastName  string         `json:"lastName" gorm:"type:varchar(100)" validate:"required"`
	Email     string         `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password  string         `json:"-" gorm:"type:varchar(255)"` // bcrypt hash, never serialized
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
