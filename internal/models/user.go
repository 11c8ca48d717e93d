package models

import (
	"gorm.io/gorm"
)

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// User is a scheme member or a staff administrator.
type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Password     string `gorm:"not null" json:"-"`
	Name         string `gorm:"not null" json:"name"`
	Phone        string `gorm:"index" json:"phone"`
	Role         string `gorm:"default:'member'" json:"role"`
	IsActive     bool   `gorm:"not null" json:"is_active"`
	TokenVersion int    `gorm:"default:1" json:"-"`
}

// IsStaff reports whether the user receives staff fan-out notifications.
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin
}
