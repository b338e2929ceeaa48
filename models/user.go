package models

import (
	"errors"
	"time"
)

type Role string

const (
	RoleCustomer Role = "user"
	RoleAdmin    Role = "admin"
)

var ErrInvalidRole = errors.New("invalid role")

// ParseRole accepts only the exact stored role names.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer:
		return RoleCustomer, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", ErrInvalidRole
	}
}

// Elevated reports whether the role may act on orders it does not own.
func (r Role) Elevated() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleCustomer:
		return false
	default:
		return false
	}
}

type User struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `gorm:"type:VARCHAR(10);default:'user'" json:"role"`
	Addresses    []Address `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Orders       []Order   `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
