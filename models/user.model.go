package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	Base
	Name                string     `gorm:"type:varchar(100);not null" json:"name"`
	Email               string     `gorm:"type:varchar(191);uniqueIndex;not null" json:"email"`
	Password            string     `gorm:"not null" json:"-"`
	Role                string     `gorm:"type:varchar(10);default:'user';not null" json:"role"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LastFailedLogin     *time.Time `json:"-"`
	BlockedUntil        *time.Time `json:"-"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PublicUser is the subset of a user exposed to other users
type PublicUser struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Role: u.Role, CreatedAt: u.CreatedAt}
}
