package models

import (
	"time"

	"github.com/shashiranjanraj/cakeshop/pkg/auth"
	"gorm.io/gorm"
)

// User is an account that can sign in. Role is either "admin" or "user".
type User struct {
	ID        uint      `gorm:"primaryKey"                    json:"id"`
	Username  string    `gorm:"size:255;uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"size:255;not null"             json:"-"` // bcrypt hash, never serialised
	Role      string    `gorm:"size:20;not null;default:user" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeSave hashes a plaintext password. Values that are already bcrypt
// hashes are stored as-is so repeated saves do not double-hash.
func (u *User) BeforeSave(_ *gorm.DB) error {
	if u.Password == "" || auth.IsHash(u.Password) {
		return nil
	}
	hash, err := auth.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hash
	return nil
}

// CheckPassword reports whether plain matches the stored hash.
func (u *User) CheckPassword(plain string) bool {
	return auth.CheckPassword(u.Password, plain)
}

// Identity is the authenticated view of u carried through a request.
func (u *User) Identity() auth.Identity {
	return auth.Identity{ID: u.ID, Username: u.Username, Role: u.Role}
}
