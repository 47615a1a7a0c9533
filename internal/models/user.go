// Package models contains data structures for the application's domain models.
package models

import (
	"crypto/md5"
	"encoding/hex"
	"time"
)

// User represents a registered account. Password holds the bcrypt hash and
// is never serialized. Avatar is derived from the email on read and never
// persisted.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"-"`
	Password  string    `gorm:"not null" json:"-"`
	Avatar    string    `gorm:"-" json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
	Posts     []Post    `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

// AvatarURL maps a normalized email to its gravatar-style URL. Same email,
// same URL; the value is recomputed on every read.
func AvatarURL(email string) string {
	sum := md5.Sum([]byte(email))
	return "https://gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?s=128"
}

// LoadAvatar fills in the derived avatar field.
func (u *User) LoadAvatar() {
	u.Avatar = AvatarURL(u.Email)
}

// Profile is the public identity projection exposed outside the identity
// layer: no email, no password hash.
type Profile struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// Profile returns the public projection of the user.
func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Username: u.Username, Avatar: AvatarURL(u.Email)}
}
