// Package models contains data structures for the application's domain models.
package models

import (
	"fmt"
	"time"
)

// DefaultProfilePicture is the placeholder filename used until a user uploads
// their own picture. It is never deleted from disk.
const DefaultProfilePicture = "default.jpg"

// User represents a registered author. The bcrypt hash is never serialized
// and the plaintext password is never stored.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"size:20;uniqueIndex;not null" json:"username"`
	Email          string    `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Password       string    `gorm:"size:60;not null" json:"-"`
	ProfilePicture string    `gorm:"size:64;not null;default:default.jpg" json:"profile_picture"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Posts          []Post    `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

// String returns a human-readable debug representation.
func (u User) String() string {
	return fmt.Sprintf("User(%q, %q, %q)", u.Username, u.Email, u.ProfilePicture)
}
