// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is the stored account record. PasswordHash never leaves the
// repository and service layers.
type User struct {
	ID           string
	UserName     string
	FullName     string
	PasswordHash []byte
	ProfileImage string
	CreatedAt    time.Time
}

// Identity is the public view of an authenticated user, resolved once per
// request and carried in the request context.
type Identity struct {
	ID           string `json:"id"`
	UserName     string `json:"username"`
	FullName     string `json:"fullName"`
	ProfileImage string `json:"profileImg"`
}

// Identity strips secret material from u.
func (u *User) Identity() Identity {
	return Identity{
		ID:           u.ID,
		UserName:     u.UserName,
		FullName:     u.FullName,
		ProfileImage: u.ProfileImage,
	}
}
