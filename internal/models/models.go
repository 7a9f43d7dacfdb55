package models

import (
	"strings"
	"time"
)

// MaxBioLength is the longest bio, in characters, a profile may carry
const MaxBioLength = 150

// MaxFullNameLength is the longest full name, in characters
const MaxFullNameLength = 100

// User represents a registered account
type User struct {
	ID           string    `json:"uid"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Bio          string    `json:"bio"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"date_created"`
}

// Comment is a single entry in a photo's comment thread
type Comment struct {
	DisplayName string    `json:"display_name"`
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"date_created"`
}

// Photo represents an uploaded photo post
type Photo struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	ImageSrc   string    `json:"image_src"`
	StorageKey string    `json:"-"`
	Caption    string    `json:"caption"`
	Likes      []string  `json:"likes"`
	Comments   []Comment `json:"comments"`
	CreatedAt  time.Time `json:"date_created"`
}

// FeedItem is a photo joined with the identity of its owner
type FeedItem struct {
	Photo
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// ProfileUpdate carries the profile fields to merge; nil fields are left untouched
type ProfileUpdate struct {
	FullName  *string `json:"full_name,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// IsEmpty reports whether the update changes nothing
func (u ProfileUpdate) IsEmpty() bool {
	return u.FullName == nil && u.Bio == nil && u.AvatarURL == nil
}

// ClampBio trims surrounding space and limits bio to MaxBioLength characters
func ClampBio(bio string) string {
	bio = strings.TrimSpace(bio)
	runes := []rune(bio)
	if len(runes) > MaxBioLength {
		return string(runes[:MaxBioLength])
	}
	return bio
}
