package models

import "time"

// SocialAccount is the stored OAuth credential for one (user, platform)
// pair. Access and refresh tokens are encrypted at rest.
type SocialAccount struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	Platform     string    `db:"platform" json:"platform"`
	AccountID    string    `db:"platform_user_id" json:"platform_user_id"`
	Username     string    `db:"platform_username" json:"platform_username"`
	AccessToken  string    `db:"access_token" json:"-"`
	RefreshToken string    `db:"refresh_token" json:"-"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

const (
	PlatformLinkedin  = "linkedin"
	PlatformFacebook  = "facebook"
	PlatformInstagram = "instagram"
)
