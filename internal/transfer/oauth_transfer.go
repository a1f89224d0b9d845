package transfer

import "time"

// OAuthToken is the normalized outcome of a provider token exchange,
// long-lived upgrade already applied where the platform has one.
type OAuthToken struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// PlatformProfile is the provider account the credential belongs to.
type PlatformProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ConnectedAccount is the per-platform summary shown on the dashboard.
type ConnectedAccount struct {
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
	IsValid   bool      `json:"isValid"`
}
