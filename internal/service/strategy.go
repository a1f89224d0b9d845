package service

import (
	"context"

	"github.com/maheshrc27/autopost/internal/transfer"
)

// PlatformStrategy is one social platform's OAuth and publish flow. Each
// implementation normalizes its provider's quirks (short-to-long-lived
// upgrades, page resolution, media containers) behind the same four
// operations.
type PlatformStrategy interface {
	Platform() string

	// AuthURL builds the provider's authorization endpoint URL carrying
	// the opaque state value. Returns *ConfigurationError when the client
	// id or redirect URI is missing.
	AuthURL(state string) (string, error)

	// ExchangeToken converts an authorization code into a normalized
	// credential, long-lived upgrade included where the platform has one.
	ExchangeToken(ctx context.Context, code string) (*transfer.OAuthToken, error)

	// FetchProfile resolves the publishing account (id + display name)
	// for a freshly exchanged token.
	FetchProfile(ctx context.Context, accessToken string) (*transfer.PlatformProfile, error)

	// Publish pushes content to the platform under the stored account id.
	// imageURL is ignored by platforms that publish text only.
	Publish(ctx context.Context, accountID, accessToken, content, imageURL string) (*transfer.PublishResult, error)
}
