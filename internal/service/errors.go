package service

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to users as actionable 400-class messages.
var (
	ErrNotConnected      = errors.New("account is not connected")
	ErrTokenExpired      = errors.New("access token expired, please reconnect your account")
	ErrMissingMedia      = errors.New("an image is required to publish on Instagram")
	ErrNoPage            = errors.New("no Facebook page found, you must manage at least one page to publish")
	ErrNoBusinessAccount = errors.New("no Instagram business account linked to your Facebook pages")
	ErrUnknownPlatform   = errors.New("unsupported platform")
)

// ConfigurationError means the platform's OAuth client is not configured.
// It is fatal to the request, not actionable by the end user.
type ConfigurationError struct {
	Platform string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s OAuth client is not configured", e.Platform)
}

// AuthExchangeError wraps any provider-side failure during the callback
// flow. It is never retried, the user restarts the flow from the UI.
type AuthExchangeError struct {
	Platform string
	Message  string
	Err      error
}

func (e *AuthExchangeError) Error() string {
	return fmt.Sprintf("%s auth exchange failed: %s", e.Platform, e.Message)
}

func (e *AuthExchangeError) Unwrap() error { return e.Err }

// PublishError wraps a provider rejection of a publish call, with the
// provider's message extracted when it had one.
type PublishError struct {
	Platform string
	Message  string
	Err      error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("error publishing to %s: %s", e.Platform, e.Message)
}

func (e *PublishError) Unwrap() error { return e.Err }
