package service

import (
	"encoding/json"
	"time"

	"github.com/maheshrc27/autopost/internal/transfer"
)

// IsCredentialValid reports whether a stored credential is still usable at
// the given instant. Purely a local check, a credential that expires at
// exactly now is already invalid. The provider's publish API stays the
// authoritative check.
func IsCredentialValid(expiresAt, now time.Time) bool {
	return expiresAt.After(now)
}

func GetExpiresAt(expiresIn int64) time.Time {
	return time.Now().Add(time.Duration(expiresIn) * time.Second)
}

// providerMessage extracts a human-readable message from a provider error
// payload, unwrapping one level. Falls back to the given message.
func providerMessage(body []byte, fallback string) string {
	var graphErr transfer.GraphErrorResponse
	if err := json.Unmarshal(body, &graphErr); err == nil && graphErr.Error.Message != "" {
		return graphErr.Error.Message
	}

	var flat struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &flat); err == nil && flat.Message != "" {
		return flat.Message
	}

	return fallback
}
