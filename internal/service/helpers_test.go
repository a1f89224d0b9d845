package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsCredentialValid(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, IsCredentialValid(now.Add(time.Second), now))
	assert.False(t, IsCredentialValid(now, now))
	assert.False(t, IsCredentialValid(now.Add(-time.Second), now))
}

func TestGetExpiresAt(t *testing.T) {
	got := GetExpiresAt(3600)
	assert.WithinDuration(t, time.Now().Add(time.Hour), got, 5*time.Second)
}

func TestProviderMessage(t *testing.T) {
	t.Run("graph error payload", func(t *testing.T) {
		body := []byte(`{"error":{"message":"Invalid OAuth access token.","type":"OAuthException","code":190}}`)
		assert.Equal(t, "Invalid OAuth access token.", providerMessage(body, "fallback"))
	})

	t.Run("flat message payload", func(t *testing.T) {
		body := []byte(`{"message":"Unpermitted fields in REQUEST_BODY"}`)
		assert.Equal(t, "Unpermitted fields in REQUEST_BODY", providerMessage(body, "fallback"))
	})

	t.Run("unparseable payload", func(t *testing.T) {
		assert.Equal(t, "fallback", providerMessage([]byte("<html>502</html>"), "fallback"))
	})

	t.Run("empty payload", func(t *testing.T) {
		assert.Equal(t, "fallback", providerMessage(nil, "fallback"))
	})
}
