package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	config "github.com/maheshrc27/autopost/configs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkedinAuthURLRequiresConfig(t *testing.T) {
	svc := NewLinkedinService(config.Config{})

	_, err := svc.AuthURL("state")
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "linkedin", cfgErr.Platform)
}

func TestLinkedinAuthURL(t *testing.T) {
	svc := NewLinkedinService(config.Config{
		LinkedinClientID:    "client",
		LinkedinRedirectURI: "http://localhost/oauth/linkedin/callback",
	})

	authURL, err := svc.AuthURL("the-state")
	require.NoError(t, err)
	assert.Contains(t, authURL, linkedinAuthURL)
	assert.Contains(t, authURL, "client_id=client")
	assert.Contains(t, authURL, "state=the-state")
	assert.Contains(t, authURL, "w_member_social")
}

func TestLinkedinPublish(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/ugcPosts", r.URL.Path)
		assert.Equal(t, "Bearer member-token", r.Header.Get("Authorization"))
		assert.Equal(t, "2.0.0", r.Header.Get("X-Restli-Protocol-Version"))

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "urn:li:person:li-sub-123", payload["author"])
		assert.Equal(t, "PUBLISHED", payload["lifecycleState"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "urn:li:share:6842"})
	}))
	defer srv.Close()

	svc := NewLinkedinService(config.Config{})
	svc.apiURL = srv.URL

	result, err := svc.Publish(context.Background(), "li-sub-123", "member-token", "hello network", "")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "urn:li:share:6842", result.PostID)
	assert.Equal(t, "https://www.linkedin.com/feed/update/urn:li:share:6842", result.URL)
}

func TestLinkedinPublishRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message":        "Duplicate post is not allowed",
			"serviceErrCode": 105,
			"status":         422,
		})
	}))
	defer srv.Close()

	svc := NewLinkedinService(config.Config{})
	svc.apiURL = srv.URL

	_, err := svc.Publish(context.Background(), "li-sub-123", "member-token", "hello again", "")
	var pubErr *PublishError
	require.ErrorAs(t, err, &pubErr)
	assert.Equal(t, "linkedin", pubErr.Platform)
	assert.Contains(t, pubErr.Message, "Duplicate post")
}
