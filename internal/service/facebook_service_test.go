package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	config "github.com/maheshrc27/autopost/configs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFacebookService(graphURL string) *FacebookService {
	svc := NewFacebookService(config.Config{
		FacebookAppID:       "app",
		FacebookAppSecret:   "secret",
		FacebookRedirectURI: "http://localhost/oauth/facebook/callback",
	})
	svc.graphURL = graphURL
	return svc
}

func TestFacebookAuthURLRequiresConfig(t *testing.T) {
	svc := NewFacebookService(config.Config{})

	_, err := svc.AuthURL("state")
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "facebook", cfgErr.Platform)
}

func TestFacebookExchangeTokenUpgradesToLongLived(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("grant_type") == "fb_exchange_token" {
			assert.Equal(t, "short-token", r.URL.Query().Get("fb_exchange_token"))
			json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token": "long-token",
				"expires_in":   7200,
			})
			return
		}
		assert.Equal(t, "abc", r.URL.Query().Get("code"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "short-token",
			"expires_in":   3600,
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	svc := newTestFacebookService(srv.URL)

	token, err := svc.ExchangeToken(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "long-token", token.AccessToken)
	assert.WithinDuration(t, time.Now().Add(7200*time.Second), token.ExpiresAt, 5*time.Second)
}

func TestFacebookExchangeTokenDefaultsExpiry(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("grant_type") == "fb_exchange_token" {
			// Long-lived tokens sometimes come back without expires_in.
			json.NewEncoder(w).Encode(map[string]string{"access_token": "long-token"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": "short-token"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	svc := newTestFacebookService(srv.URL)

	token, err := svc.ExchangeToken(context.Background(), "abc")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5184000*time.Second), token.ExpiresAt, 5*time.Second)
}

func TestFacebookPublishUsesPageToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/fb-user-1/accounts", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "user-token", r.URL.Query().Get("access_token"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{
				{"id": "page1", "name": "My Page", "access_token": "page-token"},
				{"id": "page2", "name": "Other Page", "access_token": "other-token"},
			},
		})
	})
	mux.HandleFunc("/page1/feed", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "hello world", payload["message"])
		assert.Equal(t, "page-token", payload["access_token"])

		json.NewEncoder(w).Encode(map[string]string{"id": "page1_987"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	svc := newTestFacebookService(srv.URL)

	result, err := svc.Publish(context.Background(), "fb-user-1", "user-token", "hello world", "")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "page1_987", result.PostID)
	assert.Equal(t, "https://www.facebook.com/page1/posts/987", result.URL)
}

func TestFacebookPublishNoPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"data": []interface{}{}})
	}))
	defer srv.Close()

	svc := newTestFacebookService(srv.URL)

	_, err := svc.Publish(context.Background(), "fb-user-1", "user-token", "hello", "")
	assert.ErrorIs(t, err, ErrNoPage)
}

func TestFacebookPublishProviderRejection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/fb-user-1/accounts", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{{"id": "page1", "access_token": "page-token"}},
		})
	})
	mux.HandleFunc("/page1/feed", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{"message": "Permissions error", "code": 200},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	svc := newTestFacebookService(srv.URL)

	_, err := svc.Publish(context.Background(), "fb-user-1", "user-token", "hello", "")
	var pubErr *PublishError
	require.ErrorAs(t, err, &pubErr)
	assert.Equal(t, "facebook", pubErr.Platform)
	assert.Contains(t, pubErr.Message, "Permissions error")
}
