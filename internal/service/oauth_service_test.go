package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	config "github.com/maheshrc27/autopost/configs"
	"github.com/maheshrc27/autopost/internal/models"
	"github.com/maheshrc27/autopost/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeState(t *testing.T) {
	state := EncodeState(42)
	assert.Equal(t, "eyJ1c2VySWQiOjQyfQ==", state)

	userID, err := DecodeState(state)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestDecodeStateRejectsGarbage(t *testing.T) {
	cases := map[string]string{
		"not base64":      "!!!",
		"not json":        "bm90IGpzb24=",
		"missing user id": "e30=",
		"zero user id":    "eyJ1c2VySWQiOjB9",
	}
	for name, state := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeState(state)
			assert.Error(t, err)
		})
	}
}

func TestGetAuthURLUnknownPlatform(t *testing.T) {
	svc := NewOAuthService(config.Config{}, newFakeAccountRepo())

	_, err := svc.GetAuthURL("myspace", 1)
	assert.ErrorIs(t, err, ErrUnknownPlatform)
}

func TestGetAuthURLCarriesState(t *testing.T) {
	strategy := &fakeStrategy{platform: models.PlatformLinkedin}
	svc := NewOAuthService(config.Config{}, newFakeAccountRepo(), strategy)

	authURL, err := svc.GetAuthURL(models.PlatformLinkedin, 42)
	require.NoError(t, err)
	assert.Contains(t, authURL, "state=eyJ1c2VySWQiOjQyfQ==")
}

func TestHandleCallbackLinkedin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v2/accessToken", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "abc", r.FormValue("code"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "linkedin-token",
			"expires_in":   5184000,
		})
	})
	mux.HandleFunc("/v2/userinfo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer linkedin-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{
			"sub":   "li-sub-123",
			"name":  "Jane Doe",
			"email": "jane@example.com",
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := config.Config{
		SecretKey:            testSecretKey,
		LinkedinClientID:     "client",
		LinkedinClientSecret: "secret",
		LinkedinRedirectURI:  "http://localhost/oauth/linkedin/callback",
	}

	linkedin := NewLinkedinService(cfg)
	linkedin.tokenURL = srv.URL + "/oauth/v2/accessToken"
	linkedin.apiURL = srv.URL

	repo := newFakeAccountRepo()
	svc := NewOAuthService(cfg, repo, linkedin)

	userID, err := svc.HandleCallback(context.Background(), models.PlatformLinkedin, "abc", EncodeState(42))
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)

	require.NotNil(t, repo.upserted)
	assert.Equal(t, int64(42), repo.upserted.UserID)
	assert.Equal(t, models.PlatformLinkedin, repo.upserted.Platform)
	assert.Equal(t, "li-sub-123", repo.upserted.AccountID)
	assert.Equal(t, "Jane Doe", repo.upserted.Username)
	assert.WithinDuration(t, time.Now().Add(5184000*time.Second), repo.upserted.ExpiresAt, 10*time.Second)

	// Stored token is encrypted, not the raw provider value.
	assert.NotEqual(t, "linkedin-token", repo.upserted.AccessToken)
	decrypted, err := utils.Decrypt(repo.upserted.AccessToken, []byte(testSecretKey))
	require.NoError(t, err)
	assert.Equal(t, "linkedin-token", decrypted)
}

func TestHandleCallbackBadState(t *testing.T) {
	strategy := &fakeStrategy{platform: models.PlatformLinkedin}
	svc := NewOAuthService(config.Config{SecretKey: testSecretKey}, newFakeAccountRepo(), strategy)

	_, err := svc.HandleCallback(context.Background(), models.PlatformLinkedin, "abc", "!!!")
	assert.Error(t, err)
}

func TestHandleCallbackExchangeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"invalid_grant"}`)
	}))
	defer srv.Close()

	cfg := config.Config{
		SecretKey:            testSecretKey,
		LinkedinClientID:     "client",
		LinkedinClientSecret: "secret",
		LinkedinRedirectURI:  "http://localhost/cb",
	}
	linkedin := NewLinkedinService(cfg)
	linkedin.tokenURL = srv.URL

	repo := newFakeAccountRepo()
	svc := NewOAuthService(cfg, repo, linkedin)

	userID, err := svc.HandleCallback(context.Background(), models.PlatformLinkedin, "bad-code", EncodeState(7))
	assert.Equal(t, int64(7), userID)

	var exchangeErr *AuthExchangeError
	require.ErrorAs(t, err, &exchangeErr)
	assert.Equal(t, models.PlatformLinkedin, exchangeErr.Platform)
	assert.Nil(t, repo.upserted)
}

func TestListConnected(t *testing.T) {
	repo := newFakeAccountRepo()
	repo.accounts[models.PlatformLinkedin] = connectedAccount(t, models.PlatformLinkedin, "tok", time.Now().Add(time.Hour))
	repo.accounts[models.PlatformFacebook] = connectedAccount(t, models.PlatformFacebook, "tok", time.Now().Add(-time.Hour))

	svc := NewOAuthService(config.Config{}, repo,
		&fakeStrategy{platform: models.PlatformLinkedin},
		&fakeStrategy{platform: models.PlatformFacebook},
		&fakeStrategy{platform: models.PlatformInstagram},
	)

	connected, err := svc.ListConnected(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, connected, 3)

	require.NotNil(t, connected[models.PlatformLinkedin])
	assert.True(t, connected[models.PlatformLinkedin].IsValid)

	require.NotNil(t, connected[models.PlatformFacebook])
	assert.False(t, connected[models.PlatformFacebook].IsValid)

	assert.Nil(t, connected[models.PlatformInstagram])
}

func TestDisconnect(t *testing.T) {
	repo := newFakeAccountRepo()
	repo.accounts[models.PlatformLinkedin] = connectedAccount(t, models.PlatformLinkedin, "tok", time.Now().Add(time.Hour))

	svc := NewOAuthService(config.Config{}, repo, &fakeStrategy{platform: models.PlatformLinkedin})

	require.NoError(t, svc.Disconnect(context.Background(), 1, models.PlatformLinkedin))
	assert.Equal(t, []string{models.PlatformLinkedin}, repo.removed)

	err := svc.Disconnect(context.Background(), 1, models.PlatformLinkedin)
	assert.ErrorIs(t, err, ErrNotConnected)
}
