package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	config "github.com/maheshrc27/autopost/configs"
	"github.com/maheshrc27/autopost/internal/models"
	"github.com/maheshrc27/autopost/internal/transfer"
)

const (
	facebookAuthURL = "https://www.facebook.com/v18.0/dialog/oauth"
	graphAPIURL     = "https://graph.facebook.com/v18.0"

	// Long-lived Graph tokens last 60 days when the provider does not
	// report an expiry.
	defaultLongLivedTTL = 5184000
)

// FacebookService publishes to the first page the user manages, using that
// page's own access token.
type FacebookService struct {
	cfg    config.Config
	client *http.Client

	authURL  string
	graphURL string
}

func NewFacebookService(cfg config.Config) *FacebookService {
	return &FacebookService{
		cfg:      cfg,
		client:   &http.Client{Timeout: 30 * time.Second},
		authURL:  facebookAuthURL,
		graphURL: graphAPIURL,
	}
}

func (s *FacebookService) Platform() string {
	return models.PlatformFacebook
}

func (s *FacebookService) AuthURL(state string) (string, error) {
	if s.cfg.FacebookAppID == "" || s.cfg.FacebookRedirectURI == "" {
		return "", &ConfigurationError{Platform: s.Platform()}
	}

	params := url.Values{}
	params.Add("client_id", s.cfg.FacebookAppID)
	params.Add("redirect_uri", s.cfg.FacebookRedirectURI)
	params.Add("state", state)
	params.Add("scope", "pages_manage_posts,pages_read_engagement,public_profile")

	return fmt.Sprintf("%s?%s", s.authURL, params.Encode()), nil
}

func (s *FacebookService) ExchangeToken(ctx context.Context, code string) (*transfer.OAuthToken, error) {
	if s.cfg.FacebookAppID == "" || s.cfg.FacebookAppSecret == "" || s.cfg.FacebookRedirectURI == "" {
		return nil, &ConfigurationError{Platform: s.Platform()}
	}

	shortToken, err := graphCodeExchange(ctx, s.client, s.graphURL, s.cfg.FacebookAppID, s.cfg.FacebookAppSecret, s.cfg.FacebookRedirectURI, code)
	if err != nil {
		return nil, err
	}

	longLived, err := graphLongLivedExchange(ctx, s.client, s.graphURL, s.cfg.FacebookAppID, s.cfg.FacebookAppSecret, shortToken)
	if err != nil {
		return nil, err
	}

	expiresIn := longLived.ExpiresIn
	if expiresIn == 0 {
		expiresIn = defaultLongLivedTTL
	}

	return &transfer.OAuthToken{
		AccessToken: longLived.AccessToken,
		ExpiresAt:   GetExpiresAt(expiresIn),
	}, nil
}

func (s *FacebookService) FetchProfile(ctx context.Context, accessToken string) (*transfer.PlatformProfile, error) {
	reqURL := fmt.Sprintf("%s/me?fields=id,name&access_token=%s", s.graphURL, url.QueryEscape(accessToken))

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("facebook profile fetch returned status %d: %s", resp.StatusCode, providerMessage(body, "unknown error"))
	}

	var profile transfer.GraphProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return &transfer.PlatformProfile{
		ID:       profile.ID,
		Username: profile.Name,
	}, nil
}

func (s *FacebookService) Publish(ctx context.Context, accountID, accessToken, content, imageURL string) (*transfer.PublishResult, error) {
	pages, err := s.listPages(ctx, accountID, accessToken)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, ErrNoPage
	}

	// The first managed page is the publish destination, authorized by the
	// page's own token rather than the user token.
	page := pages[0]

	payload := map[string]string{
		"message":      content,
		"access_token": page.AccessToken,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &PublishError{Platform: s.Platform(), Message: err.Error(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/%s/feed", s.graphURL, page.ID), bytes.NewBuffer(body))
	if err != nil {
		return nil, &PublishError{Platform: s.Platform(), Message: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, &PublishError{Platform: s.Platform(), Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &PublishError{Platform: s.Platform(), Message: err.Error(), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		msg := providerMessage(respBody, fmt.Sprintf("unexpected status code %d", resp.StatusCode))
		return nil, &PublishError{Platform: s.Platform(), Message: msg}
	}

	var result transfer.GraphIDResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		slog.Info(err.Error())
		return nil, &PublishError{Platform: s.Platform(), Message: "failed to parse response", Err: err}
	}

	return &transfer.PublishResult{
		Success: true,
		PostID:  result.ID,
		URL:     "https://www.facebook.com/" + strings.Replace(result.ID, "_", "/posts/", 1),
	}, nil
}

func (s *FacebookService) listPages(ctx context.Context, accountID, accessToken string) ([]transfer.GraphPage, error) {
	reqURL := fmt.Sprintf("%s/%s/accounts?access_token=%s", s.graphURL, accountID, url.QueryEscape(accessToken))

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, &PublishError{Platform: s.Platform(), Message: err.Error(), Err: err}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, &PublishError{Platform: s.Platform(), Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &PublishError{Platform: s.Platform(), Message: err.Error(), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		msg := providerMessage(respBody, fmt.Sprintf("unexpected status code %d", resp.StatusCode))
		return nil, &PublishError{Platform: s.Platform(), Message: msg}
	}

	var pages transfer.GraphPagesResponse
	if err := json.Unmarshal(respBody, &pages); err != nil {
		slog.Info(err.Error())
		return nil, &PublishError{Platform: s.Platform(), Message: "failed to parse pages response", Err: err}
	}

	return pages.Data, nil
}

// graphCodeExchange trades an authorization code for a short-lived user
// token at the Graph token endpoint.
func graphCodeExchange(ctx context.Context, client *http.Client, graphURL, clientID, clientSecret, redirectURI, code string) (string, error) {
	params := url.Values{}
	params.Add("client_id", clientID)
	params.Add("client_secret", clientSecret)
	params.Add("redirect_uri", redirectURI)
	params.Add("code", code)

	token, err := graphTokenRequest(ctx, client, fmt.Sprintf("%s/oauth/access_token?%s", graphURL, params.Encode()))
	if err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

// graphLongLivedExchange upgrades a short-lived user token to a long-lived
// one via fb_exchange_token.
func graphLongLivedExchange(ctx context.Context, client *http.Client, graphURL, clientID, clientSecret, shortToken string) (*transfer.GraphTokenResponse, error) {
	params := url.Values{}
	params.Add("grant_type", "fb_exchange_token")
	params.Add("client_id", clientID)
	params.Add("client_secret", clientSecret)
	params.Add("fb_exchange_token", shortToken)

	return graphTokenRequest(ctx, client, fmt.Sprintf("%s/oauth/access_token?%s", graphURL, params.Encode()))
}

func graphTokenRequest(ctx context.Context, client *http.Client, reqURL string) (*transfer.GraphTokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token endpoint returned status %d: %s", resp.StatusCode, providerMessage(body, "unknown error"))
	}

	var token transfer.GraphTokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	return &token, nil
}
