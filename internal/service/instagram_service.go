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
	"time"

	config "github.com/maheshrc27/autopost/configs"
	"github.com/maheshrc27/autopost/internal/models"
	"github.com/maheshrc27/autopost/internal/transfer"
)

// InstagramService publishes through the Graph API's two step container
// flow. The connected account must be an Instagram business account linked
// to a Facebook page.
type InstagramService struct {
	cfg    config.Config
	client *http.Client

	authURL  string
	graphURL string
}

func NewInstagramService(cfg config.Config) *InstagramService {
	return &InstagramService{
		cfg:      cfg,
		client:   &http.Client{Timeout: 30 * time.Second},
		authURL:  facebookAuthURL,
		graphURL: graphAPIURL,
	}
}

func (s *InstagramService) Platform() string {
	return models.PlatformInstagram
}

func (s *InstagramService) AuthURL(state string) (string, error) {
	if s.cfg.InstagramClientID == "" || s.cfg.InstagramRedirectURI == "" {
		return "", &ConfigurationError{Platform: s.Platform()}
	}

	params := url.Values{}
	params.Add("client_id", s.cfg.InstagramClientID)
	params.Add("redirect_uri", s.cfg.InstagramRedirectURI)
	params.Add("state", state)
	params.Add("scope", "instagram_basic,instagram_content_publish,pages_show_list,business_management")

	return fmt.Sprintf("%s?%s", s.authURL, params.Encode()), nil
}

func (s *InstagramService) ExchangeToken(ctx context.Context, code string) (*transfer.OAuthToken, error) {
	if s.cfg.InstagramClientID == "" || s.cfg.InstagramClientSecret == "" || s.cfg.InstagramRedirectURI == "" {
		return nil, &ConfigurationError{Platform: s.Platform()}
	}

	shortToken, err := graphCodeExchange(ctx, s.client, s.graphURL, s.cfg.InstagramClientID, s.cfg.InstagramClientSecret, s.cfg.InstagramRedirectURI, code)
	if err != nil {
		return nil, err
	}

	longLived, err := graphLongLivedExchange(ctx, s.client, s.graphURL, s.cfg.InstagramClientID, s.cfg.InstagramClientSecret, shortToken)
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

// FetchProfile resolves the Instagram business account behind the user's
// pages. The business account id, not the Facebook user id, is what the
// publish endpoints want.
func (s *InstagramService) FetchProfile(ctx context.Context, accessToken string) (*transfer.PlatformProfile, error) {
	reqURL := fmt.Sprintf("%s/me/accounts?fields=instagram_business_account{id,username,name}&access_token=%s", s.graphURL, url.QueryEscape(accessToken))

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

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("instagram account lookup returned status %d: %s", resp.StatusCode, providerMessage(body, "unknown error"))
	}

	var pages transfer.GraphPagesResponse
	if err := json.Unmarshal(body, &pages); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	for _, page := range pages.Data {
		if page.InstagramBusinessAccount != nil && page.InstagramBusinessAccount.ID != "" {
			account := page.InstagramBusinessAccount
			username := account.Username
			if username == "" {
				username = account.Name
			}
			return &transfer.PlatformProfile{
				ID:       account.ID,
				Username: username,
			}, nil
		}
	}

	return nil, ErrNoBusinessAccount
}

func (s *InstagramService) Publish(ctx context.Context, accountID, accessToken, content, imageURL string) (*transfer.PublishResult, error) {
	if imageURL == "" {
		return nil, ErrMissingMedia
	}

	containerID, err := s.createContainer(ctx, accountID, accessToken, content, imageURL)
	if err != nil {
		return nil, err
	}

	mediaID, err := s.publishContainer(ctx, accountID, accessToken, containerID)
	if err != nil {
		return nil, err
	}

	// Permalink lookup is best effort, a constructed URL is close enough
	// when the extra round trip fails.
	postURL := s.fetchPermalink(ctx, mediaID, accessToken)
	if postURL == "" {
		postURL = fmt.Sprintf("https://www.instagram.com/p/%s/", mediaID)
	}

	return &transfer.PublishResult{
		Success: true,
		PostID:  mediaID,
		URL:     postURL,
	}, nil
}

func (s *InstagramService) createContainer(ctx context.Context, accountID, accessToken, content, imageURL string) (string, error) {
	payload := map[string]string{
		"image_url":    imageURL,
		"caption":      content,
		"access_token": accessToken,
	}
	result, err := s.graphPost(ctx, fmt.Sprintf("%s/%s/media", s.graphURL, accountID), payload)
	if err != nil {
		return "", err
	}
	return result.ID, nil
}

func (s *InstagramService) publishContainer(ctx context.Context, accountID, accessToken, containerID string) (string, error) {
	payload := map[string]string{
		"creation_id":  containerID,
		"access_token": accessToken,
	}
	result, err := s.graphPost(ctx, fmt.Sprintf("%s/%s/media_publish", s.graphURL, accountID), payload)
	if err != nil {
		return "", err
	}
	return result.ID, nil
}

func (s *InstagramService) graphPost(ctx context.Context, reqURL string, payload map[string]string) (*transfer.GraphIDResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &PublishError{Platform: s.Platform(), Message: err.Error(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", reqURL, bytes.NewBuffer(body))
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

	return &result, nil
}

func (s *InstagramService) fetchPermalink(ctx context.Context, mediaID, accessToken string) string {
	reqURL := fmt.Sprintf("%s/%s?fields=permalink&access_token=%s", s.graphURL, mediaID, url.QueryEscape(accessToken))

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return ""
	}

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var result transfer.GraphPermalinkResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ""
	}

	return result.Permalink
}
