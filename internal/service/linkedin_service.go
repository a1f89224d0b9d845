package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	config "github.com/maheshrc27/autopost/configs"
	"github.com/maheshrc27/autopost/internal/models"
	"github.com/maheshrc27/autopost/internal/transfer"
	"golang.org/x/oauth2"
)

const (
	linkedinAuthURL  = "https://www.linkedin.com/oauth/v2/authorization"
	linkedinTokenURL = "https://www.linkedin.com/oauth/v2/accessToken"
	linkedinAPIURL   = "https://api.linkedin.com"
	linkedinFeedURL  = "https://www.linkedin.com/feed/update/"
)

// LinkedinService publishes directly under the member's own account, no
// page indirection and no long-lived upgrade.
type LinkedinService struct {
	cfg    config.Config
	client *http.Client

	authURL  string
	tokenURL string
	apiURL   string
}

func NewLinkedinService(cfg config.Config) *LinkedinService {
	return &LinkedinService{
		cfg:      cfg,
		client:   &http.Client{Timeout: 30 * time.Second},
		authURL:  linkedinAuthURL,
		tokenURL: linkedinTokenURL,
		apiURL:   linkedinAPIURL,
	}
}

func (s *LinkedinService) Platform() string {
	return models.PlatformLinkedin
}

func (s *LinkedinService) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.cfg.LinkedinClientID,
		ClientSecret: s.cfg.LinkedinClientSecret,
		RedirectURL:  s.cfg.LinkedinRedirectURI,
		Scopes:       []string{"openid", "profile", "email", "w_member_social"},
		Endpoint: oauth2.Endpoint{
			AuthURL:   s.authURL,
			TokenURL:  s.tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

func (s *LinkedinService) AuthURL(state string) (string, error) {
	if s.cfg.LinkedinClientID == "" || s.cfg.LinkedinRedirectURI == "" {
		return "", &ConfigurationError{Platform: s.Platform()}
	}
	return s.oauthConfig().AuthCodeURL(state), nil
}

func (s *LinkedinService) ExchangeToken(ctx context.Context, code string) (*transfer.OAuthToken, error) {
	if s.cfg.LinkedinClientID == "" || s.cfg.LinkedinClientSecret == "" || s.cfg.LinkedinRedirectURI == "" {
		return nil, &ConfigurationError{Platform: s.Platform()}
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.client)
	token, err := s.oauthConfig().Exchange(ctx, code)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	return &transfer.OAuthToken{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}, nil
}

func (s *LinkedinService) FetchProfile(ctx context.Context, accessToken string) (*transfer.PlatformProfile, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.apiURL+"/v2/userinfo", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("linkedin userinfo returned status %d: %s", resp.StatusCode, providerMessage(body, "unknown error"))
	}

	var userInfo transfer.LinkedinUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return &transfer.PlatformProfile{
		ID:       userInfo.Sub,
		Username: userInfo.Name,
	}, nil
}

func (s *LinkedinService) Publish(ctx context.Context, accountID, accessToken, content, imageURL string) (*transfer.PublishResult, error) {
	payload := map[string]interface{}{
		"author":         fmt.Sprintf("urn:li:person:%s", accountID),
		"lifecycleState": "PUBLISHED",
		"specificContent": map[string]interface{}{
			"com.linkedin.ugc.ShareContent": map[string]interface{}{
				"shareCommentary": map[string]string{
					"text": content,
				},
				"shareMediaCategory": "NONE",
			},
		},
		"visibility": map[string]string{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &PublishError{Platform: s.Platform(), Message: err.Error(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL+"/v2/ugcPosts", bytes.NewBuffer(body))
	if err != nil {
		return nil, &PublishError{Platform: s.Platform(), Message: err.Error(), Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

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

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := providerMessage(respBody, fmt.Sprintf("unexpected status code %d", resp.StatusCode))
		return nil, &PublishError{Platform: s.Platform(), Message: msg}
	}

	var result transfer.LinkedinPostResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		slog.Info(err.Error())
		return nil, &PublishError{Platform: s.Platform(), Message: "failed to parse response", Err: err}
	}

	return &transfer.PublishResult{
		Success: true,
		PostID:  result.ID,
		URL:     linkedinFeedURL + result.ID,
	}, nil
}
