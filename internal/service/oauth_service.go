package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	config "github.com/maheshrc27/autopost/configs"
	"github.com/maheshrc27/autopost/internal/models"
	"github.com/maheshrc27/autopost/internal/repository"
	"github.com/maheshrc27/autopost/internal/transfer"
	"github.com/maheshrc27/autopost/pkg/utils"
)

type OAuthService interface {
	GetAuthURL(platform string, userID int64) (string, error)
	HandleCallback(ctx context.Context, platform, code, state string) (int64, error)
	ListConnected(ctx context.Context, userID int64) (map[string]*transfer.ConnectedAccount, error)
	Disconnect(ctx context.Context, userID int64, platform string) error
}

type oauthService struct {
	cfg         config.Config
	strategies  map[string]PlatformStrategy
	accountRepo repository.SocialAccountRepository
}

func NewOAuthService(cfg config.Config, accountRepo repository.SocialAccountRepository, strategies ...PlatformStrategy) OAuthService {
	byPlatform := make(map[string]PlatformStrategy, len(strategies))
	for _, st := range strategies {
		byPlatform[st.Platform()] = st
	}
	return &oauthService{
		cfg:         cfg,
		strategies:  byPlatform,
		accountRepo: accountRepo,
	}
}

type statePayload struct {
	UserID int64 `json:"userId"`
}

// EncodeState packs the initiating user's id into the OAuth state value so
// the callback can be tied back to a session-less request.
func EncodeState(userID int64) string {
	b, _ := json.Marshal(statePayload{UserID: userID})
	return base64.StdEncoding.EncodeToString(b)
}

func DecodeState(state string) (int64, error) {
	raw, err := base64.StdEncoding.DecodeString(state)
	if err != nil {
		return 0, fmt.Errorf("invalid state: %w", err)
	}

	var payload statePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return 0, fmt.Errorf("invalid state: %w", err)
	}
	if payload.UserID <= 0 {
		return 0, errors.New("invalid state: missing user id")
	}

	return payload.UserID, nil
}

func (s *oauthService) GetAuthURL(platform string, userID int64) (string, error) {
	strategy, ok := s.strategies[platform]
	if !ok {
		return "", ErrUnknownPlatform
	}
	return strategy.AuthURL(EncodeState(userID))
}

// HandleCallback finishes the OAuth flow: exchanges the code, resolves the
// publishing profile and stores the encrypted credential. Returns the user
// the flow belongs to so the handler can redirect.
func (s *oauthService) HandleCallback(ctx context.Context, platform, code, state string) (int64, error) {
	strategy, ok := s.strategies[platform]
	if !ok {
		return 0, ErrUnknownPlatform
	}

	userID, err := DecodeState(state)
	if err != nil {
		return 0, err
	}

	token, err := strategy.ExchangeToken(ctx, code)
	if err != nil {
		var cfgErr *ConfigurationError
		if errors.As(err, &cfgErr) {
			return userID, err
		}
		return userID, &AuthExchangeError{Platform: platform, Message: err.Error(), Err: err}
	}

	profile, err := strategy.FetchProfile(ctx, token.AccessToken)
	if err != nil {
		if errors.Is(err, ErrNoBusinessAccount) {
			return userID, err
		}
		return userID, &AuthExchangeError{Platform: platform, Message: err.Error(), Err: err}
	}

	key := []byte(s.cfg.SecretKey)
	encryptedAccess, err := utils.Encrypt([]byte(token.AccessToken), key)
	if err != nil {
		return userID, err
	}

	encryptedRefresh := ""
	if token.RefreshToken != "" {
		encryptedRefresh, err = utils.Encrypt([]byte(token.RefreshToken), key)
		if err != nil {
			return userID, err
		}
	}

	account := &models.SocialAccount{
		UserID:       userID,
		Platform:     platform,
		AccountID:    profile.ID,
		Username:     profile.Username,
		AccessToken:  encryptedAccess,
		RefreshToken: encryptedRefresh,
		ExpiresAt:    token.ExpiresAt,
	}

	if err := s.accountRepo.Upsert(ctx, account); err != nil {
		return userID, err
	}

	return userID, nil
}

// ListConnected returns one entry per supported platform, nil for the ones
// without a stored credential.
func (s *oauthService) ListConnected(ctx context.Context, userID int64) (map[string]*transfer.ConnectedAccount, error) {
	connected := make(map[string]*transfer.ConnectedAccount, len(s.strategies))
	for platform := range s.strategies {
		connected[platform] = nil
	}

	accounts, err := s.accountRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for _, account := range accounts {
		connected[account.Platform] = &transfer.ConnectedAccount{
			Username:  account.Username,
			ExpiresAt: account.ExpiresAt,
			IsValid:   IsCredentialValid(account.ExpiresAt, now),
		}
	}

	return connected, nil
}

func (s *oauthService) Disconnect(ctx context.Context, userID int64, platform string) error {
	if _, ok := s.strategies[platform]; !ok {
		return ErrUnknownPlatform
	}

	account, err := s.accountRepo.GetByUserAndPlatform(ctx, userID, platform)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrNotConnected
	}

	return s.accountRepo.Remove(ctx, userID, platform)
}
