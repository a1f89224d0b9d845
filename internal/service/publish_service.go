package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	config "github.com/maheshrc27/autopost/configs"
	"github.com/maheshrc27/autopost/internal/repository"
	"github.com/maheshrc27/autopost/internal/transfer"
	"github.com/maheshrc27/autopost/pkg/utils"
)

type PublishService interface {
	Publish(ctx context.Context, userID int64, platform, content, imageURL string) (*transfer.PublishResult, error)
	PublishMany(ctx context.Context, userID int64, platforms []string, content, imageURL string) *transfer.MultiPublishResult
	RecordPublish(ctx context.Context, userID, postID int64, platform, postURL, imageURL string) error
}

type publishService struct {
	cfg         config.Config
	strategies  map[string]PlatformStrategy
	accountRepo repository.SocialAccountRepository
	postRepo    repository.PostRepository
}

func NewPublishService(cfg config.Config, accountRepo repository.SocialAccountRepository, postRepo repository.PostRepository, strategies ...PlatformStrategy) PublishService {
	byPlatform := make(map[string]PlatformStrategy, len(strategies))
	for _, st := range strategies {
		byPlatform[st.Platform()] = st
	}
	return &publishService{
		cfg:         cfg,
		strategies:  byPlatform,
		accountRepo: accountRepo,
		postRepo:    postRepo,
	}
}

// Publish pushes content to one platform using the stored credential.
// Credential checks happen before any provider call so a disconnected or
// expired account never costs an HTTP round trip.
func (s *publishService) Publish(ctx context.Context, userID int64, platform, content, imageURL string) (*transfer.PublishResult, error) {
	strategy, ok := s.strategies[platform]
	if !ok {
		return nil, ErrUnknownPlatform
	}

	account, err := s.accountRepo.GetByUserAndPlatform(ctx, userID, platform)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrNotConnected
	}

	if !IsCredentialValid(account.ExpiresAt, time.Now()) {
		return nil, ErrTokenExpired
	}

	accessToken, err := utils.Decrypt(account.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to decrypt access token: %w", err)
	}

	return strategy.Publish(ctx, account.AccountID, accessToken, content, imageURL)
}

// PublishMany publishes to the given platforms in request order. One
// platform failing never stops the others, partial success is still
// success.
func (s *publishService) PublishMany(ctx context.Context, userID int64, platforms []string, content, imageURL string) *transfer.MultiPublishResult {
	result := &transfer.MultiPublishResult{
		Results: make(map[string]*transfer.PublishResult, len(platforms)),
	}

	for _, platform := range platforms {
		published, err := s.Publish(ctx, userID, platform, content, imageURL)
		if err != nil {
			slog.Info(err.Error())
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", platform, err))
			continue
		}
		result.Results[platform] = published
		result.Success = true
	}

	return result
}

// RecordPublish marks a stored post as published on one platform and keeps
// the provider's post URL.
func (s *publishService) RecordPublish(ctx context.Context, userID, postID int64, platform, postURL, imageURL string) error {
	return s.postRepo.SetPublished(ctx, userID, postID, platform, postURL, imageURL)
}
