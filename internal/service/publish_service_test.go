package service

import (
	"context"
	"errors"
	"testing"
	"time"

	config "github.com/maheshrc27/autopost/configs"
	"github.com/maheshrc27/autopost/internal/models"
	"github.com/maheshrc27/autopost/internal/repository"
	"github.com/maheshrc27/autopost/internal/transfer"
	"github.com/maheshrc27/autopost/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

type fakeAccountRepo struct {
	accounts map[string]*models.SocialAccount
	upserted *models.SocialAccount
	removed  []string
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]*models.SocialAccount)}
}

func (f *fakeAccountRepo) Upsert(ctx context.Context, sa *models.SocialAccount) error {
	f.upserted = sa
	f.accounts[sa.Platform] = sa
	return nil
}

func (f *fakeAccountRepo) GetByUserAndPlatform(ctx context.Context, userID int64, platform string) (*models.SocialAccount, error) {
	return f.accounts[platform], nil
}

func (f *fakeAccountRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	var out []*models.SocialAccount
	for _, sa := range f.accounts {
		out = append(out, sa)
	}
	return out, nil
}

func (f *fakeAccountRepo) ListExpiringBefore(ctx context.Context, deadline time.Time) ([]*models.SocialAccount, error) {
	return nil, nil
}

func (f *fakeAccountRepo) CountByPlatform(ctx context.Context) (map[string]int64, error) {
	return nil, nil
}

func (f *fakeAccountRepo) Remove(ctx context.Context, userID int64, platform string) error {
	f.removed = append(f.removed, platform)
	delete(f.accounts, platform)
	return nil
}

func (f *fakeAccountRepo) RemoveByUserID(ctx context.Context, userID int64) error {
	f.accounts = make(map[string]*models.SocialAccount)
	return nil
}

type fakeStrategy struct {
	platform  string
	publishFn func(accountID, accessToken, content, imageURL string) (*transfer.PublishResult, error)

	publishCalls int
	lastToken    string
}

func (f *fakeStrategy) Platform() string { return f.platform }

func (f *fakeStrategy) AuthURL(state string) (string, error) {
	return "https://example.com/auth?state=" + state, nil
}

func (f *fakeStrategy) ExchangeToken(ctx context.Context, code string) (*transfer.OAuthToken, error) {
	return &transfer.OAuthToken{AccessToken: "token-for-" + code, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (f *fakeStrategy) FetchProfile(ctx context.Context, accessToken string) (*transfer.PlatformProfile, error) {
	return &transfer.PlatformProfile{ID: "profile-id", Username: "profile-name"}, nil
}

func (f *fakeStrategy) Publish(ctx context.Context, accountID, accessToken, content, imageURL string) (*transfer.PublishResult, error) {
	f.publishCalls++
	f.lastToken = accessToken
	if f.publishFn != nil {
		return f.publishFn(accountID, accessToken, content, imageURL)
	}
	return &transfer.PublishResult{Success: true, PostID: "p1", URL: "https://example.com/p1"}, nil
}

type fakePostRepo struct {
	repository.PostRepository

	publishedPlatform string
	publishedURL      string
}

func (f *fakePostRepo) SetPublished(ctx context.Context, userID, postID int64, platform, postURL, imageURL string) error {
	f.publishedPlatform = platform
	f.publishedURL = postURL
	return nil
}

func encryptToken(t *testing.T, token string) string {
	t.Helper()
	encrypted, err := utils.Encrypt([]byte(token), []byte(testSecretKey))
	require.NoError(t, err)
	return encrypted
}

func connectedAccount(t *testing.T, platform, token string, expiresAt time.Time) *models.SocialAccount {
	t.Helper()
	return &models.SocialAccount{
		UserID:      1,
		Platform:    platform,
		AccountID:   "acc-" + platform,
		Username:    "user-" + platform,
		AccessToken: encryptToken(t, token),
		ExpiresAt:   expiresAt,
	}
}

func newTestPublishService(repo *fakeAccountRepo, strategies ...PlatformStrategy) PublishService {
	cfg := config.Config{SecretKey: testSecretKey}
	return NewPublishService(cfg, repo, &fakePostRepo{}, strategies...)
}

func TestPublishNotConnected(t *testing.T) {
	strategy := &fakeStrategy{platform: models.PlatformLinkedin}
	svc := newTestPublishService(newFakeAccountRepo(), strategy)

	_, err := svc.Publish(context.Background(), 1, models.PlatformLinkedin, "hello", "")
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.Zero(t, strategy.publishCalls)
}

func TestPublishUnknownPlatform(t *testing.T) {
	svc := newTestPublishService(newFakeAccountRepo())

	_, err := svc.Publish(context.Background(), 1, "myspace", "hello", "")
	assert.ErrorIs(t, err, ErrUnknownPlatform)
}

func TestPublishExpiredToken(t *testing.T) {
	strategy := &fakeStrategy{platform: models.PlatformFacebook}
	repo := newFakeAccountRepo()
	repo.accounts[models.PlatformFacebook] = connectedAccount(t, models.PlatformFacebook, "tok", time.Now().Add(-time.Second))

	svc := newTestPublishService(repo, strategy)

	_, err := svc.Publish(context.Background(), 1, models.PlatformFacebook, "hello", "")
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Zero(t, strategy.publishCalls)
}

func TestPublishDecryptsStoredToken(t *testing.T) {
	strategy := &fakeStrategy{platform: models.PlatformLinkedin}
	repo := newFakeAccountRepo()
	repo.accounts[models.PlatformLinkedin] = connectedAccount(t, models.PlatformLinkedin, "plain-token", time.Now().Add(time.Hour))

	svc := newTestPublishService(repo, strategy)

	result, err := svc.Publish(context.Background(), 1, models.PlatformLinkedin, "hello", "")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "plain-token", strategy.lastToken)
}

func TestPublishManyPartialSuccess(t *testing.T) {
	linkedin := &fakeStrategy{platform: models.PlatformLinkedin}
	facebook := &fakeStrategy{
		platform: models.PlatformFacebook,
		publishFn: func(accountID, accessToken, content, imageURL string) (*transfer.PublishResult, error) {
			return nil, &PublishError{Platform: models.PlatformFacebook, Message: "page rejected the post"}
		},
	}

	repo := newFakeAccountRepo()
	repo.accounts[models.PlatformLinkedin] = connectedAccount(t, models.PlatformLinkedin, "tok1", time.Now().Add(time.Hour))
	repo.accounts[models.PlatformFacebook] = connectedAccount(t, models.PlatformFacebook, "tok2", time.Now().Add(time.Hour))

	svc := newTestPublishService(repo, linkedin, facebook)

	result := svc.PublishMany(context.Background(), 1, []string{models.PlatformLinkedin, models.PlatformFacebook}, "hello", "")

	assert.True(t, result.Success)
	require.Contains(t, result.Results, models.PlatformLinkedin)
	assert.NotContains(t, result.Results, models.PlatformFacebook)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "facebook:")
}

func TestPublishManyAllFailKeepsOrder(t *testing.T) {
	strategy := &fakeStrategy{platform: models.PlatformInstagram}
	svc := newTestPublishService(newFakeAccountRepo(), strategy)

	// Neither platform is connected, so both fail locally.
	result := svc.PublishMany(context.Background(), 1, []string{models.PlatformInstagram, models.PlatformLinkedin}, "hello", "")

	assert.False(t, result.Success)
	assert.Empty(t, result.Results)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "instagram:")
	assert.Contains(t, result.Errors[1], "linkedin:")
}

func TestPublishErrorIsActionable(t *testing.T) {
	strategy := &fakeStrategy{
		platform: models.PlatformLinkedin,
		publishFn: func(accountID, accessToken, content, imageURL string) (*transfer.PublishResult, error) {
			return nil, &PublishError{Platform: models.PlatformLinkedin, Message: "duplicate post"}
		},
	}
	repo := newFakeAccountRepo()
	repo.accounts[models.PlatformLinkedin] = connectedAccount(t, models.PlatformLinkedin, "tok", time.Now().Add(time.Hour))

	svc := newTestPublishService(repo, strategy)

	_, err := svc.Publish(context.Background(), 1, models.PlatformLinkedin, "hello", "")
	var pubErr *PublishError
	require.True(t, errors.As(err, &pubErr))
	assert.Equal(t, models.PlatformLinkedin, pubErr.Platform)
	assert.Contains(t, pubErr.Error(), "duplicate post")
}
