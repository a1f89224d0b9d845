package service

import (
	"context"
	"testing"
	"time"

	"github.com/maheshrc27/autopost/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettingsRepo struct {
	values    map[string]string
	listCalls int
	setCalls  int
}

func (f *fakeSettingsRepo) Get(ctx context.Context, key string) (string, bool, error) {
	value, ok := f.values[key]
	return value, ok, nil
}

func (f *fakeSettingsRepo) List(ctx context.Context) ([]*models.Setting, error) {
	f.listCalls++
	var out []*models.Setting
	for k, v := range f.values {
		out = append(out, &models.Setting{Key: k, Value: v})
	}
	return out, nil
}

func (f *fakeSettingsRepo) Set(ctx context.Context, key, value string, updatedBy int64) error {
	f.setCalls++
	f.values[key] = value
	return nil
}

func TestSettingsProviderCachesWithinTTL(t *testing.T) {
	repo := &fakeSettingsRepo{values: map[string]string{"GEMINI_API_KEY": "db-key"}}

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	provider := NewSettingsProvider(repo).(*settingsProvider)
	provider.now = func() time.Time { return clock }

	ctx := context.Background()

	assert.Equal(t, "db-key", provider.Get(ctx, "GEMINI_API_KEY", "fallback"))
	assert.Equal(t, 1, repo.listCalls)

	// Database changes are invisible until the TTL lapses.
	repo.values["GEMINI_API_KEY"] = "new-key"
	clock = clock.Add(settingsCacheTTL - time.Second)
	assert.Equal(t, "db-key", provider.Get(ctx, "GEMINI_API_KEY", "fallback"))
	assert.Equal(t, 1, repo.listCalls)

	clock = clock.Add(2 * time.Second)
	assert.Equal(t, "new-key", provider.Get(ctx, "GEMINI_API_KEY", "fallback"))
	assert.Equal(t, 2, repo.listCalls)
}

func TestSettingsProviderFallbackOrder(t *testing.T) {
	repo := &fakeSettingsRepo{values: map[string]string{}}
	provider := NewSettingsProvider(repo)
	ctx := context.Background()

	t.Run("env beats fallback", func(t *testing.T) {
		t.Setenv("AUTOPOST_TEST_SETTING", "from-env")
		assert.Equal(t, "from-env", provider.Get(ctx, "AUTOPOST_TEST_SETTING", "fallback"))
	})

	t.Run("fallback when nothing is set", func(t *testing.T) {
		assert.Equal(t, "fallback", provider.Get(ctx, "AUTOPOST_MISSING_SETTING", "fallback"))
	})
}

func TestSettingsProviderSetInvalidatesCache(t *testing.T) {
	repo := &fakeSettingsRepo{values: map[string]string{"GROQ_API_KEY": "old"}}
	provider := NewSettingsProvider(repo)
	ctx := context.Background()

	assert.Equal(t, "old", provider.Get(ctx, "GROQ_API_KEY", ""))

	require.NoError(t, provider.Set(ctx, "GROQ_API_KEY", "new", 1))
	assert.Equal(t, 1, repo.setCalls)

	// No TTL wait needed after a write through the provider.
	assert.Equal(t, "new", provider.Get(ctx, "GROQ_API_KEY", ""))
}

func TestSettingsProviderRefresh(t *testing.T) {
	repo := &fakeSettingsRepo{values: map[string]string{"KEY": "v1"}}
	provider := NewSettingsProvider(repo)
	ctx := context.Background()

	assert.Equal(t, "v1", provider.Get(ctx, "KEY", ""))

	repo.values["KEY"] = "v2"
	require.NoError(t, provider.Refresh(ctx))
	assert.Equal(t, "v2", provider.Get(ctx, "KEY", ""))
}
