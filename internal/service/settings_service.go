package service

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/maheshrc27/autopost/internal/models"
	"github.com/maheshrc27/autopost/internal/repository"
)

const settingsCacheTTL = 5 * time.Minute

// SettingsProvider resolves runtime configuration with a short-lived cache
// in front of the database. Lookup order is database, then environment,
// then the caller's fallback.
type SettingsProvider interface {
	Get(ctx context.Context, key, fallback string) string
	Set(ctx context.Context, key, value string, updatedBy int64) error
	List(ctx context.Context) ([]*models.Setting, error)
	Refresh(ctx context.Context) error
}

type settingsProvider struct {
	repo repository.SettingsRepository

	mu       sync.Mutex
	cache    map[string]string
	loadedAt time.Time
	now      func() time.Time
}

func NewSettingsProvider(repo repository.SettingsRepository) SettingsProvider {
	return &settingsProvider{
		repo:  repo,
		cache: make(map[string]string),
		now:   time.Now,
	}
}

func (p *settingsProvider) Get(ctx context.Context, key, fallback string) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.now().Sub(p.loadedAt) >= settingsCacheTTL {
		p.reload(ctx)
	}

	if value, ok := p.cache[key]; ok && value != "" {
		return value
	}
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func (p *settingsProvider) Set(ctx context.Context, key, value string, updatedBy int64) error {
	if err := p.repo.Set(ctx, key, value, updatedBy); err != nil {
		return err
	}

	// Invalidate so the next Get sees the new value immediately.
	p.mu.Lock()
	p.loadedAt = time.Time{}
	p.mu.Unlock()
	return nil
}

func (p *settingsProvider) List(ctx context.Context) ([]*models.Setting, error) {
	return p.repo.List(ctx)
}

func (p *settingsProvider) Refresh(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reload(ctx)
}

// reload repopulates the cache from the database. Callers hold p.mu. A
// failed load keeps the stale cache rather than dropping to env-only.
func (p *settingsProvider) reload(ctx context.Context) error {
	settings, err := p.repo.List(ctx)
	if err != nil {
		return err
	}

	fresh := make(map[string]string, len(settings))
	for _, s := range settings {
		fresh[s.Key] = s.Value
	}
	p.cache = fresh
	p.loadedAt = p.now()
	return nil
}
