package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	config "github.com/maheshrc27/autopost/configs"
	"github.com/maheshrc27/autopost/internal/models"
	"github.com/maheshrc27/autopost/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSettings struct {
	values map[string]string
}

func (s *staticSettings) Get(ctx context.Context, key, fallback string) string {
	if v, ok := s.values[key]; ok {
		return v
	}
	return fallback
}

func (s *staticSettings) Set(ctx context.Context, key, value string, updatedBy int64) error {
	return nil
}

func (s *staticSettings) List(ctx context.Context) ([]*models.Setting, error) { return nil, nil }

func (s *staticSettings) Refresh(ctx context.Context) error { return nil }

type creatingPostRepo struct {
	fakePostRepo
	created *models.Post
}

func (f *creatingPostRepo) Create(ctx context.Context, post *models.Post) (int64, error) {
	f.created = post
	return 7, nil
}

func boolPtr(b bool) *bool { return &b }

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt("launch day", models.PlatformLinkedin, "professional", "short", true, false)

	assert.Contains(t, prompt, "professional")
	assert.Contains(t, prompt, "linkedin")
	assert.Contains(t, prompt, "launch day")
	assert.Contains(t, prompt, "under 50 words")
	assert.Contains(t, prompt, "hashtags")
	assert.Contains(t, prompt, "Do not use emojis")
}

func TestBuildPromptInstagramCaption(t *testing.T) {
	prompt := buildPrompt("coffee", models.PlatformInstagram, "casual", "medium", false, true)

	assert.Contains(t, prompt, "image caption")
	assert.Contains(t, prompt, "Do not include hashtags")
	assert.Contains(t, prompt, "emojis")
}

func TestGenerateWithGroq(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer groq-key", r.Header.Get("Authorization"))

		var req transfer.GroqRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, groqModel, req.Model)
		require.Len(t, req.Messages, 1)
		assert.Contains(t, req.Messages[0].Content, "go modules")

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "  Generated post text  "}},
			},
		})
	}))
	defer srv.Close()

	repo := &creatingPostRepo{}
	svc := NewGenerateService(config.Config{GroqAPIKey: "groq-key"}, &staticSettings{}, repo).(*generateService)
	svc.groqURL = srv.URL

	post, err := svc.Generate(context.Background(), 3, &transfer.GenerateRequest{
		Topic:    "go modules",
		Platform: models.PlatformLinkedin,
		AIModel:  "groq",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), post.ID)
	assert.Equal(t, int64(3), post.UserID)
	assert.Equal(t, "Generated post text", post.Content)
	assert.Equal(t, "professional", post.Tone)
	assert.Equal(t, "medium", post.Length)
	assert.True(t, post.IncludeHashtags)
	require.NotNil(t, repo.created)
}

func TestGenerateWithGemini(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/"+geminiModel+":generateContent", r.URL.Path)
		assert.Equal(t, "gemini-key", r.URL.Query().Get("key"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": "Gemini post"}},
				}},
			},
		})
	}))
	defer srv.Close()

	repo := &creatingPostRepo{}
	settings := &staticSettings{values: map[string]string{"GEMINI_API_KEY": "gemini-key"}}
	svc := NewGenerateService(config.Config{}, settings, repo).(*generateService)
	svc.geminiURL = srv.URL

	post, err := svc.Generate(context.Background(), 1, &transfer.GenerateRequest{
		Topic:           "tea",
		Platform:        models.PlatformInstagram,
		AIModel:         "gemini",
		Tone:            "casual",
		Length:          "short",
		IncludeHashtags: boolPtr(false),
	})
	require.NoError(t, err)

	assert.Equal(t, "Gemini post", post.Content)
	assert.Equal(t, "casual", post.Tone)
	assert.False(t, post.IncludeHashtags)
}

func TestGenerateMissingAPIKey(t *testing.T) {
	svc := NewGenerateService(config.Config{}, &staticSettings{}, &creatingPostRepo{})

	_, err := svc.Generate(context.Background(), 1, &transfer.GenerateRequest{
		Topic:    "tea",
		Platform: models.PlatformLinkedin,
		AIModel:  "groq",
	})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestGenerateUnknownModel(t *testing.T) {
	svc := NewGenerateService(config.Config{}, &staticSettings{}, &creatingPostRepo{})

	_, err := svc.Generate(context.Background(), 1, &transfer.GenerateRequest{
		Topic:    "tea",
		Platform: models.PlatformLinkedin,
		AIModel:  "gpt-9",
	})
	assert.Error(t, err)
}
