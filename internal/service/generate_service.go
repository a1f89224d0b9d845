package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	config "github.com/maheshrc27/autopost/configs"
	"github.com/maheshrc27/autopost/internal/models"
	"github.com/maheshrc27/autopost/internal/repository"
	"github.com/maheshrc27/autopost/internal/transfer"
)

const (
	geminiAPIURL = "https://generativelanguage.googleapis.com/v1beta"
	groqAPIURL   = "https://api.groq.com/openai/v1"

	geminiModel = "gemini-1.5-flash"
	groqModel   = "llama-3.3-70b-versatile"
)

var ErrMissingAPIKey = errors.New("no API key configured for the selected model")

type GenerateService interface {
	Generate(ctx context.Context, userID int64, r *transfer.GenerateRequest) (*models.Post, error)
}

type generateService struct {
	cfg      config.Config
	settings SettingsProvider
	postRepo repository.PostRepository
	client   *http.Client

	geminiURL string
	groqURL   string
}

func NewGenerateService(cfg config.Config, settings SettingsProvider, postRepo repository.PostRepository) GenerateService {
	return &generateService{
		cfg:       cfg,
		settings:  settings,
		postRepo:  postRepo,
		client:    &http.Client{Timeout: 60 * time.Second},
		geminiURL: geminiAPIURL,
		groqURL:   groqAPIURL,
	}
}

// Generate produces post content with the selected model and stores the
// draft. Defaults are applied here so the stored post reflects what was
// actually asked of the model.
func (s *generateService) Generate(ctx context.Context, userID int64, r *transfer.GenerateRequest) (*models.Post, error) {
	tone := r.Tone
	if tone == "" {
		tone = "professional"
	}
	length := r.Length
	if length == "" {
		length = "medium"
	}
	includeHashtags := true
	if r.IncludeHashtags != nil {
		includeHashtags = *r.IncludeHashtags
	}

	prompt := buildPrompt(r.Topic, r.Platform, tone, length, includeHashtags, r.IncludeEmojis)

	var content string
	var err error
	switch r.AIModel {
	case "gemini":
		content, err = s.generateWithGemini(ctx, prompt)
	case "groq":
		content, err = s.generateWithGroq(ctx, prompt)
	default:
		return nil, fmt.Errorf("unsupported model %q", r.AIModel)
	}
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:          userID,
		Platform:        r.Platform,
		AIModel:         r.AIModel,
		Topic:           r.Topic,
		Content:         strings.TrimSpace(content),
		Tone:            tone,
		Length:          length,
		IncludeHashtags: includeHashtags,
		IncludeEmojis:   r.IncludeEmojis,
	}

	id, err := s.postRepo.Create(ctx, post)
	if err != nil {
		return nil, err
	}
	post.ID = id

	return post, nil
}

func buildPrompt(topic, platform, tone, length string, hashtags, emojis bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write a %s social media post for %s about: %s.\n", tone, platform, topic)

	switch length {
	case "short":
		b.WriteString("Keep it under 50 words.\n")
	case "long":
		b.WriteString("Write 150 to 250 words.\n")
	default:
		b.WriteString("Write 50 to 150 words.\n")
	}

	switch platform {
	case models.PlatformLinkedin:
		b.WriteString("Use a style suited to a professional audience.\n")
	case models.PlatformInstagram:
		b.WriteString("Write it as an engaging image caption.\n")
	}

	if hashtags {
		b.WriteString("Include 3 to 5 relevant hashtags at the end.\n")
	} else {
		b.WriteString("Do not include hashtags.\n")
	}
	if emojis {
		b.WriteString("Use a few fitting emojis.\n")
	} else {
		b.WriteString("Do not use emojis.\n")
	}

	b.WriteString("Reply with the post text only, no preamble and no explanation.")
	return b.String()
}

func (s *generateService) generateWithGemini(ctx context.Context, prompt string) (string, error) {
	apiKey := s.settings.Get(ctx, "GEMINI_API_KEY", s.cfg.GeminiAPIKey)
	if apiKey == "" {
		return "", ErrMissingAPIKey
	}
	model := s.settings.Get(ctx, "GEMINI_MODEL", geminiModel)

	reqBody := transfer.GeminiRequest{
		Contents: []transfer.GeminiContent{
			{Parts: []transfer.GeminiPart{{Text: prompt}}},
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	reqURL := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.geminiURL, model, apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", reqURL, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, providerMessage(respBody, "unknown error"))
	}

	var result transfer.GeminiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		slog.Info(err.Error())
		return "", err
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini returned no content")
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}

func (s *generateService) generateWithGroq(ctx context.Context, prompt string) (string, error) {
	apiKey := s.settings.Get(ctx, "GROQ_API_KEY", s.cfg.GroqAPIKey)
	if apiKey == "" {
		return "", ErrMissingAPIKey
	}
	model := s.settings.Get(ctx, "GROQ_MODEL", groqModel)

	reqBody := transfer.GroqRequest{
		Model: model,
		Messages: []transfer.GroqMessage{
			{Role: "user", Content: prompt},
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.groqURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return "", fmt.Errorf("groq request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("groq returned status %d: %s", resp.StatusCode, providerMessage(respBody, "unknown error"))
	}

	var result transfer.GroqResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		slog.Info(err.Error())
		return "", err
	}
	if len(result.Choices) == 0 {
		return "", errors.New("groq returned no content")
	}

	return result.Choices[0].Message.Content, nil
}
