package transfer

import "github.com/golang-jwt/jwt/v5"

type CustomClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Firstname string `json:"firstname" validate:"required"`
	Lastname  string `json:"lastname" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GenerateRequest struct {
	Topic           string `json:"topic" validate:"required"`
	Platform        string `json:"platform" validate:"required,oneof=linkedin facebook instagram"`
	AIModel         string `json:"aiModel" validate:"required,oneof=gemini groq"`
	Tone            string `json:"tone" validate:"omitempty,oneof=professional casual enthusiastic informative"`
	Length          string `json:"length" validate:"omitempty,oneof=short medium long"`
	IncludeHashtags *bool  `json:"includeHashtags"`
	IncludeEmojis   bool   `json:"includeEmojis"`
}

type PublishRequest struct {
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
	PostID   int64  `json:"postId"`
}

type BatchPublishRequest struct {
	Content   string   `json:"content"`
	ImageURL  string   `json:"imageUrl"`
	PostID    int64    `json:"postId"`
	Platforms []string `json:"platforms"`
}

type SchedulePublishRequest struct {
	Content   string   `json:"content"`
	ImageURL  string   `json:"imageUrl"`
	PostID    int64    `json:"postId"`
	Platforms []string `json:"platforms"`
	DelaySecs int64    `json:"delaySeconds"`
}

type UserCreateRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Firstname string `json:"firstname" validate:"required"`
	Lastname  string `json:"lastname" validate:"required"`
	Role      string `json:"role" validate:"omitempty,oneof=user admin"`
}

type UserUpdateRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Firstname string `json:"firstname" validate:"required"`
	Lastname  string `json:"lastname" validate:"required"`
}

type RoleUpdateRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

type PasswordResetRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

type StatusUpdateRequest struct {
	IsActive bool `json:"is_active"`
}

type SettingUpdateRequest struct {
	Value string `json:"value"`
}
