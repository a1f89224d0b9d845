package transfer

import (
	"time"

	"github.com/maheshrc27/autopost/internal/models"
)

type TopUser struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	PostCount int64  `json:"post_count"`
}

type AdminStats struct {
	Users struct {
		Total    int64     `json:"total"`
		TopUsers []TopUser `json:"topUsers"`
	} `json:"users"`
	Posts struct {
		Total        int64            `json:"total"`
		ByPlatform   map[string]int64 `json:"byPlatform"`
		ByAIModel    map[string]int64 `json:"byAI"`
		Published    int64            `json:"published"`
		NotPublished int64            `json:"notPublished"`
	} `json:"posts"`
	SocialAccounts map[string]int64 `json:"socialAccounts"`
}

type UserDetail struct {
	*models.User
	RecentPosts    []*models.Post          `json:"recentPosts"`
	SocialAccounts []*models.SocialAccount `json:"socialAccounts"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

type AuditLogEntry struct {
	ID         int64     `json:"id"`
	Action     string    `json:"action"`
	Resource   string    `json:"resource"`
	ResourceID int64     `json:"resource_id"`
	Details    string    `json:"details"`
	IPAddress  string    `json:"ip_address"`
	CreatedAt  time.Time `json:"created_at"`
	UserEmail  string    `json:"user_email"`
}
