package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/autopost/internal/models"
	"github.com/maheshrc27/autopost/internal/repository"
)

const expiryWarningWindow = 72 * time.Hour

// TokenExpiryJob periodically reports credentials that are expired or about
// to expire. None of the supported platforms allow a silent server-side
// renewal, the user has to redo the OAuth flow, so this only records the
// problem.
type TokenExpiryJob struct {
	sr repository.SocialAccountRepository
	al repository.AuditLogRepository
}

func NewTokenExpiryJob(sr repository.SocialAccountRepository, al repository.AuditLogRepository) *TokenExpiryJob {
	return &TokenExpiryJob{sr: sr, al: al}
}

func (j *TokenExpiryJob) SweepExpiring() {
	ctx := context.Background()
	now := time.Now()

	accounts, err := j.sr.ListExpiringBefore(ctx, now.Add(expiryWarningWindow))
	if err != nil {
		slog.Info(err.Error())
		return
	}

	for _, acc := range accounts {
		action := "TOKEN_EXPIRING"
		if acc.ExpiresAt.Before(now) {
			action = "TOKEN_EXPIRED"
		}

		slog.Info("social account token needs reconnection",
			"user_id", acc.UserID, "platform", acc.Platform, "expires_at", acc.ExpiresAt)

		entry := &models.AuditLog{
			UserID:     acc.UserID,
			Action:     action,
			Resource:   "social_account",
			ResourceID: acc.ID,
			Details:    fmt.Sprintf("%s token expires at %s", acc.Platform, acc.ExpiresAt.Format(time.RFC3339)),
		}
		if err := j.al.Create(ctx, entry); err != nil {
			slog.Info(err.Error())
		}
	}
}
