package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/maheshrc27/autopost/internal/models"
	"github.com/maheshrc27/autopost/internal/repository"
	"github.com/maheshrc27/autopost/internal/transfer"
	"golang.org/x/crypto/bcrypt"
)

var ErrUserNotFound = errors.New("user not found")

const topUsersLimit = 5

type AdminService interface {
	Stats(ctx context.Context) (*transfer.AdminStats, error)
	ListUsers(ctx context.Context, search string, page, limit int) ([]*models.User, *transfer.Pagination, error)
	GetUserDetail(ctx context.Context, userID int64) (*transfer.UserDetail, error)
	CreateUser(ctx context.Context, r *transfer.UserCreateRequest) (int64, error)
	UpdateUser(ctx context.Context, userID int64, r *transfer.UserUpdateRequest) error
	SetRole(ctx context.Context, userID int64, role string) error
	ResetPassword(ctx context.Context, userID int64, password string) error
	SetActive(ctx context.Context, userID int64, active bool) error
	DeleteUser(ctx context.Context, userID int64) error
	ListSettings(ctx context.Context) ([]*models.Setting, error)
	UpdateSetting(ctx context.Context, key, value string, updatedBy int64) error
	ReloadSettings(ctx context.Context) error
	ListAuditLogs(ctx context.Context, page, limit int) ([]*models.AuditLog, *transfer.Pagination, error)
	RecordAction(ctx context.Context, userID int64, action, resource string, resourceID int64, details, ip string)
}

type adminService struct {
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	accountRepo repository.SocialAccountRepository
	auditRepo   repository.AuditLogRepository
	settings    SettingsProvider
}

func NewAdminService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	accountRepo repository.SocialAccountRepository,
	auditRepo repository.AuditLogRepository,
	settings SettingsProvider,
) AdminService {
	return &adminService{
		userRepo:    userRepo,
		postRepo:    postRepo,
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
		settings:    settings,
	}
}

func (s *adminService) Stats(ctx context.Context) (*transfer.AdminStats, error) {
	stats := &transfer.AdminStats{}

	userCount, err := s.userRepo.Count(ctx, "")
	if err != nil {
		return nil, err
	}
	stats.Users.Total = userCount

	topUsers, counts, err := s.postRepo.TopUsers(ctx, topUsersLimit)
	if err != nil {
		return nil, err
	}
	for i, u := range topUsers {
		stats.Users.TopUsers = append(stats.Users.TopUsers, transfer.TopUser{
			ID:        u.ID,
			Email:     u.Email,
			Firstname: u.Firstname,
			Lastname:  u.Lastname,
			PostCount: counts[i],
		})
	}

	postCount, err := s.postRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.Posts.Total = postCount

	if stats.Posts.ByPlatform, err = s.postRepo.CountGrouped(ctx, "platform"); err != nil {
		return nil, err
	}
	if stats.Posts.ByAIModel, err = s.postRepo.CountGrouped(ctx, "ai_model"); err != nil {
		return nil, err
	}
	if stats.Posts.Published, stats.Posts.NotPublished, err = s.postRepo.PublishedSplit(ctx); err != nil {
		return nil, err
	}

	if stats.SocialAccounts, err = s.accountRepo.CountByPlatform(ctx); err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *adminService) ListUsers(ctx context.Context, search string, page, limit int) ([]*models.User, *transfer.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	users, err := s.userRepo.List(ctx, search, limit, (page-1)*limit)
	if err != nil {
		return nil, nil, err
	}

	total, err := s.userRepo.Count(ctx, search)
	if err != nil {
		return nil, nil, err
	}

	return users, paginate(page, limit, total), nil
}

func (s *adminService) GetUserDetail(ctx context.Context, userID int64) (*transfer.UserDetail, error) {
	user, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	posts, err := s.postRepo.ListRecentByUserID(ctx, userID, 10)
	if err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &transfer.UserDetail{
		User:           user,
		RecentPosts:    posts,
		SocialAccounts: accounts,
	}, nil
}

func (s *adminService) CreateUser(ctx context.Context, r *transfer.UserCreateRequest) (int64, error) {
	_, exists, err := s.userRepo.GetByEmail(ctx, r.Email)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(r.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	role := r.Role
	if role == "" {
		role = models.RoleUser
	}

	return s.userRepo.Create(ctx, &models.User{
		Email:     r.Email,
		Password:  string(hashed),
		Firstname: r.Firstname,
		Lastname:  r.Lastname,
		Role:      role,
	})
}

func (s *adminService) UpdateUser(ctx context.Context, userID int64, r *transfer.UserUpdateRequest) error {
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.Update(ctx, userID, r.Email, r.Firstname, r.Lastname)
}

func (s *adminService) SetRole(ctx context.Context, userID int64, role string) error {
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.SetRole(ctx, userID, role)
}

func (s *adminService) ResetPassword(ctx context.Context, userID int64, password string) error {
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return s.userRepo.SetPassword(ctx, userID, string(hashed))
}

func (s *adminService) SetActive(ctx context.Context, userID int64, active bool) error {
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.SetActive(ctx, userID, active)
}

// DeleteUser removes the user with their posts and connected accounts.
func (s *adminService) DeleteUser(ctx context.Context, userID int64) error {
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}

	if err := s.postRepo.RemoveByUserID(ctx, userID); err != nil {
		return err
	}
	if err := s.accountRepo.RemoveByUserID(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.Remove(ctx, userID)
}

func (s *adminService) ListSettings(ctx context.Context) ([]*models.Setting, error) {
	settings, err := s.settings.List(ctx)
	if err != nil {
		return nil, err
	}

	// Sensitive values never leave the server, only whether one is set.
	for _, setting := range settings {
		if setting.IsSensitive && setting.Value != "" {
			setting.Value = "********"
		}
	}
	return settings, nil
}

func (s *adminService) UpdateSetting(ctx context.Context, key, value string, updatedBy int64) error {
	return s.settings.Set(ctx, key, value, updatedBy)
}

func (s *adminService) ReloadSettings(ctx context.Context) error {
	return s.settings.Refresh(ctx)
}

func (s *adminService) ListAuditLogs(ctx context.Context, page, limit int) ([]*models.AuditLog, *transfer.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	logs, err := s.auditRepo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, nil, err
	}

	total, err := s.auditRepo.Count(ctx)
	if err != nil {
		return nil, nil, err
	}

	return logs, paginate(page, limit, total), nil
}

// RecordAction writes an audit entry. Failures are logged and swallowed, an
// audit miss never fails the admin operation itself.
func (s *adminService) RecordAction(ctx context.Context, userID int64, action, resource string, resourceID int64, details, ip string) {
	err := s.auditRepo.Create(ctx, &models.AuditLog{
		UserID:     userID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    details,
		IPAddress:  ip,
	})
	if err != nil {
		slog.Info(err.Error())
	}
}

func (s *adminService) requireUser(ctx context.Context, userID int64) error {
	_, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}
	return nil
}

func paginate(page, limit int, total int64) *transfer.Pagination {
	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}
	return &transfer.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
