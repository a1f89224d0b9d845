package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	config "github.com/maheshrc27/autopost/configs"
	"github.com/maheshrc27/autopost/internal/models"
	"github.com/maheshrc27/autopost/internal/repository"
	"github.com/maheshrc27/autopost/internal/transfer"
	"github.com/maheshrc27/autopost/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

const tokenDuration = 7 * 24 * time.Hour

var (
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("this account has been deactivated")
)

type AuthService interface {
	Register(ctx context.Context, r *transfer.RegisterRequest) (string, error)
	Login(ctx context.Context, r *transfer.LoginRequest) (string, *models.User, error)
	GetUser(ctx context.Context, userID int64) (*models.User, error)
}

type authService struct {
	cfg      config.Config
	userRepo repository.UserRepository
}

func NewAuthService(cfg config.Config, userRepo repository.UserRepository) AuthService {
	return &authService{cfg: cfg, userRepo: userRepo}
}

func (s *authService) Register(ctx context.Context, r *transfer.RegisterRequest) (string, error) {
	_, exists, err := s.userRepo.GetByEmail(ctx, r.Email)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(r.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	userID, err := s.userRepo.Create(ctx, &models.User{
		Email:     r.Email,
		Password:  string(hashed),
		Firstname: r.Firstname,
		Lastname:  r.Lastname,
		Role:      models.RoleUser,
	})
	if err != nil {
		return "", err
	}

	return utils.GenerateToken(s.cfg.SecretKey, strconv.FormatInt(userID, 10), tokenDuration)
}

func (s *authService) Login(ctx context.Context, r *transfer.LoginRequest) (string, *models.User, error) {
	user, exists, err := s.userRepo.GetByEmail(ctx, r.Email)
	if err != nil {
		return "", nil, err
	}
	if !exists {
		return "", nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, ErrAccountDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(r.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		slog.Info(err.Error())
	}

	token, err := utils.GenerateToken(s.cfg.SecretKey, strconv.FormatInt(user.ID, 10), tokenDuration)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *authService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	user, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.New("user not found")
	}
	return user, nil
}
