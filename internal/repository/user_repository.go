package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/autopost/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, bool, error)
	GetByEmail(ctx context.Context, email string) (*models.User, bool, error)
	List(ctx context.Context, search string, limit, offset int) ([]*models.User, error)
	Count(ctx context.Context, search string) (int64, error)
	Update(ctx context.Context, id int64, email, firstname, lastname string) error
	SetRole(ctx context.Context, id int64, role string) error
	SetPassword(ctx context.Context, id int64, password string) error
	SetActive(ctx context.Context, id int64, active bool) error
	UpdateLastLogin(ctx context.Context, id int64) error
	Remove(ctx context.Context, id int64) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	query := `
		INSERT INTO users (email, password, firstname, lastname, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query, user.Email, user.Password, user.Firstname, user.Lastname, user.Role).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, bool, error) {
	var user models.User
	query := `SELECT id, email, password, firstname, lastname, role, is_active, created_at, last_login FROM users WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Email, &user.Password,
		&user.Firstname, &user.Lastname, &user.Role, &user.IsActive, &user.CreatedAt, &user.LastLogin)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return &user, true, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	var user models.User
	query := `SELECT id, email, password, firstname, lastname, role, is_active, created_at, last_login FROM users WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).Scan(&user.ID, &user.Email, &user.Password,
		&user.Firstname, &user.Lastname, &user.Role, &user.IsActive, &user.CreatedAt, &user.LastLogin)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return &user, true, nil
}

func (r *userRepository) List(ctx context.Context, search string, limit, offset int) ([]*models.User, error) {
	query := `SELECT id, email, firstname, lastname, role, is_active, created_at, last_login FROM users`
	args := []interface{}{}

	if search != "" {
		query += ` WHERE email ILIKE $1 OR firstname ILIKE $1 OR lastname ILIKE $1`
		args = append(args, "%"+search+"%")
		query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	}
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var u models.User
		err := rows.Scan(&u.ID, &u.Email, &u.Firstname, &u.Lastname, &u.Role, &u.IsActive, &u.CreatedAt, &u.LastLogin)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

func (r *userRepository) Count(ctx context.Context, search string) (int64, error) {
	query := `SELECT COUNT(*) FROM users`
	args := []interface{}{}

	if search != "" {
		query += ` WHERE email ILIKE $1 OR firstname ILIKE $1 OR lastname ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var count int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return count, nil
}

func (r *userRepository) Update(ctx context.Context, id int64, email, firstname, lastname string) error {
	query := `UPDATE users SET email = $1, firstname = $2, lastname = $3 WHERE id = $4`
	_, err := r.db.ExecContext(ctx, query, email, firstname, lastname, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *userRepository) SetRole(ctx context.Context, id int64, role string) error {
	query := `UPDATE users SET role = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, role, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *userRepository) SetPassword(ctx context.Context, id int64, password string) error {
	query := `UPDATE users SET password = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, password, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *userRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE users SET is_active = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, active, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	query := `UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *userRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
