package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/maheshrc27/autopost/internal/models"
)

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) (int64, error)
	GetByIDAndUser(ctx context.Context, id, userID int64) (*models.Post, error)
	ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*models.Post, error)
	ListRecentByUserID(ctx context.Context, userID int64, limit int) ([]*models.Post, error)
	CountByUserID(ctx context.Context, userID int64) (int64, error)
	SetPublished(ctx context.Context, userID, postID int64, platform, postURL, imageURL string) error
	Remove(ctx context.Context, id int64) error
	RemoveByUserID(ctx context.Context, userID int64) error
	Count(ctx context.Context) (int64, error)
	CountGrouped(ctx context.Context, column string) (map[string]int64, error)
	PublishedSplit(ctx context.Context) (published, notPublished int64, err error)
	TopUsers(ctx context.Context, limit int) ([]*models.User, []int64, error)
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) (int64, error) {
	query := `
		INSERT INTO posts (user_id, platform, ai_model, topic, content, tone, length, include_hashtags, include_emojis)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		post.UserID, post.Platform, post.AIModel, post.Topic, post.Content,
		post.Tone, post.Length, post.IncludeHashtags, post.IncludeEmojis,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *postRepository) GetByIDAndUser(ctx context.Context, id, userID int64) (*models.Post, error) {
	query := `
		SELECT id, user_id, platform, ai_model, topic, content, tone, length,
			include_hashtags, include_emojis, image_url,
			published_to_linkedin, published_to_facebook, published_to_instagram,
			linkedin_post_url, facebook_post_url, instagram_post_url,
			created_at, updated_at
		FROM posts WHERE id = $1 AND user_id = $2
	`
	row := r.db.QueryRowContext(ctx, query, id, userID)

	var p models.Post
	err := row.Scan(&p.ID, &p.UserID, &p.Platform, &p.AIModel, &p.Topic, &p.Content,
		&p.Tone, &p.Length, &p.IncludeHashtags, &p.IncludeEmojis, &p.ImageURL,
		&p.PublishedToLinkedin, &p.PublishedToFacebook, &p.PublishedToInstagram,
		&p.LinkedinPostURL, &p.FacebookPostURL, &p.InstagramPostURL,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*models.Post, error) {
	query := `
		SELECT id, user_id, platform, ai_model, topic, content, tone, length,
			include_hashtags, include_emojis, image_url,
			published_to_linkedin, published_to_facebook, published_to_instagram,
			linkedin_post_url, facebook_post_url, instagram_post_url,
			created_at, updated_at
		FROM posts
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		var p models.Post
		err := rows.Scan(&p.ID, &p.UserID, &p.Platform, &p.AIModel, &p.Topic, &p.Content,
			&p.Tone, &p.Length, &p.IncludeHashtags, &p.IncludeEmojis, &p.ImageURL,
			&p.PublishedToLinkedin, &p.PublishedToFacebook, &p.PublishedToInstagram,
			&p.LinkedinPostURL, &p.FacebookPostURL, &p.InstagramPostURL,
			&p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, &p)
	}
	return posts, rows.Err()
}

func (r *postRepository) ListRecentByUserID(ctx context.Context, userID int64, limit int) ([]*models.Post, error) {
	return r.ListByUserID(ctx, userID, limit, 0)
}

func (r *postRepository) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return count, nil
}

// SetPublished flips the per-platform published flag and stores the post
// URL. The column names are derived from a validated platform value, never
// from request input.
func (r *postRepository) SetPublished(ctx context.Context, userID, postID int64, platform, postURL, imageURL string) error {
	switch platform {
	case models.PlatformLinkedin, models.PlatformFacebook, models.PlatformInstagram:
	default:
		return fmt.Errorf("unknown platform %q", platform)
	}

	query := fmt.Sprintf(`
		UPDATE posts
		SET published_to_%s = TRUE,
			%s_post_url = $1,
			image_url = COALESCE(NULLIF($2, ''), image_url),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $3 AND user_id = $4
	`, platform, platform)

	_, err := r.db.ExecContext(ctx, query, postURL, imageURL, postID, userID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) Remove(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) RemoveByUserID(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE user_id = $1`, userID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return count, nil
}

// CountGrouped groups post counts by one of the enum columns (platform or
// ai_model).
func (r *postRepository) CountGrouped(ctx context.Context, column string) (map[string]int64, error) {
	switch column {
	case "platform", "ai_model":
	default:
		return nil, fmt.Errorf("unknown group column %q", column)
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`SELECT %s, COUNT(*) FROM posts GROUP BY %s`, column, column))
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		counts[key] = count
	}
	return counts, rows.Err()
}

func (r *postRepository) PublishedSplit(ctx context.Context) (int64, int64, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN published_to_linkedin OR published_to_facebook OR published_to_instagram THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN NOT published_to_linkedin AND NOT published_to_facebook AND NOT published_to_instagram THEN 1 ELSE 0 END), 0)
		FROM posts
	`
	var published, notPublished int64
	err := r.db.QueryRowContext(ctx, query).Scan(&published, &notPublished)
	if err != nil {
		slog.Info(err.Error())
		return 0, 0, err
	}
	return published, notPublished, nil
}

func (r *postRepository) TopUsers(ctx context.Context, limit int) ([]*models.User, []int64, error) {
	query := `
		SELECT u.id, u.email, u.firstname, u.lastname, COUNT(p.id) AS post_count
		FROM users u
		LEFT JOIN posts p ON u.id = p.user_id
		GROUP BY u.id
		ORDER BY post_count DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, nil, err
	}
	defer rows.Close()

	var users []*models.User
	var counts []int64
	for rows.Next() {
		var u models.User
		var count int64
		if err := rows.Scan(&u.ID, &u.Email, &u.Firstname, &u.Lastname, &count); err != nil {
			slog.Info(err.Error())
			return nil, nil, err
		}
		users = append(users, &u)
		counts = append(counts, count)
	}
	return users, counts, rows.Err()
}
