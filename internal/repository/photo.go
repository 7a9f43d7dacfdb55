package repository

import (
	"context"
	"fmt"

	"instafeed/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PhotoRepository handles database operations for photos
type PhotoRepository struct {
	db *pgxpool.Pool
}

// NewPhotoRepository creates a new photo repository
func NewPhotoRepository(db *pgxpool.Pool) *PhotoRepository {
	return &PhotoRepository{db: db}
}

// Create creates a new photo
func (r *PhotoRepository) Create(ctx context.Context, photo *models.Photo) error {
	likes := photo.Likes
	if likes == nil {
		likes = []string{}
	}
	comments := photo.Comments
	if comments == nil {
		comments = []models.Comment{}
	}

	query := `
		INSERT INTO photos (id, user_id, image_src, storage_key, caption, likes, comments, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		photo.ID, photo.UserID, photo.ImageSrc, photo.StorageKey,
		photo.Caption, likes, comments, photo.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create photo: %w", err)
	}
	return nil
}

// ListByUserID retrieves a user's photos, newest first
func (r *PhotoRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*models.Photo, error) {
	query := `
		SELECT id, user_id, image_src, storage_key, caption, likes, comments, created_at
		FROM photos
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get photos: %w", err)
	}
	defer rows.Close()

	photos := []*models.Photo{}
	for rows.Next() {
		var photo models.Photo
		err := rows.Scan(
			&photo.ID, &photo.UserID, &photo.ImageSrc, &photo.StorageKey,
			&photo.Caption, &photo.Likes, &photo.Comments, &photo.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, &photo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photos: %w", err)
	}

	return photos, nil
}

// ListRecent retrieves the newest photos across all users joined with their owners
func (r *PhotoRepository) ListRecent(ctx context.Context, limit, offset int) ([]*models.FeedItem, error) {
	query := `
		SELECT p.id, p.user_id, p.image_src, p.storage_key, p.caption, p.likes, p.comments, p.created_at,
		       u.username, u.avatar_url
		FROM photos p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get feed: %w", err)
	}
	defer rows.Close()

	items := []*models.FeedItem{}
	for rows.Next() {
		var item models.FeedItem
		err := rows.Scan(
			&item.ID, &item.UserID, &item.ImageSrc, &item.StorageKey,
			&item.Caption, &item.Likes, &item.Comments, &item.CreatedAt,
			&item.Username, &item.AvatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feed item: %w", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feed: %w", err)
	}

	return items, nil
}

