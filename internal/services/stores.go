package services

import (
	"context"

	"instafeed/internal/models"
)

// UserStore is the user persistence used by the services
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	SearchByUsernamePrefix(ctx context.Context, prefix string, limit int) ([]*models.User, error)
	UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) error
}

// PhotoStore is the photo persistence used by the services
type PhotoStore interface {
	Create(ctx context.Context, photo *models.Photo) error
	ListRecent(ctx context.Context, limit, offset int) ([]*models.FeedItem, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*models.Photo, error)
}
