package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"instafeed/internal/models"
	"instafeed/internal/storage"

	"github.com/google/uuid"
)

// PhotoService handles photo-related business logic
type PhotoService struct {
	photos PhotoStore
	files  storage.FileStore
	now    func() time.Time
}

// NewPhotoService creates a new photo service
func NewPhotoService(photos PhotoStore, files storage.FileStore) *PhotoService {
	return &PhotoService{
		photos: photos,
		files:  files,
		now:    time.Now,
	}
}

// UploadPhoto stores a photo file for userID and returns its reference
func (s *PhotoService) UploadPhoto(ctx context.Context, file *Upload, userID string) (storage.Object, error) {
	if err := validateImage(file, "Please select a photo"); err != nil {
		return storage.Object{}, err
	}

	obj, err := s.files.Put(ctx, storage.PhotoKey(userID, file.extension()), file.Body, file.Size, file.ContentType)
	if err != nil {
		return storage.Object{}, fmt.Errorf("failed to upload photo: %w", err)
	}
	return obj, nil
}

// AddPhoto persists a photo record
func (s *PhotoService) AddPhoto(ctx context.Context, photo *models.Photo) error {
	if photo.ID == "" {
		photo.ID = uuid.New().String()
	}
	if err := s.photos.Create(ctx, photo); err != nil {
		return fmt.Errorf("failed to add photo: %w", err)
	}
	return nil
}

// CreatePost validates the upload form, stores the file and records the
// photo. The stored file is deleted again if the record cannot be written.
func (s *PhotoService) CreatePost(ctx context.Context, userID string, file *Upload, caption string) (*models.Photo, error) {
	if err := validateImage(file, "Please select a photo"); err != nil {
		return nil, err
	}
	caption = strings.TrimSpace(caption)
	if caption == "" {
		return nil, invalid("Please add a caption")
	}

	obj, err := s.UploadPhoto(ctx, file, userID)
	if err != nil {
		return nil, err
	}

	photo := &models.Photo{
		ID:         uuid.New().String(),
		UserID:     userID,
		ImageSrc:   obj.URL,
		StorageKey: obj.Key,
		Caption:    caption,
		Likes:      []string{},
		Comments:   []models.Comment{},
		CreatedAt:  s.now(),
	}

	if err := s.AddPhoto(ctx, photo); err != nil {
		discardObject(s.files, obj.Key)
		return nil, err
	}

	return photo, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Feed retrieves the most recent photos across all users
func (s *PhotoService) Feed(ctx context.Context, limit, offset int) ([]*models.FeedItem, error) {
	limit, offset = clampPage(limit, offset)
	items, err := s.photos.ListRecent(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get feed: %w", err)
	}
	return items, nil
}

// PhotosByUser retrieves a user's photos, newest first
func (s *PhotoService) PhotosByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Photo, error) {
	limit, offset = clampPage(limit, offset)
	photos, err := s.photos.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get photos: %w", err)
	}
	return photos, nil
}
