package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"instafeed/internal/models"
	"instafeed/internal/storage"
)

// searchLimit bounds a single username lookup
const searchLimit = 50

// UserService handles profile reads, search and profile edits
type UserService struct {
	users UserStore
	files storage.FileStore
}

// NewUserService creates a new user service
func NewUserService(users UserStore, files storage.FileStore) *UserService {
	return &UserService{
		users: users,
		files: files,
	}
}

// GetProfile returns the stored profile of userID
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return user, nil
}

// GetByUsername returns the user with exactly this username
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, fmt.Errorf("failed to get user %q: %w", username, err)
	}
	return user, nil
}

// GetUsersByUsername returns users whose username starts with text.
// Blank text performs no lookup and returns no users.
func (s *UserService) GetUsersByUsername(ctx context.Context, text string) ([]*models.User, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	users, err := s.users.SearchByUsernamePrefix(ctx, text, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}

// UploadAvatar stores a new avatar image for userID
func (s *UserService) UploadAvatar(ctx context.Context, file *Upload, userID string) (storage.Object, error) {
	if err := validateImage(file, "Please select a profile picture"); err != nil {
		return storage.Object{}, err
	}

	obj, err := s.files.Put(ctx, storage.AvatarKey(userID, file.extension()), file.Body, file.Size, file.ContentType)
	if err != nil {
		return storage.Object{}, fmt.Errorf("failed to upload avatar: %w", err)
	}
	return obj, nil
}

func validateFullName(name string) error {
	if utf8.RuneCountInString(name) > models.MaxFullNameLength {
		return invalid(fmt.Sprintf("Full name must be at most %d characters", models.MaxFullNameLength))
	}
	return nil
}

// UpdateUserProfile merges the supplied fields into the stored profile.
// Full name is trimmed and bio is clamped to the maximum length.
func (s *UserService) UpdateUserProfile(ctx context.Context, userID string, update models.ProfileUpdate) error {
	if update.IsEmpty() {
		return nil
	}
	if update.FullName != nil {
		name := strings.TrimSpace(*update.FullName)
		if err := validateFullName(name); err != nil {
			return err
		}
		update.FullName = &name
	}
	if update.Bio != nil {
		bio := models.ClampBio(*update.Bio)
		update.Bio = &bio
	}

	if err := s.users.UpdateProfile(ctx, userID, update); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// EditProfileInput is the edit-profile form
type EditProfileInput struct {
	FullName string
	Bio      string
	Avatar   *Upload // optional
}

// EditProfile uploads the optional avatar, then updates the profile. An
// avatar stored for a profile write that then fails is deleted again.
func (s *UserService) EditProfile(ctx context.Context, userID string, in EditProfileInput) error {
	update := models.ProfileUpdate{
		FullName: &in.FullName,
		Bio:      &in.Bio,
	}

	// Reject bad fields before anything is stored
	if err := validateFullName(strings.TrimSpace(in.FullName)); err != nil {
		return err
	}

	var avatar *storage.Object
	if in.Avatar != nil {
		obj, err := s.UploadAvatar(ctx, in.Avatar, userID)
		if err != nil {
			return err
		}
		avatar = &obj
		update.AvatarURL = &obj.URL
	}

	if err := s.UpdateUserProfile(ctx, userID, update); err != nil {
		if avatar != nil {
			discardObject(s.files, avatar.Key)
		}
		return err
	}

	return nil
}
