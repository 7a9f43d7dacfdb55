package testutil

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"instafeed/internal/models"
	"instafeed/internal/repository"
	"instafeed/internal/storage"
)

// CallLog records backend calls in order. Safe for concurrent use.
type CallLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *CallLog) Add(call string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

// Calls returns a copy of the recorded calls
func (l *CallLog) Calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

// Count returns how many times call was recorded
func (l *CallLog) Count(call string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, c := range l.calls {
		if c == call {
			n++
		}
	}
	return n
}

// UserStore is an in-memory user repository. Err, when set, fails every
// call; UpdateErr fails only profile updates.
type UserStore struct {
	mu        sync.Mutex
	users     map[string]*models.User
	Log       *CallLog
	Err       error
	UpdateErr error
}

// NewUserStore creates a store holding users
func NewUserStore(log *CallLog, users ...*models.User) *UserStore {
	s := &UserStore{users: make(map[string]*models.User), Log: log}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Log.Add("users.create")
	if s.Err != nil {
		return s.Err
	}
	for _, u := range s.users {
		if u.Username == user.Username || strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("failed to create user: %w", repository.ErrDuplicate)
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.users {
		if u.Username == strings.ToLower(username) {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", username, repository.ErrNotFound)
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, repository.ErrNotFound)
}

func (s *UserStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	for _, u := range s.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *UserStore) SearchByUsernamePrefix(ctx context.Context, prefix string, limit int) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Log.Add("users.search")
	if s.Err != nil {
		return nil, s.Err
	}
	users := []*models.User{}
	for _, u := range s.users {
		if strings.HasPrefix(u.Username, strings.ToLower(prefix)) {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (s *UserStore) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Log.Add("users.update")
	if s.Err != nil {
		return s.Err
	}
	if s.UpdateErr != nil {
		return s.UpdateErr
	}
	u, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("user %s: %w", userID, repository.ErrNotFound)
	}
	if update.FullName != nil {
		u.FullName = *update.FullName
	}
	if update.Bio != nil {
		u.Bio = *update.Bio
	}
	if update.AvatarURL != nil {
		u.AvatarURL = *update.AvatarURL
	}
	return nil
}

// Get returns the stored user or nil
func (s *UserStore) Get(id string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id]
}

// PhotoStore is an in-memory photo repository joined against users
type PhotoStore struct {
	mu     sync.Mutex
	photos []*models.Photo
	users  *UserStore
	Log    *CallLog
	Err    error
}

// NewPhotoStore creates an empty store that resolves owners through users
func NewPhotoStore(log *CallLog, users *UserStore) *PhotoStore {
	return &PhotoStore{users: users, Log: log}
}

func (s *PhotoStore) Create(ctx context.Context, photo *models.Photo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Log.Add("photos.create")
	if s.Err != nil {
		return s.Err
	}
	s.photos = append(s.photos, photo)
	return nil
}

func (s *PhotoStore) ListRecent(ctx context.Context, limit, offset int) ([]*models.FeedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	items := []*models.FeedItem{}
	for i := len(s.photos) - 1; i >= 0; i-- {
		p := s.photos[i]
		item := &models.FeedItem{Photo: *p}
		if u := s.users.Get(p.UserID); u != nil {
			item.Username = u.Username
			item.AvatarURL = u.AvatarURL
		}
		items = append(items, item)
	}
	return page(items, limit, offset), nil
}

func (s *PhotoStore) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*models.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	photos := []*models.Photo{}
	for i := len(s.photos) - 1; i >= 0; i-- {
		if s.photos[i].UserID == userID {
			photos = append(photos, s.photos[i])
		}
	}
	return page(photos, limit, offset), nil
}

// Len returns the number of stored photos
func (s *PhotoStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.photos)
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

// FileStore is a memory store that records puts and deletes
type FileStore struct {
	*storage.MemoryStore
	Log    *CallLog
	PutErr error
}

// NewFileStore creates an empty store serving under storage.MemoryBasePath
func NewFileStore(log *CallLog) *FileStore {
	return &FileStore{MemoryStore: storage.NewMemoryStore(storage.MemoryBasePath), Log: log}
}

func (f *FileStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (storage.Object, error) {
	f.Log.Add("files.put")
	if f.PutErr != nil {
		return storage.Object{}, f.PutErr
	}
	return f.MemoryStore.Put(ctx, key, r, size, contentType)
}

func (f *FileStore) Delete(ctx context.Context, key string) error {
	f.Log.Add("files.delete")
	return f.MemoryStore.Delete(ctx, key)
}
