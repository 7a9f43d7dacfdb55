package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"instafeed/internal/models"
	"instafeed/internal/repository"
	"instafeed/internal/storage"
)

// callLog records the order of backend calls across fakes
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(call string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type fakeUserStore struct {
	mu          sync.Mutex
	users       map[string]*models.User
	createErr   error
	getErr      error
	updateErr   error
	searchCalls int
	updates     []models.ProfileUpdate
	log         *callLog
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	f := &fakeUserStore{users: make(map[string]*models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
}

func (f *fakeUserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == strings.ToLower(username) {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
}

func (f *fakeUserStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) SearchByUsernamePrefix(ctx context.Context, prefix string, limit int) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	users := []*models.User{}
	for _, u := range f.users {
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

func (f *fakeUserStore) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.log.add("update-profile")
	f.updates = append(f.updates, update)
	if f.updateErr != nil {
		return f.updateErr
	}
	u, ok := f.users[userID]
	if !ok {
		return fmt.Errorf("user: %w", repository.ErrNotFound)
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

type fakePhotoStore struct {
	mu        sync.Mutex
	created   []*models.Photo
	createErr error
	limits    []int
	log       *callLog
}

func (f *fakePhotoStore) Create(ctx context.Context, photo *models.Photo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.log.add("create-photo")
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, photo)
	return nil
}

func (f *fakePhotoStore) ListRecent(ctx context.Context, limit, offset int) ([]*models.FeedItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limits = append(f.limits, limit)
	return []*models.FeedItem{}, nil
}

func (f *fakePhotoStore) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*models.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limits = append(f.limits, limit)
	var out []*models.Photo
	for _, p := range f.created {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

// recordingStore wraps a memory store and counts calls
type recordingStore struct {
	*storage.MemoryStore
	puts    int
	deletes int
	putErr  error
	log     *callLog
}

func newRecordingStore(log *callLog) *recordingStore {
	return &recordingStore{MemoryStore: storage.NewMemoryStore(storage.MemoryBasePath), log: log}
}

func (r *recordingStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (storage.Object, error) {
	r.puts++
	r.log.add("put")
	if r.putErr != nil {
		return storage.Object{}, r.putErr
	}
	return r.MemoryStore.Put(ctx, key, body, size, contentType)
}

func (r *recordingStore) Delete(ctx context.Context, key string) error {
	r.deletes++
	r.log.add("delete")
	return r.MemoryStore.Delete(ctx, key)
}

func jpegUpload(name string) *Upload {
	body := "\xff\xd8\xff\xe0fake-jpeg"
	return &Upload{
		Filename:    name,
		ContentType: "image/jpeg",
		Size:        int64(len(body)),
		Body:        strings.NewReader(body),
	}
}

var errBackend = errors.New("backend unavailable")
