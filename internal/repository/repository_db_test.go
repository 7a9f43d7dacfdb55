package repository_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"instafeed/internal/models"
	"instafeed/internal/repository"
	"instafeed/internal/testutil"

	"github.com/google/uuid"
)

var created = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newUser(username, email string) *models.User {
	return &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		FullName:     "Full " + username,
		Email:        email,
		PasswordHash: "hash",
		CreatedAt:    created,
	}
}

func seedUsers(t *testing.T, repo *repository.UserRepository, users ...*models.User) {
	t.Helper()
	for _, u := range users {
		if err := repo.Create(context.Background(), u); err != nil {
			t.Fatalf("Create(%s) error = %v", u.Username, err)
		}
	}
}

func usernames(users []*models.User) []string {
	names := []string{}
	for _, u := range users {
		names = append(names, u.Username)
	}
	return names
}

func TestUserRepository_Lookups(t *testing.T) {
	repo := repository.NewUserRepository(testutil.NewTestDatabase(t))
	ctx := context.Background()

	alice := newUser("alice", "alice@example.com")
	seedUsers(t, repo, alice)

	byID, err := repo.GetByID(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if byID.Username != "alice" || byID.FullName != "Full alice" || !byID.CreatedAt.Equal(created) {
		t.Errorf("GetByID() = %+v", byID)
	}

	if u, err := repo.GetByUsername(ctx, "ALICE"); err != nil || u.ID != alice.ID {
		t.Errorf("GetByUsername(ALICE) = %v, %v", u, err)
	}
	if u, err := repo.GetByEmail(ctx, "Alice@Example.com"); err != nil || u.ID != alice.ID {
		t.Errorf("GetByEmail(mixed case) = %v, %v", u, err)
	}

	exists, err := repo.UsernameExists(ctx, "alice")
	if err != nil || !exists {
		t.Errorf("UsernameExists(alice) = %v, %v", exists, err)
	}
	exists, err = repo.UsernameExists(ctx, "bob")
	if err != nil || exists {
		t.Errorf("UsernameExists(bob) = %v, %v", exists, err)
	}

	if _, err := repo.GetByID(ctx, uuid.NewString()); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("GetByID(unknown) error = %v, want ErrNotFound", err)
	}
	if _, err := repo.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("GetByEmail(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestUserRepository_CreateRejectsDuplicates(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
	}{
		{"same username", "alice", "other@example.com"},
		{"same email", "alice2", "alice@example.com"},
		{"email differing only in case", "alice3", "ALICE@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := repository.NewUserRepository(testutil.NewTestDatabase(t))
			seedUsers(t, repo, newUser("alice", "alice@example.com"))

			err := repo.Create(context.Background(), newUser(tt.username, tt.email))
			if !errors.Is(err, repository.ErrDuplicate) {
				t.Fatalf("Create() error = %v, want ErrDuplicate", err)
			}
		})
	}
}

func TestUserRepository_SearchByUsernamePrefix(t *testing.T) {
	repo := repository.NewUserRepository(testutil.NewTestDatabase(t))
	seedUsers(t, repo,
		newUser("alicia", "alicia@example.com"),
		newUser("alice", "alice@example.com"),
		newUser("al_x", "alx@example.com"),
		newUser("albert", "albert@example.com"),
		newUser("bob", "bob@example.com"),
	)

	tests := []struct {
		name   string
		prefix string
		limit  int
		want   []string
	}{
		{"ordered by username", "ali", 50, []string{"alice", "alicia"}},
		{"case insensitive", "BO", 50, []string{"bob"}},
		{"underscore is literal", "al_", 50, []string{"al_x"}},
		{"percent is literal", "%", 50, []string{}},
		{"limit", "al", 2, []string{"al_x", "albert"}},
		{"no match", "zed", 50, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := repo.SearchByUsernamePrefix(context.Background(), tt.prefix, tt.limit)
			if err != nil {
				t.Fatalf("SearchByUsernamePrefix() error = %v", err)
			}
			if got := usernames(users); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SearchByUsernamePrefix(%q) = %v, want %v", tt.prefix, got, tt.want)
			}
		})
	}
}

func TestUserRepository_UpdateProfileMergesFields(t *testing.T) {
	repo := repository.NewUserRepository(testutil.NewTestDatabase(t))
	ctx := context.Background()

	alice := newUser("alice", "alice@example.com")
	alice.Bio = "old bio"
	alice.AvatarURL = "/media/avatars/old.jpg"
	seedUsers(t, repo, alice)

	bio := "new bio"
	if err := repo.UpdateProfile(ctx, alice.ID, models.ProfileUpdate{Bio: &bio}); err != nil {
		t.Fatalf("UpdateProfile(bio) error = %v", err)
	}

	got, err := repo.GetByID(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Bio != "new bio" || got.FullName != "Full alice" || got.AvatarURL != "/media/avatars/old.jpg" {
		t.Errorf("after bio update = %+v", got)
	}

	name, avatar := "Alice L", "/media/avatars/new.jpg"
	if err := repo.UpdateProfile(ctx, alice.ID, models.ProfileUpdate{FullName: &name, AvatarURL: &avatar}); err != nil {
		t.Fatalf("UpdateProfile(name, avatar) error = %v", err)
	}

	got, err = repo.GetByID(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Bio != "new bio" || got.FullName != "Alice L" || got.AvatarURL != avatar {
		t.Errorf("after name and avatar update = %+v", got)
	}

	if err := repo.UpdateProfile(ctx, uuid.NewString(), models.ProfileUpdate{Bio: &bio}); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("UpdateProfile(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestPhotoRepository_ListsWithLikesAndComments(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	users := repository.NewUserRepository(db)
	photos := repository.NewPhotoRepository(db)
	ctx := context.Background()

	alice := newUser("alice", "alice@example.com")
	alice.AvatarURL = "/media/avatars/alice.jpg"
	bob := newUser("bob", "bob@example.com")
	seedUsers(t, users, alice, bob)

	older := &models.Photo{
		ID:         uuid.NewString(),
		UserID:     alice.ID,
		ImageSrc:   "/media/photos/a1.jpg",
		StorageKey: "photos/a1.jpg",
		Caption:    "first",
		Likes:      []string{bob.ID},
		Comments: []models.Comment{
			{DisplayName: "bob", Comment: "nice", CreatedAt: created},
		},
		CreatedAt: created,
	}
	newer := &models.Photo{
		ID:         uuid.NewString(),
		UserID:     alice.ID,
		ImageSrc:   "/media/photos/a2.jpg",
		StorageKey: "photos/a2.jpg",
		Caption:    "second",
		CreatedAt:  created.Add(time.Hour),
	}
	newest := &models.Photo{
		ID:         uuid.NewString(),
		UserID:     bob.ID,
		ImageSrc:   "/media/photos/b1.jpg",
		StorageKey: "photos/b1.jpg",
		Caption:    "bob's",
		CreatedAt:  created.Add(2 * time.Hour),
	}
	for _, p := range []*models.Photo{older, newer, newest} {
		if err := photos.Create(ctx, p); err != nil {
			t.Fatalf("Create(%s) error = %v", p.Caption, err)
		}
	}

	mine, err := photos.ListByUserID(ctx, alice.ID, 10, 0)
	if err != nil {
		t.Fatalf("ListByUserID() error = %v", err)
	}
	if len(mine) != 2 || mine[0].Caption != "second" || mine[1].Caption != "first" {
		t.Fatalf("ListByUserID() captions = %v, want [second first]", captions(mine))
	}
	if !reflect.DeepEqual(mine[1].Likes, []string{bob.ID}) {
		t.Errorf("Likes = %v", mine[1].Likes)
	}
	if len(mine[1].Comments) != 1 || mine[1].Comments[0].Comment != "nice" || !mine[1].Comments[0].CreatedAt.Equal(created) {
		t.Errorf("Comments = %+v", mine[1].Comments)
	}
	if len(mine[0].Likes) != 0 || len(mine[0].Comments) != 0 {
		t.Errorf("photo created without likes or comments = %+v, want empty lists", mine[0])
	}

	feed, err := photos.ListRecent(ctx, 2, 0)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(feed) != 2 || feed[0].Caption != "bob's" || feed[1].Caption != "second" {
		t.Fatalf("ListRecent() = %+v", feed)
	}
	if feed[1].Username != "alice" || feed[1].AvatarURL != "/media/avatars/alice.jpg" {
		t.Errorf("feed owner = %q %q", feed[1].Username, feed[1].AvatarURL)
	}

	rest, err := photos.ListRecent(ctx, 2, 2)
	if err != nil {
		t.Fatalf("ListRecent(offset) error = %v", err)
	}
	if len(rest) != 1 || rest[0].Caption != "first" {
		t.Errorf("ListRecent(offset 2) = %+v", rest)
	}
}

func captions(photos []*models.Photo) []string {
	out := []string{}
	for _, p := range photos {
		out = append(out, p.Caption)
	}
	return out
}
