package storage

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Object identifies a stored file and the URL it is served from
type Object struct {
	Key string
	URL string
}

// FileStore is the object storage used for photos and avatars.
type FileStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (Object, error)
	Delete(ctx context.Context, key string) error
}

// PhotoKey returns a fresh object key for a photo owned by userID
func PhotoKey(userID, ext string) string {
	return "photos/" + userID + "/" + uuid.New().String() + ext
}

// AvatarKey returns a fresh object key for an avatar owned by userID
func AvatarKey(userID, ext string) string {
	return "avatars/" + userID + "/" + uuid.New().String() + ext
}

// joinURL appends an object key to a base URL, escaping each path segment
func joinURL(base, key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(segments, "/")
}
