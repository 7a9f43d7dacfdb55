package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryStore is an in-memory FileStore. Objects are served by its
// ServeHTTP under the configured base path. Safe for concurrent use.
type MemoryStore struct {
	basePath string
	objects  map[string]memoryObject
	mu       sync.RWMutex
}

// NewMemoryStore creates an empty store whose URLs start with basePath
func NewMemoryStore(basePath string) *MemoryStore {
	return &MemoryStore{
		basePath: "/" + strings.Trim(basePath, "/"),
		objects:  make(map[string]memoryObject),
	}
}

// Put stores the content of r under key
func (m *MemoryStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (Object, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Object{}, fmt.Errorf("failed to read content: %w", err)
	}
	if size >= 0 && int64(len(data)) != size {
		return Object{}, fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{data: data, contentType: contentType}

	return Object{Key: key, URL: joinURL(m.basePath, key)}, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// Has reports whether key is stored
func (m *MemoryStore) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok
}

// Len returns the number of stored objects
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

// ServeHTTP serves stored objects by key
func (m *MemoryStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, m.basePath+"/")

	m.mu.RLock()
	obj, ok := m.objects[key]
	m.mu.RUnlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", obj.contentType)
	w.Write(obj.data)
}
