package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMemoryStore_PutAndServe(t *testing.T) {
	store := NewMemoryStore("/media/")
	ctx := context.Background()

	obj, err := store.Put(ctx, "photos/u1/a.jpg", strings.NewReader("jpeg-bytes"), 10, "image/jpeg")
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if obj.Key != "photos/u1/a.jpg" {
		t.Errorf("Key = %q", obj.Key)
	}
	if obj.URL != "/media/photos/u1/a.jpg" {
		t.Errorf("URL = %q, want /media/photos/u1/a.jpg", obj.URL)
	}
	if !store.Has(obj.Key) || store.Len() != 1 {
		t.Fatal("expected object to be stored")
	}

	req := httptest.NewRequest(http.MethodGet, obj.URL, nil)
	w := httptest.NewRecorder()
	store.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Header().Get("Content-Type") != "image/jpeg" {
		t.Errorf("Content-Type = %q", w.Header().Get("Content-Type"))
	}
	if w.Body.String() != "jpeg-bytes" {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestMemoryStore_SizeMismatch(t *testing.T) {
	store := NewMemoryStore(MemoryBasePath)
	if _, err := store.Put(context.Background(), "k", strings.NewReader("abc"), 5, "image/png"); err == nil {
		t.Fatal("expected size mismatch error")
	}
	if store.Len() != 0 {
		t.Error("failed put must not store anything")
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore(MemoryBasePath)
	ctx := context.Background()

	if _, err := store.Put(ctx, "k", strings.NewReader("abc"), 3, "image/png"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if store.Has("k") {
		t.Error("object still present after Delete")
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete() of missing key error = %v", err)
	}

	w := httptest.NewRecorder()
	store.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/media/k", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
