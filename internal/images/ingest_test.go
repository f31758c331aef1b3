package images

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/freshstart/storefront/internal/apperr"
)

type fakeStorage struct {
	uploads map[string][]byte
	types   map[string]string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploads: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeStorage) Upload(ctx context.Context, key, contentType string, data []byte) error {
	if _, exists := f.uploads[key]; exists {
		return apperr.Conflict("object already exists", nil)
	}
	f.uploads[key] = data
	f.types[key] = contentType
	return nil
}

func (f *fakeStorage) PublicURL(key string) string {
	return "https://storage.example/public/" + key
}

func newTestIngestor(storage Storage) *Ingestor {
	ing := NewIngestor(storage)
	ing.now = func() time.Time { return time.UnixMilli(1700000000000) }
	ing.newID = func() string { return "fixed-id" }
	return ing
}

func dataURL(mime string, payload []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(payload)
}

func TestIngestDataURLPNG(t *testing.T) {
	storage := newFakeStorage()
	ing := newTestIngestor(storage)

	url, err := ing.IngestDataURL(context.Background(), dataURL("image/png", []byte("png-bytes")))
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	key := "menu-items/1700000000000-fixed-id.png"
	if !strings.HasSuffix(url, key) {
		t.Fatalf("expected url ending in %q, got %q", key, url)
	}
	if string(storage.uploads[key]) != "png-bytes" {
		t.Fatalf("bytes not stored under expected key")
	}
	if storage.types[key] != "image/png" {
		t.Fatalf("expected stored content type image/png, got %q", storage.types[key])
	}
}

func TestIngestJPEGExtension(t *testing.T) {
	storage := newFakeStorage()
	ing := newTestIngestor(storage)

	url, err := ing.IngestDataURL(context.Background(), dataURL("image/jpeg", []byte("jpeg-bytes")))
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if !strings.HasSuffix(url, ".jpg") {
		t.Fatalf("expected jpeg to map to .jpg, got %q", url)
	}
}

func TestIngestRejectsBeforeStorage(t *testing.T) {
	storage := newFakeStorage()
	ing := newTestIngestor(storage)
	ctx := context.Background()

	cases := []struct {
		name    string
		dataURL string
	}{
		{"no base64 body", "data:image/png;base64,"},
		{"not a data url", "https://example.com/cat.png"},
		{"non-image mime", dataURL("text/plain", []byte("hi"))},
		{"invalid base64", "data:image/png;base64,!!!!"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ing.IngestDataURL(ctx, tc.dataURL)
			appErr := apperr.As(err)
			if appErr == nil || appErr.Code != apperr.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	if len(storage.uploads) != 0 {
		t.Fatalf("expected no storage calls for rejected payloads")
	}
}

func TestIngestWithoutStorageIsUnavailable(t *testing.T) {
	ing := NewIngestor(nil)

	_, err := ing.IngestDataURL(context.Background(), dataURL("image/png", []byte("x")))
	if !apperr.IsUnavailable(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestExtensionFromMIME(t *testing.T) {
	if got := ExtensionFromMIME("image/jpeg"); got != "jpg" {
		t.Fatalf("expected jpg, got %q", got)
	}
	if got := ExtensionFromMIME("image/webp"); got != "webp" {
		t.Fatalf("expected webp, got %q", got)
	}
}
