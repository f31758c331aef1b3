// Package images turns an uploaded image, multipart or embedded data
// URL, into a durable object-storage URL.
package images

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/freshstart/storefront/internal/apperr"
)

// keyFolder namespaces every stored image inside the bucket.
const keyFolder = "menu-items"

var dataURLPattern = regexp.MustCompile(`^data:(image/[a-zA-Z0-9.+-]+);base64,(.+)$`)

// Storage is the slice of the object-storage client ingestion needs.
type Storage interface {
	Upload(ctx context.Context, key, contentType string, data []byte) error
	PublicURL(key string) string
}

// Ingestor validates and persists uploaded images.
type Ingestor struct {
	storage Storage
	now     func() time.Time
	newID   func() string
}

// NewIngestor builds an ingestor. A nil storage marks object storage as
// unconfigured; ingestion then fails rather than storing locally.
func NewIngestor(storage Storage) *Ingestor {
	return &Ingestor{
		storage: storage,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// ParseDataURL splits a base64 image data URL into MIME type and bytes.
func ParseDataURL(dataURL string) (string, []byte, error) {
	match := dataURLPattern.FindStringSubmatch(dataURL)
	if match == nil {
		return "", nil, apperr.Validation("invalid data URL", nil)
	}
	data, err := base64.StdEncoding.DecodeString(match[2])
	if err != nil {
		return "", nil, apperr.Validation("invalid base64 payload", err)
	}
	return match[1], data, nil
}

// ExtensionFromMIME maps an image MIME type to a filename extension.
func ExtensionFromMIME(mimeType string) string {
	_, subtype, _ := strings.Cut(mimeType, "/")
	if subtype == "jpeg" {
		return "jpg"
	}
	return subtype
}

// Ingest validates the MIME type, stores the bytes under a
// collision-resistant key, and returns the public URL.
func (i *Ingestor) Ingest(ctx context.Context, mimeType string, data []byte) (string, error) {
	if i.storage == nil {
		return "", apperr.Unavailable("object storage is not configured", nil)
	}
	if !strings.HasPrefix(mimeType, "image/") || ExtensionFromMIME(mimeType) == "" {
		return "", apperr.Validation("unsupported content type", nil)
	}
	if len(data) == 0 {
		return "", apperr.Validation("empty image payload", nil)
	}

	key := fmt.Sprintf("%s/%d-%s.%s", keyFolder, i.now().UnixMilli(), i.newID(), ExtensionFromMIME(mimeType))
	if err := i.storage.Upload(ctx, key, mimeType, data); err != nil {
		return "", err
	}
	return i.storage.PublicURL(key), nil
}

// IngestDataURL parses and ingests an embedded data URL. Malformed
// payloads are rejected before any storage call.
func (i *Ingestor) IngestDataURL(ctx context.Context, dataURL string) (string, error) {
	mimeType, data, err := ParseDataURL(dataURL)
	if err != nil {
		return "", err
	}
	return i.Ingest(ctx, mimeType, data)
}
