package menu

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/freshstart/storefront/internal/apperr"
)

// FileStore is the local fallback backend: a single JSON array on disk,
// guarded by an in-process mutex. Concurrent writers from separate
// processes are last-writer-wins; that limitation is confined to this
// backend.
type FileStore struct {
	path   string
	logger *slog.Logger

	mu sync.Mutex
}

// NewFileStore creates a file-backed store at path. When the directory
// cannot be created (read-only deployments), the store falls back to the
// system temp directory.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		path = filepath.Join("data", "menu-items.json")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fallback := filepath.Join(os.TempDir(), "freshstart-data", filepath.Base(path))
		logger.Warn("data directory not writable, using temp dir",
			slog.String("path", path),
			slog.String("fallback", fallback),
			slog.String("error", err.Error()),
		)
		path = fallback
		_ = os.MkdirAll(filepath.Dir(path), 0o755)
	}

	return &FileStore{path: path, logger: logger}
}

// Path returns the resolved data file location.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) readAll() ([]Item, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Item{}, nil
		}
		return nil, apperr.Unavailable("menu data file unreadable", err)
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, apperr.Internal("menu data file corrupt", err)
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

func (s *FileStore) writeAll(items []Item) error {
	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return apperr.Internal("menu data encode failed", err)
	}

	// Write-then-rename keeps readers from observing a torn file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return apperr.Unavailable("menu data file unwritable", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return apperr.Unavailable("menu data file unwritable", err)
	}
	return nil
}

// List returns all items ordered per Less.
func (s *FileStore) List(ctx context.Context) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.readAll()
	if err != nil {
		return nil, err
	}
	Sort(items)
	return items, nil
}

// Create stores a new item.
func (s *FileStore) Create(ctx context.Context, in Input) (*Item, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.readAll()
	if err != nil {
		return nil, err
	}

	item := Item{
		ID:          uuid.NewString(),
		SectionSlug: in.SectionSlug,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Image:       in.Image,
		SortOrder:   in.SortOrder,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.writeAll(append([]Item{item}, items...)); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update applies a partial patch to an existing item.
func (s *FileStore) Update(ctx context.Context, id string, patch Patch) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.readAll()
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].ID != id {
			continue
		}
		patch.Apply(&items[i])
		if err := s.writeAll(items); err != nil {
			return nil, err
		}
		updated := items[i]
		return &updated, nil
	}
	return nil, apperr.NotFound("menu item not found", nil)
}

// Delete removes an item by id.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.readAll()
	if err != nil {
		return err
	}

	next := items[:0:0]
	for _, item := range items {
		if item.ID != id {
			next = append(next, item)
		}
	}
	if len(next) == len(items) {
		return apperr.NotFound("menu item not found", nil)
	}
	return s.writeAll(next)
}

// Clear removes every item.
func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeAll([]Item{})
}
