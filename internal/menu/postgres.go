package menu

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/freshstart/storefront/internal/apperr"
	"github.com/freshstart/storefront/internal/db"
)

const itemColumns = "id, section_slug, name, description, price, image, sort_order, created_at"

// PGStore is the remote backend over Postgres. Single-row atomicity comes
// from the database; no app-level locking is needed.
type PGStore struct {
	pool   *sql.DB
	helper db.Helper
}

// NewPGStore wraps an open pool.
func NewPGStore(pool *sql.DB) *PGStore {
	return &PGStore{pool: pool, helper: db.Helper{Timeout: 5 * time.Second}}
}

// Migrate ensures the menu_items table exists.
func (s *PGStore) Migrate(ctx context.Context) error {
	_, err := s.helper.Exec(ctx, s.pool, `
		CREATE TABLE IF NOT EXISTS menu_items (
			id           TEXT PRIMARY KEY,
			section_slug TEXT NOT NULL,
			name         JSONB NOT NULL DEFAULT '{}'::jsonb,
			description  JSONB NOT NULL DEFAULT '{}'::jsonb,
			price        TEXT NOT NULL,
			image        TEXT NOT NULL DEFAULT '',
			sort_order   INTEGER,
			created_at   TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return apperr.Unavailable("menu schema migration failed", err)
	}
	return nil
}

type itemRow struct {
	id          string
	sectionSlug string
	name        []byte
	description []byte
	price       string
	image       string
	sortOrder   sql.NullInt64
	createdAt   time.Time
}

func (r itemRow) toItem() (*Item, error) {
	item := Item{
		ID:          r.id,
		SectionSlug: r.sectionSlug,
		Price:       r.price,
		Image:       r.image,
		CreatedAt:   r.createdAt.UTC(),
	}
	if len(r.name) > 0 {
		if err := json.Unmarshal(r.name, &item.Name); err != nil {
			return nil, apperr.Internal("menu item name corrupt", err)
		}
	}
	if len(r.description) > 0 {
		if err := json.Unmarshal(r.description, &item.Description); err != nil {
			return nil, apperr.Internal("menu item description corrupt", err)
		}
	}
	if r.sortOrder.Valid {
		order := int(r.sortOrder.Int64)
		item.SortOrder = &order
	}
	return &item, nil
}

func scanItem(scan func(dest ...any) error) (*Item, error) {
	var row itemRow
	if err := scan(&row.id, &row.sectionSlug, &row.name, &row.description, &row.price, &row.image, &row.sortOrder, &row.createdAt); err != nil {
		return nil, err
	}
	return row.toItem()
}

func nullOrder(order *int) sql.NullInt64 {
	if order == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*order), Valid: true}
}

func mustJSON(v any) []byte {
	raw, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return raw
}

// List returns all items, ordered in SQL to match the Less comparator.
func (s *PGStore) List(ctx context.Context) ([]Item, error) {
	rows, cancel, err := s.helper.Query(ctx, s.pool,
		`SELECT `+itemColumns+` FROM menu_items
		 ORDER BY sort_order ASC NULLS LAST, created_at DESC`)
	if err != nil {
		return nil, apperr.Unavailable("menu query failed", err)
	}
	defer cancel()
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		item, err := scanItem(rows.Scan)
		if err != nil {
			return nil, wrapPGError("menu row scan failed", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Unavailable("menu query failed", err)
	}
	return items, nil
}

// Create inserts a new item.
func (s *PGStore) Create(ctx context.Context, in Input) (*Item, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	row, cancel := s.helper.QueryRow(ctx, s.pool,
		`INSERT INTO menu_items (`+itemColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+itemColumns,
		uuid.NewString(),
		in.SectionSlug,
		mustJSON(in.Name),
		mustJSON(in.Description),
		in.Price,
		in.Image,
		nullOrder(in.SortOrder),
		time.Now().UTC(),
	)
	defer cancel()

	item, err := scanItem(row.Scan)
	if err != nil {
		return nil, wrapPGError("menu insert failed", err)
	}
	return item, nil
}

// Update applies a partial patch; only provided fields are written, so id
// and created_at can never change.
func (s *PGStore) Update(ctx context.Context, id string, patch Patch) (*Item, error) {
	sets := []string{}
	args := []any{}
	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if patch.SectionSlug != nil {
		sets = append(sets, "section_slug = "+arg(*patch.SectionSlug))
	}
	if patch.Name != nil {
		sets = append(sets, "name = "+arg(mustJSON(*patch.Name)))
	}
	if patch.Description != nil {
		sets = append(sets, "description = "+arg(mustJSON(*patch.Description)))
	}
	if patch.Price != nil {
		sets = append(sets, "price = "+arg(*patch.Price))
	}
	if patch.Image != nil {
		sets = append(sets, "image = "+arg(*patch.Image))
	}
	if patch.SortOrder != nil {
		sets = append(sets, "sort_order = "+arg(nullOrder(patch.SortOrder)))
	}

	if len(sets) == 0 {
		// Nothing to change; return the stored item unchanged.
		row, cancel := s.helper.QueryRow(ctx, s.pool,
			`SELECT `+itemColumns+` FROM menu_items WHERE id = $1`, id)
		defer cancel()
		item, err := scanItem(row.Scan)
		if err != nil {
			return nil, wrapPGError("menu select failed", err)
		}
		return item, nil
	}

	query := `UPDATE menu_items SET ` + strings.Join(sets, ", ") +
		` WHERE id = ` + arg(id) + ` RETURNING ` + itemColumns

	row, cancel := s.helper.QueryRow(ctx, s.pool, query, args...)
	defer cancel()

	item, err := scanItem(row.Scan)
	if err != nil {
		return nil, wrapPGError("menu update failed", err)
	}
	return item, nil
}

// Delete removes an item by id.
func (s *PGStore) Delete(ctx context.Context, id string) error {
	result, err := s.helper.Exec(ctx, s.pool, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return apperr.Unavailable("menu delete failed", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperr.Unavailable("menu delete failed", err)
	}
	if affected == 0 {
		return apperr.NotFound("menu item not found", nil)
	}
	return nil
}

// Clear removes every item.
func (s *PGStore) Clear(ctx context.Context) error {
	if _, err := s.helper.Exec(ctx, s.pool, `DELETE FROM menu_items`); err != nil {
		return apperr.Unavailable("menu clear failed", err)
	}
	return nil
}

func wrapPGError(message string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("menu item not found", nil)
	}
	if appErr := apperr.As(err); appErr != nil {
		return err
	}
	return apperr.Unavailable(message, err)
}
