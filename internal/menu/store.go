package menu

import "context"

// Store persists menu items. Both backends satisfy the same ordering and
// uniqueness invariants; callers cannot observe which one is active
// except through the health endpoint.
type Store interface {
	// List returns all items ordered per Less.
	List(ctx context.Context) ([]Item, error)
	// Create validates the input, assigns id and created_at, and stores
	// the item.
	Create(ctx context.Context, in Input) (*Item, error)
	// Update applies a partial patch. Missing ids yield a not-found error.
	Update(ctx context.Context, id string, patch Patch) (*Item, error)
	// Delete removes an item. Missing ids yield a not-found error.
	Delete(ctx context.Context, id string) error
	// Clear removes every item.
	Clear(ctx context.Context) error
}
