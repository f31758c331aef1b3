package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Set(ctx, "menu", []byte("items"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	value, ok, err := store.Get(ctx, "menu")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if string(value) != "items" {
		t.Fatalf("unexpected value %q", value)
	}

	if err := store.Delete(ctx, "menu"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "menu"); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	now := time.Now()
	store := NewMemoryStore()
	store.Now = func() time.Time { return now }
	ctx := context.Background()

	if err := store.Set(ctx, "menu", []byte("items"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	now = now.Add(59 * time.Second)
	if _, ok, _ := store.Get(ctx, "menu"); !ok {
		t.Fatalf("expected entry to still be fresh")
	}

	now = now.Add(2 * time.Second)
	if _, ok, _ := store.Get(ctx, "menu"); ok {
		t.Fatalf("expected entry to have expired")
	}
}

func TestMemoryStoreOverwriteExtendsDeadline(t *testing.T) {
	now := time.Now()
	store := NewMemoryStore()
	store.Now = func() time.Time { return now }
	ctx := context.Background()

	if err := store.Set(ctx, "menu", []byte("v1"), time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "menu", []byte("v2"), time.Minute); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	now = now.Add(10 * time.Second)
	value, ok, _ := store.Get(ctx, "menu")
	if !ok {
		t.Fatalf("expected overwritten entry to survive the first deadline")
	}
	if string(value) != "v2" {
		t.Fatalf("unexpected value %q", value)
	}
}

func TestMemoryStoreNonPositiveTTLDeletes(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.Set(ctx, "menu", []byte("items"), time.Minute)
	_ = store.Set(ctx, "menu", []byte("items"), 0)

	if _, ok, _ := store.Get(ctx, "menu"); ok {
		t.Fatalf("expected zero ttl to delete the entry")
	}
}
