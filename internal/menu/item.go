package menu

import (
	"sort"
	"strings"
	"time"

	"github.com/freshstart/storefront/internal/apperr"
)

// Languages lists the supported language codes in fallback priority order.
var Languages = []string{"en", "tr", "ru", "de"}

// Localized holds per-language copies of a text field. Every language is
// optional; partial localization is expected.
type Localized struct {
	TR string `json:"tr,omitempty"`
	EN string `json:"en,omitempty"`
	RU string `json:"ru,omitempty"`
	DE string `json:"de,omitempty"`
}

// Get returns the value for a language code, or "" for unknown codes.
func (l Localized) Get(lang string) string {
	switch strings.ToLower(lang) {
	case "tr":
		return l.TR
	case "en":
		return l.EN
	case "ru":
		return l.RU
	case "de":
		return l.DE
	}
	return ""
}

// Pick returns the value for lang, falling back through the fixed
// priority order. It returns "" only when every language is empty.
func (l Localized) Pick(lang string) string {
	if value := l.Get(lang); value != "" {
		return value
	}
	for _, fallback := range Languages {
		if value := l.Get(fallback); value != "" {
			return value
		}
	}
	return ""
}

// Empty reports whether no language has a value.
func (l Localized) Empty() bool {
	return l.TR == "" && l.EN == "" && l.RU == "" && l.DE == ""
}

// Item is a single menu entry.
type Item struct {
	ID          string    `json:"id"`
	SectionSlug string    `json:"sectionSlug"`
	Name        Localized `json:"name"`
	Description Localized `json:"description"`
	Price       string    `json:"price"`
	Image       string    `json:"image"`
	SortOrder   *int      `json:"sortOrder,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Input is a creation payload. SectionSlug, Price, and at least one
// localized Name value are required.
type Input struct {
	SectionSlug string    `json:"sectionSlug"`
	Name        Localized `json:"name"`
	Description Localized `json:"description"`
	Price       string    `json:"price"`
	Image       string    `json:"image"`
	SortOrder   *int      `json:"sortOrder,omitempty"`
}

// Validate checks required creation fields.
func (in Input) Validate() error {
	if strings.TrimSpace(in.SectionSlug) == "" {
		return apperr.Validation("sectionSlug is required", nil)
	}
	if strings.TrimSpace(in.Price) == "" {
		return apperr.Validation("price is required", nil)
	}
	if in.Name.Empty() {
		return apperr.Validation("name requires at least one language", nil)
	}
	return nil
}

// Patch is a partial update. Nil fields keep their stored values; id and
// created_at are immutable and therefore absent.
type Patch struct {
	SectionSlug *string    `json:"sectionSlug"`
	Name        *Localized `json:"name"`
	Description *Localized `json:"description"`
	Price       *string    `json:"price"`
	Image       *string    `json:"image"`
	SortOrder   *int       `json:"sortOrder"`
}

// Apply overlays the patch onto an item.
func (p Patch) Apply(item *Item) {
	if p.SectionSlug != nil {
		item.SectionSlug = *p.SectionSlug
	}
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Price != nil {
		item.Price = *p.Price
	}
	if p.Image != nil {
		item.Image = *p.Image
	}
	if p.SortOrder != nil {
		order := *p.SortOrder
		item.SortOrder = &order
	}
}

// Less orders items for listing: explicit sortOrder ascending first, then
// unordered items by recency. Ties inside the explicit tier also fall back
// to recency.
func Less(a, b Item) bool {
	switch {
	case a.SortOrder != nil && b.SortOrder != nil:
		if *a.SortOrder != *b.SortOrder {
			return *a.SortOrder < *b.SortOrder
		}
		return a.CreatedAt.After(b.CreatedAt)
	case a.SortOrder != nil:
		return true
	case b.SortOrder != nil:
		return false
	default:
		return a.CreatedAt.After(b.CreatedAt)
	}
}

// Sort orders a slice of items in place per Less.
func Sort(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return Less(items[i], items[j])
	})
}
