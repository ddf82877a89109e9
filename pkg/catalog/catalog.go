// Package catalog holds the registry of placeable furniture templates.
//
// A [Registry] is built once at startup, either from [Defaults] or from a
// TOML catalog file, and is read-only afterwards. Placed instances refer to
// catalog entries by id and re-resolve their model reference through the
// registry when a room is loaded.
package catalog

import (
	"github.com/matzehuels/roomkit/pkg/errors"
)

// Item describes a placeable furniture type.
type Item struct {
	ID       string  `json:"id" toml:"id"`
	Name     string  `json:"name" toml:"name"`
	ImageURL string  `json:"imageUrl" toml:"image_url"`
	ModelRef string  `json:"modelRef" toml:"model"`
	Price    float64 `json:"price" toml:"price"`
}

// Registry is an immutable, ordered set of catalog items.
type Registry struct {
	items []Item
	index map[string]int
}

// New builds a registry from items, preserving their order. It rejects an
// empty list, invalid ids, duplicate ids and negative prices.
func New(items []Item) (*Registry, error) {
	if len(items) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidCatalog, "catalog must contain at least one item")
	}
	r := &Registry{
		items: make([]Item, len(items)),
		index: make(map[string]int, len(items)),
	}
	for i, it := range items {
		if err := errors.ValidateID("catalog", it.ID); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "item %d", i)
		}
		if _, dup := r.index[it.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidCatalog, "duplicate catalog id %q", it.ID)
		}
		if it.Price < 0 {
			return nil, errors.New(errors.ErrCodeInvalidCatalog, "catalog item %q has negative price", it.ID)
		}
		if it.Name == "" {
			it.Name = it.ID
		}
		r.items[i] = it
		r.index[it.ID] = i
	}
	return r, nil
}

// MustNew is like New but panics on error. Intended for fixed lists.
func MustNew(items []Item) *Registry {
	r, err := New(items)
	if err != nil {
		panic(err)
	}
	return r
}

// Defaults returns the built-in catalog.
func Defaults() []Item {
	return []Item{
		{
			ID:       "chair_01",
			Name:     "Modern Armchair",
			ImageURL: "https://www.scandesign.com/cdn/shop/products/1015-VOGUE-armchair-greyblk1_2000x.jpg?v=1653940445",
			ModelRef: "chair",
			Price:    299,
		},
		{
			ID:       "table_01",
			Name:     "Coffee Table",
			ImageURL: "https://placehold.co/150x150/f0f0f0/333?text=Table",
			ModelRef: "table",
			Price:    189,
		},
		{
			ID:       "Sofa_01",
			Name:     "Sofa for sleep",
			ImageURL: "https://placehold.co/150x150/f0f0f0/333?text=Sofa",
			ModelRef: "sofa",
			Price:    799,
		},
	}
}

// Default returns a registry over the built-in catalog.
func Default() *Registry {
	return MustNew(Defaults())
}

// Items returns a copy of all items in registry order.
func (r *Registry) Items() []Item {
	out := make([]Item, len(r.items))
	copy(out, r.items)
	return out
}

// Len returns the number of items.
func (r *Registry) Len() int { return len(r.items) }

// First returns the first registered item, the fallback for unresolvable ids.
func (r *Registry) First() Item { return r.items[0] }

// Lookup returns the item with the given id.
func (r *Registry) Lookup(id string) (Item, bool) {
	i, ok := r.index[id]
	if !ok {
		return Item{}, false
	}
	return r.items[i], true
}

// Get is like Lookup but returns a NOT_FOUND_CATALOG error for unknown ids.
func (r *Registry) Get(id string) (Item, error) {
	it, ok := r.Lookup(id)
	if !ok {
		return Item{}, errors.New(errors.ErrCodeCatalogNotFound, "catalog item %q not found", id)
	}
	return it, nil
}

// Resolution is the outcome of resolving a catalog id.
type Resolution struct {
	Item     Item // resolved item (the first entry when Fallback is set)
	Fallback bool // the requested id was unknown
}

// Resolve returns the item for id, or the first entry when id is unknown.
// It never fails; Fallback reports whether the default was substituted.
func (r *Registry) Resolve(id string) Resolution {
	if it, ok := r.Lookup(id); ok {
		return Resolution{Item: it}
	}
	return Resolution{Item: r.First(), Fallback: true}
}
