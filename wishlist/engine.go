package wishlist

import (
	"sync"

	"velore/models"
	"velore/persist"
)

// Engine owns the saved-products set. Entries are full product snapshots,
// unique by id, kept in insertion order for rendering. Persistence follows
// the cart's write-through discipline under its own key.
type Engine struct {
	mu    sync.Mutex
	store persist.Substrate
	items []models.Product
	subs  []func()
}

func NewEngine(store persist.Substrate) *Engine {
	e := &Engine{store: store}
	saved, _ := persist.Load[[]models.Product](store, persist.KeyWishlist)
	e.items = dedupe(saved)
	return e
}

func dedupe(items []models.Product) []models.Product {
	out := make([]models.Product, 0, len(items))
	seen := make(map[int]bool, len(items))
	for _, p := range items {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}

// Subscribe registers a callback fired after every committed mutation.
func (e *Engine) Subscribe(fn func()) {
	e.mu.Lock()
	e.subs = append(e.subs, fn)
	e.mu.Unlock()
}

func (e *Engine) notify() {
	e.mu.Lock()
	subs := make([]func(), len(e.subs))
	copy(subs, e.subs)
	e.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

func (e *Engine) commit(prev, next []models.Product) error {
	e.items = next
	if err := persist.Save(e.store, persist.KeyWishlist, e.items); err != nil {
		e.items = prev
		return err
	}
	return nil
}

// AddToWishlist appends a snapshot of p. Already-present ids are a no-op.
func (e *Engine) AddToWishlist(p models.Product) error {
	e.mu.Lock()
	for _, it := range e.items {
		if it.ID == p.ID {
			e.mu.Unlock()
			return nil
		}
	}
	prev := e.items
	next := make([]models.Product, len(prev), len(prev)+1)
	copy(next, prev)
	next = append(next, p)

	err := e.commit(prev, next)
	e.mu.Unlock()
	if err != nil {
		return err
	}
	e.notify()
	return nil
}

// RemoveFromWishlist deletes the entry if present.
func (e *Engine) RemoveFromWishlist(productID int) error {
	e.mu.Lock()
	prev := e.items
	next := make([]models.Product, 0, len(prev))
	removed := false
	for _, it := range prev {
		if it.ID == productID {
			removed = true
			continue
		}
		next = append(next, it)
	}
	if !removed {
		e.mu.Unlock()
		return nil
	}

	err := e.commit(prev, next)
	e.mu.Unlock()
	if err != nil {
		return err
	}
	e.notify()
	return nil
}

// IsInWishlist is a pure membership test.
func (e *Engine) IsInWishlist(productID int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, it := range e.items {
		if it.ID == productID {
			return true
		}
	}
	return false
}

// ToggleWishlist removes p if present, adds it otherwise.
func (e *Engine) ToggleWishlist(p models.Product) error {
	if e.IsInWishlist(p.ID) {
		return e.RemoveFromWishlist(p.ID)
	}
	return e.AddToWishlist(p)
}

// ClearWishlist empties the set and persists the empty state.
func (e *Engine) ClearWishlist() error {
	e.mu.Lock()
	err := e.commit(e.items, []models.Product{})
	e.mu.Unlock()
	if err != nil {
		return err
	}
	e.notify()
	return nil
}

// WishlistCount is the number of saved products.
func (e *Engine) WishlistCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.items)
}

// Items returns a snapshot copy in insertion order.
func (e *Engine) Items() []models.Product {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Product, len(e.items))
	copy(out, e.items)
	return out
}
