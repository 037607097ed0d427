package cart

import (
	"sync"

	"velore/models"
	"velore/persist"
)

// Engine owns the authoritative cart state. Every mutation updates memory
// and writes through to the substrate inside the same critical section; a
// rejected write rolls the in-memory change back, so memory and storage
// never stay diverged.
type Engine struct {
	mu    sync.Mutex
	store persist.Substrate
	lines []models.CartLine
	subs  []func()
}

// NewEngine rehydrates the cart from the substrate. Rehydration happens
// once, before any mutation is accepted.
func NewEngine(store persist.Substrate) *Engine {
	e := &Engine{store: store}
	saved, _ := persist.Load[[]models.CartLine](store, persist.KeyCart)
	e.lines = sanitize(saved)
	return e
}

// sanitize drops lines a well-behaved engine can never produce: quantity
// below one, or a product id already seen.
func sanitize(lines []models.CartLine) []models.CartLine {
	out := make([]models.CartLine, 0, len(lines))
	seen := make(map[int]bool, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 || seen[l.Product.ID] {
			continue
		}
		seen[l.Product.ID] = true
		out = append(out, l)
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

// commit persists the candidate state, keeping prev on failure.
func (e *Engine) commit(prev, next []models.CartLine) error {
	e.lines = next
	if err := persist.Save(e.store, persist.KeyCart, e.lines); err != nil {
		e.lines = prev
		return err
	}
	return nil
}

// AddToCart increments the existing line for the product, or appends a new
// one. Non-positive quantities are clamped to 1.
func (e *Engine) AddToCart(p models.Product, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	e.mu.Lock()
	prev := e.lines
	next := make([]models.CartLine, len(prev))
	copy(next, prev)

	found := false
	for i := range next {
		if next[i].Product.ID == p.ID {
			next[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		next = append(next, models.CartLine{Product: p, Quantity: quantity})
	}

	err := e.commit(prev, next)
	e.mu.Unlock()
	if err != nil {
		return err
	}
	e.notify()
	return nil
}

// RemoveFromCart deletes the line for productID. Absent ids are a no-op.
func (e *Engine) RemoveFromCart(productID int) error {
	e.mu.Lock()
	prev := e.lines
	next := make([]models.CartLine, 0, len(prev))
	removed := false
	for _, l := range prev {
		if l.Product.ID == productID {
			removed = true
			continue
		}
		next = append(next, l)
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

// UpdateQuantity sets the line's quantity to exactly newQuantity. Zero or
// negative removes the line. Unknown ids are a no-op.
func (e *Engine) UpdateQuantity(productID, newQuantity int) error {
	if newQuantity <= 0 {
		return e.RemoveFromCart(productID)
	}

	e.mu.Lock()
	prev := e.lines
	next := make([]models.CartLine, len(prev))
	copy(next, prev)

	changed := false
	for i := range next {
		if next[i].Product.ID == productID {
			next[i].Quantity = newQuantity
			changed = true
			break
		}
	}
	if !changed {
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

// ClearCart empties the cart and persists the empty state.
func (e *Engine) ClearCart() error {
	e.mu.Lock()
	err := e.commit(e.lines, []models.CartLine{})
	e.mu.Unlock()
	if err != nil {
		return err
	}
	e.notify()
	return nil
}

// CartTotal recomputes sum(price x quantity) from current state on demand.
func (e *Engine) CartTotal() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	var total float64
	for _, l := range e.lines {
		total += l.Subtotal()
	}
	return total
}

// CartCount is the summed quantity across lines, used for badge display.
// It differs from the line count.
func (e *Engine) CartCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	count := 0
	for _, l := range e.lines {
		count += l.Quantity
	}
	return count
}

// Lines returns a snapshot copy in insertion order.
func (e *Engine) Lines() []models.CartLine {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.CartLine, len(e.lines))
	copy(out, e.lines)
	return out
}
