package orders

import (
	"context"
	"errors"
	"log"
	"strconv"
	"sync"
	"time"

	"velore/cart"
	"velore/models"
	"velore/persist"
	"velore/recordapi"
)

// Shipping policy: orders at or above the threshold ship free, everything
// else pays the flat surcharge. Amounts are in the store currency's units.
const (
	FreeShippingThreshold = 5000
	FlatShippingFee       = 100
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrOrderNotFound = errors.New("order not found")
)

// ShippingCost applies the threshold policy to a subtotal.
func ShippingCost(subtotal float64) float64 {
	if subtotal >= FreeShippingThreshold {
		return 0
	}
	return FlatShippingFee
}

// Subtotal sums price x quantity across lines.
func Subtotal(lines []models.CartLine) float64 {
	var total float64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

// Materializer turns the live cart plus a validated shipping form into an
// immutable Order. Local persistence is the durability guarantee of record;
// the remote record API is a best-effort mirror whose failure never aborts
// a checkout.
type Materializer struct {
	mu      sync.Mutex
	store   persist.Substrate
	cart    *cart.Engine
	remote  *recordapi.Client
	lastSeq int64
}

func NewMaterializer(store persist.Substrate, cartEngine *cart.Engine, remote *recordapi.Client) *Materializer {
	return &Materializer{store: store, cart: cartEngine, remote: remote}
}

// nextOrderNumber yields a strictly increasing VEL-prefixed number, unique
// per device: millisecond timestamps, bumped past the previous value when
// two checkouts land in the same tick.
func (m *Materializer) nextOrderNumber() string {
	n := time.Now().UnixMilli()
	if n <= m.lastSeq {
		n = m.lastSeq + 1
	}
	m.lastSeq = n
	return "VEL" + strconv.FormatInt(n, 10)
}

// Place runs the checkout saga. The form is assumed validated by the
// caller. It re-reads the cart engine directly, so the snapshot frozen into
// the order is authoritative at call time.
//
// Remote failure is logged and swallowed: the order is still placed because
// the local history write always runs. Only a local storage write failure
// is fatal.
func (m *Materializer) Place(ctx context.Context, form models.ShippingAddress) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lines := m.cart.Lines()
	if len(lines) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	subtotal := Subtotal(lines)
	shipping := ShippingCost(subtotal)

	order := models.Order{
		OrderNumber:     m.nextOrderNumber(),
		Items:           lines,
		ShippingAddress: form,
		Subtotal:        subtotal,
		ShippingCost:    shipping,
		Total:           subtotal + shipping,
		OrderDate:       time.Now().UTC().Format(time.RFC3339),
		Status:          models.StatusProcessing,
	}

	if m.remote != nil {
		if err := m.remote.CreateOrder(ctx, order); err != nil {
			log.Printf("Place: remote order create failed, keeping local copy: %v", err)
		}
	}

	history, _ := persist.Load[[]models.Order](m.store, persist.KeyOrderHistory)
	history = append(history, order)
	if err := persist.Save(m.store, persist.KeyOrderHistory, history); err != nil {
		return models.Order{}, err
	}
	if err := persist.Save(m.store, persist.KeyLastOrder, order); err != nil {
		return models.Order{}, err
	}

	if err := m.cart.ClearCart(); err != nil {
		// the order is durably recorded at this point; report the write
		// failure but hand the order back with it
		return order, err
	}
	return order, nil
}

// LastOrder returns the most recent order pointer.
func (m *Materializer) LastOrder() (models.Order, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return persist.Load[models.Order](m.store, persist.KeyLastOrder)
}

// History returns all locally recorded orders, oldest first.
func (m *Materializer) History() []models.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	history, _ := persist.Load[[]models.Order](m.store, persist.KeyOrderHistory)
	return history
}

// FindByNumber looks an order up in the local history.
func (m *Materializer) FindByNumber(orderNumber string) (models.Order, error) {
	for _, o := range m.History() {
		if o.OrderNumber == orderNumber {
			return o, nil
		}
	}
	return models.Order{}, ErrOrderNotFound
}

// SetStatus applies an admin-side status change to the local mirror of an
// order. Illegal transitions, including any regression, are rejected.
func (m *Materializer) SetStatus(orderNumber string, next models.OrderStatus) (models.Order, error) {
	if !next.Valid() {
		return models.Order{}, errors.New("unknown order status")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	history, _ := persist.Load[[]models.Order](m.store, persist.KeyOrderHistory)
	for i := range history {
		if history[i].OrderNumber != orderNumber {
			continue
		}
		if !history[i].Status.CanTransition(next) {
			return models.Order{}, errors.New("illegal status transition " +
				string(history[i].Status) + " -> " + string(next))
		}
		history[i].Status = next
		if err := persist.Save(m.store, persist.KeyOrderHistory, history); err != nil {
			return models.Order{}, err
		}
		if last, ok := persist.Load[models.Order](m.store, persist.KeyLastOrder); ok && last.OrderNumber == orderNumber {
			last.Status = next
			if err := persist.Save(m.store, persist.KeyLastOrder, last); err != nil {
				return models.Order{}, err
			}
		}
		return history[i], nil
	}
	return models.Order{}, ErrOrderNotFound
}
