package toasts

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a toast for the UI.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

// defaultDuration is how long a toast stays visible. The duration is
// advisory: clients own the actual expiry timer.
const defaultDuration = 3 * time.Second

// Toast is one ephemeral user-facing message.
type Toast struct {
	ID         string `json:"id"`
	Message    string `json:"message"`
	Kind       Kind   `json:"kind"`
	DurationMS int64  `json:"durationMs"`
}

// Broker publishes toasts and state updates through the hub. The engines
// never touch it; their callers do.
type Broker struct {
	hub *Hub
}

func NewBroker(hub *Hub) *Broker {
	return &Broker{hub: hub}
}

// ShowToast publishes a message of the given kind. Fire-and-forget: a
// notification that cannot be delivered is not worth failing an operation
// over.
func (b *Broker) ShowToast(message string, kind Kind) {
	t := Toast{
		ID:         uuid.NewString(),
		Message:    message,
		Kind:       kind,
		DurationMS: defaultDuration.Milliseconds(),
	}
	data, err := json.Marshal(map[string]any{"type": "toast", "toast": t})
	if err != nil {
		log.Println("toasts: marshal failed:", err)
		return
	}
	b.hub.publish(data)
}

// PublishCounts pushes the cart/wishlist badge counts to subscribers.
// Wired to the engines' change notifications at startup.
func (b *Broker) PublishCounts(cartCount, wishlistCount int) {
	data, err := json.Marshal(map[string]any{
		"type":          "counts",
		"cartCount":     cartCount,
		"wishlistCount": wishlistCount,
	})
	if err != nil {
		log.Println("toasts: marshal failed:", err)
		return
	}
	b.hub.publish(data)
}
