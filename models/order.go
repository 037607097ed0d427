package models

// ShippingAddress is the validated checkout form. It only lives inside the
// checkout flow; it is never persisted on its own.
type ShippingAddress struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`   // 10 digits
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	Pincode       string `json:"pincode"` // 6 digits
	PaymentMethod string `json:"paymentMethod"` // cod, card, upi
}

// OrderStatus values, mutated only by the admin surface.
type OrderStatus string

const (
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

// CanTransition reports whether moving from s to next is a legal step:
// Processing -> Shipped/Cancelled, Shipped -> Delivered/Cancelled,
// Delivered and Cancelled are terminal.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	switch s {
	case StatusProcessing:
		return next == StatusShipped || next == StatusCancelled
	case StatusShipped:
		return next == StatusDelivered || next == StatusCancelled
	default:
		return false
	}
}

// Valid reports whether s is one of the four known states.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Order is an immutable snapshot of a checkout, frozen at submission time.
// Only Status changes afterwards, and not by this service's storefront side.
type Order struct {
	OrderNumber     string          `json:"orderNumber"`
	Items           []CartLine      `json:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	Subtotal        float64         `json:"subtotal"`
	ShippingCost    float64         `json:"shippingCost"`
	Total           float64         `json:"total"`
	OrderDate       string          `json:"orderDate"` // ISO-8601 UTC
	Status          OrderStatus     `json:"status"`
}
