package models

// Product is catalog data: read-only to the cart/wishlist/order engines,
// referenced by ID and snapshotted by value.
type Product struct {
	ID          int     `json:"id"`
	Brand       string  `json:"brand"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Rating      float64 `json:"rating"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

// CartLine pairs an immutable product snapshot with its mutable quantity.
// Invariant: Quantity >= 1; a line that would drop to zero is removed instead.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal returns price x quantity for this line.
func (l CartLine) Subtotal() float64 {
	return l.Product.Price * float64(l.Quantity)
}
