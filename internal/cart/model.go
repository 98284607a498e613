package cart

import "bumpbox-be/internal/catalog"

// CartItem is a catalog item plus the selected quantity. The item fields
// are flattened in JSON so a stored order line reads like the item itself.
type CartItem struct {
	catalog.Item
	Quantity int `json:"quantity"`
}

// Subtotal is price × quantity for this line.
func (ci CartItem) Subtotal() float64 {
	return ci.Price * float64(ci.Quantity)
}

// Summary is the read model returned to clients.
type Summary struct {
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
	Count int        `json:"count"`
}
