package cart

import "bumpbox-be/internal/catalog"

// Cart is the single source of truth for one session's selection. A Cart
// has exactly one owner; it is not safe for concurrent use on its own
// (Store serialises access per session).
//
// Invariants: every entry has Quantity >= 1 and entry ids are unique.
type Cart struct {
	items []CartItem
}

func New() *Cart {
	return &Cart{}
}

// AddItem increments the quantity of an existing entry or appends a new
// one with quantity 1.
func (c *Cart) AddItem(item catalog.Item) {
	if i := c.indexOf(item.ID); i >= 0 {
		c.items[i].Quantity++
		return
	}
	c.items = append(c.items, CartItem{Item: item, Quantity: 1})
}

// UpdateQuantity sets the quantity of an existing entry. A quantity <= 0
// removes it. Unknown ids are ignored.
func (c *Cart) UpdateQuantity(id string, quantity int) {
	i := c.indexOf(id)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		c.removeAt(i)
		return
	}
	c.items[i].Quantity = quantity
}

// RemoveItem deletes an entry; unknown ids are ignored.
func (c *Cart) RemoveItem(id string) {
	if i := c.indexOf(id); i >= 0 {
		c.removeAt(i)
	}
}

func (c *Cart) Clear() {
	c.items = nil
}

// Total is the sum of price × quantity, recomputed on every call.
func (c *Cart) Total() float64 {
	var total float64
	for _, it := range c.items {
		total += it.Subtotal()
	}
	return total
}

// Count is the sum of quantities, recomputed on every call.
func (c *Cart) Count() int {
	count := 0
	for _, it := range c.items {
		count += it.Quantity
	}
	return count
}

// Items returns a copy of the entries in insertion order.
func (c *Cart) Items() []CartItem {
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) Summary() Summary {
	return Summary{Items: c.Items(), Total: c.Total(), Count: c.Count()}
}

func (c *Cart) indexOf(id string) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.items = append(c.items[:i], c.items[i+1:]...)
}
