package order

import (
	"testing"

	"bumpbox-be/internal/cart"
	"bumpbox-be/internal/catalog"

	"github.com/stretchr/testify/assert"
)

func line(id, locker string, qty int) cart.CartItem {
	return cart.CartItem{
		Item:     catalog.Item{ID: id, Price: 1, LockerID: locker},
		Quantity: qty,
	}
}

func TestInferLocker(t *testing.T) {
	tests := []struct {
		name  string
		items []cart.CartItem
		want  string
	}{
		{
			name:  "empty cart",
			items: nil,
			want:  "",
		},
		{
			name:  "single line",
			items: []cart.CartItem{line("a", "l2", 1)},
			want:  "l2",
		},
		{
			name: "most frequent wins",
			items: []cart.CartItem{
				line("a", "l1", 1),
				line("b", "l2", 1),
				line("c", "l2", 1),
			},
			want: "l2",
		},
		{
			name: "counts lines, not quantity",
			items: []cart.CartItem{
				line("a", "l1", 9),
				line("b", "l2", 1),
				line("c", "l2", 1),
			},
			want: "l2",
		},
		{
			name: "tie goes to first in cart order",
			items: []cart.CartItem{
				line("a", "l3", 1),
				line("b", "l1", 1),
				line("c", "l1", 1),
				line("d", "l3", 1),
			},
			want: "l3",
		},
		{
			name: "lines without locker are ignored",
			items: []cart.CartItem{
				line("a", "", 1),
				line("b", "", 1),
				line("c", "l4", 1),
			},
			want: "l4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferLocker(tt.items))
		})
	}
}
