package order

import (
	"sort"

	"bumpbox-be/internal/cart"
)

// InferLocker picks the locker most cart lines are deposited in. Each
// line counts once regardless of quantity; ties go to the locker that
// appears first in cart order. Returns "" when no line has a locker.
func InferLocker(items []cart.CartItem) string {
	type tally struct {
		id    string
		count int
	}

	var tallies []tally
	index := map[string]int{}

	for _, it := range items {
		if it.LockerID == "" {
			continue
		}
		if i, ok := index[it.LockerID]; ok {
			tallies[i].count++
			continue
		}
		index[it.LockerID] = len(tallies)
		tallies = append(tallies, tally{id: it.LockerID, count: 1})
	}

	if len(tallies) == 0 {
		return ""
	}

	sort.SliceStable(tallies, func(i, j int) bool {
		return tallies[i].count > tallies[j].count
	})
	return tallies[0].id
}
