package catalog

import (
	"context"
	"strings"
)

type Repository interface {
	ListItems(ctx context.Context, filter ItemFilter) ([]*Item, error)
	GetItem(ctx context.Context, id string) (*Item, error)
	ListLockers(ctx context.Context) ([]*Locker, error)
	GetLocker(ctx context.Context, id string) (*Locker, error)
	ListCategories(ctx context.Context) ([]string, error)
}

// memoryRepository serves a fixed catalog. Its slices are never mutated
// after construction; callers receive copies.
type memoryRepository struct {
	items   []*Item
	lockers []*Locker
}

func NewMemoryRepository(f *Fixtures) Repository {
	return &memoryRepository{items: f.Items, lockers: f.Lockers}
}

func (r *memoryRepository) ListItems(ctx context.Context, filter ItemFilter) ([]*Item, error) {
	res := make([]*Item, 0, len(r.items))
	for _, it := range r.items {
		if filter.matches(it) {
			cp := *it
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (r *memoryRepository) GetItem(ctx context.Context, id string) (*Item, error) {
	for _, it := range r.items {
		if it.ID == id {
			cp := *it
			return &cp, nil
		}
	}
	return nil, ErrItemNotFound
}

func (r *memoryRepository) ListLockers(ctx context.Context) ([]*Locker, error) {
	res := make([]*Locker, 0, len(r.lockers))
	for _, l := range r.lockers {
		cp := *l
		res = append(res, &cp)
	}
	return res, nil
}

func (r *memoryRepository) GetLocker(ctx context.Context, id string) (*Locker, error) {
	for _, l := range r.lockers {
		if l.ID == id {
			cp := *l
			return &cp, nil
		}
	}
	return nil, ErrLockerNotFound
}

func (f ItemFilter) matches(it *Item) bool {
	if f.Category != nil && *f.Category != "" && !strings.EqualFold(*f.Category, it.Category) {
		return false
	}
	if f.Availability != nil && *f.Availability != "" && *f.Availability != it.Availability {
		return false
	}
	return true
}

// ListCategories returns the distinct item categories in catalog order.
func (r *memoryRepository) ListCategories(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	res := []string{}
	for _, it := range r.items {
		key := strings.ToLower(it.Category)
		if it.Category == "" || seen[key] {
			continue
		}
		seen[key] = true
		res = append(res, it.Category)
	}
	return res, nil
}
