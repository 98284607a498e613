package order

import (
	"context"
	"errors"

	"bumpbox-be/internal/session"
)

// Repository keeps the most recent order of a session.
type Repository interface {
	SaveLast(ctx context.Context, sessionID string, o *Order) error
	GetLast(ctx context.Context, sessionID string) (*Order, error)
}

type repository struct {
	storage session.Storage
}

func NewRepository(storage session.Storage) Repository {
	return &repository{storage: storage}
}

// SaveLast overwrites any previous order of the session.
func (r *repository) SaveLast(ctx context.Context, sessionID string, o *Order) error {
	data, err := encodeOrder(o)
	if err != nil {
		return err
	}
	return r.storage.Set(ctx, sessionID, session.KeyLastOrder, data)
}

func (r *repository) GetLast(ctx context.Context, sessionID string) (*Order, error) {
	data, err := r.storage.Get(ctx, sessionID, session.KeyLastOrder)
	if errors.Is(err, session.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeOrder(data)
}
