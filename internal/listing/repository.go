package listing

import (
	"context"
	"errors"

	"bumpbox-be/internal/session"
)

// Repository keeps the most recent listing of a session.
type Repository interface {
	SaveLast(ctx context.Context, sessionID string, l *Listing) error
	GetLast(ctx context.Context, sessionID string) (*Listing, error)
}

type repository struct {
	storage session.Storage
}

func NewRepository(storage session.Storage) Repository {
	return &repository{storage: storage}
}

func (r *repository) SaveLast(ctx context.Context, sessionID string, l *Listing) error {
	data, err := encodeListing(l)
	if err != nil {
		return err
	}
	return r.storage.Set(ctx, sessionID, session.KeyNewListing, data)
}

func (r *repository) GetLast(ctx context.Context, sessionID string) (*Listing, error) {
	data, err := r.storage.Get(ctx, sessionID, session.KeyNewListing)
	if errors.Is(err, session.ErrNotFound) {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeListing(data)
}
