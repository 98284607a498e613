package cart

import (
	"context"

	"bumpbox-be/internal/catalog"
	"bumpbox-be/internal/logger"

	"go.uber.org/zap"
)

// Service defines the cart operations available to a session.
type Service interface {
	GetCart(ctx context.Context, sessionID string) (Summary, error)
	AddItem(ctx context.Context, sessionID, itemID string) (Summary, error)
	UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (Summary, error)
	RemoveItem(ctx context.Context, sessionID, itemID string) (Summary, error)
	ClearCart(ctx context.Context, sessionID string) error
	// Consume hands a snapshot of a non-empty cart to fn and clears the
	// cart only when fn succeeds.
	Consume(ctx context.Context, sessionID string, fn func(Summary) error) error
}

type service struct {
	store   *Store
	catalog catalog.Service
}

func NewService(store *Store, catalogSvc catalog.Service) Service {
	return &service{store: store, catalog: catalogSvc}
}

func (s *service) GetCart(ctx context.Context, sessionID string) (Summary, error) {
	if sessionID == "" {
		return Summary{}, ErrSessionRequired
	}

	var sum Summary
	err := s.store.With(sessionID, func(c *Cart) error {
		sum = c.Summary()
		return nil
	})
	return sum, err
}

func (s *service) AddItem(ctx context.Context, sessionID, itemID string) (Summary, error) {
	if itemID == "" {
		return Summary{}, ErrItemIDRequired
	}

	item, err := s.catalog.GetItem(ctx, itemID)
	if err != nil {
		return Summary{}, err
	}
	if item.Availability == catalog.AvailabilitySold {
		return Summary{}, ErrItemUnavailable
	}

	return s.apply(ctx, sessionID, AddItem{Item: *item})
}

func (s *service) UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (Summary, error) {
	if itemID == "" {
		return Summary{}, ErrItemIDRequired
	}
	return s.apply(ctx, sessionID, UpdateQuantity{ID: itemID, Quantity: quantity})
}

func (s *service) RemoveItem(ctx context.Context, sessionID, itemID string) (Summary, error) {
	if itemID == "" {
		return Summary{}, ErrItemIDRequired
	}
	return s.apply(ctx, sessionID, RemoveItem{ID: itemID})
}

func (s *service) ClearCart(ctx context.Context, sessionID string) error {
	_, err := s.apply(ctx, sessionID, Clear{})
	return err
}

func (s *service) Consume(ctx context.Context, sessionID string, fn func(Summary) error) error {
	if sessionID == "" {
		return ErrSessionRequired
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Consume"),
	)

	return s.store.With(sessionID, func(c *Cart) error {
		if c.Len() == 0 {
			log.Info("cart is empty")
			return ErrCartEmpty
		}

		if err := fn(c.Summary()); err != nil {
			log.Warn("cart consumer failed, cart kept", zap.Error(err))
			return err
		}

		c.Clear()
		log.Info("cart consumed and cleared")
		return nil
	})
}

func (s *service) apply(ctx context.Context, sessionID string, cmd Command) (Summary, error) {
	if sessionID == "" {
		return Summary{}, ErrSessionRequired
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("command", CommandName(cmd)),
	)

	var sum Summary
	err := s.store.With(sessionID, func(c *Cart) error {
		if err := c.Apply(cmd); err != nil {
			return err
		}
		sum = c.Summary()
		return nil
	})
	if err != nil {
		log.Warn("cart command rejected", zap.Error(err))
		return Summary{}, err
	}

	log.Debug("cart updated",
		zap.Int("count", sum.Count),
		zap.Float64("total", sum.Total),
	)
	return sum, nil
}
