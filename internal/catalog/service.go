package catalog

import (
	"context"

	"bumpbox-be/internal/logger"

	"go.uber.org/zap"
)

// Service exposes the read-only catalog.
type Service interface {
	ListItems(ctx context.Context, filter ItemFilter) ([]*Item, error)
	GetItem(ctx context.Context, id string) (*Item, error)
	ListLockers(ctx context.Context) ([]*Locker, error)
	GetLocker(ctx context.Context, id string) (*Locker, error)
	DefaultLocker(ctx context.Context) (*Locker, error)
	ListCategories(ctx context.Context) ([]string, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListItems(ctx context.Context, filter ItemFilter) ([]*Item, error) {
	items, err := s.repo.ListItems(ctx, filter)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list items",
			zap.String("layer", "service"),
			zap.Error(err),
		)
		return nil, err
	}
	return items, nil
}

func (s *service) GetItem(ctx context.Context, id string) (*Item, error) {
	return s.repo.GetItem(ctx, id)
}

func (s *service) ListLockers(ctx context.Context) ([]*Locker, error) {
	return s.repo.ListLockers(ctx)
}

func (s *service) GetLocker(ctx context.Context, id string) (*Locker, error) {
	return s.repo.GetLocker(ctx, id)
}

// DefaultLocker is the first locker in catalog order, the pre-selected
// choice in both the checkout and listing forms.
func (s *service) DefaultLocker(ctx context.Context) (*Locker, error) {
	lockers, err := s.repo.ListLockers(ctx)
	if err != nil {
		return nil, err
	}
	if len(lockers) == 0 {
		return nil, ErrNoLockers
	}
	return lockers[0], nil
}

func (s *service) ListCategories(ctx context.Context) ([]string, error) {
	return s.repo.ListCategories(ctx)
}
