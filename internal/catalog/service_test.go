package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListItems(ctx context.Context, filter ItemFilter) ([]*Item, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Item), args.Error(1)
}

func (m *MockRepository) GetItem(ctx context.Context, id string) (*Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Item), args.Error(1)
}

func (m *MockRepository) ListLockers(ctx context.Context) ([]*Locker, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Locker), args.Error(1)
}

func (m *MockRepository) GetLocker(ctx context.Context, id string) (*Locker, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Locker), args.Error(1)
}

func (m *MockRepository) ListCategories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func TestService_ListItems(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		repo.On("ListItems", ctx, ItemFilter{}).Return([]*Item{{ID: "1"}}, nil)

		items, err := svc.ListItems(ctx, ItemFilter{})
		assert.NoError(t, err)
		assert.Len(t, items, 1)
		repo.AssertExpectations(t)
	})

	t.Run("Error", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		repo.On("ListItems", ctx, ItemFilter{}).Return(nil, errors.New("db error"))

		_, err := svc.ListItems(ctx, ItemFilter{})
		assert.Error(t, err)
	})
}

func TestService_DefaultLocker(t *testing.T) {
	ctx := context.Background()

	t.Run("First locker", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		repo.On("ListLockers", ctx).Return([]*Locker{{ID: "l1"}, {ID: "l2"}}, nil)

		l, err := svc.DefaultLocker(ctx)
		assert.NoError(t, err)
		assert.Equal(t, "l1", l.ID)
	})

	t.Run("No lockers", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		repo.On("ListLockers", ctx).Return([]*Locker{}, nil)

		_, err := svc.DefaultLocker(ctx)
		assert.ErrorIs(t, err, ErrNoLockers)
	})

	t.Run("Repository error", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		repo.On("ListLockers", ctx).Return(nil, errors.New("db error"))

		_, err := svc.DefaultLocker(ctx)
		assert.Error(t, err)
	})
}

func TestService_GetItemAndLocker(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo)

	repo.On("GetItem", ctx, "1").Return(&Item{ID: "1"}, nil)
	repo.On("GetLocker", ctx, "l9").Return(nil, ErrLockerNotFound)

	it, err := svc.GetItem(ctx, "1")
	assert.NoError(t, err)
	assert.Equal(t, "1", it.ID)

	_, err = svc.GetLocker(ctx, "l9")
	assert.ErrorIs(t, err, ErrLockerNotFound)
	repo.AssertExpectations(t)
}

func TestService_ListCategories(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	ctx := context.Background()

	repo.On("ListCategories", ctx).Return([]string{"Electronics", "Home"}, nil)

	got, err := svc.ListCategories(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []string{"Electronics", "Home"}, got)
	repo.AssertExpectations(t)
}
