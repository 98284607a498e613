package listing

import (
	"context"
	"errors"
	"testing"
	"time"

	"bumpbox-be/internal/catalog"
	"bumpbox-be/internal/session"
	"bumpbox-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) SaveLast(ctx context.Context, sessionID string, l *Listing) error {
	args := m.Called(ctx, sessionID, l)
	return args.Error(0)
}

func (m *MockRepository) GetLast(ctx context.Context, sessionID string) (*Listing, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Listing), args.Error(1)
}

const sid = "sess-1"

func newTestService(repo Repository) (*service, *session.MemoryStorage) {
	storage := session.NewMemoryStorage(0)
	if repo == nil {
		repo = NewRepository(storage)
	}

	catalogSvc := catalog.NewService(catalog.NewMemoryRepository(&catalog.Fixtures{
		Lockers: []*catalog.Locker{
			{ID: "l1", Name: "Central Station"},
			{ID: "l2", Name: "Harbour Mall"},
		},
	}))

	svc := NewService(repo, catalogSvc).(*service)
	svc.now = func() time.Time { return time.UnixMilli(1710000000000) }
	return svc, storage
}

func validInput() CreateInput {
	return CreateInput{
		Title:       "Baby Carrier",
		Category:    "Carriers",
		Price:       "45",
		Condition:   ConditionExcellent,
		Description: "Used twice",
		LockerID:    "l2",
		Image:       &Media{FileName: "c.jpg", ContentType: "image/jpeg", Size: 10},
		Video:       &Media{FileName: "c.mp4", ContentType: "video/mp4", Size: 20},
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and stores listing", func(t *testing.T) {
		svc, _ := newTestService(nil)

		l, err := svc.Create(ctx, sid, validInput())
		require.NoError(t, err)

		assert.Equal(t, "1710000000000", l.ID)
		assert.Equal(t, 45.0, l.Price)
		assert.Equal(t, ConditionExcellent, l.Condition)
		assert.Equal(t, "l2", l.Locker.ID)
		assert.True(t, utils.IsLockerSlotID(l.LockerSlotID))
		assert.True(t, utils.IsAccessCode(l.Passcode))

		last, err := svc.LastListing(ctx, sid)
		require.NoError(t, err)
		assert.Equal(t, l, last)
	})

	t.Run("defaults condition and locker", func(t *testing.T) {
		svc, _ := newTestService(nil)
		in := validInput()
		in.Condition = ""
		in.LockerID = ""
		in.Price = "12.50"

		l, err := svc.Create(ctx, sid, in)
		require.NoError(t, err)
		assert.Equal(t, ConditionGood, l.Condition)
		assert.Equal(t, "l1", l.Locker.ID)
		assert.Equal(t, 12.5, l.Price)
	})

	t.Run("reports every missing field", func(t *testing.T) {
		svc, storage := newTestService(nil)

		_, err := svc.Create(ctx, sid, CreateInput{})
		require.ErrorIs(t, err, ErrInvalidListing)

		var verr *utils.ValidationError
		require.True(t, errors.As(err, &verr))
		for _, f := range []string{"title", "category", "description", "price", "image", "video"} {
			assert.Contains(t, verr.Fields, f)
		}

		_, err = storage.Get(ctx, sid, session.KeyNewListing)
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	invalid := map[string]func(in *CreateInput){
		"price zero":         func(in *CreateInput) { in.Price = "0" },
		"price negative":     func(in *CreateInput) { in.Price = "-3" },
		"price text":         func(in *CreateInput) { in.Price = "free" },
		"price nan":          func(in *CreateInput) { in.Price = "NaN" },
		"unknown condition":  func(in *CreateInput) { in.Condition = "Well Used" },
		"video as image":     func(in *CreateInput) { in.Image.ContentType = "video/mp4" },
		"empty video":        func(in *CreateInput) { in.Video.Size = 0 },
		"unknown locker":     func(in *CreateInput) { in.LockerID = "l9" },
		"blank title spaces": func(in *CreateInput) { in.Title = "   " },
	}
	for name, mutate := range invalid {
		t.Run(name, func(t *testing.T) {
			svc, _ := newTestService(nil)
			in := validInput()
			mutate(&in)

			_, err := svc.Create(ctx, sid, in)
			assert.ErrorIs(t, err, ErrInvalidListing)
		})
	}

	t.Run("storage failure", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("SaveLast", mock.Anything, sid, mock.AnythingOfType("*listing.Listing")).
			Return(errors.New("redis down"))
		svc, _ := newTestService(repo)

		_, err := svc.Create(ctx, sid, validInput())
		assert.EqualError(t, err, "redis down")
		repo.AssertExpectations(t)
	})
}

func TestService_LastListing(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		svc, _ := newTestService(nil)

		_, err := svc.LastListing(ctx, sid)
		assert.ErrorIs(t, err, ErrListingNotFound)
	})

	t.Run("newest listing wins", func(t *testing.T) {
		svc, _ := newTestService(nil)
		_, err := svc.Create(ctx, sid, validInput())
		require.NoError(t, err)

		in := validInput()
		in.Title = "Play Mat"
		svc.now = func() time.Time { return time.UnixMilli(1710000005000) }
		_, err = svc.Create(ctx, sid, in)
		require.NoError(t, err)

		last, err := svc.LastListing(ctx, sid)
		require.NoError(t, err)
		assert.Equal(t, "Play Mat", last.Title)
	})

	t.Run("corrupt record", func(t *testing.T) {
		svc, storage := newTestService(nil)
		require.NoError(t, storage.Set(ctx, sid, session.KeyNewListing, []byte(`[]`)))

		_, err := svc.LastListing(ctx, sid)
		assert.ErrorIs(t, err, ErrCorruptListing)
	})
}
