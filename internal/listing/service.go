package listing

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"bumpbox-be/internal/catalog"
	"bumpbox-be/internal/logger"
	"bumpbox-be/internal/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("bumpbox-be/internal/listing")

type Service interface {
	Create(ctx context.Context, sessionID string, input CreateInput) (*Listing, error)
	LastListing(ctx context.Context, sessionID string) (*Listing, error)
}

type service struct {
	repo    Repository
	catalog catalog.Service
	now     func() time.Time
}

func NewService(repo Repository, catalogSvc catalog.Service) Service {
	return &service{repo: repo, catalog: catalogSvc, now: time.Now}
}

func (s *service) Create(ctx context.Context, sessionID string, input CreateInput) (*Listing, error) {
	ctx, span := tracer.Start(ctx, "listing.Create")
	defer span.End()

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Create"),
	)

	price, err := s.validate(input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Info("listing rejected", zap.Error(err))
		return nil, err
	}

	locker, err := s.resolveLocker(ctx, input.LockerID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	condition := input.Condition
	if condition == "" {
		condition = DefaultCondition
	}

	slotID, passcode, err := generateSlot()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error("failed to generate locker codes", zap.Error(err))
		return nil, err
	}

	now := s.now()
	l := &Listing{
		ID:           utils.GenerateRecordID(now),
		Title:        strings.TrimSpace(input.Title),
		Category:     strings.TrimSpace(input.Category),
		Price:        price,
		Condition:    condition,
		Description:  strings.TrimSpace(input.Description),
		Image:        *input.Image,
		Video:        *input.Video,
		LockerSlotID: slotID,
		Passcode:     passcode,
		Locker:       *locker,
		CreatedAt:    now.UTC(),
	}

	if err := s.repo.SaveLast(ctx, sessionID, l); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error("failed to store listing", zap.Error(err))
		return nil, err
	}

	span.SetAttributes(
		attribute.String("listing.id", l.ID),
		attribute.String("listing.locker_slot", l.LockerSlotID),
	)
	log.Info("listing created",
		zap.String("listing_id", l.ID),
		zap.String("locker_id", l.Locker.ID),
		zap.String("locker_slot", l.LockerSlotID),
	)
	return l, nil
}

func generateSlot() (string, string, error) {
	slotID, err := utils.GenerateLockerSlotID()
	if err != nil {
		return "", "", err
	}
	passcode, err := utils.GenerateAccessCode()
	if err != nil {
		return "", "", err
	}
	return slotID, passcode, nil
}

func (s *service) LastListing(ctx context.Context, sessionID string) (*Listing, error) {
	ctx, span := tracer.Start(ctx, "listing.LastListing")
	defer span.End()

	l, err := s.repo.GetLast(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrCorruptListing) {
			logger.FromCtx(ctx).Error("stored listing rejected",
				zap.String("layer", "service"),
				zap.Error(err),
			)
		}
		return nil, err
	}
	return l, nil
}

// validate checks the form and returns the parsed price.
func (s *service) validate(input CreateInput) (float64, error) {
	verr := utils.NewValidationError(ErrInvalidListing)

	if utils.IsBlank(input.Title) {
		verr.Add("title", "is required")
	}
	if utils.IsBlank(input.Category) {
		verr.Add("category", "is required")
	}
	if utils.IsBlank(input.Description) {
		verr.Add("description", "is required")
	}

	price, err := parsePrice(string(input.Price))
	if err != nil {
		verr.Add("price", err.Error())
	}

	if input.Condition != "" && !input.Condition.Valid() {
		verr.Add("condition", "unknown condition")
	}

	checkMedia(verr, "image", "image/", input.Image)
	checkMedia(verr, "video", "video/", input.Video)

	return price, verr.OrNil()
}

func (s *service) resolveLocker(ctx context.Context, id string) (*catalog.Locker, error) {
	if utils.IsBlank(id) {
		return s.catalog.DefaultLocker(ctx)
	}

	l, err := s.catalog.GetLocker(ctx, id)
	if errors.Is(err, catalog.ErrLockerNotFound) {
		verr := utils.NewValidationError(ErrInvalidListing)
		verr.Add("lockerId", "unknown locker")
		return nil, verr
	}
	return l, err
}

func parsePrice(raw string) (float64, error) {
	if utils.IsBlank(raw) {
		return 0, errors.New("is required")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("is not a number")
	}
	if v <= 0 {
		return 0, errors.New("must be greater than zero")
	}
	return v, nil
}

func checkMedia(verr *utils.ValidationError, field, typePrefix string, m *Media) {
	switch {
	case m == nil || utils.IsBlank(m.FileName):
		verr.Add(field, "is required")
	case !strings.HasPrefix(m.ContentType, typePrefix):
		verr.Add(field, "must be a "+strings.TrimSuffix(typePrefix, "/")+" file")
	case m.Size <= 0:
		verr.Add(field, "is empty")
	}
}
