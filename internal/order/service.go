package order

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"bumpbox-be/internal/cart"
	"bumpbox-be/internal/catalog"
	"bumpbox-be/internal/logger"
	"bumpbox-be/internal/payment"
	"bumpbox-be/internal/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("bumpbox-be/internal/order")

type Service interface {
	// Checkout places an order for an explicitly chosen locker.
	Checkout(ctx context.Context, sessionID string, input CheckoutInput) (*Order, error)
	// CheckoutWithPayment validates the payment step and infers the locker
	// from the cart.
	CheckoutWithPayment(ctx context.Context, sessionID string, input PaymentCheckoutInput) (*Order, error)
	LastOrder(ctx context.Context, sessionID string) (*Order, error)
}

type service struct {
	repo     Repository
	carts    cart.Service
	catalog  catalog.Service
	payments payment.Service
	now      func() time.Time
}

func NewService(
	repo Repository,
	carts cart.Service,
	catalogSvc catalog.Service,
	payments payment.Service,
) Service {
	return &service{
		repo:     repo,
		carts:    carts,
		catalog:  catalogSvc,
		payments: payments,
		now:      time.Now,
	}
}

func (s *service) Checkout(ctx context.Context, sessionID string, input CheckoutInput) (*Order, error) {
	ctx, span := tracer.Start(ctx, "order.Checkout")
	defer span.End()

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Checkout"),
	)

	var placed *Order
	err := s.carts.Consume(ctx, sessionID, func(sum cart.Summary) error {
		verr := validateContact(input.Email, input.Phone)

		var locker *catalog.Locker
		if utils.IsBlank(input.LockerID) {
			verr.Add("lockerId", "is required")
		} else {
			l, err := s.catalog.GetLocker(ctx, input.LockerID)
			switch {
			case errors.Is(err, catalog.ErrLockerNotFound):
				verr.Add("lockerId", "unknown locker")
			case err != nil:
				return err
			default:
				locker = l
			}
		}

		if err := verr.OrNil(); err != nil {
			return err
		}

		o, err := s.newOrder(sum, *locker, input.Email, input.Phone, "")
		if err != nil {
			return err
		}
		if err := s.repo.SaveLast(ctx, sessionID, o); err != nil {
			return err
		}
		placed = o
		return nil
	})
	if err != nil {
		recordError(span, err)
		log.Warn("checkout failed", zap.Error(err))
		return nil, err
	}

	span.SetAttributes(
		attribute.String("order.id", placed.ID),
		attribute.Int("order.lines", len(placed.Items)),
	)
	log.Info("order placed",
		zap.String("order_id", placed.ID),
		zap.String("locker_id", placed.Locker.ID),
		zap.Float64("total", placed.Total),
	)
	return placed, nil
}

func (s *service) CheckoutWithPayment(ctx context.Context, sessionID string, input PaymentCheckoutInput) (*Order, error) {
	ctx, span := tracer.Start(ctx, "order.CheckoutWithPayment")
	defer span.End()

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CheckoutWithPayment"),
		zap.String("payment_method", string(input.Payment.Method)),
	)

	var placed *Order
	err := s.carts.Consume(ctx, sessionID, func(sum cart.Summary) error {
		if err := validateContact(input.Email, input.Phone).OrNil(); err != nil {
			return err
		}

		if err := s.payments.Validate(ctx, sessionID, input.Payment, sum.Total+ServiceFee); err != nil {
			if isPaymentRejection(err) {
				return errors.Join(ErrPaymentInvalid, err)
			}
			return err
		}

		locker, err := s.inferLocker(ctx, sum.Items)
		if err != nil {
			return err
		}

		o, err := s.newOrder(sum, *locker, input.Email, input.Phone, input.Payment.Method)
		if err != nil {
			return err
		}
		if err := s.repo.SaveLast(ctx, sessionID, o); err != nil {
			return err
		}
		placed = o
		return nil
	})
	if err != nil {
		recordError(span, err)
		log.Warn("checkout failed", zap.Error(err))
		return nil, err
	}

	if placed.PaymentMethod == payment.MethodQR {
		if err := s.payments.ClearQR(ctx, sessionID); err != nil {
			log.Warn("failed to clear qr payment", zap.Error(err))
		}
	}

	span.SetAttributes(attribute.String("order.id", placed.ID))
	log.Info("order placed",
		zap.String("order_id", placed.ID),
		zap.String("locker_id", placed.Locker.ID),
		zap.Float64("total", placed.Total),
	)
	return placed, nil
}

func (s *service) LastOrder(ctx context.Context, sessionID string) (*Order, error) {
	ctx, span := tracer.Start(ctx, "order.LastOrder")
	defer span.End()

	o, err := s.repo.GetLast(ctx, sessionID)
	if err != nil {
		recordError(span, err)
		if errors.Is(err, ErrCorruptOrder) {
			logger.FromCtx(ctx).Error("stored order rejected",
				zap.String("layer", "service"),
				zap.Error(err),
			)
		}
		return nil, err
	}
	return o, nil
}

// inferLocker resolves the inferred locker id, falling back to the
// default locker when no cart line carries one.
func (s *service) inferLocker(ctx context.Context, items []cart.CartItem) (*catalog.Locker, error) {
	id := InferLocker(items)
	if id == "" {
		return s.catalog.DefaultLocker(ctx)
	}
	return s.catalog.GetLocker(ctx, id)
}

func (s *service) newOrder(
	sum cart.Summary,
	locker catalog.Locker,
	email, phone string,
	method payment.Method,
) (*Order, error) {
	code, err := utils.GenerateAccessCode()
	if err != nil {
		return nil, err
	}
	now := s.now()

	return &Order{
		ID:            utils.GenerateRecordID(now),
		Items:         sum.Items,
		Subtotal:      sum.Total,
		ServiceFee:    ServiceFee,
		Total:         sum.Total + ServiceFee,
		Locker:        locker,
		Email:         strings.TrimSpace(email),
		Phone:         strings.TrimSpace(phone),
		PaymentMethod: method,
		CreatedAt:     now.UTC(),
		Status:        StatusProcessing,
		AccessCode:    code,
	}, nil
}

func validateContact(email, phone string) *utils.ValidationError {
	verr := utils.NewValidationError(ErrInvalidCheckout)

	if utils.IsBlank(email) {
		verr.Add("email", "is required")
	} else if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		verr.Add("email", "is not a valid address")
	}
	if utils.IsBlank(phone) {
		verr.Add("phone", "is required")
	}
	return verr
}

func isPaymentRejection(err error) bool {
	return errors.Is(err, payment.ErrCardIncomplete) ||
		errors.Is(err, payment.ErrQRNotGenerated) ||
		errors.Is(err, payment.ErrQRAmountStale) ||
		errors.Is(err, payment.ErrUnknownMethod)
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
