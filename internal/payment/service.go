package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"bumpbox-be/internal/logger"
	"bumpbox-be/internal/session"
	"bumpbox-be/internal/utils"

	"go.uber.org/zap"
)

// Service simulates the payment step. Nothing is charged.
type Service interface {
	GenerateQR(ctx context.Context, sessionID string, amount float64) (*QRPayment, error)
	GetQR(ctx context.Context, sessionID string) (*QRPayment, error)
	HasQR(ctx context.Context, sessionID string) (bool, error)
	ClearQR(ctx context.Context, sessionID string) error
	Validate(ctx context.Context, sessionID string, sel Selection, amount float64) error
	Instructions(method Method, vars InstructionVars) []string
}

type service struct {
	storage session.Storage
	now     func() time.Time
}

func NewService(storage session.Storage) Service {
	return &service{storage: storage, now: time.Now}
}

func (s *service) GenerateQR(ctx context.Context, sessionID string, amount float64) (*QRPayment, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	now := s.now()
	ref, err := utils.GenerateQRReference(now)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to generate qr reference",
			zap.String("layer", "service"),
			zap.Error(err),
		)
		return nil, err
	}
	qr := &QRPayment{
		Reference: ref,
		Amount:    amount,
		CreatedAt: now.UTC(),
	}

	data, err := json.Marshal(qr)
	if err != nil {
		return nil, err
	}
	if err := s.storage.Set(ctx, sessionID, session.KeyQRPayment, data); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("qr payment generated",
		zap.String("layer", "service"),
		zap.String("reference", qr.Reference),
		zap.Float64("amount", amount),
	)
	return qr, nil
}

// GetQR returns the session's generated code, or ErrQRNotGenerated.
func (s *service) GetQR(ctx context.Context, sessionID string) (*QRPayment, error) {
	data, err := s.storage.Get(ctx, sessionID, session.KeyQRPayment)
	if errors.Is(err, session.ErrNotFound) {
		return nil, ErrQRNotGenerated
	}
	if err != nil {
		return nil, err
	}

	var qr QRPayment
	if err := json.Unmarshal(data, &qr); err != nil {
		return nil, fmt.Errorf("decode qr payment: %w", err)
	}
	return &qr, nil
}

func (s *service) HasQR(ctx context.Context, sessionID string) (bool, error) {
	_, err := s.GetQR(ctx, sessionID)
	if errors.Is(err, ErrQRNotGenerated) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ClearQR drops the generated code once it has paid for an order.
func (s *service) ClearQR(ctx context.Context, sessionID string) error {
	return s.storage.Delete(ctx, sessionID, session.KeyQRPayment)
}

// amountTolerance absorbs float rounding when comparing totals.
const amountTolerance = 1e-6

// Validate applies the per-method predicate. A card needs all four fields
// and a wallet is always valid. QR needs a generated code whose amount
// still matches the amount being paid.
func (s *service) Validate(ctx context.Context, sessionID string, sel Selection, amount float64) error {
	switch sel.Method {
	case MethodCard:
		if sel.Card == nil || !sel.Card.complete() {
			return ErrCardIncomplete
		}
		return nil
	case MethodWallet:
		return nil
	case MethodQR:
		qr, err := s.GetQR(ctx, sessionID)
		if err != nil {
			return err
		}
		if math.Abs(qr.Amount-amount) > amountTolerance {
			return fmt.Errorf("%w: generated for %.2f, paying %.2f", ErrQRAmountStale, qr.Amount, amount)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMethod, sel.Method)
	}
}

func (s *service) Instructions(method Method, vars InstructionVars) []string {
	return InjectVariables(GetInstructions(method), vars)
}
