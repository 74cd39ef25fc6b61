package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/claims-service/internal/domain"
	"github.com/spec-kit/claims-service/internal/repository"
	apperrors "github.com/spec-kit/claims-service/pkg/util"
)

// PaymentService manages the standalone payout ledger maintained by admins.
type PaymentService struct {
	payments repository.PaymentRepository
}

// NewPaymentService constructs the service.
func NewPaymentService(payments repository.PaymentRepository) *PaymentService {
	return &PaymentService{payments: payments}
}

// PaymentCreateInput describes a ledger entry payload.
type PaymentCreateInput struct {
	Reference string
	Claimant  string
	Amount    float64
	Method    domain.LedgerPaymentMethod
	Date      *time.Time
	Status    domain.LedgerPaymentStatus
}

// PaymentPage is a paginated ledger result.
type PaymentPage struct {
	Payments []domain.Payment
	Total    int64
	Page     int
	Pages    int
}

// Record appends a payout entry to the ledger.
func (s *PaymentService) Record(ctx context.Context, input PaymentCreateInput) (*domain.Payment, error) {
	reference := strings.TrimSpace(input.Reference)
	claimant := strings.TrimSpace(input.Claimant)
	if reference == "" || claimant == "" {
		return nil, apperrors.NewValidationError("reference and claimant are required", nil)
	}
	if input.Amount <= 0 {
		return nil, apperrors.NewValidationError("amount must be positive", nil)
	}
	if !input.Method.IsValid() {
		return nil, apperrors.NewValidationError("unknown payment method", map[string]any{"method": string(input.Method)})
	}

	status := input.Status
	if status == "" {
		status = domain.LedgerPaymentPending
	}
	date := time.Now()
	if input.Date != nil {
		date = *input.Date
	}

	payment := &domain.Payment{
		Reference: reference,
		Claimant:  claimant,
		Amount:    input.Amount,
		Method:    input.Method,
		Date:      date,
		Status:    status,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, apperrors.MapError(err)
	}
	return payment, nil
}

// List returns ledger entries, newest first.
func (s *PaymentService) List(ctx context.Context, search *string, page, limit int) (*PaymentPage, error) {
	if limit <= 0 {
		limit = 5
	}
	if page <= 0 {
		page = 1
	}

	filter := repository.PaymentFilter{
		Search: search,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	payments, err := s.payments.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	total, err := s.payments.CountWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if payments == nil {
		payments = []domain.Payment{}
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	return &PaymentPage{Payments: payments, Total: total, Page: page, Pages: pages}, nil
}

// Delete removes a ledger entry.
func (s *PaymentService) Delete(ctx context.Context, id string) error {
	if err := s.payments.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("payment", map[string]any{"payment_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}
