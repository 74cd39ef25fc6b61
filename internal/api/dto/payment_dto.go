package dto

import (
	"time"

	"github.com/spec-kit/claims-service/internal/domain"
)

// CreatePaymentRequest is a ledger entry payload.
type CreatePaymentRequest struct {
	Reference string                     `json:"reference"`
	Claimant  string                     `json:"claimant"`
	Amount    float64                    `json:"amount"`
	Method    domain.LedgerPaymentMethod `json:"method"`
	Date      *time.Time                 `json:"date"`
	Status    domain.LedgerPaymentStatus `json:"status"`
}

// PaymentResponse is a ledger entry view.
type PaymentResponse struct {
	ID        string                     `json:"id"`
	Reference string                     `json:"reference"`
	Claimant  string                     `json:"claimant"`
	Amount    float64                    `json:"amount"`
	Method    domain.LedgerPaymentMethod `json:"method"`
	Date      time.Time                  `json:"date"`
	Status    domain.LedgerPaymentStatus `json:"status"`
	CreatedAt time.Time                  `json:"created_at"`
}
