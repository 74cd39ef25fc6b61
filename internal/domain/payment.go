package domain

import "time"

// LedgerPaymentMethod enumerates payment channels in the standalone ledger.
type LedgerPaymentMethod string

const (
	LedgerMethodBank   LedgerPaymentMethod = "bank"
	LedgerMethodCheque LedgerPaymentMethod = "cheque"
	LedgerMethodMpesa  LedgerPaymentMethod = "mpesa"
)

// IsValid reports whether the ledger method is recognized.
func (m LedgerPaymentMethod) IsValid() bool {
	switch m {
	case LedgerMethodBank, LedgerMethodCheque, LedgerMethodMpesa:
		return true
	}
	return false
}

// LedgerPaymentStatus tracks a ledger entry's settlement state.
type LedgerPaymentStatus string

const (
	LedgerPaymentPending   LedgerPaymentStatus = "pending"
	LedgerPaymentCompleted LedgerPaymentStatus = "completed"
)

// Payment is a standalone payout ledger entry, independent of the per-claim
// finance fields.
type Payment struct {
	ID        string
	Reference string
	Claimant  string
	Amount    float64
	Method    LedgerPaymentMethod
	Date      time.Time
	Status    LedgerPaymentStatus
	CreatedAt time.Time
}
