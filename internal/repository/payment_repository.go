package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/claims-service/internal/domain"
)

// PaymentFilter captures ledger search parameters.
type PaymentFilter struct {
	Search *string
	Limit  int
	Offset int
}

// PaymentRepository stores standalone payout ledger entries.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	Delete(ctx context.Context, id string) error
	ListWithFilter(ctx context.Context, filter PaymentFilter) ([]domain.Payment, error)
	CountWithFilter(ctx context.Context, filter PaymentFilter) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type paymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository instantiates repository.
func NewPaymentRepository(pool *pgxpool.Pool) PaymentRepository {
	return &paymentRepository{pool: pool}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	const query = `
        INSERT INTO payments (reference, claimant, amount, method, date, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		payment.Reference,
		payment.Claimant,
		payment.Amount,
		payment.Method,
		payment.Date,
		payment.Status,
	).Scan(&payment.ID, &payment.CreatedAt)
}

func (r *paymentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM payments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *paymentRepository) ListWithFilter(ctx context.Context, filter PaymentFilter) ([]domain.Payment, error) {
	clauses, args := buildPaymentClauses(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 5
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`
        SELECT id, reference, claimant, amount, method, date, status, created_at
        FROM payments WHERE %s ORDER BY date DESC LIMIT %d OFFSET %d`,
		strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Payment
	for rows.Next() {
		var payment domain.Payment
		if err := rows.Scan(
			&payment.ID,
			&payment.Reference,
			&payment.Claimant,
			&payment.Amount,
			&payment.Method,
			&payment.Date,
			&payment.Status,
			&payment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, payment)
	}
	return result, rows.Err()
}

func (r *paymentRepository) CountWithFilter(ctx context.Context, filter PaymentFilter) (int64, error) {
	clauses, args := buildPaymentClauses(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM payments WHERE %s`, strings.Join(clauses, " AND "))
	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *paymentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM payments`).Scan(&count)
	return count, err
}

func buildPaymentClauses(filter PaymentFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(reference) LIKE %s OR LOWER(claimant) LIKE %s OR LOWER(method) LIKE %s)",
			placeholder, placeholder, placeholder))
	}
	return clauses, args
}
