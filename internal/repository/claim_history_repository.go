package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/claims-service/internal/domain"
)

// ClaimHistoryRepository records the audit trail of claim changes.
type ClaimHistoryRepository interface {
	Create(ctx context.Context, entry *domain.ClaimHistory) error
	ListByClaim(ctx context.Context, claimID string, limit, offset int) ([]domain.ClaimHistory, error)
}

type claimHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewClaimHistoryRepository instantiates repository.
func NewClaimHistoryRepository(pool *pgxpool.Pool) ClaimHistoryRepository {
	return &claimHistoryRepository{pool: pool}
}

func (r *claimHistoryRepository) Create(ctx context.Context, entry *domain.ClaimHistory) error {
	const query = `
        INSERT INTO claim_history (claim_id, changed_by_id, changed_by_role, change_type, old_value, new_value)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.ClaimID,
		entry.ChangedByID,
		entry.ChangedByRole,
		entry.ChangeType,
		entry.OldValue,
		entry.NewValue,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *claimHistoryRepository) ListByClaim(ctx context.Context, claimID string, limit, offset int) ([]domain.ClaimHistory, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, claim_id, changed_by_id, changed_by_role, change_type, old_value, new_value, created_at
        FROM claim_history WHERE claim_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, claimID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ClaimHistory
	for rows.Next() {
		var entry domain.ClaimHistory
		if err := rows.Scan(
			&entry.ID,
			&entry.ClaimID,
			&entry.ChangedByID,
			&entry.ChangedByRole,
			&entry.ChangeType,
			&entry.OldValue,
			&entry.NewValue,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
