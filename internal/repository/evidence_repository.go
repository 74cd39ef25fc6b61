package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/claims-service/internal/domain"
)

// EvidenceRepository stores evidence file references attached to claims.
type EvidenceRepository interface {
	Create(ctx context.Context, file *domain.EvidenceFile) error
	ListByClaim(ctx context.Context, claimID string) ([]domain.EvidenceFile, error)
}

type evidenceRepository struct {
	pool *pgxpool.Pool
}

// NewEvidenceRepository instantiates repository.
func NewEvidenceRepository(pool *pgxpool.Pool) EvidenceRepository {
	return &evidenceRepository{pool: pool}
}

func (r *evidenceRepository) Create(ctx context.Context, file *domain.EvidenceFile) error {
	const query = `
        INSERT INTO claim_evidence (claim_id, file_name, file_url)
        VALUES ($1, $2, $3)
        RETURNING id, uploaded_at`
	return r.pool.QueryRow(ctx, query,
		file.ClaimID,
		file.FileName,
		file.FileURL,
	).Scan(&file.ID, &file.UploadedAt)
}

func (r *evidenceRepository) ListByClaim(ctx context.Context, claimID string) ([]domain.EvidenceFile, error) {
	const query = `
        SELECT id, claim_id, file_name, file_url, uploaded_at
        FROM claim_evidence WHERE claim_id=$1 ORDER BY uploaded_at ASC`
	rows, err := r.pool.Query(ctx, query, claimID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.EvidenceFile
	for rows.Next() {
		var file domain.EvidenceFile
		if err := rows.Scan(&file.ID, &file.ClaimID, &file.FileName, &file.FileURL, &file.UploadedAt); err != nil {
			return nil, err
		}
		result = append(result, file)
	}
	return result, rows.Err()
}
