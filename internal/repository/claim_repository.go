package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/claims-service/internal/domain"
)

// ErrStatusConflict signals that a guarded status update lost a race: the
// claim's status changed between read and write.
var ErrStatusConflict = errors.New("claim status changed concurrently")

// ClaimFilter captures the role scope plus caller-supplied search parameters.
// Scope fields and caller filters are ANDed; search can never widen the scope.
type ClaimFilter struct {
	OwnerID       *string
	SurveyorID    *string
	ScopeStatuses []domain.ClaimStatus

	Status  *domain.ClaimStatus
	Search  *string
	SortAsc bool
	Limit   int
	Offset  int
	All     bool
}

// ClaimRepository encapsulates claim persistence.
type ClaimRepository interface {
	Create(ctx context.Context, claim *domain.Claim) error
	Update(ctx context.Context, claim *domain.Claim) error
	UpdateStatusGuarded(ctx context.Context, claim *domain.Claim, expected domain.ClaimStatus) error
	GetByID(ctx context.Context, id string) (*domain.Claim, error)
	Delete(ctx context.Context, id string) error
	ListWithFilter(ctx context.Context, filter ClaimFilter) ([]domain.Claim, error)
	CountWithFilter(ctx context.Context, filter ClaimFilter) (int64, error)
	CountByStatus(ctx context.Context, status domain.ClaimStatus) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type claimRepository struct {
	pool *pgxpool.Pool
}

// NewClaimRepository instantiates repository.
func NewClaimRepository(pool *pgxpool.Pool) ClaimRepository {
	return &claimRepository{pool: pool}
}

const claimColumns = `id, user_id, full_name, phone, email, policy_number, reference,
       vessel_name, voyage_route, cargo_description, bill_of_lading,
       incident_date, incident_place, type_of_loss, cause_of_loss, estimated_loss, description,
       status, surveyor_id, investigation_notes,
       loss_adjuster_id, assessment_notes, final_loss_amount, recommendation, assessment_date,
       admin_id, admin_decision, admin_notes,
       finance_id, finance_notes, payment_status, payment_reference, payment_amount, payment_date, payment_method,
       final_report, closed_date, created_at, updated_at`

func (r *claimRepository) Create(ctx context.Context, claim *domain.Claim) error {
	const query = `
        INSERT INTO claims (user_id, full_name, phone, email, policy_number, reference,
            vessel_name, voyage_route, cargo_description, bill_of_lading,
            incident_date, incident_place, type_of_loss, cause_of_loss, estimated_loss, description,
            status, payment_status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		claim.UserID,
		claim.FullName,
		claim.Phone,
		claim.Email,
		claim.PolicyNumber,
		claim.Reference,
		claim.VesselName,
		claim.VoyageRoute,
		claim.CargoDescription,
		claim.BillOfLading,
		claim.IncidentDate,
		claim.IncidentPlace,
		claim.TypeOfLoss,
		claim.CauseOfLoss,
		claim.EstimatedLoss,
		claim.Description,
		claim.Status,
		claim.PaymentStatus,
	).Scan(&claim.ID, &claim.CreatedAt, &claim.UpdatedAt)
}

const claimUpdateSet = `
        full_name=$1, phone=$2, email=$3, policy_number=$4,
        vessel_name=$5, voyage_route=$6, cargo_description=$7, bill_of_lading=$8,
        incident_date=$9, incident_place=$10, type_of_loss=$11, cause_of_loss=$12, estimated_loss=$13, description=$14,
        status=$15, surveyor_id=$16, investigation_notes=$17,
        loss_adjuster_id=$18, assessment_notes=$19, final_loss_amount=$20, recommendation=$21, assessment_date=$22,
        admin_id=$23, admin_decision=$24, admin_notes=$25,
        finance_id=$26, finance_notes=$27, payment_status=$28, payment_reference=$29, payment_amount=$30, payment_date=$31, payment_method=$32,
        final_report=$33, closed_date=$34, updated_at=NOW()`

func claimUpdateArgs(claim *domain.Claim) []any {
	return []any{
		claim.FullName,
		claim.Phone,
		claim.Email,
		claim.PolicyNumber,
		claim.VesselName,
		claim.VoyageRoute,
		claim.CargoDescription,
		claim.BillOfLading,
		claim.IncidentDate,
		claim.IncidentPlace,
		claim.TypeOfLoss,
		claim.CauseOfLoss,
		claim.EstimatedLoss,
		claim.Description,
		claim.Status,
		claim.SurveyorID,
		claim.InvestigationNotes,
		claim.LossAdjusterID,
		claim.AssessmentNotes,
		claim.FinalLossAmount,
		claim.Recommendation,
		claim.AssessmentDate,
		claim.AdminID,
		claim.AdminDecision,
		claim.AdminNotes,
		claim.FinanceID,
		claim.FinanceNotes,
		claim.PaymentStatus,
		claim.PaymentReference,
		claim.PaymentAmount,
		claim.PaymentDate,
		claim.PaymentMethod,
		claim.FinalReport,
		claim.ClosedDate,
	}
}

func (r *claimRepository) Update(ctx context.Context, claim *domain.Claim) error {
	query := fmt.Sprintf("UPDATE claims SET %s WHERE id=$35", claimUpdateSet)
	args := append(claimUpdateArgs(claim), claim.ID)
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateStatusGuarded persists the claim only if its stored status still
// matches expected. Status and its derived fields land in one statement, so a
// transition is either applied whole or not at all.
func (r *claimRepository) UpdateStatusGuarded(ctx context.Context, claim *domain.Claim, expected domain.ClaimStatus) error {
	query := fmt.Sprintf("UPDATE claims SET %s WHERE id=$35 AND status=$36", claimUpdateSet)
	args := append(claimUpdateArgs(claim), claim.ID, expected)
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (r *claimRepository) GetByID(ctx context.Context, id string) (*domain.Claim, error) {
	query := fmt.Sprintf("SELECT %s FROM claims WHERE id=$1", claimColumns)
	var claim domain.Claim
	if err := scanClaim(r.pool.QueryRow(ctx, query, id), &claim); err != nil {
		return nil, err
	}
	return &claim, nil
}

func (r *claimRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM claims WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *claimRepository) ListWithFilter(ctx context.Context, filter ClaimFilter) ([]domain.Claim, error) {
	clauses, args := buildClaimClauses(filter)

	order := "DESC"
	if filter.SortAsc {
		order = "ASC"
	}
	query := fmt.Sprintf("SELECT %s FROM claims WHERE %s ORDER BY created_at %s",
		claimColumns, strings.Join(clauses, " AND "), order)

	if !filter.All {
		limit := filter.Limit
		if limit <= 0 {
			limit = 10
		}
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		query = fmt.Sprintf("%s LIMIT %d OFFSET %d", query, limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanClaims(rows)
}

func (r *claimRepository) CountWithFilter(ctx context.Context, filter ClaimFilter) (int64, error) {
	clauses, args := buildClaimClauses(filter)
	query := fmt.Sprintf("SELECT COUNT(*) FROM claims WHERE %s", strings.Join(clauses, " AND "))
	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *claimRepository) CountByStatus(ctx context.Context, status domain.ClaimStatus) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM claims WHERE status=$1`, status).Scan(&count)
	return count, err
}

func (r *claimRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM claims`).Scan(&count)
	return count, err
}

func buildClaimClauses(filter ClaimFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if filter.SurveyorID != nil {
		args = append(args, *filter.SurveyorID)
		clauses = append(clauses, fmt.Sprintf("surveyor_id=$%d", len(args)))
	}
	if len(filter.ScopeStatuses) > 0 {
		placeholders := make([]string, len(filter.ScopeStatuses))
		for i, status := range filter.ScopeStatuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(reference) LIKE %s OR LOWER(full_name) LIKE %s OR LOWER(policy_number) LIKE %s OR LOWER(vessel_name) LIKE %s)",
			placeholder, placeholder, placeholder, placeholder))
	}
	return clauses, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClaim(row rowScanner, claim *domain.Claim) error {
	return row.Scan(
		&claim.ID,
		&claim.UserID,
		&claim.FullName,
		&claim.Phone,
		&claim.Email,
		&claim.PolicyNumber,
		&claim.Reference,
		&claim.VesselName,
		&claim.VoyageRoute,
		&claim.CargoDescription,
		&claim.BillOfLading,
		&claim.IncidentDate,
		&claim.IncidentPlace,
		&claim.TypeOfLoss,
		&claim.CauseOfLoss,
		&claim.EstimatedLoss,
		&claim.Description,
		&claim.Status,
		&claim.SurveyorID,
		&claim.InvestigationNotes,
		&claim.LossAdjusterID,
		&claim.AssessmentNotes,
		&claim.FinalLossAmount,
		&claim.Recommendation,
		&claim.AssessmentDate,
		&claim.AdminID,
		&claim.AdminDecision,
		&claim.AdminNotes,
		&claim.FinanceID,
		&claim.FinanceNotes,
		&claim.PaymentStatus,
		&claim.PaymentReference,
		&claim.PaymentAmount,
		&claim.PaymentDate,
		&claim.PaymentMethod,
		&claim.FinalReport,
		&claim.ClosedDate,
		&claim.CreatedAt,
		&claim.UpdatedAt,
	)
}

func scanClaims(rows pgx.Rows) ([]domain.Claim, error) {
	var result []domain.Claim
	for rows.Next() {
		var claim domain.Claim
		if err := scanClaim(rows, &claim); err != nil {
			return nil, err
		}
		result = append(result, claim)
	}
	return result, rows.Err()
}
