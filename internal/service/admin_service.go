package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/claims-service/internal/domain"
	"github.com/spec-kit/claims-service/internal/repository"
	apperrors "github.com/spec-kit/claims-service/pkg/util"
)

const summaryCacheKey = "admin:dashboard:summary"

// AdminService backs the admin dashboard: user administration, surveyor
// listing and the aggregate summary.
type AdminService struct {
	users      repository.UserRepository
	claims     repository.ClaimRepository
	payments   repository.PaymentRepository
	cache      *redis.Client
	summaryTTL time.Duration
	logger     *zap.Logger
}

// AdminDependencies bundles what the admin service needs.
type AdminDependencies struct {
	UserRepo    repository.UserRepository
	ClaimRepo   repository.ClaimRepository
	PaymentRepo repository.PaymentRepository
	Cache       *redis.Client
	SummaryTTL  time.Duration
	Logger      *zap.Logger
}

// NewAdminService constructs the service.
func NewAdminService(deps AdminDependencies) *AdminService {
	return &AdminService{
		users:      deps.UserRepo,
		claims:     deps.ClaimRepo,
		payments:   deps.PaymentRepo,
		cache:      deps.Cache,
		summaryTTL: deps.SummaryTTL,
		logger:     deps.Logger,
	}
}

// UserPage is a paginated user listing.
type UserPage struct {
	Users []domain.User
	Total int64
	Page  int
	Pages int
}

// DashboardSummary aggregates counts for the admin dashboard.
type DashboardSummary struct {
	TotalUsers    int64                        `json:"total_users"`
	PendingUsers  int64                        `json:"pending_users"`
	TotalClaims   int64                        `json:"total_claims"`
	ClaimsByState map[domain.ClaimStatus]int64 `json:"claims_by_status"`
	TotalPayments int64                        `json:"total_payments"`
	GeneratedAt   time.Time                    `json:"generated_at"`
}

// ListUsers returns user accounts matching the filter.
func (s *AdminService) ListUsers(ctx context.Context, role *domain.Role, status *domain.UserStatus, search *string, page, limit int) (*UserPage, error) {
	if limit <= 0 {
		limit = 5
	}
	if page <= 0 {
		page = 1
	}

	filter := repository.UserFilter{
		Role:   role,
		Status: status,
		Search: search,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	users, err := s.users.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	total, err := s.users.CountWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if users == nil {
		users = []domain.User{}
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	return &UserPage{Users: users, Total: total, Page: page, Pages: pages}, nil
}

// ListSurveyors returns active surveyor accounts for assignment pickers.
func (s *AdminService) ListSurveyors(ctx context.Context, search *string, page, limit int) (*UserPage, error) {
	role := domain.RoleSurveyor
	status := domain.UserStatusActive
	return s.ListUsers(ctx, &role, &status, search, page, limit)
}

// UpdateUserStatus transitions an account between pending, active, suspended
// and rejected.
func (s *AdminService) UpdateUserStatus(ctx context.Context, userID string, status domain.UserStatus) (*domain.User, error) {
	if !status.IsValid() {
		return nil, apperrors.NewValidationError("unknown user status", map[string]any{"status": string(status)})
	}
	user, err := s.users.UpdateStatus(ctx, userID, status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	s.InvalidateSummary(ctx)
	return user, nil
}

// DeleteUser removes an account. The bootstrap admin cannot delete itself.
func (s *AdminService) DeleteUser(ctx context.Context, actorID, userID string) error {
	if actorID == userID {
		return apperrors.NewValidationError("cannot delete your own account", nil)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return apperrors.MapError(err)
	}
	s.InvalidateSummary(ctx)
	return nil
}

// Summary computes dashboard counts, serving a cached copy when fresh.
func (s *AdminService) Summary(ctx context.Context) (*DashboardSummary, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, summaryCacheKey).Bytes(); err == nil {
			var cached DashboardSummary
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	summary := &DashboardSummary{
		ClaimsByState: make(map[domain.ClaimStatus]int64, len(domain.AllClaimStatuses)),
		GeneratedAt:   time.Now(),
	}

	var err error
	if summary.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, apperrors.MapError(err)
	}
	if summary.PendingUsers, err = s.users.CountByStatus(ctx, domain.UserStatusPending); err != nil {
		return nil, apperrors.MapError(err)
	}
	if summary.TotalClaims, err = s.claims.Count(ctx); err != nil {
		return nil, apperrors.MapError(err)
	}
	for _, status := range domain.AllClaimStatuses {
		count, err := s.claims.CountByStatus(ctx, status)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		summary.ClaimsByState[status] = count
	}
	if summary.TotalPayments, err = s.payments.Count(ctx); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(summary); err == nil {
			if err := s.cache.Set(ctx, summaryCacheKey, raw, s.summaryTTL).Err(); err != nil && s.logger != nil {
				s.logger.Warn("failed to cache dashboard summary", zap.Error(err))
			}
		}
	}
	return summary, nil
}

// InvalidateSummary drops the cached dashboard summary. Called after writes
// that change the counts.
func (s *AdminService) InvalidateSummary(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, summaryCacheKey).Err(); err != nil && s.logger != nil {
		s.logger.Warn("failed to invalidate dashboard summary cache", zap.Error(err))
	}
}
