package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/claims-service/internal/domain"
	"github.com/spec-kit/claims-service/internal/events"
	"github.com/spec-kit/claims-service/internal/repository"
)

// fakeClaimRepo is an in-memory ClaimRepository with overridable hooks.
type fakeClaimRepo struct {
	mu     sync.Mutex
	claims map[string]*domain.Claim

	guardedCalls int
	// hook invoked before each guarded update; lets tests simulate races.
	beforeGuarded func(call int)
}

func newFakeClaimRepo() *fakeClaimRepo {
	return &fakeClaimRepo{claims: make(map[string]*domain.Claim)}
}

func (f *fakeClaimRepo) put(claim *domain.Claim) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *claim
	f.claims[claim.ID] = &copied
}

func (f *fakeClaimRepo) Create(_ context.Context, claim *domain.Claim) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if claim.ID == "" {
		claim.ID = "claim-" + claim.Reference
	}
	claim.CreatedAt = time.Now()
	claim.UpdatedAt = claim.CreatedAt
	copied := *claim
	f.claims[claim.ID] = &copied
	return nil
}

func (f *fakeClaimRepo) Update(_ context.Context, claim *domain.Claim) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.claims[claim.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *claim
	f.claims[claim.ID] = &copied
	return nil
}

func (f *fakeClaimRepo) UpdateStatusGuarded(_ context.Context, claim *domain.Claim, expected domain.ClaimStatus) error {
	f.mu.Lock()
	f.guardedCalls++
	call := f.guardedCalls
	hook := f.beforeGuarded
	f.mu.Unlock()
	if hook != nil {
		hook(call)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.claims[claim.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if stored.Status != expected {
		return repository.ErrStatusConflict
	}
	copied := *claim
	f.claims[claim.ID] = &copied
	return nil
}

func (f *fakeClaimRepo) GetByID(_ context.Context, id string) (*domain.Claim, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.claims[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (f *fakeClaimRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.claims[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.claims, id)
	return nil
}

func (f *fakeClaimRepo) ListWithFilter(_ context.Context, filter repository.ClaimFilter) ([]domain.Claim, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Claim
	for _, claim := range f.claims {
		if filter.OwnerID != nil && claim.UserID != *filter.OwnerID {
			continue
		}
		if filter.SurveyorID != nil && (claim.SurveyorID == nil || *claim.SurveyorID != *filter.SurveyorID) {
			continue
		}
		if len(filter.ScopeStatuses) > 0 {
			matched := false
			for _, s := range filter.ScopeStatuses {
				if claim.Status == s {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		if filter.Status != nil && claim.Status != *filter.Status {
			continue
		}
		result = append(result, *claim)
	}
	return result, nil
}

func (f *fakeClaimRepo) CountWithFilter(ctx context.Context, filter repository.ClaimFilter) (int64, error) {
	claims, err := f.ListWithFilter(ctx, filter)
	return int64(len(claims)), err
}

func (f *fakeClaimRepo) CountByStatus(_ context.Context, status domain.ClaimStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, claim := range f.claims {
		if claim.Status == status {
			count++
		}
	}
	return count, nil
}

func (f *fakeClaimRepo) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.claims)), nil
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) put(user *domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *user
	f.users[user.ID] = &copied
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == "" {
		user.ID = "user-" + user.Email
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) UpdateStatus(_ context.Context, id string, status domain.UserStatus) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	stored.Status = status
	copied := *stored
	return &copied, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) ListWithFilter(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.User
	for _, user := range f.users {
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		if filter.Status != nil && user.Status != *filter.Status {
			continue
		}
		result = append(result, *user)
	}
	return result, nil
}

func (f *fakeUserRepo) CountWithFilter(ctx context.Context, filter repository.UserFilter) (int64, error) {
	users, err := f.ListWithFilter(ctx, filter)
	return int64(len(users)), err
}

func (f *fakeUserRepo) CountByStatus(_ context.Context, status domain.UserStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, user := range f.users {
		if user.Status == status {
			count++
		}
	}
	return count, nil
}

func (f *fakeUserRepo) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.users)), nil
}

// fakeEvidenceRepo is an in-memory EvidenceRepository.
type fakeEvidenceRepo struct {
	mu    sync.Mutex
	files []domain.EvidenceFile
}

func (f *fakeEvidenceRepo) Create(_ context.Context, file *domain.EvidenceFile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	file.ID = "evidence-1"
	file.UploadedAt = time.Now()
	f.files = append(f.files, *file)
	return nil
}

func (f *fakeEvidenceRepo) ListByClaim(_ context.Context, claimID string) ([]domain.EvidenceFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.EvidenceFile
	for _, file := range f.files {
		if file.ClaimID == claimID {
			result = append(result, file)
		}
	}
	return result, nil
}

// fakeHistoryRepo records audit entries in memory.
type fakeHistoryRepo struct {
	mu      sync.Mutex
	entries []domain.ClaimHistory
	failErr error
}

func (f *fakeHistoryRepo) Create(_ context.Context, entry *domain.ClaimHistory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	entry.CreatedAt = time.Now()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeHistoryRepo) ListByClaim(_ context.Context, claimID string, _, _ int) ([]domain.ClaimHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.ClaimHistory
	for _, entry := range f.entries {
		if entry.ClaimID == claimID {
			result = append(result, entry)
		}
	}
	return result, nil
}

// fakeEmployeeRepo is an in-memory EmployeeRepository.
type fakeEmployeeRepo struct {
	mu        sync.Mutex
	employees []domain.Employee
}

func (f *fakeEmployeeRepo) Create(_ context.Context, employee *domain.Employee) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	employee.ID = "employee-" + employee.Email
	employee.CreatedAt = time.Now()
	employee.UpdatedAt = employee.CreatedAt
	f.employees = append(f.employees, *employee)
	return nil
}

func (f *fakeEmployeeRepo) GetByEmail(_ context.Context, email string) (*domain.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, employee := range f.employees {
		if employee.Email == email {
			copied := employee
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeEmployeeRepo) List(_ context.Context) ([]domain.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]domain.Employee, len(f.employees))
	copy(result, f.employees)
	return result, nil
}

// recordingDispatcher captures published events.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) byType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var result []events.Event
	for _, event := range d.events {
		if event.Type == eventType {
			result = append(result, event)
		}
	}
	return result
}
