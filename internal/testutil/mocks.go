package testutil

import (
	"context"
	"sync"

	"github.com/brandsync/brandsync/internal/domain/application"
	domainErrors "github.com/brandsync/brandsync/internal/domain/errors"
	"github.com/brandsync/brandsync/internal/domain/outbox"
	"github.com/brandsync/brandsync/internal/domain/profile"
	"github.com/brandsync/brandsync/internal/domain/task"
	"github.com/google/uuid"
)

// --- Task Repository Mock ---

// MockTaskRepository is a mock implementation of task.Repository.
type MockTaskRepository struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*task.Task
	slips map[uuid.UUID]*task.BankSlip

	CreateFunc           func(ctx context.Context, t *task.Task) error
	GetByIDFunc          func(ctx context.Context, id uuid.UUID) (*task.Task, error)
	UpdateFunc           func(ctx context.Context, t *task.Task) error
	ListFunc             func(ctx context.Context, f task.ListFilter) ([]*task.Task, error)
	CreateSlipFunc       func(ctx context.Context, s *task.BankSlip) error
	GetSlipFunc          func(ctx context.Context, id uuid.UUID) (*task.BankSlip, error)
	UpdateSlipFunc       func(ctx context.Context, s *task.BankSlip) error
	ListPendingSlipsFunc func(ctx context.Context, limit int) ([]*task.BankSlip, error)
}

func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{
		tasks: make(map[uuid.UUID]*task.Task),
		slips: make(map[uuid.UUID]*task.BankSlip),
	}
}

// AddTask pre-populates the mock with a task.
func (m *MockTaskRepository) AddTask(t *task.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[t.ID] = t
}

func (m *MockTaskRepository) Create(ctx context.Context, t *task.Task) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[t.ID] = t
	return nil
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, domainErrors.ErrTaskNotFound
	}
	return t, nil
}

func (m *MockTaskRepository) Update(ctx context.Context, t *task.Task) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, t)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[t.ID]; !ok {
		return domainErrors.ErrTaskNotFound
	}
	m.tasks[t.ID] = t
	return nil
}

func (m *MockTaskRepository) List(ctx context.Context, f task.ListFilter) ([]*task.Task, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*task.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		if f.OwnerID != nil && t.OwnerID != *f.OwnerID {
			continue
		}
		if f.Status != nil && t.Status != *f.Status {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

func (m *MockTaskRepository) CreateSlip(ctx context.Context, s *task.BankSlip) error {
	if m.CreateSlipFunc != nil {
		return m.CreateSlipFunc(ctx, s)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slips[s.ID] = s
	return nil
}

func (m *MockTaskRepository) GetSlip(ctx context.Context, id uuid.UUID) (*task.BankSlip, error) {
	if m.GetSlipFunc != nil {
		return m.GetSlipFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slips[id]
	if !ok {
		return nil, domainErrors.ErrSlipNotFound
	}
	return s, nil
}

func (m *MockTaskRepository) UpdateSlip(ctx context.Context, s *task.BankSlip) error {
	if m.UpdateSlipFunc != nil {
		return m.UpdateSlipFunc(ctx, s)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.slips[s.ID]; !ok {
		return domainErrors.ErrSlipNotFound
	}
	m.slips[s.ID] = s
	return nil
}

func (m *MockTaskRepository) ListPendingSlips(ctx context.Context, limit int) ([]*task.BankSlip, error) {
	if m.ListPendingSlipsFunc != nil {
		return m.ListPendingSlipsFunc(ctx, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*task.BankSlip
	for _, s := range m.slips {
		if s.Status == task.SlipPendingReview {
			result = append(result, s)
		}
	}
	return result, nil
}

// --- Application Repository Mock ---

// MockApplicationRepository is a mock implementation of application.Repository.
type MockApplicationRepository struct {
	mu           sync.Mutex
	applications map[uuid.UUID]*application.Application
	proofs       map[uuid.UUID][]*application.Proof

	CreateFunc                 func(ctx context.Context, a *application.Application) error
	GetByIDFunc                func(ctx context.Context, id uuid.UUID) (*application.Application, error)
	GetByTaskAndInfluencerFunc func(ctx context.Context, taskID, influencerID uuid.UUID) (*application.Application, error)
	UpdateFunc                 func(ctx context.Context, a *application.Application) error
	ListFunc                   func(ctx context.Context, f application.ListFilter) ([]*application.Application, error)
	AddProofFunc               func(ctx context.Context, p *application.Proof) error
	GetProofsFunc              func(ctx context.Context, applicationID uuid.UUID) ([]*application.Proof, error)
}

func NewMockApplicationRepository() *MockApplicationRepository {
	return &MockApplicationRepository{
		applications: make(map[uuid.UUID]*application.Application),
		proofs:       make(map[uuid.UUID][]*application.Proof),
	}
}

// AddApplication pre-populates the mock with an application.
func (m *MockApplicationRepository) AddApplication(a *application.Application) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applications[a.ID] = a
}

func (m *MockApplicationRepository) Create(ctx context.Context, a *application.Application) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, a)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.applications {
		if existing.TaskID == a.TaskID && existing.InfluencerID == a.InfluencerID {
			return domainErrors.ErrDuplicateApplication
		}
	}
	m.applications[a.ID] = a
	return nil
}

func (m *MockApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*application.Application, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.applications[id]
	if !ok {
		return nil, domainErrors.ErrApplicationNotFound
	}
	return a, nil
}

func (m *MockApplicationRepository) GetByTaskAndInfluencer(ctx context.Context, taskID, influencerID uuid.UUID) (*application.Application, error) {
	if m.GetByTaskAndInfluencerFunc != nil {
		return m.GetByTaskAndInfluencerFunc(ctx, taskID, influencerID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.applications {
		if a.TaskID == taskID && a.InfluencerID == influencerID {
			return a, nil
		}
	}
	return nil, domainErrors.ErrApplicationNotFound
}

func (m *MockApplicationRepository) Update(ctx context.Context, a *application.Application) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, a)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.applications[a.ID]; !ok {
		return domainErrors.ErrApplicationNotFound
	}
	m.applications[a.ID] = a
	return nil
}

func (m *MockApplicationRepository) List(ctx context.Context, f application.ListFilter) ([]*application.Application, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*application.Application, 0, len(m.applications))
	for _, a := range m.applications {
		if f.TaskID != nil && a.TaskID != *f.TaskID {
			continue
		}
		if f.InfluencerID != nil && a.InfluencerID != *f.InfluencerID {
			continue
		}
		if f.Status != nil && a.Status != *f.Status {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (m *MockApplicationRepository) AddProof(ctx context.Context, p *application.Proof) error {
	if m.AddProofFunc != nil {
		return m.AddProofFunc(ctx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.proofs[p.ApplicationID] = append(m.proofs[p.ApplicationID], p)
	return nil
}

func (m *MockApplicationRepository) GetProofs(ctx context.Context, applicationID uuid.UUID) ([]*application.Proof, error) {
	if m.GetProofsFunc != nil {
		return m.GetProofsFunc(ctx, applicationID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.proofs[applicationID], nil
}

// --- Profile Repository Mock ---

// MockProfileRepository is a mock implementation of profile.Repository.
type MockProfileRepository struct {
	mu          sync.Mutex
	profiles    map[uuid.UUID]*profile.Profile
	withdrawals map[uuid.UUID]*profile.Withdrawal

	CreateFunc           func(ctx context.Context, p *profile.Profile) error
	GetByIDFunc          func(ctx context.Context, id uuid.UUID) (*profile.Profile, error)
	UpdateFunc           func(ctx context.Context, p *profile.Profile) error
	LockFunc             func(ctx context.Context, id uuid.UUID) (*profile.Profile, error)
	CreateWithdrawalFunc func(ctx context.Context, w *profile.Withdrawal) error
	GetWithdrawalFunc    func(ctx context.Context, id uuid.UUID) (*profile.Withdrawal, error)
	UpdateWithdrawalFunc func(ctx context.Context, w *profile.Withdrawal) error
	ListWithdrawalsFunc  func(ctx context.Context, profileID *uuid.UUID, limit, offset int) ([]*profile.Withdrawal, error)
}

func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{
		profiles:    make(map[uuid.UUID]*profile.Profile),
		withdrawals: make(map[uuid.UUID]*profile.Withdrawal),
	}
}

// AddProfile pre-populates the mock with a profile.
func (m *MockProfileRepository) AddProfile(p *profile.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = p
}

func (m *MockProfileRepository) Create(ctx context.Context, p *profile.Profile) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = p
	return nil
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, domainErrors.ErrProfileNotFound
	}
	return p, nil
}

func (m *MockProfileRepository) Update(ctx context.Context, p *profile.Profile) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[p.ID]; !ok {
		return domainErrors.ErrProfileNotFound
	}
	m.profiles[p.ID] = p
	return nil
}

func (m *MockProfileRepository) Lock(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	if m.LockFunc != nil {
		return m.LockFunc(ctx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockProfileRepository) CreateWithdrawal(ctx context.Context, w *profile.Withdrawal) error {
	if m.CreateWithdrawalFunc != nil {
		return m.CreateWithdrawalFunc(ctx, w)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.withdrawals[w.ID] = w
	return nil
}

func (m *MockProfileRepository) GetWithdrawal(ctx context.Context, id uuid.UUID) (*profile.Withdrawal, error) {
	if m.GetWithdrawalFunc != nil {
		return m.GetWithdrawalFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.withdrawals[id]
	if !ok {
		return nil, domainErrors.ErrWithdrawalNotFound
	}
	return w, nil
}

func (m *MockProfileRepository) UpdateWithdrawal(ctx context.Context, w *profile.Withdrawal) error {
	if m.UpdateWithdrawalFunc != nil {
		return m.UpdateWithdrawalFunc(ctx, w)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.withdrawals[w.ID]; !ok {
		return domainErrors.ErrWithdrawalNotFound
	}
	m.withdrawals[w.ID] = w
	return nil
}

func (m *MockProfileRepository) ListWithdrawals(ctx context.Context, profileID *uuid.UUID, limit, offset int) ([]*profile.Withdrawal, error) {
	if m.ListWithdrawalsFunc != nil {
		return m.ListWithdrawalsFunc(ctx, profileID, limit, offset)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*profile.Withdrawal
	for _, w := range m.withdrawals {
		if profileID != nil && w.ProfileID != *profileID {
			continue
		}
		result = append(result, w)
	}
	return result, nil
}

// --- Transaction Manager Mock ---

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	WithTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.WithTransactionFunc != nil {
		return m.WithTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

// --- Outbox Repository Mock ---

// MockOutboxRepository is a mock implementation of outbox.Repository. Inserted
// entries are retained so tests can assert on queued events.
type MockOutboxRepository struct {
	mu      sync.Mutex
	Entries []*outbox.Entry

	InsertFunc        func(ctx context.Context, entry *outbox.Entry) error
	GetPendingFunc    func(ctx context.Context, limit int) ([]*outbox.Entry, error)
	MarkPublishedFunc func(ctx context.Context, id uuid.UUID) error
	MarkFailedFunc    func(ctx context.Context, id uuid.UUID) error
}

func (m *MockOutboxRepository) Insert(ctx context.Context, entry *outbox.Entry) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, entry)
	return nil
}

func (m *MockOutboxRepository) GetPending(ctx context.Context, limit int) ([]*outbox.Entry, error) {
	if m.GetPendingFunc != nil {
		return m.GetPendingFunc(ctx, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var pending []*outbox.Entry
	for _, e := range m.Entries {
		if e.Status == outbox.StatusPending {
			pending = append(pending, e)
		}
		if len(pending) == limit {
			break
		}
	}
	return pending, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id uuid.UUID) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Entries {
		if e.ID == id {
			e.Status = outbox.StatusPublished
		}
	}
	return nil
}

func (m *MockOutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	if m.MarkFailedFunc != nil {
		return m.MarkFailedFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Entries {
		if e.ID == id {
			e.RetryCount++
			if e.RetryCount >= e.MaxRetries {
				e.Status = outbox.StatusFailed
			}
		}
	}
	return nil
}
