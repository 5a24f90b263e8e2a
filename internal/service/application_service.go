package service

import (
	"context"
	"errors"

	"github.com/brandsync/brandsync/internal/domain/application"
	domainErrors "github.com/brandsync/brandsync/internal/domain/errors"
	"github.com/brandsync/brandsync/internal/domain/outbox"
	"github.com/brandsync/brandsync/internal/domain/pricing"
	"github.com/brandsync/brandsync/internal/domain/task"
	"github.com/google/uuid"
)

// ApplicationService handles influencer applications and their review.
type ApplicationService struct {
	applicationRepo application.Repository
	taskRepo        task.Repository
	outboxRepo      outbox.Repository
	txManager       TransactionManager
	rateCard        *pricing.RateCard
}

// NewApplicationService creates a new ApplicationService.
func NewApplicationService(
	applicationRepo application.Repository,
	taskRepo task.Repository,
	outboxRepo outbox.Repository,
	txManager TransactionManager,
	rateCard *pricing.RateCard,
) *ApplicationService {
	return &ApplicationService{
		applicationRepo: applicationRepo,
		taskRepo:        taskRepo,
		outboxRepo:      outboxRepo,
		txManager:       txManager,
		rateCard:        rateCard,
	}
}

// PromiseInput is one promised platform delivery.
type PromiseInput struct {
	Platform       string
	PromisedViews  int64
	DeadlineOption string
}

// ApplyRequest holds the input for applying to a task.
type ApplyRequest struct {
	TaskID       uuid.UUID
	InfluencerID uuid.UUID
	Promises     []PromiseInput
	Message      string
}

// Apply creates an application against an active task. Estimated earnings
// are priced server-side with the service fee excluded.
func (s *ApplicationService) Apply(ctx context.Context, req ApplyRequest) (*application.Application, error) {
	t, err := s.taskRepo.GetByID(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}
	if t.Status != task.StatusActive {
		return nil, domainErrors.NewDomainError(
			"task_not_active",
			"applications are only accepted on active tasks",
			domainErrors.ErrInvalidStateTransition,
		)
	}
	if t.OwnerID == req.InfluencerID {
		return nil, domainErrors.NewValidationError("task_id", "cannot apply to your own task")
	}

	// The unique constraint is the real guard; this pre-check turns the
	// common case into a clean conflict instead of a constraint violation.
	if _, err := s.applicationRepo.GetByTaskAndInfluencer(ctx, req.TaskID, req.InfluencerID); err == nil {
		return nil, domainErrors.ErrDuplicateApplication
	} else if !errors.Is(err, domainErrors.ErrApplicationNotFound) {
		return nil, err
	}

	promises := make([]application.Promise, 0, len(req.Promises))
	for _, in := range req.Promises {
		p, err := pricing.ParsePlatform(in.Platform)
		if err != nil {
			return nil, err
		}
		d, err := pricing.ParseDeadlineOption(in.DeadlineOption)
		if err != nil {
			return nil, err
		}
		promises = append(promises, application.Promise{
			Platform:       p,
			PromisedViews:  in.PromisedViews,
			DeadlineOption: d,
		})
	}

	a, err := application.New(req.TaskID, req.InfluencerID, promises, req.Message, s.rateCard)
	if err != nil {
		return nil, err
	}
	if err := s.applicationRepo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// GetApplication retrieves an application by ID.
func (s *ApplicationService) GetApplication(ctx context.Context, id uuid.UUID) (*application.Application, error) {
	return s.applicationRepo.GetByID(ctx, id)
}

// ListApplications lists applications matching the filter.
func (s *ApplicationService) ListApplications(ctx context.Context, f application.ListFilter) ([]*application.Application, error) {
	return s.applicationRepo.List(ctx, f)
}

// Accept marks an application accepted. Only the task owner can accept.
func (s *ApplicationService) Accept(ctx context.Context, actorID, applicationID uuid.UUID) (*application.Application, error) {
	return s.ownerTransition(ctx, actorID, applicationID, (*application.Application).Accept)
}

// Reject rejects a pending application or a submitted proof set.
func (s *ApplicationService) Reject(ctx context.Context, actorID, applicationID uuid.UUID) (*application.Application, error) {
	return s.ownerTransition(ctx, actorID, applicationID, (*application.Application).Reject)
}

// Withdraw withdraws the influencer's own application.
func (s *ApplicationService) Withdraw(ctx context.Context, actorID, applicationID uuid.UUID) (*application.Application, error) {
	a, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if a.InfluencerID != actorID {
		return nil, domainErrors.ErrForbidden
	}
	if err := a.Withdraw(); err != nil {
		return nil, err
	}
	if err := s.applicationRepo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ProofInput is one piece of submitted evidence.
type ProofInput struct {
	Platform string
	Kind     string
	Value    string
}

// SubmitProof records proof of work and moves the application to submitted.
func (s *ApplicationService) SubmitProof(ctx context.Context, actorID, applicationID uuid.UUID, proofs []ProofInput) (*application.Application, error) {
	if len(proofs) == 0 {
		return nil, domainErrors.NewValidationError("proofs", "cannot be empty")
	}

	var a *application.Application
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		a, err = s.applicationRepo.GetByID(txCtx, applicationID)
		if err != nil {
			return err
		}
		if a.InfluencerID != actorID {
			return domainErrors.ErrForbidden
		}
		if err := a.Submit(); err != nil {
			return err
		}
		for _, in := range proofs {
			p, err := pricing.ParsePlatform(in.Platform)
			if err != nil {
				return err
			}
			proof, err := application.NewProof(a.ID, p, application.ProofKind(in.Kind), in.Value)
			if err != nil {
				return err
			}
			if err := s.applicationRepo.AddProof(txCtx, proof); err != nil {
				return err
			}
		}
		return s.applicationRepo.Update(txCtx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetProofs retrieves proofs for an application.
func (s *ApplicationService) GetProofs(ctx context.Context, applicationID uuid.UUID) ([]*application.Proof, error) {
	return s.applicationRepo.GetProofs(ctx, applicationID)
}

// Approve verifies a submitted proof set and queues the payout event. The
// status update and the outbox insert commit together; the payout worker
// picks the event up from the stream.
func (s *ApplicationService) Approve(ctx context.Context, actorID, applicationID uuid.UUID) (*application.Application, error) {
	var a *application.Application
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		a, err = s.applicationRepo.GetByID(txCtx, applicationID)
		if err != nil {
			return err
		}
		t, err := s.taskRepo.GetByID(txCtx, a.TaskID)
		if err != nil {
			return err
		}
		if t.OwnerID != actorID {
			return domainErrors.ErrForbidden
		}
		if err := a.Approve(); err != nil {
			return err
		}
		if err := s.applicationRepo.Update(txCtx, a); err != nil {
			return err
		}
		return s.outboxRepo.Insert(txCtx, outbox.NewEntry("application", a.ID, outbox.EventPayoutApproved, map[string]any{
			"application_id": a.ID.String(),
			"task_id":        a.TaskID.String(),
			"influencer_id":  a.InfluencerID.String(),
			"earnings":       a.TotalEarnings().String(),
		}))
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *ApplicationService) ownerTransition(ctx context.Context, actorID, applicationID uuid.UUID, fn func(*application.Application) error) (*application.Application, error) {
	a, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	t, err := s.taskRepo.GetByID(ctx, a.TaskID)
	if err != nil {
		return nil, err
	}
	if t.OwnerID != actorID {
		return nil, domainErrors.ErrForbidden
	}
	if err := fn(a); err != nil {
		return nil, err
	}
	if err := s.applicationRepo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}
