package service

import (
	"context"
	"time"

	domainErrors "github.com/brandsync/brandsync/internal/domain/errors"
	"github.com/brandsync/brandsync/internal/domain/pricing"
	"github.com/brandsync/brandsync/internal/domain/task"
	"github.com/brandsync/brandsync/internal/infrastructure/observability"
	"github.com/google/uuid"
)

// TaskService handles campaign task business logic.
type TaskService struct {
	taskRepo task.Repository
	rateCard *pricing.RateCard
	metrics  *observability.Metrics
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo task.Repository, rateCard *pricing.RateCard, metrics *observability.Metrics) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		rateCard: rateCard,
		metrics:  metrics,
	}
}

// TargetInput is one requested platform target.
type TargetInput struct {
	Platform       string
	TargetViews    int64
	DeadlineOption string
}

// CreateTaskRequest holds the input for creating a task.
type CreateTaskRequest struct {
	OwnerID     uuid.UUID
	Title       string
	Description string
	Targets     []TargetInput
}

// CreateTask builds, prices and persists a draft task. The cost stored here
// is authoritative; the checkout amount is taken from it, never from the
// client.
func (s *TaskService) CreateTask(ctx context.Context, req CreateTaskRequest) (*task.Task, error) {
	targets := make([]task.PlatformTarget, 0, len(req.Targets))
	for _, in := range req.Targets {
		p, err := pricing.ParsePlatform(in.Platform)
		if err != nil {
			return nil, err
		}
		d, err := pricing.ParseDeadlineOption(in.DeadlineOption)
		if err != nil {
			return nil, err
		}
		targets = append(targets, task.PlatformTarget{
			Platform:       p,
			TargetViews:    in.TargetViews,
			DeadlineOption: d,
		})
	}

	t, err := task.New(req.OwnerID, req.Title, req.Description, targets, s.rateCard, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.Create(ctx, t); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.TasksTotal.WithLabelValues(string(t.Status)).Inc()
		cost, _ := t.Cost.Total.Float64()
		s.metrics.TaskCostAmount.WithLabelValues(string(t.Status)).Observe(cost)
	}
	return t, nil
}

// GetTask retrieves a task by ID.
func (s *TaskService) GetTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	return s.taskRepo.GetByID(ctx, id)
}

// ListTasks lists tasks matching the filter.
func (s *TaskService) ListTasks(ctx context.Context, f task.ListFilter) ([]*task.Task, error) {
	return s.taskRepo.List(ctx, f)
}

// PublishTask moves an owned draft into the payment queue.
func (s *TaskService) PublishTask(ctx context.Context, actorID, taskID uuid.UUID) (*task.Task, error) {
	t, err := s.ownedTask(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}
	if err := t.Publish(); err != nil {
		return nil, err
	}
	if err := s.taskRepo.Update(ctx, t); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.TasksTotal.WithLabelValues(string(t.Status)).Inc()
	}
	return t, nil
}

// CancelTask cancels an owned task that has not reached a terminal state.
func (s *TaskService) CancelTask(ctx context.Context, actorID, taskID uuid.UUID) (*task.Task, error) {
	t, err := s.ownedTask(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}
	if err := t.Cancel(); err != nil {
		return nil, err
	}
	if err := s.taskRepo.Update(ctx, t); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.TasksTotal.WithLabelValues(string(t.Status)).Inc()
	}
	return t, nil
}

// EstimateRequest prices a prospective set of targets without persisting
// anything. IncludeFee selects the buyer view (true) or the influencer
// earnings view (false).
type EstimateRequest struct {
	Targets    []TargetInput
	IncludeFee bool
}

// Estimate computes the cost breakdown for prospective targets.
func (s *TaskService) Estimate(ctx context.Context, req EstimateRequest) (pricing.Breakdown, error) {
	targets := make([]pricing.Target, 0, len(req.Targets))
	for _, in := range req.Targets {
		p, err := pricing.ParsePlatform(in.Platform)
		if err != nil {
			return pricing.Breakdown{}, err
		}
		d, err := pricing.ParseDeadlineOption(in.DeadlineOption)
		if err != nil {
			return pricing.Breakdown{}, err
		}
		if in.TargetViews < 0 {
			return pricing.Breakdown{}, domainErrors.NewValidationError("target_views", "cannot be negative")
		}
		targets = append(targets, pricing.Target{Platform: p, Views: in.TargetViews, Deadline: d})
	}
	return s.rateCard.CalculateTotal(targets, req.IncludeFee)
}

func (s *TaskService) ownedTask(ctx context.Context, actorID, taskID uuid.UUID) (*task.Task, error) {
	t, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t.OwnerID != actorID {
		return nil, domainErrors.ErrTaskNotOwner
	}
	return t, nil
}
