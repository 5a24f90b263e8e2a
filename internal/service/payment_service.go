package service

import (
	"context"
	"time"

	domainErrors "github.com/brandsync/brandsync/internal/domain/errors"
	"github.com/brandsync/brandsync/internal/domain/outbox"
	"github.com/brandsync/brandsync/internal/domain/profile"
	"github.com/brandsync/brandsync/internal/domain/task"
	"github.com/brandsync/brandsync/internal/gateway"
	"github.com/brandsync/brandsync/internal/infrastructure/observability"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PaymentService handles checkout initialization, gateway notifications and
// the manual bank transfer flow. All settlement paths converge on markPaid:
// one place flips the cost record, activates the task and queues the
// task.paid event.
type PaymentService struct {
	taskRepo    task.Repository
	profileRepo profile.Repository
	outboxRepo  outbox.Repository
	txManager   TransactionManager
	gatewayCfg  *gateway.Config
	client      *gateway.Client
	metrics     *observability.Metrics
	logger      zerolog.Logger
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	taskRepo task.Repository,
	profileRepo profile.Repository,
	outboxRepo outbox.Repository,
	txManager TransactionManager,
	gatewayCfg *gateway.Config,
	client *gateway.Client,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *PaymentService {
	return &PaymentService{
		taskRepo:    taskRepo,
		profileRepo: profileRepo,
		outboxRepo:  outboxRepo,
		txManager:   txManager,
		gatewayCfg:  gatewayCfg,
		client:      client,
		metrics:     metrics,
		logger:      logger,
	}
}

// InitializePayment builds a signed checkout request for a task awaiting
// payment. Checks run cheapest-first: task existence, ownership, payability,
// payer contact, then gateway credentials. The amount always comes from the
// stored cost record.
func (s *PaymentService) InitializePayment(ctx context.Context, actorID, taskID uuid.UUID) (*gateway.CheckoutRequest, error) {
	t, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t.OwnerID != actorID {
		return nil, domainErrors.ErrTaskNotOwner
	}
	if err := t.Payable(); err != nil {
		return nil, err
	}

	owner, err := s.profileRepo.GetByID(ctx, t.OwnerID)
	if err != nil {
		return nil, err
	}

	checkout, err := gateway.BuildCheckout(s.gatewayCfg, t.ID.String(), t.Title, t.Cost.Total, gateway.Customer{
		FirstName: owner.Contact.FirstName,
		LastName:  owner.Contact.LastName,
		Email:     owner.Contact.Email,
		Phone:     owner.Contact.Phone,
		Address:   owner.Contact.Address,
		City:      owner.Contact.City,
		Country:   owner.Contact.Country,
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.PaymentErrors.WithLabelValues("checkout_build").Inc()
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.PaymentsInitialized.Inc()
	}
	s.logger.Info().
		Str("task_id", t.ID.String()).
		Str("amount", checkout.Amount).
		Msg("checkout request built")
	return checkout, nil
}

// HandleNotification processes a gateway payment callback. The signature is
// verified before anything else; replayed success callbacks for an already
// paid task are acknowledged without side effects.
func (s *PaymentService) HandleNotification(ctx context.Context, n gateway.Notification) error {
	if err := gateway.VerifyNotification(n, s.gatewayCfg); err != nil {
		if s.metrics != nil {
			s.metrics.PaymentErrors.WithLabelValues("bad_signature").Inc()
		}
		s.logger.Warn().
			Str("order_id", n.OrderID).
			Str("merchant_id", n.MerchantID).
			Msg("rejected gateway notification")
		return err
	}

	if s.metrics != nil {
		s.metrics.PaymentNotifications.WithLabelValues(n.StatusCode).Inc()
	}

	if n.StatusCode != gateway.StatusSuccess {
		// Pending, cancelled or failed. Nothing to settle; the task stays
		// in pending_payment and the buyer can retry.
		s.logger.Info().
			Str("order_id", n.OrderID).
			Str("status_code", n.StatusCode).
			Msg("non-success gateway notification")
		return nil
	}

	taskID, err := uuid.Parse(n.OrderID)
	if err != nil {
		return domainErrors.ErrTaskNotFound
	}

	return s.settle(ctx, taskID, task.MethodGateway, map[string]any{
		"payment_id": n.PaymentID,
		"amount":     n.Amount,
		"method":     n.Method,
	})
}

// ReconcilePayment asks the gateway for the order status directly, for
// payments whose notify callback never arrived.
func (s *PaymentService) ReconcilePayment(ctx context.Context, taskID uuid.UUID) error {
	status, err := s.client.RetrieveOrder(ctx, taskID.String())
	if err != nil {
		return err
	}
	if status.StatusCode != gateway.StatusSuccess {
		return nil
	}
	return s.settle(ctx, taskID, task.MethodGateway, map[string]any{
		"payment_id": status.PaymentID,
		"amount":     status.Amount,
		"method":     status.Method,
		"reconciled": true,
	})
}

// RegisterBankTransfer records a bank slip for manual review.
func (s *PaymentService) RegisterBankTransfer(ctx context.Context, actorID, taskID uuid.UUID, slipURL string) (*task.BankSlip, error) {
	t, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t.OwnerID != actorID {
		return nil, domainErrors.ErrTaskNotOwner
	}
	if err := t.Payable(); err != nil {
		return nil, err
	}

	slip, err := task.NewBankSlip(taskID, actorID, slipURL)
	if err != nil {
		return nil, err
	}
	if err := s.taskRepo.CreateSlip(ctx, slip); err != nil {
		return nil, err
	}
	return slip, nil
}

// PendingSlips lists bank slips awaiting review.
func (s *PaymentService) PendingSlips(ctx context.Context, limit int) ([]*task.BankSlip, error) {
	return s.taskRepo.ListPendingSlips(ctx, limit)
}

// ReviewBankSlip resolves a pending slip. Approval settles the task through
// the same path as a gateway success.
func (s *PaymentService) ReviewBankSlip(ctx context.Context, reviewerID, slipID uuid.UUID, approved bool, note string) (*task.BankSlip, error) {
	var slip *task.BankSlip
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		slip, err = s.taskRepo.GetSlip(txCtx, slipID)
		if err != nil {
			return err
		}
		if err := slip.Review(reviewerID, approved, note); err != nil {
			return err
		}
		if err := s.taskRepo.UpdateSlip(txCtx, slip); err != nil {
			return err
		}
		if !approved {
			return nil
		}
		return s.markPaid(txCtx, slip.TaskID, task.MethodBankTransfer, map[string]any{
			"slip_id":     slip.ID.String(),
			"reviewed_by": reviewerID.String(),
		})
	})
	if err != nil {
		return nil, err
	}
	return slip, nil
}

// settle wraps markPaid in a transaction and swallows the already-paid case
// so redelivered notifications stay idempotent.
func (s *PaymentService) settle(ctx context.Context, taskID uuid.UUID, method task.PaymentMethod, meta map[string]any) error {
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.markPaid(txCtx, taskID, method, meta)
	})
	if err == domainErrors.ErrTaskAlreadyPaid {
		s.logger.Info().Str("task_id", taskID.String()).Msg("replayed payment notification ignored")
		return nil
	}
	return err
}

func (s *PaymentService) markPaid(ctx context.Context, taskID uuid.UUID, method task.PaymentMethod, meta map[string]any) error {
	t, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if err := t.MarkPaid(method, time.Now()); err != nil {
		return err
	}
	if err := s.taskRepo.Update(ctx, t); err != nil {
		return err
	}

	payload := map[string]any{
		"task_id": t.ID.String(),
		"total":   t.Cost.Total.String(),
		"method":  string(method),
	}
	for k, v := range meta {
		payload[k] = v
	}
	if err := s.outboxRepo.Insert(ctx, outbox.NewEntry("task", t.ID, outbox.EventTaskPaid, payload)); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.TasksTotal.WithLabelValues(string(t.Status)).Inc()
	}
	s.logger.Info().
		Str("task_id", t.ID.String()).
		Str("method", string(method)).
		Msg("task payment settled")
	return nil
}
