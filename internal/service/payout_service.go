package service

import (
	"context"

	"github.com/brandsync/brandsync/internal/domain/application"
	domainErrors "github.com/brandsync/brandsync/internal/domain/errors"
	"github.com/brandsync/brandsync/internal/domain/pricing"
	"github.com/brandsync/brandsync/internal/domain/profile"
	"github.com/brandsync/brandsync/internal/infrastructure/observability"
	"github.com/brandsync/brandsync/pkg/saga"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PayoutService releases earnings to an influencer once their submission is
// approved. Called by the payout worker for each payout.approved event; the
// PayoutDone flag on the application makes redelivery a no-op.
type PayoutService struct {
	applicationRepo application.Repository
	profileRepo     profile.Repository
	txManager       TransactionManager
	metrics         *observability.Metrics
	logger          zerolog.Logger
}

// NewPayoutService creates a new PayoutService.
func NewPayoutService(
	applicationRepo application.Repository,
	profileRepo profile.Repository,
	txManager TransactionManager,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *PayoutService {
	return &PayoutService{
		applicationRepo: applicationRepo,
		profileRepo:     profileRepo,
		txManager:       txManager,
		metrics:         metrics,
		logger:          logger,
	}
}

// ProcessPayout credits the influencer's balance with the application's
// estimated earnings and flags the payout done, atomically. The profile row
// is locked for the duration so concurrent credits cannot lose an update.
func (s *PayoutService) ProcessPayout(ctx context.Context, applicationID uuid.UUID) error {
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		a, err := s.applicationRepo.GetByID(txCtx, applicationID)
		if err != nil {
			return err
		}
		if a.PayoutDone {
			return domainErrors.ErrPayoutAlreadyDone
		}

		p, err := s.profileRepo.Lock(txCtx, a.InfluencerID)
		if err != nil {
			return err
		}

		amountCents := pricing.ToCents(a.TotalEarnings())

		payoutSaga := saga.New("release-payout").
			AddStep(saga.Step{
				Name: "mark-payout-done",
				Execute: func(ctx context.Context) error {
					if err := a.MarkPayoutDone(); err != nil {
						return err
					}
					return s.applicationRepo.Update(ctx, a)
				},
				Compensate: func(ctx context.Context) error {
					a.PayoutDone = false
					return s.applicationRepo.Update(ctx, a)
				},
			}).
			AddStep(saga.Step{
				Name: "credit-balance",
				Execute: func(ctx context.Context) error {
					if err := p.Credit(amountCents); err != nil {
						return err
					}
					return s.profileRepo.Update(ctx, p)
				},
			})

		if err := payoutSaga.Execute(txCtx); err != nil {
			return err
		}

		if s.metrics != nil {
			amount, _ := a.TotalEarnings().Float64()
			s.metrics.PayoutAmount.Observe(amount)
		}
		s.logger.Info().
			Str("application_id", a.ID.String()).
			Str("influencer_id", a.InfluencerID.String()).
			Int64("amount_cents", amountCents).
			Msg("payout released")
		return nil
	})

	if err == domainErrors.ErrPayoutAlreadyDone {
		if s.metrics != nil {
			s.metrics.PayoutsTotal.WithLabelValues("duplicate").Inc()
		}
		s.logger.Info().Str("application_id", applicationID.String()).Msg("payout already released, skipping")
		return nil
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.PayoutsTotal.WithLabelValues("failed").Inc()
		}
		return err
	}

	if s.metrics != nil {
		s.metrics.PayoutsTotal.WithLabelValues("released").Inc()
	}
	return nil
}
