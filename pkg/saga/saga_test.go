package saga_test

import (
	"context"
	"errors"
	"testing"

	"github.com/brandsync/brandsync/pkg/saga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaga_AllStepsSucceed(t *testing.T) {
	var executed []string

	s := saga.New("release-payout").
		AddStep(saga.Step{
			Name:    "credit-balance",
			Execute: func(ctx context.Context) error { executed = append(executed, "credit"); return nil },
		}).
		AddStep(saga.Step{
			Name:    "mark-paid",
			Execute: func(ctx context.Context) error { executed = append(executed, "mark"); return nil },
		})

	require.NoError(t, s.Execute(context.Background()))
	assert.Equal(t, []string{"credit", "mark"}, executed)
}

func TestSaga_LaterStepFails_CompensatesInReverse(t *testing.T) {
	var compensated []string

	s := saga.New("release-payout").
		AddStep(saga.Step{
			Name:       "credit-balance",
			Execute:    func(ctx context.Context) error { return nil },
			Compensate: func(ctx context.Context) error { compensated = append(compensated, "debit"); return nil },
		}).
		AddStep(saga.Step{
			Name:       "mark-paid",
			Execute:    func(ctx context.Context) error { return nil },
			Compensate: func(ctx context.Context) error { compensated = append(compensated, "unmark"); return nil },
		}).
		AddStep(saga.Step{
			Name:    "notify",
			Execute: func(ctx context.Context) error { return errors.New("notify failed") },
		})

	err := s.Execute(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "notify failed")
	assert.Equal(t, []string{"unmark", "debit"}, compensated)
}

func TestSaga_FailedStepNotCompensated(t *testing.T) {
	var compensated []string

	s := saga.New("release-payout").
		AddStep(saga.Step{
			Name:       "credit-balance",
			Execute:    func(ctx context.Context) error { return nil },
			Compensate: func(ctx context.Context) error { compensated = append(compensated, "debit"); return nil },
		}).
		AddStep(saga.Step{
			Name:    "mark-paid",
			Execute: func(ctx context.Context) error { return errors.New("mark failed") },
			Compensate: func(ctx context.Context) error {
				compensated = append(compensated, "unmark")
				return nil
			},
		})

	assert.Error(t, s.Execute(context.Background()))
	// Only the completed step is compensated.
	assert.Equal(t, []string{"debit"}, compensated)
}

func TestSaga_CompensationErrorsCollected(t *testing.T) {
	s := saga.New("release-payout").
		AddStep(saga.Step{
			Name:       "credit-balance",
			Execute:    func(ctx context.Context) error { return nil },
			Compensate: func(ctx context.Context) error { return errors.New("debit failed") },
		}).
		AddStep(saga.Step{
			Name:    "mark-paid",
			Execute: func(ctx context.Context) error { return errors.New("mark failed") },
		})

	err := s.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mark failed")
	assert.Contains(t, err.Error(), "debit failed")
}
