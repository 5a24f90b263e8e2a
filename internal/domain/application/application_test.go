package application

import (
	"testing"

	domainErrors "github.com/brandsync/brandsync/internal/domain/errors"
	"github.com/brandsync/brandsync/internal/domain/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApplication(t *testing.T) *Application {
	t.Helper()
	a, err := New(uuid.New(), uuid.New(), []Promise{
		{Platform: pricing.PlatformYouTube, PromisedViews: 10_000, DeadlineOption: pricing.Deadline1Week},
		{Platform: pricing.PlatformTikTok, PromisedViews: 5_000, DeadlineOption: pricing.DeadlineFlexible},
	}, "I can deliver this", pricing.DefaultRateCard())
	require.NoError(t, err)
	return a
}

func TestNew_PricesPromisesWithoutFee(t *testing.T) {
	a := newTestApplication(t)

	// youtube: 10 * 270 = 2700, tiktok: 5 * 80 = 400, no service fee
	assert.True(t, a.Promises[0].EstimatedEarnings.Equal(decimal.RequireFromString("2700")))
	assert.True(t, a.Promises[1].EstimatedEarnings.Equal(decimal.RequireFromString("400")))
	assert.True(t, a.TotalEarnings().Equal(decimal.RequireFromString("3100")))
	assert.Equal(t, StatusPending, a.Status)
}

func TestNew_Invalid(t *testing.T) {
	rc := pricing.DefaultRateCard()

	_, err := New(uuid.New(), uuid.New(), nil, "", rc)
	var ve *domainErrors.ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = New(uuid.New(), uuid.New(), []Promise{
		{Platform: "myspace", PromisedViews: 100, DeadlineOption: pricing.Deadline1Week},
	}, "", rc)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidPlatform)

	_, err = New(uuid.New(), uuid.New(), []Promise{
		{Platform: pricing.PlatformYouTube, PromisedViews: 0, DeadlineOption: pricing.Deadline1Week},
	}, "", rc)
	assert.ErrorAs(t, err, &ve)
}

func TestLifecycle(t *testing.T) {
	a := newTestApplication(t)

	require.NoError(t, a.Accept())
	require.NoError(t, a.Submit())
	require.NoError(t, a.Approve())
	assert.Equal(t, StatusApproved, a.Status)

	// approved is terminal
	assert.ErrorIs(t, a.Reject(), domainErrors.ErrInvalidStateTransition)
}

func TestWithdraw(t *testing.T) {
	a := newTestApplication(t)
	require.NoError(t, a.Withdraw())

	b := newTestApplication(t)
	require.NoError(t, b.Accept())
	require.NoError(t, b.Withdraw())

	// submitted applications cannot be withdrawn, only reviewed
	c := newTestApplication(t)
	require.NoError(t, c.Accept())
	require.NoError(t, c.Submit())
	assert.ErrorIs(t, c.Withdraw(), domainErrors.ErrInvalidStateTransition)
}

func TestMarkPayoutDone(t *testing.T) {
	a := newTestApplication(t)

	// payout requires approval first
	assert.ErrorIs(t, a.MarkPayoutDone(), domainErrors.ErrInvalidStateTransition)

	require.NoError(t, a.Accept())
	require.NoError(t, a.Submit())
	require.NoError(t, a.Approve())

	require.NoError(t, a.MarkPayoutDone())
	assert.True(t, a.PayoutDone)

	// redelivered payout events are rejected
	assert.ErrorIs(t, a.MarkPayoutDone(), domainErrors.ErrPayoutAlreadyDone)
}

func TestNewProof(t *testing.T) {
	p, err := NewProof(uuid.New(), pricing.PlatformYouTube, ProofURL, "https://youtu.be/abc123")
	require.NoError(t, err)
	assert.Equal(t, ProofURL, p.Kind)

	_, err = NewProof(uuid.New(), pricing.PlatformYouTube, ProofKind("video"), "x")
	var ve *domainErrors.ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = NewProof(uuid.New(), pricing.PlatformYouTube, ProofImage, "")
	assert.ErrorAs(t, err, &ve)
}
