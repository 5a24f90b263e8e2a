package profile

import (
	"testing"

	domainErrors "github.com/brandsync/brandsync/internal/domain/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullContact() Contact {
	return Contact{
		FirstName: "Amaya",
		LastName:  "Fernando",
		Email:     "amaya@example.com",
		Phone:     "+94712345678",
		Address:   "5 Temple Road",
		City:      "Kandy",
		Country:   "Sri Lanka",
	}
}

func TestNew(t *testing.T) {
	p, err := New(RoleInfluencer, fullContact())
	require.NoError(t, err)
	assert.Equal(t, OnboardingCollectInfo, p.Onboarding)
	assert.Zero(t, p.Balance)

	_, err = New(Role("viewer"), fullContact())
	var ve *domainErrors.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestAdvanceOnboarding(t *testing.T) {
	p, err := New(RoleBrand, fullContact())
	require.NoError(t, err)

	require.NoError(t, p.AdvanceOnboarding())
	assert.Equal(t, OnboardingConnectPlatforms, p.Onboarding)

	require.NoError(t, p.AdvanceOnboarding())
	assert.Equal(t, OnboardingComplete, p.Onboarding)

	assert.ErrorIs(t, p.AdvanceOnboarding(), domainErrors.ErrInvalidStateTransition)
}

func TestAdvanceOnboarding_RequiresContact(t *testing.T) {
	p, err := New(RoleBrand, Contact{FirstName: "Amaya"})
	require.NoError(t, err)

	assert.ErrorIs(t, p.AdvanceOnboarding(), domainErrors.ErrMissingContactInfo)
	assert.Equal(t, OnboardingCollectInfo, p.Onboarding)
}

func TestCreditDebit(t *testing.T) {
	p, err := New(RoleInfluencer, fullContact())
	require.NoError(t, err)

	require.NoError(t, p.Credit(310_000)) // 3100.00 LKR
	assert.Equal(t, int64(310_000), p.Balance)
	assert.Equal(t, 1, p.Version)

	require.NoError(t, p.Debit(10_000))
	assert.Equal(t, int64(300_000), p.Balance)

	assert.ErrorIs(t, p.Debit(1_000_000), domainErrors.ErrInsufficientFunds)

	var ve *domainErrors.ValidationError
	assert.ErrorAs(t, p.Credit(0), &ve)
	assert.ErrorAs(t, p.Debit(-5), &ve)
}

func TestCreditDebit_Suspended(t *testing.T) {
	p, err := New(RoleInfluencer, fullContact())
	require.NoError(t, err)
	p.Suspended = true

	assert.ErrorIs(t, p.Credit(100), domainErrors.ErrProfileSuspended)
	assert.ErrorIs(t, p.Debit(100), domainErrors.ErrProfileSuspended)
}

func TestWithdrawal(t *testing.T) {
	w, err := NewWithdrawal(uuid.New(), 50_000, "BOC 1234567, A. Fernando")
	require.NoError(t, err)
	assert.Equal(t, WithdrawalPending, w.Status)

	require.NoError(t, w.Resolve(true, ""))
	assert.Equal(t, WithdrawalPaid, w.Status)
	assert.NotNil(t, w.ResolvedAt)

	assert.ErrorIs(t, w.Resolve(false, ""), domainErrors.ErrInvalidStateTransition)
}

func TestNewWithdrawal_Invalid(t *testing.T) {
	var ve *domainErrors.ValidationError
	_, err := NewWithdrawal(uuid.New(), 0, "BOC 1234567")
	assert.ErrorAs(t, err, &ve)
	_, err = NewWithdrawal(uuid.New(), 100, "")
	assert.ErrorAs(t, err, &ve)
}
