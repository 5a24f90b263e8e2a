package service

import (
	"context"
	"testing"

	domainErrors "github.com/brandsync/brandsync/internal/domain/errors"
	"github.com/brandsync/brandsync/internal/domain/profile"
	"github.com/brandsync/brandsync/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProfileService() (*ProfileService, *testutil.MockProfileRepository) {
	profileRepo := testutil.NewMockProfileRepository()
	svc := NewProfileService(profileRepo, testutil.NewMockTransactionManager())
	return svc, profileRepo
}

func TestCreateProfile_Success(t *testing.T) {
	svc, _ := setupProfileService()

	p, err := svc.CreateProfile(context.Background(), "influencer", profile.Contact{
		FirstName: "Amara",
		LastName:  "Silva",
		Email:     "amara@example.com",
		Phone:     "+94770000000",
	})
	require.NoError(t, err)
	assert.Equal(t, profile.RoleInfluencer, p.Role)
	assert.Equal(t, profile.OnboardingCollectInfo, p.Onboarding)
	assert.Equal(t, int64(0), p.Balance)
}

func TestCreateProfile_InvalidRole(t *testing.T) {
	svc, _ := setupProfileService()

	_, err := svc.CreateProfile(context.Background(), "moderator", profile.Contact{})
	var vErr *domainErrors.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestAdvanceOnboarding_FullWizard(t *testing.T) {
	svc, _ := setupProfileService()
	ctx := context.Background()

	p, err := svc.CreateProfile(ctx, "brand", profile.Contact{
		FirstName: "Amara", LastName: "Silva",
		Email: "amara@example.com", Phone: "+94770000000",
	})
	require.NoError(t, err)

	p, err = svc.AdvanceOnboarding(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.OnboardingConnectPlatforms, p.Onboarding)

	p, err = svc.AdvanceOnboarding(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.OnboardingComplete, p.Onboarding)

	_, err = svc.AdvanceOnboarding(ctx, p.ID)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidStateTransition)
}

func TestAdvanceOnboarding_RequiresContact(t *testing.T) {
	svc, _ := setupProfileService()
	ctx := context.Background()

	p, err := svc.CreateProfile(ctx, "brand", profile.Contact{FirstName: "Amara"})
	require.NoError(t, err)

	_, err = svc.AdvanceOnboarding(ctx, p.ID)
	assert.ErrorIs(t, err, domainErrors.ErrMissingContactInfo)
}

func TestRequestWithdrawal_DebitsBalance(t *testing.T) {
	svc, profileRepo := setupProfileService()
	ctx := context.Background()

	p := testutil.NewTestProfile(profile.RoleInfluencer, 200000)
	profileRepo.AddProfile(p)

	w, err := svc.RequestWithdrawal(ctx, p.ID, 150000, "BOC 1234567, Colombo branch")
	require.NoError(t, err)
	assert.Equal(t, profile.WithdrawalPending, w.Status)

	stored, _ := profileRepo.GetByID(ctx, p.ID)
	assert.Equal(t, int64(50000), stored.Balance)
}

func TestRequestWithdrawal_InsufficientFunds(t *testing.T) {
	svc, profileRepo := setupProfileService()

	p := testutil.NewTestProfile(profile.RoleInfluencer, 1000)
	profileRepo.AddProfile(p)

	_, err := svc.RequestWithdrawal(context.Background(), p.ID, 5000, "BOC 1234567")
	assert.ErrorIs(t, err, domainErrors.ErrInsufficientFunds)

	stored, _ := profileRepo.GetByID(context.Background(), p.ID)
	assert.Equal(t, int64(1000), stored.Balance)
}

func TestResolveWithdrawal_RejectionRefunds(t *testing.T) {
	svc, profileRepo := setupProfileService()
	ctx := context.Background()

	p := testutil.NewTestProfile(profile.RoleInfluencer, 200000)
	profileRepo.AddProfile(p)

	w, err := svc.RequestWithdrawal(ctx, p.ID, 150000, "BOC 1234567")
	require.NoError(t, err)

	resolved, err := svc.ResolveWithdrawal(ctx, w.ID, false, "account number invalid")
	require.NoError(t, err)
	assert.Equal(t, profile.WithdrawalRejected, resolved.Status)

	stored, _ := profileRepo.GetByID(ctx, p.ID)
	assert.Equal(t, int64(200000), stored.Balance) // refunded
}

func TestResolveWithdrawal_PaidKeepsDebit(t *testing.T) {
	svc, profileRepo := setupProfileService()
	ctx := context.Background()

	p := testutil.NewTestProfile(profile.RoleInfluencer, 200000)
	profileRepo.AddProfile(p)

	w, err := svc.RequestWithdrawal(ctx, p.ID, 150000, "BOC 1234567")
	require.NoError(t, err)

	resolved, err := svc.ResolveWithdrawal(ctx, w.ID, true, "")
	require.NoError(t, err)
	assert.Equal(t, profile.WithdrawalPaid, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)

	stored, _ := profileRepo.GetByID(ctx, p.ID)
	assert.Equal(t, int64(50000), stored.Balance)
}

func TestResolveWithdrawal_AlreadyResolved(t *testing.T) {
	svc, profileRepo := setupProfileService()
	ctx := context.Background()

	p := testutil.NewTestProfile(profile.RoleInfluencer, 200000)
	profileRepo.AddProfile(p)

	w, err := svc.RequestWithdrawal(ctx, p.ID, 100000, "BOC 1234567")
	require.NoError(t, err)

	_, err = svc.ResolveWithdrawal(ctx, w.ID, true, "")
	require.NoError(t, err)
	_, err = svc.ResolveWithdrawal(ctx, w.ID, false, "")
	assert.ErrorIs(t, err, domainErrors.ErrInvalidStateTransition)
}

func TestVerifyProfileAccess(t *testing.T) {
	svc, profileRepo := setupProfileService()
	ctx := context.Background()

	admin := testutil.NewTestProfile(profile.RoleAdmin, 0)
	user := testutil.NewTestProfile(profile.RoleInfluencer, 0)
	other := testutil.NewTestProfile(profile.RoleBrand, 0)
	profileRepo.AddProfile(admin)
	profileRepo.AddProfile(user)
	profileRepo.AddProfile(other)

	assert.NoError(t, svc.VerifyProfileAccess(ctx, user.ID, user.ID))
	assert.NoError(t, svc.VerifyProfileAccess(ctx, admin.ID, user.ID))
	assert.ErrorIs(t, svc.VerifyProfileAccess(ctx, other.ID, user.ID), domainErrors.ErrForbidden)
}
