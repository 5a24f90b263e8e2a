package profile

import (
	"time"

	"github.com/brandsync/brandsync/internal/domain/errors"
	"github.com/google/uuid"
)

// Role distinguishes the two sides of the marketplace plus admins.
type Role string

const (
	RoleBrand      Role = "brand"
	RoleInfluencer Role = "influencer"
	RoleAdmin      Role = "admin"
)

// OnboardingState is the setup wizard position, an explicit state machine
// persisted on the profile rather than ambient client-side state.
type OnboardingState string

const (
	OnboardingCollectInfo      OnboardingState = "collect_info"
	OnboardingConnectPlatforms OnboardingState = "connect_platforms"
	OnboardingComplete         OnboardingState = "complete"
)

// Contact is the payer contact block forwarded to the payment gateway on
// checkout. All four required fields must be present before a payment can
// be initialized.
type Contact struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
	City      string
	Country   string
}

// Complete reports whether the gateway-required fields are filled in.
func (c Contact) Complete() bool {
	return c.FirstName != "" && c.LastName != "" && c.Email != "" && c.Phone != ""
}

// Profile is a marketplace participant. Balance is earned funds in LKR
// cents; optimistic locking via Version protects concurrent credits.
type Profile struct {
	ID         uuid.UUID
	Role       Role
	Contact    Contact
	Balance    int64 // in cents
	Version    int   // Optimistic locking
	Onboarding OnboardingState
	Suspended  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// New creates a profile at the start of the onboarding wizard.
func New(role Role, contact Contact) (*Profile, error) {
	switch role {
	case RoleBrand, RoleInfluencer, RoleAdmin:
	default:
		return nil, errors.NewValidationError("role", "must be brand, influencer or admin")
	}

	now := time.Now()
	return &Profile{
		ID:         uuid.New(),
		Role:       role,
		Contact:    contact,
		Balance:    0,
		Version:    0,
		Onboarding: OnboardingCollectInfo,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// AdvanceOnboarding moves the wizard one step forward:
// collect_info -> connect_platforms -> complete.
func (p *Profile) AdvanceOnboarding() error {
	switch p.Onboarding {
	case OnboardingCollectInfo:
		if !p.Contact.Complete() {
			return errors.ErrMissingContactInfo
		}
		p.Onboarding = OnboardingConnectPlatforms
	case OnboardingConnectPlatforms:
		p.Onboarding = OnboardingComplete
	case OnboardingComplete:
		return errors.NewDomainError(
			"invalid_transition",
			"onboarding already complete",
			errors.ErrInvalidStateTransition,
		)
	default:
		return errors.ErrInvalidStateTransition
	}
	p.UpdatedAt = time.Now()
	return nil
}

// Credit adds earned funds to the balance.
func (p *Profile) Credit(amount int64) error {
	if p.Suspended {
		return errors.ErrProfileSuspended
	}
	if amount <= 0 {
		return errors.NewValidationError("amount", "must be greater than 0")
	}
	p.Balance += amount
	p.Version++
	p.UpdatedAt = time.Now()
	return nil
}

// Debit removes funds from the balance.
func (p *Profile) Debit(amount int64) error {
	if p.Suspended {
		return errors.ErrProfileSuspended
	}
	if amount <= 0 {
		return errors.NewValidationError("amount", "must be greater than 0")
	}
	if p.Balance < amount {
		return errors.ErrInsufficientFunds
	}
	p.Balance -= amount
	p.Version++
	p.UpdatedAt = time.Now()
	return nil
}
