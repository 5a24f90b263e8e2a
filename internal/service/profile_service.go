package service

import (
	"context"
	"time"

	domainErrors "github.com/brandsync/brandsync/internal/domain/errors"
	"github.com/brandsync/brandsync/internal/domain/profile"
	"github.com/google/uuid"
)

// ProfileService handles profiles, onboarding and withdrawals.
type ProfileService struct {
	profileRepo profile.Repository
	txManager   TransactionManager
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profileRepo profile.Repository, txManager TransactionManager) *ProfileService {
	return &ProfileService{profileRepo: profileRepo, txManager: txManager}
}

// CreateProfile registers a new marketplace participant.
func (s *ProfileService) CreateProfile(ctx context.Context, role string, contact profile.Contact) (*profile.Profile, error) {
	p, err := profile.New(profile.Role(role), contact)
	if err != nil {
		return nil, err
	}
	if err := s.profileRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProfile retrieves a profile by ID.
func (s *ProfileService) GetProfile(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	return s.profileRepo.GetByID(ctx, id)
}

// UpdateContact replaces the profile's contact block.
func (s *ProfileService) UpdateContact(ctx context.Context, id uuid.UUID, contact profile.Contact) (*profile.Profile, error) {
	p, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Contact = contact
	p.Version++
	p.UpdatedAt = time.Now()
	if err := s.profileRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// AdvanceOnboarding moves the onboarding wizard one step forward.
func (s *ProfileService) AdvanceOnboarding(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	p, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.AdvanceOnboarding(); err != nil {
		return nil, err
	}
	p.Version++
	if err := s.profileRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// RequestWithdrawal debits the balance and records a pending withdrawal.
// Debit and insert commit together; a rejected request refunds through
// ResolveWithdrawal.
func (s *ProfileService) RequestWithdrawal(ctx context.Context, profileID uuid.UUID, amountCents int64, bankDetails string) (*profile.Withdrawal, error) {
	var w *profile.Withdrawal
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		p, err := s.profileRepo.Lock(txCtx, profileID)
		if err != nil {
			return err
		}
		if err := p.Debit(amountCents); err != nil {
			return err
		}
		w, err = profile.NewWithdrawal(profileID, amountCents, bankDetails)
		if err != nil {
			return err
		}
		if err := s.profileRepo.Update(txCtx, p); err != nil {
			return err
		}
		return s.profileRepo.CreateWithdrawal(txCtx, w)
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

// ResolveWithdrawal settles a pending withdrawal. A rejection refunds the
// debited amount in the same transaction.
func (s *ProfileService) ResolveWithdrawal(ctx context.Context, withdrawalID uuid.UUID, paid bool, note string) (*profile.Withdrawal, error) {
	var w *profile.Withdrawal
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		w, err = s.profileRepo.GetWithdrawal(txCtx, withdrawalID)
		if err != nil {
			return err
		}
		if err := w.Resolve(paid, note); err != nil {
			return err
		}
		if err := s.profileRepo.UpdateWithdrawal(txCtx, w); err != nil {
			return err
		}
		if paid {
			return nil
		}
		p, err := s.profileRepo.Lock(txCtx, w.ProfileID)
		if err != nil {
			return err
		}
		if err := p.Credit(w.AmountCents); err != nil {
			return err
		}
		return s.profileRepo.Update(txCtx, p)
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

// ListWithdrawals lists withdrawals, optionally scoped to a profile.
func (s *ProfileService) ListWithdrawals(ctx context.Context, profileID *uuid.UUID, limit, offset int) ([]*profile.Withdrawal, error) {
	return s.profileRepo.ListWithdrawals(ctx, profileID, limit, offset)
}

// VerifyProfileAccess checks that the actor is the subject or an admin.
func (s *ProfileService) VerifyProfileAccess(ctx context.Context, actorID, subjectID uuid.UUID) error {
	if actorID == subjectID {
		return nil
	}
	actor, err := s.profileRepo.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if actor.Role != profile.RoleAdmin {
		return domainErrors.ErrForbidden
	}
	return nil
}
