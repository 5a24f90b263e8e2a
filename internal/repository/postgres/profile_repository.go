package postgres

import (
	"context"
	"fmt"

	domainErrors "github.com/brandsync/brandsync/internal/domain/errors"
	"github.com/brandsync/brandsync/internal/domain/profile"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepository implements profile.Repository using PostgreSQL.
// Balances are stored as BIGINT cents; concurrent credits are guarded by
// the version column.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

const profileColumns = `id, role, first_name, last_name, email, phone, address, city, country,
	        balance, version, onboarding, suspended, created_at, updated_at`

// scanProfile scans a profile from any source implementing the scanner interface.
func (r *ProfileRepository) scanProfile(s scanner) (*profile.Profile, error) {
	p := &profile.Profile{}
	var (
		role       string
		onboarding string
	)
	err := s.Scan(
		&p.ID, &role, &p.Contact.FirstName, &p.Contact.LastName, &p.Contact.Email,
		&p.Contact.Phone, &p.Contact.Address, &p.Contact.City, &p.Contact.Country,
		&p.Balance, &p.Version, &onboarding, &p.Suspended, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domainErrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	p.Role = profile.Role(role)
	p.Onboarding = profile.OnboardingState(onboarding)
	return p, nil
}

// Create inserts a new profile.
func (r *ProfileRepository) Create(ctx context.Context, p *profile.Profile) error {
	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO profiles
		 (id, role, first_name, last_name, email, phone, address, city, country,
		  balance, version, onboarding, suspended, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		p.ID, string(p.Role), p.Contact.FirstName, p.Contact.LastName, p.Contact.Email,
		p.Contact.Phone, p.Contact.Address, p.Contact.City, p.Contact.Country,
		p.Balance, p.Version, string(p.Onboarding), p.Suspended, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// GetByID retrieves a profile by its ID.
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	return r.scanProfile(r.db(ctx).QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
}

// Update updates a profile with optimistic locking.
func (r *ProfileRepository) Update(ctx context.Context, p *profile.Profile) error {
	tag, err := r.db(ctx).Exec(ctx,
		`UPDATE profiles SET
		  first_name=$1, last_name=$2, email=$3, phone=$4, address=$5, city=$6, country=$7,
		  balance=$8, version=$9, onboarding=$10, suspended=$11, updated_at=$12
		 WHERE id=$13 AND version=$14`,
		p.Contact.FirstName, p.Contact.LastName, p.Contact.Email, p.Contact.Phone,
		p.Contact.Address, p.Contact.City, p.Contact.Country,
		p.Balance, p.Version, string(p.Onboarding), p.Suspended, p.UpdatedAt,
		p.ID, p.Version-1,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrOptimisticLockFailed
	}
	return nil
}

// Lock acquires a row-level lock on the profile (SELECT FOR UPDATE).
func (r *ProfileRepository) Lock(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	return r.scanProfile(r.db(ctx).QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1 FOR UPDATE`, id))
}

// CreateWithdrawal inserts a withdrawal request.
func (r *ProfileRepository) CreateWithdrawal(ctx context.Context, w *profile.Withdrawal) error {
	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO withdrawals (id, profile_id, amount_cents, bank_details, status, note, resolved_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		w.ID, w.ProfileID, w.AmountCents, w.BankDetails, string(w.Status), w.Note, w.ResolvedAt, w.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert withdrawal: %w", err)
	}
	return nil
}

// GetWithdrawal retrieves a withdrawal by its ID.
func (r *ProfileRepository) GetWithdrawal(ctx context.Context, id uuid.UUID) (*profile.Withdrawal, error) {
	return r.scanWithdrawal(r.db(ctx).QueryRow(ctx,
		`SELECT id, profile_id, amount_cents, bank_details, status, note, resolved_at, created_at
		 FROM withdrawals WHERE id = $1`, id))
}

// UpdateWithdrawal persists a withdrawal resolution.
func (r *ProfileRepository) UpdateWithdrawal(ctx context.Context, w *profile.Withdrawal) error {
	tag, err := r.db(ctx).Exec(ctx,
		`UPDATE withdrawals SET status=$1, note=$2, resolved_at=$3 WHERE id=$4`,
		string(w.Status), w.Note, w.ResolvedAt, w.ID,
	)
	if err != nil {
		return fmt.Errorf("update withdrawal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrWithdrawalNotFound
	}
	return nil
}

// ListWithdrawals lists withdrawals, optionally for a single profile.
func (r *ProfileRepository) ListWithdrawals(ctx context.Context, profileID *uuid.UUID, limit, offset int) ([]*profile.Withdrawal, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, profile_id, amount_cents, bank_details, status, note, resolved_at, created_at
		 FROM withdrawals`
	args := []any{}
	if profileID != nil {
		query += ` WHERE profile_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, *profileID, limit, offset)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list withdrawals: %w", err)
	}
	defer rows.Close()

	var withdrawals []*profile.Withdrawal
	for rows.Next() {
		w, err := r.scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, w)
	}
	return withdrawals, rows.Err()
}

func (r *ProfileRepository) scanWithdrawal(s scanner) (*profile.Withdrawal, error) {
	w := &profile.Withdrawal{}
	var status string
	err := s.Scan(&w.ID, &w.ProfileID, &w.AmountCents, &w.BankDetails, &status, &w.Note, &w.ResolvedAt, &w.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domainErrors.ErrWithdrawalNotFound
		}
		return nil, fmt.Errorf("scan withdrawal: %w", err)
	}
	w.Status = profile.WithdrawalStatus(status)
	return w, nil
}
