package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/brandsync/brandsync/internal/domain/application"
	domainErrors "github.com/brandsync/brandsync/internal/domain/errors"
	"github.com/brandsync/brandsync/internal/domain/pricing"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ApplicationRepository implements application.Repository using PostgreSQL.
// Promises are stored as JSONB; a unique index on (task_id, influencer_id)
// enforces one application per influencer per task.
type ApplicationRepository struct {
	pool *pgxpool.Pool
}

// NewApplicationRepository creates a new ApplicationRepository.
func NewApplicationRepository(pool *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{pool: pool}
}

func (r *ApplicationRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

const applicationColumns = `id, task_id, influencer_id, promises, message, status, payout_done, created_at, updated_at`

// Create inserts a new application.
func (r *ApplicationRepository) Create(ctx context.Context, a *application.Application) error {
	promises, err := json.Marshal(a.Promises)
	if err != nil {
		return fmt.Errorf("marshal promises: %w", err)
	}

	_, err = r.db(ctx).Exec(ctx,
		`INSERT INTO applications (id, task_id, influencer_id, promises, message, status, payout_done, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.TaskID, a.InfluencerID, promises, a.Message, string(a.Status), a.PayoutDone, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.ErrDuplicateApplication
		}
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

// GetByID retrieves an application by its ID.
func (r *ApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*application.Application, error) {
	return r.scanApplication(r.db(ctx).QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id))
}

// GetByTaskAndInfluencer retrieves the application an influencer made to a task.
func (r *ApplicationRepository) GetByTaskAndInfluencer(ctx context.Context, taskID, influencerID uuid.UUID) (*application.Application, error) {
	return r.scanApplication(r.db(ctx).QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE task_id = $1 AND influencer_id = $2`, taskID, influencerID))
}

// Update updates an existing application.
func (r *ApplicationRepository) Update(ctx context.Context, a *application.Application) error {
	promises, err := json.Marshal(a.Promises)
	if err != nil {
		return fmt.Errorf("marshal promises: %w", err)
	}

	tag, err := r.db(ctx).Exec(ctx,
		`UPDATE applications SET promises=$1, message=$2, status=$3, payout_done=$4, updated_at=$5 WHERE id=$6`,
		promises, a.Message, string(a.Status), a.PayoutDone, a.UpdatedAt, a.ID,
	)
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrApplicationNotFound
	}
	return nil
}

// List lists applications with optional filters.
func (r *ApplicationRepository) List(ctx context.Context, f application.ListFilter) ([]*application.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE 1=1`
	args := []any{}
	argIdx := 1

	if f.TaskID != nil {
		query += fmt.Sprintf(" AND task_id = $%d", argIdx)
		args = append(args, *f.TaskID)
		argIdx++
	}
	if f.InfluencerID != nil {
		query += fmt.Sprintf(" AND influencer_id = $%d", argIdx)
		args = append(args, *f.InfluencerID)
		argIdx++
	}
	if f.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, string(*f.Status))
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var apps []*application.Application
	for rows.Next() {
		a, err := r.scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// AddProof inserts a proof of work.
func (r *ApplicationRepository) AddProof(ctx context.Context, p *application.Proof) error {
	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO proofs (id, application_id, platform, kind, value, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.ApplicationID, string(p.Platform), string(p.Kind), p.Value, p.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("insert proof: %w", err)
	}
	return nil
}

// GetProofs retrieves proofs for an application.
func (r *ApplicationRepository) GetProofs(ctx context.Context, applicationID uuid.UUID) ([]*application.Proof, error) {
	rows, err := r.db(ctx).Query(ctx,
		`SELECT id, application_id, platform, kind, value, submitted_at
		 FROM proofs WHERE application_id = $1 ORDER BY submitted_at ASC`, applicationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list proofs: %w", err)
	}
	defer rows.Close()

	var proofs []*application.Proof
	for rows.Next() {
		p := &application.Proof{}
		var platform, kind string
		if err := rows.Scan(&p.ID, &p.ApplicationID, &platform, &kind, &p.Value, &p.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan proof: %w", err)
		}
		p.Platform = pricing.Platform(platform)
		p.Kind = application.ProofKind(kind)
		proofs = append(proofs, p)
	}
	return proofs, rows.Err()
}

// --- scanning helpers ---

func (r *ApplicationRepository) scanApplication(s scanner) (*application.Application, error) {
	a := &application.Application{}
	var (
		promises []byte
		status   string
	)
	err := s.Scan(&a.ID, &a.TaskID, &a.InfluencerID, &promises, &a.Message, &status, &a.PayoutDone, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domainErrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("scan application: %w", err)
	}

	if err := json.Unmarshal(promises, &a.Promises); err != nil {
		return nil, fmt.Errorf("unmarshal promises: %w", err)
	}
	a.Status = application.Status(status)
	return a, nil
}
