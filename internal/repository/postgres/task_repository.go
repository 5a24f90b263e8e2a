package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	domainErrors "github.com/brandsync/brandsync/internal/domain/errors"
	"github.com/brandsync/brandsync/internal/domain/task"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// allowedTaskSortColumns is a whitelist of columns valid for ORDER BY.
var allowedTaskSortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"status":     "status",
	"cost_total": "cost_total",
}

// TaskRepository implements task.Repository using PostgreSQL. Platform
// targets are stored as JSONB; the cost breakdown lives in NUMERIC columns
// so the total stays queryable.
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const taskColumns = `id, owner_id, title, description, targets,
	        cost_base, cost_fee, cost_total, is_paid, paid_at, payment_method,
	        status, created_at, updated_at, completed_at`

// Create inserts a new task.
func (r *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	targets, err := json.Marshal(t.Targets)
	if err != nil {
		return fmt.Errorf("marshal targets: %w", err)
	}

	var method *string
	if t.Cost.Method != "" {
		s := string(t.Cost.Method)
		method = &s
	}

	_, err = r.db(ctx).Exec(ctx,
		`INSERT INTO tasks
		 (id, owner_id, title, description, targets,
		  cost_base, cost_fee, cost_total, is_paid, paid_at, payment_method,
		  status, created_at, updated_at, completed_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		t.ID, t.OwnerID, t.Title, t.Description, targets,
		t.Cost.Base.StringFixed(2), t.Cost.Fee.StringFixed(2), t.Cost.Total.StringFixed(2),
		t.Cost.IsPaid, t.Cost.PaidAt, method,
		string(t.Status), t.CreatedAt, t.UpdatedAt, t.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// GetByID retrieves a task by its ID.
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	return r.scanTask(r.db(ctx).QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
}

// Update updates an existing task.
func (r *TaskRepository) Update(ctx context.Context, t *task.Task) error {
	targets, err := json.Marshal(t.Targets)
	if err != nil {
		return fmt.Errorf("marshal targets: %w", err)
	}

	var method *string
	if t.Cost.Method != "" {
		s := string(t.Cost.Method)
		method = &s
	}

	tag, err := r.db(ctx).Exec(ctx,
		`UPDATE tasks SET
		  title=$1, description=$2, targets=$3,
		  is_paid=$4, paid_at=$5, payment_method=$6,
		  status=$7, updated_at=$8, completed_at=$9
		 WHERE id=$10`,
		t.Title, t.Description, targets,
		t.Cost.IsPaid, t.Cost.PaidAt, method,
		string(t.Status), t.UpdatedAt, t.CompletedAt, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrTaskNotFound
	}
	return nil
}

// List lists tasks with optional filters.
func (r *TaskRepository) List(ctx context.Context, f task.ListFilter) ([]*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE 1=1`
	args := []any{}
	argIdx := 1

	if f.OwnerID != nil {
		query += fmt.Sprintf(" AND owner_id = $%d", argIdx)
		args = append(args, *f.OwnerID)
		argIdx++
	}
	if f.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, string(*f.Status))
		argIdx++
	}

	// Strict whitelist for sort column
	sortBy := "created_at"
	if col, ok := allowedTaskSortColumns[f.SortBy]; ok {
		sortBy = col
	}
	sortOrder := "DESC"
	if strings.EqualFold(f.SortOrder, "asc") {
		sortOrder = "ASC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", sortBy, sortOrder)

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*task.Task
	for rows.Next() {
		t, err := r.scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// CreateSlip inserts a bank transfer slip.
func (r *TaskRepository) CreateSlip(ctx context.Context, s *task.BankSlip) error {
	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO bank_slips (id, task_id, uploader_id, slip_url, status, note, reviewed_by, reviewed_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.TaskID, s.UploaderID, s.SlipURL, string(s.Status), s.Note, s.ReviewedBy, s.ReviewedAt, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert bank slip: %w", err)
	}
	return nil
}

// GetSlip retrieves a bank slip by its ID.
func (r *TaskRepository) GetSlip(ctx context.Context, id uuid.UUID) (*task.BankSlip, error) {
	return r.scanSlip(r.db(ctx).QueryRow(ctx,
		`SELECT id, task_id, uploader_id, slip_url, status, note, reviewed_by, reviewed_at, created_at
		 FROM bank_slips WHERE id = $1`, id))
}

// UpdateSlip persists a slip review decision.
func (r *TaskRepository) UpdateSlip(ctx context.Context, s *task.BankSlip) error {
	tag, err := r.db(ctx).Exec(ctx,
		`UPDATE bank_slips SET status=$1, note=$2, reviewed_by=$3, reviewed_at=$4 WHERE id=$5`,
		string(s.Status), s.Note, s.ReviewedBy, s.ReviewedAt, s.ID,
	)
	if err != nil {
		return fmt.Errorf("update bank slip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrSlipNotFound
	}
	return nil
}

// ListPendingSlips returns slips awaiting review, oldest first.
func (r *TaskRepository) ListPendingSlips(ctx context.Context, limit int) ([]*task.BankSlip, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db(ctx).Query(ctx,
		`SELECT id, task_id, uploader_id, slip_url, status, note, reviewed_by, reviewed_at, created_at
		 FROM bank_slips WHERE status = 'pending_review' ORDER BY created_at ASC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list pending slips: %w", err)
	}
	defer rows.Close()

	var slips []*task.BankSlip
	for rows.Next() {
		s, err := r.scanSlip(rows)
		if err != nil {
			return nil, err
		}
		slips = append(slips, s)
	}
	return slips, rows.Err()
}

// --- scanning helpers ---

func (r *TaskRepository) scanTask(s scanner) (*task.Task, error) {
	t := &task.Task{}
	var (
		targets  []byte
		baseStr  string
		feeStr   string
		totalStr string
		method   *string
		status   string
	)
	err := s.Scan(
		&t.ID, &t.OwnerID, &t.Title, &t.Description, &targets,
		&baseStr, &feeStr, &totalStr, &t.Cost.IsPaid, &t.Cost.PaidAt, &method,
		&status, &t.CreatedAt, &t.UpdatedAt, &t.CompletedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domainErrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}

	if err := json.Unmarshal(targets, &t.Targets); err != nil {
		return nil, fmt.Errorf("unmarshal targets: %w", err)
	}
	if t.Cost.Base, err = decimal.NewFromString(baseStr); err != nil {
		return nil, fmt.Errorf("parse cost_base: %w", err)
	}
	if t.Cost.Fee, err = decimal.NewFromString(feeStr); err != nil {
		return nil, fmt.Errorf("parse cost_fee: %w", err)
	}
	if t.Cost.Total, err = decimal.NewFromString(totalStr); err != nil {
		return nil, fmt.Errorf("parse cost_total: %w", err)
	}
	if method != nil {
		t.Cost.Method = task.PaymentMethod(*method)
	}
	t.Status = task.Status(status)
	return t, nil
}

func (r *TaskRepository) scanSlip(s scanner) (*task.BankSlip, error) {
	slip := &task.BankSlip{}
	var status string
	err := s.Scan(&slip.ID, &slip.TaskID, &slip.UploaderID, &slip.SlipURL, &status, &slip.Note, &slip.ReviewedBy, &slip.ReviewedAt, &slip.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domainErrors.ErrSlipNotFound
		}
		return nil, fmt.Errorf("scan bank slip: %w", err)
	}
	slip.Status = task.SlipStatus(status)
	return slip, nil
}
