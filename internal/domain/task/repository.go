package task

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows task listings.
type ListFilter struct {
	OwnerID   *uuid.UUID
	Status    *Status
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

// Repository is the persistence port for tasks and bank slips.
type Repository interface {
	Create(ctx context.Context, t *Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*Task, error)
	Update(ctx context.Context, t *Task) error
	List(ctx context.Context, f ListFilter) ([]*Task, error)

	CreateSlip(ctx context.Context, s *BankSlip) error
	GetSlip(ctx context.Context, id uuid.UUID) (*BankSlip, error)
	UpdateSlip(ctx context.Context, s *BankSlip) error
	ListPendingSlips(ctx context.Context, limit int) ([]*BankSlip, error)
}
