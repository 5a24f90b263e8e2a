package application

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows application listings.
type ListFilter struct {
	TaskID       *uuid.UUID
	InfluencerID *uuid.UUID
	Status       *Status
	Limit        int
	Offset       int
}

// Repository is the persistence port for applications and proofs.
type Repository interface {
	Create(ctx context.Context, a *Application) error
	GetByID(ctx context.Context, id uuid.UUID) (*Application, error)
	GetByTaskAndInfluencer(ctx context.Context, taskID, influencerID uuid.UUID) (*Application, error)
	Update(ctx context.Context, a *Application) error
	List(ctx context.Context, f ListFilter) ([]*Application, error)

	AddProof(ctx context.Context, p *Proof) error
	GetProofs(ctx context.Context, applicationID uuid.UUID) ([]*Proof, error)
}
