package services

import (
	"context"

	"meridian/internal/domain/models"
)

// SequenceService handles Sequence CRUD (§3, §4.8).
type SequenceService interface {
	Create(ctx context.Context, ownerID string, req *CreateSequenceRequest) (*models.Sequence, error)
	Get(ctx context.Context, ownerID, id string) (*models.Sequence, error)
	List(ctx context.Context, ownerID string) ([]models.Sequence, error)
	Update(ctx context.Context, ownerID, id string, req *UpdateSequenceRequest) (*models.Sequence, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// CreateSequenceRequest is the body of POST /sequences.
type CreateSequenceRequest struct {
	Name        string
	Description string
}

// UpdateSequenceRequest is the body of PUT /sequences/{id}.
type UpdateSequenceRequest struct {
	Name        string
	Description string
}
