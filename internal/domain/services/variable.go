package services

import (
	"context"

	"meridian/internal/domain/models"
	"meridian/internal/engine"
)

// VariableService handles Variable CRUD and the available-names lookup
// used by prompt-authoring UIs (§3, §4.3, §4.7).
type VariableService interface {
	Create(ctx context.Context, ownerID string, req *CreateVariableRequest) (*models.Variable, error)
	Get(ctx context.Context, ownerID, id string) (*models.Variable, error)
	ListBySequence(ctx context.Context, ownerID, sequenceID string) ([]models.Variable, error)
	AvailableForSequence(ctx context.Context, ownerID, sequenceID string) ([]engine.AvailableVariable, error)
	Update(ctx context.Context, ownerID, id string, req *UpdateVariableRequest) (*models.Variable, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// CreateVariableRequest is the body of POST /variables.
type CreateVariableRequest struct {
	SequenceID string
	Name       string
	Type       models.VariableType
	Value      any
	Default    any
	TypeHint   string
}

// UpdateVariableRequest is the body of PUT /variables/{id}.
type UpdateVariableRequest struct {
	Name     string
	Value    any
	Default  any
	TypeHint string
}
