package repositories

import (
	"context"

	"meridian/internal/domain/models"
)

// VariableRepository persists Variable records, scoped transitively
// through the owning Sequence (§4.8).
type VariableRepository interface {
	Create(ctx context.Context, ownerID string, v *models.Variable) error
	GetByID(ctx context.Context, ownerID, id string) (*models.Variable, error)
	ListBySequence(ctx context.Context, ownerID, sequenceID string) ([]models.Variable, error)
	Update(ctx context.Context, ownerID string, v *models.Variable) error
	Delete(ctx context.Context, ownerID, id string) error
}
