package repositories

import (
	"context"

	"meridian/internal/domain/models"
)

// SequenceRepository persists Sequence records. Every read is
// owner-scoped (§4.8).
type SequenceRepository interface {
	Create(ctx context.Context, seq *models.Sequence) error
	GetByID(ctx context.Context, ownerID, id string) (*models.Sequence, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Sequence, error)
	Update(ctx context.Context, seq *models.Sequence) error
	Delete(ctx context.Context, ownerID, id string) error
}
