package repositories

import (
	"context"

	"meridian/internal/domain/models"
)

// BlockRepository persists Block records. Ownership is transitive
// through the parent Sequence, so every method takes ownerID and joins
// against the sequence's owner column rather than trusting sequence_id
// alone (§4.8).
type BlockRepository interface {
	Create(ctx context.Context, ownerID string, block *models.Block) error
	GetByID(ctx context.Context, ownerID, id string) (*models.Block, error)
	ListBySequence(ctx context.Context, ownerID, sequenceID string) ([]models.Block, error)
	Update(ctx context.Context, ownerID string, block *models.Block) error
	Delete(ctx context.Context, ownerID, id string) error
}
