package repositories

import (
	"context"

	"meridian/internal/domain/models"
)

// RunRepository persists Run records, owner-scoped directly (§4.8).
// Runs are append-only once started: Update is restricted to status
// transitions and result fields by convention, never identity fields.
type RunRepository interface {
	Create(ctx context.Context, run *models.Run) error
	GetByID(ctx context.Context, ownerID, id string) (*models.Run, error)
	ListBySequence(ctx context.Context, ownerID, sequenceID string) ([]models.Run, error)
	Update(ctx context.Context, run *models.Run) error
}

// BlockRunRepository persists BlockRun records. Ownership is
// transitive through the parent Run.
type BlockRunRepository interface {
	Create(ctx context.Context, blockRun *models.BlockRun) error
	Update(ctx context.Context, blockRun *models.BlockRun) error
	GetByID(ctx context.Context, ownerID, id string) (*models.BlockRun, error)
	ListByRun(ctx context.Context, ownerID, runID string) ([]models.BlockRun, error)
}
