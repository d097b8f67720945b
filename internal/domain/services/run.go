package services

import (
	"context"

	"meridian/internal/domain/models"
	"meridian/internal/engine"
)

// RunService starts and inspects Run executions (§4.5, §4.6). Create
// persists a PENDING run and hands execution to a background worker;
// it never blocks on the LLM (SPEC_FULL.md Open Question resolution 5).
type RunService interface {
	Create(ctx context.Context, ownerID string, req *CreateRunRequest) (*models.Run, error)
	Get(ctx context.Context, ownerID, id string) (*models.Run, error)
	ListBySequence(ctx context.Context, ownerID, sequenceID string) ([]models.Run, error)
	GetBlockRun(ctx context.Context, ownerID, id string) (*models.BlockRun, error)
	Preview(ctx context.Context, ownerID, sequenceID, blockID string, inputOverrides map[string]any) (*engine.Preview, error)
}

// CreateRunRequest is the body of POST /runs.
type CreateRunRequest struct {
	SequenceID     string
	InputOverrides map[string]any
}
