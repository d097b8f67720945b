package services

import (
	"context"
	"encoding/json"

	"meridian/internal/domain/models"
)

// BlockService handles Block CRUD, scoped transitively through the
// owning Sequence (§3, §4.4).
type BlockService interface {
	Create(ctx context.Context, ownerID string, req *CreateBlockRequest) (*models.Block, error)
	Get(ctx context.Context, ownerID, id string) (*models.Block, error)
	ListBySequence(ctx context.Context, ownerID, sequenceID string) ([]models.Block, error)
	Update(ctx context.Context, ownerID, id string, req *UpdateBlockRequest) (*models.Block, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// CreateBlockRequest is the body of POST /blocks. Config is the raw
// JSON for whichever variant Type names, decoded via models.DecodeConfig.
type CreateBlockRequest struct {
	SequenceID string
	Name       string
	Type       models.BlockType
	Order      int
	Config     json.RawMessage
}

// UpdateBlockRequest is the body of PUT /blocks/{id}.
type UpdateBlockRequest struct {
	Name   string
	Order  int
	Config json.RawMessage
}
