package service

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"meridian/internal/config"
	"meridian/internal/domain"
	"meridian/internal/domain/models"
	"meridian/internal/domain/repositories"
	"meridian/internal/domain/services"
)

// blockService implements the BlockService interface
type blockService struct {
	blocks    repositories.BlockRepository
	sequences repositories.SequenceRepository
	logger    *slog.Logger
}

// NewBlockService creates a new block service
func NewBlockService(blocks repositories.BlockRepository, sequences repositories.SequenceRepository, logger *slog.Logger) services.BlockService {
	return &blockService{blocks: blocks, sequences: sequences, logger: logger}
}

func (s *blockService) Create(ctx context.Context, ownerID string, req *services.CreateBlockRequest) (*models.Block, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.SequenceID, validation.Required),
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxBlockNameLength)),
		validation.Field(&req.Type, validation.Required, validation.By(validateBlockType)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if _, err := s.sequences.GetByID(ctx, ownerID, req.SequenceID); err != nil {
		return nil, err
	}

	cfg, err := models.DecodeConfig(req.Type, req.Config)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := validateConfigContent(req.Type, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	block := &models.Block{
		SequenceID: req.SequenceID,
		Name:       req.Name,
		Type:       req.Type,
		Order:      req.Order,
		Config:     cfg,
	}
	if err := s.blocks.Create(ctx, ownerID, block); err != nil {
		return nil, err
	}

	s.logger.Info("block created", "block_id", block.ID, "sequence_id", req.SequenceID, "type", req.Type)
	return block, nil
}

func (s *blockService) Get(ctx context.Context, ownerID, id string) (*models.Block, error) {
	return s.blocks.GetByID(ctx, ownerID, id)
}

func (s *blockService) ListBySequence(ctx context.Context, ownerID, sequenceID string) ([]models.Block, error) {
	return s.blocks.ListBySequence(ctx, ownerID, sequenceID)
}

func (s *blockService) Update(ctx context.Context, ownerID, id string, req *services.UpdateBlockRequest) (*models.Block, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxBlockNameLength)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	block, err := s.blocks.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	cfg, err := models.DecodeConfig(block.Type, req.Config)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := validateConfigContent(block.Type, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	block.Name = req.Name
	block.Order = req.Order
	block.Config = cfg

	if err := s.blocks.Update(ctx, ownerID, block); err != nil {
		return nil, err
	}

	s.logger.Info("block updated", "block_id", block.ID, "owner_id", ownerID)
	return block, nil
}

func (s *blockService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.blocks.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.logger.Info("block deleted", "block_id", id, "owner_id", ownerID)
	return nil
}

func validateBlockType(value interface{}) error {
	t, _ := value.(models.BlockType)
	if !t.Valid() {
		return fmt.Errorf("unknown block type %q", t)
	}
	return nil
}

// validateConfigContent enforces the prompt-template and list-reference
// size limits (§4.4) that models.DecodeConfig itself doesn't check.
func validateConfigContent(t models.BlockType, cfg models.Config) error {
	switch t {
	case models.BlockTypeStandard:
		return validation.Validate(cfg.Standard.Prompt, validation.Required, validation.Length(1, config.MaxPromptTemplateLength))
	case models.BlockTypeDiscretization:
		if err := validation.Validate(cfg.Discretization.Prompt, validation.Required, validation.Length(1, config.MaxPromptTemplateLength)); err != nil {
			return err
		}
		return validation.Validate(cfg.Discretization.OutputNames, validation.Required, validation.Length(1, 0))
	case models.BlockTypeSingleList:
		if err := validation.Validate(cfg.SingleList.Prompt, validation.Required, validation.Length(1, config.MaxPromptTemplateLength)); err != nil {
			return err
		}
		return validation.Validate(cfg.SingleList.InputListVariableName, validation.Required, validation.Length(1, config.MaxVariableNameLength))
	case models.BlockTypeMultiList:
		if err := validation.Validate(cfg.MultiList.Prompt, validation.Required, validation.Length(1, config.MaxPromptTemplateLength)); err != nil {
			return err
		}
		return validation.Validate(cfg.MultiList.InputListsConfig, validation.Required, validation.Length(2, 0))
	}
	return nil
}
