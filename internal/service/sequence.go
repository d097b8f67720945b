package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"meridian/internal/config"
	"meridian/internal/domain"
	"meridian/internal/domain/models"
	"meridian/internal/domain/repositories"
	"meridian/internal/domain/services"
)

// sequenceService implements the SequenceService interface
type sequenceService struct {
	sequences repositories.SequenceRepository
	logger    *slog.Logger
}

// NewSequenceService creates a new sequence service
func NewSequenceService(sequences repositories.SequenceRepository, logger *slog.Logger) services.SequenceService {
	return &sequenceService{sequences: sequences, logger: logger}
}

func (s *sequenceService) Create(ctx context.Context, ownerID string, req *services.CreateSequenceRequest) (*models.Sequence, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxSequenceNameLength)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	seq := &models.Sequence{
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.sequences.Create(ctx, seq); err != nil {
		return nil, err
	}

	s.logger.Info("sequence created", "sequence_id", seq.ID, "owner_id", ownerID)
	return seq, nil
}

func (s *sequenceService) Get(ctx context.Context, ownerID, id string) (*models.Sequence, error) {
	return s.sequences.GetByID(ctx, ownerID, id)
}

func (s *sequenceService) List(ctx context.Context, ownerID string) ([]models.Sequence, error) {
	return s.sequences.ListByOwner(ctx, ownerID)
}

func (s *sequenceService) Update(ctx context.Context, ownerID, id string, req *services.UpdateSequenceRequest) (*models.Sequence, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxSequenceNameLength)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	seq, err := s.sequences.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	seq.Name = req.Name
	seq.Description = req.Description
	seq.UpdatedAt = time.Now()

	if err := s.sequences.Update(ctx, seq); err != nil {
		return nil, err
	}

	s.logger.Info("sequence updated", "sequence_id", seq.ID, "owner_id", ownerID)
	return seq, nil
}

func (s *sequenceService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.sequences.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.logger.Info("sequence deleted", "sequence_id", id, "owner_id", ownerID)
	return nil
}
