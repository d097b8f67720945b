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
	"meridian/internal/engine"
)

// variableService implements the VariableService interface
type variableService struct {
	variables repositories.VariableRepository
	sequences repositories.SequenceRepository
	resolver  *engine.Resolver
	logger    *slog.Logger
}

// NewVariableService creates a new variable service
func NewVariableService(variables repositories.VariableRepository, sequences repositories.SequenceRepository, resolver *engine.Resolver, logger *slog.Logger) services.VariableService {
	return &variableService{variables: variables, sequences: sequences, resolver: resolver, logger: logger}
}

func (s *variableService) Create(ctx context.Context, ownerID string, req *services.CreateVariableRequest) (*models.Variable, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.SequenceID, validation.Required),
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxVariableNameLength), validation.Match(models.VariableNamePattern)),
		validation.Field(&req.Type, validation.Required, validation.By(validateVariableType)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if _, err := s.sequences.GetByID(ctx, ownerID, req.SequenceID); err != nil {
		return nil, err
	}

	v := &models.Variable{
		SequenceID: req.SequenceID,
		Name:       req.Name,
		Type:       req.Type,
		Value:      req.Value,
		Default:    req.Default,
		TypeHint:   req.TypeHint,
	}
	if err := s.variables.Create(ctx, ownerID, v); err != nil {
		return nil, err
	}

	s.logger.Info("variable created", "variable_id", v.ID, "sequence_id", req.SequenceID, "name", v.Name)
	return v, nil
}

func (s *variableService) Get(ctx context.Context, ownerID, id string) (*models.Variable, error) {
	return s.variables.GetByID(ctx, ownerID, id)
}

func (s *variableService) ListBySequence(ctx context.Context, ownerID, sequenceID string) ([]models.Variable, error) {
	return s.variables.ListBySequence(ctx, ownerID, sequenceID)
}

func (s *variableService) AvailableForSequence(ctx context.Context, ownerID, sequenceID string) ([]engine.AvailableVariable, error) {
	return s.resolver.Resolve(ctx, ownerID, sequenceID)
}

func (s *variableService) Update(ctx context.Context, ownerID, id string, req *services.UpdateVariableRequest) (*models.Variable, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxVariableNameLength), validation.Match(models.VariableNamePattern)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	v, err := s.variables.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	v.Name = req.Name
	v.Value = req.Value
	v.Default = req.Default
	v.TypeHint = req.TypeHint

	if err := s.variables.Update(ctx, ownerID, v); err != nil {
		return nil, err
	}

	s.logger.Info("variable updated", "variable_id", v.ID, "owner_id", ownerID)
	return v, nil
}

func (s *variableService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.variables.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.logger.Info("variable deleted", "variable_id", id, "owner_id", ownerID)
	return nil
}

func validateVariableType(value interface{}) error {
	t, _ := value.(models.VariableType)
	if !t.Valid() {
		return fmt.Errorf("unknown variable type %q", t)
	}
	return nil
}
