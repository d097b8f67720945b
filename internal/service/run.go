package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"meridian/internal/domain"
	"meridian/internal/domain/models"
	"meridian/internal/domain/repositories"
	"meridian/internal/domain/services"
	"meridian/internal/engine"
)

// runService implements the RunService interface
type runService struct {
	sequences    repositories.SequenceRepository
	runs         repositories.RunRepository
	blockRuns    repositories.BlockRunRepository
	orchestrator *engine.Orchestrator
	preview      *engine.PreviewEngine
	model        string
	logger       *slog.Logger
}

// NewRunService creates a new run service. model names the LLM model
// every run is executed against (cmd/server/main.go passes
// cfg.DefaultModel).
func NewRunService(
	sequences repositories.SequenceRepository,
	runs repositories.RunRepository,
	blockRuns repositories.BlockRunRepository,
	orchestrator *engine.Orchestrator,
	preview *engine.PreviewEngine,
	model string,
	logger *slog.Logger,
) services.RunService {
	return &runService{
		sequences:    sequences,
		runs:         runs,
		blockRuns:    blockRuns,
		orchestrator: orchestrator,
		preview:      preview,
		model:        model,
		logger:       logger,
	}
}

// Create persists a PENDING run and launches its execution in the
// background, returning immediately so the caller never blocks on the
// LLM (§9 Design Notes, SPEC_FULL.md Open Question resolution 5).
func (s *runService) Create(ctx context.Context, ownerID string, req *services.CreateRunRequest) (*models.Run, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.SequenceID, validation.Required),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if _, err := s.sequences.GetByID(ctx, ownerID, req.SequenceID); err != nil {
		return nil, err
	}

	run := &models.Run{
		SequenceID:     req.SequenceID,
		OwnerID:        ownerID,
		Status:         models.RunStatusPending,
		InputOverrides: req.InputOverrides,
		CreatedAt:      time.Now(),
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, err
	}

	s.logger.Info("run created", "run_id", run.ID, "sequence_id", req.SequenceID, "owner_id", ownerID)

	go s.execute(run)

	return run, nil
}

// execute drains the orchestrator on a detached context: the HTTP
// request that created the run is long gone by the time a multi-block
// sequence finishes.
func (s *runService) execute(run *models.Run) {
	ctx := context.Background()
	if err := s.orchestrator.Execute(ctx, run, s.model); err != nil {
		s.logger.Error("run execution failed", "run_id", run.ID, "error", err)
	}
}

func (s *runService) Get(ctx context.Context, ownerID, id string) (*models.Run, error) {
	return s.runs.GetByID(ctx, ownerID, id)
}

func (s *runService) ListBySequence(ctx context.Context, ownerID, sequenceID string) ([]models.Run, error) {
	return s.runs.ListBySequence(ctx, ownerID, sequenceID)
}

func (s *runService) GetBlockRun(ctx context.Context, ownerID, id string) (*models.BlockRun, error) {
	return s.blockRuns.GetByID(ctx, ownerID, id)
}

func (s *runService) Preview(ctx context.Context, ownerID, sequenceID, blockID string, inputOverrides map[string]any) (*engine.Preview, error) {
	return s.preview.Preview(ctx, ownerID, sequenceID, blockID, inputOverrides)
}
