package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"meridian/internal/domain"
	"meridian/internal/domain/models"
	"meridian/internal/domain/repositories"
)

// Orchestrator drives a Run: creates BlockRun records, advances the
// state machine, threads context forward, and commits terminal status
// (§4.5). Every status transition is persisted immediately so external
// observers see monotone progress (§5 Ordering guarantees).
type Orchestrator struct {
	sequences   repositories.SequenceRepository
	blocks      repositories.BlockRepository
	runs        repositories.RunRepository
	blockRuns   repositories.BlockRunRepository
	contextBldr *ContextBuilder
	executor    *BlockExecutor
	logger      *slog.Logger
}

func NewOrchestrator(
	sequences repositories.SequenceRepository,
	blocks repositories.BlockRepository,
	runs repositories.RunRepository,
	blockRuns repositories.BlockRunRepository,
	contextBldr *ContextBuilder,
	executor *BlockExecutor,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		sequences:   sequences,
		blocks:      blocks,
		runs:        runs,
		blockRuns:   blockRuns,
		contextBldr: contextBldr,
		executor:    executor,
		logger:      logger,
	}
}

// Execute runs run to completion against model, persisting every
// transition. A non-nil return error means the orchestrator itself
// failed catastrophically (e.g. storage unreachable mid-run); run has
// already been marked FAILED with a best-effort results_summary in
// that case (§7 "Catastrophic failure").
func (o *Orchestrator) Execute(ctx context.Context, run *models.Run, model string) error {
	seq, err := o.sequences.GetByID(ctx, run.OwnerID, run.SequenceID)
	if err != nil {
		return o.failCatastrophically(ctx, run, "load sequence", err)
	}
	if seq.OwnerID != run.OwnerID {
		return o.failCatastrophically(ctx, run, "ownership mismatch", domain.ErrForbidden)
	}

	now := time.Now()
	run.Status = models.RunStatusRunning
	run.StartedAt = &now
	if err := o.runs.Update(ctx, run); err != nil {
		return o.failCatastrophically(ctx, run, "persist running status", err)
	}

	execContext, err := o.contextBldr.Build(ctx, run.OwnerID, run.SequenceID, run.InputOverrides)
	if err != nil {
		return o.failCatastrophically(ctx, run, "build context", err)
	}

	blocks, err := o.blocks.ListBySequence(ctx, run.OwnerID, run.SequenceID)
	if err != nil {
		return o.failCatastrophically(ctx, run, "list blocks", err)
	}
	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].Order != blocks[j].Order {
			return blocks[i].Order < blocks[j].Order
		}
		return blocks[i].ID < blocks[j].ID
	})

	if len(blocks) == 0 {
		return o.finish(ctx, run, true, nil)
	}

	allCompleted := true
	summary := make(map[string]any, len(blocks))

	for _, block := range blocks {
		blockRun := &models.BlockRun{
			RunID:     run.ID,
			BlockID:   block.ID,
			BlockName: block.Name,
			BlockType: block.Type,
			Status:    models.RunStatusRunning,
		}
		startedAt := time.Now()
		blockRun.StartedAt = &startedAt
		if err := o.blockRuns.Create(ctx, blockRun); err != nil {
			return o.failCatastrophically(ctx, run, "create block run", err)
		}

		outcome := o.executor.Execute(ctx, block, model, execContext)
		completedAt := time.Now()
		blockRun.CompletedAt = &completedAt
		blockRun.RenderedPrompt = outcome.RenderedPrompt
		blockRun.RawLLMText = outcome.RawLLMText
		blockRun.NamedOutputs = outcome.NamedOutputs
		blockRun.ListOutputs = outcome.ListOutputs
		blockRun.MatrixOutputs = outcome.MatrixOutputs
		blockRun.PromptTokens = outcome.Usage.PromptTokens
		blockRun.CompletionTokens = outcome.Usage.CompletionTokens
		blockRun.CostUSD = outcome.Usage.CostUSD

		if outcome.Err != nil {
			blockRun.Status = models.RunStatusFailed
			blockRun.ErrorMessage = outcome.Err.Error()
			allCompleted = false
			o.logger.Warn("block run failed", "run_id", run.ID, "block_id", block.ID, "error", outcome.Err)
		} else {
			blockRun.Status = models.RunStatusCompleted
			for k, v := range outcome.OutputAdditions {
				execContext[k] = v
			}
			o.logger.Info("block run completed", "run_id", run.ID, "block_id", block.ID)
		}

		if err := o.blockRuns.Update(ctx, blockRun); err != nil {
			return o.failCatastrophically(ctx, run, "persist block run", err)
		}

		summary[resultsSummaryKey(block.ID, block.Name)] = outcome.OutputAdditions
	}

	return o.finish(ctx, run, allCompleted, summary)
}

func (o *Orchestrator) finish(ctx context.Context, run *models.Run, completed bool, summary map[string]any) error {
	now := time.Now()
	run.CompletedAt = &now
	if completed {
		run.Status = models.RunStatusCompleted
	} else {
		run.Status = models.RunStatusFailed
	}
	run.ResultsSummary = summary
	if err := o.runs.Update(ctx, run); err != nil {
		o.logger.Error("failed to persist terminal run status", "run_id", run.ID, "error", err)
		return fmt.Errorf("persist terminal run status: %w", err)
	}
	o.logger.Info("run finished", "run_id", run.ID, "status", run.Status)
	return nil
}

// failCatastrophically marks run FAILED with an {error, details}
// summary when the orchestrator itself breaks rather than an
// individual block (§7).
func (o *Orchestrator) failCatastrophically(ctx context.Context, run *models.Run, stage string, cause error) error {
	o.logger.Error("run failed catastrophically", "run_id", run.ID, "stage", stage, "error", cause)
	now := time.Now()
	run.Status = models.RunStatusFailed
	run.CompletedAt = &now
	run.ResultsSummary = map[string]any{
		"error":   stage,
		"details": cause.Error(),
	}
	if updateErr := o.runs.Update(ctx, run); updateErr != nil {
		o.logger.Error("failed to persist catastrophic failure", "run_id", run.ID, "error", updateErr)
	}
	return fmt.Errorf("%s: %w", stage, cause)
}

// resultsSummaryKey builds a block_{id}_{name} key with spaces
// replaced by underscores, matching the original engine's summary key
// format verbatim (SPEC_FULL.md supplemented features).
func resultsSummaryKey(blockID, blockName string) string {
	return fmt.Sprintf("block_%s_%s", blockID, strings.ReplaceAll(blockName, " ", "_"))
}
