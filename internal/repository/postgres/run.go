package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"meridian/internal/domain"
	"meridian/internal/domain/models"
	"meridian/internal/domain/repositories"
)

// PostgresRunRepository implements the RunRepository interface
type PostgresRunRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewRunRepository creates a new run repository
func NewRunRepository(config *RepositoryConfig) repositories.RunRepository {
	return &PostgresRunRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new run, starting it PENDING
func (r *PostgresRunRepository) Create(ctx context.Context, run *models.Run) error {
	inputOverrides, err := json.Marshal(run.InputOverrides)
	if err != nil {
		return fmt.Errorf("marshal input overrides: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (sequence_id, owner_id, status, input_overrides, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, r.tables.Runs)

	executor := GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query,
		run.SequenceID, run.OwnerID, run.Status, inputOverrides, run.CreatedAt,
	).Scan(&run.ID, &run.CreatedAt)

	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}

	return nil
}

// GetByID retrieves a run with its block run traces, owned by ownerID
func (r *PostgresRunRepository) GetByID(ctx context.Context, ownerID, id string) (*models.Run, error) {
	query := fmt.Sprintf(`
		SELECT id, sequence_id, owner_id, status, started_at, completed_at, input_overrides, results_summary, created_at
		FROM %s
		WHERE id = $1 AND owner_id = $2
	`, r.tables.Runs)

	run, err := scanRun(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("run %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get run: %w", err)
	}

	blockRunRepo := &PostgresBlockRunRepository{pool: r.pool, tables: r.tables, logger: r.logger}
	blockRuns, err := blockRunRepo.ListByRun(ctx, ownerID, run.ID)
	if err != nil {
		return nil, err
	}
	run.BlockRuns = blockRuns

	return run, nil
}

// ListBySequence lists all runs of a sequence, most recent first
func (r *PostgresRunRepository) ListBySequence(ctx context.Context, ownerID, sequenceID string) ([]models.Run, error) {
	query := fmt.Sprintf(`
		SELECT id, sequence_id, owner_id, status, started_at, completed_at, input_overrides, results_summary, created_at
		FROM %s
		WHERE sequence_id = $1 AND owner_id = $2
		ORDER BY created_at DESC
	`, r.tables.Runs)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, sequenceID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []models.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// Update persists status transitions and result fields on an existing run
func (r *PostgresRunRepository) Update(ctx context.Context, run *models.Run) error {
	resultsSummary, err := json.Marshal(run.ResultsSummary)
	if err != nil {
		return fmt.Errorf("marshal results summary: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, started_at = $2, completed_at = $3, results_summary = $4
		WHERE id = $5 AND owner_id = $6
	`, r.tables.Runs)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, run.Status, run.StartedAt, run.CompletedAt, resultsSummary, run.ID, run.OwnerID)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("run %s: %w", run.ID, domain.ErrNotFound)
	}

	return nil
}

func scanRun(row interface{ Scan(dest ...interface{}) error }) (*models.Run, error) {
	var run models.Run
	var inputOverrides, resultsSummary []byte
	if err := row.Scan(
		&run.ID, &run.SequenceID, &run.OwnerID, &run.Status,
		&run.StartedAt, &run.CompletedAt, &inputOverrides, &resultsSummary, &run.CreatedAt,
	); err != nil {
		return nil, err
	}
	if len(inputOverrides) > 0 {
		if err := json.Unmarshal(inputOverrides, &run.InputOverrides); err != nil {
			return nil, fmt.Errorf("unmarshal input overrides: %w", err)
		}
	}
	if len(resultsSummary) > 0 {
		if err := json.Unmarshal(resultsSummary, &run.ResultsSummary); err != nil {
			return nil, fmt.Errorf("unmarshal results summary: %w", err)
		}
	}
	return &run, nil
}

// PostgresBlockRunRepository implements the BlockRunRepository interface.
// Ownership is transitive through the parent run.
type PostgresBlockRunRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewBlockRunRepository creates a new block run repository
func NewBlockRunRepository(config *RepositoryConfig) repositories.BlockRunRepository {
	return &PostgresBlockRunRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new block run trace
func (r *PostgresBlockRunRepository) Create(ctx context.Context, br *models.BlockRun) error {
	namedOutputs, err := json.Marshal(br.NamedOutputs)
	if err != nil {
		return fmt.Errorf("marshal named outputs: %w", err)
	}
	listOutputs, err := json.Marshal(br.ListOutputs)
	if err != nil {
		return fmt.Errorf("marshal list outputs: %w", err)
	}
	matrixOutputs, err := json.Marshal(br.MatrixOutputs)
	if err != nil {
		return fmt.Errorf("marshal matrix outputs: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (
			run_id, block_id, block_name, block_type, status,
			rendered_prompt, raw_llm_text, named_outputs, list_outputs, matrix_outputs,
			error_message, prompt_tokens, completion_tokens, cost_usd, started_at, completed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id
	`, r.tables.BlockRuns)

	executor := GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query,
		br.RunID, br.BlockID, br.BlockName, br.BlockType, br.Status,
		br.RenderedPrompt, br.RawLLMText, namedOutputs, listOutputs, matrixOutputs,
		br.ErrorMessage, br.PromptTokens, br.CompletionTokens, br.CostUSD, br.StartedAt, br.CompletedAt,
	).Scan(&br.ID)

	if err != nil {
		return fmt.Errorf("create block run: %w", err)
	}

	return nil
}

// Update persists the completed/failed state of a block run trace
func (r *PostgresBlockRunRepository) Update(ctx context.Context, br *models.BlockRun) error {
	namedOutputs, err := json.Marshal(br.NamedOutputs)
	if err != nil {
		return fmt.Errorf("marshal named outputs: %w", err)
	}
	listOutputs, err := json.Marshal(br.ListOutputs)
	if err != nil {
		return fmt.Errorf("marshal list outputs: %w", err)
	}
	matrixOutputs, err := json.Marshal(br.MatrixOutputs)
	if err != nil {
		return fmt.Errorf("marshal matrix outputs: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, rendered_prompt = $2, raw_llm_text = $3, named_outputs = $4,
		    list_outputs = $5, matrix_outputs = $6, error_message = $7,
		    prompt_tokens = $8, completion_tokens = $9, cost_usd = $10, completed_at = $11
		WHERE id = $12
	`, r.tables.BlockRuns)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		br.Status, br.RenderedPrompt, br.RawLLMText, namedOutputs,
		listOutputs, matrixOutputs, br.ErrorMessage,
		br.PromptTokens, br.CompletionTokens, br.CostUSD, br.CompletedAt, br.ID,
	)
	if err != nil {
		return fmt.Errorf("update block run: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("block run %s: %w", br.ID, domain.ErrNotFound)
	}

	return nil
}

// GetByID retrieves a block run trace, checking ownership transitively through its run
func (r *PostgresBlockRunRepository) GetByID(ctx context.Context, ownerID, id string) (*models.BlockRun, error) {
	query := fmt.Sprintf(`
		SELECT br.id, br.run_id, br.block_id, br.block_name, br.block_type, br.status,
		       br.rendered_prompt, br.raw_llm_text, br.named_outputs, br.list_outputs, br.matrix_outputs,
		       br.error_message, br.prompt_tokens, br.completion_tokens, br.cost_usd, br.started_at, br.completed_at
		FROM %s br
		JOIN %s r ON r.id = br.run_id
		WHERE br.id = $1 AND r.owner_id = $2
	`, r.tables.BlockRuns, r.tables.Runs)

	br, err := scanBlockRun(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("block run %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get block run: %w", err)
	}
	return br, nil
}

// ListByRun lists all block run traces for a run, in execution order
func (r *PostgresBlockRunRepository) ListByRun(ctx context.Context, ownerID, runID string) ([]models.BlockRun, error) {
	query := fmt.Sprintf(`
		SELECT br.id, br.run_id, br.block_id, br.block_name, br.block_type, br.status,
		       br.rendered_prompt, br.raw_llm_text, br.named_outputs, br.list_outputs, br.matrix_outputs,
		       br.error_message, br.prompt_tokens, br.completion_tokens, br.cost_usd, br.started_at, br.completed_at
		FROM %s br
		JOIN %s r ON r.id = br.run_id
		WHERE br.run_id = $1 AND r.owner_id = $2
		ORDER BY br.started_at ASC NULLS FIRST
	`, r.tables.BlockRuns, r.tables.Runs)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, runID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list block runs: %w", err)
	}
	defer rows.Close()

	blockRuns := []models.BlockRun{}
	for rows.Next() {
		br, err := scanBlockRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan block run: %w", err)
		}
		blockRuns = append(blockRuns, *br)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate block runs: %w", err)
	}

	return blockRuns, nil
}

func scanBlockRun(row interface{ Scan(dest ...interface{}) error }) (*models.BlockRun, error) {
	var br models.BlockRun
	var namedOutputs, listOutputs, matrixOutputs []byte
	if err := row.Scan(
		&br.ID, &br.RunID, &br.BlockID, &br.BlockName, &br.BlockType, &br.Status,
		&br.RenderedPrompt, &br.RawLLMText, &namedOutputs, &listOutputs, &matrixOutputs,
		&br.ErrorMessage, &br.PromptTokens, &br.CompletionTokens, &br.CostUSD, &br.StartedAt, &br.CompletedAt,
	); err != nil {
		return nil, err
	}
	if len(namedOutputs) > 0 {
		if err := json.Unmarshal(namedOutputs, &br.NamedOutputs); err != nil {
			return nil, fmt.Errorf("unmarshal named outputs: %w", err)
		}
	}
	if len(listOutputs) > 0 {
		if err := json.Unmarshal(listOutputs, &br.ListOutputs); err != nil {
			return nil, fmt.Errorf("unmarshal list outputs: %w", err)
		}
	}
	if len(matrixOutputs) > 0 {
		if err := json.Unmarshal(matrixOutputs, &br.MatrixOutputs); err != nil {
			return nil, fmt.Errorf("unmarshal matrix outputs: %w", err)
		}
	}
	return &br, nil
}
