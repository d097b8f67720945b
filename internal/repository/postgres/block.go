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

// PostgresBlockRepository implements the BlockRepository interface.
// Ownership is transitive through the parent sequence, so every query
// joins against the sequences table rather than trusting sequence_id alone.
type PostgresBlockRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewBlockRepository creates a new block repository
func NewBlockRepository(config *RepositoryConfig) repositories.BlockRepository {
	return &PostgresBlockRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new block, verifying the sequence is owned by ownerID first
func (r *PostgresBlockRepository) Create(ctx context.Context, ownerID string, block *models.Block) error {
	configJSON, err := json.Marshal(block.Config)
	if err != nil {
		return fmt.Errorf("marshal block config: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (sequence_id, name, type, "order", config)
		SELECT $1, $2, $3, $4, $5
		WHERE EXISTS (SELECT 1 FROM %s WHERE id = $1 AND owner_id = $6)
		RETURNING id
	`, r.tables.Blocks, r.tables.Sequences)

	executor := GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query,
		block.SequenceID,
		block.Name,
		block.Type,
		block.Order,
		configJSON,
		ownerID,
	).Scan(&block.ID)

	if err != nil {
		if IsPgNoRowsError(err) {
			return fmt.Errorf("sequence %s: %w", block.SequenceID, domain.ErrNotFound)
		}
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("sequence %s: %w", block.SequenceID, domain.ErrNotFound)
		}
		return fmt.Errorf("create block: %w", err)
	}

	return nil
}

// GetByID retrieves a block, checking ownership transitively through its sequence
func (r *PostgresBlockRepository) GetByID(ctx context.Context, ownerID, id string) (*models.Block, error) {
	query := fmt.Sprintf(`
		SELECT b.id, b.sequence_id, b.name, b.type, b."order", b.config
		FROM %s b
		JOIN %s s ON s.id = b.sequence_id
		WHERE b.id = $1 AND s.owner_id = $2
	`, r.tables.Blocks, r.tables.Sequences)

	block, err := r.scanBlock(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("block %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get block: %w", err)
	}
	return block, nil
}

// ListBySequence lists all blocks in a sequence, ordered for execution
func (r *PostgresBlockRepository) ListBySequence(ctx context.Context, ownerID, sequenceID string) ([]models.Block, error) {
	query := fmt.Sprintf(`
		SELECT b.id, b.sequence_id, b.name, b.type, b."order", b.config
		FROM %s b
		JOIN %s s ON s.id = b.sequence_id
		WHERE b.sequence_id = $1 AND s.owner_id = $2
		ORDER BY b."order" ASC
	`, r.tables.Blocks, r.tables.Sequences)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, sequenceID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	defer rows.Close()

	blocks := []models.Block{}
	for rows.Next() {
		var (
			id, seqID, name string
			blockType       models.BlockType
			order           int
			configRaw       []byte
		)
		if err := rows.Scan(&id, &seqID, &name, &blockType, &order, &configRaw); err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		config, err := models.DecodeConfig(blockType, configRaw)
		if err != nil {
			return nil, fmt.Errorf("decode block %s config: %w", id, err)
		}
		blocks = append(blocks, models.Block{
			ID: id, SequenceID: seqID, Name: name, Type: blockType, Order: order, Config: config,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blocks: %w", err)
	}

	return blocks, nil
}

// Update updates a block's name, order and config
func (r *PostgresBlockRepository) Update(ctx context.Context, ownerID string, block *models.Block) error {
	configJSON, err := json.Marshal(block.Config)
	if err != nil {
		return fmt.Errorf("marshal block config: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE %s b
		SET name = $1, "order" = $2, config = $3
		FROM %s s
		WHERE b.sequence_id = s.id AND b.id = $4 AND s.owner_id = $5
	`, r.tables.Blocks, r.tables.Sequences)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, block.Name, block.Order, configJSON, block.ID, ownerID)
	if err != nil {
		return fmt.Errorf("update block: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("block %s: %w", block.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a block, checking ownership transitively through its sequence
func (r *PostgresBlockRepository) Delete(ctx context.Context, ownerID, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s b
		USING %s s
		WHERE b.sequence_id = s.id AND b.id = $1 AND s.owner_id = $2
	`, r.tables.Blocks, r.tables.Sequences)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete block: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("block %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *PostgresBlockRepository) scanBlock(row interface {
	Scan(dest ...interface{}) error
}) (*models.Block, error) {
	var (
		id, seqID, name string
		blockType       models.BlockType
		order           int
		configRaw       []byte
	)
	if err := row.Scan(&id, &seqID, &name, &blockType, &order, &configRaw); err != nil {
		return nil, err
	}
	config, err := models.DecodeConfig(blockType, configRaw)
	if err != nil {
		return nil, fmt.Errorf("decode block %s config: %w", id, err)
	}
	return &models.Block{ID: id, SequenceID: seqID, Name: name, Type: blockType, Order: order, Config: config}, nil
}
