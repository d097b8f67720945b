package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"meridian/internal/domain"
	"meridian/internal/domain/models"
	"meridian/internal/domain/repositories"
)

// PostgresSequenceRepository implements the SequenceRepository interface
type PostgresSequenceRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewSequenceRepository creates a new sequence repository
func NewSequenceRepository(config *RepositoryConfig) repositories.SequenceRepository {
	return &PostgresSequenceRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new sequence owned by seq.OwnerID
func (r *PostgresSequenceRepository) Create(ctx context.Context, seq *models.Sequence) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (owner_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, r.tables.Sequences)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		seq.OwnerID,
		seq.Name,
		seq.Description,
		seq.CreatedAt,
		seq.UpdatedAt,
	).Scan(&seq.ID, &seq.CreatedAt, &seq.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create sequence: %w", err)
	}

	return nil
}

// GetByID retrieves a sequence owned by ownerID
func (r *PostgresSequenceRepository) GetByID(ctx context.Context, ownerID, id string) (*models.Sequence, error) {
	query := fmt.Sprintf(`
		SELECT id, owner_id, name, description, created_at, updated_at
		FROM %s
		WHERE id = $1 AND owner_id = $2
	`, r.tables.Sequences)

	var seq models.Sequence
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id, ownerID).Scan(
		&seq.ID,
		&seq.OwnerID,
		&seq.Name,
		&seq.Description,
		&seq.CreatedAt,
		&seq.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("sequence %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get sequence: %w", err)
	}

	return &seq, nil
}

// ListByOwner lists all sequences owned by ownerID, most recently updated first
func (r *PostgresSequenceRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Sequence, error) {
	query := fmt.Sprintf(`
		SELECT id, owner_id, name, description, created_at, updated_at
		FROM %s
		WHERE owner_id = $1
		ORDER BY updated_at DESC
	`, r.tables.Sequences)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list sequences: %w", err)
	}
	defer rows.Close()

	sequences := []models.Sequence{}
	for rows.Next() {
		var seq models.Sequence
		if err := rows.Scan(&seq.ID, &seq.OwnerID, &seq.Name, &seq.Description, &seq.CreatedAt, &seq.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sequence: %w", err)
		}
		sequences = append(sequences, seq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sequences: %w", err)
	}

	return sequences, nil
}

// Update updates a sequence's name, description and updated_at timestamp
func (r *PostgresSequenceRepository) Update(ctx context.Context, seq *models.Sequence) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, description = $2, updated_at = $3
		WHERE id = $4 AND owner_id = $5
	`, r.tables.Sequences)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, seq.Name, seq.Description, seq.UpdatedAt, seq.ID, seq.OwnerID)
	if err != nil {
		return fmt.Errorf("update sequence: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("sequence %s: %w", seq.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a sequence owned by ownerID, cascading to its blocks,
// variables and runs via the schema's foreign keys
func (r *PostgresSequenceRepository) Delete(ctx context.Context, ownerID, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND owner_id = $2
	`, r.tables.Sequences)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete sequence: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("sequence %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
