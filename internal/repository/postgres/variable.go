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

// PostgresVariableRepository implements the VariableRepository interface.
// Ownership is transitive through the parent sequence.
type PostgresVariableRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewVariableRepository creates a new variable repository
func NewVariableRepository(config *RepositoryConfig) repositories.VariableRepository {
	return &PostgresVariableRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new variable, verifying the sequence is owned by ownerID first
func (r *PostgresVariableRepository) Create(ctx context.Context, ownerID string, v *models.Variable) error {
	value, err := json.Marshal(v.Value)
	if err != nil {
		return fmt.Errorf("marshal variable value: %w", err)
	}
	defaultValue, err := json.Marshal(v.Default)
	if err != nil {
		return fmt.Errorf("marshal variable default: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (sequence_id, name, type, value, default_value, type_hint)
		SELECT $1, $2, $3, $4, $5, $6
		WHERE EXISTS (SELECT 1 FROM %s WHERE id = $1 AND owner_id = $7)
		RETURNING id
	`, r.tables.Variables, r.tables.Sequences)

	executor := GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query,
		v.SequenceID, v.Name, v.Type, value, defaultValue, v.TypeHint, ownerID,
	).Scan(&v.ID)

	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("variable '%s' already exists in this sequence: %w", v.Name, domain.ErrConflict)
		}
		if IsPgNoRowsError(err) {
			return fmt.Errorf("sequence %s: %w", v.SequenceID, domain.ErrNotFound)
		}
		return fmt.Errorf("create variable: %w", err)
	}

	return nil
}

// GetByID retrieves a variable, checking ownership transitively through its sequence
func (r *PostgresVariableRepository) GetByID(ctx context.Context, ownerID, id string) (*models.Variable, error) {
	query := fmt.Sprintf(`
		SELECT v.id, v.sequence_id, v.name, v.type, v.value, v.default_value, v.type_hint
		FROM %s v
		JOIN %s s ON s.id = v.sequence_id
		WHERE v.id = $1 AND s.owner_id = $2
	`, r.tables.Variables, r.tables.Sequences)

	v, err := scanVariable(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("variable %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get variable: %w", err)
	}
	return v, nil
}

// ListBySequence lists all variables declared in a sequence
func (r *PostgresVariableRepository) ListBySequence(ctx context.Context, ownerID, sequenceID string) ([]models.Variable, error) {
	query := fmt.Sprintf(`
		SELECT v.id, v.sequence_id, v.name, v.type, v.value, v.default_value, v.type_hint
		FROM %s v
		JOIN %s s ON s.id = v.sequence_id
		WHERE v.sequence_id = $1 AND s.owner_id = $2
		ORDER BY v.name ASC
	`, r.tables.Variables, r.tables.Sequences)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, sequenceID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list variables: %w", err)
	}
	defer rows.Close()

	variables := []models.Variable{}
	for rows.Next() {
		v, err := scanVariable(rows)
		if err != nil {
			return nil, fmt.Errorf("scan variable: %w", err)
		}
		variables = append(variables, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variables: %w", err)
	}

	return variables, nil
}

// Update updates a variable's value/default/type_hint
func (r *PostgresVariableRepository) Update(ctx context.Context, ownerID string, v *models.Variable) error {
	value, err := json.Marshal(v.Value)
	if err != nil {
		return fmt.Errorf("marshal variable value: %w", err)
	}
	defaultValue, err := json.Marshal(v.Default)
	if err != nil {
		return fmt.Errorf("marshal variable default: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE %s v
		SET name = $1, value = $2, default_value = $3, type_hint = $4
		FROM %s s
		WHERE v.sequence_id = s.id AND v.id = $5 AND s.owner_id = $6
	`, r.tables.Variables, r.tables.Sequences)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, v.Name, value, defaultValue, v.TypeHint, v.ID, ownerID)
	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("variable '%s' already exists in this sequence: %w", v.Name, domain.ErrConflict)
		}
		return fmt.Errorf("update variable: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("variable %s: %w", v.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a variable, checking ownership transitively through its sequence
func (r *PostgresVariableRepository) Delete(ctx context.Context, ownerID, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s v
		USING %s s
		WHERE v.sequence_id = s.id AND v.id = $1 AND s.owner_id = $2
	`, r.tables.Variables, r.tables.Sequences)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete variable: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("variable %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func scanVariable(row interface{ Scan(dest ...interface{}) error }) (*models.Variable, error) {
	var (
		id, seqID, name string
		varType         models.VariableType
		valueRaw        []byte
		defaultRaw      []byte
		typeHint        string
	)
	if err := row.Scan(&id, &seqID, &name, &varType, &valueRaw, &defaultRaw, &typeHint); err != nil {
		return nil, err
	}

	v := &models.Variable{ID: id, SequenceID: seqID, Name: name, Type: varType, TypeHint: typeHint}
	if len(valueRaw) > 0 {
		if err := json.Unmarshal(valueRaw, &v.Value); err != nil {
			return nil, fmt.Errorf("unmarshal variable value: %w", err)
		}
	}
	if len(defaultRaw) > 0 {
		if err := json.Unmarshal(defaultRaw, &v.Default); err != nil {
			return nil, fmt.Errorf("unmarshal variable default: %w", err)
		}
	}
	return v, nil
}
