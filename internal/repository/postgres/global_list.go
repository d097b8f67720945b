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

// PostgresGlobalListRepository implements the GlobalListRepository interface
type PostgresGlobalListRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewGlobalListRepository creates a new global list repository
func NewGlobalListRepository(config *RepositoryConfig) repositories.GlobalListRepository {
	return &PostgresGlobalListRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new global list, owned directly by list.OwnerID
func (r *PostgresGlobalListRepository) Create(ctx context.Context, list *models.GlobalList) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (owner_id, name)
		VALUES ($1, $2)
		RETURNING id
	`, r.tables.GlobalLists)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, list.OwnerID, list.Name).Scan(&list.ID)
	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("global list '%s' already exists: %w", list.Name, domain.ErrConflict)
		}
		return fmt.Errorf("create global list: %w", err)
	}

	for i := range list.Items {
		list.Items[i].GlobalListID = list.ID
		if err := r.AddItem(ctx, list.OwnerID, list.ID, &list.Items[i]); err != nil {
			return fmt.Errorf("create global list item: %w", err)
		}
	}

	return nil
}

// GetByID retrieves a global list with its items, owned by ownerID
func (r *PostgresGlobalListRepository) GetByID(ctx context.Context, ownerID, id string) (*models.GlobalList, error) {
	query := fmt.Sprintf(`
		SELECT id, owner_id, name
		FROM %s
		WHERE id = $1 AND owner_id = $2
	`, r.tables.GlobalLists)

	var list models.GlobalList
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id, ownerID).Scan(&list.ID, &list.OwnerID, &list.Name)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("global list %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get global list: %w", err)
	}

	items, err := r.listItems(ctx, id)
	if err != nil {
		return nil, err
	}
	list.Items = items

	return &list, nil
}

// ListByOwner lists all global lists owned by ownerID, with their items
func (r *PostgresGlobalListRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.GlobalList, error) {
	query := fmt.Sprintf(`
		SELECT id, owner_id, name
		FROM %s
		WHERE owner_id = $1
		ORDER BY name ASC
	`, r.tables.GlobalLists)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list global lists: %w", err)
	}
	defer rows.Close()

	lists := []models.GlobalList{}
	for rows.Next() {
		var list models.GlobalList
		if err := rows.Scan(&list.ID, &list.OwnerID, &list.Name); err != nil {
			return nil, fmt.Errorf("scan global list: %w", err)
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate global lists: %w", err)
	}

	for i := range lists {
		items, err := r.listItems(ctx, lists[i].ID)
		if err != nil {
			return nil, err
		}
		lists[i].Items = items
	}

	return lists, nil
}

// Update renames a global list
func (r *PostgresGlobalListRepository) Update(ctx context.Context, ownerID string, list *models.GlobalList) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1
		WHERE id = $2 AND owner_id = $3
	`, r.tables.GlobalLists)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, list.Name, list.ID, ownerID)
	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("global list '%s' already exists: %w", list.Name, domain.ErrConflict)
		}
		return fmt.Errorf("update global list: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("global list %s: %w", list.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a global list and its items (cascade)
func (r *PostgresGlobalListRepository) Delete(ctx context.Context, ownerID, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND owner_id = $2
	`, r.tables.GlobalLists)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete global list: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("global list %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// AddItem appends an item to a global list, checking ownership first
func (r *PostgresGlobalListRepository) AddItem(ctx context.Context, ownerID, listID string, item *models.GlobalListItem) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (global_list_id, value, "order")
		SELECT $1, $2, $3
		WHERE EXISTS (SELECT 1 FROM %s WHERE id = $1 AND owner_id = $4)
		RETURNING id
	`, r.tables.GlobalListItems, r.tables.GlobalLists)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, listID, item.Value, item.Order, ownerID).Scan(&item.ID)
	if err != nil {
		if IsPgNoRowsError(err) {
			return fmt.Errorf("global list %s: %w", listID, domain.ErrNotFound)
		}
		return fmt.Errorf("add global list item: %w", err)
	}
	item.GlobalListID = listID

	return nil
}

// UpdateItem updates an item's value/order, checking ownership transitively
func (r *PostgresGlobalListRepository) UpdateItem(ctx context.Context, ownerID, listID string, item *models.GlobalListItem) error {
	query := fmt.Sprintf(`
		UPDATE %s i
		SET value = $1, "order" = $2
		FROM %s l
		WHERE i.global_list_id = l.id AND i.id = $3 AND i.global_list_id = $4 AND l.owner_id = $5
	`, r.tables.GlobalListItems, r.tables.GlobalLists)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, item.Value, item.Order, item.ID, listID, ownerID)
	if err != nil {
		return fmt.Errorf("update global list item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("global list item %s: %w", item.ID, domain.ErrNotFound)
	}

	return nil
}

// DeleteItem removes an item from a global list, checking ownership transitively
func (r *PostgresGlobalListRepository) DeleteItem(ctx context.Context, ownerID, listID, itemID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s i
		USING %s l
		WHERE i.global_list_id = l.id AND i.id = $1 AND i.global_list_id = $2 AND l.owner_id = $3
	`, r.tables.GlobalListItems, r.tables.GlobalLists)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, itemID, listID, ownerID)
	if err != nil {
		return fmt.Errorf("delete global list item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("global list item %s: %w", itemID, domain.ErrNotFound)
	}

	return nil
}

func (r *PostgresGlobalListRepository) listItems(ctx context.Context, listID string) ([]models.GlobalListItem, error) {
	query := fmt.Sprintf(`
		SELECT id, global_list_id, value, "order"
		FROM %s
		WHERE global_list_id = $1
		ORDER BY "order" ASC
	`, r.tables.GlobalListItems)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, listID)
	if err != nil {
		return nil, fmt.Errorf("list global list items: %w", err)
	}
	defer rows.Close()

	items := []models.GlobalListItem{}
	for rows.Next() {
		var item models.GlobalListItem
		if err := rows.Scan(&item.ID, &item.GlobalListID, &item.Value, &item.Order); err != nil {
			return nil, fmt.Errorf("scan global list item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate global list items: %w", err)
	}

	return items, nil
}
