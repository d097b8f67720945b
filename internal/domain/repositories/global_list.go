package repositories

import (
	"context"

	"meridian/internal/domain/models"
)

// GlobalListRepository persists GlobalList records and their items,
// owner-scoped directly (§4.8).
type GlobalListRepository interface {
	Create(ctx context.Context, list *models.GlobalList) error
	GetByID(ctx context.Context, ownerID, id string) (*models.GlobalList, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.GlobalList, error)
	Update(ctx context.Context, ownerID string, list *models.GlobalList) error
	Delete(ctx context.Context, ownerID, id string) error

	AddItem(ctx context.Context, ownerID, listID string, item *models.GlobalListItem) error
	UpdateItem(ctx context.Context, ownerID, listID string, item *models.GlobalListItem) error
	DeleteItem(ctx context.Context, ownerID, listID, itemID string) error
}
