package services

import (
	"context"

	"meridian/internal/domain/models"
)

// GlobalListService handles GlobalList CRUD and item sub-resource
// management, owner-scoped directly (§3, §4.8).
type GlobalListService interface {
	Create(ctx context.Context, ownerID string, req *CreateGlobalListRequest) (*models.GlobalList, error)
	Get(ctx context.Context, ownerID, id string) (*models.GlobalList, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.GlobalList, error)
	Update(ctx context.Context, ownerID, id string, req *UpdateGlobalListRequest) (*models.GlobalList, error)
	Delete(ctx context.Context, ownerID, id string) error

	AddItem(ctx context.Context, ownerID, listID string, value string) (*models.GlobalListItem, error)
	UpdateItem(ctx context.Context, ownerID, listID, itemID string, value string) (*models.GlobalListItem, error)
	DeleteItem(ctx context.Context, ownerID, listID, itemID string) error
}

// CreateGlobalListRequest is the body of POST /global-lists.
type CreateGlobalListRequest struct {
	Name  string
	Items []string
}

// UpdateGlobalListRequest is the body of PUT /global-lists/{id}.
type UpdateGlobalListRequest struct {
	Name string
}
