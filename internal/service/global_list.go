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
)

// globalListService implements the GlobalListService interface
type globalListService struct {
	lists  repositories.GlobalListRepository
	logger *slog.Logger
}

// NewGlobalListService creates a new global list service
func NewGlobalListService(lists repositories.GlobalListRepository, logger *slog.Logger) services.GlobalListService {
	return &globalListService{lists: lists, logger: logger}
}

func (s *globalListService) Create(ctx context.Context, ownerID string, req *services.CreateGlobalListRequest) (*models.GlobalList, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxGlobalListNameLength)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	for _, item := range req.Items {
		if err := validation.Validate(item, validation.Required, validation.Length(1, config.MaxGlobalListItemLength)); err != nil {
			return nil, fmt.Errorf("%w: item %v", domain.ErrValidation, err)
		}
	}

	items := make([]models.GlobalListItem, len(req.Items))
	for i, v := range req.Items {
		items[i] = models.GlobalListItem{Value: v, Order: i}
	}

	list := &models.GlobalList{
		OwnerID: ownerID,
		Name:    req.Name,
		Items:   items,
	}
	if err := s.lists.Create(ctx, list); err != nil {
		return nil, err
	}

	s.logger.Info("global list created", "list_id", list.ID, "owner_id", ownerID)
	return list, nil
}

func (s *globalListService) Get(ctx context.Context, ownerID, id string) (*models.GlobalList, error) {
	return s.lists.GetByID(ctx, ownerID, id)
}

func (s *globalListService) ListByOwner(ctx context.Context, ownerID string) ([]models.GlobalList, error) {
	return s.lists.ListByOwner(ctx, ownerID)
}

func (s *globalListService) Update(ctx context.Context, ownerID, id string, req *services.UpdateGlobalListRequest) (*models.GlobalList, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxGlobalListNameLength)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	list, err := s.lists.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	list.Name = req.Name

	if err := s.lists.Update(ctx, ownerID, list); err != nil {
		return nil, err
	}

	s.logger.Info("global list updated", "list_id", list.ID, "owner_id", ownerID)
	return list, nil
}

func (s *globalListService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.lists.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.logger.Info("global list deleted", "list_id", id, "owner_id", ownerID)
	return nil
}

func (s *globalListService) AddItem(ctx context.Context, ownerID, listID string, value string) (*models.GlobalListItem, error) {
	if err := validation.Validate(value, validation.Required, validation.Length(1, config.MaxGlobalListItemLength)); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	list, err := s.lists.GetByID(ctx, ownerID, listID)
	if err != nil {
		return nil, err
	}

	item := &models.GlobalListItem{Value: value, Order: len(list.Items)}
	if err := s.lists.AddItem(ctx, ownerID, listID, item); err != nil {
		return nil, err
	}

	s.logger.Info("global list item added", "list_id", listID, "item_id", item.ID)
	return item, nil
}

func (s *globalListService) UpdateItem(ctx context.Context, ownerID, listID, itemID string, value string) (*models.GlobalListItem, error) {
	if err := validation.Validate(value, validation.Required, validation.Length(1, config.MaxGlobalListItemLength)); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	list, err := s.lists.GetByID(ctx, ownerID, listID)
	if err != nil {
		return nil, err
	}

	item := &models.GlobalListItem{ID: itemID, GlobalListID: listID, Value: value}
	for _, existing := range list.Items {
		if existing.ID == itemID {
			item.Order = existing.Order
			break
		}
	}
	if err := s.lists.UpdateItem(ctx, ownerID, listID, item); err != nil {
		return nil, err
	}

	s.logger.Info("global list item updated", "list_id", listID, "item_id", itemID)
	return item, nil
}

func (s *globalListService) DeleteItem(ctx context.Context, ownerID, listID, itemID string) error {
	if err := s.lists.DeleteItem(ctx, ownerID, listID, itemID); err != nil {
		return err
	}
	s.logger.Info("global list item deleted", "list_id", listID, "item_id", itemID)
	return nil
}
