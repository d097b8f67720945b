package handler

import (
	"log/slog"
	"net/http"

	"meridian/internal/domain/services"
	"meridian/internal/httputil"
)

// GlobalListHandler handles GlobalList HTTP requests.
type GlobalListHandler struct {
	listService services.GlobalListService
	logger      *slog.Logger
}

// NewGlobalListHandler creates a new global list handler
func NewGlobalListHandler(listService services.GlobalListService, logger *slog.Logger) *GlobalListHandler {
	return &GlobalListHandler{listService: listService, logger: logger}
}

// Create creates a new global list, optionally pre-seeded with items
// POST /api/v1/global-lists
func (h *GlobalListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateGlobalListRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ownerID := httputil.GetUserID(r)
	list, err := h.listService.Create(r.Context(), ownerID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, list)
}

// Get retrieves a global list and its items
// GET /api/v1/global-lists/{id}
func (h *GlobalListHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "global list id")
	if !ok {
		return
	}

	ownerID := httputil.GetUserID(r)
	list, err := h.listService.Get(r.Context(), ownerID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, list)
}

// List lists every global list owned by the caller
// GET /api/v1/global-lists
func (h *GlobalListHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)
	lists, err := h.listService.ListByOwner(r.Context(), ownerID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, lists)
}

// Update renames a global list
// PUT /api/v1/global-lists/{id}
func (h *GlobalListHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "global list id")
	if !ok {
		return
	}

	var req services.UpdateGlobalListRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ownerID := httputil.GetUserID(r)
	list, err := h.listService.Update(r.Context(), ownerID, id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, list)
}

// Delete deletes a global list and its items
// DELETE /api/v1/global-lists/{id}
func (h *GlobalListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "global list id")
	if !ok {
		return
	}

	ownerID := httputil.GetUserID(r)
	if err := h.listService.Delete(r.Context(), ownerID, id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type listItemDTO struct {
	Value string `json:"value"`
}

// AddItem appends an item to a global list
// POST /api/v1/global-lists/{id}/items
func (h *GlobalListHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	listID, ok := PathParam(w, r, "id", "global list id")
	if !ok {
		return
	}

	var dto listItemDTO
	if err := httputil.ParseJSON(w, r, &dto); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ownerID := httputil.GetUserID(r)
	item, err := h.listService.AddItem(r.Context(), ownerID, listID, dto.Value)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, item)
}

// UpdateItem updates one global list item's value
// PUT /api/v1/global-lists/{id}/items/{item_id}
func (h *GlobalListHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	listID, ok := PathParam(w, r, "id", "global list id")
	if !ok {
		return
	}
	itemID, ok := PathParam(w, r, "itemID", "item id")
	if !ok {
		return
	}

	var dto listItemDTO
	if err := httputil.ParseJSON(w, r, &dto); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ownerID := httputil.GetUserID(r)
	item, err := h.listService.UpdateItem(r.Context(), ownerID, listID, itemID, dto.Value)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, item)
}

// DeleteItem removes one item from a global list
// DELETE /api/v1/global-lists/{id}/items/{item_id}
func (h *GlobalListHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	listID, ok := PathParam(w, r, "id", "global list id")
	if !ok {
		return
	}
	itemID, ok := PathParam(w, r, "itemID", "item id")
	if !ok {
		return
	}

	ownerID := httputil.GetUserID(r)
	if err := h.listService.DeleteItem(r.Context(), ownerID, listID, itemID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
