package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"meridian/internal/domain/models"
	"meridian/internal/domain/services"
	"meridian/internal/httputil"
)

// BlockHandler handles Block HTTP requests.
type BlockHandler struct {
	blockService services.BlockService
	logger       *slog.Logger
}

// NewBlockHandler creates a new block handler
func NewBlockHandler(blockService services.BlockService, logger *slog.Logger) *BlockHandler {
	return &BlockHandler{blockService: blockService, logger: logger}
}

type createBlockDTO struct {
	SequenceID string           `json:"sequence_id"`
	Name       string           `json:"name"`
	Type       models.BlockType `json:"type"`
	Order      int              `json:"order"`
	Config     json.RawMessage  `json:"config"`
}

type updateBlockDTO struct {
	Name   string          `json:"name"`
	Order  int             `json:"order"`
	Config json.RawMessage `json:"config"`
}

// Create creates a new block within a sequence
// POST /api/v1/blocks
func (h *BlockHandler) Create(w http.ResponseWriter, r *http.Request) {
	var dto createBlockDTO
	if err := httputil.ParseJSON(w, r, &dto); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req := &services.CreateBlockRequest{
		SequenceID: dto.SequenceID,
		Name:       dto.Name,
		Type:       dto.Type,
		Order:      dto.Order,
		Config:     dto.Config,
	}

	ownerID := httputil.GetUserID(r)
	block, err := h.blockService.Create(r.Context(), ownerID, req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, block)
}

// Get retrieves a block by id
// GET /api/v1/blocks/{id}
func (h *BlockHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "block id")
	if !ok {
		return
	}

	ownerID := httputil.GetUserID(r)
	block, err := h.blockService.Get(r.Context(), ownerID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, block)
}

// ListBySequence lists every block in a sequence, ordered by position
// GET /api/v1/blocks/in_sequence/{sequenceID}
func (h *BlockHandler) ListBySequence(w http.ResponseWriter, r *http.Request) {
	sequenceID, ok := PathParam(w, r, "sequenceID", "sequence id")
	if !ok {
		return
	}

	ownerID := httputil.GetUserID(r)
	blocks, err := h.blockService.ListBySequence(r.Context(), ownerID, sequenceID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, blocks)
}

// Update updates a block's name, order and config
// PUT /api/v1/blocks/{id}
func (h *BlockHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "block id")
	if !ok {
		return
	}

	var dto updateBlockDTO
	if err := httputil.ParseJSON(w, r, &dto); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req := &services.UpdateBlockRequest{
		Name:   dto.Name,
		Order:  dto.Order,
		Config: dto.Config,
	}

	ownerID := httputil.GetUserID(r)
	block, err := h.blockService.Update(r.Context(), ownerID, id, req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, block)
}

// Delete deletes a block
// DELETE /api/v1/blocks/{id}
func (h *BlockHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "block id")
	if !ok {
		return
	}

	ownerID := httputil.GetUserID(r)
	if err := h.blockService.Delete(r.Context(), ownerID, id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
