package handler

import (
	"log/slog"
	"net/http"

	"meridian/internal/domain/services"
	"meridian/internal/httputil"
)

// SequenceHandler handles Sequence HTTP requests.
type SequenceHandler struct {
	sequenceService services.SequenceService
	logger          *slog.Logger
}

// NewSequenceHandler creates a new sequence handler
func NewSequenceHandler(sequenceService services.SequenceService, logger *slog.Logger) *SequenceHandler {
	return &SequenceHandler{sequenceService: sequenceService, logger: logger}
}

// Create creates a new sequence
// POST /api/v1/sequences
func (h *SequenceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateSequenceRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ownerID := httputil.GetUserID(r)
	seq, err := h.sequenceService.Create(r.Context(), ownerID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, seq)
}

// Get retrieves a sequence by id
// GET /api/v1/sequences/{id}
func (h *SequenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "sequence id")
	if !ok {
		return
	}

	ownerID := httputil.GetUserID(r)
	seq, err := h.sequenceService.Get(r.Context(), ownerID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, seq)
}

// List lists every sequence owned by the caller
// GET /api/v1/sequences
func (h *SequenceHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)
	seqs, err := h.sequenceService.List(r.Context(), ownerID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, seqs)
}

// Update updates a sequence's name/description
// PUT /api/v1/sequences/{id}
func (h *SequenceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "sequence id")
	if !ok {
		return
	}

	var req services.UpdateSequenceRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ownerID := httputil.GetUserID(r)
	seq, err := h.sequenceService.Update(r.Context(), ownerID, id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, seq)
}

// Delete deletes a sequence
// DELETE /api/v1/sequences/{id}
func (h *SequenceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "sequence id")
	if !ok {
		return
	}

	ownerID := httputil.GetUserID(r)
	if err := h.sequenceService.Delete(r.Context(), ownerID, id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
