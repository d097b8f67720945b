package handler

import (
	"log/slog"
	"net/http"

	"meridian/internal/domain/services"
	"meridian/internal/httputil"
)

// VariableHandler handles Variable HTTP requests.
type VariableHandler struct {
	variableService services.VariableService
	logger          *slog.Logger
}

// NewVariableHandler creates a new variable handler
func NewVariableHandler(variableService services.VariableService, logger *slog.Logger) *VariableHandler {
	return &VariableHandler{variableService: variableService, logger: logger}
}

// Create creates a new variable within a sequence
// POST /api/v1/variables
func (h *VariableHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateVariableRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ownerID := httputil.GetUserID(r)
	v, err := h.variableService.Create(r.Context(), ownerID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, v)
}

// Get retrieves a variable by id
// GET /api/v1/variables/{id}
func (h *VariableHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "variable id")
	if !ok {
		return
	}

	ownerID := httputil.GetUserID(r)
	v, err := h.variableService.Get(r.Context(), ownerID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, v)
}

// ListBySequence lists every variable declared on a sequence
// GET /api/v1/variables/by_sequence/{sequenceID}
func (h *VariableHandler) ListBySequence(w http.ResponseWriter, r *http.Request) {
	sequenceID, ok := PathParam(w, r, "sequenceID", "sequence id")
	if !ok {
		return
	}

	ownerID := httputil.GetUserID(r)
	vars, err := h.variableService.ListBySequence(r.Context(), ownerID, sequenceID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, vars)
}

// AvailableForSequence lists every name addressable in the sequence's
// templates, tagged by source, for prompt-authoring UIs (§4.7).
// GET /api/v1/variables/available_for_sequence/{sequenceID}
func (h *VariableHandler) AvailableForSequence(w http.ResponseWriter, r *http.Request) {
	sequenceID, ok := PathParam(w, r, "sequenceID", "sequence id")
	if !ok {
		return
	}

	ownerID := httputil.GetUserID(r)
	available, err := h.variableService.AvailableForSequence(r.Context(), ownerID, sequenceID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, available)
}

// Update updates a variable's name, value or default
// PUT /api/v1/variables/{id}
func (h *VariableHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "variable id")
	if !ok {
		return
	}

	var req services.UpdateVariableRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ownerID := httputil.GetUserID(r)
	v, err := h.variableService.Update(r.Context(), ownerID, id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, v)
}

// Delete deletes a variable
// DELETE /api/v1/variables/{id}
func (h *VariableHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "variable id")
	if !ok {
		return
	}

	ownerID := httputil.GetUserID(r)
	if err := h.variableService.Delete(r.Context(), ownerID, id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
