package handler

import (
	"log/slog"
	"net/http"

	"meridian/internal/domain/services"
	"meridian/internal/httputil"
)

// RunHandler handles Run HTTP requests.
type RunHandler struct {
	runService services.RunService
	logger     *slog.Logger
}

// NewRunHandler creates a new run handler
func NewRunHandler(runService services.RunService, logger *slog.Logger) *RunHandler {
	return &RunHandler{runService: runService, logger: logger}
}

// Create starts a new run, returning 202 since execution happens in the
// background (SPEC_FULL.md Open Question resolution 5).
// POST /api/v1/runs
func (h *RunHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateRunRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ownerID := httputil.GetUserID(r)
	run, err := h.runService.Create(r.Context(), ownerID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusAccepted, run)
}

// Get retrieves a run and its block run traces
// GET /api/v1/runs/{id}
func (h *RunHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "run id")
	if !ok {
		return
	}

	ownerID := httputil.GetUserID(r)
	run, err := h.runService.Get(r.Context(), ownerID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, run)
}

// ListBySequence lists every run attempted against a sequence
// GET /api/v1/runs/by_sequence/{sequenceID}
func (h *RunHandler) ListBySequence(w http.ResponseWriter, r *http.Request) {
	sequenceID, ok := PathParam(w, r, "sequenceID", "sequence id")
	if !ok {
		return
	}

	ownerID := httputil.GetUserID(r)
	runs, err := h.runService.ListBySequence(r.Context(), ownerID, sequenceID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, runs)
}

// GetBlockRun retrieves one block's execution trace within a run
// GET /api/v1/runs/block_run/{id}
func (h *RunHandler) GetBlockRun(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "block run id")
	if !ok {
		return
	}

	ownerID := httputil.GetUserID(r)
	blockRun, err := h.runService.GetBlockRun(r.Context(), ownerID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, blockRun)
}

type previewRequest struct {
	SequenceID     string         `json:"sequence_id"`
	BlockID        string         `json:"block_id"`
	InputOverrides map[string]any `json:"input_overrides"`
}

// Preview renders a block's prompt against a simulated context without
// calling the LLM (§4.6).
// POST /api/v1/engine/preview_prompt
func (h *RunHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ownerID := httputil.GetUserID(r)
	preview, err := h.runService.Preview(r.Context(), ownerID, req.SequenceID, req.BlockID, req.InputOverrides)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, preview)
}
