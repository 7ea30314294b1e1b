package handlers

import (
	"encoding/json"
	"net/http"

	"notes-explorer/internal/contextutil"
	"notes-explorer/internal/service"
)

// QueryHandler handles HTTP requests for similarity search.
type QueryHandler struct {
	notesService service.NotesService
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(notesService service.NotesService) *QueryHandler {
	return &QueryHandler{
		notesService: notesService,
	}
}

// ServeHTTP ranks note chunks against a text query or a raw embedding.
func (h *QueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req service.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.notesService.Query(ctx, req)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to query notes")
		return
	}

	writeJSON(ctx, w, http.StatusOK, resp)
}
