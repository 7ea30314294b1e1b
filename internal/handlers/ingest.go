package handlers

import (
	"net/http"

	"notes-explorer/internal/contextutil"
	"notes-explorer/internal/indexer"
	"notes-explorer/internal/service"
)

// IngestHandler handles HTTP requests for triggering ingestion.
type IngestHandler struct {
	notesService service.NotesService
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(notesService service.NotesService) *IngestHandler {
	return &IngestHandler{
		notesService: notesService,
	}
}

// IngestResponse reports the outcome of an ingestion run.
type IngestResponse struct {
	Status string               `json:"status"`
	Stats  *indexer.IngestStats `json:"stats"`
}

// ServeHTTP runs an ingestion pass synchronously and returns its statistics.
// A run that is already active yields 409 Conflict.
func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	logger.InfoContext(ctx, "ingestion triggered via API")

	stats, err := h.notesService.Ingest(ctx)
	if err != nil {
		handleServiceError(ctx, w, err, "Ingestion failed")
		return
	}

	writeJSON(ctx, w, http.StatusOK, IngestResponse{
		Status: "completed",
		Stats:  stats,
	})
}
