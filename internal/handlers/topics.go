package handlers

import (
	"net/http"

	"notes-explorer/internal/contextutil"
	"notes-explorer/internal/service"
)

// TopicsHandler serves the topic vocabulary.
type TopicsHandler struct {
	notesService service.NotesService
}

// NewTopicsHandler creates a new TopicsHandler.
func NewTopicsHandler(notesService service.NotesService) *TopicsHandler {
	return &TopicsHandler{
		notesService: notesService,
	}
}

func (h *TopicsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodGet {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	resp, err := h.notesService.Topics(ctx)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to list topics")
		return
	}

	writeJSON(ctx, w, http.StatusOK, resp)
}
