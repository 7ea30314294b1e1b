package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"notes-explorer/internal/contextutil"
	"notes-explorer/internal/service"
)

// AskHandler answers questions from the notes, streaming tokens as
// Server-Sent Events.
type AskHandler struct {
	notesService service.NotesService
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(notesService service.NotesService) *AskHandler {
	return &AskHandler{
		notesService: notesService,
	}
}

// ServeHTTP streams the answer to a question. Errors raised before the first
// token are returned as JSON with a status code; later errors are sent as a
// final error event.
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req service.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.ErrorContext(ctx, "streaming not supported by response writer")
		writeError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	events := &sseWriter{w: w, flusher: flusher}
	if err := h.notesService.Ask(ctx, req, events); err != nil {
		if !events.started {
			handleServiceError(ctx, w, err, "Failed to answer question")
			return
		}
		logger.ErrorContext(ctx, "error streaming answer", "error", err)
		payload, _ := json.Marshal(ErrorResponse{Error: err.Error()})
		_, _ = fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
		return
	}

	events.start()
	_, _ = fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

// sseWriter writes each token as one Server-Sent Event. Headers are sent
// with the first event.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	started bool
}

func (s *sseWriter) start() {
	if s.started {
		return
	}
	s.started = true
	s.w.Header().Set("Content-Type", "text/event-stream")
	s.w.Header().Set("Cache-Control", "no-cache")
	s.w.Header().Set("Connection", "keep-alive")
	s.w.WriteHeader(http.StatusOK)
}

// Write sends p as an event. Embedded newlines become continuation data lines.
func (s *sseWriter) Write(p []byte) (int, error) {
	s.start()

	var b strings.Builder
	for _, line := range strings.Split(string(p), "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if _, err := fmt.Fprint(s.w, b.String()); err != nil {
		return 0, err
	}
	s.flusher.Flush()
	return len(p), nil
}
