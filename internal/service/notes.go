package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_notes_service.go -package=mocks notes-explorer/internal/service NotesService,Ingester

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"notes-explorer/internal/contextutil"
	"notes-explorer/internal/indexer"
	"notes-explorer/internal/rag"
	"notes-explorer/internal/search"
)

// Ingester runs a full ingestion pass over the notes directory.
type Ingester interface {
	IngestAll(ctx context.Context) (*indexer.IngestStats, error)
}

// QueryRequest asks for the chunks most similar to a text or a vector.
// Exactly one of Query and Embedding must be set.
type QueryRequest struct {
	Query     string    `json:"query,omitempty"`
	Embedding []float32 `json:"embedding,omitempty"`
}

// QueryResponse holds ranked results, best first.
type QueryResponse struct {
	Results []rag.Result `json:"results"`
}

// AskRequest is a question answered from the notes.
type AskRequest struct {
	Question string `json:"question"`
}

// TopicsResponse lists the topic vocabulary.
type TopicsResponse struct {
	Topics []rag.Topic `json:"topics"`
}

// NotesService is the business layer shared by the HTTP handlers.
type NotesService interface {
	// Query ranks chunks against the request's text or vector.
	Query(ctx context.Context, req QueryRequest) (QueryResponse, error)
	// Ask streams an answer to w.
	Ask(ctx context.Context, req AskRequest, w io.Writer) error
	// Topics returns the topic vocabulary.
	Topics(ctx context.Context) (TopicsResponse, error)
	// Ingest runs an ingestion pass and returns its statistics.
	Ingest(ctx context.Context) (*indexer.IngestStats, error)
}

// notesService implements NotesService.
type notesService struct {
	engine   rag.Engine
	ingester Ingester
}

// NewNotesService creates a new notes service.
func NewNotesService(engine rag.Engine, ingester Ingester) NotesService {
	return &notesService{
		engine:   engine,
		ingester: ingester,
	}
}

// Query ranks chunks against the request's text or vector.
func (s *notesService) Query(ctx context.Context, req QueryRequest) (QueryResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	hasText := strings.TrimSpace(req.Query) != ""
	hasVector := len(req.Embedding) > 0
	if hasText == hasVector {
		logger.WarnContext(ctx, "query request needs exactly one of query or embedding")
		return QueryResponse{}, &ValidationError{
			Field:   "query",
			Message: "exactly one of query or embedding is required",
		}
	}

	var (
		results []rag.Result
		err     error
	)
	if hasText {
		results, err = s.engine.SearchText(ctx, req.Query)
	} else {
		results, err = s.engine.SearchVector(ctx, req.Embedding)
	}
	if err != nil {
		logger.ErrorContext(ctx, "query failed", "error", err)
		// Only a caller-supplied vector can be the wrong length by the
		// caller's fault; a mismatch on an embedded text is a store fault.
		if hasVector && errors.Is(err, search.ErrDimensionMismatch) {
			return QueryResponse{}, &ValidationError{
				Field:   "embedding",
				Message: fmt.Sprintf("embedding length %d does not match the stored vectors", len(req.Embedding)),
			}
		}
		return QueryResponse{}, classify(err, "failed to query notes")
	}

	if results == nil {
		results = []rag.Result{}
	}
	logger.InfoContext(ctx, "query processed", "results", len(results), "by_vector", hasVector)
	return QueryResponse{Results: results}, nil
}

// Ask streams an answer to w.
func (s *notesService) Ask(ctx context.Context, req AskRequest, w io.Writer) error {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(req.Question) == "" {
		logger.WarnContext(ctx, "empty question in ask request")
		return &ValidationError{
			Field:   "question",
			Message: "cannot be empty",
		}
	}

	if err := s.engine.Ask(ctx, req.Question, w); err != nil {
		logger.ErrorContext(ctx, "failed to answer question", "error", err)
		return classify(err, "failed to answer question")
	}

	logger.InfoContext(ctx, "question answered", "question_length", len(req.Question))
	return nil
}

// Topics returns the topic vocabulary.
func (s *notesService) Topics(ctx context.Context) (TopicsResponse, error) {
	topics, err := s.engine.Topics(ctx)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to list topics", "error", err)
		return TopicsResponse{}, classify(err, "failed to list topics")
	}
	if topics == nil {
		topics = []rag.Topic{}
	}
	return TopicsResponse{Topics: topics}, nil
}

// Ingest runs an ingestion pass and returns its statistics.
func (s *notesService) Ingest(ctx context.Context) (*indexer.IngestStats, error) {
	stats, err := s.ingester.IngestAll(ctx)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "ingestion failed", "error", err)
		return stats, classify(err, "failed to ingest notes")
	}
	return stats, nil
}
