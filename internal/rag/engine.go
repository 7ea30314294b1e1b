package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks notes-explorer/internal/rag Engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"notes-explorer/internal/contextutil"
	"notes-explorer/internal/llm"
	"notes-explorer/internal/search"
	"notes-explorer/internal/storage"
)

// ErrEmptyQuery is returned when a text query or question is blank.
var ErrEmptyQuery = errors.New("query is empty")

// Engine resolves queries against the stored chunk embeddings.
type Engine interface {
	// SearchVector ranks every chunk against vec and returns the top results.
	SearchVector(ctx context.Context, vec []float32) ([]Result, error)
	// SearchText embeds text and ranks every chunk against it.
	SearchText(ctx context.Context, text string) ([]Result, error)
	// Ask answers a question from the most similar chunks, streaming tokens to w.
	Ask(ctx context.Context, question string, w io.Writer) error
	// Topics returns the topic vocabulary in insertion order.
	Topics(ctx context.Context) ([]Topic, error)
}

// ragEngine implements the Engine interface.
type ragEngine struct {
	chunkRepo storage.ChunkStore
	topicRepo storage.TopicStore
	embedder  llm.Embedder
	completer llm.Completer
	readFile  func(path string) ([]byte, error)
}

// NewEngine creates a new query engine.
func NewEngine(
	chunkRepo storage.ChunkStore,
	topicRepo storage.TopicStore,
	embedder llm.Embedder,
	completer llm.Completer,
) Engine {
	return &ragEngine{
		chunkRepo: chunkRepo,
		topicRepo: topicRepo,
		embedder:  embedder,
		completer: completer,
		readFile:  os.ReadFile,
	}
}

// IsQuestion reports whether text should be answered rather than searched.
func IsQuestion(text string) bool {
	return strings.HasSuffix(strings.TrimSpace(text), "?")
}

// SearchVector ranks every chunk against vec and returns the top results.
func (e *ragEngine) SearchVector(ctx context.Context, vec []float32) ([]Result, error) {
	ranked, err := e.rank(ctx, vec, ResultLimit)
	if err != nil {
		return nil, err
	}
	return e.resolve(ctx, ranked), nil
}

// SearchText embeds text and ranks every chunk against it.
func (e *ragEngine) SearchText(ctx context.Context, text string) ([]Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyQuery
	}

	vec, err := e.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return e.SearchVector(ctx, vec)
}

// Ask answers a question from the most similar chunks. Tokens are written to
// w as they arrive.
func (e *ragEngine) Ask(ctx context.Context, question string, w io.Writer) error {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(question) == "" {
		return ErrEmptyQuery
	}

	vec, err := e.embedder.Embed(ctx, question)
	if err != nil {
		return fmt.Errorf("failed to embed question: %w", err)
	}

	ranked, err := e.rank(ctx, vec, ContextLimit)
	if err != nil {
		return err
	}

	systemPrompt := buildSystemPrompt(ranked)
	logger.DebugContext(ctx, "answering question", "context_chunks", len(ranked), "system_prompt_length", len(systemPrompt))

	err = e.completer.StreamChat(ctx, systemPrompt, question, func(token string) error {
		_, err := io.WriteString(w, token)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to stream answer: %w", err)
	}
	return nil
}

// Topics returns the topic vocabulary in insertion order.
func (e *ragEngine) Topics(ctx context.Context) ([]Topic, error) {
	records, err := e.topicRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	topics := make([]Topic, len(records))
	for i, r := range records {
		topics[i] = Topic{Topic: r.Topic, Embedding: r.Embedding}
	}
	return topics, nil
}

func (e *ragEngine) rank(ctx context.Context, vec []float32, limit int) ([]search.Scored, error) {
	rows, err := e.chunkRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	ranked, err := search.Rank(vec, rows)
	if err != nil {
		return nil, err
	}
	return search.Top(ranked, limit), nil
}

// resolve attaches line ranges. Stored ranges are used as-is; rows without
// one are located against the file's current content, falling back to 1:1
// when the file cannot be read.
func (e *ragEngine) resolve(ctx context.Context, ranked []search.Scored) []Result {
	logger := contextutil.LoggerFromContext(ctx)
	lines := make(map[string][]string)

	results := make([]Result, len(ranked))
	for i, s := range ranked {
		r := Result{
			Content: s.Record.Content,
			File:    s.Record.File,
			Start:   s.Record.Start,
			End:     s.Record.End,
			Score:   s.Score,
		}

		if !s.Record.HasRange() {
			fileLines, ok := lines[r.File]
			if !ok {
				data, err := e.readFile(r.File)
				if err != nil {
					logger.WarnContext(ctx, "cannot read note to locate chunk", "file", r.File, "error", err)
				} else {
					fileLines = search.SplitLines(string(data))
				}
				lines[r.File] = fileLines
			}
			r.Start, r.End = search.Locate(r.Content, fileLines)
		}

		results[i] = r
	}
	return results
}

func buildSystemPrompt(ranked []search.Scored) string {
	var b strings.Builder
	b.WriteString("You are a research assistant that uses a set of relevant notes to answer the user's questions. ")
	b.WriteString("Here are some relevant notes from the user's daily logs.\n")
	for _, s := range ranked {
		fmt.Fprintf(&b, "\nTitle: %s\n\nContent: %s\n", s.Record.File, s.Record.Content)
	}
	return b.String()
}
