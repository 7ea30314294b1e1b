package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"notes-explorer/internal/contextutil"
	"notes-explorer/internal/llm"
	"notes-explorer/internal/search"
	"notes-explorer/internal/storage"
	"notes-explorer/internal/vault"
	"notes-explorer/internal/vectorstore"
)

// DefaultConcurrency bounds parallel embedding calls within a file.
const DefaultConcurrency = 4

// ErrIngestInProgress is returned when an ingestion run is already active.
var ErrIngestInProgress = errors.New("ingestion already in progress")

// Pipeline brings the Store in sync with the notes directory. It is the
// only writer of notes, topics and chunk rows.
type Pipeline struct {
	scanner     *vault.Scanner
	noteRepo    storage.NoteStore
	topicRepo   storage.TopicStore
	chunkRepo   storage.ChunkStore
	embedder    llm.Embedder
	extractor   llm.TopicExtractor
	chunker     llm.Chunker
	mirror      vectorstore.VectorStore
	concurrency int

	running sync.Mutex
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMirror mirrors written chunk rows into a vector store.
func WithMirror(mirror vectorstore.VectorStore) Option {
	return func(p *Pipeline) {
		p.mirror = mirror
	}
}

// WithConcurrency sets the maximum number of embedding calls in flight.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	scanner *vault.Scanner,
	noteRepo storage.NoteStore,
	topicRepo storage.TopicStore,
	chunkRepo storage.ChunkStore,
	embedder llm.Embedder,
	extractor llm.TopicExtractor,
	chunker llm.Chunker,
	opts ...Option,
) *Pipeline {
	p := &Pipeline{
		scanner:     scanner,
		noteRepo:    noteRepo,
		topicRepo:   topicRepo,
		chunkRepo:   chunkRepo,
		embedder:    embedder,
		extractor:   extractor,
		chunker:     chunker,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IngestAll scans the notes directory and ingests every changed file in
// path order. Parse failures degrade a single file and are counted in the
// returned stats; any other error aborts the run.
func (p *Pipeline) IngestAll(ctx context.Context) (*IngestStats, error) {
	if !p.running.TryLock() {
		return nil, ErrIngestInProgress
	}
	defer p.running.Unlock()

	started := time.Now()
	stats := &IngestStats{RunID: uuid.New().String()}

	logger := contextutil.LoggerFromContext(ctx).With("run_id", stats.RunID)
	ctx = contextutil.WithLogger(ctx, logger)

	files, err := p.scanner.Scan(ctx)
	if err != nil {
		return nil, err
	}
	stats.FilesScanned = len(files)

	logger.InfoContext(ctx, "starting ingestion", "notes_dir", p.scanner.Root(), "total_files", len(files))

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		result, err := p.IngestFile(ctx, file)
		if err != nil {
			logger.ErrorContext(ctx, "ingestion aborted", "file", file.Path, "error", err)
			return stats, fmt.Errorf("failed to ingest %s: %w", file.Path, err)
		}
		stats.record(result)
	}

	stats.finish(started)
	logger.InfoContext(ctx, "ingestion completed", stats.LogAttrs()...)
	return stats, nil
}

// IngestFile ingests a single file. A file whose stored modification time
// matches is skipped without any writes or capability calls.
func (p *Pipeline) IngestFile(ctx context.Context, file vault.ScannedFile) (FileResult, error) {
	logger := contextutil.LoggerFromContext(ctx).With("file", file.Path)
	result := FileResult{File: file.Path, Status: FileSkipped}

	exists, err := p.noteRepo.Exists(ctx, file.Path, file.ModTime)
	if err != nil {
		return result, err
	}
	if exists {
		logger.DebugContext(ctx, "skipping unchanged file")
		return result, nil
	}

	logger.InfoContext(ctx, "updating")
	result.Status = FileUpdated

	content, err := p.scanner.ReadFile(file.Path)
	if err != nil {
		return result, err
	}

	noteVec, err := p.embedder.Embed(ctx, content)
	if err != nil {
		return result, fmt.Errorf("failed to embed note: %w", err)
	}

	if err := p.noteRepo.Upsert(ctx, &storage.NoteRecord{
		File:         file.Path,
		Content:      content,
		Embedding:    noteVec,
		LastModified: file.ModTime,
	}); err != nil {
		return result, err
	}

	result.TopicsCreated, err = p.updateTopics(ctx, content)
	if err != nil {
		if !asParseError(ctx, logger, "topic extraction failed", err) {
			return result, p.invalidate(ctx, logger, file.Path, err)
		}
		result.TopicErr = err
	}

	chunks, err := p.replaceChunks(ctx, file.Path, content)
	if err != nil {
		if !asParseError(ctx, logger, "chunking failed", err) {
			return result, p.invalidate(ctx, logger, file.Path, err)
		}
		result.ChunkErr = err
	}
	result.Chunks = len(chunks)
	for _, chunk := range chunks {
		result.chunkTokens = append(result.chunkTokens, estimateTokens(chunk.Content))
	}

	return result, nil
}

// invalidate marks a file stale after a fatal error left it partly
// ingested, and returns cause. It runs even when ctx is already cancelled.
func (p *Pipeline) invalidate(ctx context.Context, logger *slog.Logger, file string, cause error) error {
	if err := p.noteRepo.Invalidate(context.WithoutCancel(ctx), file); err != nil {
		logger.ErrorContext(ctx, "failed to mark note stale", "error", err)
		return errors.Join(cause, err)
	}
	return cause
}

// asParseError logs err with the raw model response and reports whether it
// is a recoverable *llm.ParseError.
func asParseError(ctx context.Context, logger *slog.Logger, msg string, err error) bool {
	var parseErr *llm.ParseError
	if !errors.As(err, &parseErr) {
		return false
	}
	logger.WarnContext(ctx, msg, "error", parseErr.Err, "raw_response", parseErr.Raw)
	return true
}

// updateTopics extracts the note's topics against a snapshot of the current
// vocabulary and stores the labels that are new.
func (p *Pipeline) updateTopics(ctx context.Context, content string) (int, error) {
	existing, err := p.topicRepo.List(ctx)
	if err != nil {
		return 0, err
	}

	labels := make([]string, len(existing))
	for i, topic := range existing {
		labels[i] = topic.Topic
	}

	extracted, err := p.extractor.ExtractTopics(ctx, content, labels)
	if err != nil {
		return 0, err
	}

	fresh := newTopics(extracted, labels)
	if len(fresh) == 0 {
		return 0, nil
	}

	vecs, err := p.embedAll(ctx, fresh)
	if err != nil {
		return 0, fmt.Errorf("failed to embed topics: %w", err)
	}

	for i, label := range fresh {
		if err := p.topicRepo.Insert(ctx, &storage.TopicRecord{Topic: label, Embedding: vecs[i]}); err != nil {
			return i, err
		}
	}

	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "topics created", "topics", fresh)
	return len(fresh), nil
}

// newTopics returns the extracted labels absent from the snapshot, in order.
// Matching is exact and case-sensitive. Duplicates within extracted are kept.
func newTopics(extracted, snapshot []string) []string {
	known := make(map[string]struct{}, len(snapshot))
	for _, label := range snapshot {
		known[label] = struct{}{}
	}

	var fresh []string
	for _, label := range extracted {
		if _, ok := known[label]; ok {
			continue
		}
		fresh = append(fresh, label)
	}
	return fresh
}

// replaceChunks deletes every chunk row for the file, chunks the content and
// inserts the new rows in chunk order.
func (p *Pipeline) replaceChunks(ctx context.Context, file, content string) ([]storage.EmbeddingRecord, error) {
	logger := contextutil.LoggerFromContext(ctx)

	var oldIDs []string
	if p.mirror != nil {
		ids, err := p.chunkRepo.ListIDsByFile(ctx, file)
		if err != nil {
			return nil, err
		}
		oldIDs = ids
	}

	if err := p.chunkRepo.DeleteByFile(ctx, file); err != nil {
		return nil, err
	}

	if p.mirror != nil && len(oldIDs) > 0 {
		if err := p.mirror.Delete(ctx, oldIDs); err != nil {
			logger.WarnContext(ctx, "failed to delete old chunks from mirror", "error", err, "count", len(oldIDs))
		}
	}

	texts, err := p.chunker.ChunkNote(ctx, content)
	if err != nil {
		return nil, err
	}

	texts = nonBlank(texts)
	if len(texts) == 0 {
		return nil, nil
	}

	vecs, err := p.embedAll(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}

	lines := search.SplitLines(content)
	records := make([]storage.EmbeddingRecord, len(texts))
	for i, chunkText := range texts {
		start, end := search.Locate(chunkText, lines)
		records[i] = storage.EmbeddingRecord{
			ChunkID:   uuid.New().String(),
			Content:   chunkText,
			File:      file,
			Embedding: vecs[i],
			Start:     start,
			End:       end,
		}
	}

	if err := p.chunkRepo.InsertBatch(ctx, records); err != nil {
		return nil, err
	}

	if p.mirror != nil {
		if err := p.mirror.Upsert(ctx, toPoints(records)); err != nil {
			logger.WarnContext(ctx, "failed to mirror chunks", "error", err, "count", len(records))
		}
	}

	return records, nil
}

// embedAll embeds texts with at most p.concurrency calls in flight.
// Results are returned in input order.
func (p *Pipeline) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, t := range texts {
		g.Go(func() error {
			vec, err := p.embedder.Embed(gctx, t)
			if err != nil {
				return err
			}
			vecs[i] = vec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vecs, nil
}

func nonBlank(texts []string) []string {
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			out = append(out, t)
		}
	}
	return out
}

func toPoints(records []storage.EmbeddingRecord) []vectorstore.Point {
	points := make([]vectorstore.Point, len(records))
	for i, r := range records {
		points[i] = vectorstore.Point{
			ID:  r.ChunkID,
			Vec: r.Embedding,
			Meta: map[string]any{
				"file":    r.File,
				"content": r.Content,
				"start":   r.Start,
				"end":     r.End,
			},
		}
	}
	return points
}
