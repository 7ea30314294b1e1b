package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"notes-explorer/internal/config"
	"notes-explorer/internal/contextutil"
	"notes-explorer/internal/indexer"
	"notes-explorer/internal/llm"
	"notes-explorer/internal/picker"
	"notes-explorer/internal/rag"
	"notes-explorer/internal/storage"
	"notes-explorer/internal/vault"
	"notes-explorer/internal/vectorstore"
)

// app holds the dependencies shared by every command.
type app struct {
	cfg      *config.Config
	db       *sql.DB
	scanner  *vault.Scanner
	pipeline *indexer.Pipeline
	engine   rag.Engine
	mirror   *vectorstore.QdrantStore
}

// setupLogging configures the default slog logger. Logs go to stderr so
// stdout carries only command output.
func setupLogging(cfg *config.Config) {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)
}

// newApp opens the database and builds the ingestion pipeline and query engine.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	logger := contextutil.LoggerFromContext(ctx)

	scanner, err := vault.NewScanner(cfg.NotesPath)
	if err != nil {
		return nil, err
	}

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := storage.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.DebugContext(ctx, "Database initialized", "path", cfg.DBPath)

	a := &app{cfg: cfg, db: db, scanner: scanner}

	noteRepo := storage.NewNoteRepo(db)
	topicRepo := storage.NewTopicRepo(db)
	chunkRepo := storage.NewChunkRepo(db)

	client := llm.NewClient(llm.Config{
		BaseURL:        cfg.OpenAIBaseURL,
		APIKey:         cfg.OpenAIKey,
		EmbeddingModel: cfg.EmbeddingModel,
		ChatModel:      cfg.ChatModel,
		Timeout:        cfg.LLMTimeout,
	})

	var chunker llm.Chunker = client
	if cfg.Chunker == config.ChunkerMarkdown {
		chunker = indexer.NewMarkdownChunker()
	}

	opts := []indexer.Option{indexer.WithConcurrency(cfg.EmbedConcurrency)}
	if cfg.QdrantURL != "" {
		mirror, err := vectorstore.NewQdrantStore(cfg.QdrantURL, cfg.QdrantCollection)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.mirror = mirror
		if err := mirror.EnsureCollection(ctx, cfg.QdrantVectorSize); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to ensure Qdrant collection: %w", err)
		}
		logger.DebugContext(ctx, "Qdrant mirror ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)
		opts = append(opts, indexer.WithMirror(mirror))
	}

	a.pipeline = indexer.NewPipeline(scanner, noteRepo, topicRepo, chunkRepo, client, client, chunker, opts...)
	a.engine = rag.NewEngine(chunkRepo, topicRepo, client, client)
	return a, nil
}

// newPicker returns the configured picker, falling back to the built-in
// one when fzf is not installed.
func (a *app) newPicker(ctx context.Context) picker.Picker {
	if a.cfg.Picker == config.PickerFzf {
		p, err := picker.NewFzfPicker()
		if err == nil {
			return p
		}
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "fzf not available, using built-in picker", "error", err)
	}
	return picker.NewTUIPicker(a.scanner.ReadFile)
}

// Close releases the database and vector store connections.
func (a *app) Close() {
	if a.mirror != nil {
		_ = a.mirror.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}
