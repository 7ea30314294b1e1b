package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"notes-explorer/internal/contextutil"
	"notes-explorer/internal/handlers"
	"notes-explorer/internal/http"
	"notes-explorer/internal/indexer"
	"notes-explorer/internal/service"
)

func newServeCmd(deps func() *app) *cobra.Command {
	var skipIngest bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the query API over HTTP.",
		Long: `Serve the query API over HTTP on API_PORT.

An ingestion run starts in the background once the server is up. When
INGEST_SCHEDULE holds a cron expression, ingestion is repeated on that
schedule; overlapping runs are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), deps(), skipIngest)
		},
	}

	cmd.Flags().BoolVar(&skipIngest, "skip-ingest", false, "do not ingest when the server starts")
	return cmd
}

func serve(ctx context.Context, a *app, skipIngest bool) error {
	logger := contextutil.LoggerFromContext(ctx)

	checks := map[string]handlers.Checker{
		"database": a.db.PingContext,
	}
	if a.mirror != nil {
		checks["vector_store"] = a.mirror.HealthCheck
	}

	router := http.NewRouter(&http.Deps{
		NotesService: service.NewNotesService(a.engine, a.pipeline),
		Scanner:      a.scanner,
		HealthChecks: checks,
	})

	runIngest := func(trigger string) {
		stats, err := a.pipeline.IngestAll(ctx)
		switch {
		case errors.Is(err, indexer.ErrIngestInProgress):
			logger.InfoContext(ctx, "Skipping ingestion, a run is already in progress", "trigger", trigger)
		case err != nil:
			logger.ErrorContext(ctx, "Ingestion failed", "trigger", trigger, "error", err)
		default:
			logger.InfoContext(ctx, "Ingestion finished", "trigger", trigger, "run_id", stats.RunID)
		}
	}

	if a.cfg.IngestSchedule != "" {
		scheduler := cron.New()
		if _, err := scheduler.AddFunc(a.cfg.IngestSchedule, func() { runIngest("schedule") }); err != nil {
			return fmt.Errorf("invalid INGEST_SCHEDULE: %w", err)
		}
		scheduler.Start()
		defer func() {
			<-scheduler.Stop().Done()
		}()
		logger.InfoContext(ctx, "Scheduled ingestion enabled", "schedule", a.cfg.IngestSchedule)
	}

	if !skipIngest {
		go runIngest("startup")
	}

	srv := &nethttp.Server{
		Addr:              ":" + a.cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "Starting API server", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("API server failed: %w", err)
	case <-ctx.Done():
	}

	logger.InfoContext(ctx, "Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down API server: %w", err)
	}
	return nil
}
