package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"notes-explorer/internal/indexer"
)

func newIngestCmd(deps func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Bring the store in sync with the notes directory.",
		Long: `Bring the store in sync with the notes directory.

Files whose modification time matches the stored one are skipped. A file
whose topic or chunk response cannot be parsed is logged and counted but
does not stop the run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := deps().pipeline.IngestAll(cmd.Context())
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}
}

func printStats(w io.Writer, stats *indexer.IngestStats) {
	fmt.Fprintf(w, "files scanned:   %d\n", stats.FilesScanned)
	fmt.Fprintf(w, "files updated:   %d\n", stats.FilesUpdated)
	fmt.Fprintf(w, "files skipped:   %d\n", stats.FilesSkipped)
	fmt.Fprintf(w, "topics created:  %d\n", stats.TopicsCreated)
	fmt.Fprintf(w, "chunks written:  %d\n", stats.ChunksWritten)
	if failures := stats.TopicParseFailures + stats.ChunkParseFailures; failures > 0 {
		fmt.Fprintf(w, "parse failures:  %d topics, %d chunks\n", stats.TopicParseFailures, stats.ChunkParseFailures)
	}
	fmt.Fprintf(w, "duration:        %dms\n", stats.DurationMS)
}
