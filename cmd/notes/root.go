package main

import (
	"github.com/spf13/cobra"

	"notes-explorer/internal/config"
)

func newRootCmd() *cobra.Command {
	var a *app

	rootCmd := &cobra.Command{
		Use:   "notes",
		Short: "Semantic search over a directory of markdown notes.",
		Long: `Semantic search over a directory of markdown notes.

Notes under NOTES_LOCATION are ingested into a local SQLite store: each
changed file is embedded, tagged with topics and split into chunks. The
other commands rank those chunks against a query, a topic or a question:

	notes ingest
	notes query --query "books I read in spring"
	notes query --query "what did I read in spring?"
	notes explore
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			setupLogging(cfg)

			a, err = newApp(cmd.Context(), cfg)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a != nil {
				a.Close()
			}
		},
	}

	// Commands run after PersistentPreRunE, so they read a lazily.
	deps := func() *app { return a }

	rootCmd.AddCommand(
		newIngestCmd(deps),
		newQueryCmd(deps),
		newExploreCmd(deps),
		newTopicsCmd(deps),
		newServeCmd(deps),
	)
	return rootCmd
}
