package main

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"notes-explorer/internal/picker"
	"notes-explorer/internal/rag"
)

func newExploreCmd(deps func() *app) *cobra.Command {
	var skipIngest bool

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Browse notes by topic or free-text query.",
		Long: `Browse notes by topic or free-text query.

The notes are ingested first, then the topic vocabulary is shown in the
picker. Selecting a topic searches with its stored embedding; typing a
query without selecting searches by text, and a query ending in "?" is
answered instead. Results open in the picker with a preview of the lines
each chunk covers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps()
			ctx := cmd.Context()

			if !skipIngest {
				if _, err := a.pipeline.IngestAll(ctx); err != nil {
					return err
				}
			}
			return explore(ctx, a.engine, a.newPicker(ctx), cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&skipIngest, "skip-ingest", false, "browse the store as it is without ingesting first")
	return cmd
}

func explore(ctx context.Context, engine rag.Engine, p picker.Picker, out io.Writer) error {
	topics, err := engine.Topics(ctx)
	if err != nil {
		return err
	}
	lines, err := picker.FormatTopics(topics)
	if err != nil {
		return err
	}

	sel, err := p.Pick(ctx, lines, picker.ModeTopics)
	if errors.Is(err, picker.ErrAborted) {
		return nil
	}
	if err != nil {
		return err
	}

	var results []rag.Result
	switch query := strings.TrimSpace(sel.Query); {
	case sel.Line != "":
		_, vec, err := picker.ParseTopicLine(sel.Line)
		if err != nil {
			return err
		}
		results, err = engine.SearchVector(ctx, vec)
		if err != nil {
			return err
		}
	case query == "":
		return nil
	case rag.IsQuestion(query):
		return ask(ctx, engine, query, out)
	default:
		results, err = engine.SearchText(ctx, query)
		if err != nil {
			return err
		}
	}

	return pickResult(ctx, p, picker.FormatResults(results), out)
}
