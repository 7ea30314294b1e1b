package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"notes-explorer/internal/picker"
	"notes-explorer/internal/rag"
)

func newQueryCmd(deps func() *app) *cobra.Command {
	var (
		query       string
		embedding   string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Rank note chunks against a text or an embedding.",
		Long: `Rank note chunks against a text or an embedding.

The ten best chunks are printed as content<TAB>file<TAB>start:end. A text
query ending in "?" is answered from the five best chunks instead, with the
answer streamed to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps()
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			vec, err := parseEmbedding(embedding)
			if err != nil {
				return err
			}

			if vec == nil && rag.IsQuestion(query) {
				return ask(ctx, a.engine, query, out)
			}

			results, err := search(ctx, a.engine, query, vec)
			if err != nil {
				return err
			}

			lines := picker.FormatResults(results)
			if interactive {
				return pickResult(ctx, a.newPicker(ctx), lines, out)
			}
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "text to search for; a trailing ? asks a question")
	cmd.Flags().StringVar(&embedding, "embedding", "", "JSON array of floats to search with directly")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "choose a result in the picker instead of printing")
	cmd.MarkFlagsMutuallyExclusive("query", "embedding")
	cmd.MarkFlagsOneRequired("query", "embedding")
	return cmd
}

// parseEmbedding decodes the --embedding flag. An empty flag yields nil.
func parseEmbedding(raw string) ([]float32, error) {
	if raw == "" {
		return nil, nil
	}
	var vec []float32
	if err := json.Unmarshal([]byte(raw), &vec); err != nil {
		return nil, fmt.Errorf("invalid --embedding: %w", err)
	}
	if len(vec) == 0 {
		return nil, errors.New("invalid --embedding: empty vector")
	}
	return vec, nil
}

// search ranks by vec when set, otherwise by the embedded text.
func search(ctx context.Context, engine rag.Engine, text string, vec []float32) ([]rag.Result, error) {
	if vec != nil {
		return engine.SearchVector(ctx, vec)
	}
	return engine.SearchText(ctx, text)
}

// ask streams the answer to question and ends it with a newline.
func ask(ctx context.Context, engine rag.Engine, question string, out io.Writer) error {
	if err := engine.Ask(ctx, question, out); err != nil {
		return err
	}
	_, err := fmt.Fprintln(out)
	return err
}

// pickResult shows result lines in the picker and prints the chosen one.
func pickResult(ctx context.Context, p picker.Picker, lines []string, out io.Writer) error {
	if len(lines) == 0 {
		return nil
	}
	sel, err := p.Pick(ctx, lines, picker.ModeResults)
	if errors.Is(err, picker.ErrAborted) {
		return nil
	}
	if err != nil {
		return err
	}
	if sel.Line != "" {
		fmt.Fprintln(out, sel.Line)
	}
	return nil
}
