package picker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const previewCommand = "bat {2} --language md --style plain --color always --highlight-line {3}"

// FzfPicker runs the fzf fuzzy finder. Result previews use bat.
type FzfPicker struct {
	path string
}

// NewFzfPicker locates fzf on PATH.
func NewFzfPicker() (*FzfPicker, error) {
	path, err := exec.LookPath("fzf")
	if err != nil {
		return nil, fmt.Errorf("fzf not found: %w", err)
	}
	return &FzfPicker{path: path}, nil
}

// Pick pipes lines into fzf and returns what it printed.
// fzf exit status 1 means nothing matched; 130 means the user aborted.
func (p *FzfPicker) Pick(ctx context.Context, lines []string, mode Mode) (Selection, error) {
	cmd := exec.CommandContext(ctx, p.path, fzfArgs(mode)...)
	cmd.Stdin = strings.NewReader(strings.Join(lines, "\n"))
	cmd.Stderr = os.Stderr
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return Selection{}, fmt.Errorf("failed to run fzf: %w", err)
		}
		switch exitErr.ExitCode() {
		case 1:
		case 130:
			return Selection{}, ErrAborted
		default:
			return Selection{}, fmt.Errorf("fzf exited with status %d: %w", exitErr.ExitCode(), err)
		}
	}

	return parseFzfOutput(stdout.String(), mode), nil
}

func fzfArgs(mode Mode) []string {
	args := []string{"--delimiter=\t", "--with-nth=1"}
	if mode == ModeTopics {
		return append(args, "--print-query")
	}
	return append(args, "--preview", previewCommand, "--preview-window", "wrap")
}

func parseFzfOutput(out string, mode Mode) Selection {
	out = strings.TrimSuffix(out, "\n")
	if mode != ModeTopics {
		return Selection{Line: out}
	}

	query, line, _ := strings.Cut(out, "\n")
	return Selection{Query: query, Line: line}
}
