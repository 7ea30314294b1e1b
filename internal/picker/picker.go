// Package picker presents query results and topics for interactive
// selection, either through fzf or a built-in terminal UI.
package picker

import (
	"context"
	"errors"
)

// ErrAborted is returned when the user cancels the picker.
var ErrAborted = errors.New("picker aborted")

// Mode selects how the picker presents its lines.
type Mode int

const (
	// ModeResults shows result lines with a preview of the chunk's line range.
	ModeResults Mode = iota
	// ModeTopics shows topic lines and also returns what the user typed.
	ModeTopics
)

// Selection is the outcome of a pick. Line is empty when nothing matched
// the typed query. Query is only set in ModeTopics.
type Selection struct {
	Query string
	Line  string
}

// Picker lets the user choose one of a set of tab-separated lines. Only the
// first field of each line is displayed.
type Picker interface {
	Pick(ctx context.Context, lines []string, mode Mode) (Selection, error)
}
