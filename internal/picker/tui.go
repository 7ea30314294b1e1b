package picker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"notes-explorer/internal/search"
)

// previewContext is the number of lines shown around a result's range.
const previewContext = 3

var (
	listBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	previewBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	cursorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	highlightStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// TUIPicker is a built-in terminal picker for machines without fzf.
type TUIPicker struct {
	readFile func(path string) (string, error)
}

// NewTUIPicker creates a terminal picker. readFile loads notes for the
// result preview.
func NewTUIPicker(readFile func(path string) (string, error)) *TUIPicker {
	return &TUIPicker{readFile: readFile}
}

// Pick runs the picker on the terminal until the user selects or aborts.
func (p *TUIPicker) Pick(ctx context.Context, lines []string, mode Mode) (Selection, error) {
	prog := tea.NewProgram(
		newModel(lines, mode, p.readFile),
		tea.WithContext(ctx),
		tea.WithOutput(os.Stderr),
		tea.WithAltScreen(),
	)

	final, err := prog.Run()
	if err != nil {
		if ctx.Err() != nil {
			return Selection{}, ctx.Err()
		}
		return Selection{}, fmt.Errorf("picker failed: %w", err)
	}

	m, ok := final.(model)
	if !ok {
		return Selection{}, errors.New("picker returned unexpected model")
	}
	if m.aborted {
		return Selection{}, ErrAborted
	}
	return m.selection, nil
}

// model is the Bubble Tea model behind TUIPicker.
type model struct {
	mode     Mode
	lines    []string
	matches  []int
	cursor   int
	input    textinput.Model
	preview  viewport.Model
	readFile func(path string) (string, error)
	files    map[string][]string
	height   int
	ready    bool

	selection Selection
	aborted   bool
}

func newModel(lines []string, mode Mode, readFile func(string) (string, error)) model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type to filter"
	ti.Focus()
	ti.CharLimit = 0

	m := model{
		mode:     mode,
		lines:    lines,
		input:    ti,
		preview:  viewport.New(0, 0),
		readFile: readFile,
		files:    make(map[string][]string),
	}
	m.filter()
	return m
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.height = msg.Height
		_, ph := previewBoxStyle.GetFrameSize()
		m.preview.Width = max(20, msg.Width-4)
		m.preview.Height = max(3, msg.Height/2-ph)
		m.preview.SetContent(m.renderPreview())
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		case tea.KeyEnter:
			if len(m.matches) > 0 {
				m.selection.Line = m.lines[m.matches[m.cursor]]
			}
			if m.mode == ModeTopics {
				m.selection.Query = m.input.Value()
			}
			return m, tea.Quit
		case tea.KeyUp, tea.KeyCtrlP:
			if len(m.matches) > 0 {
				m.cursor = (m.cursor - 1 + len(m.matches)) % len(m.matches)
				m.preview.SetContent(m.renderPreview())
			}
			return m, nil
		case tea.KeyDown, tea.KeyCtrlN:
			if len(m.matches) > 0 {
				m.cursor = (m.cursor + 1) % len(m.matches)
				m.preview.SetContent(m.renderPreview())
			}
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.filter()
		m.preview.SetContent(m.renderPreview())
	}
	return m, cmd
}

func (m model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	limit := len(m.matches)
	if m.height > 0 && m.mode == ModeResults {
		limit = min(limit, max(1, m.height/2-4))
	}
	for i := 0; i < limit; i++ {
		text := displayField(m.lines[m.matches[i]])
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("▌ " + text))
		} else {
			b.WriteString("  " + text)
		}
		b.WriteString("\n")
	}
	status := dimStyle.Render(fmt.Sprintf("%d/%d", len(m.matches), len(m.lines)))

	view := listBoxStyle.Render(strings.TrimSuffix(b.String(), "\n")) + "\n"
	if m.mode == ModeResults {
		view += previewBoxStyle.Render(m.preview.View()) + "\n"
	}
	return view + m.input.View() + "  " + status
}

// filter keeps the lines whose display field fuzzily matches the input.
func (m *model) filter() {
	query := m.input.Value()
	m.matches = m.matches[:0]
	for i, line := range m.lines {
		if fuzzyMatch(displayField(line), query) {
			m.matches = append(m.matches, i)
		}
	}
	m.cursor = 0
}

// renderPreview shows the current result's line range with surrounding context.
func (m *model) renderPreview() string {
	if m.mode != ModeResults || len(m.matches) == 0 {
		return ""
	}
	r, ok := parseResultLine(m.lines[m.matches[m.cursor]])
	if !ok {
		return ""
	}

	lines, ok := m.files[r.file]
	if !ok {
		content, err := m.readFile(r.file)
		if err != nil {
			return dimStyle.Render(err.Error())
		}
		lines = search.SplitLines(content)
		m.files[r.file] = lines
	}

	return renderRange(r.file, lines, r.start, r.end)
}

func renderRange(file string, lines []string, start, end int) string {
	var b strings.Builder
	b.WriteString(dimStyle.Render(fmt.Sprintf("%s:%d:%d", file, start, end)))
	b.WriteString("\n")

	from := max(1, start-previewContext)
	to := min(len(lines), end+previewContext)
	for n := from; n <= to; n++ {
		text := strings.TrimRight(lines[n-1], "\r")
		if n >= start && n <= end {
			text = highlightStyle.Render(text)
		}
		fmt.Fprintf(&b, "%s %s\n", dimStyle.Render(fmt.Sprintf("%4d", n)), text)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// fuzzyMatch reports whether every whitespace-separated term of query occurs
// in text as a subsequence, ignoring case.
func fuzzyMatch(text, query string) bool {
	text = strings.ToLower(text)
	for _, term := range strings.Fields(strings.ToLower(query)) {
		if !subsequence(text, term) {
			return false
		}
	}
	return true
}

func subsequence(text, term string) bool {
	want := []rune(term)
	i := 0
	for _, r := range text {
		if r == want[i] {
			i++
			if i == len(want) {
				return true
			}
		}
	}
	return false
}
