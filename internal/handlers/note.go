package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	ghhtml "github.com/yuin/goldmark/renderer/html"

	"notes-explorer/internal/contextutil"
	"notes-explorer/internal/search"
	"notes-explorer/internal/vault"
)

// NoteHandler serves markdown notes as rendered HTML pages. An optional
// lines=start:end query parameter shows those lines highlighted above the
// rendered note.
type NoteHandler struct {
	scanner  *vault.Scanner
	parser   goldmark.Markdown
	template *template.Template
}

// excerptLine is one numbered source line of the highlighted range.
type excerptLine struct {
	Number int
	Text   string
}

// notePageData holds template data for rendered note pages.
type notePageData struct {
	Title   string
	RelPath string
	Lines   string
	Excerpt []excerptLine
	Content template.HTML
}

// NewNoteHandler creates a new handler for serving note files from the
// scanner's notes directory.
func NewNoteHandler(scanner *vault.Scanner) *NoteHandler {
	tmpl := template.Must(template.New("note").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    :root {
      color-scheme: dark;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 900px;
      line-height: 1.7;
      background: #050b18;
      color: #e4ecff;
    }
    header {
      margin-bottom: 2rem;
      border-bottom: 1px solid rgba(148, 163, 184, 0.2);
      padding-bottom: 1.5rem;
    }
    h1 {
      margin-top: 0;
      color: #fff;
      font-size: 2rem;
    }
    article {
      background: rgba(12, 19, 35, 0.85);
      border: 1px solid rgba(99, 102, 241, 0.2);
      border-radius: 16px;
      padding: 2rem;
    }
    pre {
      background: #0f172a;
      padding: 1rem;
      overflow-x: auto;
      border-radius: 10px;
      border: 1px solid rgba(99, 102, 241, 0.2);
    }
    code {
      font-family: 'SFMono-Regular', Consolas, 'Liberation Mono', Menlo, monospace;
    }
    .excerpt {
      margin-bottom: 2rem;
    }
    .excerpt mark {
      display: block;
      background: rgba(250, 204, 21, 0.18);
      color: #fef9c3;
    }
    .excerpt .ln {
      color: #64748b;
      user-select: none;
      padding-right: 1rem;
    }
    .meta {
      color: #94a3b8;
      font-size: 0.95rem;
      margin-top: 0.5rem;
    }
  </style>
</head>
<body>
  <header>
    <h1>{{.Title}}</h1>
    <p class="meta">Path: {{.RelPath}}{{if .Lines}} &middot; Lines: {{.Lines}}{{end}}</p>
  </header>
  {{if .Excerpt}}<pre class="excerpt"><code>{{range .Excerpt}}<mark><span class="ln">{{.Number}}</span>{{.Text}}</mark>{{end}}</code></pre>{{end}}
  <article>{{.Content}}</article>
</body>
</html>`))

	return &NoteHandler{
		scanner: scanner,
		parser: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Table,
				extension.TaskList,
				extension.Strikethrough,
				extension.Linkify,
				extension.Typographer,
			),
			goldmark.WithRendererOptions(
				ghhtml.WithUnsafe(),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
		template: tmpl,
	}
}

// ServeHTTP renders the requested note file as HTML.
func (h *NoteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	rawRelPath := chi.URLParam(r, "*")
	decodedRelPath, err := url.PathUnescape(rawRelPath)
	if err != nil {
		http.Error(w, "invalid path encoding", http.StatusBadRequest)
		return
	}

	relPath, err := cleanRelPath(decodedRelPath)
	if err != nil || !strings.EqualFold(filepath.Ext(relPath), ".md") {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}

	start, end, err := parseLineRange(r.URL.Query().Get("lines"))
	if err != nil {
		http.Error(w, "invalid lines parameter", http.StatusBadRequest)
		return
	}

	absPath, err := buildAbsPath(h.scanner.Root(), relPath)
	if err != nil {
		logger.WarnContext(ctx, "invalid note path", "rel_path", relPath, "error", err)
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}

	content, err := h.scanner.ReadFile(absPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.Error(w, "note not found", http.StatusNotFound)
			return
		}
		logger.ErrorContext(ctx, "failed to read note", "path", absPath, "error", err)
		http.Error(w, "failed to read note", http.StatusInternalServerError)
		return
	}

	htmlContent, err := h.renderMarkdown([]byte(content))
	if err != nil {
		logger.ErrorContext(ctx, "failed to render markdown", "path", absPath, "error", err)
		http.Error(w, "failed to render note", http.StatusInternalServerError)
		return
	}

	pageData := notePageData{
		Title:   inferTitle(relPath),
		RelPath: relPath,
		Content: template.HTML(htmlContent),
	}
	if start > 0 {
		pageData.Lines = fmt.Sprintf("%d:%d", start, end)
		pageData.Excerpt = excerpt(search.SplitLines(content), start, end)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.template.Execute(w, pageData); err != nil {
		logger.ErrorContext(ctx, "failed to execute note template", "path", absPath, "error", err)
		http.Error(w, "failed to render note", http.StatusInternalServerError)
		return
	}
}

func (h *NoteHandler) renderMarkdown(content []byte) (string, error) {
	var buf bytes.Buffer
	if err := h.parser.Convert(content, &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

// parseLineRange parses "start:end". An empty value means no range.
func parseLineRange(raw string) (start, end int, err error) {
	if raw == "" {
		return 0, 0, nil
	}

	first, last, ok := strings.Cut(raw, ":")
	if !ok {
		return 0, 0, errors.New("expected start:end")
	}
	start, err = strconv.Atoi(first)
	if err != nil {
		return 0, 0, fmt.Errorf("start: %w", err)
	}
	end, err = strconv.Atoi(last)
	if err != nil {
		return 0, 0, fmt.Errorf("end: %w", err)
	}
	if start < 1 || end < start {
		return 0, 0, fmt.Errorf("invalid range %d:%d", start, end)
	}
	return start, end, nil
}

// excerpt returns lines start..end, clipped to the file.
func excerpt(lines []string, start, end int) []excerptLine {
	if end > len(lines) {
		end = len(lines)
	}
	var out []excerptLine
	for n := start; n <= end; n++ {
		out = append(out, excerptLine{Number: n, Text: lines[n-1]})
	}
	return out
}

func cleanRelPath(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errors.New("empty path")
	}

	cleaned := path.Clean("/" + trimmed)
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." {
		return "", errors.New("invalid path")
	}

	for _, segment := range strings.Split(cleaned, "/") {
		if segment == ".." {
			return "", errors.New("path traversal detected")
		}
	}

	return cleaned, nil
}

func buildAbsPath(root, rel string) (string, error) {
	root = filepath.Clean(root)
	relFS := filepath.FromSlash(rel)
	abs := filepath.Join(root, relFS)

	if !strings.HasPrefix(abs, root+string(os.PathSeparator)) && abs != root {
		return "", errors.New("path escapes notes root")
	}
	return abs, nil
}

func inferTitle(rel string) string {
	base := filepath.Base(rel)
	if base == "." || base == "" {
		return "Note"
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
