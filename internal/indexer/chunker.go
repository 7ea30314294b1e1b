package indexer

import (
	"bytes"
	"context"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

const (
	minChunkSize = 50
	maxChunkSize = 700 // Max runes per chunk
)

// MarkdownChunker splits notes into sections using the goldmark AST.
// It is an offline alternative to the chat-model chunker and never fails.
// Every chunk is a verbatim slice of the source so line ranges can be located.
type MarkdownChunker struct {
	parser goldmark.Markdown
}

// NewMarkdownChunker creates a new goldmark chunker.
func NewMarkdownChunker() *MarkdownChunker {
	return &MarkdownChunker{
		parser: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
	}
}

// ChunkNote returns the chunk texts of a note. It implements llm.Chunker.
func (c *MarkdownChunker) ChunkNote(_ context.Context, noteText string) ([]string, error) {
	chunks := c.ChunkMarkdown([]byte(noteText))
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	return texts, nil
}

// ChunkMarkdown parses markdown content and returns its chunks.
// Sections start at top-level headings; tiny sections are merged with the
// next one and oversized sections are split at paragraph, then line, boundaries.
func (c *MarkdownChunker) ChunkMarkdown(content []byte) []Chunk {
	if len(bytes.TrimSpace(content)) == 0 {
		return []Chunk{}
	}

	doc := c.parser.Parser().Parse(text.NewReader(content))
	sections := mergeSmallSections(content, sectionSpans(doc, content))

	chunks := []Chunk{}
	for _, section := range sections {
		for _, piece := range splitSpan(content, section.start, section.end) {
			chunkText := strings.Trim(string(content[piece.start:piece.end]), "\n")
			if strings.TrimSpace(chunkText) == "" {
				continue
			}
			chunks = append(chunks, Chunk{
				Index:       len(chunks),
				HeadingPath: section.headingPath,
				Text:        chunkText,
			})
		}
	}

	return chunks
}

type span struct {
	start, end  int
	headingPath string
}

type headingInfo struct {
	level int
	text  string
}

// sectionSpans returns byte ranges covering the whole document, one per
// top-level heading plus any preamble before the first heading.
func sectionSpans(doc ast.Node, content []byte) []span {
	var spans []span
	var stack []headingInfo
	current := span{start: 0}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		heading, ok := n.(*ast.Heading)
		if !ok || heading.Lines().Len() == 0 {
			continue
		}

		offset := lineStart(content, heading.Lines().At(0).Start)
		if offset > current.start {
			current.end = offset
			spans = append(spans, current)
		}

		for len(stack) > 0 && stack[len(stack)-1].level >= heading.Level {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, headingInfo{
			level: heading.Level,
			text:  strings.TrimSpace(string(heading.Lines().Value(content))),
		})

		current = span{start: offset, headingPath: buildHeadingPath(stack)}
	}

	current.end = len(content)
	if current.end > current.start {
		spans = append(spans, current)
	}
	return spans
}

func buildHeadingPath(stack []headingInfo) string {
	parts := make([]string, len(stack))
	for i, h := range stack {
		parts[i] = strings.Repeat("#", h.level) + " " + h.text
	}
	return strings.Join(parts, " > ")
}

func lineStart(content []byte, pos int) int {
	if pos > len(content) {
		pos = len(content)
	}
	return bytes.LastIndexByte(content[:pos], '\n') + 1
}

func runeLen(b []byte) int {
	return utf8.RuneCount(bytes.TrimSpace(b))
}

// mergeSmallSections merges sections shorter than minChunkSize into the next
// section as long as the result stays within maxChunkSize.
func mergeSmallSections(content []byte, spans []span) []span {
	var out []span
	for i := 0; i < len(spans); i++ {
		cur := spans[i]
		for i+1 < len(spans) &&
			runeLen(content[cur.start:cur.end]) < minChunkSize &&
			runeLen(content[cur.start:spans[i+1].end]) <= maxChunkSize {
			if cur.headingPath == "" {
				cur.headingPath = spans[i+1].headingPath
			}
			cur.end = spans[i+1].end
			i++
		}
		out = append(out, cur)
	}
	return out
}

// splitSpan splits a byte range exceeding maxChunkSize at paragraph
// boundaries, then at line boundaries. A single line is never split.
func splitSpan(content []byte, start, end int) []span {
	if runeLen(content[start:end]) <= maxChunkSize {
		return []span{{start: start, end: end}}
	}

	var out []span
	for _, p := range splitOn(content, start, end, "\n\n") {
		if runeLen(content[p.start:p.end]) > maxChunkSize {
			out = append(out, splitOn(content, p.start, p.end, "\n")...)
			continue
		}
		out = append(out, p)
	}
	return out
}

func splitOn(content []byte, start, end int, sep string) []span {
	var out []span
	pieceStart, cut, pos := start, -1, start

	for {
		i := bytes.Index(content[pos:end], []byte(sep))
		if i < 0 {
			break
		}
		next := pos + i + len(sep)
		if cut > pieceStart && runeLen(content[pieceStart:next]) > maxChunkSize {
			out = append(out, span{start: pieceStart, end: cut})
			pieceStart = cut
		}
		cut, pos = next, next
	}

	if cut > pieceStart && cut < end && runeLen(content[pieceStart:end]) > maxChunkSize {
		out = append(out, span{start: pieceStart, end: cut})
		pieceStart = cut
	}
	return append(out, span{start: pieceStart, end: end})
}
