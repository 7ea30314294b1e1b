package picker

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"notes-explorer/internal/rag"
)

var newlines = regexp.MustCompile(`[\r\n]+`)

// FormatResult renders a result as "content<TAB>file<TAB>start:end" with
// every run of line breaks in the content collapsed to one space.
func FormatResult(r rag.Result) string {
	return fmt.Sprintf("%s\t%s\t%d:%d", newlines.ReplaceAllString(r.Content, " "), r.File, r.Start, r.End)
}

// FormatResults renders one line per result, in order.
func FormatResults(results []rag.Result) []string {
	lines := make([]string, len(results))
	for i, r := range results {
		lines[i] = FormatResult(r)
	}
	return lines
}

// FormatTopic renders a topic as "topic<TAB>embeddingJSON".
func FormatTopic(t rag.Topic) (string, error) {
	vec, err := json.Marshal(t.Embedding)
	if err != nil {
		return "", fmt.Errorf("failed to encode embedding for topic %q: %w", t.Topic, err)
	}
	return t.Topic + "\t" + string(vec), nil
}

// FormatTopics renders one line per topic, in order.
func FormatTopics(topics []rag.Topic) ([]string, error) {
	lines := make([]string, 0, len(topics))
	for _, t := range topics {
		line, err := FormatTopic(t)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// ParseTopicLine splits a selected topic line into its label and embedding.
func ParseTopicLine(line string) (string, []float32, error) {
	topic, raw, ok := strings.Cut(line, "\t")
	if !ok {
		return "", nil, fmt.Errorf("topic line has no embedding: %q", line)
	}
	var vec []float32
	if err := json.Unmarshal([]byte(raw), &vec); err != nil {
		return "", nil, fmt.Errorf("failed to decode embedding for topic %q: %w", topic, err)
	}
	return topic, vec, nil
}

// resultLine is a parsed result line.
type resultLine struct {
	content    string
	file       string
	start, end int
}

func parseResultLine(line string) (resultLine, bool) {
	fields := strings.Split(line, "\t")
	if len(fields) != 3 {
		return resultLine{}, false
	}
	first, last, ok := strings.Cut(fields[2], ":")
	if !ok {
		return resultLine{}, false
	}
	start, err := strconv.Atoi(first)
	if err != nil {
		return resultLine{}, false
	}
	end, err := strconv.Atoi(last)
	if err != nil {
		return resultLine{}, false
	}
	return resultLine{content: fields[0], file: fields[1], start: start, end: end}, true
}

// displayField returns the first tab-separated field, the part shown to the user.
func displayField(line string) string {
	field, _, _ := strings.Cut(line, "\t")
	return field
}
