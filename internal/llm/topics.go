package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const topicsSystemPrompt = `Task:

You will receive the contents of a daily note. Identify the main themes the note discusses and return them as JSON. Themes must be short, simple keywords or phrases that capture the content, with no explanation or supporting text.

You will also receive the topics already used for other notes. Reuse an existing topic whenever one is similar to a theme in this note. Only introduce a new topic when no existing topic is similar.

Steps:

Read the note carefully.
Find the key themes: recurring subjects or activities in the note.
Reduce each theme to a concise keyword or phrase.
Respond with a JSON object holding a single "topics" array of plain strings.

Example input:
I went to the gym today. Later that evening, I went to a concert.

Example output:
{"topics": ["Exercise", "Live Music"]}

Existing topics:
%s
`

type topicsResponse struct {
	Topics []string `json:"topics"`
}

// ExtractTopics asks the chat model for the note's topics, passing the
// existing vocabulary so labels can be reused. A response that is not a JSON
// object with a "topics" array of strings is reported as a *ParseError.
func (c *Client) ExtractTopics(ctx context.Context, noteText string, existing []string) ([]string, error) {
	system := fmt.Sprintf(topicsSystemPrompt, strings.Join(existing, ", "))
	user := "Here is the content of my daily note:\n" + noteText

	raw, err := c.ChatJSON(ctx, "extract topics", system, user, structuredParams)
	if err != nil {
		return nil, err
	}

	return parseTopics(raw)
}

func parseTopics(raw string) ([]string, error) {
	var resp topicsResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, &ParseError{Op: "extract topics", Raw: raw, Err: err}
	}
	if resp.Topics == nil {
		return nil, &ParseError{Op: "extract topics", Raw: raw, Err: errors.New(`missing "topics" array`)}
	}
	return resp.Topics, nil
}
