package llm

import (
	"context"
	"encoding/json"
	"errors"
)

const chunksSystemPrompt = `You will receive the contents of a daily note in markdown. Split the content into chunks. Consecutive sentences about the same topic belong in the same chunk.

Respond only with valid JSON: an object holding a single "chunks" array of plain strings, with no additional information. Every chunk must be text copied exactly from the note.

Example output:
{"chunks": ["I read a book this morning about architecture. It is really good.", "Dogs are my favourite animal."]}
`

type chunksResponse struct {
	Chunks []string `json:"chunks"`
}

// ChunkNote asks the chat model to split a note into topic-coherent chunks.
// A response that is not a JSON object with a "chunks" array of strings is
// reported as a *ParseError.
func (c *Client) ChunkNote(ctx context.Context, noteText string) ([]string, error) {
	user := "Here is the content of the daily note:\n" + noteText

	raw, err := c.ChatJSON(ctx, "chunk note", chunksSystemPrompt, user, structuredParams)
	if err != nil {
		return nil, err
	}

	return parseChunks(raw)
}

func parseChunks(raw string) ([]string, error) {
	var resp chunksResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, &ParseError{Op: "chunk note", Raw: raw, Err: err}
	}
	if resp.Chunks == nil {
		return nil, &ParseError{Op: "chunk note", Raw: raw, Err: errors.New(`missing "chunks" array`)}
	}
	return resp.Chunks, nil
}
