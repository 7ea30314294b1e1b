package llm

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_llm.go -package=mocks notes-explorer/internal/llm Embedder,TopicExtractor,Chunker,Completer

import "context"

// Embedder turns text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// TopicExtractor proposes topic labels for a note, preferring labels from existing.
type TopicExtractor interface {
	ExtractTopics(ctx context.Context, noteText string, existing []string) ([]string, error)
}

// Chunker splits a note into ordered, topic-coherent verbatim spans.
type Chunker interface {
	ChunkNote(ctx context.Context, noteText string) ([]string, error)
}

// Completer streams a chat answer token by token.
// onToken is called for every non-empty token as soon as it arrives.
type Completer interface {
	StreamChat(ctx context.Context, systemPrompt, userPrompt string, onToken func(token string) error) error
}

// ChatParams holds parameters for structured chat completion requests.
type ChatParams struct {
	// MaxTokens specifies the maximum number of tokens to generate.
	// If 0, no limit is applied.
	MaxTokens int

	// Temperature controls the randomness of the output.
	Temperature float32
}

// structuredParams are used for topic extraction and chunking.
var structuredParams = ChatParams{
	MaxTokens:   2500,
	Temperature: 0.2,
}
