package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Config configures the OpenAI-compatible client.
type Config struct {
	BaseURL        string
	APIKey         string
	EmbeddingModel string
	ChatModel      string
	Timeout        time.Duration
}

// Client talks to an OpenAI-compatible API for embeddings, structured
// chat completions and streamed answers. It implements Embedder,
// TopicExtractor, Chunker and Completer.
type Client struct {
	EmbeddingModel string
	ChatModel      string
	api            *openai.Client
}

// NewClient creates a new LLM client.
func NewClient(cfg Config) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	apiCfg.HTTPClient = &http.Client{Timeout: timeout}

	return &Client{
		EmbeddingModel: cfg.EmbeddingModel,
		ChatModel:      cfg.ChatModel,
		api:            openai.NewClientWithConfig(apiCfg),
	}
}

// Embed generates the embedding for a single text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.EmbeddingModel),
		Input: []string{text},
	})
	if err != nil {
		return nil, &TransportError{Op: "embed", Err: err}
	}

	if len(resp.Data) != 1 {
		return nil, &TransportError{Op: "embed", Err: fmt.Errorf("expected 1 embedding, got %d", len(resp.Data))}
	}

	return resp.Data[0].Embedding, nil
}

// ChatJSON sends a system and user message and returns the raw content of a
// JSON-object response.
func (c *Client) ChatJSON(ctx context.Context, op, systemPrompt, userPrompt string, params ChatParams) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.ChatModel,
		MaxTokens:   params.MaxTokens,
		Temperature: params.Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", &TransportError{Op: op, Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &ParseError{Op: op, Err: errors.New("no choices returned")}
	}

	return resp.Choices[0].Message.Content, nil
}

// StreamChat sends a streaming chat completion request and calls onToken for
// every content delta as it arrives.
func (c *Client) StreamChat(ctx context.Context, systemPrompt, userPrompt string, onToken func(token string) error) error {
	stream, err := c.api.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model: c.ChatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Stream: true,
	})
	if err != nil {
		return &TransportError{Op: "stream chat", Err: err}
	}
	defer func() {
		_ = stream.Close()
	}()

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return &TransportError{Op: "stream chat", Err: err}
		}

		if len(resp.Choices) == 0 {
			continue
		}

		token := resp.Choices[0].Delta.Content
		if token != "" {
			if err := onToken(token); err != nil {
				return fmt.Errorf("callback error: %w", err)
			}
		}

		if resp.Choices[0].FinishReason != "" {
			return nil
		}
	}
}
