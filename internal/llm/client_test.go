package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Config{
		BaseURL:        server.URL + "/v1",
		APIKey:         "test-key",
		EmbeddingModel: "test-embedding",
		ChatModel:      "test-chat",
		Timeout:        5 * time.Second,
	})
}

func writeChatContent(w http.ResponseWriter, content string) {
	resp := map[string]any{
		"id":     "test-id",
		"object": "chat.completion",
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func TestNewClient(t *testing.T) {
	client := NewClient(Config{APIKey: "test-key", EmbeddingModel: "embed", ChatModel: "chat"})
	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.EmbeddingModel != "embed" {
		t.Errorf("NewClient() EmbeddingModel = %v, want embed", client.EmbeddingModel)
	}
	if client.ChatModel != "chat" {
		t.Errorf("NewClient() ChatModel = %v, want chat", client.ChatModel)
	}
	if client.api == nil {
		t.Error("NewClient() api should not be nil")
	}
}

func TestClient_Embed(t *testing.T) {
	tests := []struct {
		name       string
		serverResp func(w http.ResponseWriter, r *http.Request)
		want       []float32
		wantErr    bool
	}{
		{
			name: "successful embedding",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.URL.Path != "/v1/embeddings" {
					t.Errorf("expected /v1/embeddings, got %s", r.URL.Path)
				}
				if !strings.Contains(r.Header.Get("Authorization"), "Bearer test-key") {
					t.Error("missing Authorization header")
				}

				var req map[string]any
				_ = json.NewDecoder(r.Body).Decode(&req)
				if req["model"] != "test-embedding" {
					t.Errorf("model = %v, want test-embedding", req["model"])
				}

				w.Header().Set("Content-Type", "application/json")
				_, _ = fmt.Fprint(w, `{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.5,-0.25,1]}]}`)
			},
			want: []float32{0.5, -0.25, 1},
		},
		{
			name: "no embedding returned",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = fmt.Fprint(w, `{"object":"list","data":[]}`)
			},
			wantErr: true,
		},
		{
			name: "server error",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = fmt.Fprint(w, `{"error":{"message":"boom","type":"server_error"}}`)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.serverResp)

			got, err := client.Embed(context.Background(), "hello")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Embed() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var te *TransportError
				if !errors.As(err, &te) {
					t.Errorf("Embed() error = %T, want *TransportError", err)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Embed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClient_ExtractTopics(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		want      []string
		wantParse bool
	}{
		{
			name:    "topics array",
			content: `{"topics": ["Exercise", "Live Music"]}`,
			want:    []string{"Exercise", "Live Music"},
		},
		{
			name:    "empty array",
			content: `{"topics": []}`,
			want:    []string{},
		},
		{
			name:      "not json",
			content:   "Exercise, Live Music",
			wantParse: true,
		},
		{
			name:      "missing key",
			content:   `{"themes": ["Exercise"]}`,
			wantParse: true,
		},
		{
			name:      "wrong element type",
			content:   `{"topics": [1, 2]}`,
			wantParse: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/chat/completions" {
					t.Errorf("expected /v1/chat/completions, got %s", r.URL.Path)
				}

				var req struct {
					Model          string  `json:"model"`
					Temperature    float32 `json:"temperature"`
					MaxTokens      int     `json:"max_tokens"`
					ResponseFormat struct {
						Type string `json:"type"`
					} `json:"response_format"`
					Messages []struct {
						Role    string `json:"role"`
						Content string `json:"content"`
					} `json:"messages"`
				}
				_ = json.NewDecoder(r.Body).Decode(&req)
				if req.Model != "test-chat" {
					t.Errorf("model = %v, want test-chat", req.Model)
				}
				if req.ResponseFormat.Type != "json_object" {
					t.Errorf("response_format = %v, want json_object", req.ResponseFormat.Type)
				}
				if req.MaxTokens != 2500 {
					t.Errorf("max_tokens = %v, want 2500", req.MaxTokens)
				}
				if len(req.Messages) != 2 || !strings.Contains(req.Messages[0].Content, "Reading, Travel") {
					t.Error("system prompt should list existing topics")
				}

				writeChatContent(w, tt.content)
			})

			got, err := client.ExtractTopics(context.Background(), "I went to the gym.", []string{"Reading", "Travel"})
			if tt.wantParse {
				var pe *ParseError
				if !errors.As(err, &pe) {
					t.Fatalf("ExtractTopics() error = %v, want *ParseError", err)
				}
				if pe.Raw != tt.content {
					t.Errorf("ParseError.Raw = %q, want %q", pe.Raw, tt.content)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractTopics() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractTopics() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClient_ChunkNote(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		want      []string
		wantParse bool
	}{
		{
			name:    "chunks array",
			content: `{"chunks": ["first part", "second part"]}`,
			want:    []string{"first part", "second part"},
		},
		{
			name:      "truncated json",
			content:   `{"chunks": ["first part"`,
			wantParse: true,
		},
		{
			name:      "null chunks",
			content:   `{"chunks": null}`,
			wantParse: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeChatContent(w, tt.content)
			})

			got, err := client.ChunkNote(context.Background(), "first part\n\nsecond part")
			if tt.wantParse {
				var pe *ParseError
				if !errors.As(err, &pe) {
					t.Fatalf("ChunkNote() error = %v, want *ParseError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ChunkNote() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ChunkNote() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClient_ChunkNote_TransportError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = fmt.Fprint(w, `{"error":{"message":"bad key","type":"invalid_request_error"}}`)
	})

	_, err := client.ChunkNote(context.Background(), "note")
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("ChunkNote() error = %v, want *TransportError", err)
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		t.Error("transport failure must not be reported as a parse error")
	}
}

func TestClient_StreamChat(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("expected /v1/chat/completions, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "text/event-stream")

		for _, token := range []string{"Hello", " ", "world"} {
			chunk := map[string]any{
				"id":      "test-id",
				"object":  "chat.completion.chunk",
				"choices": []map[string]any{{"index": 0, "delta": map[string]any{"content": token}}},
			}
			data, _ := json.Marshal(chunk)
			_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
		}
		_, _ = fmt.Fprint(w, "data: [DONE]\n\n")
	})

	var tokens []string
	err := client.StreamChat(context.Background(), "system", "question", func(token string) error {
		tokens = append(tokens, token)
		return nil
	})
	if err != nil {
		t.Fatalf("StreamChat() unexpected error: %v", err)
	}

	want := []string{"Hello", " ", "world"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("StreamChat() tokens = %v, want %v", tokens, want)
	}
}

func TestClient_StreamChat_CallbackError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = fmt.Fprint(w, `data: {"choices":[{"index":0,"delta":{"content":"Hi"}}]}`+"\n\n")
		_, _ = fmt.Fprint(w, "data: [DONE]\n\n")
	})

	sentinel := errors.New("client went away")
	err := client.StreamChat(context.Background(), "system", "question", func(string) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("StreamChat() error = %v, want wrapped %v", err, sentinel)
	}
}
