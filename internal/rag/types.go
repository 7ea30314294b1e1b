package rag

const (
	// ResultLimit is the number of results presented for a query.
	ResultLimit = 10
	// ContextLimit is the number of chunks given to the model as context.
	ContextLimit = 5
)

// Result is a ranked chunk with the line range it covers in its file.
type Result struct {
	// Content is the chunk text.
	Content string `json:"content"`
	// File is the note path the chunk came from.
	File string `json:"file"`
	// Start is the first 1-based line of the chunk in the file.
	Start int `json:"start"`
	// End is the last 1-based line of the chunk in the file.
	End int `json:"end"`
	// Score is the cosine similarity to the query vector.
	Score float64 `json:"score"`
}

// Topic is a vocabulary entry offered for browsing.
type Topic struct {
	Topic     string    `json:"topic"`
	Embedding []float32 `json:"embedding,omitempty"`
}
