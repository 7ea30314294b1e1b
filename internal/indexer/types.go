package indexer

// Chunk represents a chunk of text from a markdown document.
type Chunk struct {
	Index       int    // Chunk index within note (starts at 0)
	HeadingPath string // Format: "# Heading1 > ## Heading2"
	Text        string // Verbatim slice of the note source
}

// FileStatus describes what ingestion did with a file.
type FileStatus string

const (
	// FileSkipped means the stored modification time matched and nothing was written.
	FileSkipped FileStatus = "skipped"
	// FileUpdated means the note, its topics and its chunks were re-processed.
	FileUpdated FileStatus = "updated"
)

// FileResult is the outcome of ingesting a single file.
type FileResult struct {
	File          string
	Status        FileStatus
	TopicsCreated int
	Chunks        int
	// TopicErr and ChunkErr hold recoverable *llm.ParseError values.
	TopicErr error
	ChunkErr error

	chunkTokens []int
}

// Degraded reports whether part of the file could not be processed.
func (r FileResult) Degraded() bool {
	return r.TopicErr != nil || r.ChunkErr != nil
}
