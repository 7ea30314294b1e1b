package indexer

import (
	"log/slog"
	"math"
	"sort"
	"time"
	"unicode/utf8"
)

// TokensPerRune is an approximation for token counting (4 chars per token).
const TokensPerRune = 4.0

// IngestStats summarizes one ingestion run.
type IngestStats struct {
	RunID              string          `json:"run_id"`
	FilesScanned       int             `json:"files_scanned"`
	FilesSkipped       int             `json:"files_skipped"`
	FilesUpdated       int             `json:"files_updated"`
	TopicsCreated      int             `json:"topics_created"`
	ChunksWritten      int             `json:"chunks_written"`
	TopicParseFailures int             `json:"topic_parse_failures"`
	ChunkParseFailures int             `json:"chunk_parse_failures"`
	ChunkTokenStats    ChunkTokenStats `json:"chunk_token_stats"`
	DurationMS         int64           `json:"duration_ms"`

	tokenCounts []int
}

// ChunkTokenStats contains statistics about estimated token counts of the
// chunks written during a run.
type ChunkTokenStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
	P95  int     `json:"p95"`
}

func (s *IngestStats) record(r FileResult) {
	switch r.Status {
	case FileSkipped:
		s.FilesSkipped++
		return
	case FileUpdated:
		s.FilesUpdated++
	}

	s.TopicsCreated += r.TopicsCreated
	s.ChunksWritten += r.Chunks
	if r.TopicErr != nil {
		s.TopicParseFailures++
	}
	if r.ChunkErr != nil {
		s.ChunkParseFailures++
	}
	s.tokenCounts = append(s.tokenCounts, r.chunkTokens...)
}

func (s *IngestStats) finish(started time.Time) {
	s.ChunkTokenStats = computeTokenStats(s.tokenCounts)
	s.DurationMS = time.Since(started).Milliseconds()
}

// LogAttrs returns the stats as slog attributes.
func (s *IngestStats) LogAttrs() []any {
	return []any{
		slog.Int("files_scanned", s.FilesScanned),
		slog.Int("files_skipped", s.FilesSkipped),
		slog.Int("files_updated", s.FilesUpdated),
		slog.Int("topics_created", s.TopicsCreated),
		slog.Int("chunks_written", s.ChunksWritten),
		slog.Int("topic_parse_failures", s.TopicParseFailures),
		slog.Int("chunk_parse_failures", s.ChunkParseFailures),
		slog.Int64("duration_ms", s.DurationMS),
	}
}

// estimateTokens estimates tokens from rune count (~4 chars per token).
func estimateTokens(text string) int {
	tokens := int(math.Round(float64(utf8.RuneCountInString(text)) / TokensPerRune))
	if tokens < 1 {
		return 1
	}
	return tokens
}

// computeTokenStats computes min, max, mean, and p95 from token counts.
func computeTokenStats(tokenCounts []int) ChunkTokenStats {
	if len(tokenCounts) == 0 {
		return ChunkTokenStats{}
	}

	sorted := make([]int, len(tokenCounts))
	copy(sorted, tokenCounts)
	sort.Ints(sorted)

	sum := 0
	for _, count := range sorted {
		sum += count
	}
	mean := float64(sum) / float64(len(sorted))

	p95Index := int(math.Ceil(float64(len(sorted)) * 0.95))
	if p95Index >= len(sorted) {
		p95Index = len(sorted) - 1
	}

	return ChunkTokenStats{
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Mean: math.Round(mean*100) / 100, // Round to 2 decimal places
		P95:  sorted[p95Index],
	}
}
