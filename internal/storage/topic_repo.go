package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_topic_store.go -package=mocks notes-explorer/internal/storage TopicStore

import (
	"context"
	"database/sql"
	"fmt"
)

// TopicStore defines the interface for topic vocabulary operations.
type TopicStore interface {
	// List returns every topic in insertion order.
	List(ctx context.Context) ([]TopicRecord, error)
	// Insert adds a topic, replacing any row with the same label.
	Insert(ctx context.Context, topic *TopicRecord) error
}

// TopicRepo provides methods for topic operations.
// It implements the TopicStore interface.
type TopicRepo struct {
	db *sql.DB
}

// NewTopicRepo creates a new TopicRepo.
func NewTopicRepo(db *sql.DB) *TopicRepo {
	return &TopicRepo{db: db}
}

// List returns every topic in insertion order.
func (r *TopicRepo) List(ctx context.Context) ([]TopicRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT topic, embedding FROM topics ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query topics: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var topics []TopicRecord
	for rows.Next() {
		var (
			topic TopicRecord
			raw   []byte
		)
		if err := rows.Scan(&topic.Topic, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan topic: %w", err)
		}
		topic.Embedding, err = decodeVector(raw)
		if err != nil {
			return nil, fmt.Errorf("topic %q: %w", topic.Topic, err)
		}
		topics = append(topics, topic)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return topics, nil
}

// Insert adds a topic, replacing any row with the same label.
// Ingestion only inserts labels missing from its vocabulary snapshot, so the
// replace only fires when one extractor response repeats a new label.
func (r *TopicRepo) Insert(ctx context.Context, topic *TopicRecord) error {
	vec, err := encodeVector(topic.Embedding)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO topics (topic, embedding) VALUES (?, ?)",
		topic.Topic, vec,
	)
	if err != nil {
		return fmt.Errorf("failed to insert topic: %w", err)
	}
	return nil
}
