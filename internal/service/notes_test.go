package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"go.uber.org/mock/gomock"

	"notes-explorer/internal/indexer"
	"notes-explorer/internal/llm"
	"notes-explorer/internal/rag"
	ragmocks "notes-explorer/internal/rag/mocks"
	"notes-explorer/internal/search"
)

type stubIngester struct {
	stats *indexer.IngestStats
	err   error
	calls int
}

func (s *stubIngester) IngestAll(ctx context.Context) (*indexer.IngestStats, error) {
	s.calls++
	return s.stats, s.err
}

func TestNotesService_Query(t *testing.T) {
	results := []rag.Result{{Content: "alpha", File: "/n/a.md", Start: 1, End: 2, Score: 0.9}}

	tests := []struct {
		name      string
		req       QueryRequest
		setupMock func(*ragmocks.MockEngine)
		wantLen    int
		wantErr    error
		notWantErr error
	}{
		{
			name: "text query",
			req:  QueryRequest{Query: "alpha"},
			setupMock: func(m *ragmocks.MockEngine) {
				m.EXPECT().SearchText(gomock.Any(), "alpha").Return(results, nil)
			},
			wantLen: 1,
		},
		{
			name: "vector query",
			req:  QueryRequest{Embedding: []float32{1, 0}},
			setupMock: func(m *ragmocks.MockEngine) {
				m.EXPECT().SearchVector(gomock.Any(), []float32{1, 0}).Return(results, nil)
			},
			wantLen: 1,
		},
		{
			name: "no results is an empty list",
			req:  QueryRequest{Query: "nothing"},
			setupMock: func(m *ragmocks.MockEngine) {
				m.EXPECT().SearchText(gomock.Any(), "nothing").Return(nil, nil)
			},
			wantLen: 0,
		},
		{
			name:      "neither set",
			req:       QueryRequest{Query: "   "},
			setupMock: func(m *ragmocks.MockEngine) {},
			wantErr:   ErrInvalidInput,
		},
		{
			name:      "both set",
			req:       QueryRequest{Query: "alpha", Embedding: []float32{1}},
			setupMock: func(m *ragmocks.MockEngine) {},
			wantErr:   ErrInvalidInput,
		},
		{
			name: "embedding of the wrong length",
			req:  QueryRequest{Embedding: []float32{1, 0, 0}},
			setupMock: func(m *ragmocks.MockEngine) {
				m.EXPECT().SearchVector(gomock.Any(), gomock.Any()).Return(nil, search.ErrDimensionMismatch)
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "text embedding disagrees with the store",
			req:  QueryRequest{Query: "alpha"},
			setupMock: func(m *ragmocks.MockEngine) {
				m.EXPECT().SearchText(gomock.Any(), "alpha").Return(nil, search.ErrDimensionMismatch)
			},
			wantErr:    search.ErrDimensionMismatch,
			notWantErr: ErrInvalidInput,
		},
		{
			name: "stored vectors disagree",
			req:  QueryRequest{Embedding: []float32{1, 0}},
			setupMock: func(m *ragmocks.MockEngine) {
				m.EXPECT().SearchVector(gomock.Any(), gomock.Any()).Return(nil, search.ErrMixedDimensions)
			},
			wantErr:    search.ErrMixedDimensions,
			notWantErr: ErrInvalidInput,
		},
		{
			name: "embedding transport failure",
			req:  QueryRequest{Query: "alpha"},
			setupMock: func(m *ragmocks.MockEngine) {
				m.EXPECT().SearchText(gomock.Any(), "alpha").
					Return(nil, &llm.TransportError{Op: "embed", Err: errors.New("connection refused")})
			},
			wantErr: ErrExternalService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			engine := ragmocks.NewMockEngine(ctrl)
			tt.setupMock(engine)

			svc := NewNotesService(engine, &stubIngester{})
			got, err := svc.Query(context.Background(), tt.req)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Query() error = %v, want %v", err, tt.wantErr)
				}
				if tt.notWantErr != nil && errors.Is(err, tt.notWantErr) {
					t.Errorf("Query() error = %v, should not match %v", err, tt.notWantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Query() unexpected error: %v", err)
			}
			if got.Results == nil {
				t.Fatal("Query() Results = nil, want non-nil slice")
			}
			if len(got.Results) != tt.wantLen {
				t.Errorf("Query() returned %d results, want %d", len(got.Results), tt.wantLen)
			}
		})
	}
}

func TestNotesService_Ask(t *testing.T) {
	tests := []struct {
		name      string
		question  string
		setupMock func(*ragmocks.MockEngine)
		wantOut   string
		wantErr   error
	}{
		{
			name:     "streams answer",
			question: "what did I read?",
			setupMock: func(m *ragmocks.MockEngine) {
				m.EXPECT().Ask(gomock.Any(), "what did I read?", gomock.Any()).
					DoAndReturn(func(ctx context.Context, q string, w io.Writer) error {
						_, _ = io.WriteString(w, "Dune")
						return nil
					})
			},
			wantOut: "Dune",
		},
		{
			name:      "empty question",
			question:  "  ",
			setupMock: func(m *ragmocks.MockEngine) {},
			wantErr:   ErrInvalidInput,
		},
		{
			name:     "completion failure",
			question: "why?",
			setupMock: func(m *ragmocks.MockEngine) {
				m.EXPECT().Ask(gomock.Any(), "why?", gomock.Any()).
					Return(&llm.TransportError{Op: "stream chat", Err: errors.New("timeout")})
			},
			wantErr: ErrExternalService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			engine := ragmocks.NewMockEngine(ctrl)
			tt.setupMock(engine)

			var out bytes.Buffer
			svc := NewNotesService(engine, &stubIngester{})
			err := svc.Ask(context.Background(), AskRequest{Question: tt.question}, &out)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Ask() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Ask() unexpected error: %v", err)
			}
			if out.String() != tt.wantOut {
				t.Errorf("Ask() wrote %q, want %q", out.String(), tt.wantOut)
			}
		})
	}
}

func TestNotesService_Topics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	engine := ragmocks.NewMockEngine(ctrl)
	engine.EXPECT().Topics(gomock.Any()).Return(nil, nil)

	svc := NewNotesService(engine, &stubIngester{})
	got, err := svc.Topics(context.Background())
	if err != nil {
		t.Fatalf("Topics() unexpected error: %v", err)
	}
	if got.Topics == nil || len(got.Topics) != 0 {
		t.Errorf("Topics() = %v, want empty non-nil slice", got.Topics)
	}
}

func TestNotesService_Ingest(t *testing.T) {
	tests := []struct {
		name     string
		ingester *stubIngester
		wantErr  error
	}{
		{
			name:     "success",
			ingester: &stubIngester{stats: &indexer.IngestStats{FilesScanned: 2, FilesUpdated: 1}},
		},
		{
			name:     "already running",
			ingester: &stubIngester{err: indexer.ErrIngestInProgress},
			wantErr:  ErrConflict,
		},
		{
			name: "transport failure",
			ingester: &stubIngester{
				stats: &indexer.IngestStats{FilesScanned: 3},
				err:   &llm.TransportError{Op: "embed", Err: errors.New("401")},
			},
			wantErr: ErrExternalService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := NewNotesService(ragmocks.NewMockEngine(ctrl), tt.ingester)
			stats, err := svc.Ingest(context.Background())

			if tt.ingester.calls != 1 {
				t.Errorf("IngestAll called %d times, want 1", tt.ingester.calls)
			}
			if stats != tt.ingester.stats {
				t.Errorf("Ingest() stats = %v, want %v", stats, tt.ingester.stats)
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Ingest() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Ingest() unexpected error: %v", err)
			}
		})
	}
}
