package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"notes-explorer/internal/indexer"
	"notes-explorer/internal/picker"
	"notes-explorer/internal/rag"
	"notes-explorer/internal/rag/mocks"
)

// scriptedPicker answers picks from a fixed list and records what it was shown.
type scriptedPicker struct {
	answers []picker.Selection
	errs    []error
	shown   [][]string
	modes   []picker.Mode
}

func (p *scriptedPicker) Pick(ctx context.Context, lines []string, mode picker.Mode) (picker.Selection, error) {
	i := len(p.shown)
	p.shown = append(p.shown, lines)
	p.modes = append(p.modes, mode)
	var err error
	if i < len(p.errs) {
		err = p.errs[i]
	}
	if i >= len(p.answers) {
		return picker.Selection{}, err
	}
	return p.answers[i], err
}

var testTopics = []rag.Topic{
	{Topic: "Reading", Embedding: []float32{1, 0}},
	{Topic: "Travel", Embedding: []float32{0, 1}},
}

var testResults = []rag.Result{
	{Content: "Read\nDune", File: "/n/a.md", Start: 2, End: 3, Score: 0.9},
}

func TestExplore(t *testing.T) {
	tests := []struct {
		name      string
		picks     []picker.Selection
		errs      []error
		setupMock func(*mocks.MockEngine)
		wantOut   string
		wantPicks int
	}{
		{
			name:  "selected topic searches by its embedding",
			picks: []picker.Selection{{Query: "rea", Line: "Reading\t[1,0]"}, {Line: "Read Dune\t/n/a.md\t2:3"}},
			setupMock: func(m *mocks.MockEngine) {
				m.EXPECT().SearchVector(gomock.Any(), []float32{1, 0}).Return(testResults, nil)
			},
			wantOut:   "Read Dune\t/n/a.md\t2:3\n",
			wantPicks: 2,
		},
		{
			name:  "typed query searches by text",
			picks: []picker.Selection{{Query: "dune"}},
			setupMock: func(m *mocks.MockEngine) {
				m.EXPECT().SearchText(gomock.Any(), "dune").Return(testResults, nil)
			},
			wantPicks: 2,
		},
		{
			name:  "typed question is answered",
			picks: []picker.Selection{{Query: "what did I read?"}},
			setupMock: func(m *mocks.MockEngine) {
				m.EXPECT().Ask(gomock.Any(), "what did I read?", gomock.Any()).
					DoAndReturn(func(ctx context.Context, q string, w io.Writer) error {
						_, _ = io.WriteString(w, "Dune.")
						return nil
					})
			},
			wantOut:   "Dune.\n",
			wantPicks: 1,
		},
		{
			name:      "nothing typed or selected",
			picks:     []picker.Selection{{}},
			setupMock: func(m *mocks.MockEngine) {},
			wantPicks: 1,
		},
		{
			name:      "aborted topic picker",
			errs:      []error{picker.ErrAborted},
			setupMock: func(m *mocks.MockEngine) {},
			wantPicks: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			engine := mocks.NewMockEngine(ctrl)
			engine.EXPECT().Topics(gomock.Any()).Return(testTopics, nil)
			tt.setupMock(engine)

			p := &scriptedPicker{answers: tt.picks, errs: tt.errs}
			var out bytes.Buffer
			if err := explore(context.Background(), engine, p, &out); err != nil {
				t.Fatalf("explore() error = %v", err)
			}

			if out.String() != tt.wantOut {
				t.Errorf("output = %q, want %q", out.String(), tt.wantOut)
			}
			if len(p.shown) != tt.wantPicks {
				t.Fatalf("picker opened %d times, want %d", len(p.shown), tt.wantPicks)
			}
			wantTopics := []string{"Reading\t[1,0]", "Travel\t[0,1]"}
			if !reflect.DeepEqual(p.shown[0], wantTopics) || p.modes[0] != picker.ModeTopics {
				t.Errorf("first pick = %q mode %v, want topics %q", p.shown[0], p.modes[0], wantTopics)
			}
			if tt.wantPicks == 2 {
				want := []string{"Read Dune\t/n/a.md\t2:3"}
				if !reflect.DeepEqual(p.shown[1], want) || p.modes[1] != picker.ModeResults {
					t.Errorf("second pick = %q mode %v, want results %q", p.shown[1], p.modes[1], want)
				}
			}
		})
	}
}

func TestExplore_SearchError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	engine := mocks.NewMockEngine(ctrl)
	engine.EXPECT().Topics(gomock.Any()).Return(testTopics, nil)
	engine.EXPECT().SearchText(gomock.Any(), "dune").Return(nil, errors.New("embedding failed"))

	p := &scriptedPicker{answers: []picker.Selection{{Query: "dune"}}}
	err := explore(context.Background(), engine, p, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "embedding failed") {
		t.Errorf("explore() error = %v, want embedding failure", err)
	}
}

func TestParseEmbedding(t *testing.T) {
	tests := []struct {
		raw     string
		want    []float32
		wantErr bool
	}{
		{raw: "", want: nil},
		{raw: "[0.5, -1]", want: []float32{0.5, -1}},
		{raw: "[]", wantErr: true},
		{raw: "0.5", wantErr: true},
		{raw: "[\"a\"]", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseEmbedding(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseEmbedding(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseEmbedding(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestPickResult(t *testing.T) {
	lines := []string{"a\t/n/a.md\t1:1"}

	var out bytes.Buffer
	p := &scriptedPicker{answers: []picker.Selection{{Line: lines[0]}}}
	if err := pickResult(context.Background(), p, lines, &out); err != nil {
		t.Fatalf("pickResult() error = %v", err)
	}
	if out.String() != lines[0]+"\n" {
		t.Errorf("output = %q", out.String())
	}

	p = &scriptedPicker{}
	if err := pickResult(context.Background(), p, nil, &out); err != nil || len(p.shown) != 0 {
		t.Errorf("pickResult() with no lines opened the picker (err %v)", err)
	}

	p = &scriptedPicker{errs: []error{picker.ErrAborted}}
	if err := pickResult(context.Background(), p, lines, &out); err != nil {
		t.Errorf("pickResult() aborted error = %v, want nil", err)
	}
}

func TestPrintStats(t *testing.T) {
	var out bytes.Buffer
	printStats(&out, &indexer.IngestStats{
		FilesScanned:       3,
		FilesUpdated:       1,
		FilesSkipped:       2,
		ChunksWritten:      4,
		ChunkParseFailures: 1,
	})

	for _, want := range []string{"files scanned:   3", "files updated:   1", "chunks written:  4", "parse failures:  0 topics, 1 chunks"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("printStats() missing %q in:\n%s", want, out.String())
		}
	}
}
