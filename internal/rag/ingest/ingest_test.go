package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/elvispulaj/insight-forge/internal/domain/commonModels"
)

func TestMediaKindFor(t *testing.T) {
	tests := []struct {
		path string
		want commonModels.MediaKind
	}{
		{"sales.csv", commonModels.Tabular},
		{"export.JSON", commonModels.Tabular},
		{"report.pdf", commonModels.FreeText},
		{"notes.docx", commonModels.FreeText},
		{"readme.txt", commonModels.FreeText},
		{"chart.png", commonModels.Image},
		{"photo.JPG", commonModels.Image},
		{"archive.zip", commonModels.Unsupported},
		{"noextension", commonModels.Unsupported},
	}
	for _, tt := range tests {
		if got := mediaKindFor(tt.path); got != tt.want {
			t.Errorf("mediaKindFor(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestParseCSVAndRender(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sales.csv")
	content := "region,amount\nnorth,100\nsouth,\neast,50\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	tbl, err := parseCSV(path)
	if err != nil {
		t.Fatalf("parseCSV failed: %v", err)
	}
	if len(tbl.headers) != 2 || len(tbl.rows) != 3 {
		t.Fatalf("got %d headers %d rows", len(tbl.headers), len(tbl.rows))
	}

	rendered := renderTabularContext(tbl, 50)

	for _, want := range []string{
		"Dataset Shape: 3 rows × 2 columns",
		"Columns: region, amount",
		"region: text",
		"amount: numeric",
		"amount: min=50 max=100 mean=75",
		"amount: 1", // one missing value
		"Sample Data (3 rows):",
	} {
		if !strings.Contains(rendered, want) {
			t.Errorf("rendered context missing %q:\n%s", want, rendered)
		}
	}
}

func TestParseJSONTabular(t *testing.T) {
	dir := t.TempDir()

	t.Run("array of objects", func(t *testing.T) {
		path := filepath.Join(dir, "list.json")
		os.WriteFile(path, []byte(`[{"a":1,"b":"x"},{"a":2,"b":"y"}]`), 0600)

		tbl, err := parseJSONTabular(path)
		if err != nil {
			t.Fatal(err)
		}
		if len(tbl.rows) != 2 || len(tbl.headers) != 2 {
			t.Errorf("got %d rows %d headers", len(tbl.rows), len(tbl.headers))
		}
	})

	t.Run("object wrapping a list", func(t *testing.T) {
		path := filepath.Join(dir, "wrapped.json")
		os.WriteFile(path, []byte(`{"records":[{"a":1},{"a":2},{"a":3}]}`), 0600)

		tbl, err := parseJSONTabular(path)
		if err != nil {
			t.Fatal(err)
		}
		if len(tbl.rows) != 3 {
			t.Errorf("got %d rows, want 3", len(tbl.rows))
		}
	})

	t.Run("lone object becomes one row", func(t *testing.T) {
		path := filepath.Join(dir, "single.json")
		os.WriteFile(path, []byte(`{"a":1,"b":2}`), 0600)

		tbl, err := parseJSONTabular(path)
		if err != nil {
			t.Fatal(err)
		}
		if len(tbl.rows) != 1 {
			t.Errorf("got %d rows, want 1", len(tbl.rows))
		}
	})
}

func TestPrepareChunks(t *testing.T) {
	artifact := commonModels.Artifact{Id: "a-1", Name: "report.pdf", Kind: commonModels.FreeText}
	pages := []rawPage{
		{Number: 1, Content: strings.Repeat("x", 2500)},
		{Number: 2, Content: "short page"},
	}

	chunks := PrepareChunks(pages, artifact, NewSplitter(1000, 200), "text-embedding-3-small")

	if len(chunks) != 4 {
		t.Fatalf("got %d chunks, want 4", len(chunks))
	}
	for i, c := range chunks {
		if c.Ordinal != i {
			t.Errorf("chunk %d has ordinal %d", i, c.Ordinal)
		}
		if c.Artifact.Id != "a-1" {
			t.Errorf("chunk %d lost its artifact", i)
		}
		if c.ChunkId == "" {
			t.Errorf("chunk %d has no id", i)
		}
	}
}

type stubEmbedder struct {
	calls   int
	fail    bool
	lastLen int
}

func (s *stubEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	return []float32{1}, nil
}

func (s *stubEmbedder) BatchEmbedding(ctx context.Context, chunks []string, isHuge bool) ([][]float32, error) {
	s.calls++
	s.lastLen = len(chunks)
	if s.fail {
		return nil, errors.New("quota exceeded")
	}
	out := make([][]float32, len(chunks))
	for i := range out {
		out[i] = []float32{float32(i)}
	}
	return out, nil
}

func TestEmbedChunks(t *testing.T) {
	mkChunks := func(n int) []commonModels.Chunk {
		chunks := make([]commonModels.Chunk, n)
		for i := range chunks {
			chunks[i] = commonModels.Chunk{Content: "c"}
		}
		return chunks
	}

	t.Run("batches of 100", func(t *testing.T) {
		stub := &stubEmbedder{}
		vectors, err := EmbedChunks(context.Background(), mkChunks(250), stub)
		if err != nil {
			t.Fatal(err)
		}
		if len(vectors) != 250 {
			t.Errorf("got %d vectors, want 250", len(vectors))
		}
		if stub.calls != 3 {
			t.Errorf("got %d batch calls, want 3", stub.calls)
		}
		if stub.lastLen != 50 {
			t.Errorf("last batch had %d chunks, want 50", stub.lastLen)
		}
	})

	t.Run("failure fails the lot", func(t *testing.T) {
		stub := &stubEmbedder{fail: true}
		if _, err := EmbedChunks(context.Background(), mkChunks(10), stub); err == nil {
			t.Error("expected error from failing embedder")
		}
	})
}
