package memoryDB

import (
	"context"
	"testing"

	"github.com/elvispulaj/insight-forge/internal/domain/commonModels"
)

func chunk(id string, content string, ordinal int) commonModels.Chunk {
	return commonModels.Chunk{
		Artifact: commonModels.Artifact{Id: "a-1", Name: "report.pdf"},
		ChunkId:  id,
		Content:  content,
		Ordinal:  ordinal,
	}
}

func TestStore_BuildAndQuery(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	chunks := []commonModels.Chunk{
		chunk("c1", "about revenue", 0),
		chunk("c2", "about costs", 1),
		chunk("c3", "about churn", 2),
	}
	vectors := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	if err := s.Build(ctx, "idx", chunks, vectors); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	t.Run("best match first", func(t *testing.T) {
		results, err := s.Query(ctx, "idx", []float32{0, 0.9, 0.1}, 5)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 3 {
			t.Fatalf("got %d results, want 3", len(results))
		}
		if results[0].ChunkId != "c2" {
			t.Errorf("best match got %s, want c2", results[0].ChunkId)
		}
		if results[0].Score < results[1].Score || results[1].Score < results[2].Score {
			t.Error("results not ordered by descending score")
		}
		if results[0].Source != "report.pdf" {
			t.Errorf("source got %s", results[0].Source)
		}
	})

	t.Run("k caps the result count", func(t *testing.T) {
		results, _ := s.Query(ctx, "idx", []float32{1, 0, 0}, 2)
		if len(results) != 2 {
			t.Errorf("got %d results, want 2", len(results))
		}
	})

	t.Run("unbuilt index is empty not an error", func(t *testing.T) {
		results, err := s.Query(ctx, "nope", []float32{1}, 5)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("got %d results, want 0", len(results))
		}
	})
}

func TestStore_BuildReplacesWholesale(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	first := []commonModels.Chunk{chunk("old-1", "old", 0), chunk("old-2", "old", 1)}
	if err := s.Build(ctx, "idx", first, [][]float32{{1}, {1}}); err != nil {
		t.Fatal(err)
	}

	second := []commonModels.Chunk{chunk("new-1", "new", 0)}
	if err := s.Build(ctx, "idx", second, [][]float32{{1}}); err != nil {
		t.Fatal(err)
	}

	if got := s.Count(ctx, "idx"); got != 1 {
		t.Errorf("Count got %d, want 1 after rebuild", got)
	}
	results, _ := s.Query(ctx, "idx", []float32{1}, 5)
	if len(results) != 1 || results[0].ChunkId != "new-1" {
		t.Errorf("old chunks survived the rebuild: %v", results)
	}
}

func TestStore_BuildValidation(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if err := s.Build(ctx, "idx", []commonModels.Chunk{chunk("c", "x", 0)}, nil); err == nil {
		t.Error("expected error for chunk/vector count mismatch")
	}

	chunks := []commonModels.Chunk{chunk("c1", "x", 0), chunk("c2", "y", 1)}
	if err := s.Build(ctx, "idx", chunks, [][]float32{{1, 0}, {1}}); err == nil {
		t.Error("expected error for inconsistent dimensions")
	}
}

func TestStore_Drop(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	s.Build(ctx, "idx", []commonModels.Chunk{chunk("c1", "x", 0)}, [][]float32{{1}})
	if err := s.Drop(ctx, "idx"); err != nil {
		t.Fatal(err)
	}
	if got := s.Count(ctx, "idx"); got != 0 {
		t.Errorf("Count got %d after Drop", got)
	}
}
