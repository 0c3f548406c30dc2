package retrieval

import (
	"testing"

	"github.com/hyperjump/oshiete/internal/models"
)

func chunk(id string, score float64) models.RetrievedChunk {
	return models.RetrievedChunk{ID: id, Score: score}
}

func TestMergeGlobalOrder(t *testing.T) {
	a := []models.RetrievedChunk{chunk("a1", 0.9), chunk("a2", 0.5)}
	b := []models.RetrievedChunk{chunk("b1", 0.7), chunk("b2", 0.3)}

	got := Merge([][]models.RetrievedChunk{a, b}, 10)
	wantOrder := []string{"a1", "b1", "a2", "b2"}
	if len(got) != len(wantOrder) {
		t.Fatalf("got %d results", len(got))
	}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestMergeNoPerNamespaceQuota(t *testing.T) {
	// One namespace dominating the top scores takes every slot.
	high := []models.RetrievedChunk{
		chunk("h1", 0.99), chunk("h2", 0.98), chunk("h3", 0.97),
		chunk("h4", 0.96), chunk("h5", 0.95),
	}
	low := []models.RetrievedChunk{
		chunk("l1", 0.5), chunk("l2", 0.4), chunk("l3", 0.3),
		chunk("l4", 0.2), chunk("l5", 0.1),
	}

	got := Merge([][]models.RetrievedChunk{high, low}, 5)
	if len(got) != 5 {
		t.Fatalf("got %d results", len(got))
	}
	for _, c := range got {
		if c.ID[0] != 'h' {
			t.Errorf("low-score chunk %s made the global top 5", c.ID)
		}
	}
}

func TestMergeTruncates(t *testing.T) {
	a := []models.RetrievedChunk{chunk("a1", 0.9), chunk("a2", 0.8), chunk("a3", 0.7)}
	got := Merge([][]models.RetrievedChunk{a}, 2)
	if len(got) != 2 {
		t.Errorf("got %d results, want 2", len(got))
	}
}

func TestMergeStableTieBreak(t *testing.T) {
	// Equal scores: per-namespace rank order is preserved, and the result is
	// identical across runs.
	a := []models.RetrievedChunk{chunk("a1", 0.5), chunk("a2", 0.5)}
	b := []models.RetrievedChunk{chunk("b1", 0.5)}

	first := Merge([][]models.RetrievedChunk{a, b}, 10)
	for i := 0; i < 10; i++ {
		again := Merge([][]models.RetrievedChunk{a, b}, 10)
		for j := range first {
			if first[j].ID != again[j].ID {
				t.Fatalf("run %d: order differs at %d: %s vs %s", i, j, first[j].ID, again[j].ID)
			}
		}
	}
	if first[0].ID != "a1" || first[1].ID != "a2" {
		t.Errorf("per-namespace rank not preserved: %s, %s", first[0].ID, first[1].ID)
	}
}

func TestMergeEmpty(t *testing.T) {
	got := Merge(nil, 5)
	if len(got) != 0 {
		t.Errorf("got %d results from empty input", len(got))
	}
}
