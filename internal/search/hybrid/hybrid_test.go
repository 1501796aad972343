package hybrid

import (
	"context"
	"testing"

	"github.com/doctordisrespect/narsil-mcp/internal/model"
	"github.com/doctordisrespect/narsil-mcp/internal/search/bm25"
	"github.com/doctordisrespect/narsil-mcp/internal/search/tfidf"
)

func TestSearchFusesBothRankings(t *testing.T) {
	b := bm25.New()
	tf := tfidf.New()
	b.Add("parseConfig", "a.go", "func parseConfig() error { return nil }", model.DocFunction, 1, 3)
	tf.Add("parseConfig", "a.go", "func parseConfig() error { return nil }", model.DocFunction, 1, 3)
	b.Add("writeOutput", "b.go", "func writeOutput() error { return nil }", model.DocFunction, 1, 3)
	tf.Add("writeOutput", "b.go", "func writeOutput() error { return nil }", model.DocFunction, 1, 3)

	e := New(b, tf)
	results, err := e.Search(context.Background(), "parseConfig", 10)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(results) == 0 {
		t.Fatalf("expected at least one fused result")
	}
	if results[0].ID != "parseConfig" {
		t.Fatalf("expected parseConfig to rank first (exact-match boost), got %s", results[0].ID)
	}
	if results[0].BM25Rank == nil || results[0].TFIDFRank == nil {
		t.Fatalf("expected the top result to have been found by both rankers")
	}
}

func TestSearchRespectsLimit(t *testing.T) {
	b := bm25.New()
	tf := tfidf.New()
	for i := 0; i < 6; i++ {
		id := string(rune('a' + i))
		b.Add(id, "f.go", "shared token across every chunk", model.DocFunction, 1, 1)
		tf.Add(id, "f.go", "shared token across every chunk", model.DocFunction, 1, 1)
	}
	e := New(b, tf)
	results, err := e.Search(context.Background(), "token", 3)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
}

func TestSearchOnEmptyIndicesReturnsEmpty(t *testing.T) {
	e := New(bm25.New(), tfidf.New())
	results, err := e.Search(context.Background(), "anything", 10)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}
