package bm25

import (
	"testing"

	"github.com/doctordisrespect/narsil-mcp/internal/model"
)

func TestSearchRanksExactTermMatchFirst(t *testing.T) {
	idx := New()
	idx.Add("doc1", "a.go", "func parseConfig() error { return nil }", model.DocFunction, 1, 1)
	idx.Add("doc2", "b.go", "func writeOutput() error { return nil }", model.DocFunction, 1, 1)

	results := idx.Search("parseConfig", 10)
	if len(results) == 0 {
		t.Fatalf("expected at least one result")
	}
	if results[0].DocID != "doc1" {
		t.Fatalf("expected doc1 to rank first, got %s", results[0].DocID)
	}
	for _, r := range results {
		if r.Score < 0 {
			t.Fatalf("BM25 score must be non-negative, got %f for %s", r.Score, r.DocID)
		}
	}
}

func TestSearchEmptyQueryReturnsNothing(t *testing.T) {
	idx := New()
	idx.Add("doc1", "a.go", "func main() {}", model.DocFunction, 1, 1)
	if results := idx.Search("   ", 10); results != nil {
		t.Fatalf("expected nil results for an empty query, got %v", results)
	}
}

func TestRemoveDropsDocumentFromResults(t *testing.T) {
	idx := New()
	idx.Add("doc1", "a.go", "func parseConfig() error { return nil }", model.DocFunction, 1, 1)
	idx.Remove("doc1")

	if results := idx.Search("parseConfig", 10); len(results) != 0 {
		t.Fatalf("expected no results after removal, got %v", results)
	}
	if idx.Len() != 0 {
		t.Fatalf("expected Len() == 0 after removal, got %d", idx.Len())
	}
}

func TestSearchRespectsK(t *testing.T) {
	idx := New()
	for i := 0; i < 5; i++ {
		idx.Add(string(rune('a'+i)), "f.go", "function token shared among every document", model.DocFunction, 1, 1)
	}
	if results := idx.Search("token", 2); len(results) != 2 {
		t.Fatalf("expected exactly 2 results, got %d", len(results))
	}
}

func TestDocumentLookup(t *testing.T) {
	idx := New()
	idx.Add("doc1", "a.go", "func main() {}", model.DocFunction, 3, 5)
	doc, ok := idx.Document("doc1")
	if !ok {
		t.Fatalf("expected doc1 to be found")
	}
	if doc.FilePath != "a.go" || doc.StartLine != 3 || doc.EndLine != 5 {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if _, ok := idx.Document("missing"); ok {
		t.Fatalf("expected missing document to not be found")
	}
}
