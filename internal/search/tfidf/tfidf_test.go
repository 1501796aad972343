package tfidf

import (
	"testing"

	"github.com/doctordisrespect/narsil-mcp/internal/model"
)

func TestFindSimilarRanksClosestDocumentFirst(t *testing.T) {
	idx := New()
	idx.Add("doc1", "a.go", "parse configuration from yaml file", model.DocFunction, 1, 1)
	idx.Add("doc2", "b.go", "write bytes to an output stream", model.DocFunction, 1, 1)

	results := idx.FindSimilar("parse configuration yaml", 10)
	if len(results) == 0 {
		t.Fatalf("expected at least one result")
	}
	if results[0].DocID != "doc1" {
		t.Fatalf("expected doc1 to rank first, got %s", results[0].DocID)
	}
}

func TestFindSimilarEmptyCorpusReturnsNothing(t *testing.T) {
	idx := New()
	if results := idx.FindSimilar("anything", 10); results != nil {
		t.Fatalf("expected nil results against an empty index, got %v", results)
	}
}

func TestRemoveThenFindSimilar(t *testing.T) {
	idx := New()
	idx.Add("doc1", "a.go", "parse configuration from yaml file", model.DocFunction, 1, 1)
	idx.Remove("doc1")

	if idx.Len() != 0 {
		t.Fatalf("expected Len() == 0 after removal, got %d", idx.Len())
	}
	if results := idx.FindSimilar("parse configuration", 10); len(results) != 0 {
		t.Fatalf("expected no results after removal, got %v", results)
	}
}

func TestDocumentLookup(t *testing.T) {
	idx := New()
	idx.Add("doc1", "a.go", "parse configuration", model.DocFunction, 2, 4)
	doc, ok := idx.Document("doc1")
	if !ok || doc.StartLine != 2 || doc.EndLine != 4 {
		t.Fatalf("unexpected document lookup result: %+v ok=%v", doc, ok)
	}
}
