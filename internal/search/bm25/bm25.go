// Package bm25 implements the BM25 ranking function over the shared
// model.InvertedIndex: k1=1.2, b=0.75.
package bm25

import (
	"math"
	"sort"

	"github.com/doctordisrespect/narsil-mcp/internal/model"
	"github.com/doctordisrespect/narsil-mcp/internal/search"
)

const (
	k1 = 1.2
	b  = 0.75
)

// Index wraps a model.InvertedIndex with the tokenizer used to build and
// query it.
type Index struct {
	inv       *model.InvertedIndex
	tokenizer search.Tokenizer
}

// New returns an empty BM25 index.
func New() *Index {
	return &Index{inv: model.NewInvertedIndex(), tokenizer: search.NewTokenizer()}
}

// Add tokenizes content and indexes it as a SearchDocument.
func (idx *Index) Add(id, filePath, content string, docType model.DocType, startLine, endLine int) {
	tokens := idx.tokenizer.Tokenize(content)
	doc := model.NewSearchDocument(id, filePath, content, docType, startLine, endLine, tokens)
	idx.inv.Add(doc)
}

// Remove deletes a document from the index.
func (idx *Index) Remove(id string) {
	idx.inv.Remove(id)
}

// Result is a single scored hit.
type Result struct {
	DocID string
	Score float64
}

// idfScore computes idf(t) = ln((N - df(t) + 0.5) / (df(t) + 0.5) + 1),
// the classic Okapi BM25 formula.
func idfScore(n, df int) float64 {
	return math.Log((float64(n-df)+0.5)/(float64(df)+0.5) + 1)
}

// Search ranks documents against query and returns the top k by BM25
// score. Scores are always non-negative because idf(t) >= 0 for df(t) <=
// N and every other factor in the sum is non-negative (spec invariant
// "BM25 scores are non-negative for any query and corpus").
func (idx *Index) Search(query string, k int) []Result {
	terms := idx.tokenizer.Tokenize(query)
	if len(terms) == 0 || idx.inv.DocCount == 0 {
		return nil
	}
	avgdl := idx.inv.AvgDocLen()
	scores := make(map[string]float64)

	seen := make(map[string]bool)
	for _, term := range terms {
		if seen[term] {
			continue
		}
		seen[term] = true
		postings := idx.inv.Postings[term]
		df := idx.inv.DocFreq[term]
		if df == 0 {
			continue
		}
		termIDF := idfScore(idx.inv.DocCount, df)
		for _, p := range postings {
			dl := float64(idx.inv.DocLen[p.DocID])
			tf := float64(p.Freq)
			denom := tf + k1*(1-b+b*dl/avgdl)
			if denom == 0 {
				continue
			}
			scores[p.DocID] += termIDF * tf * (k1 + 1) / denom
		}
	}

	results := make([]Result, 0, len(scores))
	for id, score := range scores {
		results = append(results, Result{DocID: id, Score: score})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocID < results[j].DocID
	})
	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results
}

// Document returns the stored SearchDocument for id, if indexed.
func (idx *Index) Document(id string) (model.SearchDocument, bool) {
	doc, ok := idx.inv.Documents[id]
	return doc, ok
}

// Len returns the number of documents currently indexed.
func (idx *Index) Len() int { return idx.inv.DocCount }
