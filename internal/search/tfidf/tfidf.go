// Package tfidf implements a vocabulary-capped TF-IDF vector index with
// cosine-similarity ranking. Documents and queries are
// both tf(t)*idf(t) sparse vectors using the same idf formula as BM25.
package tfidf

import (
	"math"
	"sort"

	"github.com/doctordisrespect/narsil-mcp/internal/model"
	"github.com/doctordisrespect/narsil-mcp/internal/search"
)

// DefaultVocabSize is the vocabulary cap applied when callers don't
// override it via NewWithVocabSize.
const DefaultVocabSize = 50000

// Index is a sparse TF-IDF vector store. The vocabulary is capped at
// vocabSize terms, retained by global term frequency across the corpus,
// following a capped-vocabulary approach: a configurable vocab size, retained
// by global frequency."
type Index struct {
	tokenizer    search.Tokenizer
	vocabSize    int
	docFreq      map[string]int
	globalFreq   map[string]int
	vocab        map[string]bool
	docs         map[string]model.SearchDocument
	docVectors   map[string]map[string]float64
	docNorms     map[string]float64
	docCount     int
	vocabDirty   bool
}

// New returns a TF-IDF index with the default vocabulary cap.
func New() *Index {
	return NewWithVocabSize(DefaultVocabSize)
}

// NewWithVocabSize returns a TF-IDF index capped at vocabSize terms.
func NewWithVocabSize(vocabSize int) *Index {
	return &Index{
		tokenizer:  search.NewTokenizer(),
		vocabSize:  vocabSize,
		docFreq:    make(map[string]int),
		globalFreq: make(map[string]int),
		vocab:      make(map[string]bool),
		docs:       make(map[string]model.SearchDocument),
		docVectors: make(map[string]map[string]float64),
		docNorms:   make(map[string]float64),
	}
}

// Add tokenizes content and indexes it as a document.
func (idx *Index) Add(id, filePath, content string, docType model.DocType, startLine, endLine int) {
	tokens := idx.tokenizer.Tokenize(content)
	doc := model.NewSearchDocument(id, filePath, content, docType, startLine, endLine, tokens)
	if _, exists := idx.docs[id]; exists {
		idx.Remove(id)
	}
	idx.docs[id] = doc
	idx.docCount++
	for term := range doc.TermFreq {
		idx.docFreq[term]++
	}
	for _, tok := range tokens {
		idx.globalFreq[tok]++
	}
	idx.vocabDirty = true
}

// Remove deletes a document from the index.
func (idx *Index) Remove(id string) {
	doc, ok := idx.docs[id]
	if !ok {
		return
	}
	for term := range doc.TermFreq {
		idx.docFreq[term]--
		if idx.docFreq[term] <= 0 {
			delete(idx.docFreq, term)
		}
	}
	idx.docCount--
	delete(idx.docs, id)
	delete(idx.docVectors, id)
	delete(idx.docNorms, id)
	idx.vocabDirty = true
}

// rebuildVocab retains the top vocabSize terms by global frequency,
// then recomputes every document's TF-IDF vector and norm against it.
func (idx *Index) rebuildVocab() {
	type termFreq struct {
		term string
		freq int
	}
	all := make([]termFreq, 0, len(idx.globalFreq))
	for t, f := range idx.globalFreq {
		all = append(all, termFreq{t, f})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].freq != all[j].freq {
			return all[i].freq > all[j].freq
		}
		return all[i].term < all[j].term
	})
	if len(all) > idx.vocabSize {
		all = all[:idx.vocabSize]
	}
	idx.vocab = make(map[string]bool, len(all))
	for _, tf := range all {
		idx.vocab[tf.term] = true
	}

	idx.docVectors = make(map[string]map[string]float64, len(idx.docs))
	idx.docNorms = make(map[string]float64, len(idx.docs))
	for id, doc := range idx.docs {
		vec := idx.vectorize(doc.TermFreq)
		idx.docVectors[id] = vec
		idx.docNorms[id] = norm(vec)
	}
	idx.vocabDirty = false
}

func (idx *Index) idf(term string) float64 {
	df := idx.docFreq[term]
	if df == 0 {
		return 0
	}
	return math.Log((float64(idx.docCount-df)+0.5)/(float64(df)+0.5) + 1)
}

func (idx *Index) vectorize(tf map[string]int) map[string]float64 {
	vec := make(map[string]float64)
	for term, freq := range tf {
		if !idx.vocab[term] {
			continue
		}
		w := float64(freq) * idx.idf(term)
		if w != 0 {
			vec[term] = w
		}
	}
	return vec
}

func norm(vec map[string]float64) float64 {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Result is a single cosine-similarity-ranked hit.
type Result struct {
	DocID string
	Score float64
}

// FindSimilar tokenizes text into a query vector and ranks every document
// by cosine similarity, truncated to k.
func (idx *Index) FindSimilar(text string, k int) []Result {
	if idx.vocabDirty {
		idx.rebuildVocab()
	}
	tokens := idx.tokenizer.Tokenize(text)
	if len(tokens) == 0 || idx.docCount == 0 {
		return nil
	}
	tf := make(map[string]int, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}
	qvec := idx.vectorize(tf)
	qnorm := norm(qvec)
	if qnorm == 0 {
		return nil
	}

	results := make([]Result, 0, len(idx.docs))
	for id, dvec := range idx.docVectors {
		dnorm := idx.docNorms[id]
		if dnorm == 0 {
			continue
		}
		var dot float64
		if len(qvec) < len(dvec) {
			for term, qw := range qvec {
				if dw, ok := dvec[term]; ok {
					dot += qw * dw
				}
			}
		} else {
			for term, dw := range dvec {
				if qw, ok := qvec[term]; ok {
					dot += qw * dw
				}
			}
		}
		if dot == 0 {
			continue
		}
		sim := dot / (qnorm * dnorm)
		results = append(results, Result{DocID: id, Score: sim})
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
	doc, ok := idx.docs[id]
	return doc, ok
}

// Len returns the number of documents currently indexed.
func (idx *Index) Len() int { return idx.docCount }
