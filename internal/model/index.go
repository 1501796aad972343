package model

// Posting is a single (document, term frequency) entry in an inverted
// index's postings list for one term.
type Posting struct {
	DocID string
	Freq  int
}

// InvertedIndex is the BM25 index's on-disk/in-memory structure: postings
// per term, per-document lengths, and the aggregate stats BM25 needs
// (avg_doc_len, doc_count) kept incrementally consistent as documents are
// added or removed.
type InvertedIndex struct {
	Postings  map[string][]Posting
	DocFreq   map[string]int // number of documents containing the term
	DocLen    map[string]int // tokens per document id
	DocCount  int
	TotalLen  int64 // sum of DocLen, kept in lockstep with DocCount for AvgDocLen
	Documents map[string]SearchDocument
}

// NewInvertedIndex returns an empty index ready for incremental updates.
func NewInvertedIndex() *InvertedIndex {
	return &InvertedIndex{
		Postings:  make(map[string][]Posting),
		DocFreq:   make(map[string]int),
		DocLen:    make(map[string]int),
		Documents: make(map[string]SearchDocument),
	}
}

// AvgDocLen is the corpus average document length BM25 normalizes against.
// Returns 0 for an empty index rather than dividing by zero; callers must
// treat a 0 average as "no documents yet" and skip scoring.
func (idx *InvertedIndex) AvgDocLen() float64 {
	if idx.DocCount == 0 {
		return 0
	}
	return float64(idx.TotalLen) / float64(idx.DocCount)
}

// Add inserts or replaces doc in the index, maintaining DocFreq, DocLen,
// DocCount and TotalLen. Replacing an existing document first removes its
// old postings so repeated incremental reindexing of a changed file never
// double-counts: callers replace a file's documents atomically.
func (idx *InvertedIndex) Add(doc SearchDocument) {
	if _, exists := idx.Documents[doc.ID]; exists {
		idx.Remove(doc.ID)
	}
	idx.Documents[doc.ID] = doc
	idx.DocLen[doc.ID] = doc.Len()
	idx.TotalLen += int64(doc.Len())
	idx.DocCount++
	for term, freq := range doc.TermFreq {
		idx.Postings[term] = append(idx.Postings[term], Posting{DocID: doc.ID, Freq: freq})
		idx.DocFreq[term]++
	}
}

// Remove deletes a document's contributions from the index. No-op if the
// document id is unknown.
func (idx *InvertedIndex) Remove(docID string) {
	doc, ok := idx.Documents[docID]
	if !ok {
		return
	}
	for term := range doc.TermFreq {
		postings := idx.Postings[term]
		filtered := postings[:0]
		for _, p := range postings {
			if p.DocID != docID {
				filtered = append(filtered, p)
			}
		}
		if len(filtered) == 0 {
			delete(idx.Postings, term)
			delete(idx.DocFreq, term)
		} else {
			idx.Postings[term] = filtered
			idx.DocFreq[term] = len(filtered)
		}
	}
	idx.TotalLen -= int64(idx.DocLen[docID])
	idx.DocCount--
	delete(idx.DocLen, docID)
	delete(idx.Documents, docID)
}
