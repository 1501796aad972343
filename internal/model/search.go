package model

// DocType is the closed set of document kinds a SearchDocument may carry.
type DocType string

const (
	DocFile     DocType = "File"
	DocFunction DocType = "Function"
	DocMethod   DocType = "Method"
	DocClass    DocType = "Class"
	DocStruct   DocType = "Struct"
	DocOther    DocType = "Other"
)

// SearchDocument is the unit indexed by both the BM25 and TF-IDF indices.
// Invariant: TermFreq must be consistent with Tokens (sum of TermFreq
// values equals len(Tokens)); callers that build one by hand should use
// NewSearchDocument rather than populating the fields directly.
type SearchDocument struct {
	ID        string
	FilePath  string
	Content   string
	DocType   DocType
	StartLine int
	EndLine   int
	Tokens    []string
	TermFreq  map[string]int
}

// NewSearchDocument builds a SearchDocument from tokens, deriving TermFreq
// so the TermFreq/Tokens invariant always holds.
func NewSearchDocument(id, filePath, content string, docType DocType, startLine, endLine int, tokens []string) SearchDocument {
	tf := make(map[string]int, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}
	return SearchDocument{
		ID:        id,
		FilePath:  filePath,
		Content:   content,
		DocType:   docType,
		StartLine: startLine,
		EndLine:   endLine,
		Tokens:    tokens,
		TermFreq:  tf,
	}
}

// Len returns the document length used by BM25 normalization: the token
// count, which by construction equals the sum of TermFreq.
func (d SearchDocument) Len() int {
	return len(d.Tokens)
}
