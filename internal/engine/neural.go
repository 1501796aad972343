package engine

import (
	"github.com/doctordisrespect/narsil-mcp/internal/errs"
	"github.com/doctordisrespect/narsil-mcp/internal/search/tfidf"
)

// Neural tools are specified against a real embedding model (an
// external backend named by --neural-backend/--neural-model), which
// this server doesn't run. Where a TF-IDF proxy can stand in for cosine
// similarity over a vector embedding without misrepresenting itself as
// one, these methods use it explicitly as a documented approximation;
// where there's no sane proxy (find_semantic_clones needs a similarity
// threshold over a real vector space to avoid false positives at scale)
// the method fails outright. All of these are gated behind the
// "neural" feature flag (model.EngineFlags.Neural / --neural).

// NeuralSearch proxies a semantic/embedding search with TF-IDF cosine
// similarity — a real ranking signal, but over lexical term vectors,
// not a learned embedding space, so results will miss genuine semantic
// matches that share no vocabulary.
func (e *Engine) NeuralSearch(repoName, query string, limit int) ([]tfidf.Result, error) {
	return e.SemanticSearch(repoName, query, limit)
}

// FindSimilarCode proxies "find code similar to this snippet" by
// running the snippet itself as a TF-IDF query — the same proxy
// NeuralSearch uses, applied to a code excerpt instead of free text.
func (e *Engine) FindSimilarCode(repoName, snippet string, limit int) ([]tfidf.Result, error) {
	return e.SemanticSearch(repoName, snippet, limit)
}

// FindSimilarToSymbol looks up a symbol's defining chunk and runs
// FindSimilarCode against its content.
func (e *Engine) FindSimilarToSymbol(repoName, symbolName string, limit int) ([]tfidf.Result, error) {
	sym, err := e.GetSymbolDefinition(repoName, symbolName)
	if err != nil {
		return nil, err
	}
	idx, err := e.indexFor(repoName)
	if err != nil {
		return nil, err
	}
	for _, c := range idx.chunks[sym.FilePath] {
		if c.StartLine <= sym.Range.StartLine && c.EndLine >= sym.Range.StartLine {
			return e.FindSimilarCode(repoName, c.Content, limit)
		}
	}
	return nil, errs.New(errs.NotFound, "no indexed chunk covers that symbol's range")
}

// GetEmbeddingStats always fails: there is no embedding index to report
// statistics about, only the TF-IDF vocabulary NeuralSearch proxies
// through.
func (e *Engine) GetEmbeddingStats(repoName string) error {
	return errs.New(errs.Transient, "get_embedding_stats requires a real embedding index this server does not build")
}

// FindSemanticClones always fails: a sound near-duplicate-code detector
// needs a real vector space with a calibrated distance threshold: a
// TF-IDF proxy would flag any two chunks sharing common vocabulary
// (error handling boilerplate, import blocks) as "clones", which is a
// worse answer than refusing to guess.
func (e *Engine) FindSemanticClones(repoName string) error {
	return errs.New(errs.Transient, "find_semantic_clones requires a real embedding index this server does not build")
}
