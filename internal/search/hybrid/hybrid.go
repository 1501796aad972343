// Package hybrid fuses BM25 and TF-IDF rankings via Reciprocal Rank
// Fusion, running both searches in parallel with
// golang.org/x/sync/errgroup. Grounded on the Rust original's
// HybridSearchEngine/HybridSearchConfig in hybrid_search.rs — the RRF
// math, boost rules, and default constants are ported directly; the
// original's rayon::join parallel fan-out becomes an errgroup.Group.
package hybrid

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/doctordisrespect/narsil-mcp/internal/model"
	"github.com/doctordisrespect/narsil-mcp/internal/search/bm25"
	"github.com/doctordisrespect/narsil-mcp/internal/search/tfidf"
)

// Config holds the fusion parameters, defaulting to the values the Rust
// original's HybridSearchConfig::default returns.
type Config struct {
	RRFK               float64
	BM25Weight         float64
	TFIDFWeight        float64
	ExactMatchBoost    float64
	FunctionBoost      float64
	CandidateMultiplier int
}

// DefaultConfig mirrors HybridSearchConfig::default.
func DefaultConfig() Config {
	return Config{
		RRFK:                60.0,
		BM25Weight:          1.0,
		TFIDFWeight:         1.0,
		ExactMatchBoost:     2.0,
		FunctionBoost:       1.5,
		CandidateMultiplier: 3,
	}
}

// Option mutates a Config under construction, modeled on the original's
// HybridSearchConfigBuilder, recast as idiomatic Go functional options.
type Option func(*Config)

func WithRRFK(k float64) Option                { return func(c *Config) { c.RRFK = k } }
func WithBM25Weight(w float64) Option           { return func(c *Config) { c.BM25Weight = w } }
func WithTFIDFWeight(w float64) Option          { return func(c *Config) { c.TFIDFWeight = w } }
func WithExactMatchBoost(b float64) Option      { return func(c *Config) { c.ExactMatchBoost = b } }
func WithFunctionBoost(b float64) Option        { return func(c *Config) { c.FunctionBoost = b } }
func WithCandidateMultiplier(m int) Option      { return func(c *Config) { c.CandidateMultiplier = m } }

// Engine fuses a BM25 index and a TF-IDF index into ranked results.
type Engine struct {
	bm25   *bm25.Index
	tfidf  *tfidf.Index
	config Config
}

// New returns an Engine over the given indices, applying opts over
// DefaultConfig.
func New(b *bm25.Index, t *tfidf.Index, opts ...Option) *Engine {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{bm25: b, tfidf: t, config: cfg}
}

// Result is one fused hit.
type Result struct {
	ID        string
	FilePath  string
	Content   string
	StartLine int
	EndLine   int
	Score     float64
	BM25Rank  *int
	TFIDFRank *int
}

// Search runs BM25 and TF-IDF search in parallel (candidate_multiplier
// times limit each), fuses by RRF, applies the exact-match and
// function/method boosts, sorts descending by score with id-lexicographic
// tie-break, and truncates to limit.
func (e *Engine) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	candidateLimit := limit * e.config.CandidateMultiplier

	var bm25Results []bm25.Result
	var tfidfResults []tfidf.Result

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		bm25Results = e.bm25.Search(query, candidateLimit)
		return nil
	})
	g.Go(func() error {
		tfidfResults = e.tfidf.FindSimilar(query, candidateLimit)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return e.fuse(query, bm25Results, tfidfResults, limit), nil
}

type fusedEntry struct {
	score     float64
	bm25Rank  *int
	tfidfRank *int
}

func (e *Engine) fuse(query string, bm25Results []bm25.Result, tfidfResults []tfidf.Result, limit int) []Result {
	k := e.config.RRFK
	queryLower := strings.ToLower(query)
	fused := make(map[string]*fusedEntry)

	for rank, r := range bm25Results {
		rrf := e.config.BM25Weight / (k + float64(rank) + 1.0)
		boost := 1.0
		if strings.Contains(strings.ToLower(r.DocID), queryLower) {
			boost *= e.config.ExactMatchBoost
		}
		if doc, ok := e.bm25.Document(r.DocID); ok {
			if doc.DocType == model.DocFunction || doc.DocType == model.DocMethod {
				boost *= e.config.FunctionBoost
			}
		}
		entry := fused[r.DocID]
		if entry == nil {
			entry = &fusedEntry{}
			fused[r.DocID] = entry
		}
		entry.score += rrf * boost
		rr := rank
		entry.bm25Rank = &rr
	}

	for rank, r := range tfidfResults {
		rrf := e.config.TFIDFWeight / (k + float64(rank) + 1.0)
		boost := 1.0
		if strings.Contains(strings.ToLower(r.DocID), queryLower) {
			boost *= e.config.ExactMatchBoost
		}
		entry := fused[r.DocID]
		if entry == nil {
			entry = &fusedEntry{}
			fused[r.DocID] = entry
		}
		entry.score += rrf * boost
		rr := rank
		entry.tfidfRank = &rr
	}

	results := make([]Result, 0, len(fused))
	for id, entry := range fused {
		doc, ok := e.bm25.Document(id)
		if !ok {
			doc, ok = e.tfidf.Document(id)
		}
		res := Result{
			ID:        id,
			Score:     entry.score,
			BM25Rank:  entry.bm25Rank,
			TFIDFRank: entry.tfidfRank,
		}
		if ok {
			res.FilePath = doc.FilePath
			res.Content = doc.Content
			res.StartLine = doc.StartLine
			res.EndLine = doc.EndLine
		}
		results = append(results, res)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
