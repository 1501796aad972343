// Package engine is the orchestrator: it owns the repository manager,
// the indexing pipeline (parsing, symbol extraction, chunking, CFG
// cache), the search indices, the tool filter, metrics, and the
// redactor, and exposes the operations the dispatcher's handlers call.
// Modeled on internal/mcp.Server: one struct wiring every subsystem
// together, constructed once at startup and held for the process
// lifetime.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/hbollon/go-edlib"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/doctordisrespect/narsil-mcp/internal/cfgbuild"
	"github.com/doctordisrespect/narsil-mcp/internal/chunking"
	"github.com/doctordisrespect/narsil-mcp/internal/errs"
	"github.com/doctordisrespect/narsil-mcp/internal/langs"
	"github.com/doctordisrespect/narsil-mcp/internal/metrics"
	"github.com/doctordisrespect/narsil-mcp/internal/model"
	"github.com/doctordisrespect/narsil-mcp/internal/redact"
	"github.com/doctordisrespect/narsil-mcp/internal/reposvc"
	"github.com/doctordisrespect/narsil-mcp/internal/search/bm25"
	"github.com/doctordisrespect/narsil-mcp/internal/search/hybrid"
	"github.com/doctordisrespect/narsil-mcp/internal/search/tfidf"
	"github.com/doctordisrespect/narsil-mcp/internal/symbols"
	"github.com/doctordisrespect/narsil-mcp/internal/watcher"
)

// fileIndex is the per-repository state built by a (re)indexing pass.
type fileIndex struct {
	symbols    map[string][]model.Symbol // path -> symbols
	chunks     map[string][]model.Chunk  // path -> chunks
	chunksByID map[string]model.Chunk    // chunk ID -> chunk, for resolving search hits back to content
	cfgs       map[string]*model.ControlFlowGraph
	hashes     map[string]uint64 // path -> xxhash of last-indexed content, for change detection
	bm25       *bm25.Index
	tfidf      *tfidf.Index
	hybrid     *hybrid.Engine

	fileCount   int
	symbolCount int
	indexedAt   time.Time
}

func newFileIndex() *fileIndex {
	b := bm25.New()
	t := tfidf.New()
	return &fileIndex{
		symbols:    make(map[string][]model.Symbol),
		chunks:     make(map[string][]model.Chunk),
		chunksByID: make(map[string]model.Chunk),
		cfgs:       make(map[string]*model.ControlFlowGraph),
		hashes:     make(map[string]uint64),
		bm25:       b,
		tfidf:      t,
		hybrid:     hybrid.New(b, t),
	}
}

// removeFile drops every document, symbol, and CFG indexed under path,
// and its CFG entries, so the caller can re-add fresh ones or leave it
// deleted.
func (idx *fileIndex) removeFile(path string) {
	for _, c := range idx.chunks[path] {
		idx.bm25.Remove(c.ID)
		idx.tfidf.Remove(c.ID)
		delete(idx.chunksByID, c.ID)
	}
	if syms, ok := idx.symbols[path]; ok {
		idx.symbolCount -= len(syms)
		for _, sym := range syms {
			delete(idx.cfgs, cfgKey(path, sym))
		}
	}
	if _, ok := idx.hashes[path]; ok {
		idx.fileCount--
	}
	delete(idx.symbols, path)
	delete(idx.chunks, path)
	delete(idx.hashes, path)
}

// Engine ties every subsystem together for one server instance.
type Engine struct {
	repos    *reposvc.Manager
	registry *langs.Registry
	metrics  *metrics.Metrics

	mu      sync.RWMutex
	indices map[string]*fileIndex // repo name -> index
	watch   map[string]*watcher.Watcher
}

// New returns an Engine with an empty repository set.
func New() *Engine {
	return &Engine{
		repos:    reposvc.NewManager(),
		registry: langs.NewRegistry(),
		metrics:  metrics.New(),
		indices:  make(map[string]*fileIndex),
		watch:    make(map[string]*watcher.Watcher),
	}
}

// Metrics exposes the engine's metrics collector for reporting tools.
func (e *Engine) Metrics() *metrics.Metrics { return e.metrics }

// AddRepo validates and registers a repository under name (derived from
// path if empty).
func (e *Engine) AddRepo(name, path string) (reposvc.Repository, error) {
	return e.repos.Add(name, path)
}

// ListRepos returns every registered repository.
func (e *Engine) ListRepos() []reposvc.Repository {
	return e.repos.List()
}

// DiscoverRepos walks basePath for repository roots.
func (e *Engine) DiscoverRepos(basePath string, maxDepth int) ([]string, error) {
	if maxDepth <= 0 {
		maxDepth = reposvc.DefaultMaxDiscoveryDepth
	}
	return reposvc.DiscoverRepos(basePath, maxDepth)
}

// ValidateRepo checks that path is a usable repository root.
func (e *Engine) ValidateRepo(path string) error {
	return reposvc.ValidatePath(path)
}

// IndexStatus summarizes one repository's last indexing pass.
type IndexStatus struct {
	RepoName    string
	Indexed     bool
	FileCount   int
	SymbolCount int
	IndexedAt   time.Time
}

// GetIndexStatus reports the current indexing state for repoName.
func (e *Engine) GetIndexStatus(repoName string) (IndexStatus, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	idx, ok := e.indices[repoName]
	if !ok {
		return IndexStatus{RepoName: repoName}, nil
	}
	return IndexStatus{
		RepoName: repoName, Indexed: true,
		FileCount: idx.fileCount, SymbolCount: idx.symbolCount, IndexedAt: idx.indexedAt,
	}, nil
}

// Reindex walks the repository's files, parses every recognized source
// file, and rebuilds its symbol table, chunk set, and search indices
// from scratch. File-level updates after this initial pass go through
// ApplyChange instead.
func (e *Engine) Reindex(repoName string) error {
	repo, ok := e.repos.Get(repoName)
	if !ok {
		return errs.New(errs.NotFound, fmt.Sprintf("repository %q is not registered", repoName))
	}

	start := time.Now()
	idx := newFileIndex()

	err := filepath.WalkDir(repo.Path, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(repo.Path, path)
		if relErr == nil && repo.Config.Excluded(filepath.ToSlash(rel)) {
			return nil
		}
		e.indexFile(idx, path)
		return nil
	})
	if err != nil {
		return errs.Wrap(errs.IndexUnavailable, "walking repository tree", err)
	}

	idx.indexedAt = time.Now()
	e.mu.Lock()
	e.indices[repoName] = idx
	e.mu.Unlock()

	e.metrics.RecordRepoIndex(repoName, time.Since(start), idx.fileCount, idx.symbolCount)
	return nil
}

// ApplyChange applies one debounced watcher.Batch to repoName's existing
// index in place, without re-walking or re-parsing any file the batch
// didn't touch. Removed paths are dropped outright; created and changed paths are
// re-extracted through the same hash-checked indexFile Reindex uses, so
// a Changed path whose content is actually unchanged (a touch, or a
// save that round-trips to the same bytes) is a no-op.
func (e *Engine) ApplyChange(repoName string, batch watcher.Batch) error {
	e.mu.RLock()
	idx, ok := e.indices[repoName]
	e.mu.RUnlock()
	if !ok {
		return e.Reindex(repoName)
	}

	start := time.Now()
	e.mu.Lock()
	for _, path := range batch.Removed {
		idx.removeFile(path)
	}
	for _, path := range batch.Created {
		e.indexFile(idx, path)
	}
	for _, path := range batch.Changed {
		e.indexFile(idx, path)
	}
	idx.indexedAt = time.Now()
	e.mu.Unlock()

	e.metrics.RecordRepoIndex(repoName, time.Since(start), idx.fileCount, idx.symbolCount)
	return nil
}

// indexFile parses one file and feeds its symbols, chunks, CFGs, and
// search documents into idx. Sensitive or oversized files are
// registered (counted) but never parsed.
func (e *Engine) indexFile(idx *fileIndex, path string) {
	if redact.IsSensitiveFile(path) {
		idx.fileCount++
		return
	}
	info, err := os.Stat(path)
	if err != nil || redact.ShouldSkipFile(info.Size(), redact.DefaultMaxFileSize) {
		idx.fileCount++
		return
	}

	lang, ok := langs.FromExtension(filepath.Ext(path))
	if !ok {
		idx.fileCount++
		return
	}

	src, err := os.ReadFile(path)
	if err != nil {
		idx.fileCount++
		return
	}

	hash := xxhash.Sum64(src)
	if prev, ok := idx.hashes[path]; ok {
		if prev == hash {
			idx.fileCount++
			return
		}
		idx.removeFile(path)
	}
	idx.hashes[path] = hash

	parseStart := time.Now()
	tree, err := e.registry.Parse(lang, src)
	e.metrics.RecordFileParse(time.Since(parseStart))
	if err != nil {
		idx.fileCount++
		return
	}
	defer tree.Close()
	root := tree.RootNode()

	extractor, err := symbols.New(lang, src)
	if err != nil {
		idx.fileCount++
		return
	}
	syms := extractor.Extract(root, path)
	idx.symbols[path] = syms
	idx.symbolCount += len(syms)

	chunker, err := chunking.New(lang, src)
	if err == nil {
		chunks := chunker.Chunk(root, path)
		idx.chunks[path] = chunks
		for _, c := range chunks {
			docType := model.DocOther
			switch c.ChunkType {
			case model.ChunkFunction:
				docType = model.DocFunction
			case model.ChunkMethod:
				docType = model.DocMethod
			case model.ChunkClass:
				docType = model.DocClass
			}
			idx.bm25.Add(c.ID, c.FilePath, c.Content, docType, c.StartLine, c.EndLine)
			idx.tfidf.Add(c.ID, c.FilePath, c.Content, docType, c.StartLine, c.EndLine)
			idx.chunksByID[c.ID] = c
		}
	}

	for _, sym := range syms {
		if sym.Kind != model.KindFunction && sym.Kind != model.KindMethod {
			continue
		}
		bodyNode := findBodyNode(root, sym)
		if bodyNode == nil {
			continue
		}
		cfg, err := cfgbuild.Build(lang, qualifiedSymbolName(sym), path, bodyNode, src)
		if err == nil {
			idx.cfgs[cfgKey(path, sym)] = cfg
		}
	}

	idx.fileCount++
}

func qualifiedSymbolName(sym model.Symbol) string {
	if sym.Container == "" {
		return sym.Name
	}
	return sym.Container + "." + sym.Name
}

func cfgKey(path string, sym model.Symbol) string {
	return fmt.Sprintf("%s:%s", path, qualifiedSymbolName(sym))
}

// findBodyNode locates the tree-sitter node for sym's source range and
// returns its body child, if any — a position-based lookup since the
// extractor doesn't retain node references past the initial walk.
func findBodyNode(root *tree_sitter.Node, sym model.Symbol) *tree_sitter.Node {
	var found *tree_sitter.Node
	var walk func(n *tree_sitter.Node)
	walk = func(n *tree_sitter.Node) {
		if found != nil || n == nil {
			return
		}
		start := n.StartPosition()
		end := n.EndPosition()
		if int(start.Row)+1 == sym.Range.StartLine && int(end.Row)+1 == sym.Range.EndLine {
			if body := n.ChildByFieldName("body"); body != nil {
				found = body
				return
			}
		}
		count := n.ChildCount()
		for i := uint(0); i < count; i++ {
			walk(n.Child(i))
			if found != nil {
				return
			}
		}
	}
	walk(root)
	return found
}

// GetFile returns the full contents of path inside repoName, with
// secrets redacted unless the file is a recognized sensitive file (in
// which case it is never returned at all).
func (e *Engine) GetFile(repoName, relPath string) (string, error) {
	repo, ok := e.repos.Get(repoName)
	if !ok {
		return "", errs.New(errs.NotFound, fmt.Sprintf("repository %q is not registered", repoName))
	}
	full := filepath.Join(repo.Path, relPath)
	if redact.IsSensitiveFile(full) {
		return "", errs.New(errs.FeatureDisabled, "file is classified sensitive and cannot be retrieved")
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", errs.Wrap(errs.NotFound, fmt.Sprintf("reading %s", relPath), err)
	}
	return redact.Secrets(string(data)), nil
}

// GetExcerpt returns lines [startLine, endLine] (1-based, inclusive) of
// a file, redacted the same way GetFile is.
func (e *Engine) GetExcerpt(repoName, relPath string, startLine, endLine int) (string, error) {
	content, err := e.GetFile(repoName, relPath)
	if err != nil {
		return "", err
	}
	lines := strings.Split(content, "\n")
	if startLine < 1 {
		startLine = 1
	}
	if endLine > len(lines) {
		endLine = len(lines)
	}
	if startLine > endLine {
		return "", nil
	}
	return strings.Join(lines[startLine-1:endLine], "\n"), nil
}

// FindSymbols returns every symbol across repoName's index whose name
// contains query (case-insensitive substring match).
func (e *Engine) FindSymbols(repoName, query string) ([]model.Symbol, error) {
	idx, err := e.indexFor(repoName)
	if err != nil {
		return nil, err
	}
	var out []model.Symbol
	for _, syms := range idx.symbols {
		for _, s := range syms {
			if containsFold(s.Name, query) {
				out = append(out, s)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FilePath != out[j].FilePath {
			return out[i].FilePath < out[j].FilePath
		}
		return out[i].Range.StartLine < out[j].Range.StartLine
	})
	return out, nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// fuzzySymbolMatchThreshold is the minimum Levenshtein similarity (1.0 =
// identical) GetSymbolDefinition will accept from its fuzzy fallback.
const fuzzySymbolMatchThreshold = 0.75

// GetSymbolDefinition returns the symbol named exactly name, falling back
// to the closest Levenshtein match when no exact name exists, so a
// slightly misspelled or differently-cased query still resolves.
func (e *Engine) GetSymbolDefinition(repoName, name string) (model.Symbol, error) {
	idx, err := e.indexFor(repoName)
	if err != nil {
		return model.Symbol{}, err
	}
	for _, syms := range idx.symbols {
		for _, s := range syms {
			if s.Name == name {
				return s, nil
			}
		}
	}

	var names []string
	for _, syms := range idx.symbols {
		for _, s := range syms {
			names = append(names, s.Name)
		}
	}
	if len(names) > 0 {
		if match, err := edlib.FuzzySearchThreshold(name, names, fuzzySymbolMatchThreshold, edlib.Levenshtein); err == nil {
			for _, syms := range idx.symbols {
				for _, s := range syms {
					if s.Name == match {
						return s, nil
					}
				}
			}
		}
	}

	return model.Symbol{}, errs.New(errs.NotFound, fmt.Sprintf("no symbol named %q", name))
}

// GetControlFlow returns the cached ControlFlowGraph for a symbol.
func (e *Engine) GetControlFlow(repoName, filePath, symbolName string) (*model.ControlFlowGraph, error) {
	idx, err := e.indexFor(repoName)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%s:%s", filePath, symbolName)
	cfg, ok := idx.cfgs[key]
	if !ok {
		return nil, errs.New(errs.NoFunctionBody, fmt.Sprintf("no control flow graph for %s", key))
	}
	return cfg, nil
}

// SearchCode runs a plain BM25 lexical search over repoName's chunks.
func (e *Engine) SearchCode(repoName, query string, limit int) ([]bm25.Result, error) {
	idx, err := e.indexFor(repoName)
	if err != nil {
		return nil, err
	}
	return idx.bm25.Search(query, limit), nil
}

// SemanticSearch runs a TF-IDF cosine-similarity search over repoName's
// chunks.
func (e *Engine) SemanticSearch(repoName, query string, limit int) ([]tfidf.Result, error) {
	idx, err := e.indexFor(repoName)
	if err != nil {
		return nil, err
	}
	return idx.tfidf.FindSimilar(query, limit), nil
}

// HybridSearch runs the RRF-fused BM25+TF-IDF search over repoName's
// chunks.
func (e *Engine) HybridSearch(ctx context.Context, repoName, query string, limit int) ([]hybrid.Result, error) {
	idx, err := e.indexFor(repoName)
	if err != nil {
		return nil, err
	}
	return idx.hybrid.Search(ctx, query, limit)
}

// StartWatch starts a filesystem watcher for repoName that applies each
// debounced batch to the existing index via ApplyChange.
func (e *Engine) StartWatch(repoName string) error {
	repo, ok := e.repos.Get(repoName)
	if !ok {
		return errs.New(errs.NotFound, fmt.Sprintf("repository %q is not registered", repoName))
	}

	e.mu.Lock()
	if _, exists := e.watch[repoName]; exists {
		e.mu.Unlock()
		return nil
	}
	e.mu.Unlock()

	w, err := watcher.New(repo, watcher.DefaultDebounce)
	if err != nil {
		return err
	}
	w.OnBatch = func(batch watcher.Batch) {
		_ = e.ApplyChange(repoName, batch)
	}
	if err := w.Start(); err != nil {
		return err
	}

	e.mu.Lock()
	e.watch[repoName] = w
	e.mu.Unlock()
	return nil
}

// StopWatch stops the watcher for repoName, if any.
func (e *Engine) StopWatch(repoName string) error {
	e.mu.Lock()
	w, ok := e.watch[repoName]
	if ok {
		delete(e.watch, repoName)
	}
	e.mu.Unlock()
	if !ok {
		return nil
	}
	return w.Stop()
}

func (e *Engine) indexFor(repoName string) (*fileIndex, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	idx, ok := e.indices[repoName]
	if !ok {
		return nil, errs.New(errs.IndexUnavailable, fmt.Sprintf("repository %q has not been indexed yet", repoName))
	}
	return idx, nil
}
