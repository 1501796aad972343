// Exploration and structural queries layered over the same per-repo
// fileIndex Reindex/ApplyChange maintain: directory structure, export
// surface, chunk listings, and import relationships. Grounded on the
// teacher's internal/core/universal_graph.go (the same idea of deriving
// a structural summary from already-extracted symbols/chunks rather
// than re-walking the filesystem) and internal/analysis/dependency_graph.go
// for the import-graph shape.
package engine

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/doctordisrespect/narsil-mcp/internal/model"
)

// DirSummary is one directory's contribution to ProjectStructure: its
// path relative to the repo root and how many indexed files it holds.
type DirSummary struct {
	Path      string `json:"path"`
	FileCount int    `json:"file_count"`
}

// ProjectStructure summarizes repoName's indexed file tree by directory,
// without re-walking the filesystem: every indexed path is bucketed by
// its containing directory and counted.
func (e *Engine) ProjectStructure(repoName string) ([]DirSummary, error) {
	idx, err := e.indexFor(repoName)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for path := range idx.hashes {
		dir := filepath.Dir(path)
		counts[dir]++
	}
	out := make([]DirSummary, 0, len(counts))
	for dir, n := range counts {
		out = append(out, DirSummary{Path: dir, FileCount: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// IsWatching reports whether repoName currently has an active filesystem
// watcher, the signal get_incremental_status exposes alongside
// IndexStatus.
func (e *Engine) IsWatching(repoName string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.watch[repoName]
	return ok
}

// FindReferences returns every chunk whose content contains an
// occurrence of symbolName, repo-wide. This is a textual proxy for
// reference resolution — it has no notion of scope or shadowing, the
// same limitation as the teacher's own trigram-based reference lookup
// in internal/core/context_lookup.go.
func (e *Engine) FindReferences(repoName, symbolName string) ([]model.Chunk, error) {
	return e.chunksContaining(repoName, symbolName)
}

// FindSymbolUsages is FindReferences restricted to whole-word matches,
// so "Run" doesn't also match "RunLoop".
func (e *Engine) FindSymbolUsages(repoName, symbolName string) ([]model.Chunk, error) {
	idx, err := e.indexFor(repoName)
	if err != nil {
		return nil, err
	}
	var out []model.Chunk
	for _, chunks := range idx.chunks {
		for _, c := range chunks {
			if containsWholeWord(c.Content, symbolName) {
				out = append(out, c)
			}
		}
	}
	sortChunks(out)
	return out, nil
}

func (e *Engine) chunksContaining(repoName, needle string) ([]model.Chunk, error) {
	idx, err := e.indexFor(repoName)
	if err != nil {
		return nil, err
	}
	var out []model.Chunk
	for _, chunks := range idx.chunks {
		for _, c := range chunks {
			if strings.Contains(c.Content, needle) {
				out = append(out, c)
			}
		}
	}
	sortChunks(out)
	return out, nil
}

func sortChunks(chunks []model.Chunk) {
	sort.Slice(chunks, func(i, j int) bool {
		if chunks[i].FilePath != chunks[j].FilePath {
			return chunks[i].FilePath < chunks[j].FilePath
		}
		return chunks[i].StartLine < chunks[j].StartLine
	})
}

func containsWholeWord(haystack, word string) bool {
	if word == "" {
		return false
	}
	idx := 0
	for {
		at := strings.Index(haystack[idx:], word)
		if at < 0 {
			return false
		}
		start := idx + at
		end := start + len(word)
		before := byte(0)
		if start > 0 {
			before = haystack[start-1]
		}
		after := byte(0)
		if end < len(haystack) {
			after = haystack[end]
		}
		if !isIdentByte(before) && !isIdentByte(after) {
			return true
		}
		idx = start + 1
	}
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// ExportEntry is one publicly-visible symbol, as reported by
// GetExportMap.
type ExportEntry struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	FilePath string `json:"file_path"`
	Line     int    `json:"line"`
}

// GetExportMap returns every symbol indexed with public visibility,
// repo-wide: the surface another package or repo could import.
func (e *Engine) GetExportMap(repoName string) ([]ExportEntry, error) {
	idx, err := e.indexFor(repoName)
	if err != nil {
		return nil, err
	}
	var out []ExportEntry
	for path, syms := range idx.symbols {
		for _, s := range syms {
			if s.Visibility != model.VisibilityPublic {
				continue
			}
			out = append(out, ExportEntry{
				Name: s.Name, Kind: string(s.Kind),
				FilePath: path, Line: s.Range.StartLine,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FilePath != out[j].FilePath {
			return out[i].FilePath < out[j].FilePath
		}
		return out[i].Line < out[j].Line
	})
	return out, nil
}

// fuzzySymbolSearchThreshold is lower than GetSymbolDefinition's exact-
// lookup fallback threshold, since WorkspaceSymbolSearch is explicitly a
// broad, typo-tolerant search rather than a single best guess.
const fuzzySymbolSearchThreshold = 0.55

// WorkspaceSymbolSearch is FindSymbols widened to also catch near-miss
// names via Levenshtein similarity, for editor-style "go to symbol in
// workspace" queries that may not be an exact substring.
func (e *Engine) WorkspaceSymbolSearch(repoName, query string) ([]model.Symbol, error) {
	exact, err := e.FindSymbols(repoName, query)
	if err != nil {
		return nil, err
	}
	if len(exact) > 0 || query == "" {
		return exact, nil
	}
	idx, err := e.indexFor(repoName)
	if err != nil {
		return nil, err
	}
	var out []model.Symbol
	for _, syms := range idx.symbols {
		for _, s := range syms {
			if similarity(strings.ToLower(s.Name), strings.ToLower(query)) >= fuzzySymbolSearchThreshold {
				out = append(out, s)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// similarity is a coarse character-overlap ratio used only to rank
// workspace-search near misses; GetSymbolDefinition's fallback uses the
// real Levenshtein implementation from go-edlib for a single best match,
// but ranking many candidates here doesn't need that precision.
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	shared := 0
	seen := make(map[byte]int)
	for i := 0; i < len(a); i++ {
		seen[a[i]]++
	}
	for i := 0; i < len(b); i++ {
		if seen[b[i]] > 0 {
			seen[b[i]]--
			shared++
		}
	}
	longer := len(a)
	if len(b) > longer {
		longer = len(b)
	}
	return float64(shared) / float64(longer)
}

// SearchChunks runs a plain BM25 search the same way SearchCode does,
// but resolves each hit back to its full model.Chunk (imports, doc
// comment, symbol context) instead of just an ID/score pair.
func (e *Engine) SearchChunks(repoName, query string, limit int) ([]model.Chunk, error) {
	idx, err := e.indexFor(repoName)
	if err != nil {
		return nil, err
	}
	hits := idx.bm25.Search(query, limit)
	out := make([]model.Chunk, 0, len(hits))
	for _, h := range hits {
		if c, ok := idx.chunksByID[h.DocID]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// ChunkStats reports how many indexed chunks fall into each ChunkType.
func (e *Engine) ChunkStats(repoName string) (map[string]int, error) {
	idx, err := e.indexFor(repoName)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int)
	for _, chunks := range idx.chunks {
		for _, c := range chunks {
			out[string(c.ChunkType)]++
		}
	}
	return out, nil
}

// GetChunks returns every chunk extracted from one file.
func (e *Engine) GetChunks(repoName, path string) ([]model.Chunk, error) {
	idx, err := e.indexFor(repoName)
	if err != nil {
		return nil, err
	}
	return idx.chunks[path], nil
}

// Dependencies returns the sorted, deduplicated set of import paths
// referenced anywhere in repoName's indexed chunks — the external
// surface get_dependencies and generate_sbom both build from.
func (e *Engine) Dependencies(repoName string) ([]string, error) {
	idx, err := e.indexFor(repoName)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, chunks := range idx.chunks {
		for _, c := range chunks {
			for _, imp := range c.Imports {
				seen[imp] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for imp := range seen {
		out = append(out, imp)
	}
	sort.Strings(out)
	return out, nil
}

// ImportEdge is one file-to-file import relationship resolved by
// ImportGraph.
type ImportEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ImportGraph resolves each file's raw import strings against the set
// of indexed file paths on a best-effort basename/suffix match (there is
// no per-language module resolver here), and returns the edges that
// matched — an external import with no indexed counterpart simply
// produces no edge, rather than a guessed one.
func (e *Engine) ImportGraph(repoName string) ([]ImportEdge, error) {
	idx, err := e.indexFor(repoName)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(idx.chunks))
	for p := range idx.chunks {
		paths = append(paths, p)
	}

	var edges []ImportEdge
	for path, chunks := range idx.chunks {
		imports := make(map[string]bool)
		for _, c := range chunks {
			for _, imp := range c.Imports {
				imports[imp] = true
			}
		}
		for imp := range imports {
			if target := resolveImport(imp, path, paths); target != "" {
				edges = append(edges, ImportEdge{From: path, To: target})
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return edges, nil
}

// resolveImport finds the indexed path best matching import string imp,
// by stem (final path segment, extension stripped). Returns "" if no
// candidate besides from itself matches.
func resolveImport(imp, from string, candidates []string) string {
	stem := imp
	if i := strings.LastIndex(stem, "/"); i >= 0 {
		stem = stem[i+1:]
	}
	stem = strings.TrimSuffix(stem, filepath.Ext(stem))
	if stem == "" {
		return ""
	}
	for _, c := range candidates {
		if c == from {
			continue
		}
		base := filepath.Base(c)
		base = strings.TrimSuffix(base, filepath.Ext(base))
		if base == stem {
			return c
		}
	}
	return ""
}

// FindCircularImports reports every cycle in ImportGraph's edge set,
// found via plain DFS with a recursion-stack check.
func (e *Engine) FindCircularImports(repoName string) ([][]string, error) {
	edges, err := e.ImportGraph(repoName)
	if err != nil {
		return nil, err
	}
	adj := make(map[string][]string)
	for _, edge := range edges {
		adj[edge.From] = append(adj[edge.From], edge.To)
	}

	var cycles [][]string
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	var stack []string

	var visit func(node string)
	visit = func(node string) {
		visited[node] = true
		onStack[node] = true
		stack = append(stack, node)
		for _, next := range adj[node] {
			if onStack[next] {
				cycle := append([]string{}, stack...)
				for len(cycle) > 0 && cycle[0] != next {
					cycle = cycle[1:]
				}
				cycles = append(cycles, append(cycle, next))
				continue
			}
			if !visited[next] {
				visit(next)
			}
		}
		stack = stack[:len(stack)-1]
		onStack[node] = false
	}

	nodes := make([]string, 0, len(adj))
	for n := range adj {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)
	for _, n := range nodes {
		if !visited[n] {
			visit(n)
		}
	}
	return cycles, nil
}
