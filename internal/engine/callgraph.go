package engine

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/doctordisrespect/narsil-mcp/internal/errs"
)

// Call-graph tools are specified against a real inter-procedural call
// graph, which would need per-language semantic resolution of call
// targets (overload resolution, interface dispatch, closures) well
// beyond what a tree-sitter parse gives this server. These methods
// instead find callers/callees textually: a function F "calls" G if G's
// chunk contains a "G(" occurrence, and is "called by" G if F's own
// chunk contains an "F(" occurrence. This over- and under-approximates
// real call resolution (it can't tell a call from a similarly-named
// shadowed identifier, and misses calls through a function value), so
// results are a lead to follow up on, not a certified graph. All are
// gated behind the "call_graph" feature flag (model.EngineFlags.CallGraph
// / --call-graph).

// CallEdge is one textually-detected caller -> callee relationship.
type CallEdge struct {
	Caller   string `json:"caller"`
	FilePath string `json:"file_path"`
	Line     int    `json:"line"`
}

func callPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\s*\(`)
}

// GetCallers returns every indexed function/method chunk whose content
// contains a call-shaped occurrence of symbolName.
func (e *Engine) GetCallers(repoName, symbolName string) ([]CallEdge, error) {
	idx, err := e.indexFor(repoName)
	if err != nil {
		return nil, err
	}
	pat := callPattern(symbolName)
	var out []CallEdge
	for path, chunks := range idx.chunks {
		for _, c := range chunks {
			if c.SymbolContext == symbolName {
				continue // a symbol's own definition chunk isn't a caller of itself
			}
			if loc := pat.FindStringIndex(c.Content); loc != nil {
				line := c.StartLine + strings.Count(c.Content[:loc[0]], "\n")
				out = append(out, CallEdge{Caller: c.SymbolContext, FilePath: path, Line: line})
			}
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

// GetCallees returns every call-shaped identifier occurring anywhere in
// symbolName's own defining chunk — a crude "what does this function
// call" proxy, since it can't distinguish a real call target from a
// coincidental "word(" occurrence in a comment or string.
func (e *Engine) GetCallees(repoName, symbolName string) ([]string, error) {
	idx, err := e.indexFor(repoName)
	if err != nil {
		return nil, err
	}
	calleePattern := regexp.MustCompile(`\b([A-Za-z_][A-Za-z0-9_]*)\s*\(`)
	seen := make(map[string]bool)
	for _, chunks := range idx.chunks {
		for _, c := range chunks {
			if c.SymbolContext != symbolName {
				continue
			}
			for _, m := range calleePattern.FindAllStringSubmatch(c.Content, -1) {
				if m[1] != symbolName {
					seen[m[1]] = true
				}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// GetCallGraph returns the union of GetCallers and GetCallees edges
// touching symbolName, as a single best-effort neighborhood rather than
// a full transitive graph.
func (e *Engine) GetCallGraph(repoName, symbolName string) (map[string]any, error) {
	callers, err := e.GetCallers(repoName, symbolName)
	if err != nil {
		return nil, err
	}
	callees, err := e.GetCallees(repoName, symbolName)
	if err != nil {
		return nil, err
	}
	return map[string]any{"symbol": symbolName, "callers": callers, "callees": callees}, nil
}

// FindCallPath does a bounded breadth-first search over the callee
// relation (GetCallees) from -> to, returning the shortest chain of
// names found, if any, within maxDepth hops. It refuses to search past
// maxDepth rather than silently truncating an unbounded graph, since
// the callee relation here can have false edges that would otherwise
// make the search diverge.
func (e *Engine) FindCallPath(repoName, from, to string, maxDepth int) ([]string, error) {
	if maxDepth <= 0 {
		maxDepth = 6
	}
	type frame struct {
		name string
		path []string
	}
	queue := []frame{{name: from, path: []string{from}}}
	visited := map[string]bool{from: true}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.name == to {
			return cur.path, nil
		}
		if len(cur.path) > maxDepth {
			continue
		}
		callees, err := e.GetCallees(repoName, cur.name)
		if err != nil {
			return nil, err
		}
		for _, next := range callees {
			if visited[next] {
				continue
			}
			visited[next] = true
			queue = append(queue, frame{name: next, path: append(append([]string{}, cur.path...), next)})
		}
	}
	return nil, errs.New(errs.NotFound, fmt.Sprintf("no call path found from %q to %q within %d hops", from, to, maxDepth))
}
