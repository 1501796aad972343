// Static-analysis queries derived from the cached per-function
// ControlFlowGraph: cyclomatic complexity, dead code, and a handful of
// dataflow heuristics computed over a block's statement text rather
// than a real def-use analysis. Grounded on the teacher's
// internal/analysis/metrics_calculator.go (cyclomatic complexity via
// edge/node counting) and internal/core/universal_graph.go's
// reachability pass, which model.ComputeUnreachable generalizes.
package engine

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/doctordisrespect/narsil-mcp/internal/errs"
	"github.com/doctordisrespect/narsil-mcp/internal/model"
)

// FunctionComplexity is one function's cyclomatic-complexity score.
type FunctionComplexity struct {
	Symbol     string `json:"symbol"`
	FilePath   string `json:"file_path"`
	Complexity int    `json:"complexity"`
}

// cyclomaticComplexity computes E - N + 2 for a single-entry,
// single-procedure CFG, the standard McCabe formula.
func cyclomaticComplexity(cfg *model.ControlFlowGraph) int {
	return len(cfg.Edges) - len(cfg.Blocks) + 2
}

// GetComplexity returns the cyclomatic complexity of one function's CFG.
func (e *Engine) GetComplexity(repoName, filePath, symbolName string) (FunctionComplexity, error) {
	cfg, err := e.GetControlFlow(repoName, filePath, symbolName)
	if err != nil {
		return FunctionComplexity{}, err
	}
	return FunctionComplexity{Symbol: symbolName, FilePath: filePath, Complexity: cyclomaticComplexity(cfg)}, nil
}

// GetFunctionHotspots ranks every function with a cached CFG by
// cyclomatic complexity, descending, returning at most limit entries.
func (e *Engine) GetFunctionHotspots(repoName string, limit int) ([]FunctionComplexity, error) {
	idx, err := e.indexFor(repoName)
	if err != nil {
		return nil, err
	}
	out := make([]FunctionComplexity, 0, len(idx.cfgs))
	for key, cfg := range idx.cfgs {
		filePath, symbol := splitCfgKey(key)
		out = append(out, FunctionComplexity{
			Symbol: symbol, FilePath: filePath, Complexity: cyclomaticComplexity(cfg),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Complexity != out[j].Complexity {
			return out[i].Complexity > out[j].Complexity
		}
		return out[i].Symbol < out[j].Symbol
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func splitCfgKey(key string) (filePath, symbol string) {
	if i := strings.LastIndex(key, ":"); i >= 0 {
		return key[:i], key[i+1:]
	}
	return key, ""
}

// DeadBlock is one basic block FindDeadCode found unreachable from a
// function's entry block.
type DeadBlock struct {
	Symbol   string `json:"symbol"`
	FilePath string `json:"file_path"`
	BlockID  int    `json:"block_id"`
	Range    model.Range `json:"range"`
}

// FindDeadCode reports every basic block model.ComputeUnreachable has
// already flagged as unreachable, across every cached CFG in repoName.
func (e *Engine) FindDeadCode(repoName string) ([]DeadBlock, error) {
	idx, err := e.indexFor(repoName)
	if err != nil {
		return nil, err
	}
	var out []DeadBlock
	for key, cfg := range idx.cfgs {
		filePath, symbol := splitCfgKey(key)
		for id := range cfg.Unreachable {
			block, ok := cfg.Blocks[id]
			if !ok {
				continue
			}
			out = append(out, DeadBlock{Symbol: symbol, FilePath: filePath, BlockID: id, Range: block.Range})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FilePath != out[j].FilePath {
			return out[i].FilePath < out[j].FilePath
		}
		if out[i].Symbol != out[j].Symbol {
			return out[i].Symbol < out[j].Symbol
		}
		return out[i].BlockID < out[j].BlockID
	})
	return out, nil
}

// assignmentPattern matches a lone identifier immediately followed by
// one of the common single-char/two-char assignment operators, the
// cheapest possible proxy for "this statement defines a variable"
// without a real parse of the block's statement text.
var assignmentPattern = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)\s*(:?=)[^=]`)

// VariableDef is one heuristic variable definition site: the block it
// was found in and the raw statement text.
type VariableDef struct {
	Symbol    string `json:"symbol"`
	FilePath  string `json:"file_path"`
	BlockID   int    `json:"block_id"`
	Statement string `json:"statement"`
	Name      string `json:"name,omitempty"`
}

// GetDataFlow returns every statement in a function's CFG that looks
// like a variable definition, in block order. This is a textual
// heuristic, not a real def-use dataflow analysis — it has no notion of
// scope, control-flow-sensitive reachability, or SSA form.
func (e *Engine) GetDataFlow(repoName, filePath, symbolName string) ([]VariableDef, error) {
	cfg, err := e.GetControlFlow(repoName, filePath, symbolName)
	if err != nil {
		return nil, err
	}
	return scanDefs(cfg, symbolName, filePath), nil
}

func scanDefs(cfg *model.ControlFlowGraph, symbolName, filePath string) []VariableDef {
	ids := make([]int, 0, len(cfg.Blocks))
	for id := range cfg.Blocks {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var out []VariableDef
	for _, id := range ids {
		block := cfg.Blocks[id]
		for _, stmt := range block.Statements {
			if m := assignmentPattern.FindStringSubmatch(stmt); m != nil {
				out = append(out, VariableDef{
					Symbol: symbolName, FilePath: filePath, BlockID: id,
					Statement: strings.TrimSpace(stmt), Name: m[1],
				})
			}
		}
	}
	return out
}

// GetReachingDefinitions is GetDataFlow's output regrouped by variable
// name — for each name, every block-ordered definition site found,
// approximating which definitions "reach" later uses of that name. It
// does not account for branches that make some definitions mutually
// exclusive; see GetDataFlow's heuristic caveat.
func (e *Engine) GetReachingDefinitions(repoName, filePath, symbolName string) (map[string][]VariableDef, error) {
	defs, err := e.GetDataFlow(repoName, filePath, symbolName)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]VariableDef)
	for _, d := range defs {
		out[d.Name] = append(out[d.Name], d)
	}
	return out, nil
}

// usePattern matches a bare identifier reference, used by
// FindUninitialized's "is this name ever defined before this block"
// check.
var usePattern = regexp.MustCompile(`\b([A-Za-z_][A-Za-z0-9_]*)\b`)

// FindUninitialized reports every identifier referenced in a function
// before any block-ordered definition of that name appears — a
// heuristic that flags names used-before-defined in block order, not a
// sound initialization analysis (it can't see definitions reached only
// through some branches and not others).
func (e *Engine) FindUninitialized(repoName, filePath, symbolName string) ([]VariableDef, error) {
	cfg, err := e.GetControlFlow(repoName, filePath, symbolName)
	if err != nil {
		return nil, err
	}
	defined := make(map[string]bool)
	ids := make([]int, 0, len(cfg.Blocks))
	for id := range cfg.Blocks {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var out []VariableDef
	for _, id := range ids {
		block := cfg.Blocks[id]
		for _, stmt := range block.Statements {
			if m := assignmentPattern.FindStringSubmatch(stmt); m != nil {
				if !defined[m[1]] {
					defined[m[1]] = true
					continue
				}
			}
			for _, name := range usePattern.FindAllStringSubmatch(stmt, -1) {
				if !defined[name[1]] && isLikelyLocalName(name[1]) {
					out = append(out, VariableDef{
						Symbol: symbolName, FilePath: filePath, BlockID: id,
						Statement: strings.TrimSpace(stmt), Name: name[1],
					})
				}
			}
		}
	}
	return out, nil
}

// isLikelyLocalName filters usePattern matches down to names that look
// like local variables (short, lowercase-first) rather than package
// names, type names, or keywords, keeping FindUninitialized's false-
// positive rate down without a real symbol table lookup per token.
func isLikelyLocalName(name string) bool {
	if name == "" || len(name) > 24 {
		return false
	}
	first := name[0]
	return first >= 'a' && first <= 'z'
}

// FindDeadStores reports definitions GetDataFlow found for a name that
// is never referenced again anywhere later in block order — a
// write-without-a-later-read heuristic, with the same scope/branch
// blindness as GetDataFlow.
func (e *Engine) FindDeadStores(repoName, filePath, symbolName string) ([]VariableDef, error) {
	cfg, err := e.GetControlFlow(repoName, filePath, symbolName)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(cfg.Blocks))
	for id := range cfg.Blocks {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var allText []string
	for _, id := range ids {
		allText = append(allText, cfg.Blocks[id].Statements...)
	}
	defs := scanDefs(cfg, symbolName, filePath)

	var out []VariableDef
	for _, d := range defs {
		usedLater := false
		for _, stmt := range allText {
			if strings.Contains(stmt, d.Name) && stmt != d.Statement {
				usedLater = true
				break
			}
		}
		if !usedLater {
			out = append(out, d)
		}
	}
	return out, nil
}

// InferTypes is a shallow stand-in for real type inference: full
// cross-language type inference is out of scope for this server (it
// would need a type-checker per language, not a parser), so this
// reports only the declared/annotated type text tree-sitter already
// captured in each statement, when a ": Type" or "Type name" shape is
// visible in the raw text.
var typeAnnotationPattern = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\s*:\s*([A-Za-z_][A-Za-z0-9_<>\[\]]*)`)

// TypeHint is one textually-recovered type annotation.
type TypeHint struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// InferTypes returns the type annotations visible in a function's
// source text. It does not perform inference for unannotated bindings —
// see the package doc comment for why.
func (e *Engine) InferTypes(repoName, filePath, symbolName string) ([]TypeHint, error) {
	cfg, err := e.GetControlFlow(repoName, filePath, symbolName)
	if err != nil {
		return nil, err
	}
	var out []TypeHint
	for _, id := range sortedBlockIDs(cfg) {
		for _, stmt := range cfg.Blocks[id].Statements {
			for _, m := range typeAnnotationPattern.FindAllStringSubmatch(stmt, -1) {
				out = append(out, TypeHint{Name: m[1], Type: m[2]})
			}
		}
	}
	return out, nil
}

// CheckTypeErrors always returns errs.Transient: without real type
// inference (see InferTypes), this server has no basis to assert a
// program is type-correct or not, so it refuses to guess rather than
// report a false "no errors found".
func (e *Engine) CheckTypeErrors(repoName, filePath, symbolName string) error {
	return errs.New(errs.Transient, "type-error checking requires a language-specific type checker this server does not embed")
}

func sortedBlockIDs(cfg *model.ControlFlowGraph) []int {
	ids := make([]int, 0, len(cfg.Blocks))
	for id := range cfg.Blocks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// taintUnsupported is the shared message every taint-tracking tool
// returns: trace_taint, get_taint_sources, and get_typed_taint_flow name
// a source-to-sink dataflow analysis this server treats as an
// out-of-scope collaborator, the same way git/LSP/neural backends are
// external subsystems rather than something indexFile's extraction
// produces.
func taintUnsupported(op string) error {
	return errs.New(errs.Transient, fmt.Sprintf("%s requires a taint-tracking engine this server does not embed", op))
}

// TraceTaint always fails: see taintUnsupported.
func (e *Engine) TraceTaint(repoName, filePath, symbolName string) error {
	return taintUnsupported("trace_taint")
}

// GetTaintSources always fails: see taintUnsupported.
func (e *Engine) GetTaintSources(repoName string) error {
	return taintUnsupported("get_taint_sources")
}

// GetTypedTaintFlow always fails: see taintUnsupported.
func (e *Engine) GetTypedTaintFlow(repoName, filePath, symbolName string) error {
	return taintUnsupported("get_typed_taint_flow")
}
