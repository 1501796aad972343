// Package dispatcher is the tool_name -> Handler registry: it decodes a
// JSON-RPC tool call's arguments, invokes the matching internal/engine
// operation, renders the result, and times every call through
// internal/metrics. Modeled on
// internal/mcp.Server.registerTools/handlers.go: one handler function per
// tool, manual json.Unmarshal of req.Params.Arguments into a typed
// params struct (to keep "unknown field" errors readable), and a
// createJSONResponse/createErrorResponse pair of response shapes.
package dispatcher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/doctordisrespect/narsil-mcp/internal/engine"
	"github.com/doctordisrespect/narsil-mcp/internal/errs"
	"github.com/doctordisrespect/narsil-mcp/internal/metadata"
)

// Handler answers one tool call against e using the decoded JSON
// arguments in req.
type Handler func(ctx context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error)

// Registry is the full tool_name -> Handler table this server answers.
// Every key here has a matching metadata.Table entry.
var Registry = map[string]Handler{
	"list_repos":            handleListRepos,
	"discover_repos":        handleDiscoverRepos,
	"validate_repo":         handleValidateRepo,
	"reindex":               handleReindex,
	"get_index_status":      handleGetIndexStatus,
	"get_file":              handleGetFile,
	"get_excerpt":           handleGetExcerpt,
	"find_symbols":          handleFindSymbols,
	"get_symbol_definition": handleGetSymbolDefinition,
	"get_control_flow":      handleGetControlFlow,
	"search_code":           handleSearchCode,
	"semantic_search":       handleSemanticSearch,
	"hybrid_search":         handleHybridSearch,
	"get_metrics":           handleGetMetrics,

	"get_project_structure":   handleGetProjectStructure,
	"get_incremental_status":  handleGetIncrementalStatus,
	"find_references":         handleFindReferences,
	"get_dependencies":        handleGetDependencies,
	"find_symbol_usages":      handleFindSymbolUsages,
	"get_export_map":          handleGetExportMap,
	"workspace_symbol_search": handleWorkspaceSymbolSearch,
	"search_chunks":           handleSearchChunks,
	"get_chunk_stats":         handleGetChunkStats,
	"get_chunks":              handleGetChunks,

	"get_import_graph":     handleGetImportGraph,
	"find_circular_imports": handleFindCircularImports,

	"get_complexity":          handleGetComplexity,
	"get_function_hotspots":   handleGetFunctionHotspots,
	"find_dead_code":          handleFindDeadCode,
	"get_data_flow":           handleGetDataFlow,
	"get_reaching_definitions": handleGetReachingDefinitions,
	"find_uninitialized":      handleFindUninitialized,
	"find_dead_stores":        handleFindDeadStores,
	"infer_types":             handleInferTypes,
	"check_type_errors":       handleCheckTypeErrors,
	"trace_taint":             handleTraceTaint,
	"get_taint_sources":       handleGetTaintSources,
	"get_typed_taint_flow":    handleGetTypedTaintFlow,

	"scan_security":                  handleScanSecurity,
	"find_injection_vulnerabilities": handleFindInjectionVulnerabilities,
	"check_owasp_top10":              handleCheckOWASPTop10,
	"check_cwe_top25":                handleCheckCWETop25,
	"get_security_summary":           handleGetSecuritySummary,
	"explain_vulnerability":          handleExplainVulnerability,
	"suggest_fix":                    handleSuggestFix,

	"generate_sbom":      handleGenerateSBOM,
	"check_dependencies": handleCheckDependencies,
	"check_licenses":     handleCheckLicenses,
	"find_upgrade_path":  handleFindUpgradePath,

	"get_blame":          handleGetBlame,
	"get_file_history":   handleGetFileHistory,
	"get_recent_changes": handleGetRecentChanges,
	"get_hotspots":       handleGetHotspots,
	"get_contributors":   handleGetContributors,
	"get_commit_diff":    handleGetCommitDiff,
	"get_symbol_history": handleGetSymbolHistory,
	"get_branch_info":    handleGetBranchInfo,
	"get_modified_files": handleGetModifiedFiles,

	"get_hover_info":   handleGetHoverInfo,
	"get_type_info":    handleGetTypeInfo,
	"go_to_definition": handleGoToDefinition,

	"neural_search":          handleNeuralSearch,
	"find_similar_code":      handleFindSimilarCode,
	"find_similar_to_symbol": handleFindSimilarToSymbol,
	"get_embedding_stats":    handleGetEmbeddingStats,
	"find_semantic_clones":   handleFindSemanticClones,

	"get_call_graph":  handleGetCallGraph,
	"get_callers":     handleGetCallers,
	"get_callees":     handleGetCallees,
	"find_call_path":  handleFindCallPath,
}

// Dispatch looks up the handler for toolName, runs it, and records its
// wall-clock duration against e's metrics regardless of outcome. An
// unregistered tool name produces an errs.InvalidInput error rather than
// a panic or a nil handler call, matching the "unknown tool" case.
//
// A handler error is returned as a genuine Go error rather than folded
// into a successful result, the same convention internal/mcp/handlers.go
// uses throughout (its tool functions return `nil, fmt.Errorf(...)` on
// failure, not an error payload inside a 200-shaped response) — the Go
// SDK turns a non-nil handler error into a JSON-RPC error response on
// the wire. rpcError tags the message with the errs.RPCCode the error's
// Kind maps to.
func Dispatch(ctx context.Context, e *engine.Engine, toolName string, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h, ok := Registry[toolName]
	if !ok {
		return nil, rpcError(errs.New(errs.InvalidInput, fmt.Sprintf("unknown tool %q", toolName)))
	}

	start := time.Now()
	result, err := h(ctx, e, req)
	e.Metrics().RecordTool(toolName, time.Since(start))

	if err != nil {
		return nil, rpcError(err)
	}
	return result, nil
}

// rpcError annotates err with the JSON-RPC error code its Kind maps to.
// The Go SDK's tool-handler contract has no confirmed hook for setting a
// literal numeric code on the wire response it builds from a returned
// error, so the code is carried in the message text for any peer or log
// reading it; the Kind itself is still recoverable from err via
// errs.KindOf for callers that want to branch on it programmatically.
func rpcError(err error) error {
	kind := errs.KindOf(err)
	return fmt.Errorf("[jsonrpc %d] %w", errs.RPCCode(kind), err)
}

func jsonResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal tool response: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func unmarshalArgs(req *mcp.CallToolRequest, v any) error {
	if err := json.Unmarshal(req.Params.Arguments, v); err != nil {
		return errs.Wrap(errs.InvalidInput, "invalid tool arguments", err)
	}
	return nil
}

// ---- repo tools ----

func handleListRepos(_ context.Context, e *engine.Engine, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repos := e.ListRepos()
	out := make([]map[string]any, 0, len(repos))
	for _, r := range repos {
		out = append(out, map[string]any{"name": r.Name, "path": r.Path})
	}
	return jsonResult(map[string]any{"repos": out})
}

type discoverReposParams struct {
	BasePath string `json:"base_path"`
	MaxDepth int    `json:"max_depth"`
}

func handleDiscoverRepos(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p discoverReposParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	if p.BasePath == "" {
		return nil, errs.New(errs.InvalidInput, "base_path is required")
	}
	found, err := e.DiscoverRepos(p.BasePath, p.MaxDepth)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"repos": found})
}

type validateRepoParams struct {
	Path string `json:"path"`
}

func handleValidateRepo(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p validateRepoParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	if err := e.ValidateRepo(p.Path); err != nil {
		return jsonResult(map[string]any{"valid": false, "error": err.Error()})
	}
	return jsonResult(map[string]any{"valid": true})
}

// ---- index tools ----

type repoParams struct {
	Repo string `json:"repo"`
}

func handleReindex(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p repoParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	if p.Repo == "" {
		return nil, errs.New(errs.InvalidInput, "repo is required")
	}
	if err := e.Reindex(p.Repo); err != nil {
		return nil, err
	}
	status, err := e.GetIndexStatus(p.Repo)
	if err != nil {
		return nil, err
	}
	return jsonResult(status)
}

func handleGetIndexStatus(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p repoParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	status, err := e.GetIndexStatus(p.Repo)
	if err != nil {
		return nil, err
	}
	return jsonResult(status)
}

// ---- file tools ----

type getFileParams struct {
	Repo string `json:"repo"`
	Path string `json:"path"`
}

func handleGetFile(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p getFileParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	content, err := e.GetFile(p.Repo, p.Path)
	if err != nil {
		return nil, err
	}
	return textResult(content), nil
}

type getExcerptParams struct {
	Repo      string `json:"repo"`
	Path      string `json:"path"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

func handleGetExcerpt(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p getExcerptParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	content, err := e.GetExcerpt(p.Repo, p.Path, p.StartLine, p.EndLine)
	if err != nil {
		return nil, err
	}
	return textResult(content), nil
}

// ---- symbol tools ----

type findSymbolsParams struct {
	Repo  string `json:"repo"`
	Query string `json:"query"`
}

func handleFindSymbols(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p findSymbolsParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	syms, err := e.FindSymbols(p.Repo, p.Query)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"symbols": syms})
}

type symbolNameParams struct {
	Repo string `json:"repo"`
	Name string `json:"name"`
}

func handleGetSymbolDefinition(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p symbolNameParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	sym, err := e.GetSymbolDefinition(p.Repo, p.Name)
	if err != nil {
		return nil, err
	}
	return jsonResult(sym)
}

// ---- analysis tools ----

type getControlFlowParams struct {
	Repo   string `json:"repo"`
	File   string `json:"file"`
	Symbol string `json:"symbol"`
}

func handleGetControlFlow(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p getControlFlowParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	cfg, err := e.GetControlFlow(p.Repo, p.File, p.Symbol)
	if err != nil {
		return nil, err
	}
	return textResult(cfg.Markdown()), nil
}

// ---- search tools ----

type searchParams struct {
	Repo  string `json:"repo"`
	Query string `json:"query"`
	Max   int    `json:"max"`
}

const defaultSearchLimit = 10

func handleSearchCode(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p searchParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	limit := p.Max
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	results, err := e.SearchCode(p.Repo, p.Query, limit)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"results": results})
}

func handleSemanticSearch(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p searchParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	limit := p.Max
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	results, err := e.SemanticSearch(p.Repo, p.Query, limit)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"results": results})
}

func handleHybridSearch(ctx context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p searchParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	limit := p.Max
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	results, err := e.HybridSearch(ctx, p.Repo, p.Query, limit)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"results": results})
}

// ---- metrics tool ----

type getMetricsParams struct {
	Format string `json:"format"`
}

func handleGetMetrics(_ context.Context, e *engine.Engine, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p getMetricsParams
	if err := unmarshalArgs(req, &p); err != nil {
		return nil, err
	}
	if p.Format == "json" {
		return jsonResult(e.Metrics().ReportJSON())
	}
	return textResult(e.Metrics().Report()), nil
}

// Tools returns the mcp.Tool definitions, built from internal/metadata,
// that the caller should register with an *mcp.Server — already
// filtered is the caller's job via internal/toolfilter.
func Tools() []*mcp.Tool {
	out := make([]*mcp.Tool, 0, len(metadata.Table))
	for _, entry := range metadata.Table {
		out = append(out, &mcp.Tool{
			Name:        entry.Name,
			Description: entry.Description,
			InputSchema: entry.InputSchema,
		})
	}
	return out
}
