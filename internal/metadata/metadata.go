// Package metadata is the compile-time ToolMetadata table: tool_name ->
// {description, input_schema, category, required feature flag}.
// Schemas are built with google/jsonschema-go, the same library
// internal/mcp uses for its own tool registrations.
package metadata

import (
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/doctordisrespect/narsil-mcp/internal/toolfilter"
)

// Category values used by the entries below; kept as plain strings so
// toolfilter.ToolCategory conversions are trivial at registration time.
const (
	CategoryRepo       = "repo"
	CategoryFile       = "file"
	CategoryIndex      = "index"
	CategorySymbol     = "symbol"
	CategorySearch     = "search"
	CategoryAnalysis   = "analysis"
	CategoryMetrics    = "metrics"
	CategoryExplore    = "explore"
	CategoryGit        = "git"
	CategoryLSP        = "lsp"
	CategoryNeural     = "neural"
	CategoryCallGraph  = "call_graph"
	CategorySecurity   = "security"
	CategoryDependency = "dependency"
)

// Entry is one row of the ToolMetadata table.
type Entry struct {
	Name            string
	Description     string
	InputSchema     *jsonschema.Schema
	Category        string
	RequiredFeature string
}

func strProp(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: desc}
}

func intProp(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "integer", Description: desc}
}

func objSchema(required []string, props map[string]*jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "object", Required: required, Properties: props}
}

// Table is the full set of tools this server implements a Handler for.
// Every entry here has a matching registration in internal/dispatcher.
var Table = []Entry{
	{
		Name:        "list_repos",
		Description: "List every repository currently registered with the server.",
		InputSchema: objSchema(nil, map[string]*jsonschema.Schema{}),
		Category:    CategoryRepo,
	},
	{
		Name:        "discover_repos",
		Description: "Walk a base directory looking for repository roots (VCS or project-marker detected).",
		InputSchema: objSchema([]string{"base_path"}, map[string]*jsonschema.Schema{
			"base_path": strProp("Directory to search under"),
			"max_depth": intProp("Maximum recursion depth below base_path"),
		}),
		Category: CategoryRepo,
	},
	{
		Name:        "validate_repo",
		Description: "Validate that a path exists, is a directory, and is readable.",
		InputSchema: objSchema([]string{"path"}, map[string]*jsonschema.Schema{
			"path": strProp("Path to validate"),
		}),
		Category: CategoryRepo,
	},
	{
		Name:        "reindex",
		Description: "Rebuild the symbol table, chunk set, and search indices for a repository from scratch.",
		InputSchema: objSchema([]string{"repo"}, map[string]*jsonschema.Schema{
			"repo": strProp("Registered repository name"),
		}),
		Category: CategoryIndex,
	},
	{
		Name:        "get_index_status",
		Description: "Report whether a repository has been indexed, and basic counts from its last indexing pass.",
		InputSchema: objSchema([]string{"repo"}, map[string]*jsonschema.Schema{
			"repo": strProp("Registered repository name"),
		}),
		Category: CategoryIndex,
	},
	{
		Name:        "get_file",
		Description: "Return the full, secret-redacted contents of a file inside a repository.",
		InputSchema: objSchema([]string{"repo", "path"}, map[string]*jsonschema.Schema{
			"repo": strProp("Registered repository name"),
			"path": strProp("File path relative to the repository root"),
		}),
		Category: CategoryFile,
	},
	{
		Name:        "get_excerpt",
		Description: "Return a redacted line range from a file inside a repository.",
		InputSchema: objSchema([]string{"repo", "path", "start_line", "end_line"}, map[string]*jsonschema.Schema{
			"repo":       strProp("Registered repository name"),
			"path":       strProp("File path relative to the repository root"),
			"start_line": intProp("First line, 1-based, inclusive"),
			"end_line":   intProp("Last line, 1-based, inclusive"),
		}),
		Category: CategoryFile,
	},
	{
		Name:        "find_symbols",
		Description: "Search the indexed symbol table by substring match on symbol name.",
		InputSchema: objSchema([]string{"repo", "query"}, map[string]*jsonschema.Schema{
			"repo":  strProp("Registered repository name"),
			"query": strProp("Substring to match against symbol names"),
		}),
		Category: CategorySymbol,
	},
	{
		Name:        "get_symbol_definition",
		Description: "Return the first indexed symbol with an exact name match.",
		InputSchema: objSchema([]string{"repo", "name"}, map[string]*jsonschema.Schema{
			"repo": strProp("Registered repository name"),
			"name": strProp("Exact symbol name"),
		}),
		Category: CategorySymbol,
	},
	{
		Name:        "get_control_flow",
		Description: "Return the control-flow graph (basic blocks, edges, dominators, loops) for one function, rendered as markdown.",
		InputSchema: objSchema([]string{"repo", "file", "symbol"}, map[string]*jsonschema.Schema{
			"repo":   strProp("Registered repository name"),
			"file":   strProp("File path the symbol is defined in"),
			"symbol": strProp("Qualified symbol name (container.name for methods)"),
		}),
		Category: CategoryAnalysis,
	},
	{
		Name:        "search_code",
		Description: "BM25 lexical ranked search over a repository's indexed chunks.",
		InputSchema: objSchema([]string{"repo", "query"}, map[string]*jsonschema.Schema{
			"repo":  strProp("Registered repository name"),
			"query": strProp("Search query"),
			"max":   intProp("Maximum results to return (default 10)"),
		}),
		Category: CategorySearch,
	},
	{
		Name:        "semantic_search",
		Description: "TF-IDF cosine-similarity search over a repository's indexed chunks.",
		InputSchema: objSchema([]string{"repo", "query"}, map[string]*jsonschema.Schema{
			"repo":  strProp("Registered repository name"),
			"query": strProp("Search query"),
			"max":   intProp("Maximum results to return (default 10)"),
		}),
		Category: CategorySearch,
	},
	{
		Name:        "hybrid_search",
		Description: "Reciprocal-rank-fusion search combining BM25 and TF-IDF rankings, with exact-match and function-kind boosts.",
		InputSchema: objSchema([]string{"repo", "query"}, map[string]*jsonschema.Schema{
			"repo":  strProp("Registered repository name"),
			"query": strProp("Search query"),
			"max":   intProp("Maximum results to return (default 10)"),
		}),
		Category: CategorySearch,
	},
	{
		Name:        "get_metrics",
		Description: "Return the server's performance report: per-tool timing, file-parse timing, and repository indexing history.",
		InputSchema: objSchema(nil, map[string]*jsonschema.Schema{
			"format": strProp(`Output format: "markdown" (default) or "json"`),
		}),
		Category: CategoryMetrics,
	},

	// ---- explore ----
	{
		Name:        "get_project_structure",
		Description: "Summarize a repository's indexed file tree by directory.",
		InputSchema: objSchema([]string{"repo"}, map[string]*jsonschema.Schema{"repo": strProp("Registered repository name")}),
		Category:    CategoryExplore,
	},
	{
		Name:        "get_incremental_status",
		Description: "Report indexing status plus whether a filesystem watcher is currently active for a repository.",
		InputSchema: objSchema([]string{"repo"}, map[string]*jsonschema.Schema{"repo": strProp("Registered repository name")}),
		Category:    CategoryExplore,
	},
	{
		Name:        "find_references",
		Description: "Find every indexed chunk whose content mentions a symbol name.",
		InputSchema: objSchema([]string{"repo", "symbol"}, map[string]*jsonschema.Schema{
			"repo": strProp("Registered repository name"), "symbol": strProp("Symbol name to search for"),
		}),
		Category: CategoryExplore,
	},
	{
		Name:        "get_dependencies",
		Description: "List the distinct import paths referenced anywhere in a repository's indexed chunks.",
		InputSchema: objSchema([]string{"repo"}, map[string]*jsonschema.Schema{"repo": strProp("Registered repository name")}),
		Category:    CategoryExplore,
	},
	{
		Name:        "find_symbol_usages",
		Description: "Find every indexed chunk with a whole-word occurrence of a symbol name.",
		InputSchema: objSchema([]string{"repo", "symbol"}, map[string]*jsonschema.Schema{
			"repo": strProp("Registered repository name"), "symbol": strProp("Symbol name to search for"),
		}),
		Category: CategoryExplore,
	},
	{
		Name:        "get_export_map",
		Description: "List every symbol indexed with public visibility, repo-wide.",
		InputSchema: objSchema([]string{"repo"}, map[string]*jsonschema.Schema{"repo": strProp("Registered repository name")}),
		Category:    CategoryExplore,
	},
	{
		Name:        "workspace_symbol_search",
		Description: "Search symbol names repo-wide, falling back to a near-miss match when no exact substring hits.",
		InputSchema: objSchema([]string{"repo", "query"}, map[string]*jsonschema.Schema{
			"repo": strProp("Registered repository name"), "query": strProp("Symbol name or fragment"),
		}),
		Category: CategoryExplore,
	},
	{
		Name:        "search_chunks",
		Description: "BM25 search that returns full chunk records (imports, doc comment, symbol context) instead of just IDs and scores.",
		InputSchema: objSchema([]string{"repo", "query"}, map[string]*jsonschema.Schema{
			"repo": strProp("Registered repository name"), "query": strProp("Search query"), "max": intProp("Maximum results to return (default 10)"),
		}),
		Category: CategoryExplore,
	},
	{
		Name:        "get_chunk_stats",
		Description: "Report how many indexed chunks fall into each chunk type (function, method, class, other).",
		InputSchema: objSchema([]string{"repo"}, map[string]*jsonschema.Schema{"repo": strProp("Registered repository name")}),
		Category:    CategoryExplore,
	},
	{
		Name:        "get_chunks",
		Description: "Return every chunk extracted from one file.",
		InputSchema: objSchema([]string{"repo", "path"}, map[string]*jsonschema.Schema{
			"repo": strProp("Registered repository name"), "path": strProp("File path relative to the repository root"),
		}),
		Category: CategoryExplore,
	},

	// ---- import graph ----
	{
		Name:        "get_import_graph",
		Description: "Resolve each indexed file's imports against the repository's own indexed files and return the edges that matched.",
		InputSchema: objSchema([]string{"repo"}, map[string]*jsonschema.Schema{"repo": strProp("Registered repository name")}),
		Category:    CategoryAnalysis,
	},
	{
		Name:        "find_circular_imports",
		Description: "Find cycles in the repository's import graph.",
		InputSchema: objSchema([]string{"repo"}, map[string]*jsonschema.Schema{"repo": strProp("Registered repository name")}),
		Category:    CategoryAnalysis,
	},

	// ---- complexity ----
	{
		Name:        "get_complexity",
		Description: "Return one function's cyclomatic complexity from its cached control-flow graph.",
		InputSchema: objSchema([]string{"repo", "file", "symbol"}, map[string]*jsonschema.Schema{
			"repo": strProp("Registered repository name"), "file": strProp("File the symbol is defined in"), "symbol": strProp("Qualified symbol name"),
		}),
		Category: CategoryAnalysis,
	},
	{
		Name:        "get_function_hotspots",
		Description: "Rank every function with a cached control-flow graph by cyclomatic complexity, descending.",
		InputSchema: objSchema([]string{"repo"}, map[string]*jsonschema.Schema{
			"repo": strProp("Registered repository name"), "max": intProp("Maximum results to return"),
		}),
		Category: CategoryAnalysis,
	},

	// ---- dataflow ----
	{
		Name:        "find_dead_code",
		Description: "Report every basic block found unreachable from its function's entry block, across the repository's cached control-flow graphs.",
		InputSchema: objSchema([]string{"repo"}, map[string]*jsonschema.Schema{"repo": strProp("Registered repository name")}),
		Category:    CategoryAnalysis,
	},
	{
		Name:        "get_data_flow",
		Description: "List statements in a function's control-flow graph that look like variable definitions, in block order (a textual heuristic, not a sound dataflow analysis).",
		InputSchema: objSchema([]string{"repo", "file", "symbol"}, map[string]*jsonschema.Schema{
			"repo": strProp("Registered repository name"), "file": strProp("File the symbol is defined in"), "symbol": strProp("Qualified symbol name"),
		}),
		Category: CategoryAnalysis,
	},
	{
		Name:        "get_reaching_definitions",
		Description: "Group a function's heuristic variable definitions by name, approximating which definitions reach later uses.",
		InputSchema: objSchema([]string{"repo", "file", "symbol"}, map[string]*jsonschema.Schema{
			"repo": strProp("Registered repository name"), "file": strProp("File the symbol is defined in"), "symbol": strProp("Qualified symbol name"),
		}),
		Category: CategoryAnalysis,
	},
	{
		Name:        "find_uninitialized",
		Description: "Flag identifiers referenced before any block-ordered definition of that name in a function (a heuristic, not a sound initialization analysis).",
		InputSchema: objSchema([]string{"repo", "file", "symbol"}, map[string]*jsonschema.Schema{
			"repo": strProp("Registered repository name"), "file": strProp("File the symbol is defined in"), "symbol": strProp("Qualified symbol name"),
		}),
		Category: CategoryAnalysis,
	},
	{
		Name:        "find_dead_stores",
		Description: "Flag variable definitions never referenced again later in a function, in block order.",
		InputSchema: objSchema([]string{"repo", "file", "symbol"}, map[string]*jsonschema.Schema{
			"repo": strProp("Registered repository name"), "file": strProp("File the symbol is defined in"), "symbol": strProp("Qualified symbol name"),
		}),
		Category: CategoryAnalysis,
	},
	{
		Name:        "infer_types",
		Description: "Return the type annotations visible in a function's source text (does not infer unannotated types).",
		InputSchema: objSchema([]string{"repo", "file", "symbol"}, map[string]*jsonschema.Schema{
			"repo": strProp("Registered repository name"), "file": strProp("File the symbol is defined in"), "symbol": strProp("Qualified symbol name"),
		}),
		Category: CategoryAnalysis,
	},
	{
		Name:        "check_type_errors",
		Description: "Check a function for type errors. Always reports unavailable: this server embeds no type checker.",
		InputSchema: objSchema([]string{"repo", "file", "symbol"}, map[string]*jsonschema.Schema{
			"repo": strProp("Registered repository name"), "file": strProp("File the symbol is defined in"), "symbol": strProp("Qualified symbol name"),
		}),
		Category: CategoryAnalysis,
	},
	{
		Name:        "trace_taint",
		Description: "Trace tainted data flow from a function. Always reports unavailable: this server embeds no taint-tracking engine.",
		InputSchema: objSchema([]string{"repo", "file", "symbol"}, map[string]*jsonschema.Schema{
			"repo": strProp("Registered repository name"), "file": strProp("File the symbol is defined in"), "symbol": strProp("Qualified symbol name"),
		}),
		Category: CategoryAnalysis,
	},
	{
		Name:        "get_taint_sources",
		Description: "List taint sources in a repository. Always reports unavailable: this server embeds no taint-tracking engine.",
		InputSchema: objSchema([]string{"repo"}, map[string]*jsonschema.Schema{"repo": strProp("Registered repository name")}),
		Category:    CategoryAnalysis,
	},
	{
		Name:        "get_typed_taint_flow",
		Description: "Trace type-aware tainted data flow from a function. Always reports unavailable: this server embeds no taint-tracking engine.",
		InputSchema: objSchema([]string{"repo", "file", "symbol"}, map[string]*jsonschema.Schema{
			"repo": strProp("Registered repository name"), "file": strProp("File the symbol is defined in"), "symbol": strProp("Qualified symbol name"),
		}),
		Category: CategoryAnalysis,
	},

	// ---- security ----
	{
		Name:        "scan_security",
		Description: "Run the heuristic rule-based vulnerability scanner over every indexed chunk in a repository.",
		InputSchema: objSchema([]string{"repo"}, map[string]*jsonschema.Schema{"repo": strProp("Registered repository name")}),
		Category:    CategorySecurity,
	},
	{
		Name:        "find_injection_vulnerabilities",
		Description: "Run the security scanner filtered to the SQL/command/eval injection rule family.",
		InputSchema: objSchema([]string{"repo"}, map[string]*jsonschema.Schema{"repo": strProp("Registered repository name")}),
		Category:    CategorySecurity,
	},
	{
		Name:        "check_owasp_top10",
		Description: "Bucket the security scanner's findings by OWASP Top 10 (2021) category.",
		InputSchema: objSchema([]string{"repo"}, map[string]*jsonschema.Schema{"repo": strProp("Registered repository name")}),
		Category:    CategorySecurity,
	},
	{
		Name:        "check_cwe_top25",
		Description: "Bucket the security scanner's findings by CWE identifier.",
		InputSchema: objSchema([]string{"repo"}, map[string]*jsonschema.Schema{"repo": strProp("Registered repository name")}),
		Category:    CategorySecurity,
	},
	{
		Name:        "get_security_summary",
		Description: "Reduce the security scanner's findings to counts by severity and OWASP category.",
		InputSchema: objSchema([]string{"repo"}, map[string]*jsonschema.Schema{"repo": strProp("Registered repository name")}),
		Category:    CategorySecurity,
	},
	{
		Name:        "explain_vulnerability",
		Description: "Return the description and classification for one security-scanner rule ID.",
		InputSchema: objSchema([]string{"rule_id"}, map[string]*jsonschema.Schema{"rule_id": strProp("Security rule identifier, e.g. \"sql-string-concat\"")}),
		Category:    CategorySecurity,
	},
	{
		Name:        "suggest_fix",
		Description: "Return the fix suggestion for one security-scanner rule ID.",
		InputSchema: objSchema([]string{"rule_id"}, map[string]*jsonschema.Schema{"rule_id": strProp("Security rule identifier, e.g. \"sql-string-concat\"")}),
		Category:    CategorySecurity,
	},

	// ---- dependency ----
	{
		Name:        "generate_sbom",
		Description: "Generate a minimal software bill of materials from the repository's indexed import paths.",
		InputSchema: objSchema([]string{"repo"}, map[string]*jsonschema.Schema{"repo": strProp("Registered repository name")}),
		Category:    CategoryDependency,
	},
	{
		Name:        "check_dependencies",
		Description: "List the repository's dependency inventory (the same data generate_sbom builds from).",
		InputSchema: objSchema([]string{"repo"}, map[string]*jsonschema.Schema{"repo": strProp("Registered repository name")}),
		Category:    CategoryDependency,
	},
	{
		Name:        "check_licenses",
		Description: "Check dependency licenses. Always reports unavailable: this server embeds no package-registry client.",
		InputSchema: objSchema([]string{"repo"}, map[string]*jsonschema.Schema{"repo": strProp("Registered repository name")}),
		Category:    CategoryDependency,
	},
	{
		Name:        "find_upgrade_path",
		Description: "Find a safe upgrade path for a dependency. Always reports unavailable: this server embeds no package-registry client.",
		InputSchema: objSchema([]string{"repo", "dependency"}, map[string]*jsonschema.Schema{
			"repo": strProp("Registered repository name"), "dependency": strProp("Import path to find an upgrade path for"),
		}),
		Category: CategoryDependency,
	},

	// ---- git (requires "git" feature flag / --git) ----
	{
		Name: "get_blame", Description: "Return blame annotations for a file. Requires the git feature flag and a git backend.",
		InputSchema: objSchema([]string{"repo", "path"}, map[string]*jsonschema.Schema{"repo": strProp("Registered repository name"), "path": strProp("File path")}),
		Category: CategoryGit, RequiredFeature: "git",
	},
	{
		Name: "get_file_history", Description: "Return the commit history for a file. Requires the git feature flag and a git backend.",
		InputSchema: objSchema([]string{"repo", "path"}, map[string]*jsonschema.Schema{"repo": strProp("Registered repository name"), "path": strProp("File path")}),
		Category: CategoryGit, RequiredFeature: "git",
	},
	{
		Name: "get_recent_changes", Description: "List recently changed files. Requires the git feature flag and a git backend.",
		InputSchema: objSchema([]string{"repo"}, map[string]*jsonschema.Schema{"repo": strProp("Registered repository name")}),
		Category: CategoryGit, RequiredFeature: "git",
	},
	{
		Name: "get_hotspots", Description: "Rank files by change frequency. Requires the git feature flag and a git backend.",
		InputSchema: objSchema([]string{"repo"}, map[string]*jsonschema.Schema{"repo": strProp("Registered repository name")}),
		Category: CategoryGit, RequiredFeature: "git",
	},
	{
		Name: "get_contributors", Description: "List contributors to a repository. Requires the git feature flag and a git backend.",
		InputSchema: objSchema([]string{"repo"}, map[string]*jsonschema.Schema{"repo": strProp("Registered repository name")}),
		Category: CategoryGit, RequiredFeature: "git",
	},
	{
		Name: "get_commit_diff", Description: "Return the diff for a commit. Requires the git feature flag and a git backend.",
		InputSchema: objSchema([]string{"repo", "commit"}, map[string]*jsonschema.Schema{"repo": strProp("Registered repository name"), "commit": strProp("Commit hash or ref")}),
		Category: CategoryGit, RequiredFeature: "git",
	},
	{
		Name: "get_symbol_history", Description: "Return the commit history touching a symbol. Requires the git feature flag and a git backend.",
		InputSchema: objSchema([]string{"repo", "symbol"}, map[string]*jsonschema.Schema{"repo": strProp("Registered repository name"), "symbol": strProp("Symbol name")}),
		Category: CategoryGit, RequiredFeature: "git",
	},
	{
		Name: "get_branch_info", Description: "Return current branch and ref info. Requires the git feature flag and a git backend.",
		InputSchema: objSchema([]string{"repo"}, map[string]*jsonschema.Schema{"repo": strProp("Registered repository name")}),
		Category: CategoryGit, RequiredFeature: "git",
	},
	{
		Name: "get_modified_files", Description: "List files modified in the working tree. Requires the git feature flag and a git backend.",
		InputSchema: objSchema([]string{"repo"}, map[string]*jsonschema.Schema{"repo": strProp("Registered repository name")}),
		Category: CategoryGit, RequiredFeature: "git",
	},

	// ---- lsp (requires "lsp" feature flag / --lsp) ----
	{
		Name: "get_hover_info", Description: "Return hover information at a position. Requires the lsp feature flag and a language server backend.",
		InputSchema: objSchema([]string{"repo", "path", "line", "col"}, map[string]*jsonschema.Schema{
			"repo": strProp("Registered repository name"), "path": strProp("File path"), "line": intProp("1-based line"), "col": intProp("0-based column"),
		}),
		Category: CategoryLSP, RequiredFeature: "lsp",
	},
	{
		Name: "get_type_info", Description: "Return type information at a position. Requires the lsp feature flag and a language server backend.",
		InputSchema: objSchema([]string{"repo", "path", "line", "col"}, map[string]*jsonschema.Schema{
			"repo": strProp("Registered repository name"), "path": strProp("File path"), "line": intProp("1-based line"), "col": intProp("0-based column"),
		}),
		Category: CategoryLSP, RequiredFeature: "lsp",
	},
	{
		Name: "go_to_definition", Description: "Jump to a symbol's definition from a position. Requires the lsp feature flag and a language server backend.",
		InputSchema: objSchema([]string{"repo", "path", "line", "col"}, map[string]*jsonschema.Schema{
			"repo": strProp("Registered repository name"), "path": strProp("File path"), "line": intProp("1-based line"), "col": intProp("0-based column"),
		}),
		Category: CategoryLSP, RequiredFeature: "lsp",
	},

	// ---- neural (requires "neural" feature flag / --neural) ----
	{
		Name: "neural_search", Description: "Semantic search over indexed chunks, proxied by TF-IDF cosine similarity. Requires the neural feature flag.",
		InputSchema: objSchema([]string{"repo", "query"}, map[string]*jsonschema.Schema{
			"repo": strProp("Registered repository name"), "query": strProp("Search query"), "max": intProp("Maximum results to return (default 10)"),
		}),
		Category: CategoryNeural, RequiredFeature: "neural",
	},
	{
		Name: "find_similar_code", Description: "Find chunks similar to a code snippet, proxied by TF-IDF cosine similarity. Requires the neural feature flag.",
		InputSchema: objSchema([]string{"repo", "snippet"}, map[string]*jsonschema.Schema{
			"repo": strProp("Registered repository name"), "snippet": strProp("Code snippet to compare against"), "max": intProp("Maximum results to return (default 10)"),
		}),
		Category: CategoryNeural, RequiredFeature: "neural",
	},
	{
		Name: "find_similar_to_symbol", Description: "Find chunks similar to a symbol's defining code. Requires the neural feature flag.",
		InputSchema: objSchema([]string{"repo", "symbol"}, map[string]*jsonschema.Schema{
			"repo": strProp("Registered repository name"), "symbol": strProp("Symbol name"), "max": intProp("Maximum results to return (default 10)"),
		}),
		Category: CategoryNeural, RequiredFeature: "neural",
	},
	{
		Name: "get_embedding_stats", Description: "Report embedding index statistics. Always reports unavailable: this server builds no real embedding index.",
		InputSchema: objSchema([]string{"repo"}, map[string]*jsonschema.Schema{"repo": strProp("Registered repository name")}),
		Category: CategoryNeural, RequiredFeature: "neural",
	},
	{
		Name: "find_semantic_clones", Description: "Find near-duplicate code. Always reports unavailable: this server builds no real embedding index.",
		InputSchema: objSchema([]string{"repo"}, map[string]*jsonschema.Schema{"repo": strProp("Registered repository name")}),
		Category: CategoryNeural, RequiredFeature: "neural",
	},

	// ---- call graph (requires "call_graph" feature flag / --call-graph) ----
	{
		Name: "get_call_graph", Description: "Return the textually-detected caller/callee neighborhood around a symbol. Requires the call_graph feature flag.",
		InputSchema: objSchema([]string{"repo", "symbol"}, map[string]*jsonschema.Schema{"repo": strProp("Registered repository name"), "symbol": strProp("Symbol name")}),
		Category: CategoryCallGraph, RequiredFeature: "call_graph",
	},
	{
		Name: "get_callers", Description: "Return chunks that textually call a symbol. Requires the call_graph feature flag.",
		InputSchema: objSchema([]string{"repo", "symbol"}, map[string]*jsonschema.Schema{"repo": strProp("Registered repository name"), "symbol": strProp("Symbol name")}),
		Category: CategoryCallGraph, RequiredFeature: "call_graph",
	},
	{
		Name: "get_callees", Description: "Return call-shaped identifiers found inside a symbol's own defining chunk. Requires the call_graph feature flag.",
		InputSchema: objSchema([]string{"repo", "symbol"}, map[string]*jsonschema.Schema{"repo": strProp("Registered repository name"), "symbol": strProp("Symbol name")}),
		Category: CategoryCallGraph, RequiredFeature: "call_graph",
	},
	{
		Name: "find_call_path", Description: "Bounded breadth-first search for a call chain between two symbols. Requires the call_graph feature flag.",
		InputSchema: objSchema([]string{"repo", "from", "to"}, map[string]*jsonschema.Schema{
			"repo": strProp("Registered repository name"), "from": strProp("Starting symbol name"), "to": strProp("Target symbol name"), "max_depth": intProp("Maximum hops to search (default 6)"),
		}),
		Category: CategoryCallGraph, RequiredFeature: "call_graph",
	},
}

// ToolInfos converts Table into the toolfilter.ToolInfo list the tool
// filter needs to decide visibility.
func ToolInfos() []toolfilter.ToolInfo {
	out := make([]toolfilter.ToolInfo, 0, len(Table))
	for _, e := range Table {
		out = append(out, toolfilter.ToolInfo{
			Name:            e.Name,
			Category:        toolfilter.ToolCategory(e.Category),
			RequiredFeature: e.RequiredFeature,
		})
	}
	return out
}

// Get returns the metadata entry for name.
func Get(name string) (Entry, bool) {
	for _, e := range Table {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}
