// Package toolfilter decides which registered tools are visible to a
// given MCP client: preset-based defaults, editor-to-preset mapping,
// category/override precedence, and performance-budget truncation (spec
// §4.4). Tool lists and editor mapping are ported directly from the Rust
// original's config/preset.rs and config/editor.rs.
package toolfilter

import "strings"

// Preset is re-exported here as the type toolfilter operates on; kept in
// sync with model.Preset's string values.
type Preset string

const (
	PresetMinimal         Preset = "minimal"
	PresetBalanced        Preset = "balanced"
	PresetFull            Preset = "full"
	PresetSecurityFocused Preset = "security_focused"
)

// ParsePreset parses a preset name case-insensitively, accepting both
// "security-focused" and "security_focused" spellings, per Preset::parse.
func ParsePreset(s string) (Preset, bool) {
	switch strings.ToLower(s) {
	case "minimal":
		return PresetMinimal, true
	case "balanced":
		return PresetBalanced, true
	case "full":
		return PresetFull, true
	case "security-focused", "security_focused":
		return PresetSecurityFocused, true
	default:
		return "", false
	}
}

func minimalTools() map[string]bool {
	return toSet(
		"list_repos", "get_project_structure", "get_file", "get_excerpt",
		"reindex", "discover_repos", "validate_repo", "get_index_status",
		"get_incremental_status", "get_metrics",
		"find_symbols", "get_symbol_definition", "find_references",
		"get_dependencies", "find_symbol_usages", "get_export_map",
		"workspace_symbol_search",
		"search_code", "semantic_search", "hybrid_search", "search_chunks",
		"get_chunk_stats", "get_chunks",
		"get_hover_info", "get_type_info", "go_to_definition",
	)
}

func balancedTools() map[string]bool {
	tools := minimalTools()
	for _, t := range []string{
		"get_blame", "get_file_history", "get_recent_changes", "get_hotspots",
		"get_contributors", "get_commit_diff", "get_symbol_history",
		"get_branch_info", "get_modified_files",
		"find_similar_code", "find_similar_to_symbol", "get_embedding_stats",
		"get_call_graph", "get_callers", "get_callees", "find_call_path",
		"get_complexity", "get_function_hotspots",
		"scan_security", "find_injection_vulnerabilities",
		"get_control_flow", "find_dead_code", "get_data_flow",
		"get_import_graph", "find_circular_imports",
	} {
		tools[t] = true
	}
	return tools
}

// fullTools returns the empty set: ToolFilter interprets an empty
// enabled-set as "enable all", per full_tools in the original.
func fullTools() map[string]bool { return map[string]bool{} }

func securityFocusedTools() map[string]bool {
	return toSet(
		"list_repos", "get_project_structure", "get_file", "get_excerpt",
		"get_index_status",
		"find_symbols", "get_symbol_definition", "find_references",
		"search_code", "search_chunks",
		"scan_security", "check_owasp_top10", "check_cwe_top25",
		"find_injection_vulnerabilities", "trace_taint", "get_taint_sources",
		"get_security_summary", "explain_vulnerability", "suggest_fix",
		"generate_sbom", "check_dependencies", "check_licenses", "find_upgrade_path",
		"get_control_flow", "find_dead_code", "get_data_flow",
		"get_reaching_definitions", "find_uninitialized", "find_dead_stores",
		"infer_types", "check_type_errors", "get_typed_taint_flow",
	)
}

// EnabledTools returns the tool-name allowlist for p. An empty result
// means "enable all" (the Full preset).
func EnabledTools(p Preset) map[string]bool {
	switch p {
	case PresetMinimal:
		return minimalTools()
	case PresetBalanced:
		return balancedTools()
	case PresetSecurityFocused:
		return securityFocusedTools()
	case PresetFull:
		fallthrough
	default:
		return fullTools()
	}
}

// DisabledTools returns the tool-name denylist for p: tools disabled
// even if a category or feature flag would otherwise enable them.
func DisabledTools(p Preset) map[string]bool {
	switch p {
	case PresetMinimal:
		return toSet("neural_search", "find_semantic_clones", "generate_sbom",
			"check_dependencies", "check_licenses", "scan_security",
			"check_owasp_top10", "check_cwe_top25")
	case PresetBalanced:
		return toSet("neural_search", "find_semantic_clones")
	case PresetSecurityFocused:
		return toSet("neural_search", "find_semantic_clones", "get_call_graph")
	case PresetFull:
		fallthrough
	default:
		return map[string]bool{}
	}
}

func toSet(items ...string) map[string]bool {
	s := make(map[string]bool, len(items))
	for _, it := range items {
		s[it] = true
	}
	return s
}
