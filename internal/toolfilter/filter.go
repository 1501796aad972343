package toolfilter

import (
	"sort"

	"github.com/doctordisrespect/narsil-mcp/internal/model"
)

// ToolCategory tags a tool for category-level enable/disable; the
// metadata table (internal/metadata) assigns one category per tool.
type ToolCategory string

// Filter resolves whether a tool is visible, applying the strict
// precedence order: per-tool overrides first, then
// feature-flag requirements, then preset-disabled, then category
// enable/disable, then preset-enabled (or "all" for Full), and finally a
// default-disabled fallback for any tool named by none of the above.
type Filter struct {
	preset        Preset
	enabledTools  map[string]bool
	disabledTools map[string]bool
	overrides     map[string]bool
	lowImpact     map[string]bool
	categories    map[ToolCategory]bool
	featureFlags  map[string]bool
}

// ToolInfo is what the filter needs to know about a tool to classify it:
// its category and which feature flag (if any) must be set for it to be
// considered at all.
type ToolInfo struct {
	Name            string
	Category        ToolCategory
	RequiredFeature string // empty if no feature flag is required
}

// New builds a Filter from a resolved preset, the on-disk tools config
// section, and the process's EngineFlags. EngineFlags is the second
// input the tool-filter resolution takes alongside the config-file
// feature_flags map: its git/call_graph/lsp/neural toggles are merged
// in (OR'd) under the matching feature-flag keys, so a tool gated on
// one of those subsystems is visible only when either the config file
// or the CLI turned it on.
func New(preset Preset, cfg model.ToolsConfig, flags model.EngineFlags) *Filter {
	overrides := make(map[string]bool, len(cfg.Overrides))
	lowImpact := make(map[string]bool)
	for _, o := range cfg.Overrides {
		overrides[o.Tool] = o.Enabled
		if o.LowImpact {
			lowImpact[o.Tool] = true
		}
	}
	categories := make(map[ToolCategory]bool, len(cfg.Categories))
	for _, c := range cfg.Categories {
		categories[ToolCategory(c.Category)] = c.Enabled
	}
	featureFlags := make(map[string]bool, len(cfg.FeatureFlags)+4)
	for k, v := range cfg.FeatureFlags {
		featureFlags[k] = v
	}
	for k, v := range engineFeatureFlags(flags) {
		featureFlags[k] = featureFlags[k] || v
	}
	return &Filter{
		preset:        preset,
		enabledTools:  EnabledTools(preset),
		disabledTools: DisabledTools(preset),
		overrides:     overrides,
		lowImpact:     lowImpact,
		categories:    categories,
		featureFlags:  featureFlags,
	}
}

// engineFeatureFlags maps the subset of EngineFlags that gate tool
// visibility onto the feature-flag keys internal/metadata assigns as a
// tool's RequiredFeature.
func engineFeatureFlags(flags model.EngineFlags) map[string]bool {
	return map[string]bool{
		"git":        flags.Git,
		"call_graph": flags.CallGraph,
		"lsp":        flags.LSP,
		"neural":     flags.Neural,
	}
}

// Allowed reports whether tool should be visible to this client, in the
// precedence order: overrides > feature flags >
// preset-disabled > category-disabled > preset-enabled/all >
// default-disabled.
func (f *Filter) Allowed(t ToolInfo) bool {
	if enabled, ok := f.overrides[t.Name]; ok {
		return enabled
	}
	if t.RequiredFeature != "" && !f.featureFlags[t.RequiredFeature] {
		return false
	}
	if f.disabledTools[t.Name] {
		return false
	}
	if enabled, ok := f.categories[t.Category]; ok {
		return enabled
	}
	if len(f.enabledTools) == 0 {
		// Full preset: empty enabled-set means "enable all".
		return true
	}
	return f.enabledTools[t.Name]
}

// Apply filters a tool list down to the allowed subset, then truncates
// to perf.MaxResults if that budget is positive. Truncation picks
// survivors by a 3-tier priority rather than input order: (1) tools
// named in the active preset's own enabled set, (2) tools marked
// low-performance-impact by a config override, (3) everything else,
// each tier ordered alphabetically by name so truncation is
// deterministic. Truncation is silent at the call site; callers that
// need to report how many were dropped should compare len(input) to
// len(output) themselves.
func Apply(tools []ToolInfo, f *Filter, perf model.PerformanceConfig) []ToolInfo {
	out := make([]ToolInfo, 0, len(tools))
	for _, t := range tools {
		if f.Allowed(t) {
			out = append(out, t)
		}
	}
	if perf.MaxResults <= 0 || len(out) <= perf.MaxResults {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := f.truncationTier(out[i]), f.truncationTier(out[j])
		if ti != tj {
			return ti < tj
		}
		return out[i].Name < out[j].Name
	})
	return out[:perf.MaxResults]
}

// truncationTier returns t's priority tier for Apply's truncation: 0
// (kept first) for tools in the preset's own enabled set, 1 for tools
// marked low-impact by an override, 2 for everything else.
func (f *Filter) truncationTier(t ToolInfo) int {
	if len(f.enabledTools) > 0 && f.enabledTools[t.Name] {
		return 0
	}
	if f.lowImpact[t.Name] {
		return 1
	}
	return 2
}
