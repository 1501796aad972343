package toolfilter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/doctordisrespect/narsil-mcp/internal/model"
)

func TestParsePresetAcceptsBothSecurityFocusedSpellings(t *testing.T) {
	for _, s := range []string{"security_focused", "security-focused", "SECURITY_FOCUSED"} {
		p, ok := ParsePreset(s)
		require.True(t, ok, "ParsePreset(%q)", s)
		require.Equal(t, PresetSecurityFocused, p)
	}
	_, ok := ParsePreset("nonsense")
	require.False(t, ok)
}

func TestEditorPresetOrFullFallsBackToFull(t *testing.T) {
	require.Equal(t, PresetBalanced, EditorPresetOrFull("VSCode"))
	require.Equal(t, PresetMinimal, EditorPresetOrFull("nvim"))
	require.Equal(t, PresetFull, EditorPresetOrFull("some-unknown-editor"))
}

func TestAllowedPrecedence(t *testing.T) {
	cfg := model.ToolsConfig{
		Overrides: []model.ToolOverride{
			{Tool: "get_metrics", Enabled: false},
		},
		Categories: []model.CategoryConfig{
			{Category: "analysis", Enabled: false},
		},
		FeatureFlags: map[string]bool{},
	}
	f := New(PresetBalanced, cfg, model.EngineFlags{})

	// Override wins even though the preset would otherwise allow it.
	require.False(t, f.Allowed(ToolInfo{Name: "get_metrics", Category: "metrics"}))

	// Category-disabled beats preset-enabled.
	require.False(t, f.Allowed(ToolInfo{Name: "get_control_flow", Category: "analysis"}))

	// A tool present in the balanced preset's enabled set is allowed.
	require.True(t, f.Allowed(ToolInfo{Name: "search_code", Category: "search"}))

	// A tool named by nothing defaults to disabled.
	require.False(t, f.Allowed(ToolInfo{Name: "totally_unknown_tool", Category: "search"}))
}

func TestAllowedRequiresFeatureFlag(t *testing.T) {
	f := New(PresetFull, model.ToolsConfig{FeatureFlags: map[string]bool{}}, model.EngineFlags{})
	require.False(t, f.Allowed(ToolInfo{Name: "scan_security", Category: "analysis", RequiredFeature: "security"}))

	f = New(PresetFull, model.ToolsConfig{FeatureFlags: map[string]bool{"security": true}}, model.EngineFlags{})
	require.True(t, f.Allowed(ToolInfo{Name: "scan_security", Category: "analysis", RequiredFeature: "security"}))
}

func TestEngineFlagsMergeIntoFeatureFlags(t *testing.T) {
	f := New(PresetFull, model.ToolsConfig{}, model.EngineFlags{Git: true})
	require.True(t, f.Allowed(ToolInfo{Name: "get_blame", Category: "git", RequiredFeature: "git"}))
	require.False(t, f.Allowed(ToolInfo{Name: "get_hover_info", Category: "lsp", RequiredFeature: "lsp"}))
}

func TestFullPresetEnablesEverythingNotDisabled(t *testing.T) {
	f := New(PresetFull, model.ToolsConfig{}, model.EngineFlags{})
	require.True(t, f.Allowed(ToolInfo{Name: "anything_at_all", Category: "search"}))
}

func TestApplyTruncatesToPerformanceBudget(t *testing.T) {
	tools := []ToolInfo{
		{Name: "a", Category: "search"},
		{Name: "b", Category: "search"},
		{Name: "c", Category: "search"},
	}
	f := New(PresetFull, model.ToolsConfig{}, model.EngineFlags{})
	out := Apply(tools, f, model.PerformanceConfig{MaxResults: 2})
	require.Len(t, out, 2)
}

func TestApplyWithNoBudgetKeepsAllAllowed(t *testing.T) {
	tools := []ToolInfo{
		{Name: "a", Category: "search"},
		{Name: "b", Category: "search"},
	}
	f := New(PresetFull, model.ToolsConfig{}, model.EngineFlags{})
	out := Apply(tools, f, model.PerformanceConfig{})
	require.Len(t, out, 2)
}

func TestApplyTruncationPrefersPresetThenLowImpactThenAlphabetical(t *testing.T) {
	// All four tools are tagged "search" and the search category is
	// force-enabled, so every one of them passes Allowed regardless of
	// preset membership — isolating the truncation-tier ordering from
	// visibility itself. "list_repos" is a genuine member of the minimal
	// preset's enabled set, so it alone should land in tier 0.
	tools := []ToolInfo{
		{Name: "list_repos", Category: "search"},
		{Name: "mmm_low_impact", Category: "search"},
		{Name: "aaa_plain", Category: "search"},
		{Name: "bbb_plain", Category: "search"},
	}
	cfg := model.ToolsConfig{
		Categories: []model.CategoryConfig{{Category: "search", Enabled: true}},
		Overrides:  []model.ToolOverride{{Tool: "mmm_low_impact", Enabled: true, LowImpact: true}},
	}
	f := New(PresetMinimal, cfg, model.EngineFlags{})
	out := Apply(tools, f, model.PerformanceConfig{MaxResults: 3})
	require.Equal(t, []string{"list_repos", "mmm_low_impact", "aaa_plain"}, []string{out[0].Name, out[1].Name, out[2].Name})
}
