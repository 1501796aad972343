package model

// Preset is the closed set of built-in tool-filter presets.
type Preset string

const (
	PresetMinimal         Preset = "minimal"
	PresetBalanced        Preset = "balanced"
	PresetFull            Preset = "full"
	PresetSecurityFocused Preset = "security_focused"
)

// ToolOverride forces a single tool on or off regardless of preset or
// category defaults; it sits at the top of the precedence order.
// LowImpact marks a tool as cheap to keep in a truncated response: the
// performance-budget truncation keeps the active preset's tools first,
// then low-impact tools, before falling back to alphabetical order.
type ToolOverride struct {
	Tool      string `yaml:"tool"`
	Enabled   bool   `yaml:"enabled"`
	LowImpact bool   `yaml:"low_impact"`
}

// CategoryConfig enables or disables every tool tagged with a category,
// one precedence level below per-tool overrides.
type CategoryConfig struct {
	Category string `yaml:"category"`
	Enabled  bool   `yaml:"enabled"`
}

// PerformanceConfig bounds the size and shape of tool responses; the
// dispatcher truncates results that would exceed these budgets.
type PerformanceConfig struct {
	MaxResponseBytes int `yaml:"max_response_bytes"`
	MaxResults       int `yaml:"max_results"`
	MaxTokens        int `yaml:"max_tokens"`
}

// ToolsConfig is the tool-filter-engine section of ToolConfig.
type ToolsConfig struct {
	Preset      Preset           `yaml:"preset"`
	Editor      string           `yaml:"editor"`
	Overrides   []ToolOverride   `yaml:"overrides"`
	Categories  []CategoryConfig `yaml:"categories"`
	FeatureFlags map[string]bool `yaml:"feature_flags"`
	Performance PerformanceConfig `yaml:"performance"`
}

// ToolConfig is the root of the on-disk `.narsil.yaml` schema: version,
// repository roots, and the nested tool-filter config.
type ToolConfig struct {
	Version     int         `yaml:"version"`
	Repos       []string    `yaml:"repos"`
	IndexPath   string      `yaml:"index_path,omitempty"`
	Tools       ToolsConfig `yaml:"tools"`
}

// DefaultToolConfig is the built-in baseline merged under every other
// config source: default -> user -> project -> env -> CLI.
func DefaultToolConfig() ToolConfig {
	return ToolConfig{
		Version: 1,
		Tools: ToolsConfig{
			Preset: PresetBalanced,
			Performance: PerformanceConfig{
				MaxResponseBytes: 1 << 20,
				MaxResults:       50,
				MaxTokens:        8000,
			},
			FeatureFlags: map[string]bool{},
		},
	}
}

// Repository is a single indexed code root, discovered or configured.
type Repository struct {
	Name string
	Path string
	VCS  string // "git", "", etc.
}

// ClientInfo is the MCP peer's self-reported identity from `initialize`,
// used to resolve the editor-to-preset mapping when Tools.Editor is empty.
type ClientInfo struct {
	Name    string
	Version string
}

// EngineFlags are the CLI/runtime toggles that change
// which subsystems the engine starts (call-graph building, git
// integration, repo auto-discovery, persistence, watch mode, and the
// experimental LSP/streaming/remote/neural surfaces carried over from the
// CLI flag table).
type EngineFlags struct {
	Verbose        bool
	Reindex        bool
	Watch          bool
	CallGraph      bool
	Git            bool
	Discover       bool
	Persist        bool
	LSP            bool
	Streaming      bool
	Remote         bool
	Neural         bool
	NeuralBackend  string
	NeuralModel    string
	HTTP           bool
	HTTPPort       int
}
