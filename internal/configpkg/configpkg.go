// Package configpkg loads and validates the on-disk tool configuration
// through a layered default/user/project/env/CLI precedence, ported
// from the layering and validate-and-set-defaults structure of
// internal/config, but against this server's YAML schema
// (model.ToolConfig) rather than a KDL format — gopkg.in/yaml.v3 is
// used in place of a KDL parser since this server's wire format is
// YAML.
package configpkg

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doctordisrespect/narsil-mcp/internal/errs"
	"github.com/doctordisrespect/narsil-mcp/internal/model"
	"github.com/doctordisrespect/narsil-mcp/internal/toolfilter"
)

// FileName is the config file name looked for in both the user home
// directory and the project root.
const FileName = ".narsil.yaml"

// Load resolves a ToolConfig by layering, lowest precedence first:
// built-in defaults, ~/.narsil.yaml, <projectRoot>/.narsil.yaml, then
// NARSIL_*-prefixed environment variables. CLI flag overrides are the
// caller's responsibility via Override, applied after Load returns.
func Load(projectRoot string) (*model.ToolConfig, error) {
	cfg := model.DefaultToolConfig()

	if home, err := os.UserHomeDir(); err == nil {
		if err := mergeFile(&cfg, filepath.Join(home, FileName)); err != nil {
			return nil, err
		}
	}

	if projectRoot != "" {
		if err := mergeFile(&cfg, filepath.Join(projectRoot, FileName)); err != nil {
			return nil, err
		}
	}

	applyEnv(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeFile reads path, if it exists, and overlays its fields onto cfg.
// A missing file is not an error; a malformed one is.
func mergeFile(cfg *model.ToolConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errs.Wrap(errs.InvalidInput, fmt.Sprintf("reading config %s", path), err)
	}

	var overlay model.ToolConfig
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return errs.Wrap(errs.InvalidInput, fmt.Sprintf("parsing config %s", path), err)
	}
	mergeInto(cfg, &overlay)
	return nil
}

// mergeInto overlays non-zero fields of src onto dst; slices and maps
// from src replace dst's wholesale rather than being appended, matching
// the "project overrides base" rule mergeConfigs applies for settings
// outside the exclude-pattern special case.
func mergeInto(dst *model.ToolConfig, src *model.ToolConfig) {
	if src.Version != 0 {
		dst.Version = src.Version
	}
	if len(src.Repos) > 0 {
		dst.Repos = src.Repos
	}
	if src.IndexPath != "" {
		dst.IndexPath = src.IndexPath
	}
	if src.Tools.Preset != "" {
		dst.Tools.Preset = src.Tools.Preset
	}
	if src.Tools.Editor != "" {
		dst.Tools.Editor = src.Tools.Editor
	}
	if len(src.Tools.Overrides) > 0 {
		dst.Tools.Overrides = src.Tools.Overrides
	}
	if len(src.Tools.Categories) > 0 {
		dst.Tools.Categories = src.Tools.Categories
	}
	if len(src.Tools.FeatureFlags) > 0 {
		if dst.Tools.FeatureFlags == nil {
			dst.Tools.FeatureFlags = make(map[string]bool, len(src.Tools.FeatureFlags))
		}
		for k, v := range src.Tools.FeatureFlags {
			dst.Tools.FeatureFlags[k] = v
		}
	}
	if src.Tools.Performance.MaxResponseBytes != 0 {
		dst.Tools.Performance.MaxResponseBytes = src.Tools.Performance.MaxResponseBytes
	}
	if src.Tools.Performance.MaxResults != 0 {
		dst.Tools.Performance.MaxResults = src.Tools.Performance.MaxResults
	}
	if src.Tools.Performance.MaxTokens != 0 {
		dst.Tools.Performance.MaxTokens = src.Tools.Performance.MaxTokens
	}
}

// applyEnv applies NARSIL_PRESET, NARSIL_EDITOR, NARSIL_INDEX_PATH, and
// NARSIL_REPOS (colon-separated) on top of the file-layered config.
func applyEnv(cfg *model.ToolConfig) {
	if v := os.Getenv("NARSIL_PRESET"); v != "" {
		cfg.Tools.Preset = model.Preset(v)
	}
	if v := os.Getenv("NARSIL_EDITOR"); v != "" {
		cfg.Tools.Editor = v
	}
	if v := os.Getenv("NARSIL_INDEX_PATH"); v != "" {
		cfg.IndexPath = v
	}
	if v := os.Getenv("NARSIL_REPOS"); v != "" {
		cfg.Repos = strings.Split(v, ":")
	}
	if v := os.Getenv("NARSIL_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Tools.Performance.MaxResults = n
		}
	}
}

// Override is a CLI-flag override applied last, after Load and env
// processing, matching the highest layer in the config precedence list.
type Override struct {
	Preset    string
	Editor    string
	IndexPath string
	Repos     []string
}

// Apply layers o onto cfg, skipping zero-valued fields.
func (o Override) Apply(cfg *model.ToolConfig) {
	if o.Preset != "" {
		cfg.Tools.Preset = model.Preset(o.Preset)
	}
	if o.Editor != "" {
		cfg.Tools.Editor = o.Editor
	}
	if o.IndexPath != "" {
		cfg.IndexPath = o.IndexPath
	}
	if len(o.Repos) > 0 {
		cfg.Repos = o.Repos
	}
}

// Validate checks cfg for internally-inconsistent or out-of-range
// values and resolves Editor into Preset when Preset is unset, mirroring
// the validate-then-default pattern of ValidateAndSetDefaults.
func Validate(cfg *model.ToolConfig) error {
	if cfg.Version <= 0 {
		return errs.New(errs.InvalidInput, "config version must be positive")
	}

	if cfg.Tools.Preset == "" && cfg.Tools.Editor != "" {
		cfg.Tools.Preset = model.Preset(toolfilter.EditorPresetOrFull(cfg.Tools.Editor))
	}
	if cfg.Tools.Preset == "" {
		cfg.Tools.Preset = model.PresetBalanced
	}
	if _, ok := toolfilter.ParsePreset(string(cfg.Tools.Preset)); !ok {
		return errs.New(errs.InvalidInput, fmt.Sprintf("unknown tool preset %q", cfg.Tools.Preset))
	}

	if cfg.Tools.Performance.MaxResponseBytes < 0 {
		return errs.New(errs.InvalidInput, "tools.performance.max_response_bytes must not be negative")
	}
	if cfg.Tools.Performance.MaxResults < 0 {
		return errs.New(errs.InvalidInput, "tools.performance.max_results must not be negative")
	}
	if cfg.Tools.Performance.MaxTokens < 0 {
		return errs.New(errs.InvalidInput, "tools.performance.max_tokens must not be negative")
	}

	return nil
}
