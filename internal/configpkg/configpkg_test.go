package configpkg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/doctordisrespect/narsil-mcp/internal/errs"
	"github.com/doctordisrespect/narsil-mcp/internal/model"
)

func isolateHome(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func TestLoadAppliesProjectFileOverDefaults(t *testing.T) {
	isolateHome(t)
	projectRoot := t.TempDir()
	contents := "version: 1\ntools:\n  preset: minimal\n"
	if err := os.WriteFile(filepath.Join(projectRoot, FileName), []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(projectRoot)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tools.Preset != model.PresetMinimal {
		t.Fatalf("expected project file's preset to win, got %q", cfg.Tools.Preset)
	}
	if cfg.Tools.Performance.MaxResults != 50 {
		t.Fatalf("expected default performance settings to survive, got %d", cfg.Tools.Performance.MaxResults)
	}
}

func TestLoadMissingProjectFileIsNotAnError(t *testing.T) {
	isolateHome(t)
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tools.Preset != model.PresetBalanced {
		t.Fatalf("expected default preset, got %q", cfg.Tools.Preset)
	}
}

func TestLoadAppliesEnvOverFile(t *testing.T) {
	isolateHome(t)
	projectRoot := t.TempDir()
	contents := "version: 1\ntools:\n  preset: minimal\n"
	if err := os.WriteFile(filepath.Join(projectRoot, FileName), []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("NARSIL_PRESET", "full")

	cfg, err := Load(projectRoot)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tools.Preset != model.PresetFull {
		t.Fatalf("expected env preset to win over file preset, got %q", cfg.Tools.Preset)
	}
}

func TestOverrideApplySkipsZeroValues(t *testing.T) {
	cfg := model.DefaultToolConfig()
	cfg.Tools.Preset = model.PresetMinimal

	Override{}.Apply(&cfg)
	if cfg.Tools.Preset != model.PresetMinimal {
		t.Fatalf("expected empty Override to leave preset untouched, got %q", cfg.Tools.Preset)
	}

	Override{Preset: "security_focused"}.Apply(&cfg)
	if cfg.Tools.Preset != model.PresetSecurityFocused {
		t.Fatalf("expected Override.Preset to win, got %q", cfg.Tools.Preset)
	}
}

func TestValidateResolvesEditorWhenPresetUnset(t *testing.T) {
	cfg := model.DefaultToolConfig()
	cfg.Tools.Preset = ""
	cfg.Tools.Editor = "zed"

	if err := Validate(&cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Tools.Preset != model.PresetMinimal {
		t.Fatalf("expected zed to resolve to minimal preset, got %q", cfg.Tools.Preset)
	}
}

func TestValidateRejectsUnknownPreset(t *testing.T) {
	cfg := model.DefaultToolConfig()
	cfg.Tools.Preset = "not-a-real-preset"

	err := Validate(&cfg)
	if err == nil {
		t.Fatalf("expected an error for an unknown preset")
	}
	if !errs.Is(err, errs.InvalidInput) {
		t.Fatalf("expected errs.InvalidInput, got %v", err)
	}
}

func TestValidateRejectsNegativePerformanceBudget(t *testing.T) {
	cfg := model.DefaultToolConfig()
	cfg.Tools.Performance.MaxResults = -1

	if err := Validate(&cfg); err == nil {
		t.Fatalf("expected an error for a negative max_results")
	}
}
