package toolfilter

import "strings"

// EditorPreset maps an MCP clientInfo.name to a preset, case-insensitive
// and whitespace-trimmed, ported from get_editor_preset in the original's
// config/editor.rs, supplemented with the original's full JetBrains
// family and Sublime Text entries. Returns false for an
// unrecognized editor; callers should fall back to PresetFull (the
// original's "conservative choice" documented on get_editor_preset).
func EditorPreset(editorName string) (Preset, bool) {
	normalized := strings.ToLower(strings.TrimSpace(editorName))
	switch normalized {
	case "vscode", "code", "visual studio code":
		return PresetBalanced, true
	case "zed":
		return PresetMinimal, true
	case "claude-desktop", "claude", "claude.ai":
		return PresetFull, true
	case "intellij", "idea", "pycharm", "webstorm", "rustrover", "clion",
		"goland", "phpstorm", "rider":
		return PresetBalanced, true
	case "vim", "nvim", "neovim":
		return PresetMinimal, true
	case "emacs":
		return PresetBalanced, true
	case "sublime", "sublime text", "subl":
		return PresetBalanced, true
	case "cursor":
		return PresetBalanced, true
	default:
		return "", false
	}
}

// EditorPresetOrFull is EditorPreset with the "unknown -> Full" fallback
// applied, matching get_editor_preset_or_full.
func EditorPresetOrFull(editorName string) Preset {
	if p, ok := EditorPreset(editorName); ok {
		return p
	}
	return PresetFull
}
