package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/doctordisrespect/narsil-mcp/internal/errs"
	"github.com/doctordisrespect/narsil-mcp/internal/watcher"
)

const fixtureSource = `package fixture

func ParseConfig(path string) error {
	if path == "" {
		return nil
	}
	return nil
}
`

func newFixtureRepo(t *testing.T) (repoPath, filePath string) {
	t.Helper()
	dir := t.TempDir()
	filePath = filepath.Join(dir, "fixture.go")
	if err := os.WriteFile(filePath, []byte(fixtureSource), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return dir, filePath
}

func TestReindexAndFindSymbols(t *testing.T) {
	dir, _ := newFixtureRepo(t)
	e := New()
	if _, err := e.AddRepo("fixture", dir); err != nil {
		t.Fatalf("AddRepo: %v", err)
	}
	if err := e.Reindex("fixture"); err != nil {
		t.Fatalf("Reindex: %v", err)
	}

	status, err := e.GetIndexStatus("fixture")
	if err != nil {
		t.Fatalf("GetIndexStatus: %v", err)
	}
	if !status.Indexed || status.FileCount == 0 {
		t.Fatalf("expected a non-empty indexed status, got %+v", status)
	}

	syms, err := e.FindSymbols("fixture", "parseconf")
	if err != nil {
		t.Fatalf("FindSymbols: %v", err)
	}
	if len(syms) != 1 || syms[0].Name != "ParseConfig" {
		t.Fatalf("expected to find ParseConfig, got %+v", syms)
	}
}

func TestGetSymbolDefinitionExactMatch(t *testing.T) {
	dir, _ := newFixtureRepo(t)
	e := New()
	e.AddRepo("fixture", dir)
	if err := e.Reindex("fixture"); err != nil {
		t.Fatalf("Reindex: %v", err)
	}

	sym, err := e.GetSymbolDefinition("fixture", "ParseConfig")
	if err != nil {
		t.Fatalf("GetSymbolDefinition: %v", err)
	}
	if sym.Name != "ParseConfig" {
		t.Fatalf("expected ParseConfig, got %+v", sym)
	}
}

func TestGetSymbolDefinitionFuzzyFallback(t *testing.T) {
	dir, _ := newFixtureRepo(t)
	e := New()
	e.AddRepo("fixture", dir)
	if err := e.Reindex("fixture"); err != nil {
		t.Fatalf("Reindex: %v", err)
	}

	// One character off from the real name; no exact match exists.
	sym, err := e.GetSymbolDefinition("fixture", "ParseConfic")
	if err != nil {
		t.Fatalf("expected the fuzzy fallback to resolve a near-miss name: %v", err)
	}
	if sym.Name != "ParseConfig" {
		t.Fatalf("expected fuzzy match to resolve to ParseConfig, got %+v", sym)
	}
}

func TestGetSymbolDefinitionNotFound(t *testing.T) {
	dir, _ := newFixtureRepo(t)
	e := New()
	e.AddRepo("fixture", dir)
	if err := e.Reindex("fixture"); err != nil {
		t.Fatalf("Reindex: %v", err)
	}

	_, err := e.GetSymbolDefinition("fixture", "CompletelyUnrelatedName")
	if !errs.Is(err, errs.NotFound) {
		t.Fatalf("expected errs.NotFound, got %v", err)
	}
}

func TestGetFileRedactsSecrets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.go")
	content := "package fixture\n\n// api_key = \"abcdefghij0123456789\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	e := New()
	e.AddRepo("fixture", dir)

	out, err := e.GetFile("fixture", "config.go")
	if err != nil {
		t.Fatalf("GetFile: %v", err)
	}
	if out == content {
		t.Fatalf("expected the api_key literal to be redacted, got unchanged content")
	}
}

func TestGetFileRefusesSensitiveFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("SECRET=1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	e := New()
	e.AddRepo("fixture", dir)

	_, err := e.GetFile("fixture", ".env")
	if !errs.Is(err, errs.FeatureDisabled) {
		t.Fatalf("expected errs.FeatureDisabled for a sensitive file, got %v", err)
	}
}

func TestSearchCodeFindsIndexedFunction(t *testing.T) {
	dir, _ := newFixtureRepo(t)
	e := New()
	e.AddRepo("fixture", dir)
	if err := e.Reindex("fixture"); err != nil {
		t.Fatalf("Reindex: %v", err)
	}

	results, err := e.SearchCode("fixture", "ParseConfig", 5)
	if err != nil {
		t.Fatalf("SearchCode: %v", err)
	}
	if len(results) == 0 {
		t.Fatalf("expected at least one search result")
	}
}

func TestHybridSearchFindsIndexedFunction(t *testing.T) {
	dir, _ := newFixtureRepo(t)
	e := New()
	e.AddRepo("fixture", dir)
	if err := e.Reindex("fixture"); err != nil {
		t.Fatalf("Reindex: %v", err)
	}

	results, err := e.HybridSearch(context.Background(), "fixture", "ParseConfig", 5)
	if err != nil {
		t.Fatalf("HybridSearch: %v", err)
	}
	if len(results) == 0 {
		t.Fatalf("expected at least one hybrid result")
	}
}

func TestApplyChangeIncrementallyAddsAndRemovesFiles(t *testing.T) {
	dir, filePath := newFixtureRepo(t)
	e := New()
	e.AddRepo("fixture", dir)
	if err := e.Reindex("fixture"); err != nil {
		t.Fatalf("Reindex: %v", err)
	}

	statusBefore, _ := e.GetIndexStatus("fixture")

	newFile := filepath.Join(dir, "extra.go")
	if err := os.WriteFile(newFile, []byte("package fixture\n\nfunc ExtraHelper() {}\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := e.ApplyChange("fixture", watcher.Batch{Created: []string{newFile}}); err != nil {
		t.Fatalf("ApplyChange (create): %v", err)
	}

	syms, err := e.FindSymbols("fixture", "ExtraHelper")
	if err != nil {
		t.Fatalf("FindSymbols: %v", err)
	}
	if len(syms) != 1 {
		t.Fatalf("expected ExtraHelper to be indexed after ApplyChange, got %+v", syms)
	}

	statusAfterCreate, _ := e.GetIndexStatus("fixture")
	if statusAfterCreate.FileCount != statusBefore.FileCount+1 {
		t.Fatalf("expected file count to grow by 1, got %d -> %d", statusBefore.FileCount, statusAfterCreate.FileCount)
	}

	if err := os.Remove(newFile); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := e.ApplyChange("fixture", watcher.Batch{Removed: []string{newFile}}); err != nil {
		t.Fatalf("ApplyChange (remove): %v", err)
	}

	syms, err = e.FindSymbols("fixture", "ExtraHelper")
	if err != nil {
		t.Fatalf("FindSymbols: %v", err)
	}
	if len(syms) != 0 {
		t.Fatalf("expected ExtraHelper to be gone after removal, got %+v", syms)
	}

	statusAfterRemove, _ := e.GetIndexStatus("fixture")
	if statusAfterRemove.FileCount != statusBefore.FileCount {
		t.Fatalf("expected file count to return to baseline, got %d (baseline %d)", statusAfterRemove.FileCount, statusBefore.FileCount)
	}

	_ = filePath
}

func TestApplyChangeSkipsByteIdenticalRewrite(t *testing.T) {
	dir, filePath := newFixtureRepo(t)
	e := New()
	e.AddRepo("fixture", dir)
	if err := e.Reindex("fixture"); err != nil {
		t.Fatalf("Reindex: %v", err)
	}
	before, err := e.GetSymbolDefinition("fixture", "ParseConfig")
	if err != nil {
		t.Fatalf("GetSymbolDefinition: %v", err)
	}

	// Rewrite the file with byte-identical content: a touch, not a change.
	if err := os.WriteFile(filePath, []byte(fixtureSource), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := e.ApplyChange("fixture", watcher.Batch{Changed: []string{filePath}}); err != nil {
		t.Fatalf("ApplyChange: %v", err)
	}

	after, err := e.GetSymbolDefinition("fixture", "ParseConfig")
	if err != nil {
		t.Fatalf("GetSymbolDefinition after no-op change: %v", err)
	}
	if before.Name != after.Name || before.Range != after.Range {
		t.Fatalf("expected symbol to be unchanged by a byte-identical rewrite, before=%+v after=%+v", before, after)
	}
}
