package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/doctordisrespect/narsil-mcp/internal/reposvc"
)

// TestMain ensures the watcher's fsnotify goroutine and debounce timer
// never leak across tests, matching the goleak_test.go guard used
// around the equivalent watcher package elsewhere in this codebase family.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

func newTestRepo(t *testing.T) reposvc.Repository {
	t.Helper()
	dir := t.TempDir()
	return reposvc.Repository{
		Name:   "fixture",
		Path:   dir,
		Config: reposvc.DefaultConfig("fixture", dir),
	}
}

func TestWatcherDeliversCreatedAndChangedBatch(t *testing.T) {
	repo := newTestRepo(t)

	w, err := New(repo, 30*time.Millisecond)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var mu sync.Mutex
	var got Batch
	done := make(chan struct{}, 1)
	w.OnBatch = func(b Batch) {
		mu.Lock()
		got.Created = append(got.Created, b.Created...)
		got.Changed = append(got.Changed, b.Changed...)
		got.Removed = append(got.Removed, b.Removed...)
		mu.Unlock()
		select {
		case done <- struct{}{}:
		default:
		}
	}

	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	path := filepath.Join(repo.Path, "new_file.go")
	if err := os.WriteFile(path, []byte("package fixture\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for a batch")
	}

	mu.Lock()
	defer mu.Unlock()
	all := append(append([]string{}, got.Created...), got.Changed...)
	found := false
	for _, p := range all {
		if p == path {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %s in created or changed batch, got %+v", path, got)
	}
}

func TestWatcherStopIsIdempotentToWaitFor(t *testing.T) {
	repo := newTestRepo(t)
	w, err := New(repo, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}
