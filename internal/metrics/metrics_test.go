package metrics

import (
	"testing"
	"time"
)

func TestStatsRecordAndPercentiles(t *testing.T) {
	s := NewStats()
	for _, ms := range []uint64{10, 20, 30, 40} {
		s.Record(ms)
	}
	if s.Count != 4 {
		t.Fatalf("Count: got %d, want 4", s.Count)
	}
	if s.MinMs != 10 || s.MaxMs != 40 {
		t.Fatalf("Min/Max: got %d/%d, want 10/40", s.MinMs, s.MaxMs)
	}
	if got := s.AvgMs(); got != 25 {
		t.Fatalf("AvgMs: got %f, want 25", got)
	}
	if got := s.P95(); got != 40 {
		t.Fatalf("P95: got %d, want 40", got)
	}
}

func TestStatsWithNoSamples(t *testing.T) {
	s := NewStats()
	if got := s.AvgMs(); got != 0 {
		t.Fatalf("AvgMs on empty Stats: got %f, want 0", got)
	}
	if got := s.P50(); got != 0 {
		t.Fatalf("P50 on empty Stats: got %d, want 0", got)
	}
}

func TestMetricsRecordToolAccumulatesPerName(t *testing.T) {
	m := New()
	m.RecordTool("search_code", 5*time.Millisecond)
	m.RecordTool("search_code", 15*time.Millisecond)
	m.RecordTool("get_file", 1*time.Millisecond)

	snap, ok := m.ToolStats("search_code")
	if !ok {
		t.Fatalf("expected search_code to have recorded stats")
	}
	if snap.Count != 2 {
		t.Fatalf("expected 2 recorded calls, got %d", snap.Count)
	}
	if got := m.TotalRequests(); got != 3 {
		t.Fatalf("TotalRequests: got %d, want 3", got)
	}
}

func TestMetricsRepoIndexHistoryIsAppendOnly(t *testing.T) {
	m := New()
	m.RecordRepoIndex("repo-a", 10*time.Millisecond, 5, 20)
	m.RecordRepoIndex("repo-a", 12*time.Millisecond, 6, 22)

	hist := m.RepoIndexHistory()
	if len(hist) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(hist))
	}
	if hist[0].RepoName != "repo-a" || hist[1].FileCount != 6 {
		t.Fatalf("unexpected history entries: %+v", hist)
	}
}

func TestReportJSONIncludesRecordedTool(t *testing.T) {
	m := New()
	m.RecordTool("get_metrics", 2*time.Millisecond)
	report := m.ReportJSON()
	if report == nil {
		t.Fatalf("expected a non-nil report")
	}
}
