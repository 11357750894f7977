package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"TickerRadar/internal/model"
)

func tempStore(t *testing.T, retention time.Duration) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "history.json"), retention)
}

func TestNewStore_MissingFile(t *testing.T) {
	s := tempStore(t, 48*time.Hour)
	if n := len(s.History().Snapshots); n != 0 {
		t.Fatalf("expected empty history, got %d snapshots", n)
	}
}

func TestNewStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")

	tests := []string{
		"not json at all",
		`{"snapshots": "wrong type"}`,
		`{"other_key": []}`,
		"",
	}
	for _, content := range tests {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		s := NewStore(path, 48*time.Hour)
		if n := len(s.History().Snapshots); n != 0 {
			t.Errorf("content %q: expected empty history, got %d snapshots", content, n)
		}
	}
}

func TestAppend_TrimsRetentionWindow(t *testing.T) {
	s := tempStore(t, 48*time.Hour)
	now := time.Now()

	old := model.Snapshot{TS: now.Add(-72 * time.Hour).Unix(), Counts: model.MentionCount{"OLD": 1}}
	edge := model.Snapshot{TS: now.Add(-47 * time.Hour).Unix(), Counts: model.MentionCount{"EDGE": 1}}
	s.hist.Snapshots = []model.Snapshot{old, edge}

	s.Append(model.Snapshot{TS: now.Unix(), Counts: model.MentionCount{"NEW": 1}}, now)

	hist := s.History()
	if len(hist.Snapshots) != 2 {
		t.Fatalf("expected 2 snapshots after trim, got %d", len(hist.Snapshots))
	}
	cutoff := now.Add(-48 * time.Hour).Unix()
	for _, sn := range hist.Snapshots {
		if sn.TS < cutoff {
			t.Errorf("snapshot at %d violates retention (cutoff %d)", sn.TS, cutoff)
		}
	}
}

func TestAppend_MonotonicTimestamps(t *testing.T) {
	s := tempStore(t, 48*time.Hour)
	now := time.Now()

	s.Append(model.Snapshot{TS: now.Unix(), Counts: model.MentionCount{}}, now)
	// A snapshot dated earlier than the tail gets clamped forward.
	s.Append(model.Snapshot{TS: now.Add(-time.Hour).Unix(), Counts: model.MentionCount{}}, now)

	hist := s.History()
	for i := 1; i < len(hist.Snapshots); i++ {
		if hist.Snapshots[i].TS < hist.Snapshots[i-1].TS {
			t.Fatalf("timestamps not monotonic: %d < %d", hist.Snapshots[i].TS, hist.Snapshots[i-1].TS)
		}
	}
}

func TestPreviousCounts(t *testing.T) {
	s := tempStore(t, 48*time.Hour)
	now := time.Now()

	if got := s.PreviousCounts(); len(got) != 0 {
		t.Fatalf("expected empty previous counts, got %v", got)
	}

	s.Append(model.Snapshot{TS: now.Add(-time.Hour).Unix(), Counts: model.MentionCount{"AAA": 3}}, now)
	if got := s.PreviousCounts(); len(got) != 0 {
		t.Fatalf("single snapshot should have no previous, got %v", got)
	}

	s.Append(model.Snapshot{TS: now.Unix(), Counts: model.MentionCount{"AAA": 9}}, now)
	if got := s.PreviousCounts(); got["AAA"] != 3 {
		t.Fatalf("expected previous AAA=3, got %v", got)
	}
}

func TestSave_Roundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")
	now := time.Now()

	s := NewStore(path, 48*time.Hour)
	s.Append(model.Snapshot{
		TS:      now.Unix(),
		Counts:  model.MentionCount{"GME": 5},
		Sources: map[string]model.MentionCount{"catalog": {"GME": 5}},
	}, now)
	if err := s.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	reloaded := NewStore(path, 48*time.Hour)
	hist := reloaded.History()
	if len(hist.Snapshots) != 1 {
		t.Fatalf("expected 1 snapshot after reload, got %d", len(hist.Snapshots))
	}
	if hist.Snapshots[0].Counts["GME"] != 5 {
		t.Errorf("counts lost in roundtrip: %v", hist.Snapshots[0].Counts)
	}
	if hist.Snapshots[0].Sources["catalog"]["GME"] != 5 {
		t.Errorf("per-source counts lost in roundtrip: %v", hist.Snapshots[0].Sources)
	}
}
