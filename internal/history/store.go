package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"TickerRadar/internal/model"
)

// Store owns the persisted mention history. It is the only component
// allowed to touch the history document; the pipeline reads it once at
// run start and saves it once at run end.
type Store struct {
	mu        sync.Mutex
	filePath  string
	retention time.Duration
	hist      model.History
}

// NewStore creates a Store and loads any existing history document.
// Missing or corrupt documents yield an empty history, never an error.
func NewStore(filePath string, retention time.Duration) *Store {
	s := &Store{filePath: filePath, retention: retention}
	s.hist = load(filePath)
	return s
}

func load(filePath string) model.History {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return model.History{}
	}
	var hist model.History
	if err := json.Unmarshal(data, &hist); err != nil {
		return model.History{}
	}
	if hist.Snapshots == nil {
		return model.History{}
	}
	return hist
}

// History returns a copy of the in-memory history.
func (s *Store) History() model.History {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := model.History{Snapshots: make([]model.Snapshot, len(s.hist.Snapshots))}
	copy(out.Snapshots, s.hist.Snapshots)
	return out
}

// Append adds a snapshot for the current run and trims every snapshot
// older than the retention window. Timestamps stay monotonic: a snapshot
// dated before the current tail is clamped to the tail's timestamp.
func (s *Store) Append(snap model.Snapshot, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if last := s.hist.Last(); last != nil && snap.TS < last.TS {
		snap.TS = last.TS
	}
	s.hist.Snapshots = append(s.hist.Snapshots, snap)

	cutoff := now.Add(-s.retention).Unix()
	kept := s.hist.Snapshots[:0]
	for _, sn := range s.hist.Snapshots {
		if sn.TS >= cutoff {
			kept = append(kept, sn)
		}
	}
	s.hist.Snapshots = kept
}

// PreviousCounts returns the counts of the snapshot immediately before
// the most recent one, or an empty mapping if there is none.
func (s *Store) PreviousCounts() model.MentionCount {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.hist.Snapshots) < 2 {
		return model.MentionCount{}
	}
	prev := s.hist.Snapshots[len(s.hist.Snapshots)-2].Counts
	out := make(model.MentionCount, len(prev))
	for tk, n := range prev {
		out[tk] = n
	}
	return out
}

// Save overwrites the history document. The write goes through a temp
// file and rename so a crash mid-write can't corrupt the old document.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(&s.hist, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0755); err != nil {
		return fmt.Errorf("mkdir history dir: %w", err)
	}
	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	if err := os.Rename(tmp, s.filePath); err != nil {
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}
