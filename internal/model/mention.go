package model

// MentionCount maps a ticker symbol to the number of times it was
// mentioned, scoped to one source and one run (or to the merged total).
type MentionCount map[string]int

// Snapshot is one run's merged mention counts plus the per-source
// breakdown. Immutable once appended to a History.
type Snapshot struct {
	TS      int64                   `json:"ts"`
	Counts  MentionCount            `json:"counts"`
	Sources map[string]MentionCount `json:"sources,omitempty"`
}

// History is an ordered sequence of Snapshots, timestamp ascending.
type History struct {
	Snapshots []Snapshot `json:"snapshots"`
}

// Last returns the most recent Snapshot, or nil if the history is empty.
func (h *History) Last() *Snapshot {
	if len(h.Snapshots) == 0 {
		return nil
	}
	return &h.Snapshots[len(h.Snapshots)-1]
}
