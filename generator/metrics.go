package generator

// Metrics tracks cumulative generation statistics
type Metrics struct {
	// Entry counters
	EntriesEmitted int64 `json:"entriesEmitted"` // Entries returned by Next
	AddEntries     int64 `json:"addEntries"`     // ADD entries produced
	DeleteEntries  int64 `json:"deleteEntries"`  // DELETE entries produced

	// File / merge counters
	FilesProduced   int64 `json:"filesProduced"`   // New level-0 files from the supplier
	Cascades        int64 `json:"cascades"`        // Generation steps that triggered at least one merge
	MergesPerformed int64 `json:"mergesPerformed"` // Individual level merges
	RecordsMerged   int64 `json:"recordsMerged"`   // Records moved through merges
	MaxCascadeDepth int   `json:"maxCascadeDepth"` // Deepest level any merge has reached
}

// NewMetrics creates a zeroed metrics tracker
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Reset zeroes all counters
func (m *Metrics) Reset() {
	*m = Metrics{}
}

func (m *Metrics) recordEntry(kind EntryKind) {
	if kind == KindAdd {
		m.AddEntries++
	} else {
		m.DeleteEntries++
	}
}
