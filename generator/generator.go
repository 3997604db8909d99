package generator

import "fmt"

// Generator is a PURE synthetic manifest-entry generator with NO
// concurrency primitives. All state is accessed single-threaded via
// Next(); the caller manages pacing and threading.
//
// Each call to Next returns one manifest entry. When the internal buffer
// is empty a new generation step runs: the supplier produces a fresh
// level-0 file, its ADD entry is buffered, and any level overflow in the
// file's (bucket, partition) is resolved by cascading merges that buffer
// DELETE/ADD pairs. Entries drain in LIFO order.
type Generator struct {
	config   GenConfig
	levels   *levelTable
	supplier FileSupplier
	buffer   *entryStack
	metrics  *Metrics

	// true when the supplier was built from config rather than injected
	ownSupplier bool

	// Event logging callback (optional, for UI/debugging)
	LogEvent func(msg string)
}

// NewGenerator creates a generator backed by the default seeded supplier
func NewGenerator(config GenConfig) (*Generator, error) {
	return NewGeneratorWithSupplier(config, nil)
}

// NewGeneratorWithSupplier creates a generator driving the given
// supplier. A nil supplier selects the default seeded one. Tests use
// this to substitute a fixed-output stub and make the entry sequence
// fully reproducible.
func NewGeneratorWithSupplier(config GenConfig, supplier FileSupplier) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	ownSupplier := supplier == nil
	if ownSupplier {
		supplier = newRecordSupplier(config)
	}
	return &Generator{
		config:      config,
		levels:      newLevelTable(config.NumBuckets),
		supplier:    supplier,
		buffer:      newEntryStack(),
		metrics:     NewMetrics(),
		ownSupplier: ownSupplier,
	}, nil
}

// Next returns the next manifest entry, running a generation step first
// if the buffer is drained.
func (g *Generator) Next() ManifestEntry {
	if g.buffer.IsEmpty() {
		g.generateStep()
	}
	entry, _ := g.buffer.Pop()
	g.metrics.EntriesEmitted++
	return entry
}

// Buffered returns the number of entries waiting to be drained
func (g *Generator) Buffered() int {
	return g.buffer.Len()
}

// Config returns the generator configuration
func (g *Generator) Config() GenConfig {
	return g.config
}

// Metrics returns the cumulative generation metrics
func (g *Generator) Metrics() *Metrics {
	return g.metrics
}

// Reset discards all level state, buffered entries and metrics. The
// default supplier is rebuilt so a seeded generator replays the same
// sequence; an injected supplier is left untouched since the generator
// cannot rewind it.
func (g *Generator) Reset() error {
	g.levels = newLevelTable(g.config.NumBuckets)
	g.buffer.Clear()
	g.metrics.Reset()
	if g.ownSupplier {
		g.supplier = newRecordSupplier(g.config)
	}
	return nil
}

// generateStep runs one full generation step: one new file plus any
// cascaded merges. The buffer is guaranteed non-empty afterwards.
func (g *Generator) generateStep() {
	file := g.supplier.ProduceNewFile()
	g.mustValidNewFile(file)

	g.levels.recordNewFile(file)
	g.push(KindAdd, file)
	g.metrics.FilesProduced++
	g.logEvent("produced %s at level 0 (%s, bucket %d)", file.Meta.Name, file.Partition, file.Bucket)

	g.mergeLevelsIfNeeded(file.Partition, file.Bucket)
}

// mergeLevelsIfNeeded restores the level capacity bound for one
// (bucket, partition) pair by folding overflowing levels upward.
//
// This uses a very simple merge strategy that only aims to produce
// internally consistent entries: drain the overflowing level and the one
// above it, hand all records to the supplier, and install the merged
// files at the next level. A level can only overflow as a consequence of
// the step below it, so the walk never re-checks lower levels and
// terminates once the current level fits.
func (g *Generator) mergeLevelsIfNeeded(partition Partition, bucket int) {
	depth := 0
	current := 0
	for g.levels.level(bucket, partition, current).FileCount > g.config.LevelCapacity {
		g.levels.ensureLevel(bucket, partition, current+1)
		currentLevel := g.levels.level(bucket, partition, current)
		nextLevel := g.levels.level(bucket, partition, current+1)

		var records []Record
		for _, file := range currentLevel.Files {
			g.push(KindDelete, file)
			records = append(records, file.Content...)
		}
		currentLevel.Clear()

		for _, file := range nextLevel.Files {
			g.push(KindDelete, file)
			records = append(records, file.Content...)
		}
		nextLevel.Clear()

		merged := g.supplier.MergeIntoLevel(records, current+1, partition, bucket)
		g.mustValidMerge(merged, len(records), current+1, partition, bucket)
		for _, file := range merged {
			nextLevel.AddFile(file)
			g.push(KindAdd, file)
		}

		g.metrics.MergesPerformed++
		g.metrics.RecordsMerged += int64(len(records))
		if current+1 > g.metrics.MaxCascadeDepth {
			g.metrics.MaxCascadeDepth = current + 1
		}
		g.logEvent("merged %d records into level %d (%s, bucket %d): %d files", len(records), current+1, partition, bucket, len(merged))

		depth++
		current++
	}
	if depth > 0 {
		g.metrics.Cascades++
	}
}

func (g *Generator) push(kind EntryKind, file *DataFile) {
	g.buffer.Push(ManifestEntry{
		Kind:         kind,
		Partition:    file.Partition,
		Bucket:       file.Bucket,
		TotalBuckets: g.config.NumBuckets,
		File:         file.Meta,
	})
	g.metrics.recordEntry(kind)
}

// mustValidNewFile fails fast on supplier contract violations. Silent
// corruption of level state would make fixtures non-deterministic, which
// is worse than a hard stop.
func (g *Generator) mustValidNewFile(file *DataFile) {
	if file == nil {
		panic(GenError{Message: "supplier returned nil file"})
	}
	if file.Meta.Level != 0 {
		panic(GenError{Message: fmt.Sprintf("supplier returned new file %s at level %d, want 0", file.Meta.Name, file.Meta.Level)})
	}
	if file.Bucket < 0 || file.Bucket >= g.config.NumBuckets {
		panic(GenError{Message: fmt.Sprintf("supplier returned new file %s with bucket %d outside [0, %d)", file.Meta.Name, file.Bucket, g.config.NumBuckets)})
	}
}

func (g *Generator) mustValidMerge(merged []*DataFile, numRecords, level int, partition Partition, bucket int) {
	if len(merged) == 0 {
		panic(GenError{Message: "supplier returned no files from merge"})
	}
	var total int64
	for _, file := range merged {
		if file.Meta.Level != level || file.Partition != partition || file.Bucket != bucket {
			panic(GenError{Message: fmt.Sprintf("merged file %s tagged (level=%d, partition=%s, bucket=%d), want (level=%d, partition=%s, bucket=%d)",
				file.Meta.Name, file.Meta.Level, file.Partition, file.Bucket, level, partition, bucket)})
		}
		total += file.Meta.RecordCount
	}
	if total != int64(numRecords) {
		panic(GenError{Message: fmt.Sprintf("merge lost records: %d in, %d out", numRecords, total)})
	}
}

// State returns the current level state for JSON serialization
func (g *Generator) State() map[string]interface{} {
	buckets := make([]map[string]interface{}, g.config.NumBuckets)
	for b := 0; b < g.config.NumBuckets; b++ {
		partitions := make([]map[string]interface{}, 0)
		for _, p := range g.levels.partitions(b) {
			levels := make([]map[string]interface{}, 0)
			for _, level := range g.levels.levelsFor(b, p) {
				names := make([]string, 0, level.FileCount)
				for _, file := range level.Files {
					names = append(names, file.Meta.Name)
				}
				levels = append(levels, map[string]interface{}{
					"level":        level.Number,
					"fileCount":    level.FileCount,
					"totalRecords": level.TotalRecords,
					"files":        names,
				})
			}
			partitions = append(partitions, map[string]interface{}{
				"partition": p.String(),
				"levels":    levels,
			})
		}
		buckets[b] = map[string]interface{}{
			"bucket":     b,
			"partitions": partitions,
		}
	}

	return map[string]interface{}{
		"buckets":        buckets,
		"liveFiles":      g.levels.liveFileCount(),
		"bufferedCount":  g.buffer.Len(),
		"entriesEmitted": g.metrics.EntriesEmitted,
	}
}

func (g *Generator) logEvent(format string, args ...interface{}) {
	if g.LogEvent != nil {
		g.LogEvent(fmt.Sprintf(format, args...))
	}
}
