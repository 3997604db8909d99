package generator

// GenConfig holds all generator parameters.
// The defaults mirror a small leveled LSM: a handful of buckets, tiny
// memtables, and a level capacity of 3 files so cascades trigger quickly.
type GenConfig struct {
	// Data layout
	NumBuckets    int `json:"numBuckets"`    // Fixed bucket count; bucket ids are [0, NumBuckets)
	NumPartitions int `json:"numPartitions"` // Size of the partition pool the supplier draws from

	// File production
	MemTableCapacity int `json:"memTableCapacity"` // Records per produced file (and per merged output file)

	// Compaction policy
	LevelCapacity int `json:"levelCapacity"` // Max files per level before a merge cascades upward

	// Summary synthesis
	MetaSizeScale int64 `json:"metaSizeScale"` // Synthetic manifest size = MetaSizeScale * entry count

	// Determinism
	RandomSeed int64 `json:"randomSeed"` // Random seed for reproducibility (0 = use time-based seed)
}

// DefaultConfig returns the canonical small-tree configuration.
func DefaultConfig() GenConfig {
	return GenConfig{
		NumBuckets:       3,   // 3 buckets, enough to exercise per-bucket isolation
		NumPartitions:    5,   // small pool so partitions collide and levels fill up
		MemTableCapacity: 3,   // 3 records per file
		LevelCapacity:    3,   // 4th file on a level triggers a merge
		MetaSizeScale:    100, // synthetic size scale, not a real byte count
		RandomSeed:       0,   // 0 = time-based seed
	}
}

// Validate checks if configuration values are reasonable
func (c *GenConfig) Validate() error {
	if c.NumBuckets < 1 {
		return ErrInvalidConfig("numBuckets must be >= 1")
	}
	if c.NumPartitions < 1 {
		return ErrInvalidConfig("numPartitions must be >= 1")
	}
	if c.MemTableCapacity < 1 {
		return ErrInvalidConfig("memTableCapacity must be >= 1")
	}
	if c.LevelCapacity < 1 {
		return ErrInvalidConfig("levelCapacity must be >= 1")
	}
	if c.MetaSizeScale < 1 {
		return ErrInvalidConfig("metaSizeScale must be >= 1")
	}
	return nil
}
