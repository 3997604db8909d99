package generator

import "sort"

// levelTable tracks the live file set: per bucket, a mapping from
// partition to that partition's ordered levels. Partitions appear lazily
// on their first file; intermediate empty levels are created on demand so
// that a file can always be inserted at its tagged level.
type levelTable struct {
	buckets []map[Partition][]*Level
}

func newLevelTable(numBuckets int) *levelTable {
	buckets := make([]map[Partition][]*Level, numBuckets)
	for i := range buckets {
		buckets[i] = make(map[Partition][]*Level)
	}
	return &levelTable{buckets: buckets}
}

// recordNewFile inserts file into its (bucket, partition) level list at
// the level carried by its metadata, creating the partition's level list
// and any missing lower levels along the way.
func (lt *levelTable) recordNewFile(file *DataFile) {
	lt.ensureLevel(file.Bucket, file.Partition, file.Meta.Level)
	lt.level(file.Bucket, file.Partition, file.Meta.Level).AddFile(file)
}

// ensureLevel grows the partition's level list until index n exists
func (lt *levelTable) ensureLevel(bucket int, partition Partition, n int) {
	levels := lt.buckets[bucket][partition]
	for len(levels) <= n {
		levels = append(levels, NewLevel(len(levels)))
	}
	lt.buckets[bucket][partition] = levels
}

// level returns level n for a known (bucket, partition) pair.
// Callers must have established the level via recordNewFile or ensureLevel.
func (lt *levelTable) level(bucket int, partition Partition, n int) *Level {
	return lt.buckets[bucket][partition][n]
}

// levelsFor returns the ordered level list for a known (bucket, partition) pair
func (lt *levelTable) levelsFor(bucket int, partition Partition) []*Level {
	return lt.buckets[bucket][partition]
}

// partitions returns the known partitions of a bucket, sorted so that
// state snapshots are stable across runs.
func (lt *levelTable) partitions(bucket int) []Partition {
	ps := make([]Partition, 0, len(lt.buckets[bucket]))
	for p := range lt.buckets[bucket] {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].String() < ps[j].String() })
	return ps
}

// liveFileCount returns the total number of live files across all
// buckets, partitions and levels.
func (lt *levelTable) liveFileCount() int {
	count := 0
	for _, bucket := range lt.buckets {
		for _, levels := range bucket {
			for _, level := range levels {
				count += level.FileCount
			}
		}
	}
	return count
}
