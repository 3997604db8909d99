package generator

import (
	"fmt"
	"math/rand"
)

// FileSupplier is the raw-file collaborator the generator drives.
//
// ProduceNewFile must return a level-0 file with a bucket id in
// [0, numBuckets). MergeIntoLevel must return a non-empty set of files
// tagged with exactly the requested level, partition and bucket that
// collectively carry all of the input records.
type FileSupplier interface {
	ProduceNewFile() *DataFile
	MergeIntoLevel(records []Record, level int, partition Partition, bucket int) []*DataFile
}

// mergeFanout scales how many records fit in one merged file per level.
// Deeper levels must hold strictly more records per file than the levels
// feeding them, otherwise a merge could re-overflow its target level and
// the cascade would never settle.
const mergeFanout = 4

// recordSupplier is the default FileSupplier: a seeded random source of
// small files over a fixed partition pool. With a non-zero seed its
// output sequence is fully reproducible.
type recordSupplier struct {
	numBuckets       int
	memTableCapacity int
	partitions       []Partition
	rng              *rand.Rand

	nextFileID int64
	nextSeq    uint64
	nextKey    int64
}

func newRecordSupplier(config GenConfig) *recordSupplier {
	var rng *rand.Rand
	if config.RandomSeed == 0 {
		rng = rand.New(rand.NewSource(rand.Int63()))
	} else {
		rng = rand.New(rand.NewSource(config.RandomSeed))
	}

	// Fixed partition pool, drawn up-front so the pool itself is part of
	// the deterministic output for a given seed.
	partitions := make([]Partition, config.NumPartitions)
	for i := range partitions {
		p := Partition{
			Dt: fmt.Sprintf("2022-%02d-%02d", 1+rng.Intn(12), 1+rng.Intn(28)),
			Hr: rng.Intn(24),
		}
		if rng.Intn(10) == 0 {
			p.Hr = 0
			p.HrNull = true
		}
		partitions[i] = p
	}

	return &recordSupplier{
		numBuckets:       config.NumBuckets,
		memTableCapacity: config.MemTableCapacity,
		partitions:       partitions,
		rng:              rng,
		nextFileID:       1,
		nextSeq:          1,
		nextKey:          1,
	}
}

// ProduceNewFile creates one new level-0 file with memTableCapacity records
func (s *recordSupplier) ProduceNewFile() *DataFile {
	partition := s.partitions[s.rng.Intn(len(s.partitions))]
	bucket := s.rng.Intn(s.numBuckets)

	records := make([]Record, s.memTableCapacity)
	for i := range records {
		records[i] = s.newRecord()
	}

	return s.buildFile(records, 0, partition, bucket)
}

// MergeIntoLevel packs the given records into files tagged with the
// target level, memTableCapacity*mergeFanout^level records per file.
// At least one file is returned even for an empty record set.
func (s *recordSupplier) MergeIntoLevel(records []Record, level int, partition Partition, bucket int) []*DataFile {
	perFile := s.memTableCapacity
	for i := 0; i < level; i++ {
		perFile *= mergeFanout
	}

	files := make([]*DataFile, 0, len(records)/perFile+1)
	for start := 0; start < len(records) || len(files) == 0; start += perFile {
		end := start + perFile
		if end > len(records) {
			end = len(records)
		}
		chunk := make([]Record, end-start)
		copy(chunk, records[start:end])
		files = append(files, s.buildFile(chunk, level, partition, bucket))
	}
	return files
}

func (s *recordSupplier) newRecord() Record {
	rec := Record{
		Key:   fmt.Sprintf("key-%06d", s.nextKey),
		Seq:   s.nextSeq,
		Value: fmt.Sprintf("value-%d", s.rng.Int63()),
	}
	s.nextKey++
	s.nextSeq++
	return rec
}

func (s *recordSupplier) buildFile(records []Record, level int, partition Partition, bucket int) *DataFile {
	var minSeq, maxSeq uint64
	var sizeBytes int64
	for i, rec := range records {
		if i == 0 || rec.Seq < minSeq {
			minSeq = rec.Seq
		}
		if rec.Seq > maxSeq {
			maxSeq = rec.Seq
		}
		sizeBytes += int64(len(rec.Key) + len(rec.Value) + 8)
	}

	file := &DataFile{
		Partition: partition,
		Bucket:    bucket,
		Meta: DataFileMeta{
			Name:        fmt.Sprintf("sst-%d", s.nextFileID),
			Level:       level,
			RecordCount: int64(len(records)),
			SizeBytes:   sizeBytes,
			MinSeq:      minSeq,
			MaxSeq:      maxSeq,
		},
		Content: records,
	}
	s.nextFileID++
	return file
}
