package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func supplierConfig() GenConfig {
	config := DefaultConfig()
	config.RandomSeed = 11
	return config
}

func TestRecordSupplierProducesLevelZeroFiles(t *testing.T) {
	config := supplierConfig()
	s := newRecordSupplier(config)

	for i := 0; i < 50; i++ {
		file := s.ProduceNewFile()
		require.NotNil(t, file)

		assert.Equal(t, 0, file.Meta.Level)
		assert.GreaterOrEqual(t, file.Bucket, 0)
		assert.Less(t, file.Bucket, config.NumBuckets)
		assert.Len(t, file.Content, config.MemTableCapacity)
		assert.Equal(t, int64(config.MemTableCapacity), file.Meta.RecordCount)
		assert.NotEmpty(t, file.Partition.Dt)
	}
}

func TestRecordSupplierSequentialNames(t *testing.T) {
	s := newRecordSupplier(supplierConfig())

	assert.Equal(t, "sst-1", s.ProduceNewFile().Meta.Name)
	assert.Equal(t, "sst-2", s.ProduceNewFile().Meta.Name)
	assert.Equal(t, "sst-3", s.ProduceNewFile().Meta.Name)
}

func TestRecordSupplierSeqBounds(t *testing.T) {
	s := newRecordSupplier(supplierConfig())

	file := s.ProduceNewFile()
	assert.Equal(t, uint64(1), file.Meta.MinSeq)
	assert.Equal(t, uint64(3), file.Meta.MaxSeq)

	file = s.ProduceNewFile()
	assert.Equal(t, uint64(4), file.Meta.MinSeq)
	assert.Equal(t, uint64(6), file.Meta.MaxSeq)
}

func TestRecordSupplierMergeChunking(t *testing.T) {
	s := newRecordSupplier(supplierConfig())
	p := Partition{Dt: "2022-04-04", Hr: 4}

	records := make([]Record, 20)
	for i := range records {
		records[i] = Record{Key: "k", Seq: uint64(i + 1)}
	}

	// Level 1 files hold memTableCapacity * mergeFanout = 12 records
	files := s.MergeIntoLevel(records, 1, p, 2)
	require.Len(t, files, 2)

	var total int64
	for _, file := range files {
		assert.Equal(t, 1, file.Meta.Level)
		assert.Equal(t, p, file.Partition)
		assert.Equal(t, 2, file.Bucket)
		total += file.Meta.RecordCount
	}
	assert.Equal(t, int64(len(records)), total, "merge must conserve records")
	assert.Equal(t, int64(12), files[0].Meta.RecordCount)
	assert.Equal(t, int64(8), files[1].Meta.RecordCount)
}

func TestRecordSupplierMergeEmptyRecords(t *testing.T) {
	s := newRecordSupplier(supplierConfig())
	p := Partition{Dt: "2022-04-04", Hr: 4}

	files := s.MergeIntoLevel(nil, 2, p, 0)
	require.Len(t, files, 1, "merge always returns at least one file")
	assert.Equal(t, int64(0), files[0].Meta.RecordCount)
	assert.Equal(t, 2, files[0].Meta.Level)
}

func TestRecordSupplierDeterminism(t *testing.T) {
	a := newRecordSupplier(supplierConfig())
	b := newRecordSupplier(supplierConfig())

	for i := 0; i < 100; i++ {
		fa, fb := a.ProduceNewFile(), b.ProduceNewFile()
		require.Equal(t, fa.Partition, fb.Partition, "file %d", i)
		require.Equal(t, fa.Bucket, fb.Bucket, "file %d", i)
		require.Equal(t, fa.Meta, fb.Meta, "file %d", i)
		require.Equal(t, fa.Content, fb.Content, "file %d", i)
	}
}

func TestRecordSupplierPartitionPoolSize(t *testing.T) {
	config := supplierConfig()
	s := newRecordSupplier(config)

	seen := make(map[Partition]bool)
	for i := 0; i < 500; i++ {
		seen[s.ProduceNewFile().Partition] = true
	}
	assert.LessOrEqual(t, len(seen), config.NumPartitions, "partitions come from the fixed pool")
}
