package generator

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryKindRoundTrip(t *testing.T) {
	for _, kind := range []EntryKind{KindAdd, KindDelete} {
		parsed, err := ParseEntryKind(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}

	_, err := ParseEntryKind("truncate")
	assert.Error(t, err)
}

func TestEntryKindJSON(t *testing.T) {
	data, err := json.Marshal(KindDelete)
	require.NoError(t, err)
	assert.Equal(t, `"delete"`, string(data))

	var kind EntryKind
	require.NoError(t, json.Unmarshal([]byte(`"add"`), &kind))
	assert.Equal(t, KindAdd, kind)

	assert.Error(t, json.Unmarshal([]byte(`"drop"`), &kind))
}

func TestCreateFileMeta(t *testing.T) {
	g, err := NewGenerator(DefaultConfig())
	require.NoError(t, err)

	entries := make([]ManifestEntry, 0, 7)
	partitions := []Partition{
		{Dt: "2022-01-03", Hr: 8},
		{Dt: "2022-01-01", Hr: 14},
		{Dt: "2022-02-11", Hr: 0, HrNull: true},
	}
	for i := 0; i < 5; i++ {
		entries = append(entries, ManifestEntry{Kind: KindAdd, Partition: partitions[i%3]})
	}
	for i := 0; i < 2; i++ {
		entries = append(entries, ManifestEntry{Kind: KindDelete, Partition: partitions[i%3]})
	}

	meta, err := g.CreateFileMeta(entries)
	require.NoError(t, err)

	assert.Equal(t, int64(5), meta.AddedFiles)
	assert.Equal(t, int64(2), meta.DeletedFiles)
	assert.Equal(t, int64(700), meta.Size, "7 entries at the synthetic 100x scale")
	assert.True(t, strings.HasPrefix(meta.ID, "manifest-"), "got id %q", meta.ID)
	assert.Len(t, meta.ID, len("manifest-")+36, "uuid suffix expected")

	require.Len(t, meta.PartitionStats, 2)
	dt := meta.PartitionStats[0]
	assert.Equal(t, "dt", dt.Field)
	assert.Equal(t, "2022-01-01", dt.Min)
	assert.Equal(t, "2022-02-11", dt.Max)
	assert.Equal(t, int64(0), dt.NullCount)

	hr := meta.PartitionStats[1]
	assert.Equal(t, "hr", hr.Field)
	assert.Equal(t, 8, hr.Min)
	assert.Equal(t, 14, hr.Max)
	assert.Equal(t, int64(1), hr.NullCount, "the HrNull partition appears once in the batch")
}

func TestCreateFileMetaEmptyBatch(t *testing.T) {
	g, err := NewGenerator(DefaultConfig())
	require.NoError(t, err)

	_, err = g.CreateFileMeta(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyEntries))

	_, err = g.CreateFileMeta([]ManifestEntry{})
	assert.True(t, errors.Is(err, ErrEmptyEntries))
}

func TestCreateFileMetaUsesConfiguredScale(t *testing.T) {
	config := DefaultConfig()
	config.MetaSizeScale = 7
	g, err := NewGenerator(config)
	require.NoError(t, err)

	meta, err := g.CreateFileMeta([]ManifestEntry{{Kind: KindAdd, Partition: Partition{Dt: "2022-01-01", Hr: 1}}})
	require.NoError(t, err)
	assert.Equal(t, int64(7), meta.Size)
}

func TestCreateFileMetaFreshIdentifiers(t *testing.T) {
	g, err := NewGenerator(DefaultConfig())
	require.NoError(t, err)

	entries := []ManifestEntry{{Kind: KindAdd, Partition: Partition{Dt: "2022-01-01", Hr: 1}}}
	a, err := g.CreateFileMeta(entries)
	require.NoError(t, err)
	b, err := g.CreateFileMeta(entries)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Size, b.Size)
	assert.Equal(t, a.PartitionStats, b.PartitionStats)
}
