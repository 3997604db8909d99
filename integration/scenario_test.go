package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manifestgen/generator"
)

func TestRunScenarioDefault(t *testing.T) {
	result, err := RunScenario(DefaultScenario())
	require.NoError(t, err)

	assert.Empty(t, result.Violations)
	assert.GreaterOrEqual(t, len(result.Entries), 200)
	assert.NotEmpty(t, result.Metas)

	// Batches of 20 at the 100x scale, except possibly the last
	for _, meta := range result.Metas[:len(result.Metas)-1] {
		assert.Equal(t, int64(2000), meta.Size)
	}

	assert.Greater(t, result.Metrics.MergesPerformed, int64(0), "200 entries over a tiny tree must include merges")
}

// A single-bucket, single-partition run cascades constantly, so every
// merge step drains its DELETE entries before the merged-file ADDs.
// The consistency check must accept that ordering as valid.
func TestRunScenarioAcceptsCascadeDrainOrder(t *testing.T) {
	s := DefaultScenario()
	s.Name = "cascade-only"
	s.NumBuckets = 1
	s.NumPartitions = 1
	s.Seed = 5
	s.Entries = 250

	result, err := RunScenario(s)
	require.NoError(t, err)

	// Confirm the stream really does contain a DELETE draining ahead
	// of the matching ADD, then confirm the checker is fine with it.
	deletedBeforeAdded := false
	added := make(map[string]bool)
	for _, entry := range result.Entries {
		if entry.Kind == generator.KindDelete && !added[entry.File.Name] {
			deletedBeforeAdded = true
		}
		if entry.Kind == generator.KindAdd {
			added[entry.File.Name] = true
		}
	}
	require.True(t, deletedBeforeAdded, "expected cascades to reorder DELETEs ahead of ADDs in drain order")
	assert.Empty(t, result.Violations)
	assert.Greater(t, result.Metrics.Cascades, int64(0))
}

func TestRunScenarioReproducible(t *testing.T) {
	s := DefaultScenario()
	s.Entries = 120

	a, err := RunScenario(s)
	require.NoError(t, err)
	b, err := RunScenario(s)
	require.NoError(t, err)

	require.Equal(t, a.Entries, b.Entries, "same scenario must yield the same stream")
	assert.Equal(t, a.Metrics, b.Metrics)
}

func TestRunScenarioValidation(t *testing.T) {
	s := DefaultScenario()
	s.Entries = 0
	_, err := RunScenario(s)
	assert.Error(t, err)

	s = DefaultScenario()
	s.BatchSize = 0
	_, err = RunScenario(s)
	assert.Error(t, err)

	s = DefaultScenario()
	s.NumBuckets = -1
	_, err = RunScenario(s)
	assert.Error(t, err)
}

func TestLoadScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	contents := `name: cascade-heavy
seed: 42
num_buckets: 2
num_partitions: 1
memtable_capacity: 3
level_capacity: 3
entries: 300
batch_size: 50
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "cascade-heavy", s.Name)
	assert.Equal(t, int64(42), s.Seed)
	assert.Equal(t, 2, s.NumBuckets)
	assert.Equal(t, 1, s.NumPartitions)
	assert.Equal(t, 300, s.Entries)

	config := s.Config()
	assert.Equal(t, generator.GenConfig{
		NumBuckets:       2,
		NumPartitions:    1,
		MemTableCapacity: 3,
		LevelCapacity:    3,
		MetaSizeScale:    100,
		RandomSeed:       42,
	}, config)
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	assert.Error(t, err)
}
