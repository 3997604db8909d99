package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldStatsCollectorEmpty(t *testing.T) {
	c, err := NewFieldStatsCollector()
	require.NoError(t, err)

	stats := c.Extract()
	require.Len(t, stats, 2)

	for _, s := range stats {
		assert.Nil(t, s.Min)
		assert.Nil(t, s.Max)
		assert.Equal(t, int64(0), s.NullCount)
	}
	assert.Nil(t, stats[1].Median)
}

func TestFieldStatsCollectorBounds(t *testing.T) {
	c, err := NewFieldStatsCollector()
	require.NoError(t, err)

	c.Collect(Partition{Dt: "2022-05-01", Hr: 12})
	c.Collect(Partition{Dt: "2022-01-15", Hr: 23})
	c.Collect(Partition{Dt: "2022-11-30", Hr: 2})

	stats := c.Extract()
	dt, hr := stats[0], stats[1]

	assert.Equal(t, "dt", dt.Field)
	assert.Equal(t, "2022-01-15", dt.Min)
	assert.Equal(t, "2022-11-30", dt.Max)

	assert.Equal(t, "hr", hr.Field)
	assert.Equal(t, 2, hr.Min)
	assert.Equal(t, 23, hr.Max)
	require.NotNil(t, hr.Median)
	assert.InDelta(t, 12.0, *hr.Median, 0.5, "median of {2, 12, 23}")
}

func TestFieldStatsCollectorNullCounts(t *testing.T) {
	c, err := NewFieldStatsCollector()
	require.NoError(t, err)

	c.Collect(Partition{Dt: "2022-05-01", Hr: 0, HrNull: true})
	c.Collect(Partition{Dt: "", Hr: 7})
	c.Collect(Partition{Dt: "2022-05-02", Hr: 9})

	stats := c.Extract()
	dt, hr := stats[0], stats[1]

	assert.Equal(t, int64(1), dt.NullCount)
	assert.Equal(t, int64(1), hr.NullCount)

	// Null hours must not contribute to the bounds
	assert.Equal(t, 7, hr.Min)
	assert.Equal(t, 9, hr.Max)
	assert.Equal(t, "2022-05-01", dt.Min)
	assert.Equal(t, "2022-05-02", dt.Max)
}
