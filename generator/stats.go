package generator

import (
	"fmt"

	"github.com/caio/go-tdigest/v4"
)

// FieldStats holds aggregated statistics for one partition field:
// min/max bounds, a null count, and for numeric fields a median taken
// from a t-digest sketch.
type FieldStats struct {
	Field     string      `json:"field"`
	Min       interface{} `json:"min,omitempty"`
	Max       interface{} `json:"max,omitempty"`
	NullCount int64       `json:"nullCount"`
	Median    *float64    `json:"median,omitempty"`
}

// FieldStatsCollector accumulates statistics over the partition schema
// (dt: string, hr: nullable int), one Collect call per observed partition.
type FieldStatsCollector struct {
	dtSeen   bool
	dtMin    string
	dtMax    string
	dtNulls  int64
	hrSeen   bool
	hrMin    int
	hrMax    int
	hrNulls  int64
	hrDigest *tdigest.TDigest
}

// NewFieldStatsCollector creates an empty collector
func NewFieldStatsCollector() (*FieldStatsCollector, error) {
	td, err := tdigest.New()
	if err != nil {
		return nil, fmt.Errorf("tdigest.New failed: %w", err)
	}
	return &FieldStatsCollector{hrDigest: td}, nil
}

// Collect folds one partition key into the running statistics
func (c *FieldStatsCollector) Collect(p Partition) {
	if p.Dt == "" {
		c.dtNulls++
	} else {
		if !c.dtSeen || p.Dt < c.dtMin {
			c.dtMin = p.Dt
		}
		if !c.dtSeen || p.Dt > c.dtMax {
			c.dtMax = p.Dt
		}
		c.dtSeen = true
	}

	if p.HrNull {
		c.hrNulls++
		return
	}
	if !c.hrSeen || p.Hr < c.hrMin {
		c.hrMin = p.Hr
	}
	if !c.hrSeen || p.Hr > c.hrMax {
		c.hrMax = p.Hr
	}
	c.hrSeen = true
	// Add cannot fail for finite inputs with weight 1
	_ = c.hrDigest.Add(float64(p.Hr))
}

// Extract returns the collected statistics, one FieldStats per partition
// field in schema order.
func (c *FieldStatsCollector) Extract() []FieldStats {
	dt := FieldStats{Field: "dt", NullCount: c.dtNulls}
	if c.dtSeen {
		dt.Min = c.dtMin
		dt.Max = c.dtMax
	}

	hr := FieldStats{Field: "hr", NullCount: c.hrNulls}
	if c.hrSeen {
		hr.Min = c.hrMin
		hr.Max = c.hrMax
		median := c.hrDigest.Quantile(0.5)
		hr.Median = &median
	}

	return []FieldStats{dt, hr}
}
