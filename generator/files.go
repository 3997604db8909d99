package generator

import "fmt"

// Record is one logical key-value record carried by a data file.
// Records are opaque to the generator: cascades move them between files
// without inspecting them, which is what makes the conservation law checkable.
type Record struct {
	Key   string `json:"key"`
	Seq   uint64 `json:"seq"`
	Value string `json:"value"`
}

// Partition identifies one partition of a bucket's data. It mirrors a
// typical (date, hour) table partitioning scheme. The zero hour is
// distinguishable from a null hour via HrNull.
type Partition struct {
	Dt     string `json:"dt"`
	Hr     int    `json:"hr"`
	HrNull bool   `json:"hrNull,omitempty"`
}

func (p Partition) String() string {
	if p.HrNull {
		return fmt.Sprintf("dt=%s/hr=null", p.Dt)
	}
	return fmt.Sprintf("dt=%s/hr=%d", p.Dt, p.Hr)
}

// DataFileMeta is the metadata handle attached to a data file. It is what
// manifest entries carry; the generator forwards it without interpreting
// anything beyond Level.
type DataFileMeta struct {
	Name        string `json:"name"`
	Level       int    `json:"level"`
	RecordCount int64  `json:"recordCount"`
	SizeBytes   int64  `json:"sizeBytes"`
	MinSeq      uint64 `json:"minSeq"`
	MaxSeq      uint64 `json:"maxSeq"`
}

// DataFile represents a single immutable data file in the simulated tree.
// Files are created by the supplier (level 0) or by a merge (level >= 1)
// and are never mutated afterwards.
type DataFile struct {
	Partition Partition    `json:"partition"`
	Bucket    int          `json:"bucket"`
	Meta      DataFileMeta `json:"meta"`
	Content   []Record     `json:"content"`
}

// Level represents one level of the tree for a (bucket, partition) pair
type Level struct {
	Number       int         `json:"level"`
	Files        []*DataFile `json:"files"`
	FileCount    int         `json:"fileCount"`
	TotalRecords int64       `json:"totalRecords"`
}

// NewLevel creates a new empty level
func NewLevel(number int) *Level {
	return &Level{
		Number:       number,
		Files:        make([]*DataFile, 0),
		FileCount:    0,
		TotalRecords: 0,
	}
}

// AddFile adds a file to the level
func (l *Level) AddFile(file *DataFile) {
	l.Files = append(l.Files, file)
	l.FileCount++
	l.TotalRecords += file.Meta.RecordCount
}

// Clear removes all files from the level
func (l *Level) Clear() {
	l.Files = l.Files[:0]
	l.FileCount = 0
	l.TotalRecords = 0
}
