package generator

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// EntryKind represents the kind of a manifest entry
type EntryKind int

const (
	KindAdd    EntryKind = iota // File added to the live set
	KindDelete                  // File removed from the live set
)

// String returns the string representation of EntryKind
func (k EntryKind) String() string {
	switch k {
	case KindAdd:
		return "add"
	case KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// ParseEntryKind parses a string into EntryKind
func ParseEntryKind(s string) (EntryKind, error) {
	switch s {
	case "add":
		return KindAdd, nil
	case "delete":
		return KindDelete, nil
	default:
		return KindAdd, fmt.Errorf("invalid entry kind: %s (must be 'add' or 'delete')", s)
	}
}

// MarshalJSON implements json.Marshaler for EntryKind
func (k EntryKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON implements json.Unmarshaler for EntryKind
func (k *EntryKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseEntryKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ManifestEntry records one file being added to or removed from the live
// state of a storage partition/bucket. Entries are value objects: they
// carry a copy of the file's metadata handle and stay valid after the
// file itself is merged away.
type ManifestEntry struct {
	Kind         EntryKind    `json:"kind"`
	Partition    Partition    `json:"partition"`
	Bucket       int          `json:"bucket"`
	TotalBuckets int          `json:"totalBuckets"`
	File         DataFileMeta `json:"file"`
}

func (e ManifestEntry) String() string {
	return fmt.Sprintf("%s(%s, bucket=%d, file=%s)", e.Kind, e.Partition, e.Bucket, e.File.Name)
}

// ManifestFileMeta summarizes a batch of manifest entries: a synthetic
// identifier, a synthetic size, add/delete tallies and field statistics
// collected over all partition keys observed in the batch.
type ManifestFileMeta struct {
	ID             string       `json:"id"`
	Size           int64        `json:"size"`
	AddedFiles     int64        `json:"addedFiles"`
	DeletedFiles   int64        `json:"deletedFiles"`
	PartitionStats []FieldStats `json:"partitionStats"`
}

// CreateFileMeta aggregates a non-empty batch of manifest entries into a
// single ManifestFileMeta. Aside from the freshly generated identifier
// the result is a pure function of the input batch.
func (g *Generator) CreateFileMeta(entries []ManifestEntry) (ManifestFileMeta, error) {
	if len(entries) == 0 {
		return ManifestFileMeta{}, ErrEmptyEntries
	}

	collector, err := NewFieldStatsCollector()
	if err != nil {
		return ManifestFileMeta{}, err
	}

	var addedFiles, deletedFiles int64
	for _, entry := range entries {
		collector.Collect(entry.Partition)
		if entry.Kind == KindAdd {
			addedFiles++
		} else {
			deletedFiles++
		}
	}

	return ManifestFileMeta{
		ID:             "manifest-" + uuid.NewString(),
		Size:           g.config.MetaSizeScale * int64(len(entries)),
		AddedFiles:     addedFiles,
		DeletedFiles:   deletedFiles,
		PartitionStats: collector.Extract(),
	}, nil
}
