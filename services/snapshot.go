package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"inventindia-system/models"
)

// SnapshotSchemaVersion is bumped whenever the export layout changes shape.
// Readers refuse snapshots written under a different version instead of
// guessing at the blob's structure.
const SnapshotSchemaVersion = 1

// ErrCorruptSnapshot marks a snapshot that failed structural validation:
// malformed JSON, a missing version marker, or a version this build does not
// understand.
var ErrCorruptSnapshot = errors.New("corrupt or incompatible snapshot")

// UserWithProgress pairs an identity with its full play history for export.
type UserWithProgress struct {
	User     models.User         `json:"user"`
	Progress models.UserProgress `json:"progress"`
}

// Snapshot is the export artifact: the computed stats plus the user list,
// stamped with the schema version and export time.
type Snapshot struct {
	SchemaVersion int                `json:"schema_version"`
	Stats         AdminStats         `json:"stats"`
	Users         []UserWithProgress `json:"users"`
	ExportDate    time.Time          `json:"export_date"`
}

// EncodeSnapshot serializes the snapshot as indented JSON, the format the
// download endpoint serves.
func EncodeSnapshot(s *Snapshot) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// DecodeSnapshot parses and validates an exported snapshot. Anything that
// does not carry the expected schema version comes back as
// ErrCorruptSnapshot rather than an unstructured unmarshal failure.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if s.SchemaVersion != SnapshotSchemaVersion {
		return nil, fmt.Errorf("%w: schema version %d, expected %d",
			ErrCorruptSnapshot, s.SchemaVersion, SnapshotSchemaVersion)
	}
	return &s, nil
}

// SnapshotFilename names the export download, e.g.
// "inventindia-data-2026-09-01.json".
func SnapshotFilename(at time.Time) string {
	return fmt.Sprintf("inventindia-data-%s.json", at.Format("2006-01-02"))
}
