package domain

import "time"

// SnapshotMeta describes a stored snapshot without its payload.
type SnapshotMeta struct {
	SnapshotID  string
	ComponentID string
	Timestamp   time.Time
	Size        int
}
