package models

import (
	"time"
)

// Mirror operations.
const (
	MirrorOpUpsert = "upsert"
	MirrorOpDelete = "delete"
)

// Mirror entry states. Entries that were mirrored successfully are removed,
// so only pending and dead entries exist in the table.
const (
	MirrorStatePending = "pending"
	MirrorStateDead    = "dead"
)

// MirrorEntry is one outbox row for the secondary store mirror.
//
// Entries are written in the same database transaction as the primary
// mutation they mirror, so an entry exists if and only if the primary write
// committed. The auto-incrementing ID preserves write order for replay.
//
// MirrorEntry intentionally does not use DefaultModel: replay order needs a
// monotonic integer key, not a UUID.
type MirrorEntry struct {
	ID            uint `gorm:"primarykey"`
	CreatedAt     time.Time
	Table         string `gorm:"column:table_name;index"`
	RecordID      string `gorm:"index"`
	Op            string
	Attempts      int
	State         string `gorm:"index;default:pending"`
	LastError     string
	NextAttemptAt time.Time
}
