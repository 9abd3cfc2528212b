// Package mirror keeps the secondary key-value store in sync with the
// primary relational store.
//
// Every mutation goes through a Syncer, which writes the primary row and an
// outbox entry in one database transaction. A background processor replays
// outbox entries against the secondary store with retries, so secondary
// store unavailability never blocks a mutation and never turns a committed
// primary write into an error response.
package mirror

import (
	"time"

	"github.com/findash/backend/internal/keyvalue"
	"github.com/findash/backend/internal/models"
	"gorm.io/gorm"
)

// Syncer orchestrates dual writes: primary store first, then the mirror via
// the outbox. The primary store is the source of truth throughout.
type Syncer struct {
	db     *gorm.DB
	store  keyvalue.Store
	notify chan struct{}
}

// New returns a Syncer. The store client is constructed once at startup and
// shared; the Syncer holds it as an immutable handle.
func New(db *gorm.DB, store keyvalue.Store) *Syncer {
	return &Syncer{
		db:     db,
		store:  store,
		notify: make(chan struct{}, 1),
	}
}

// enqueue records a mirror operation in the outbox. It must run inside the
// same transaction as the primary mutation it mirrors.
func enqueue(tx *gorm.DB, table string, recordID string, op string) error {
	return tx.Create(&models.MirrorEntry{
		Table:         table,
		RecordID:      recordID,
		Op:            op,
		State:         models.MirrorStatePending,
		NextAttemptAt: time.Now().In(time.UTC),
	}).Error
}

// poke wakes the background processor without blocking the request.
func (s *Syncer) poke() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}
