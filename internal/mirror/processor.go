package mirror

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/findash/backend/internal/keyvalue"
	"github.com/findash/backend/internal/models"
	"github.com/rs/zerolog/log"
)

const (
	// pollInterval bounds how long a pending entry waits when no mutation
	// pokes the processor.
	pollInterval = 15 * time.Second

	// maxAttempts is the number of mirror attempts before an entry is
	// dead-lettered.
	maxAttempts = 5

	// baseBackoff doubles with every failed attempt.
	baseBackoff = 5 * time.Second

	processBatchSize = 100
)

// Run drains the outbox until the context is cancelled. It wakes on every
// mutation and on a timer for retries.
func (s *Syncer) Run(ctx context.Context) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.notify:
		case <-ticker.C:
		}

		if err := s.ProcessPending(ctx); err != nil {
			log.Error().Err(err).Msg("mirror processing failed")
		}
	}
}

// ProcessPending replays all due outbox entries against the secondary
// store. Entries are replayed in insertion order; when an entry fails, later
// entries for the same record are skipped so that write order per record is
// preserved.
func (s *Syncer) ProcessPending(ctx context.Context) error {
	for {
		var entries []models.MirrorEntry

		err := s.db.WithContext(ctx).
			Where("state = ? AND next_attempt_at <= ?", models.MirrorStatePending, time.Now().In(time.UTC)).
			Order("id ASC").
			Limit(processBatchSize).
			Find(&entries).Error
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			return nil
		}

		blocked := make(map[string]bool)
		for _, entry := range entries {
			key := entry.Table + "/" + entry.RecordID
			if blocked[key] {
				continue
			}

			if err := s.apply(ctx, entry); err != nil {
				blocked[key] = true
				s.recordFailure(ctx, entry, err)
				continue
			}

			err = s.db.WithContext(ctx).Delete(&models.MirrorEntry{}, "id = ?", entry.ID).Error
			if err != nil {
				return err
			}
		}

		if len(entries) < processBatchSize {
			return nil
		}
	}
}

// apply performs a single mirror operation.
//
// For upserts the current primary row is re-read at replay time, never taken
// from the entry: the mirror item therefore always reflects the latest
// committed state. A row that no longer exists satisfies the upsert, since
// the delete that removed it has its own outbox entry.
func (s *Syncer) apply(ctx context.Context, entry models.MirrorEntry) error {
	switch entry.Op {
	case models.MirrorOpDelete:
		return s.store.Delete(ctx, entry.Table, entry.RecordID)
	case models.MirrorOpUpsert:
		item, ok, err := s.itemFor(ctx, entry.Table, entry.RecordID)
		if err != nil {
			return err
		}

		if !ok {
			return nil
		}

		return s.store.Put(ctx, entry.Table, item)
	}

	return fmt.Errorf("unknown mirror operation %q", entry.Op)
}

// itemFor loads the primary row for an outbox entry and encodes it.
func (s *Syncer) itemFor(ctx context.Context, table string, recordID string) (keyvalue.Item, bool, error) {
	db := s.db.WithContext(ctx)

	var (
		item keyvalue.Item
		err  error
	)

	switch table {
	case TableAccounts:
		var account models.Account
		err = db.First(&account, "id = ?", recordID).Error
		item = AccountItem(account)
	case TableCategories:
		var category models.Category
		err = db.First(&category, "id = ?", recordID).Error
		item = CategoryItem(category)
	case TableTransactions:
		var transaction models.Transaction
		err = db.First(&transaction, "id = ?", recordID).Error
		item = TransactionItem(transaction)
	case TableConnectedBanks:
		var bank models.ConnectedBank
		err = db.First(&bank, "id = ?", recordID).Error
		item = ConnectedBankItem(bank)
	case TableSubscriptions:
		var subscription models.Subscription
		err = db.First(&subscription, "id = ?", recordID).Error
		item = SubscriptionItem(subscription)
	default:
		return nil, false, fmt.Errorf("unknown mirror table %q", table)
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, err
	}

	return item, true, nil
}

// recordFailure backs the entry off or dead-letters it after maxAttempts.
// Dead entries keep their last error for inspection and are only touched
// again by a reconciliation sweep.
func (s *Syncer) recordFailure(ctx context.Context, entry models.MirrorEntry, cause error) {
	entry.Attempts++
	entry.LastError = cause.Error()

	if entry.Attempts >= maxAttempts {
		entry.State = models.MirrorStateDead
		log.Error().
			Str("table", entry.Table).
			Str("record", entry.RecordID).
			Str("op", entry.Op).
			Err(cause).
			Msg("mirror entry dead-lettered")
	} else {
		entry.NextAttemptAt = time.Now().In(time.UTC).Add(baseBackoff << (entry.Attempts - 1))
		log.Warn().
			Str("table", entry.Table).
			Str("record", entry.RecordID).
			Int("attempts", entry.Attempts).
			Err(cause).
			Msg("mirror attempt failed")
	}

	err := s.db.WithContext(ctx).Save(&entry).Error
	if err != nil {
		log.Error().Err(err).Msg("failed to persist mirror entry state")
	}
}
