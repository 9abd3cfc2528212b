package mirror

import (
	"context"

	"github.com/findash/backend/internal/keyvalue"
	"github.com/rs/zerolog/log"
)

// TableCounts reports the outcome of reconciling one table.
type TableCounts struct {
	Checked  int `json:"checked"`  // Primary rows compared
	Repaired int `json:"repaired"` // Items written because they were missing or stale
	Removed  int `json:"removed"`  // Orphaned items deleted from the secondary store
}

// Report maps table names to their reconciliation outcome.
type Report map[string]TableCounts

// Reconcile diffs every mirrored table against the primary store and
// repairs the secondary store: missing or stale items are rewritten,
// orphans are removed.
//
// The sweep is the recovery path for dead-lettered outbox entries and for
// writes that bypassed the Syncer, such as the importer's bulk inserts. It
// does not touch the enriched transactions table, which has no primary
// backing to reconcile against.
func (s *Syncer) Reconcile(ctx context.Context) (Report, error) {
	report := make(Report)

	tables := []struct {
		name string
		load func() (map[string]keyvalue.Item, error)
	}{
		{TableAccounts, func() (map[string]keyvalue.Item, error) {
			return loadRows(ctx, s, AccountItem)
		}},
		{TableCategories, func() (map[string]keyvalue.Item, error) {
			return loadRows(ctx, s, CategoryItem)
		}},
		{TableTransactions, func() (map[string]keyvalue.Item, error) {
			return loadRows(ctx, s, TransactionItem)
		}},
		{TableConnectedBanks, func() (map[string]keyvalue.Item, error) {
			return loadRows(ctx, s, ConnectedBankItem)
		}},
		{TableSubscriptions, func() (map[string]keyvalue.Item, error) {
			return loadRows(ctx, s, SubscriptionItem)
		}},
	}

	for _, table := range tables {
		want, err := table.load()
		if err != nil {
			return nil, err
		}

		counts, err := s.reconcileTable(ctx, table.name, want)
		if err != nil {
			return nil, err
		}

		report[table.name] = counts
	}

	return report, nil
}

// loadRows loads all primary rows of one model and encodes them into the
// items the secondary store is expected to hold.
func loadRows[T any](ctx context.Context, s *Syncer, encode func(T) keyvalue.Item) (map[string]keyvalue.Item, error) {
	var rows []T
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}

	want := make(map[string]keyvalue.Item, len(rows))
	for _, row := range rows {
		item := encode(row)
		want[keyvalue.ID(item)] = item
	}

	return want, nil
}

func (s *Syncer) reconcileTable(ctx context.Context, table string, want map[string]keyvalue.Item) (TableCounts, error) {
	counts := TableCounts{Checked: len(want)}

	items, err := s.store.Scan(ctx, table)
	if err != nil {
		return counts, err
	}

	have := make(map[string]keyvalue.Item, len(items))
	for _, item := range items {
		have[keyvalue.ID(item)] = item
	}

	for id, item := range want {
		if existing, ok := have[id]; ok && keyvalue.Equal(existing, item) {
			continue
		}

		if err := s.store.Put(ctx, table, item); err != nil {
			return counts, err
		}
		counts.Repaired++
	}

	for id := range have {
		if _, ok := want[id]; ok {
			continue
		}

		if err := s.store.Delete(ctx, table, id); err != nil {
			return counts, err
		}
		counts.Removed++
	}

	if counts.Repaired > 0 || counts.Removed > 0 {
		log.Info().
			Str("table", table).
			Int("repaired", counts.Repaired).
			Int("removed", counts.Removed).
			Msg("reconciled mirror table")
	}

	return counts, nil
}
