// Package enriched stores manually enriched transactions.
//
// Enriched transactions live exclusively in the secondary store. They have
// no relational backing: ids are caller-supplied and are not foreign keys,
// even when they coincide with transaction ids.
package enriched

import (
	"context"
	"strconv"

	"github.com/findash/backend/internal/keyvalue"
)

// Table is the secondary store table holding enriched transactions.
const Table = "enriched_transactions"

// Transaction is an enriched transaction: the base transaction fields plus
// the five free-text enrichment fields.
type Transaction struct {
	ID         string `json:"id"`
	Amount     int64  `json:"amount"`
	Payee      string `json:"payee"`
	Notes      string `json:"notes"`
	Date       string `json:"date"`
	AccountID  string `json:"accountId"`
	CategoryID string `json:"categoryId"`
	CategoryB  string `json:"categoryB"`
	Essential  string `json:"essential"`
	Rop        string `json:"rop"`
	Purpose    string `json:"purpose"`
	Timing     string `json:"timing"`
}

// Store provides CRUD over enriched transactions. Every item carries an
// ownerId attribute and listing is owner-scoped.
type Store struct {
	kv keyvalue.Store
}

func NewStore(kv keyvalue.Store) *Store {
	return &Store{kv: kv}
}

// item encodes an enriched transaction.
//
// The attribute encoding of absent optional fields is inconsistent on
// purpose: notes, categoryId and rop encode absence as an explicit null
// marker while categoryB, essential, purpose and timing encode it as an
// empty string. Readers of the table depend on the per-field convention, so
// it is preserved rather than unified.
func item(t Transaction, ownerID string) keyvalue.Item {
	out := keyvalue.Item{
		"id":        keyvalue.S(t.ID),
		"amount":    keyvalue.N(t.Amount),
		"date":      keyvalue.S(t.Date),
		"accountId": keyvalue.S(t.AccountID),
		"ownerId":   keyvalue.S(ownerID),
		"categoryB": keyvalue.S(t.CategoryB),
		"essential": keyvalue.S(t.Essential),
		"purpose":   keyvalue.S(t.Purpose),
		"timing":    keyvalue.S(t.Timing),
	}

	if t.Payee != "" {
		out["payee"] = keyvalue.S(t.Payee)
	} else {
		out["payee"] = keyvalue.Null()
	}

	if t.Notes != "" {
		out["notes"] = keyvalue.S(t.Notes)
	} else {
		out["notes"] = keyvalue.Null()
	}

	if t.CategoryID != "" {
		out["categoryId"] = keyvalue.S(t.CategoryID)
	} else {
		out["categoryId"] = keyvalue.Null()
	}

	if t.Rop != "" {
		out["rop"] = keyvalue.S(t.Rop)
	} else {
		out["rop"] = keyvalue.Null()
	}

	return out
}

// fromItem decodes an enriched transaction. Absent attributes decode to
// zero values. The amount attribute is parsed as a float for tolerance of
// historic fractional writes, then truncated to integer miliunits.
func fromItem(it keyvalue.Item) Transaction {
	t := Transaction{
		ID: keyvalue.ID(it),
	}

	if raw, ok := keyvalue.NumberAttr(it, "amount"); ok {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			t.Amount = int64(f)
		}
	}

	t.Payee, _ = keyvalue.StringAttr(it, "payee")
	t.Notes, _ = keyvalue.StringAttr(it, "notes")
	t.Date, _ = keyvalue.StringAttr(it, "date")
	t.AccountID, _ = keyvalue.StringAttr(it, "accountId")
	t.CategoryID, _ = keyvalue.StringAttr(it, "categoryId")
	t.CategoryB, _ = keyvalue.StringAttr(it, "categoryB")
	t.Essential, _ = keyvalue.StringAttr(it, "essential")
	t.Rop, _ = keyvalue.StringAttr(it, "rop")
	t.Purpose, _ = keyvalue.StringAttr(it, "purpose")
	t.Timing, _ = keyvalue.StringAttr(it, "timing")

	return t
}

// List returns every enriched transaction of the owner. The scan is
// unpaginated; cost is linear in the total record count.
func (s *Store) List(ctx context.Context, ownerID string) ([]Transaction, error) {
	items, err := s.kv.Scan(ctx, Table)
	if err != nil {
		return nil, err
	}

	// When there are no resources, we want an empty list, not null
	transactions := make([]Transaction, 0, len(items))
	for _, it := range items {
		owner, _ := keyvalue.StringAttr(it, "ownerId")
		if owner != ownerID {
			continue
		}

		transactions = append(transactions, fromItem(it))
	}

	return transactions, nil
}

// Create upserts every record unconditionally and stamps it with the owner.
// Unlike the transaction bulk upload, there is no existence check: an
// overwrite still reports "inserted".
func (s *Store) Create(ctx context.Context, ownerID string, transactions []Transaction) error {
	for _, t := range transactions {
		if err := s.kv.Put(ctx, Table, item(t, ownerID)); err != nil {
			return err
		}
	}

	return nil
}

// BulkDelete removes the caller's records for the given ids. There is no
// existence check and every requested id is reported as deleted, but records
// that belong to another owner are left untouched.
func (s *Store) BulkDelete(ctx context.Context, ownerID string, ids []string) ([]string, error) {
	deleted := make([]string, 0, len(ids))
	for _, id := range ids {
		it, found, err := s.kv.Get(ctx, Table, id)
		if err != nil {
			return deleted, err
		}

		if found {
			owner, _ := keyvalue.StringAttr(it, "ownerId")
			if owner != ownerID {
				deleted = append(deleted, id)
				continue
			}
		}

		if err := s.kv.Delete(ctx, Table, id); err != nil {
			return deleted, err
		}

		deleted = append(deleted, id)
	}

	return deleted, nil
}
