// Package repository holds the authoritative in-memory transaction list,
// synchronized to the persistent store on every mutation by rewriting the
// whole "transactions" key.
package repository

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"walletwiz/internal/logger"
	"walletwiz/internal/models"
	"walletwiz/internal/store"
)

// Input carries the fields of an add or edit request. Nil (or empty, for
// Date) fields are treated as absent: Add coerces them to defaults, Edit
// falls back to the existing record's values. Description is the legacy
// field name the original form used interchangeably with Notes.
type Input struct {
	Amount      *float64
	Type        *models.TransactionType
	Category    *string
	Date        string
	Notes       *string
	Description *string
}

// Repository is the ordered transaction list for the active session,
// newest-first by insertion.
type Repository struct {
	mu           sync.Mutex
	store        store.Store
	log          *zap.SugaredLogger
	transactions []models.Transaction
	lastID       int64
	now          func() time.Time
}

// New seeds a repository from the store. Missing or malformed persisted data
// yields an empty list rather than an error.
func New(s store.Store) *Repository {
	r := &Repository{
		store:        s,
		log:          logger.Named("repository"),
		now:          time.Now,
		transactions: []models.Transaction{},
	}

	raw, ok, err := s.Get(store.KeyTransactions)
	if err != nil {
		r.log.Errorw("failed to read transactions from store", "error", err)
		return r
	}
	if !ok {
		return r
	}

	var transactions []models.Transaction
	if err := json.Unmarshal([]byte(raw), &transactions); err != nil {
		r.log.Warnw("malformed transactions in store, starting empty", "error", err)
		return r
	}

	if transactions != nil {
		r.transactions = transactions
	}
	for _, t := range transactions {
		if t.ID > r.lastID {
			r.lastID = t.ID
		}
	}
	return r
}

// All returns a copy of the current snapshot.
func (r *Repository) All() []models.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Transaction, len(r.transactions))
	copy(out, r.transactions)
	return out
}

// Get returns the record with the given id, if any.
func (r *Repository) Get(id int64) (models.Transaction, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.transactions {
		if t.ID == id {
			return t, true
		}
	}
	return models.Transaction{}, false
}

// Add constructs a record from input and prepends it to the list. Malformed
// input is coerced, not rejected; Add never fails.
func (r *Repository) Add(input Input) models.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()

	record := r.normalize(input, nil)
	record.ID = r.nextID()

	r.transactions = append([]models.Transaction{record}, r.transactions...)
	r.persist()
	return record
}

// Edit merges input over the record with the given id, falling back to the
// existing values for absent fields. Unknown ids leave the list unchanged;
// the second return value reports whether a record matched.
func (r *Repository) Edit(id int64, input Input) (models.Transaction, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, t := range r.transactions {
		if t.ID == id {
			updated := r.normalize(input, &t)
			updated.ID = t.ID
			r.transactions[i] = updated
			r.persist()
			return updated, true
		}
	}
	return models.Transaction{}, false
}

// Remove filters out the record with the given id. No-op when absent.
func (r *Repository) Remove(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, t := range r.transactions {
		if t.ID == id {
			r.transactions = append(r.transactions[:i], r.transactions[i+1:]...)
			r.persist()
			return true
		}
	}
	return false
}

// nextID returns the current timestamp in Unix milliseconds, bumped past the
// last assigned id so that ids stay unique within the list even when two
// records are created in the same millisecond.
func (r *Repository) nextID() int64 {
	id := r.now().UnixMilli()
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id
	return id
}

// normalize applies the shared coercion rules for Add and Edit. When
// existing is nil, absent fields get creation defaults; otherwise they fall
// back to the existing record's values.
func (r *Repository) normalize(in Input, existing *models.Transaction) models.Transaction {
	var out models.Transaction
	if existing != nil {
		out = *existing
	}

	if in.Type != nil {
		out.Type = models.TransactionType(strings.ToLower(strings.TrimSpace(string(*in.Type))))
	}
	if in.Category != nil {
		out.Category = strings.ToLower(strings.TrimSpace(*in.Category))
	}

	// Amount: zero or absent falls back to the existing value, then to 0.
	if in.Amount != nil && *in.Amount != 0 {
		out.Amount = models.Amount(*in.Amount)
	} else if existing == nil {
		out.Amount = 0
	}

	// Date: normalized to YYYY-MM-DD; absent means today on create, the
	// existing date on edit.
	if d := normalizeDate(in.Date); d != "" {
		out.Date = d
	} else if existing == nil {
		out.Date = r.now().Format(models.DateLayout)
	}

	// Notes falls back to the legacy description field, then to the
	// existing notes, then to empty.
	switch {
	case in.Notes != nil:
		out.Notes = *in.Notes
	case in.Description != nil:
		out.Notes = *in.Description
	}

	return out
}

// normalizeDate reduces a provided date string to YYYY-MM-DD. Timestamps are
// truncated to their date part; anything else is stored as given (the store
// does not reject malformed records). Empty input returns "".
func normalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if _, err := time.Parse(models.DateLayout, raw); err == nil {
		return raw
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.UTC().Format(models.DateLayout)
	}
	return raw
}

// persist rewrites the full list under the transactions key. There is no
// rollback path: a failed write leaves the in-memory list ahead of the
// store, so the failure is logged rather than surfaced.
func (r *Repository) persist() {
	data, err := json.Marshal(r.transactions)
	if err != nil {
		r.log.Errorw("failed to encode transactions", "error", err)
		return
	}
	if err := r.store.Set(store.KeyTransactions, string(data)); err != nil {
		r.log.Errorw("failed to persist transactions", "error", err, "count", len(r.transactions))
	}
}
