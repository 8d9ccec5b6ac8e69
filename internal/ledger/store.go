// Package ledger owns the transaction set and applies every mutation to it,
// including the recurring-series rules for edits and cascade deletes.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/id"
	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/recurrence"
	"github.com/tally-dev/tally/internal/storage"
)

// Key is the storage key holding the full transaction list.
const Key = "transactions"

var (
	// ErrScopeRequired is returned by InitiateDelete for series members: the
	// caller must pick DeleteSingle or DeleteFromHereForward.
	ErrScopeRequired = errors.New("transaction belongs to a recurring series; choose to delete this occurrence only or this and all future ones")
	// ErrNotFound is returned when no transaction has the requested id.
	ErrNotFound = errors.New("transaction not found")
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// Input is a new transaction as entered by the user.
type Input struct {
	Date        model.Date // zero means today
	Name        string
	Description string // category key
	Amount      decimal.Decimal
	Type        model.TransactionType
}

// Store is the in-memory transaction set backed by a KV. It is not safe for
// concurrent use. Every mutation builds a new slice, persists it and only
// then replaces the current one, so readers always see a complete snapshot.
type Store struct {
	kv     storage.KV
	ids    id.Generator
	clock  Clock
	logger *log.Logger
	hooks  []func(Event)
	txns   []model.Transaction
}

// Option configures a Store.
type Option func(*Store)

// WithIDs sets the id generator (default: random UUIDs).
func WithIDs(g id.Generator) Option {
	return func(s *Store) { s.ids = g }
}

// WithClock sets the clock used for default dates (default: wall clock).
func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithLogger sets the logger (default: discard).
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates an empty Store over kv. Call Open to load persisted data.
func New(kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		ids:    id.UUID{},
		clock:  ClockFunc(time.Now),
		logger: log.New(io.Discard),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Open loads the persisted transaction list. A missing or unreadable value
// leaves the store empty; only storage errors are returned.
func (s *Store) Open(ctx context.Context) error {
	data, err := s.kv.Get(ctx, Key)
	if errors.Is(err, storage.ErrNotFound) {
		s.txns = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading transactions: %w", err)
	}

	var txns []model.Transaction
	if err := json.Unmarshal(data, &txns); err != nil {
		s.logger.Warn("stored transactions are corrupt, starting empty", "error", err)
		s.txns = nil
		return nil
	}
	s.txns = txns
	s.logger.Debug("loaded transactions", "count", len(txns))
	return nil
}

// OnChange registers fn to run after every persisted mutation.
func (s *Store) OnChange(fn func(Event)) {
	s.hooks = append(s.hooks, fn)
}

// All returns a copy of every transaction in insertion order.
func (s *Store) All() []model.Transaction {
	return append([]model.Transaction(nil), s.txns...)
}

// Len returns the number of stored transactions.
func (s *Store) Len() int {
	return len(s.txns)
}

// Get returns the transaction with the given id.
func (s *Store) Get(txnID string) (model.Transaction, bool) {
	for _, t := range s.txns {
		if t.ID == txnID {
			return t, true
		}
	}
	return model.Transaction{}, false
}

// Series returns the members of a recurring series in date order.
func (s *Store) Series(key string) []model.Transaction {
	var out []model.Transaction
	for _, t := range s.txns {
		if key != "" && t.RecurringKey == key {
			out = append(out, t)
		}
	}
	sortByDate(out)
	return out
}

// Today returns the clock's current calendar date.
func (s *Store) Today() model.Date {
	return model.DateOf(s.clock.Now())
}

// Add inserts a new transaction. A recurring add inserts the base plus its
// monthly occurrences under a fresh series key. Returns the inserted rows.
func (s *Store) Add(ctx context.Context, in Input, recurring bool) ([]model.Transaction, error) {
	date := in.Date
	if date.IsZero() {
		date = s.Today()
	}
	base := model.Transaction{
		ID:          s.ids.New(),
		Date:        date,
		Name:        in.Name,
		Description: in.Description,
		Amount:      in.Amount,
		Type:        in.Type,
	}

	added := []model.Transaction{base}
	if recurring {
		base.RecurringKey = s.ids.New()
		base.IsRecurring = true
		added = recurrence.Series(base, s.ids)
	}

	next := append(s.All(), added...)
	ev := Event{Op: OpAdd, ID: base.ID, Count: len(added), Detail: describe(base)}
	if err := s.commit(ctx, next, ev); err != nil {
		return nil, err
	}
	return added, nil
}

// Update replaces a transaction with updated, matched by id. For a series
// member the edit applies to that occurrence and every later one: those are
// removed and regenerated from updated (or collapsed to the single edited
// record when updated is no longer recurring). Earlier occurrences are kept.
// Reports false without error when the id is unknown.
func (s *Store) Update(ctx context.Context, updated model.Transaction) (bool, error) {
	orig, ok := s.Get(updated.ID)
	if !ok {
		s.logger.Debug("update target not found", "id", updated.ID)
		return false, nil
	}

	var next []model.Transaction
	for _, t := range s.txns {
		if orig.InSeries() {
			if t.RecurringKey == orig.RecurringKey && t.Date.OnOrAfter(orig.Date) {
				continue
			}
		} else if t.ID == orig.ID {
			continue
		}
		next = append(next, t)
	}

	added := []model.Transaction{updated}
	if updated.IsRecurring {
		base := updated
		base.RecurringKey = orig.RecurringKey
		if base.RecurringKey == "" {
			base.RecurringKey = s.ids.New()
		}
		added = recurrence.Series(base, s.ids)
	} else {
		added[0].RecurringKey = ""
	}
	next = append(next, added...)

	ev := Event{Op: OpUpdate, ID: updated.ID, Count: len(added), Detail: describe(updated)}
	if err := s.commit(ctx, next, ev); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteSingle removes exactly the transaction with the given id, leaving any
// other members of its series in place. Reports whether a row was removed.
func (s *Store) DeleteSingle(ctx context.Context, txnID string) (bool, error) {
	orig, ok := s.Get(txnID)
	if !ok {
		return false, nil
	}

	next := make([]model.Transaction, 0, len(s.txns))
	for _, t := range s.txns {
		if t.ID != txnID {
			next = append(next, t)
		}
	}

	ev := Event{Op: OpDeleteSingle, ID: txnID, Count: 1, Detail: describe(orig)}
	if err := s.commit(ctx, next, ev); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteFromHereForward removes every member of txn's series dated on or after
// txn.Date. A transaction outside any series is removed alone. Returns the
// number of removed rows.
func (s *Store) DeleteFromHereForward(ctx context.Context, txn model.Transaction) (int, error) {
	if !txn.InSeries() {
		ok, err := s.DeleteSingle(ctx, txn.ID)
		if ok {
			return 1, err
		}
		return 0, err
	}

	next := make([]model.Transaction, 0, len(s.txns))
	for _, t := range s.txns {
		if t.RecurringKey == txn.RecurringKey && t.Date.OnOrAfter(txn.Date) {
			continue
		}
		next = append(next, t)
	}

	removed := len(s.txns) - len(next)
	if removed == 0 {
		return 0, nil
	}
	ev := Event{Op: OpDeleteFuture, ID: txn.ID, Count: removed, Detail: describe(txn)}
	if err := s.commit(ctx, next, ev); err != nil {
		return 0, err
	}
	return removed, nil
}

// InitiateDelete deletes a standalone transaction immediately. For a series
// member nothing is deleted and ErrScopeRequired is returned.
func (s *Store) InitiateDelete(ctx context.Context, txnID string) error {
	t, ok := s.Get(txnID)
	if !ok {
		return ErrNotFound
	}
	if t.InSeries() {
		return ErrScopeRequired
	}
	_, err := s.DeleteSingle(ctx, txnID)
	return err
}

// ReplaceAll discards the current set and stores set with fresh ids.
func (s *Store) ReplaceAll(ctx context.Context, set []model.Transaction) error {
	next := make([]model.Transaction, len(set))
	for i, t := range set {
		t.ID = s.ids.New()
		next[i] = t
	}
	ev := Event{Op: OpReplaceAll, Count: len(next), Detail: fmt.Sprintf("replaced %d transactions", len(s.txns))}
	return s.commit(ctx, next, ev)
}

func (s *Store) commit(ctx context.Context, next []model.Transaction, ev Event) error {
	if next == nil {
		next = []model.Transaction{}
	}
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encoding transactions: %w", err)
	}
	if err := s.kv.Put(ctx, Key, data); err != nil {
		return fmt.Errorf("saving transactions: %w", err)
	}
	s.txns = next
	s.logger.Debug("transactions saved", "op", ev.Op, "id", ev.ID, "rows", ev.Count, "total", len(next))
	for _, fn := range s.hooks {
		fn(ev)
	}
	return nil
}

func describe(t model.Transaction) string {
	return fmt.Sprintf("%s %s %s %s", t.Date, t.Type, t.Name, t.Amount.StringFixed(2))
}

// Month returns the transactions dated in the given month, in insertion order.
func (s *Store) Month(year int, month time.Month) []model.Transaction {
	var out []model.Transaction
	for _, t := range s.txns {
		if t.Date.SameMonth(year, month) {
			out = append(out, t)
		}
	}
	return out
}
