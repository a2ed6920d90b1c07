// Package memory is an in-process implementation of ledger.Store. It
// backs the engine tests and mirrors the postgres adapter's contract:
// per-user serialization, all-or-nothing commits, unique invoices.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hizamruljaen123/ppob-backend/internal/core/domain"
	"github.com/hizamruljaen123/ppob-backend/internal/core/ledger"
)

// DetailRow is a staged detail record, kept generic so tests can
// assert on table, columns and values.
type DetailRow struct {
	Table         string
	TransactionID uuid.UUID
	Columns       []string
	Values        []any
}

type Store struct {
	mu           sync.Mutex
	balances     map[uuid.UUID]decimal.Decimal
	transactions []domain.Transaction
	invoices     map[string]bool
	details      []DetailRow
	events       []ledger.Event

	userMu map[uuid.UUID]*sync.Mutex // one lock per user account
	muMap  sync.Mutex                // protects userMu itself
}

func New() *Store {
	return &Store{
		balances: make(map[uuid.UUID]decimal.Decimal),
		invoices: make(map[string]bool),
		userMu:   make(map[uuid.UUID]*sync.Mutex),
	}
}

// SeedUser registers a user with an opening balance.
func (s *Store) SeedUser(id uuid.UUID, balance decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[id] = balance
}

func (s *Store) lockFor(userID uuid.UUID) *sync.Mutex {
	s.muMap.Lock()
	defer s.muMap.Unlock()

	if _, exists := s.userMu[userID]; !exists {
		s.userMu[userID] = &sync.Mutex{}
	}
	return s.userMu[userID]
}

func (s *Store) Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	balance, ok := s.balances[userID]
	if !ok {
		return decimal.Zero, domain.ErrUserNotFound
	}
	return balance, nil
}

func (s *Store) InvoiceExists(ctx context.Context, invoiceNumber string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invoices[invoiceNumber], nil
}

func (s *Store) History(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Transaction, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Append order is chronological, so walk backwards for newest-first.
	var matched []domain.Transaction
	for i := len(s.transactions) - 1; i >= 0; i-- {
		if s.transactions[i].UserID == userID {
			matched = append(matched, s.transactions[i])
		}
	}
	total := len(matched)

	if limit > 0 {
		if offset >= total {
			return nil, total, nil
		}
		end := offset + limit
		if end > total {
			end = total
		}
		matched = matched[offset:end]
	}
	return matched, total, nil
}

// Mutate holds the user's lock for the whole read-compute-write span,
// stages writes through a memTx and applies them only when fn succeeds.
func (s *Store) Mutate(ctx context.Context, userID uuid.UUID, fn func(tx ledger.BalanceTx) error) error {
	userLock := s.lockFor(userID)
	userLock.Lock()
	defer userLock.Unlock()

	s.mu.Lock()
	balance, ok := s.balances[userID]
	s.mu.Unlock()
	if !ok {
		return domain.ErrUserNotFound
	}

	tx := &memTx{balance: balance}
	if err := fn(tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The uniqueness constraint is enforced at commit, same as the
	// database would.
	for _, record := range tx.records {
		if s.invoices[record.InvoiceNumber] {
			return domain.ErrDuplicateInvoice
		}
	}

	if tx.newBalance != nil {
		s.balances[userID] = *tx.newBalance
	}
	for _, record := range tx.records {
		s.transactions = append(s.transactions, record)
		s.invoices[record.InvoiceNumber] = true
	}
	s.details = append(s.details, tx.details...)
	s.events = append(s.events, tx.events...)
	return nil
}

// Transactions returns a copy of every committed record.
func (s *Store) Transactions() []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Details returns a copy of every committed detail row.
func (s *Store) Details() []DetailRow {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]DetailRow, len(s.details))
	copy(out, s.details)
	return out
}

// Events returns a copy of every committed outbox event.
func (s *Store) Events() []ledger.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ledger.Event, len(s.events))
	copy(out, s.events)
	return out
}

type memTx struct {
	balance    decimal.Decimal
	newBalance *decimal.Decimal
	records    []domain.Transaction
	details    []DetailRow
	events     []ledger.Event
}

func (t *memTx) Balance() decimal.Decimal { return t.balance }

func (t *memTx) SetBalance(balance decimal.Decimal) error {
	t.newBalance = &balance
	return nil
}

func (t *memTx) AppendTransaction(record domain.Transaction) error {
	t.records = append(t.records, record)
	return nil
}

func (t *memTx) AppendDetail(table string, transactionID uuid.UUID, columns []string, values []any) error {
	t.details = append(t.details, DetailRow{
		Table:         table,
		TransactionID: transactionID,
		Columns:       columns,
		Values:        values,
	})
	return nil
}

func (t *memTx) AppendEvent(event ledger.Event) error {
	t.events = append(t.events, event)
	return nil
}

// Catalog is a fixed in-memory service catalog for tests.
type Catalog struct {
	services map[string]domain.Service
}

func NewCatalog(services ...domain.Service) *Catalog {
	m := make(map[string]domain.Service, len(services))
	for _, svc := range services {
		m[svc.Code] = svc
	}
	return &Catalog{services: m}
}

func (c *Catalog) Lookup(ctx context.Context, code string) (*domain.Service, error) {
	svc, ok := c.services[code]
	if !ok {
		return nil, domain.ErrServiceNotFound
	}
	return &svc, nil
}

// Compile-time checks.
var (
	_ ledger.Store   = (*Store)(nil)
	_ ledger.Catalog = (*Catalog)(nil)
)
