package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hizamruljaen123/ppob-backend/internal/core/domain"
)

// Store is the durable backing for the ledger engine. The postgres
// adapter implements it on pgx, the memory adapter backs the tests.
type Store interface {
	// Balance reads the user's current balance.
	Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)

	// InvoiceExists probes the transaction history for an invoice number.
	InvoiceExists(ctx context.Context, invoiceNumber string) (bool, error)

	// History returns the user's transactions newest-first plus the
	// total count regardless of the pagination window. limit <= 0
	// means no window: everything is returned.
	History(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Transaction, int, error)

	// Mutate runs fn inside one atomic unit with the user's balance
	// held exclusively for its duration. Everything written through
	// the BalanceTx commits together or not at all; any error from fn
	// rolls the whole unit back. Two concurrent Mutate calls for the
	// same user never interleave.
	Mutate(ctx context.Context, userID uuid.UUID, fn func(tx BalanceTx) error) error
}

// BalanceTx is the write surface available inside Store.Mutate.
type BalanceTx interface {
	// Balance is the user's balance as locked at the start of the unit.
	Balance() decimal.Decimal

	// SetBalance stages the new balance.
	SetBalance(balance decimal.Decimal) error

	// AppendTransaction stages a ledger record. The invoice number is
	// covered by a unique constraint: a collision with a concurrently
	// committed record fails the whole unit with ErrDuplicateInvoice.
	AppendTransaction(record domain.Transaction) error

	// AppendDetail stages a service-specific detail row. Nil values
	// persist as NULL.
	AppendDetail(table string, transactionID uuid.UUID, columns []string, values []any) error

	// AppendEvent stages an outbox row for the event worker.
	AppendEvent(event Event) error
}

// Catalog resolves a service code to its definition.
type Catalog interface {
	// Lookup returns domain.ErrServiceNotFound for unknown codes.
	Lookup(ctx context.Context, code string) (*domain.Service, error)
}

// Event is the transaction-completed record written to the outbox in
// the same commit as the transaction itself.
type Event struct {
	InvoiceNumber string                 `json:"invoice_number"`
	UserID        uuid.UUID              `json:"user_id"`
	Type          domain.TransactionType `json:"transaction_type"`
	Amount        decimal.Decimal        `json:"total_amount"`
	AdminFee      decimal.Decimal        `json:"admin_fee"`
	OccurredAt    time.Time              `json:"occurred_at"`
}
