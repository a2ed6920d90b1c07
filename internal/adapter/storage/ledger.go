package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hizamruljaen123/ppob-backend/internal/core/domain"
	"github.com/hizamruljaen123/ppob-backend/internal/core/ledger"
)

// LedgerStore is the postgres implementation of ledger.Store. The
// read-compute-write span runs inside one transaction with the user's
// balance row locked FOR UPDATE, so concurrent mutations of the same
// account serialize at the database.
type LedgerStore struct {
	db *pgxpool.Pool
}

func NewLedgerStore(db *pgxpool.Pool) *LedgerStore {
	return &LedgerStore{db: db}
}

func (s *LedgerStore) Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.db.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1`, userID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, domain.ErrUserNotFound
	}
	if err != nil {
		return decimal.Zero, &domain.PersistenceError{Op: "read balance", Err: err}
	}
	return balance, nil
}

func (s *LedgerStore) InvoiceExists(ctx context.Context, invoiceNumber string) (bool, error) {
	var one int
	err := s.db.QueryRow(ctx, `SELECT 1 FROM transactions WHERE invoice_number = $1`, invoiceNumber).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *LedgerStore) History(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Transaction, int, error) {
	query := `
		SELECT id, user_id, invoice_number, transaction_type, service_code, description, total_amount, admin_fee, created_on
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_on DESC`

	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, &domain.PersistenceError{Op: "read history", Err: err}
	}
	defer rows.Close()

	var records []domain.Transaction
	for rows.Next() {
		var rec domain.Transaction
		var txType string
		err := rows.Scan(&rec.ID, &rec.UserID, &rec.InvoiceNumber, &txType, &rec.ServiceCode,
			&rec.Description, &rec.TotalAmount, &rec.AdminFee, &rec.CreatedOn)
		if err != nil {
			return nil, 0, &domain.PersistenceError{Op: "scan history", Err: err}
		}
		rec.Type = domain.TransactionType(txType)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, &domain.PersistenceError{Op: "read history", Err: err}
	}

	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, &domain.PersistenceError{Op: "count history", Err: err}
	}
	return records, total, nil
}

// Mutate locks the user's balance row, runs fn, and commits everything
// fn wrote as one unit. Any error from fn rolls the unit back. A
// unique-constraint hit on the invoice column surfaces as
// ErrDuplicateInvoice so the engine can regenerate.
func (s *LedgerStore) Mutate(ctx context.Context, userID uuid.UUID, fn func(tx ledger.BalanceTx) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return &domain.PersistenceError{Op: "begin", Err: err}
	}
	defer tx.Rollback(ctx)

	var balance decimal.Decimal
	err = tx.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrUserNotFound
	}
	if err != nil {
		return &domain.PersistenceError{Op: "lock balance", Err: err}
	}

	if err := fn(&balanceTx{ctx: ctx, tx: tx, userID: userID, balance: balance}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateInvoice
		}
		return &domain.PersistenceError{Op: "commit", Err: err}
	}
	return nil
}

type balanceTx struct {
	ctx     context.Context
	tx      pgx.Tx
	userID  uuid.UUID
	balance decimal.Decimal
}

func (t *balanceTx) Balance() decimal.Decimal { return t.balance }

func (t *balanceTx) SetBalance(balance decimal.Decimal) error {
	_, err := t.tx.Exec(t.ctx, `UPDATE users SET balance = $1 WHERE id = $2`, balance, t.userID)
	if err != nil {
		return &domain.PersistenceError{Op: "write balance", Err: err}
	}
	return nil
}

func (t *balanceTx) AppendTransaction(record domain.Transaction) error {
	_, err := t.tx.Exec(t.ctx, `
		INSERT INTO transactions (id, user_id, invoice_number, transaction_type, service_code, description, total_amount, admin_fee, created_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		record.ID, record.UserID, record.InvoiceNumber, string(record.Type), record.ServiceCode,
		record.Description, record.TotalAmount, record.AdminFee, record.CreatedOn)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateInvoice
	}
	if err != nil {
		return &domain.PersistenceError{Op: "append transaction", Err: err}
	}
	return nil
}

// AppendDetail builds the insert from the dispatch registry's table
// and column names; they never come from user input.
func (t *balanceTx) AppendDetail(table string, transactionID uuid.UUID, columns []string, values []any) error {
	cols := append([]string{"transaction_id"}, columns...)
	args := append([]any{transactionID}, values...)

	placeholders := make([]string, len(cols))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))

	if _, err := t.tx.Exec(t.ctx, query, args...); err != nil {
		return &domain.PersistenceError{Op: "append detail", Err: err}
	}
	return nil
}

func (t *balanceTx) AppendEvent(event ledger.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return &domain.PersistenceError{Op: "encode event", Err: err}
	}

	_, err = t.tx.Exec(t.ctx, `
		INSERT INTO transaction_events (invoice_number, payload, status)
		VALUES ($1, $2, 'PENDING')`,
		event.InvoiceNumber, payload)
	if err != nil {
		return &domain.PersistenceError{Op: "append event", Err: err}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ledger.Store = (*LedgerStore)(nil)
