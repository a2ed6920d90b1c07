package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pollInterval = 5 * time.Second
	maxAttempts  = 5
)

// Publisher is the downstream the outbox drains into.
type Publisher interface {
	Publish(ctx context.Context, key string, payload any) error
}

// StartOutboxWorker polls the transaction_events outbox and publishes
// pending rows. Rows are claimed with SKIP LOCKED so multiple
// instances can drain the same table without double-publishing.
func StartOutboxWorker(ctx context.Context, db *pgxpool.Pool, pub Publisher) {
	go func() {
		slog.Info("Outbox worker started")
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				slog.Info("Outbox worker stopped")
				return
			case <-ticker.C:
				for processNext(ctx, db, pub) {
				}
			}
		}
	}()
}

// processNext claims and publishes one pending event. It reports
// whether a row was found, so the caller can drain a backlog within a
// single tick.
func processNext(ctx context.Context, db *pgxpool.Pool, pub Publisher) bool {
	tx, err := db.Begin(ctx)
	if err != nil {
		slog.Error("Outbox: failed to begin transaction", "error", err)
		return false
	}
	defer tx.Rollback(ctx)

	query := `
		SELECT id, invoice_number, payload, attempts
		FROM transaction_events
		WHERE status = 'PENDING' AND next_run_at <= NOW()
		ORDER BY created_at ASC
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	`

	var id int64
	var invoiceNumber string
	var payload []byte
	var attempts int
	if err := tx.QueryRow(ctx, query).Scan(&id, &invoiceNumber, &payload, &attempts); err != nil {
		return false
	}

	pubErr := pub.Publish(ctx, invoiceNumber, json.RawMessage(payload))
	if pubErr != nil {
		slog.Error("Outbox: publish failed", "error", pubErr, "invoice_number", invoiceNumber, "attempts", attempts)
		if attempts+1 >= maxAttempts {
			_, err = tx.Exec(ctx, "UPDATE transaction_events SET status = 'FAILED', attempts = attempts + 1 WHERE id = $1", id)
			slog.Error("Outbox: event marked FAILED after max attempts", "invoice_number", invoiceNumber)
		} else {
			nextRun := time.Now().Add(time.Duration(attempts*10+10) * time.Second)
			_, err = tx.Exec(ctx,
				"UPDATE transaction_events SET attempts = attempts + 1, next_run_at = $2 WHERE id = $1", id, nextRun)
		}
	} else {
		_, err = tx.Exec(ctx, "UPDATE transaction_events SET status = 'PUBLISHED', attempts = attempts + 1 WHERE id = $1", id)
	}
	if err != nil {
		slog.Error("Outbox: failed to update event row", "error", err, "invoice_number", invoiceNumber)
		return false
	}

	if err := tx.Commit(ctx); err != nil {
		slog.Error("Outbox: failed to commit", "error", err, "invoice_number", invoiceNumber)
		return false
	}

	if pubErr == nil {
		slog.Info("Outbox: event published", "invoice_number", invoiceNumber)
	}
	return true
}
