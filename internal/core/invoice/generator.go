// Package invoice produces the human-readable unique reference that
// tags every ledger transaction.
package invoice

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/hizamruljaen123/ppob-backend/internal/core/domain"
)

// maxAttempts bounds the regenerate-on-collision loop. With millisecond
// time plus a random suffix collisions are rare, but the check is
// mandatory: the unique constraint on the invoice column is the final
// guard, this loop just keeps us from hitting it.
const maxAttempts = 10

const fallbackPrefix = "INV"

// prefixes maps a transaction kind or service code to its invoice tag.
// Anything not listed here (including TOPUP) falls back to INV.
var prefixes = map[string]string{
	"PAJAK":           "TAX",
	"PLN":             "PLN",
	"PDAM":            "PDAM",
	"PULSA":           "PULSA",
	"PGN":             "PGN",
	"MUSIK":           "MUSIK",
	"TV":              "TV",
	"PAKET_DATA":      "DATA",
	"VOUCHER_GAME":    "GAME",
	"VOUCHER_MAKANAN": "FOOD",
	"QURBAN":          "QURBAN",
	"ZAKAT":           "ZAKAT",
}

// ExistsFunc reports whether an invoice number is already present in
// the transaction history.
type ExistsFunc func(ctx context.Context, invoiceNumber string) (bool, error)

type Generator struct {
	exists ExistsFunc
}

func NewGenerator(exists ExistsFunc) *Generator {
	return &Generator{exists: exists}
}

// Prefix returns the invoice tag for a transaction kind or service code.
func Prefix(kind string) string {
	if p, ok := prefixes[kind]; ok {
		return p
	}
	return fallbackPrefix
}

// newCandidate builds <PREFIX>-<unix-millis>-<3-digit random>.
func newCandidate(kind string) string {
	return fmt.Sprintf("%s-%d-%03d", Prefix(kind), time.Now().UnixMilli(), rand.Intn(1000))
}

// Generate returns an invoice number not currently present in storage,
// or ErrGenerationExhausted after maxAttempts collisions. Exhaustion is
// surfaced to the caller as a retryable server error, never a silent
// duplicate.
func (g *Generator) Generate(ctx context.Context, kind string) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate := newCandidate(kind)

		taken, err := g.exists(ctx, candidate)
		if err != nil {
			return "", &domain.PersistenceError{Op: "invoice lookup", Err: err}
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", domain.ErrGenerationExhausted
}
