package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hizamruljaen123/ppob-backend/internal/core/domain"
)

type recordingTx struct {
	table   string
	columns []string
	values  []any
	calls   int
}

func (r *recordingTx) Balance() decimal.Decimal                       { return decimal.Zero }
func (r *recordingTx) SetBalance(decimal.Decimal) error               { return nil }
func (r *recordingTx) AppendTransaction(domain.Transaction) error     { return nil }
func (r *recordingTx) AppendEvent(Event) error                        { return nil }
func (r *recordingTx) AppendDetail(table string, _ uuid.UUID, columns []string, values []any) error {
	r.calls++
	r.table = table
	r.columns = columns
	r.values = values
	return nil
}

func TestDetailShapes_AllTwelveRegistered(t *testing.T) {
	codes := []string{
		"PAJAK", "PLN", "PDAM", "PULSA", "PGN", "MUSIK",
		"TV", "PAKET_DATA", "VOUCHER_GAME", "VOUCHER_MAKANAN", "QURBAN", "ZAKAT",
	}
	require.Len(t, detailShapes, len(codes))
	for _, code := range codes {
		shape, ok := detailShapes[code]
		require.True(t, ok, "missing shape for %s", code)
		assert.Contains(t, shape.Table, "transaction_details_")
		assert.Contains(t, shape.Columns, "customer_name")
	}
}

func TestDispatchDetails_PicksFieldSubset(t *testing.T) {
	tx := &recordingTx{}
	fields := map[string]string{
		"customer_name": "Andi",
		"nop":           "327301000100",
		"meter_number":  "ignored for PAJAK",
	}

	err := dispatchDetails(tx, uuid.New(), "PAJAK", fields)
	require.NoError(t, err)
	require.Equal(t, 1, tx.calls)

	assert.Equal(t, "transaction_details_pajak", tx.table)
	assert.Equal(t, []string{"customer_name", "customer_address", "nop"}, tx.columns)
	assert.Equal(t, "Andi", tx.values[0])
	assert.Nil(t, tx.values[1], "unsupplied column persists as NULL")
	assert.Equal(t, "327301000100", tx.values[2])
}

func TestDispatchDetails_UnknownCodeIsSkip(t *testing.T) {
	tx := &recordingTx{}

	err := dispatchDetails(tx, uuid.New(), "DONASI", map[string]string{"customer_name": "x"})
	require.NoError(t, err, "unregistered code is a no-op, not an error")
	assert.Zero(t, tx.calls)
}
