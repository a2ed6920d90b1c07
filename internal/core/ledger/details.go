package ledger

import "github.com/google/uuid"

// Detail dispatch is data, not control flow: adding a billable service
// with its own detail shape is a new entry here, never a new branch.

type detailShape struct {
	Table   string
	Columns []string
}

// detailShapes maps a service code to the detail row it owns and the
// subset of payment fields that row carries. Column names double as
// field keys. Generated artifacts arrive as ordinary fields
// (token_listrik, kode_voucher) before dispatch.
var detailShapes = map[string]detailShape{
	"PAJAK":           {"transaction_details_pajak", []string{"customer_name", "customer_address", "nop"}},
	"PLN":             {"transaction_details_pln", []string{"customer_name", "meter_number", "nominal", "token_listrik"}},
	"PDAM":            {"transaction_details_pdam", []string{"customer_name", "no_pelanggan", "periode"}},
	"PULSA":           {"transaction_details_pulsa", []string{"customer_name", "nomor_hp", "nominal"}},
	"PGN":             {"transaction_details_pgn", []string{"customer_name", "id_pelanggan", "periode"}},
	"MUSIK":           {"transaction_details_musik", []string{"customer_name", "paket", "periode"}},
	"TV":              {"transaction_details_tv", []string{"customer_name", "id_pelanggan", "paket", "periode"}},
	"PAKET_DATA":      {"transaction_details_paket_data", []string{"customer_name", "nomor_hp", "paket_data"}},
	"VOUCHER_GAME":    {"transaction_details_voucher_game", []string{"customer_name", "game_id", "nominal", "kode_voucher"}},
	"VOUCHER_MAKANAN": {"transaction_details_voucher_makanan", []string{"customer_name", "merchant", "nominal", "kode_voucher"}},
	"QURBAN":          {"transaction_details_qurban", []string{"customer_name", "jenis_hewan"}},
	"ZAKAT":           {"transaction_details_zakat", []string{"customer_name", "jenis_zakat", "nominal"}},
}

// dispatchDetails persists the detail row for a payment. Service codes
// without a registered shape are a silent skip: the payment simply
// carries no auxiliary detail.
func dispatchDetails(tx BalanceTx, transactionID uuid.UUID, serviceCode string, fields map[string]string) error {
	shape, ok := detailShapes[serviceCode]
	if !ok {
		return nil
	}

	values := make([]any, len(shape.Columns))
	for i, col := range shape.Columns {
		if v, ok := fields[col]; ok {
			values[i] = v
		}
	}
	return tx.AppendDetail(shape.Table, transactionID, shape.Columns, values)
}
