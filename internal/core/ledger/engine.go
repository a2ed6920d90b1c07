// Package ledger owns every balance mutation. Reading a balance,
// computing the new one and persisting it together with the invoice
// and any detail row happens here and nowhere else.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hizamruljaen123/ppob-backend/internal/core/domain"
	"github.com/hizamruljaen123/ppob-backend/internal/core/invoice"
	"github.com/hizamruljaen123/ppob-backend/internal/core/token"
)

// commitRetries bounds regeneration when the unique constraint rejects
// an invoice that another commit claimed after our existence probe.
const commitRetries = 3

const topUpDescription = "Top Up balance"

type Engine struct {
	store    Store
	catalog  Catalog
	invoices *invoice.Generator
}

func NewEngine(store Store, catalog Catalog) *Engine {
	return &Engine{
		store:    store,
		catalog:  catalog,
		invoices: invoice.NewGenerator(store.InvoiceExists),
	}
}

// PaymentRequest carries a payment operation. Fields holds the
// service-specific inputs (customer_name, meter_number, ...) keyed by
// their wire names; only supplied fields are present.
type PaymentRequest struct {
	ServiceCode string
	Nominal     *decimal.Decimal
	Fields      map[string]string
}

// Receipt is returned from a successful payment. Fields echoes the
// supplied inputs plus any generated artifact; absent fields are
// simply not present.
type Receipt struct {
	InvoiceNumber   string
	ServiceCode     string
	ServiceName     string
	TransactionType domain.TransactionType
	TotalAmount     decimal.Decimal
	AdminFee        decimal.Decimal
	CreatedOn       time.Time
	Fields          map[string]string
}

// HistoryPage is a pagination window over a user's transactions.
type HistoryPage struct {
	Offset  int
	Limit   int
	Records []domain.Transaction
	Total   int
}

// TopUp credits the user's balance and appends the matching TOPUP
// record in one atomic unit. Returns the new balance.
func (e *Engine) TopUp(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	if !domain.ValidAmount(amount) {
		return decimal.Zero, domain.ErrInvalidAmount
	}

	var newBalance decimal.Decimal
	err := e.commitWithInvoice(ctx, string(domain.TypeTopUp), func(invoiceNumber string) error {
		return e.store.Mutate(ctx, userID, func(tx BalanceTx) error {
			newBalance = domain.Credit(tx.Balance(), amount)
			if err := tx.SetBalance(newBalance); err != nil {
				return err
			}

			now := time.Now()
			record := domain.Transaction{
				ID:            uuid.New(),
				UserID:        userID,
				InvoiceNumber: invoiceNumber,
				Type:          domain.TypeTopUp,
				Description:   topUpDescription,
				TotalAmount:   amount,
				AdminFee:      decimal.Zero,
				CreatedOn:     now,
			}
			if err := tx.AppendTransaction(record); err != nil {
				return err
			}

			return tx.AppendEvent(Event{
				InvoiceNumber: invoiceNumber,
				UserID:        userID,
				Type:          domain.TypeTopUp,
				Amount:        amount,
				AdminFee:      decimal.Zero,
				OccurredAt:    now,
			})
		})
	})
	if err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

// Pay debits the user's balance for a cataloged service and appends
// the PAYMENT record plus its detail row in one atomic unit. The
// sufficiency check runs under the same lock as the debit, so two
// concurrent payments can never both pass it against a balance that
// only covers one.
func (e *Engine) Pay(ctx context.Context, userID uuid.UUID, req PaymentRequest) (*Receipt, error) {
	svc, err := e.catalog.Lookup(ctx, req.ServiceCode)
	if err != nil {
		return nil, err
	}

	var amount decimal.Decimal
	switch {
	case req.Nominal != nil:
		if !domain.ValidNominal(*req.Nominal) {
			return nil, domain.ErrInvalidAmount
		}
		amount = *req.Nominal
	case svc.Tariff != nil:
		amount = *svc.Tariff
	default:
		return nil, domain.ErrInvalidAmount
	}

	totalCost := amount.Add(svc.AdminFee)

	fields := make(map[string]string, len(req.Fields)+1)
	for k, v := range req.Fields {
		if v != "" {
			fields[k] = v
		}
	}
	switch svc.Code {
	case "PLN":
		fields["token_listrik"] = token.Electricity()
	case "VOUCHER_GAME":
		fields["kode_voucher"] = token.GameVoucher()
	case "VOUCHER_MAKANAN":
		fields["kode_voucher"] = token.FoodVoucher()
	}

	var receipt *Receipt
	err = e.commitWithInvoice(ctx, svc.Code, func(invoiceNumber string) error {
		return e.store.Mutate(ctx, userID, func(tx BalanceTx) error {
			newBalance, err := domain.Debit(tx.Balance(), totalCost)
			if err != nil {
				return err
			}
			if err := tx.SetBalance(newBalance); err != nil {
				return err
			}

			now := time.Now()
			code := svc.Code
			record := domain.Transaction{
				ID:            uuid.New(),
				UserID:        userID,
				InvoiceNumber: invoiceNumber,
				Type:          domain.TypePayment,
				ServiceCode:   &code,
				Description:   svc.Name,
				TotalAmount:   amount,
				AdminFee:      svc.AdminFee,
				CreatedOn:     now,
			}
			if err := tx.AppendTransaction(record); err != nil {
				return err
			}

			if err := dispatchDetails(tx, record.ID, svc.Code, fields); err != nil {
				return err
			}

			if err := tx.AppendEvent(Event{
				InvoiceNumber: invoiceNumber,
				UserID:        userID,
				Type:          domain.TypePayment,
				Amount:        amount,
				AdminFee:      svc.AdminFee,
				OccurredAt:    now,
			}); err != nil {
				return err
			}

			receipt = &Receipt{
				InvoiceNumber:   invoiceNumber,
				ServiceCode:     displayCode(svc),
				ServiceName:     displayName(svc),
				TransactionType: domain.TypePayment,
				TotalAmount:     amount,
				AdminFee:        svc.AdminFee,
				CreatedOn:       now,
				Fields:          fields,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// Balance reads the user's current balance.
func (e *Engine) Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	return e.store.Balance(ctx, userID)
}

// History pages through the user's transactions, newest first. A
// missing limit returns everything and echoes the total count.
func (e *Engine) History(ctx context.Context, userID uuid.UUID, offset, limit int) (*HistoryPage, error) {
	if offset < 0 {
		offset = 0
	}

	records, total, err := e.store.History(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}

	page := &HistoryPage{
		Offset:  offset,
		Limit:   limit,
		Records: records,
		Total:   total,
	}
	if limit <= 0 {
		page.Limit = total
	}
	return page, nil
}

// commitWithInvoice generates an invoice number and runs the commit
// under it. The storage unique constraint is the authoritative guard:
// if it fires because another commit claimed the same candidate after
// our probe, we regenerate and try again, bounded.
func (e *Engine) commitWithInvoice(ctx context.Context, kind string, commit func(invoiceNumber string) error) error {
	var err error
	for attempt := 0; attempt < commitRetries; attempt++ {
		var invoiceNumber string
		invoiceNumber, err = e.invoices.Generate(ctx, kind)
		if err != nil {
			return err
		}

		err = commit(invoiceNumber)
		if !errors.Is(err, domain.ErrDuplicateInvoice) {
			return err
		}
	}
	return domain.ErrGenerationExhausted
}

// Display fields prefer the service-type grouping when present, so the
// receipt shows the category the client renders.
func displayCode(svc *domain.Service) string {
	if svc.Type != "" {
		return svc.Type
	}
	return svc.Code
}

func displayName(svc *domain.Service) string {
	if svc.TypeName != "" {
		return svc.TypeName
	}
	return svc.Name
}
