package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypeTopUp   TransactionType = "TOPUP"
	TypePayment TransactionType = "PAYMENT"
)

// User holds an account and its current balance.
// Balance is only ever changed through the ledger engine.
type User struct {
	ID           uuid.UUID
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	ProfileImage *string
	Balance      decimal.Decimal
}

// Service is a billable product from the catalog. Read-only reference
// data, provisioned out-of-band.
type Service struct {
	Code     string
	Name     string
	Icon     string
	Tariff   *decimal.Decimal // nullable, caller may override with a nominal
	Type     string
	TypeName string
	AdminFee decimal.Decimal
}

// Transaction is the ledger's append-only unit. Once written it is
// never updated or deleted.
type Transaction struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	InvoiceNumber string
	Type          TransactionType
	ServiceCode   *string // nil for top-ups
	Description   string
	TotalAmount   decimal.Decimal // the charged amount, excludes the admin fee
	AdminFee      decimal.Decimal
	CreatedOn     time.Time
}

type Banner struct {
	Name        string
	Image       string
	Description string
}
