package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/hizamruljaen123/ppob-backend/internal/core/domain"
	"github.com/hizamruljaen123/ppob-backend/internal/core/ledger"
)

type TransactionHandler struct {
	Engine *ledger.Engine
}

type TopUpRequest struct {
	TopUpAmount *decimal.Decimal `json:"top_up_amount"`
}

// PaymentRequest carries the service code plus every service-specific
// field a client may send. Which subset matters is decided by the
// engine's dispatch table, not here.
type PaymentRequest struct {
	ServiceCode     string           `json:"service_code"`
	CustomerName    string           `json:"customer_name"`
	CustomerAddress string           `json:"customer_address"`
	NOP             string           `json:"nop"`
	MeterNumber     string           `json:"meter_number"`
	NoPelanggan     string           `json:"no_pelanggan"`
	IDPelanggan     string           `json:"id_pelanggan"`
	NomorHP         string           `json:"nomor_hp"`
	GameID          string           `json:"game_id"`
	Merchant        string           `json:"merchant"`
	JenisHewan      string           `json:"jenis_hewan"`
	JenisZakat      string           `json:"jenis_zakat"`
	Paket           string           `json:"paket"`
	PaketData       string           `json:"paket_data"`
	Periode         string           `json:"periode"`
	Nominal         *decimal.Decimal `json:"nominal"`
}

func (r *PaymentRequest) fields() map[string]string {
	all := map[string]string{
		"customer_name":    r.CustomerName,
		"customer_address": r.CustomerAddress,
		"nop":              r.NOP,
		"meter_number":     r.MeterNumber,
		"no_pelanggan":     r.NoPelanggan,
		"id_pelanggan":     r.IDPelanggan,
		"nomor_hp":         r.NomorHP,
		"game_id":          r.GameID,
		"merchant":         r.Merchant,
		"jenis_hewan":      r.JenisHewan,
		"jenis_zakat":      r.JenisZakat,
		"paket":            r.Paket,
		"paket_data":       r.PaketData,
		"periode":          r.Periode,
	}
	supplied := make(map[string]string)
	for k, v := range all {
		if v != "" {
			supplied[k] = v
		}
	}
	if r.Nominal != nil {
		supplied["nominal"] = r.Nominal.String()
	}
	return supplied
}

func (h *TransactionHandler) GetBalance(c *fiber.Ctx) error {
	user := currentUser(c)

	balance, err := h.Engine.Balance(c.Context(), user.ID)
	if err != nil {
		slog.Error("Failed to read balance", "error", err, "user_id", user.ID)
		return c.Status(http.StatusInternalServerError).JSON(envelope(codeServerError, "Internal server error", nil))
	}

	return c.JSON(envelope(codeOK, "Get Balance successful", fiber.Map{"balance": balance}))
}

func (h *TransactionHandler) TopUp(c *fiber.Ctx) error {
	var req TopUpRequest
	if err := c.BodyParser(&req); err != nil || req.TopUpAmount == nil {
		return c.Status(http.StatusBadRequest).JSON(envelope(codeInvalid,
			"Parameter top_up_amount must be a number and not less than 0", nil))
	}

	user := currentUser(c)
	newBalance, err := h.Engine.TopUp(c.Context(), user.ID, *req.TopUpAmount)
	if err != nil {
		return h.ledgerError(c, err, "top-up", user.ID.String())
	}

	slog.Info("Top-up committed", "user_id", user.ID, "amount", req.TopUpAmount.String())
	return c.JSON(envelope(codeOK, "Top Up Balance successful", fiber.Map{"balance": newBalance}))
}

func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	var req PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(envelope(codeInvalid, "Invalid request body", nil))
	}
	if req.ServiceCode == "" {
		return c.Status(http.StatusBadRequest).JSON(envelope(codeInvalid, "Service or layanan not found", nil))
	}

	user := currentUser(c)
	receipt, err := h.Engine.Pay(c.Context(), user.ID, ledger.PaymentRequest{
		ServiceCode: req.ServiceCode,
		Nominal:     req.Nominal,
		Fields:      req.fields(),
	})
	if err != nil {
		return h.ledgerError(c, err, "payment", user.ID.String())
	}

	data := fiber.Map{
		"invoice_number":   receipt.InvoiceNumber,
		"service_code":     receipt.ServiceCode,
		"service_name":     receipt.ServiceName,
		"transaction_type": receipt.TransactionType,
		"total_amount":     receipt.TotalAmount,
		"admin_fee":        receipt.AdminFee,
		"created_on":       receipt.CreatedOn,
	}
	// Echo only the fields that were supplied, plus any generated
	// artifact (token_listrik, kode_voucher).
	for k, v := range receipt.Fields {
		data[k] = v
	}

	slog.Info("Payment committed",
		"user_id", user.ID,
		"service_code", req.ServiceCode,
		"invoice_number", receipt.InvoiceNumber,
	)
	return c.JSON(envelope(codeOK, "Transaction successful", data))
}

func (h *TransactionHandler) GetHistory(c *fiber.Ctx) error {
	user := currentUser(c)

	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 0)

	page, err := h.Engine.History(c.Context(), user.ID, offset, limit)
	if err != nil {
		slog.Error("Failed to read history", "error", err, "user_id", user.ID)
		return c.Status(http.StatusInternalServerError).JSON(envelope(codeServerError, "Internal server error", nil))
	}

	records := make([]fiber.Map, 0, len(page.Records))
	for _, rec := range page.Records {
		records = append(records, fiber.Map{
			"invoice_number":   rec.InvoiceNumber,
			"transaction_type": rec.Type,
			"description":      rec.Description,
			"total_amount":     rec.TotalAmount,
			"created_on":       rec.CreatedOn,
		})
	}

	return c.JSON(envelope(codeOK, "Get History successful", fiber.Map{
		"offset":  page.Offset,
		"limit":   page.Limit,
		"records": records,
		"total":   page.Total,
	}))
}

// ledgerError maps the engine's error taxonomy onto the wire contract.
func (h *TransactionHandler) ledgerError(c *fiber.Ctx, err error, op, userID string) error {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return c.Status(http.StatusBadRequest).JSON(envelope(codeInvalid,
			"Parameter amount must be a number and not less than 0", nil))
	case errors.Is(err, domain.ErrServiceNotFound):
		return c.Status(http.StatusBadRequest).JSON(envelope(codeInvalid, "Service or layanan not found", nil))
	case errors.Is(err, domain.ErrInsufficientBalance):
		return c.Status(http.StatusBadRequest).JSON(envelope(codeInvalid, "Balance is not sufficient", nil))
	case errors.Is(err, domain.ErrGenerationExhausted):
		slog.Error("Invoice generation exhausted", "op", op, "user_id", userID)
		return c.Status(http.StatusInternalServerError).JSON(envelope(codeServerError,
			"Failed to generate invoice number", nil))
	default:
		slog.Error("Ledger operation failed", "op", op, "error", err, "user_id", userID)
		return c.Status(http.StatusInternalServerError).JSON(envelope(codeServerError, "Internal server error", nil))
	}
}
