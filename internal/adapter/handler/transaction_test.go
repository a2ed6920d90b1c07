package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hizamruljaen123/ppob-backend/internal/adapter/storage/memory"
	"github.com/hizamruljaen123/ppob-backend/internal/core/domain"
	"github.com/hizamruljaen123/ppob-backend/internal/core/ledger"
)

func newTestApp(t *testing.T) (*fiber.App, uuid.UUID) {
	t.Helper()

	userID := uuid.New()
	store := memory.New()
	store.SeedUser(userID, decimal.NewFromInt(100000))

	tariff := decimal.NewFromInt(10000)
	catalog := memory.NewCatalog(domain.Service{
		Code:     "PLN",
		Name:     "PLN Prabayar",
		Tariff:   &tariff,
		AdminFee: decimal.NewFromInt(2500),
	})

	h := &TransactionHandler{Engine: ledger.NewEngine(store, catalog)}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", &domain.User{ID: userID, Email: "user@example.com"})
		return c.Next()
	})
	app.Get("/balance", h.GetBalance)
	app.Post("/topup", h.TopUp)
	app.Post("/transaction", h.CreateTransaction)
	app.Get("/transaction/history", h.GetHistory)

	return app, userID
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func TestTopUpEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/topup", fiber.Map{"top_up_amount": 50000})
	assert.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, body["status"])

	data := body["data"].(map[string]any)
	assert.Equal(t, "150000", data["balance"])
}

func TestTopUpEndpoint_MissingAmount(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/topup", fiber.Map{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.EqualValues(t, 102, body["status"])
}

func TestCreateTransactionEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/transaction", fiber.Map{
		"service_code": "PLN",
		"meter_number": "8821-0000-1234",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, body["status"])

	data := body["data"].(map[string]any)
	assert.Equal(t, "PLN", data["service_code"])
	assert.Equal(t, "10000", data["total_amount"])
	assert.Equal(t, "2500", data["admin_fee"])
	assert.Equal(t, "8821-0000-1234", data["meter_number"])
	assert.NotEmpty(t, data["invoice_number"])
	assert.NotEmpty(t, data["token_listrik"])
}

func TestCreateTransactionEndpoint_UnknownService(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/transaction", fiber.Map{"service_code": "NOPE"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.EqualValues(t, 102, body["status"])
	assert.Equal(t, "Service or layanan not found", body["message"])
}

func TestCreateTransactionEndpoint_InsufficientBalance(t *testing.T) {
	app, _ := newTestApp(t)

	big := decimal.NewFromInt(10_000_000)
	status, body := doJSON(t, app, http.MethodPost, "/transaction", fiber.Map{
		"service_code": "PLN",
		"nominal":      big,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.EqualValues(t, 102, body["status"])
	assert.Equal(t, "Balance is not sufficient", body["message"])
}

func TestHistoryEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	for i := 0; i < 3; i++ {
		status, _ := doJSON(t, app, http.MethodPost, "/topup", fiber.Map{"top_up_amount": 1000})
		require.Equal(t, http.StatusOK, status)
	}

	status, body := doJSON(t, app, http.MethodGet, "/transaction/history?offset=0&limit=2", nil)
	assert.Equal(t, http.StatusOK, status)

	data := body["data"].(map[string]any)
	assert.EqualValues(t, 2, data["limit"])
	assert.EqualValues(t, 3, data["total"])
	assert.Len(t, data["records"], 2)
}
