package invoice_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hizamruljaen123/ppob-backend/internal/core/domain"
	"github.com/hizamruljaen123/ppob-backend/internal/core/invoice"
)

func neverExists(ctx context.Context, invoiceNumber string) (bool, error) {
	return false, nil
}

func TestPrefix_Mapping(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{"PAJAK", "TAX"},
		{"PLN", "PLN"},
		{"PDAM", "PDAM"},
		{"PULSA", "PULSA"},
		{"PGN", "PGN"},
		{"MUSIK", "MUSIK"},
		{"TV", "TV"},
		{"PAKET_DATA", "DATA"},
		{"VOUCHER_GAME", "GAME"},
		{"VOUCHER_MAKANAN", "FOOD"},
		{"QURBAN", "QURBAN"},
		{"ZAKAT", "ZAKAT"},
		{"TOPUP", "INV"},
		{"SOMETHING_ELSE", "INV"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			assert.Equal(t, tt.want, invoice.Prefix(tt.kind))
		})
	}
}

func TestGenerate_Format(t *testing.T) {
	gen := invoice.NewGenerator(neverExists)

	got, err := gen.Generate(context.Background(), "PLN")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^PLN-\d{13}-\d{3}$`), got)

	got, err = gen.Generate(context.Background(), "TOPUP")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^INV-\d{13}-\d{3}$`), got)
}

func TestGenerate_RetriesOnCollision(t *testing.T) {
	// First three candidates collide, the fourth is free.
	calls := 0
	exists := func(ctx context.Context, invoiceNumber string) (bool, error) {
		calls++
		return calls <= 3, nil
	}

	gen := invoice.NewGenerator(exists)
	got, err := gen.Generate(context.Background(), "ZAKAT")
	require.NoError(t, err)
	assert.NotEmpty(t, got)
	assert.Equal(t, 4, calls)
}

func TestGenerate_Exhausted(t *testing.T) {
	alwaysTaken := func(ctx context.Context, invoiceNumber string) (bool, error) {
		return true, nil
	}

	gen := invoice.NewGenerator(alwaysTaken)
	_, err := gen.Generate(context.Background(), "PLN")
	assert.ErrorIs(t, err, domain.ErrGenerationExhausted)
}

func TestGenerate_LookupFailure(t *testing.T) {
	boom := errors.New("connection reset")
	failing := func(ctx context.Context, invoiceNumber string) (bool, error) {
		return false, boom
	}

	gen := invoice.NewGenerator(failing)
	_, err := gen.Generate(context.Background(), "PLN")

	var pe *domain.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, boom)
}
