package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hrms-api/internal/application/ports"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "999.00", formatMoney("999.00"))
	assert.Equal(t, "25,000.00", formatMoney("25000.00"))
	assert.Equal(t, "1,000,000.50", formatMoney("1000000.50"))
	assert.Equal(t, "-1,200.00", formatMoney("-1200.00"))
}

func TestPaymentReceipt_GeneraPDF(t *testing.T) {
	paid := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	end := paid.AddDate(0, 0, 365)

	out, err := NewMarotoReceiptGenerator("HRMS").PaymentReceipt(ports.ReceiptData{
		CompanyName:       "Acme Ltd",
		CompanyCode:       "ACME01",
		CompanyEmail:      "billing@acme.test",
		OrderID:           "ORD-1",
		ProviderOrderID:   "order_abc",
		ProviderPaymentID: "pay_xyz",
		Amount:            decimal.RequireFromString("999"),
		Currency:          "INR",
		PaidAt:            paid,
		PlanStart:         &paid,
		PlanEnd:           &end,
	})

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
