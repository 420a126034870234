package trade

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCouponDiscount(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		items string
		want  string
	}{
		{"maroc10 eligible", "MAROC10", "200", "20"},
		{"maroc10 below minimum", "MAROC10", "199.99", "0"},
		{"maroc20 eligible", "maroc20", "500", "100"},
		{"maroc20 below minimum", "MAROC20", "450", "0"},
		{"unknown", "FREE", "1000", "0"},
		{"empty", "", "1000", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CouponDiscount(tt.code, dec(tt.items))
			assert.True(t, got.Equal(dec(tt.want)), "got %s", got)
		})
	}
}

func TestShippingCost(t *testing.T) {
	assert.True(t, ShippingCost(ShippingStandard, "Rabat").Equal(dec("30")))
	assert.True(t, ShippingCost(ShippingStandard, "Casablanca").Equal(dec("20")))
	assert.True(t, ShippingCost("", "casablanca centre").Equal(dec("20")))
	assert.True(t, ShippingCost(ShippingExpress, "Casablanca").Equal(dec("60")))
	assert.True(t, ShippingCost(ShippingPickup, "Rabat").IsZero())
}

func TestShippingOptions(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	opts := ShippingOptions("Marrakech", now)
	assert.Len(t, opts, 3)
	assert.Equal(t, ShippingStandard, opts[0].ID)
	assert.Equal(t, now.AddDate(0, 0, 5), opts[0].EstimatedDelivery)
	assert.Equal(t, "Available next day", opts[2].EstimatedDays)
}

func TestCalculateTotals(t *testing.T) {
	totals := CalculateTotals(dec("600"), "MAROC20", ShippingStandard, "Casablanca", DefaultTaxRate)
	assert.True(t, totals.DiscountAmount.Equal(dec("120")))
	assert.True(t, totals.TaxPrice.Equal(dec("96")))
	assert.True(t, totals.ShippingPrice.Equal(dec("20")))
	assert.True(t, totals.TotalPrice.Equal(dec("596")))
}

func TestTaxRounds(t *testing.T) {
	assert.True(t, Tax(dec("10.33"), 20).Equal(dec("2.07")))
}

func TestItemsPrice(t *testing.T) {
	items := []OrderItem{{Qty: 2, PriceMAD: dec("10.50")}, {Qty: 1, PriceMAD: dec("5")}}
	assert.True(t, ItemsPrice(items).Equal(dec("26")))
}
