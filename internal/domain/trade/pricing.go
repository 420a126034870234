package trade

import (
	"strings"
	"time"

	"github.com/maroccart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the Moroccan VAT rate in percent
const DefaultTaxRate int64 = 20

// Shipping method identifiers
const (
	ShippingStandard = "standard"
	ShippingExpress  = "express"
	ShippingPickup   = "pickup"
)

type coupon struct {
	percent  int64
	minItems decimal.Decimal
}

var coupons = map[string]coupon{
	"MAROC10": {percent: 10, minItems: decimal.NewFromInt(200)},
	"MAROC20": {percent: 20, minItems: decimal.NewFromInt(500)},
}

// CouponDiscount returns the discount a coupon gives on itemsPrice.
// Unknown or ineligible codes give zero.
func CouponDiscount(code string, itemsPrice decimal.Decimal) decimal.Decimal {
	c, ok := coupons[strings.ToUpper(strings.TrimSpace(code))]
	if !ok || itemsPrice.LessThan(c.minItems) {
		return decimal.Zero
	}
	return shared.Percent(itemsPrice, c.percent)
}

// ShippingOption is one delivery choice offered at checkout
type ShippingOption struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Cost              decimal.Decimal `json:"cost"`
	EstimatedDays     string          `json:"estimatedDays"`
	EstimatedDelivery time.Time       `json:"estimatedDelivery"`
}

func isCasablanca(city string) bool {
	return strings.Contains(strings.ToLower(city), "casablanca")
}

// ShippingCost returns the price of a shipping method for a city
func ShippingCost(method, city string) decimal.Decimal {
	switch method {
	case ShippingExpress:
		return decimal.NewFromInt(60)
	case ShippingPickup:
		return decimal.Zero
	default:
		if isCasablanca(city) {
			return decimal.NewFromInt(20)
		}
		return decimal.NewFromInt(30)
	}
}

// ShippingOptions lists the delivery choices for a city, dated from now
func ShippingOptions(city string, now time.Time) []ShippingOption {
	return []ShippingOption{
		{
			ID:                ShippingStandard,
			Name:              "Standard Delivery",
			Description:       "Delivery in 3-5 business days",
			Cost:              ShippingCost(ShippingStandard, city),
			EstimatedDays:     "3-5 days",
			EstimatedDelivery: now.AddDate(0, 0, 5),
		},
		{
			ID:                ShippingExpress,
			Name:              "Express Delivery",
			Description:       "Delivery in 1-2 business days",
			Cost:              ShippingCost(ShippingExpress, city),
			EstimatedDays:     "1-2 days",
			EstimatedDelivery: now.AddDate(0, 0, 2),
		},
		{
			ID:                ShippingPickup,
			Name:              "Store Pickup",
			Description:       "Pick up from our store",
			Cost:              ShippingCost(ShippingPickup, city),
			EstimatedDays:     "Available next day",
			EstimatedDelivery: now.AddDate(0, 0, 1),
		},
	}
}

// Tax returns rate percent of amount, rounded to 2 decimals
func Tax(amount decimal.Decimal, rate int64) decimal.Decimal {
	return shared.Percent(amount, rate)
}

// CalculateTotals prices a cart: discount, then tax on the discounted items, then shipping
func CalculateTotals(itemsPrice decimal.Decimal, couponCode, shippingMethod, city string, taxRate int64) Totals {
	itemsPrice = shared.RoundMoney(itemsPrice)
	discount := CouponDiscount(couponCode, itemsPrice)
	taxable := itemsPrice.Sub(discount)
	tax := Tax(taxable, taxRate)
	shipping := ShippingCost(shippingMethod, city)
	return Totals{
		ItemsPrice:     itemsPrice,
		TaxPrice:       tax,
		ShippingPrice:  shipping,
		DiscountAmount: discount,
		TotalPrice:     shared.RoundMoney(taxable.Add(shipping).Add(tax)),
	}
}

// ItemsPrice sums the line totals
func ItemsPrice(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return shared.RoundMoney(total)
}
