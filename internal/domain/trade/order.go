package trade

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/inventory"
	"github.com/maroccart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultCountry is used when a shipping address omits the country
const DefaultCountry = "Morocco"

var phonePattern = regexp.MustCompile(`^[0-9\s\-\+\(\)]+$`)

// OrderStatus represents the fulfilment status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusProcessing || target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusProcessing:
		return target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusDelivered
	case OrderStatusDelivered, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// PaymentMethod is how the customer settles the order
type PaymentMethod string

const (
	PaymentCOD          PaymentMethod = "cod"
	PaymentCard         PaymentMethod = "card"
	PaymentPaypal       PaymentMethod = "paypal"
	PaymentCashplus     PaymentMethod = "cashplus"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentWafaCash     PaymentMethod = "wafa_cash"
)

// IsValid checks if the method is one the store accepts
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCOD, PaymentCard, PaymentPaypal, PaymentCashplus, PaymentBankTransfer, PaymentWafaCash:
		return true
	}
	return false
}

// PaymentMethods lists every accepted method
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentCOD, PaymentCard, PaymentPaypal, PaymentCashplus, PaymentBankTransfer, PaymentWafaCash}
}

// OrderItem is a denormalised snapshot of a purchased product
type OrderItem struct {
	ProductID uuid.UUID       `json:"product"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	PriceMAD  decimal.Decimal `json:"priceMAD"`
}

// LineTotal returns price * qty
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.PriceMAD.Mul(decimal.NewFromInt(int64(i.Qty)))
}

// ShippingAddress is where the order is delivered
type ShippingAddress struct {
	Address          string `json:"address"`
	City             string `json:"city"`
	PostalCode       string `json:"postalCode"`
	Country          string `json:"country"`
	Phone            string `json:"phone"`
	AlternativePhone string `json:"alternativePhone,omitempty"`
	Landmark         string `json:"landmark,omitempty"`
}

// MissingFields lists the required fields that are blank.
// Order of the result follows address, city, postalCode, country, phone.
func (a ShippingAddress) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(a.Address) == "" {
		missing = append(missing, "address")
	}
	if strings.TrimSpace(a.City) == "" {
		missing = append(missing, "city")
	}
	if strings.TrimSpace(a.PostalCode) == "" {
		missing = append(missing, "postalCode")
	}
	if strings.TrimSpace(a.Country) == "" {
		missing = append(missing, "country")
	}
	if strings.TrimSpace(a.Phone) == "" {
		missing = append(missing, "phone")
	}
	return missing
}

// Validate checks field shapes for order placement
func (a ShippingAddress) Validate() error {
	if n := utf8.RuneCountInString(strings.TrimSpace(a.Address)); n < 5 || n > 200 {
		return shared.NewDomainError("VALIDATION_ERROR", "Address must be between 5 and 200 characters")
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(a.City)); n < 2 || n > 50 {
		return shared.NewDomainError("VALIDATION_ERROR", "City must be between 2 and 50 characters")
	}
	if err := ValidatePhone(a.Phone); err != nil {
		return err
	}
	return nil
}

// ValidatePhone accepts 8-15 digits, spaces, dashes, plus signs and parentheses
func ValidatePhone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return shared.NewDomainError("VALIDATION_ERROR", "Please enter a valid phone number")
	}
	if n := len(phone); n < 8 || n > 15 {
		return shared.NewDomainError("VALIDATION_ERROR", "Phone number must be between 8 and 15 characters")
	}
	return nil
}

// PaymentResult is what the payment provider reported
type PaymentResult struct {
	ID            string `json:"id,omitempty"`
	Status        string `json:"status,omitempty"`
	UpdateTime    string `json:"update_time,omitempty"`
	EmailAddress  string `json:"email_address,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
}

// DeliveryStatus is the outcome of a courier visit
type DeliveryStatus string

const (
	DeliveryAttempted   DeliveryStatus = "attempted"
	DeliveryFailed      DeliveryStatus = "failed"
	DeliveryRescheduled DeliveryStatus = "rescheduled"
)

// DeliveryAttempt records one courier visit
type DeliveryAttempt struct {
	Date   time.Time      `json:"date"`
	Status DeliveryStatus `json:"status"`
	Notes  string         `json:"notes,omitempty"`
}

// Totals holds the monetary breakdown of an order
type Totals struct {
	ItemsPrice     decimal.Decimal
	TaxPrice       decimal.Decimal
	ShippingPrice  decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalPrice     decimal.Decimal
}

// Order is a customer purchase
type Order struct {
	shared.BaseEntity
	UserID            uuid.UUID
	Items             []OrderItem
	ShippingAddress   ShippingAddress
	PaymentMethod     PaymentMethod
	PaymentResult     *PaymentResult
	ItemsPrice        decimal.Decimal
	TaxPrice          decimal.Decimal
	ShippingPrice     decimal.Decimal
	DiscountAmount    decimal.Decimal
	TotalPrice        decimal.Decimal
	CouponCode        string
	ShippingMethod    string
	IsPaid            bool
	PaidAt            *time.Time
	IsDelivered       bool
	DeliveredAt       *time.Time
	Status            OrderStatus
	TrackingNumber    string
	EstimatedDelivery *time.Time
	Notes             string
	CustomerNotes     string
	CODAmount         decimal.Decimal
	DeliveryAttempts  []DeliveryAttempt
	StockReserved     bool
	StockCommitted    bool
}

// NewOrder creates a pending order from item snapshots
func NewOrder(userID uuid.UUID, items []OrderItem, addr ShippingAddress, method PaymentMethod, totals Totals) (*Order, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError("NO_ORDER_ITEMS", "No order items")
	}
	for _, it := range items {
		if it.Qty < 1 {
			return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Quantity for %s must be at least 1", it.Name))
		}
	}
	if method == "" {
		method = PaymentCOD
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid payment method")
	}
	if strings.TrimSpace(addr.Country) == "" {
		addr.Country = DefaultCountry
	}

	o := &Order{
		BaseEntity:      shared.NewBaseEntity(),
		UserID:          userID,
		Items:           items,
		ShippingAddress: addr,
		PaymentMethod:   method,
		ItemsPrice:      totals.ItemsPrice,
		TaxPrice:        totals.TaxPrice,
		ShippingPrice:   totals.ShippingPrice,
		DiscountAmount:  totals.DiscountAmount,
		TotalPrice:      totals.TotalPrice,
		Status:          OrderStatusPending,
	}
	if method == PaymentCOD {
		o.CODAmount = totals.TotalPrice
	}
	return o, nil
}

// IsOwnedBy reports whether userID placed the order
func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o.UserID == userID
}

// Lines returns the stock lines of the order
func (o *Order) Lines() []inventory.ReservationLine {
	lines := make([]inventory.ReservationLine, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, inventory.ReservationLine{ProductID: it.ProductID, Quantity: it.Qty})
	}
	return inventory.MergeLines(lines)
}

// MarkPaid records a successful payment
func (o *Order) MarkPaid(result *PaymentResult) error {
	if o.IsPaid {
		return shared.NewDomainError("INVALID_STATE", "Order is already paid")
	}
	if o.Status == OrderStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot pay a cancelled order")
	}
	now := time.Now()
	o.IsPaid = true
	o.PaidAt = &now
	o.PaymentResult = result
	if o.Status == OrderStatusPending {
		o.Status = OrderStatusConfirmed
	}
	o.UpdatedAt = now
	return nil
}

// MarkDelivered records the hand-over to the customer
func (o *Order) MarkDelivered() error {
	if o.IsDelivered {
		return shared.NewDomainError("INVALID_STATE", "Order is already delivered")
	}
	if o.Status == OrderStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot deliver a cancelled order")
	}
	now := time.Now()
	o.IsDelivered = true
	o.DeliveredAt = &now
	o.Status = OrderStatusDelivered
	o.UpdatedAt = now
	return nil
}

// Cancel cancels the order before it ships
func (o *Order) Cancel() error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	o.Status = OrderStatusCancelled
	o.Touch()
	return nil
}

// UpdateStatus moves the order along the fulfilment chain
func (o *Order) UpdateStatus(target OrderStatus, trackingNumber string) error {
	if !target.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", "Invalid order status")
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot change order status from %s to %s", o.Status, target))
	}
	if target == OrderStatusDelivered {
		return o.MarkDelivered()
	}
	o.Status = target
	if trackingNumber != "" {
		o.TrackingNumber = trackingNumber
	}
	o.Touch()
	return nil
}

// AddDeliveryAttempt appends a courier visit to a shipped order
func (o *Order) AddDeliveryAttempt(status DeliveryStatus, notes string) error {
	if o.Status != OrderStatusShipped {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot record a delivery attempt for an order in %s status", o.Status))
	}
	switch status {
	case DeliveryAttempted, DeliveryFailed, DeliveryRescheduled:
	default:
		return shared.NewDomainError("VALIDATION_ERROR", "Invalid delivery attempt status")
	}
	o.DeliveryAttempts = append(o.DeliveryAttempts, DeliveryAttempt{Date: time.Now(), Status: status, Notes: notes})
	o.Touch()
	return nil
}

// MarkStockReserved flags that the order's units are held. Cancelled and
// delivered orders never hold stock.
func (o *Order) MarkStockReserved() error {
	if o.Status == OrderStatusCancelled || o.Status == OrderStatusDelivered {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reserve stock for a %s order", o.Status))
	}
	if o.StockReserved || o.StockCommitted {
		return shared.NewDomainError("INVALID_STATE", "Stock is already reserved for this order")
	}
	o.StockReserved = true
	o.Touch()
	return nil
}

// MarkStockReleased flags that held units went back to available stock
func (o *Order) MarkStockReleased() error {
	if !o.StockReserved || o.StockCommitted {
		return shared.NewDomainError("INVALID_STATE", "No reserved stock to release for this order")
	}
	o.StockReserved = false
	o.Touch()
	return nil
}

// MarkStockCommitted flags that held units were sold
func (o *Order) MarkStockCommitted() error {
	if !o.StockReserved || o.StockCommitted {
		return shared.NewDomainError("INVALID_STATE", "No reserved stock to complete for this order")
	}
	o.StockCommitted = true
	o.Touch()
	return nil
}

// HoldsReservation reports whether units are reserved but not yet sold
func (o *Order) HoldsReservation() bool {
	return o.StockReserved && !o.StockCommitted
}
