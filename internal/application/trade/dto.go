package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/shared"
	"github.com/maroccart/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// OrderItemRequest is one line of a client-built order.
// The product id may be sent as "product" or "_id".
type OrderItemRequest struct {
	Product  *uuid.UUID      `json:"product"`
	ID       *uuid.UUID      `json:"_id"`
	Name     string          `json:"name"`
	Qty      int             `json:"qty"`
	Image    string          `json:"image"`
	Price    decimal.Decimal `json:"price"`
	PriceMAD decimal.Decimal `json:"priceMAD"`
}

func (r OrderItemRequest) productID() uuid.UUID {
	switch {
	case r.Product != nil:
		return *r.Product
	case r.ID != nil:
		return *r.ID
	}
	return uuid.Nil
}

// ShippingAddressRequest is the delivery address of an order
type ShippingAddressRequest struct {
	Address          string `json:"address"`
	City             string `json:"city"`
	PostalCode       string `json:"postalCode"`
	Country          string `json:"country"`
	Phone            string `json:"phone"`
	AlternativePhone string `json:"alternativePhone"`
	Landmark         string `json:"landmark"`
}

func (r OrderItemRequest) toDomain() trade.OrderItem {
	priceMAD := r.PriceMAD
	if priceMAD.IsZero() {
		priceMAD = r.Price
	}
	return trade.OrderItem{
		ProductID: r.productID(),
		Name:      r.Name,
		Qty:       r.Qty,
		Image:     r.Image,
		Price:     r.Price,
		PriceMAD:  priceMAD,
	}
}

func (r ShippingAddressRequest) toDomain() trade.ShippingAddress {
	return trade.ShippingAddress{
		Address:          r.Address,
		City:             r.City,
		PostalCode:       r.PostalCode,
		Country:          r.Country,
		Phone:            r.Phone,
		AlternativePhone: r.AlternativePhone,
		Landmark:         r.Landmark,
	}
}

// CreateOrderRequest is the body of POST /api/orders
type CreateOrderRequest struct {
	OrderItems      []OrderItemRequest     `json:"orderItems"`
	ShippingAddress ShippingAddressRequest `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod" binding:"omitempty,paymentmethod"`
	ItemsPrice      *decimal.Decimal       `json:"itemsPrice"`
	TaxPrice        *decimal.Decimal       `json:"taxPrice"`
	ShippingPrice   *decimal.Decimal       `json:"shippingPrice"`
	TotalPrice      *decimal.Decimal       `json:"totalPrice"`
	CustomerNotes   string                 `json:"customerNotes" binding:"max=500"`
}

// PayOrderRequest carries the payment provider's result
type PayOrderRequest struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

// UpdateStatusRequest moves an order along the fulfilment chain
type UpdateStatusRequest struct {
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"trackingNumber"`
}

// DeliveryAttemptRequest records one courier visit
type DeliveryAttemptRequest struct {
	Status string `json:"status" binding:"required,oneof=attempted failed rescheduled"`
	Notes  string `json:"notes" binding:"max=500"`
}

// CartItem is one line of a checkout cart
type CartItem struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

// legacyCartItem is the cart line shape of older clients
type legacyCartItem struct {
	Product uuid.UUID `json:"product"`
	Qty     int       `json:"qty"`
}

// CheckoutRequest is the body of the checkout endpoints.
// Older clients send orderItems[{product, qty}] instead of items.
type CheckoutRequest struct {
	Items           []CartItem              `json:"items"`
	OrderItems      []legacyCartItem        `json:"orderItems"`
	ShippingAddress *ShippingAddressRequest `json:"shippingAddress"`
	PaymentMethod   string                  `json:"paymentMethod" binding:"omitempty,paymentmethod"`
	CouponCode      string                  `json:"couponCode"`
	ShippingMethod  string                  `json:"shippingMethod" binding:"omitempty,oneof=standard express pickup"`
}

func (r CheckoutRequest) cart() []CartItem {
	if len(r.Items) > 0 || len(r.OrderItems) == 0 {
		return r.Items
	}
	items := make([]CartItem, len(r.OrderItems))
	for i, it := range r.OrderItems {
		items[i] = CartItem{ProductID: it.Product, Quantity: it.Qty}
	}
	return items
}

func (r CheckoutRequest) address() trade.ShippingAddress {
	if r.ShippingAddress == nil {
		return trade.ShippingAddress{}
	}
	return r.ShippingAddress.toDomain()
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID                uuid.UUID               `json:"_id"`
	User              uuid.UUID               `json:"user"`
	OrderItems        []trade.OrderItem       `json:"orderItems"`
	ShippingAddress   trade.ShippingAddress   `json:"shippingAddress"`
	PaymentMethod     trade.PaymentMethod     `json:"paymentMethod"`
	PaymentResult     *trade.PaymentResult    `json:"paymentResult,omitempty"`
	ItemsPrice        decimal.Decimal         `json:"itemsPrice"`
	TaxPrice          decimal.Decimal         `json:"taxPrice"`
	ShippingPrice     decimal.Decimal         `json:"shippingPrice"`
	DiscountAmount    decimal.Decimal         `json:"discountAmount"`
	TotalPrice        decimal.Decimal         `json:"totalPrice"`
	CouponCode        string                  `json:"couponCode,omitempty"`
	ShippingMethod    string                  `json:"shippingMethod,omitempty"`
	IsPaid            bool                    `json:"isPaid"`
	PaidAt            *time.Time              `json:"paidAt,omitempty"`
	IsDelivered       bool                    `json:"isDelivered"`
	DeliveredAt       *time.Time              `json:"deliveredAt,omitempty"`
	OrderStatus       trade.OrderStatus       `json:"orderStatus"`
	TrackingNumber    string                  `json:"trackingNumber,omitempty"`
	EstimatedDelivery *time.Time              `json:"estimatedDelivery,omitempty"`
	CustomerNotes     string                  `json:"customerNotes,omitempty"`
	CODAmount         decimal.Decimal         `json:"codAmount"`
	DeliveryAttempts  []trade.DeliveryAttempt `json:"deliveryAttempts"`
	StockReserved     bool                    `json:"stockReserved"`
	StockCommitted    bool                    `json:"stockCommitted"`
	CreatedAt         time.Time               `json:"createdAt"`
	UpdatedAt         time.Time               `json:"updatedAt"`
}

// ToOrderResponse converts a domain order to a response
func ToOrderResponse(o *trade.Order) OrderResponse {
	attempts := o.DeliveryAttempts
	if attempts == nil {
		attempts = []trade.DeliveryAttempt{}
	}
	return OrderResponse{
		ID:                o.ID,
		User:              o.UserID,
		OrderItems:        o.Items,
		ShippingAddress:   o.ShippingAddress,
		PaymentMethod:     o.PaymentMethod,
		PaymentResult:     o.PaymentResult,
		ItemsPrice:        o.ItemsPrice,
		TaxPrice:          o.TaxPrice,
		ShippingPrice:     o.ShippingPrice,
		DiscountAmount:    o.DiscountAmount,
		TotalPrice:        o.TotalPrice,
		CouponCode:        o.CouponCode,
		ShippingMethod:    o.ShippingMethod,
		IsPaid:            o.IsPaid,
		PaidAt:            o.PaidAt,
		IsDelivered:       o.IsDelivered,
		DeliveredAt:       o.DeliveredAt,
		OrderStatus:       o.Status,
		TrackingNumber:    o.TrackingNumber,
		EstimatedDelivery: o.EstimatedDelivery,
		CustomerNotes:     o.CustomerNotes,
		CODAmount:         o.CODAmount,
		DeliveryAttempts:  attempts,
		StockReserved:     o.StockReserved,
		StockCommitted:    o.StockCommitted,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of domain orders
func ToOrderResponses(orders []trade.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out
}

// OrderListResponse is one page of all orders
type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Page   int             `json:"page"`
	Pages  int             `json:"pages"`
	Total  int64           `json:"total"`
}

// ValidatedItem reports whether one cart line can be ordered
type ValidatedItem struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Available int             `json:"available"`
	Requested int             `json:"requested"`
	Valid     bool            `json:"valid"`
	Issues    []string        `json:"issues"`
}

// AddressValidation reports the problems of a shipping address
type AddressValidation struct {
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues"`
}

// ValidationResponse is the dry-run result of a checkout
type ValidationResponse struct {
	Valid           bool              `json:"valid"`
	Items           []ValidatedItem   `json:"items"`
	ShippingAddress AddressValidation `json:"shippingAddress"`
	EstimatedTotal  decimal.Decimal   `json:"estimatedTotal"`
}

// TaxResponse is the tax due on an amount
type TaxResponse struct {
	TaxRate      int64           `json:"taxRate"`
	TaxAmount    decimal.Decimal `json:"taxAmount"`
	TotalWithTax decimal.Decimal `json:"totalWithTax"`
}

// ListOrdersQuery pages through every order
type ListOrdersQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
	Status   string `form:"status"`
}

func (q ListOrdersQuery) toFilter() shared.Filter {
	f := shared.DefaultFilter()
	if q.Page > 1 {
		f.Page = q.Page
	}
	if q.PageSize > 0 {
		f.PageSize = min(q.PageSize, maxPageSize)
	}
	if q.Status != "" {
		f.Filters["status"] = q.Status
	}
	return f
}

// ShippingOptionsResponse lists the delivery choices for a city
type ShippingOptionsResponse struct {
	ShippingOptions []trade.ShippingOption `json:"shippingOptions"`
}
