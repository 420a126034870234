package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	BaseModel
	UserID            uuid.UUID               `gorm:"type:uuid;not null;index"`
	Items             []OrderItemModel        `gorm:"foreignKey:OrderID;references:ID"`
	ShippingAddress   trade.ShippingAddress   `gorm:"type:jsonb;serializer:json"`
	PaymentMethod     trade.PaymentMethod     `gorm:"type:varchar(20);not null"`
	PaymentResult     *trade.PaymentResult    `gorm:"type:jsonb;serializer:json"`
	ItemsPrice        decimal.Decimal         `gorm:"type:decimal(12,2);not null"`
	TaxPrice          decimal.Decimal         `gorm:"type:decimal(12,2);not null"`
	ShippingPrice     decimal.Decimal         `gorm:"type:decimal(12,2);not null"`
	DiscountAmount    decimal.Decimal         `gorm:"type:decimal(12,2);not null"`
	TotalPrice        decimal.Decimal         `gorm:"type:decimal(12,2);not null"`
	CouponCode        string                  `gorm:"type:varchar(20)"`
	ShippingMethod    string                  `gorm:"type:varchar(20)"`
	IsPaid            bool                    `gorm:"not null;index"`
	PaidAt            *time.Time              `gorm:"index"`
	IsDelivered       bool                    `gorm:"not null"`
	DeliveredAt       *time.Time
	Status            trade.OrderStatus       `gorm:"column:order_status;type:varchar(20);not null;index"`
	TrackingNumber    string                  `gorm:"type:varchar(100)"`
	EstimatedDelivery *time.Time
	Notes             string                  `gorm:"type:text"`
	CustomerNotes     string                  `gorm:"type:text"`
	CODAmount         decimal.Decimal         `gorm:"column:cod_amount;type:decimal(12,2);not null"`
	DeliveryAttempts  []trade.DeliveryAttempt `gorm:"type:jsonb;serializer:json"`
	StockReserved     bool                    `gorm:"not null"`
	StockCommitted    bool                    `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *trade.Order {
	o := &trade.Order{
		BaseEntity:        m.BaseModel.ToDomain(),
		UserID:            m.UserID,
		Items:             make([]trade.OrderItem, len(m.Items)),
		ShippingAddress:   m.ShippingAddress,
		PaymentMethod:     m.PaymentMethod,
		PaymentResult:     m.PaymentResult,
		ItemsPrice:        m.ItemsPrice,
		TaxPrice:          m.TaxPrice,
		ShippingPrice:     m.ShippingPrice,
		DiscountAmount:    m.DiscountAmount,
		TotalPrice:        m.TotalPrice,
		CouponCode:        m.CouponCode,
		ShippingMethod:    m.ShippingMethod,
		IsPaid:            m.IsPaid,
		PaidAt:            m.PaidAt,
		IsDelivered:       m.IsDelivered,
		DeliveredAt:       m.DeliveredAt,
		Status:            m.Status,
		TrackingNumber:    m.TrackingNumber,
		EstimatedDelivery: m.EstimatedDelivery,
		Notes:             m.Notes,
		CustomerNotes:     m.CustomerNotes,
		CODAmount:         m.CODAmount,
		DeliveryAttempts:  m.DeliveryAttempts,
		StockReserved:     m.StockReserved,
		StockCommitted:    m.StockCommitted,
	}
	for i, item := range m.Items {
		o.Items[i] = item.ToDomain()
	}
	if o.DeliveryAttempts == nil {
		o.DeliveryAttempts = []trade.DeliveryAttempt{}
	}
	return o
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.UserID = o.UserID
	m.ShippingAddress = o.ShippingAddress
	m.PaymentMethod = o.PaymentMethod
	m.PaymentResult = o.PaymentResult
	m.ItemsPrice = o.ItemsPrice
	m.TaxPrice = o.TaxPrice
	m.ShippingPrice = o.ShippingPrice
	m.DiscountAmount = o.DiscountAmount
	m.TotalPrice = o.TotalPrice
	m.CouponCode = o.CouponCode
	m.ShippingMethod = o.ShippingMethod
	m.IsPaid = o.IsPaid
	m.PaidAt = o.PaidAt
	m.IsDelivered = o.IsDelivered
	m.DeliveredAt = o.DeliveredAt
	m.Status = o.Status
	m.TrackingNumber = o.TrackingNumber
	m.EstimatedDelivery = o.EstimatedDelivery
	m.Notes = o.Notes
	m.CustomerNotes = o.CustomerNotes
	m.CODAmount = o.CODAmount
	m.DeliveryAttempts = o.DeliveryAttempts
	m.StockReserved = o.StockReserved
	m.StockCommitted = o.StockCommitted
	m.Items = make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		m.Items[i] = OrderItemModelFromDomain(o.ID, i, item)
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order entity.
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is one line snapshot of an order.
type OrderItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position  int             `gorm:"not null"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"type:varchar(100);not null"`
	Qty       int             `gorm:"not null"`
	Image     string          `gorm:"type:varchar(500)"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PriceMAD  decimal.Decimal `gorm:"column:price_mad;type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem.
func (m *OrderItemModel) ToDomain() trade.OrderItem {
	return trade.OrderItem{
		ProductID: m.ProductID,
		Name:      m.Name,
		Qty:       m.Qty,
		Image:     m.Image,
		Price:     m.Price,
		PriceMAD:  m.PriceMAD,
	}
}

// OrderItemModelFromDomain creates the item row at position of an order.
// Item IDs derive from the order ID and position, so re-saving an order is idempotent.
func OrderItemModelFromDomain(orderID uuid.UUID, position int, item trade.OrderItem) OrderItemModel {
	return OrderItemModel{
		ID:        uuid.NewSHA1(orderID, []byte{byte(position >> 8), byte(position)}),
		OrderID:   orderID,
		Position:  position,
		ProductID: item.ProductID,
		Name:      item.Name,
		Qty:       item.Qty,
		Image:     item.Image,
		Price:     item.Price,
		PriceMAD:  item.PriceMAD,
	}
}
