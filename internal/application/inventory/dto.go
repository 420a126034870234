package inventory

import (
	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/inventory"
)

// CheckRequest is the body of POST /api/stock/check
type CheckRequest struct {
	Items []inventory.ReservationLine `json:"items"`
}

// CheckResponse reports availability line by line
type CheckResponse struct {
	AllAvailable bool                    `json:"allAvailable"`
	StockCheck   []inventory.CheckResult `json:"stockCheck"`
}

// OrderStockRequest names the order whose units move
type OrderStockRequest struct {
	OrderID uuid.UUID `json:"orderId" binding:"required"`
}

// OrderStockResponse is the reservation state of an order after a movement
type OrderStockResponse struct {
	Success        bool      `json:"success"`
	Message        string    `json:"message"`
	OrderID        uuid.UUID `json:"orderId"`
	StockReserved  bool      `json:"stockReserved"`
	StockCommitted bool      `json:"stockCommitted"`
}

// SetStockRequest overwrites a product's counters
type SetStockRequest struct {
	CountInStock  *int `json:"countInStock" binding:"required,min=0"`
	ReservedStock *int `json:"reservedStock" binding:"omitempty,min=0"`
}

// SetStockResponse is the product after a stock overwrite
type SetStockResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Product inventory.StockLevel `json:"product"`
}

// AlertsResponse lists products running out
type AlertsResponse struct {
	LowStock        []inventory.StockLevel `json:"lowStock"`
	OutOfStock      []inventory.StockLevel `json:"outOfStock"`
	TotalLowStock   int                    `json:"totalLowStock"`
	TotalOutOfStock int                    `json:"totalOutOfStock"`
	Threshold       int                    `json:"threshold"`
}
