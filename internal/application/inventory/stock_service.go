// Package inventory exposes availability checks and the reservation
// lifecycle of order stock.
package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/application/transaction"
	"github.com/maroccart/backend/internal/domain/inventory"
	"github.com/maroccart/backend/internal/domain/shared"
	"github.com/maroccart/backend/internal/domain/trade"
	"github.com/maroccart/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DefaultAlertThreshold is the stock level at or under which a product is low
const DefaultAlertThreshold = 5

// Stock operation names used in logs and metrics
const (
	opReserve  = "reserve"
	opRelease  = "release"
	opComplete = "complete"
	opSet      = "set"
)

// StockService moves stock between available, reserved and sold
type StockService struct {
	ledger    inventory.StockLedger
	scope     transaction.Scope
	threshold int
	metrics   *telemetry.Metrics
	logger    *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(ledger inventory.StockLedger, scope transaction.Scope, threshold int, logger *zap.Logger) *StockService {
	if threshold <= 0 {
		threshold = DefaultAlertThreshold
	}
	return &StockService{
		ledger:    ledger,
		scope:     scope,
		threshold: threshold,
		logger:    logger,
	}
}

// SetMetrics sets the Prometheus collectors for stock movements
func (s *StockService) SetMetrics(m *telemetry.Metrics) {
	s.metrics = m
}

// Check reports, line by line, whether the requested quantities are available
func (s *StockService) Check(ctx context.Context, req CheckRequest) (*CheckResponse, error) {
	ids := make([]uuid.UUID, len(req.Items))
	for i, it := range req.Items {
		ids[i] = it.ProductID
	}
	levels, err := s.ledger.Levels(ctx, ids)
	if err != nil {
		return nil, err
	}

	resp := &CheckResponse{AllAvailable: true, StockCheck: make([]inventory.CheckResult, 0, len(req.Items))}
	for _, it := range req.Items {
		result := inventory.CheckResult{ProductID: it.ProductID, RequestedQuantity: it.Quantity}
		lvl, ok := levels[it.ProductID]
		if !ok {
			result.Message = "Product not found"
		} else {
			result.Name = lvl.Name
			result.AvailableStock = lvl.CountInStock
			result.Available = lvl.CountInStock >= it.Quantity
			result.Message = inventory.AvailabilityMessage(lvl.CountInStock, it.Quantity)
		}
		if !result.Available {
			resp.AllAvailable = false
		}
		resp.StockCheck = append(resp.StockCheck, result)
	}
	return resp, nil
}

// Reserve holds every line of the order, or none of them
func (s *StockService) Reserve(ctx context.Context, orderID uuid.UUID) (*OrderStockResponse, error) {
	return s.move(ctx, opReserve, orderID, "Stock reserved successfully", func(ctx context.Context, repos transaction.Repositories, o *trade.Order) error {
		if err := o.MarkStockReserved(); err != nil {
			return err
		}
		return repos.Stock().Reserve(ctx, o.Lines())
	})
}

// Release returns the order's held units to available stock
func (s *StockService) Release(ctx context.Context, orderID uuid.UUID) (*OrderStockResponse, error) {
	return s.move(ctx, opRelease, orderID, "Stock released successfully", func(ctx context.Context, repos transaction.Repositories, o *trade.Order) error {
		if err := o.MarkStockReleased(); err != nil {
			return err
		}
		return repos.Stock().Release(ctx, o.Lines())
	})
}

// Complete removes the order's held units; the sale is final
func (s *StockService) Complete(ctx context.Context, orderID uuid.UUID) (*OrderStockResponse, error) {
	return s.move(ctx, opComplete, orderID, "Stock updated successfully", func(ctx context.Context, repos transaction.Repositories, o *trade.Order) error {
		if err := o.MarkStockCommitted(); err != nil {
			return err
		}
		return repos.Stock().Commit(ctx, o.Lines())
	})
}

// move applies one ledger movement and the matching order flag in one transaction
func (s *StockService) move(
	ctx context.Context,
	op string,
	orderID uuid.UUID,
	message string,
	apply func(ctx context.Context, repos transaction.Repositories, o *trade.Order) error,
) (*OrderStockResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock", op,
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, orderID.String()))
	defer span.End()

	var order *trade.Order
	err := s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		o, err := repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("NOT_FOUND", "Order not found")
			}
			return err
		}
		if err := apply(ctx, repos, o); err != nil {
			return err
		}
		order = o
		return repos.Orders().Save(ctx, o)
	})
	s.metrics.StockOperation(op, err)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Warn("Stock operation failed", zap.String("operation", op),
			zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, err
	}
	telemetry.SetOK(span)
	s.logger.Info("Stock operation applied", zap.String("operation", op), zap.String("order_id", orderID.String()))

	return &OrderStockResponse{
		Success:        true,
		Message:        message,
		OrderID:        order.ID,
		StockReserved:  order.StockReserved,
		StockCommitted: order.StockCommitted,
	}, nil
}

// Alerts lists active products at or under the threshold and those sold out
func (s *StockService) Alerts(ctx context.Context) (*AlertsResponse, error) {
	low, err := s.ledger.LowStock(ctx, s.threshold)
	if err != nil {
		return nil, err
	}
	out, err := s.ledger.OutOfStock(ctx)
	if err != nil {
		return nil, err
	}
	if low == nil {
		low = []inventory.StockLevel{}
	}
	if out == nil {
		out = []inventory.StockLevel{}
	}
	return &AlertsResponse{
		LowStock:        low,
		OutOfStock:      out,
		TotalLowStock:   len(low),
		TotalOutOfStock: len(out),
		Threshold:       s.threshold,
	}, nil
}

// Set overwrites a product's counters and returns them
func (s *StockService) Set(ctx context.Context, productID uuid.UUID, req SetStockRequest) (*SetStockResponse, error) {
	if req.CountInStock == nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "countInStock is required")
	}
	reserved := 0
	if req.ReservedStock != nil {
		reserved = *req.ReservedStock
	}
	err := s.ledger.Set(ctx, productID, *req.CountInStock, reserved)
	s.metrics.StockOperation(opSet, err)
	if err != nil {
		if shared.IsDomainError(err, "NOT_FOUND") {
			return nil, shared.NewDomainError("NOT_FOUND", "Product not found")
		}
		return nil, err
	}
	levels, err := s.ledger.Levels(ctx, []uuid.UUID{productID})
	if err != nil {
		return nil, err
	}
	return &SetStockResponse{
		Success: true,
		Message: "Stock updated successfully",
		Product: levels[productID],
	}, nil
}
