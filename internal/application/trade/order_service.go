package trade

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/application/transaction"
	"github.com/maroccart/backend/internal/domain/shared"
	"github.com/maroccart/backend/internal/domain/trade"
	"github.com/maroccart/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

const maxPageSize = 100

// OrderService handles the order lifecycle
type OrderService struct {
	orderRepo trade.OrderRepository
	scope     transaction.Scope
	taxRate   int64
	metrics   *telemetry.Metrics
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo trade.OrderRepository, scope transaction.Scope, taxRate int64, logger *zap.Logger) *OrderService {
	if taxRate <= 0 {
		taxRate = trade.DefaultTaxRate
	}
	return &OrderService{
		orderRepo: orderRepo,
		scope:     scope,
		taxRate:   taxRate,
		logger:    logger,
	}
}

// SetMetrics sets the Prometheus collectors for order counts
func (s *OrderService) SetMetrics(m *telemetry.Metrics) {
	s.metrics = m
}

func orderNotFound() error {
	return shared.NewDomainError("NOT_FOUND", "Order not found")
}

func orderForbidden() error {
	return shared.NewDomainError("FORBIDDEN", "Not authorized to access this order")
}

// Create stores a client-built order snapshot. Stock is not reserved here.
func (s *OrderService) Create(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "Create",
		telemetry.WithAttribute(telemetry.SpanAttrUserID, userID),
		telemetry.WithAttribute(telemetry.SpanAttrItemCount, len(req.OrderItems)))
	defer span.End()

	order, err := s.create(ctx, userID, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrOrderID, order.ID)
	telemetry.SetAttribute(span, telemetry.SpanAttrAmount, order.TotalPrice)
	telemetry.SetOK(span)

	s.metrics.OrderCreated(order.TotalPrice)
	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("total", order.TotalPrice.String()))

	resp := ToOrderResponse(order)
	return &resp, nil
}

func (s *OrderService) create(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (*trade.Order, error) {
	if len(req.OrderItems) == 0 {
		return nil, shared.NewDomainError("NO_ORDER_ITEMS", "No order items")
	}
	items := make([]trade.OrderItem, len(req.OrderItems))
	for i, it := range req.OrderItems {
		items[i] = it.toDomain()
		if items[i].ProductID == uuid.Nil {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Product ID is required")
		}
	}
	addr := req.ShippingAddress.toDomain()
	if err := addr.Validate(); err != nil {
		return nil, err
	}

	order, err := trade.NewOrder(userID, items, addr, trade.PaymentMethod(req.PaymentMethod), s.snapshotTotals(req, items))
	if err != nil {
		return nil, err
	}
	order.CustomerNotes = req.CustomerNotes

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// snapshotTotals keeps the client's totals when given and prices the items otherwise
func (s *OrderService) snapshotTotals(req CreateOrderRequest, items []trade.OrderItem) trade.Totals {
	if req.TotalPrice == nil {
		return trade.CalculateTotals(trade.ItemsPrice(items), "", trade.ShippingStandard, req.ShippingAddress.City, s.taxRate)
	}
	totals := trade.Totals{TotalPrice: *req.TotalPrice}
	if req.ItemsPrice != nil {
		totals.ItemsPrice = *req.ItemsPrice
	} else {
		totals.ItemsPrice = trade.ItemsPrice(items)
	}
	if req.TaxPrice != nil {
		totals.TaxPrice = *req.TaxPrice
	}
	if req.ShippingPrice != nil {
		totals.ShippingPrice = *req.ShippingPrice
	}
	return totals
}

// MyOrders returns the caller's orders, newest first
func (s *OrderService) MyOrders(ctx context.Context, userID uuid.UUID) ([]OrderResponse, error) {
	orders, err := s.orderRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders), nil
}

// GetByID returns an order visible to the caller
func (s *OrderService) GetByID(ctx context.Context, id, userID uuid.UUID, isAdmin bool) (*OrderResponse, error) {
	order, err := findAccessible(ctx, s.orderRepo, id, userID, isAdmin)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// findAccessible loads an order owned by userID, or any order for an admin
func findAccessible(ctx context.Context, repo trade.OrderRepository, id, userID uuid.UUID, isAdmin bool) (*trade.Order, error) {
	order, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, orderNotFound()
		}
		return nil, err
	}
	if !isAdmin && !order.IsOwnedBy(userID) {
		return nil, orderForbidden()
	}
	return order, nil
}

// Pay marks the order paid, sells its reserved units and credits the buyer's loyalty counters
func (s *OrderService) Pay(ctx context.Context, id, userID uuid.UUID, isAdmin bool, req PayOrderRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "Pay",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, id.String()))
	defer span.End()

	var paid *trade.Order
	err := s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		order, err := findAccessible(ctx, repos.Orders(), id, userID, isAdmin)
		if err != nil {
			return err
		}
		if err := order.MarkPaid(&trade.PaymentResult{
			ID:           req.ID,
			Status:       req.Status,
			UpdateTime:   req.UpdateTime,
			EmailAddress: req.EmailAddress,
		}); err != nil {
			return err
		}
		if err := commitHeld(ctx, repos, order); err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, order); err != nil {
			return err
		}

		buyer, err := repos.Users().FindByID(ctx, order.UserID)
		if err != nil {
			return err
		}
		buyer.RecordPurchase(order.TotalPrice)
		if err := repos.Users().Save(ctx, buyer); err != nil {
			return err
		}
		paid = order
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetOK(span)
	s.metrics.OrderPaid()
	s.logger.Info("Order paid", zap.String("order_id", id.String()), zap.String("total", paid.TotalPrice.String()))

	resp := ToOrderResponse(paid)
	return &resp, nil
}

// commitHeld turns units the order still holds into sold units
func commitHeld(ctx context.Context, repos transaction.Repositories, order *trade.Order) error {
	if !order.HoldsReservation() {
		return nil
	}
	if err := repos.Stock().Commit(ctx, order.Lines()); err != nil {
		return err
	}
	return order.MarkStockCommitted()
}

// Deliver marks the order delivered. A cash-on-delivery sale is final at hand-over.
func (s *OrderService) Deliver(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	var delivered *trade.Order
	err := s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		order, err := findAccessible(ctx, repos.Orders(), id, uuid.Nil, true)
		if err != nil {
			return err
		}
		if err := order.MarkDelivered(); err != nil {
			return err
		}
		if err := commitHeld(ctx, repos, order); err != nil {
			return err
		}
		delivered = order
		return repos.Orders().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(delivered)
	return &resp, nil
}

// Cancel cancels an order that has not shipped and returns any units it still holds
func (s *OrderService) Cancel(ctx context.Context, id, userID uuid.UUID, isAdmin bool) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "Cancel",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, id),
		telemetry.WithAttribute(telemetry.SpanAttrUserID, userID))
	defer span.End()

	var cancelled *trade.Order
	err := s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		order, err := findAccessible(ctx, repos.Orders(), id, userID, isAdmin)
		if err != nil {
			return err
		}
		if err := cancelOrder(ctx, repos, order); err != nil {
			return err
		}
		cancelled = order
		return repos.Orders().Save(ctx, order)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrOrderStatus, cancelled.Status)
	telemetry.SetOK(span)
	s.logger.Info("Order cancelled", zap.String("order_id", id.String()))
	resp := ToOrderResponse(cancelled)
	return &resp, nil
}

func cancelOrder(ctx context.Context, repos transaction.Repositories, order *trade.Order) error {
	if err := order.Cancel(); err != nil {
		return err
	}
	if !order.HoldsReservation() {
		return nil
	}
	if err := repos.Stock().Release(ctx, order.Lines()); err != nil {
		return err
	}
	return order.MarkStockReleased()
}

// UpdateStatus moves the order to status. Cancelling releases held stock
// and delivering sells it, as Cancel and Deliver do.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	target := trade.OrderStatus(req.Status)
	var updated *trade.Order
	err := s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		order, err := findAccessible(ctx, repos.Orders(), id, uuid.Nil, true)
		if err != nil {
			return err
		}
		if target == trade.OrderStatusCancelled {
			err = cancelOrder(ctx, repos, order)
		} else {
			err = order.UpdateStatus(target, req.TrackingNumber)
		}
		if err != nil {
			return err
		}
		if target == trade.OrderStatusDelivered {
			if err := commitHeld(ctx, repos, order); err != nil {
				return err
			}
		}
		updated = order
		return repos.Orders().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Order status updated", zap.String("order_id", id.String()), zap.String("status", string(updated.Status)))
	resp := ToOrderResponse(updated)
	return &resp, nil
}

// AddDeliveryAttempt records a courier visit on a shipped order
func (s *OrderService) AddDeliveryAttempt(ctx context.Context, id uuid.UUID, req DeliveryAttemptRequest) (*OrderResponse, error) {
	order, err := findAccessible(ctx, s.orderRepo, id, uuid.Nil, true)
	if err != nil {
		return nil, err
	}
	if err := order.AddDeliveryAttempt(trade.DeliveryStatus(req.Status), req.Notes); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.logger.Info("Delivery attempt recorded", zap.String("order_id", id.String()), zap.String("status", req.Status))
	resp := ToOrderResponse(order)
	return &resp, nil
}

// ListAll returns one page of every order
func (s *OrderService) ListAll(ctx context.Context, query ListOrdersQuery) (*OrderListResponse, error) {
	filter := query.toFilter()
	orders, total, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &OrderListResponse{
		Orders: ToOrderResponses(orders),
		Page:   filter.Page,
		Pages:  shared.TotalPages(total, filter.PageSize),
		Total:  total,
	}, nil
}
