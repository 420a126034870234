package trade

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/application/transaction"
	"github.com/maroccart/backend/internal/domain/catalog"
	"github.com/maroccart/backend/internal/domain/inventory"
	"github.com/maroccart/backend/internal/domain/shared"
	"github.com/maroccart/backend/internal/domain/trade"
	"github.com/maroccart/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CheckoutService prices carts and turns them into orders holding reserved stock
type CheckoutService struct {
	productRepo catalog.ProductRepository
	scope       transaction.Scope
	taxRate     int64
	now         func() time.Time
	metrics     *telemetry.Metrics
	logger      *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(productRepo catalog.ProductRepository, scope transaction.Scope, taxRate int64, logger *zap.Logger) *CheckoutService {
	if taxRate <= 0 {
		taxRate = trade.DefaultTaxRate
	}
	return &CheckoutService{
		productRepo: productRepo,
		scope:       scope,
		taxRate:     taxRate,
		now:         time.Now,
		logger:      logger,
	}
}

// SetMetrics sets the Prometheus collectors for checkout outcomes
func (s *CheckoutService) SetMetrics(m *telemetry.Metrics) {
	s.metrics = m
}

func errEmptyCart() error {
	return shared.NewDomainError("VALIDATION_ERROR", "No items in cart")
}

// Process validates the cart, snapshots prices and stores the order.
// The stock reservation and the order insert commit or roll back together.
func (s *CheckoutService) Process(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "Process",
		telemetry.WithAttribute(telemetry.SpanAttrUserID, userID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrItemCount, len(req.cart())))
	defer span.End()

	order, err := s.process(ctx, userID, req)
	if err != nil {
		telemetry.RecordError(span, err)
		s.metrics.CheckoutFailed(failureReason(err))
		s.logger.Warn("Checkout failed", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrOrderID, order.ID.String())
	telemetry.SetAttribute(span, telemetry.SpanAttrAmount, order.TotalPrice.String())
	telemetry.SetOK(span)

	s.metrics.OrderCreated(order.TotalPrice)
	s.metrics.StockOperation("reserve", nil)
	s.logger.Info("Checkout completed",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("total", order.TotalPrice.String()))

	resp := ToOrderResponse(order)
	return &resp, nil
}

func (s *CheckoutService) process(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*trade.Order, error) {
	lines, err := cartLines(req.cart())
	if err != nil {
		return nil, err
	}
	addr := req.address()
	if missing := addr.MissingFields(); len(missing) > 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR",
			"Missing required fields: "+strings.Join(missing, ", "))
	}
	shippingMethod := req.ShippingMethod
	if shippingMethod == "" {
		shippingMethod = trade.ShippingStandard
	}

	var order *trade.Order
	err = s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		items, err := snapshotItems(ctx, repos.Products(), lines)
		if err != nil {
			return err
		}
		totals := trade.CalculateTotals(trade.ItemsPrice(items), req.CouponCode, shippingMethod, addr.City, s.taxRate)
		order, err = trade.NewOrder(userID, items, addr, trade.PaymentMethod(req.PaymentMethod), totals)
		if err != nil {
			return err
		}
		if !totals.DiscountAmount.IsZero() {
			order.CouponCode = strings.ToUpper(strings.TrimSpace(req.CouponCode))
		}
		order.ShippingMethod = shippingMethod

		if err := repos.Stock().Reserve(ctx, order.Lines()); err != nil {
			return err
		}
		if err := order.MarkStockReserved(); err != nil {
			return err
		}
		return repos.Orders().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// cartLines rejects empty carts and merges repeated products
func cartLines(cart []CartItem) ([]inventory.ReservationLine, error) {
	if len(cart) == 0 {
		return nil, errEmptyCart()
	}
	lines := make([]inventory.ReservationLine, len(cart))
	for i, it := range cart {
		lines[i] = inventory.ReservationLine{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	if err := inventory.ValidateLines(lines); err != nil {
		return nil, err
	}
	return inventory.MergeLines(lines), nil
}

// snapshotItems copies name, image and priceMAD from the catalog for every line
func snapshotItems(ctx context.Context, products catalog.ProductRepository, lines []inventory.ReservationLine) ([]trade.OrderItem, error) {
	byID, err := productsByID(ctx, products, lines)
	if err != nil {
		return nil, err
	}
	items := make([]trade.OrderItem, 0, len(lines))
	for _, l := range lines {
		p, ok := byID[l.ProductID]
		if !ok || !p.IsActive {
			return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Product not found: %s", l.ProductID))
		}
		if !p.CanFulfil(l.Quantity) {
			return nil, p.InsufficientStockError()
		}
		items = append(items, trade.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Qty:       l.Quantity,
			Image:     p.Image,
			Price:     p.PriceMAD,
			PriceMAD:  p.PriceMAD,
		})
	}
	return items, nil
}

func productsByID(ctx context.Context, products catalog.ProductRepository, lines []inventory.ReservationLine) (map[uuid.UUID]*catalog.Product, error) {
	ids := make([]uuid.UUID, len(lines))
	for i, l := range lines {
		ids[i] = l.ProductID
	}
	found, err := products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}
	return byID, nil
}

func failureReason(err error) string {
	for _, code := range []string{"VALIDATION_ERROR", "NOT_FOUND", "INSUFFICIENT_STOCK", "NO_ORDER_ITEMS"} {
		if shared.IsDomainError(err, code) {
			return strings.ToLower(code)
		}
	}
	return "internal"
}

// Validate reports per-line and address problems without touching stock
func (s *CheckoutService) Validate(ctx context.Context, req CheckoutRequest) (*ValidationResponse, error) {
	cart := req.cart()
	if len(cart) == 0 {
		return nil, errEmptyCart()
	}
	lines := make([]inventory.ReservationLine, len(cart))
	for i, it := range cart {
		lines[i] = inventory.ReservationLine{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	byID, err := productsByID(ctx, s.productRepo, lines)
	if err != nil {
		return nil, err
	}

	resp := &ValidationResponse{
		Items:          make([]ValidatedItem, 0, len(cart)),
		EstimatedTotal: decimal.Zero,
	}
	allValid := true
	for _, it := range cart {
		item := ValidatedItem{ProductID: it.ProductID, Requested: it.Quantity, Issues: []string{}}
		p, ok := byID[it.ProductID]
		if !ok || !p.IsActive {
			item.Issues = append(item.Issues, "Product not found")
			resp.Items = append(resp.Items, item)
			allValid = false
			continue
		}
		item.Name = p.Name
		item.Price = p.PriceMAD
		item.Available = p.CountInStock
		if p.CountInStock < it.Quantity {
			item.Issues = append(item.Issues, p.StockMessage(it.Quantity))
		}
		if it.Quantity <= 0 {
			item.Issues = append(item.Issues, "Quantity must be greater than 0")
		}
		item.Valid = len(item.Issues) == 0
		if item.Valid {
			resp.EstimatedTotal = resp.EstimatedTotal.Add(p.PriceMAD.Mul(decimal.NewFromInt(int64(it.Quantity))))
		} else {
			allValid = false
		}
		resp.Items = append(resp.Items, item)
	}
	resp.EstimatedTotal = shared.RoundMoney(resp.EstimatedTotal)

	resp.ShippingAddress = AddressValidation{Valid: true, Issues: []string{}}
	switch missing := req.address().MissingFields(); {
	case req.ShippingAddress == nil:
		resp.ShippingAddress = AddressValidation{Issues: []string{"Shipping address is required"}}
	case len(missing) > 0:
		resp.ShippingAddress = AddressValidation{Issues: []string{"Missing: " + strings.Join(missing, ", ")}}
	}
	resp.Valid = allValid && resp.ShippingAddress.Valid
	return resp, nil
}

// ShippingOptions lists the delivery choices for city
func (s *CheckoutService) ShippingOptions(city string) ShippingOptionsResponse {
	return ShippingOptionsResponse{ShippingOptions: trade.ShippingOptions(city, s.now())}
}

// Tax returns the VAT due on amount
func (s *CheckoutService) Tax(amount string) (*TaxResponse, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil || value.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Valid amount is required")
	}
	tax := trade.Tax(value, s.taxRate)
	return &TaxResponse{
		TaxRate:      s.taxRate,
		TaxAmount:    tax,
		TotalWithTax: shared.RoundMoney(value.Add(tax)),
	}, nil
}
