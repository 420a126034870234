package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/shared"
	"github.com/maroccart/backend/internal/domain/trade"
	"github.com/maroccart/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// withItems preloads order lines in their original position
func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

func toOrders(ms []models.OrderModel) []trade.Order {
	orders := make([]trade.Order, len(ms))
	for i := range ms {
		orders[i] = *ms[i].ToDomain()
	}
	return orders
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var m models.OrderModel
	if err := r.db.WithContext(ctx).Scopes(withItems).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindByUser returns the user's orders, newest first
func (r *GormOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]trade.Order, error) {
	var ms []models.OrderModel
	if err := r.db.WithContext(ctx).Scopes(withItems).
		Where("user_id = ?", userID).
		Order("created_at DESC, id ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	return toOrders(ms), nil
}

// FindAll returns one page of orders and the total count.
// filter.Filters may carry "status" (trade.OrderStatus or string) and "is_paid" (bool).
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{})
	if status, ok := filter.Filters["status"]; ok && status != "" {
		query = query.Where("order_status = ?", status)
	}
	if paid, ok := filter.Filters["is_paid"].(bool); ok {
		query = query.Where("is_paid = ?", paid)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	query = query.Scopes(withItems).Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).Order("id ASC")
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var ms []models.OrderModel
	if err := query.Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	return toOrders(ms), total, nil
}

// FindRecent returns the latest orders
func (r *GormOrderRepository) FindRecent(ctx context.Context, limit int) ([]trade.Order, error) {
	var ms []models.OrderModel
	if err := r.db.WithContext(ctx).Scopes(withItems).
		Order("created_at DESC, id ASC").
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}
	return toOrders(ms), nil
}

// HasPaidOrderWithProduct reports whether the user paid for an order containing the product
func (r *GormOrderRepository) HasPaidOrderWithProduct(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Where("orders.user_id = ? AND orders.is_paid = ? AND order_items.product_id = ?", userID, true, productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an order. Line items are written once and never rewritten.
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	m := models.OrderModelFromDomain(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(m).Error; err != nil {
			return translateError(err)
		}
		if len(m.Items) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&m.Items).Error
	})
}

var _ trade.OrderRepository = (*GormOrderRepository)(nil)
