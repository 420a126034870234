package persistence

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/catalog"
	"github.com/maroccart/backend/internal/domain/inventory"
	"github.com/maroccart/backend/internal/domain/shared"
	"github.com/maroccart/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStockLedger implements inventory.StockLedger with conditional updates on the products table
type GormStockLedger struct {
	db *gorm.DB
}

// NewGormStockLedger creates a new GormStockLedger
func NewGormStockLedger(db *gorm.DB) *GormStockLedger {
	return &GormStockLedger{db: db}
}

// orderedLines merges duplicate products and sorts by ID so concurrent
// movements touch rows in the same order.
func orderedLines(lines []inventory.ReservationLine) []inventory.ReservationLine {
	merged := inventory.MergeLines(lines)
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].ProductID.String() < merged[j].ProductID.String()
	})
	return merged
}

func productNotFound(id uuid.UUID) error {
	return shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Product not found: %s", id))
}

// Reserve moves quantities from countInStock to reservedStock for every line or for none
func (l *GormStockLedger) Reserve(ctx context.Context, lines []inventory.ReservationLine) error {
	if err := inventory.ValidateLines(lines); err != nil {
		return err
	}
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, line := range orderedLines(lines) {
			result := tx.Model(&models.ProductModel{}).
				Where("id = ? AND count_in_stock >= ?", line.ProductID, line.Quantity).
				Updates(map[string]any{
					"count_in_stock": gorm.Expr("count_in_stock - ?", line.Quantity),
					"reserved_stock": gorm.Expr("reserved_stock + ?", line.Quantity),
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return reserveFailure(tx, line.ProductID)
			}
		}
		return nil
	})
}

// reserveFailure explains why a guarded reservation matched no row
func reserveFailure(tx *gorm.DB, id uuid.UUID) error {
	var m models.ProductModel
	err := tx.Select("id", "name", "count_in_stock").First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return productNotFound(id)
		}
		return err
	}
	p := catalog.Product{Name: m.Name, CountInStock: m.CountInStock}
	return p.InsufficientStockError()
}

// Release returns reserved quantities to countInStock.
// A line that asks for more than is reserved releases what is left.
func (l *GormStockLedger) Release(ctx context.Context, lines []inventory.ReservationLine) error {
	if err := inventory.ValidateLines(lines); err != nil {
		return err
	}
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, line := range orderedLines(lines) {
			result := tx.Model(&models.ProductModel{}).
				Where("id = ? AND reserved_stock >= ?", line.ProductID, line.Quantity).
				Updates(map[string]any{
					"count_in_stock": gorm.Expr("count_in_stock + ?", line.Quantity),
					"reserved_stock": gorm.Expr("reserved_stock - ?", line.Quantity),
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected > 0 {
				continue
			}
			clamp := tx.Model(&models.ProductModel{}).
				Where("id = ? AND reserved_stock < ?", line.ProductID, line.Quantity).
				Updates(map[string]any{
					"count_in_stock": gorm.Expr("count_in_stock + reserved_stock"),
					"reserved_stock": 0,
				})
			if clamp.Error != nil {
				return clamp.Error
			}
			if clamp.RowsAffected == 0 {
				return productNotFound(line.ProductID)
			}
		}
		return nil
	})
}

// Commit removes sold quantities from reservedStock, never going below zero
func (l *GormStockLedger) Commit(ctx context.Context, lines []inventory.ReservationLine) error {
	if err := inventory.ValidateLines(lines); err != nil {
		return err
	}
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, line := range orderedLines(lines) {
			result := tx.Model(&models.ProductModel{}).
				Where("id = ? AND reserved_stock >= ?", line.ProductID, line.Quantity).
				Update("reserved_stock", gorm.Expr("reserved_stock - ?", line.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected > 0 {
				continue
			}
			clamp := tx.Model(&models.ProductModel{}).
				Where("id = ? AND reserved_stock < ?", line.ProductID, line.Quantity).
				Update("reserved_stock", 0)
			if clamp.Error != nil {
				return clamp.Error
			}
			if clamp.RowsAffected == 0 {
				return productNotFound(line.ProductID)
			}
		}
		return nil
	})
}

// Set overwrites both stock counters of a product
func (l *GormStockLedger) Set(ctx context.Context, productID uuid.UUID, countInStock, reservedStock int) error {
	if countInStock < 0 || reservedStock < 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Stock values cannot be negative")
	}
	result := l.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("id = ?", productID).
		Updates(map[string]any{
			"count_in_stock": countInStock,
			"reserved_stock": reservedStock,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return productNotFound(productID)
	}
	return nil
}

func (l *GormStockLedger) levels(query *gorm.DB) ([]inventory.StockLevel, error) {
	var ms []models.ProductModel
	if err := query.
		Select("id", "name", "image", "category", "count_in_stock", "reserved_stock").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	levels := make([]inventory.StockLevel, len(ms))
	for i, m := range ms {
		levels[i] = inventory.StockLevel{
			ProductID:     m.ID,
			Name:          m.Name,
			Image:         m.Image,
			Category:      m.Category,
			CountInStock:  m.CountInStock,
			ReservedStock: m.ReservedStock,
		}
	}
	return levels, nil
}

// Levels returns the counters of the given products keyed by ID; unknown IDs are absent
func (l *GormStockLedger) Levels(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]inventory.StockLevel, error) {
	out := make(map[uuid.UUID]inventory.StockLevel, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	levels, err := l.levels(l.db.WithContext(ctx).Where("id IN ?", productIDs))
	if err != nil {
		return nil, err
	}
	for _, lvl := range levels {
		out[lvl.ProductID] = lvl
	}
	return out, nil
}

// LowStock returns active products with 0 < countInStock <= threshold, scarcest first
func (l *GormStockLedger) LowStock(ctx context.Context, threshold int) ([]inventory.StockLevel, error) {
	return l.levels(l.db.WithContext(ctx).
		Where("is_active = ? AND count_in_stock > 0 AND count_in_stock <= ?", true, threshold).
		Order("count_in_stock ASC, name ASC"))
}

// OutOfStock returns active products with nothing available
func (l *GormStockLedger) OutOfStock(ctx context.Context) ([]inventory.StockLevel, error) {
	return l.levels(l.db.WithContext(ctx).
		Where("is_active = ? AND count_in_stock = 0", true).
		Order("name ASC"))
}

var _ inventory.StockLedger = (*GormStockLedger)(nil)
