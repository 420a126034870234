package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/shared"
	"github.com/maroccart/backend/internal/domain/trade"
	"github.com/maroccart/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormOrderRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "Karim Idrissi", "karim@example.ma")
	oil := createProduct(t, db, "Argan Oil")
	tea := createProduct(t, db, "Mint Tea")
	order := createOrder(t, db, user.ID, tea, oil)

	t.Run("items keep their position", func(t *testing.T) {
		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		require.Len(t, found.Items, 2)
		assert.Equal(t, tea.ID, found.Items[0].ProductID)
		assert.Equal(t, oil.ID, found.Items[1].ProductID)
		assert.Equal(t, "Rabat", found.ShippingAddress.City)
		assert.Equal(t, trade.DefaultCountry, found.ShippingAddress.Country)
		assert.Equal(t, trade.OrderStatusPending, found.Status)
		assert.True(t, found.TotalPrice.Equal(order.TotalPrice))
		assert.Empty(t, found.DeliveryAttempts)
	})

	t.Run("updating does not duplicate items", func(t *testing.T) {
		require.NoError(t, order.MarkPaid(&trade.PaymentResult{ID: "pay_1", Status: "COMPLETED"}))
		require.NoError(t, order.AddDeliveryAttempt(trade.DeliveryAttempted, "Customer not home"))
		require.NoError(t, repo.Save(ctx, order))

		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.True(t, found.IsPaid)
		assert.Equal(t, trade.OrderStatusConfirmed, found.Status)
		require.NotNil(t, found.PaymentResult)
		assert.Equal(t, "pay_1", found.PaymentResult.ID)
		require.Len(t, found.DeliveryAttempts, 1)
		assert.Len(t, found.Items, 2)

		var itemCount int64
		require.NoError(t, db.Model(&models.OrderItemModel{}).Where("order_id = ?", order.ID).Count(&itemCount).Error)
		assert.Equal(t, int64(2), itemCount)
	})

	t.Run("missing order is not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("paid order with product", func(t *testing.T) {
		ok, err := repo.HasPaidOrderWithProduct(ctx, user.ID, oil.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.HasPaidOrderWithProduct(ctx, uuid.New(), oil.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestGormOrderRepository_Listing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	alice := createUser(t, db, "Alice Martin", "alice@example.ma")
	bob := createUser(t, db, "Bob Durand", "bob@example.ma")
	p := createProduct(t, db, "Argan Oil")

	base := time.Now().Add(-time.Hour)
	var ids []uuid.UUID
	for i, userID := range []uuid.UUID{alice.ID, bob.ID, alice.ID} {
		o := createOrder(t, db, userID, p)
		o.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if i == 1 {
			require.NoError(t, o.Cancel())
		}
		require.NoError(t, repo.Save(ctx, o))
		ids = append(ids, o.ID)
	}

	t.Run("by user newest first", func(t *testing.T) {
		orders, err := repo.FindByUser(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, ids[2], orders[0].ID)
		assert.Equal(t, ids[0], orders[1].ID)
		assert.Len(t, orders[0].Items, 1)
	})

	t.Run("find all paginates", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.PageSize = 2
		filter.Page = 2

		orders, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, orders, 1)
		assert.Equal(t, ids[0], orders[0].ID)
	})

	t.Run("find all filters by status", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["status"] = trade.OrderStatusCancelled

		orders, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, orders, 1)
		assert.Equal(t, ids[1], orders[0].ID)
	})

	t.Run("recent orders", func(t *testing.T) {
		orders, err := repo.FindRecent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, ids[2], orders[0].ID)
	})
}
