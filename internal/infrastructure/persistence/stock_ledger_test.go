package persistence

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/inventory"
	"github.com/maroccart/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func lines(pairs ...any) []inventory.ReservationLine {
	out := make([]inventory.ReservationLine, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, inventory.ReservationLine{
			ProductID: pairs[i].(uuid.UUID),
			Quantity:  pairs[i+1].(int),
		})
	}
	return out
}

func stockOf(t *testing.T, ledger *GormStockLedger, id uuid.UUID) inventory.StockLevel {
	t.Helper()
	levels, err := ledger.Levels(context.Background(), []uuid.UUID{id})
	require.NoError(t, err)
	level, ok := levels[id]
	require.True(t, ok, "no stock level for %s", id)
	return level
}

func TestGormStockLedger_Reserve(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewGormStockLedger(db)
	ctx := context.Background()

	oil := createProduct(t, db, "Argan Oil", withStock(5))
	tea := createProduct(t, db, "Mint Tea", withStock(2))

	t.Run("reserves every line", func(t *testing.T) {
		require.NoError(t, ledger.Reserve(ctx, lines(oil.ID, 2, tea.ID, 1, oil.ID, 1)))

		assert.Equal(t, inventory.StockLevel{
			ProductID: oil.ID, Name: "Argan Oil", Image: oil.Image, Category: "Beauty",
			CountInStock: 2, ReservedStock: 3,
		}, stockOf(t, ledger, oil.ID))
		assert.Equal(t, 1, stockOf(t, ledger, tea.ID).CountInStock)
		assert.Equal(t, 1, stockOf(t, ledger, tea.ID).ReservedStock)
	})

	t.Run("a short line aborts the whole call", func(t *testing.T) {
		err := ledger.Reserve(ctx, lines(oil.ID, 1, tea.ID, 5))
		require.Error(t, err)
		assert.True(t, shared.IsDomainError(err, "INSUFFICIENT_STOCK"))
		assert.Equal(t, "Insufficient stock for Mint Tea. Available: 1", err.Error())

		assert.Equal(t, 2, stockOf(t, ledger, oil.ID).CountInStock)
		assert.Equal(t, 3, stockOf(t, ledger, oil.ID).ReservedStock)
	})

	t.Run("unknown product", func(t *testing.T) {
		missing := uuid.New()
		err := ledger.Reserve(ctx, lines(missing, 1))
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Contains(t, err.Error(), missing.String())
	})

	t.Run("invalid lines", func(t *testing.T) {
		assert.True(t, shared.IsDomainError(ledger.Reserve(ctx, nil), "VALIDATION_ERROR"))
		assert.True(t, shared.IsDomainError(ledger.Reserve(ctx, lines(oil.ID, 0)), "VALIDATION_ERROR"))
	})
}

func TestGormStockLedger_ConcurrentReserveNeverOversells(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewGormStockLedger(db)
	p := createProduct(t, db, "Leather Pouf", withStock(10))

	var wg sync.WaitGroup
	var succeeded, failed atomic.Int32
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ledger.Reserve(context.Background(), lines(p.ID, 1)); err != nil {
				failed.Add(1)
				return
			}
			succeeded.Add(1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(10), succeeded.Load())
	assert.Equal(t, int32(15), failed.Load())
	level := stockOf(t, ledger, p.ID)
	assert.Equal(t, 0, level.CountInStock)
	assert.Equal(t, 10, level.ReservedStock)
}

func TestGormStockLedger_ReleaseAndCommit(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewGormStockLedger(db)
	ctx := context.Background()

	p := createProduct(t, db, "Argan Oil", withStock(10))
	require.NoError(t, ledger.Reserve(ctx, lines(p.ID, 4)))

	t.Run("release returns units", func(t *testing.T) {
		require.NoError(t, ledger.Release(ctx, lines(p.ID, 1)))
		level := stockOf(t, ledger, p.ID)
		assert.Equal(t, 7, level.CountInStock)
		assert.Equal(t, 3, level.ReservedStock)
	})

	t.Run("commit removes reserved units", func(t *testing.T) {
		require.NoError(t, ledger.Commit(ctx, lines(p.ID, 2)))
		level := stockOf(t, ledger, p.ID)
		assert.Equal(t, 7, level.CountInStock)
		assert.Equal(t, 1, level.ReservedStock)
	})

	t.Run("release clamps at zero", func(t *testing.T) {
		require.NoError(t, ledger.Release(ctx, lines(p.ID, 5)))
		level := stockOf(t, ledger, p.ID)
		assert.Equal(t, 8, level.CountInStock)
		assert.Equal(t, 0, level.ReservedStock)
	})

	t.Run("commit clamps at zero", func(t *testing.T) {
		require.NoError(t, ledger.Commit(ctx, lines(p.ID, 3)))
		level := stockOf(t, ledger, p.ID)
		assert.Equal(t, 8, level.CountInStock)
		assert.Equal(t, 0, level.ReservedStock)
	})

	t.Run("unknown product", func(t *testing.T) {
		assert.ErrorIs(t, ledger.Release(ctx, lines(uuid.New(), 1)), shared.ErrNotFound)
		assert.ErrorIs(t, ledger.Commit(ctx, lines(uuid.New(), 1)), shared.ErrNotFound)
	})
}

func TestGormStockLedger_SetAndAlerts(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewGormStockLedger(db)
	ctx := context.Background()

	low := createProduct(t, db, "Rose Water", withStock(3))
	edge := createProduct(t, db, "Amlou", withStock(5))
	createProduct(t, db, "Argan Oil", withStock(50))
	out := createProduct(t, db, "Saffron", withStock(0))
	createProduct(t, db, "Old Rug", withStock(0), inactive())

	t.Run("low stock is within threshold", func(t *testing.T) {
		levels, err := ledger.LowStock(ctx, 5)
		require.NoError(t, err)
		require.Len(t, levels, 2)
		assert.Equal(t, low.ID, levels[0].ProductID)
		assert.Equal(t, edge.ID, levels[1].ProductID)
	})

	t.Run("out of stock skips inactive products", func(t *testing.T) {
		levels, err := ledger.OutOfStock(ctx)
		require.NoError(t, err)
		require.Len(t, levels, 1)
		assert.Equal(t, out.ID, levels[0].ProductID)
	})

	t.Run("set overwrites counters", func(t *testing.T) {
		require.NoError(t, ledger.Set(ctx, out.ID, 12, 2))
		level := stockOf(t, ledger, out.ID)
		assert.Equal(t, 12, level.CountInStock)
		assert.Equal(t, 2, level.ReservedStock)
	})

	t.Run("set rejects negatives and unknown products", func(t *testing.T) {
		assert.True(t, shared.IsDomainError(ledger.Set(ctx, out.ID, -1, 0), "VALIDATION_ERROR"))
		assert.ErrorIs(t, ledger.Set(ctx, uuid.New(), 1, 0), shared.ErrNotFound)
	})

	t.Run("levels omit unknown ids", func(t *testing.T) {
		levels, err := ledger.Levels(ctx, []uuid.UUID{low.ID, uuid.New()})
		require.NoError(t, err)
		assert.Len(t, levels, 1)
	})
}

// newMockStockLedger creates a GormStockLedger over a mocked postgres connection
func newMockStockLedger(t *testing.T) (*GormStockLedger, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)

	return NewGormStockLedger(gormDB), mock, mockDB
}

const reserveSQL = `UPDATE "products" SET "count_in_stock"=count_in_stock - \$1,"reserved_stock"=reserved_stock \+ \$2,"updated_at"=\$3 WHERE id = \$4 AND count_in_stock >= \$5`

func TestGormStockLedger_ReserveSQL(t *testing.T) {
	t.Run("conditional update inside a transaction", func(t *testing.T) {
		ledger, mock, mockDB := newMockStockLedger(t)
		defer mockDB.Close()

		id := uuid.New()
		mock.ExpectBegin()
		mock.ExpectExec(reserveSQL).
			WithArgs(2, 2, sqlmock.AnyArg(), id, 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, ledger.Reserve(context.Background(), lines(id, 2)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows affected rolls back", func(t *testing.T) {
		ledger, mock, mockDB := newMockStockLedger(t)
		defer mockDB.Close()

		id := uuid.New()
		mock.ExpectBegin()
		mock.ExpectExec(reserveSQL).
			WithArgs(3, 3, sqlmock.AnyArg(), id, 3).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT .* FROM "products" WHERE id = \$1`).
			WithArgs(id, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "count_in_stock"}).AddRow(id, "Argan Oil", 1))
		mock.ExpectRollback()

		err := ledger.Reserve(context.Background(), lines(id, 3))
		require.Error(t, err)
		assert.Equal(t, "Insufficient stock for Argan Oil. Available: 1", err.Error())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
