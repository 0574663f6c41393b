package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"trade_backend/internal/feature/candles/domain/entity"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&CandleModel{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

func makeCandle(symbol string, at time.Time, close float64) entity.Candle {
	return entity.Candle{
		Token:     1,
		Symbol:    symbol,
		Time:      at,
		Open:      close - 1,
		High:      close + 1,
		Low:       close - 2,
		Close:     close,
		Volume:    100,
		TickCount: 3,
	}
}

func TestCandlePostgres_UpsertBatch(t *testing.T) {
	t.Run("inserts new candles", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewCandleRepository(db)

		base := time.Date(2025, 6, 16, 10, 0, 0, 0, time.UTC)
		err := repo.UpsertBatch(context.Background(), []entity.Candle{
			makeCandle("RELIANCE", base, 100),
			makeCandle("RELIANCE", base.Add(5*time.Second), 101),
		})
		require.NoError(t, err)

		got, err := repo.Find(context.Background(), "RELIANCE", 10)
		require.NoError(t, err)
		require.Len(t, got, 2)
		// 新しい順
		assert.Equal(t, 101.0, got[0].Close)
		assert.Equal(t, 100.0, got[1].Close)
	})

	t.Run("overwrites existing window", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewCandleRepository(db)

		base := time.Date(2025, 6, 16, 10, 0, 0, 0, time.UTC)
		require.NoError(t, repo.UpsertBatch(context.Background(), []entity.Candle{
			makeCandle("TCS", base, 500),
		}))
		require.NoError(t, repo.UpsertBatch(context.Background(), []entity.Candle{
			makeCandle("TCS", base, 502),
		}))

		got, err := repo.Find(context.Background(), "TCS", 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 502.0, got[0].Close)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewCandleRepository(db)

		assert.NoError(t, repo.UpsertBatch(context.Background(), nil))
	})
}

func TestCandlePostgres_Find(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCandleRepository(db)

	base := time.Date(2025, 6, 16, 10, 0, 0, 0, time.UTC)
	var candles []entity.Candle
	for i := 0; i < 5; i++ {
		candles = append(candles, makeCandle("INFY", base.Add(time.Duration(i)*5*time.Second), float64(100+i)))
	}
	require.NoError(t, repo.UpsertBatch(context.Background(), candles))

	t.Run("respects limit", func(t *testing.T) {
		got, err := repo.Find(context.Background(), "INFY", 3)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, 104.0, got[0].Close)
	})

	t.Run("unknown symbol returns empty", func(t *testing.T) {
		got, err := repo.Find(context.Background(), "UNKNOWN", 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
