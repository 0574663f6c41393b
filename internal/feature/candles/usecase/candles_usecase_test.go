package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade_backend/internal/feature/candles/domain/entity"
)

// mockCandleRepository はテスト用のCandleRepositoryモック実装です。
type mockCandleRepository struct {
	findFn func(ctx context.Context, symbol string, outputsize int) ([]entity.Candle, error)
}

func (m *mockCandleRepository) Find(ctx context.Context, symbol string, outputsize int) ([]entity.Candle, error) {
	return m.findFn(ctx, symbol, outputsize)
}

func TestGetCandles_ClampsOutputSize(t *testing.T) {
	tests := []struct {
		name       string
		outputsize int
		want       int
	}{
		{"0はデフォルトへ", 0, DefaultOutputSize},
		{"負値はデフォルトへ", -1, DefaultOutputSize},
		{"上限超過はデフォルトへ", MaxOutputSize + 1, DefaultOutputSize},
		{"正常値はそのまま", 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockCandleRepository{
				findFn: func(ctx context.Context, symbol string, outputsize int) ([]entity.Candle, error) {
					assert.Equal(t, "TCS", symbol)
					assert.Equal(t, tt.want, outputsize)
					return []entity.Candle{{Symbol: symbol}}, nil
				},
			}
			u := NewCandlesUsecase(repo)

			got, err := u.GetCandles(context.Background(), "TCS", tt.outputsize)
			require.NoError(t, err)
			assert.Len(t, got, 1)
		})
	}
}
