package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade_backend/internal/feature/tickers/domain/entity"
)

// mockTickerRepository はテスト用のTickerRepositoryモック実装です。
type mockTickerRepository struct {
	searchFn       func(ctx context.Context, prefix string, limit, offset int) ([]entity.Ticker, error)
	findByIDFn     func(ctx context.Context, id uint) (*entity.Ticker, error)
	findBySymbolFn func(ctx context.Context, symbol string) (*entity.Ticker, error)
}

func (m *mockTickerRepository) Search(ctx context.Context, prefix string, limit, offset int) ([]entity.Ticker, error) {
	return m.searchFn(ctx, prefix, limit, offset)
}

func (m *mockTickerRepository) FindByID(ctx context.Context, id uint) (*entity.Ticker, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockTickerRepository) FindBySymbol(ctx context.Context, symbol string) (*entity.Ticker, error) {
	return m.findBySymbolFn(ctx, symbol)
}

func TestTickersSearch_ClampsAndTrims(t *testing.T) {
	tests := []struct {
		name       string
		prefix     string
		limit      int
		offset     int
		wantPrefix string
		wantLimit  int
		wantOffset int
	}{
		{"デフォルト適用", " rel ", 0, -5, "rel", DefaultLimit, 0},
		{"上限超過はデフォルトへ", "rel", 1000, 0, "rel", DefaultLimit, 0},
		{"正常値はそのまま", "rel", 25, 50, "rel", 25, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockTickerRepository{
				searchFn: func(ctx context.Context, prefix string, limit, offset int) ([]entity.Ticker, error) {
					assert.Equal(t, tt.wantPrefix, prefix)
					assert.Equal(t, tt.wantLimit, limit)
					assert.Equal(t, tt.wantOffset, offset)
					return []entity.Ticker{{ID: 1, Symbol: "RELIANCE"}}, nil
				},
			}
			u := NewTickersUsecase(repo)

			got, err := u.Search(context.Background(), tt.prefix, tt.limit, tt.offset)
			require.NoError(t, err)
			assert.Len(t, got, 1)
		})
	}
}

func TestTickersGetBySymbol_Normalizes(t *testing.T) {
	repo := &mockTickerRepository{
		findBySymbolFn: func(ctx context.Context, symbol string) (*entity.Ticker, error) {
			assert.Equal(t, "RELIANCE", symbol)
			return &entity.Ticker{ID: 1, Symbol: "RELIANCE"}, nil
		},
	}
	u := NewTickersUsecase(repo)

	got, err := u.GetBySymbol(context.Background(), " reliance ")
	require.NoError(t, err)
	assert.Equal(t, "RELIANCE", got.Symbol)
}
