// Package usecase はティッカー検索・参照のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"strings"

	"trade_backend/internal/feature/tickers/domain/entity"
)

const (
	// DefaultLimit は検索のデフォルト返却件数です。
	DefaultLimit = 50
	// MaxLimit は検索の最大返却件数です。
	MaxLimit = 200
)

// ErrTickerNotFound is returned when a ticker cannot be found by ID or symbol.
var ErrTickerNotFound = errors.New("ticker not found")

// TickerRepository はティッカーの読み取りレイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type TickerRepository interface {
	// Search はシンボルの前方一致でティッカーを検索します。
	Search(ctx context.Context, prefix string, limit, offset int) ([]entity.Ticker, error)
	FindByID(ctx context.Context, id uint) (*entity.Ticker, error)
	FindBySymbol(ctx context.Context, symbol string) (*entity.Ticker, error)
}

// tickersUsecase はティッカー操作のユースケースを定義します。
type tickersUsecase struct {
	tickers TickerRepository
}

// NewTickersUsecase はtickersUsecaseの新しいインスタンスを生成します。
func NewTickersUsecase(tickers TickerRepository) *tickersUsecase {
	return &tickersUsecase{tickers: tickers}
}

// Search はシンボルの前方一致検索を行います。大文字小文字は区別しません。
func (u *tickersUsecase) Search(ctx context.Context, prefix string, limit, offset int) ([]entity.Ticker, error) {
	if limit <= 0 || limit > MaxLimit {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return u.tickers.Search(ctx, strings.TrimSpace(prefix), limit, offset)
}

// GetBySymbol はシンボルでティッカーを1件取得します。
func (u *tickersUsecase) GetBySymbol(ctx context.Context, symbol string) (*entity.Ticker, error) {
	return u.tickers.FindBySymbol(ctx, strings.ToUpper(strings.TrimSpace(symbol)))
}
