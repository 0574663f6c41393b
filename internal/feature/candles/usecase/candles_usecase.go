// Package usecase はローソク足データ操作のビジネスロジックを実装します。
package usecase

import (
	"context"

	"trade_backend/internal/feature/candles/domain/entity"
)

const (
	// DefaultOutputSize はデフォルトのローソク足返却件数です。
	DefaultOutputSize = 20
	// MaxOutputSize はローソク足の最大返却件数です。
	MaxOutputSize = 1000
)

// CandleRepository はローソク足データの読み取りレイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type CandleRepository interface {
	// Find はデータベースからローソク足データを新しい順に検索します。
	Find(ctx context.Context, symbol string, outputsize int) ([]entity.Candle, error)
}

// candlesUsecase はローソク足データ操作のユースケースを定義します。
type candlesUsecase struct {
	candle CandleRepository
}

// NewCandlesUsecase はcandlesUsecaseの新しいインスタンスを生成します。
func NewCandlesUsecase(candle CandleRepository) *candlesUsecase {
	return &candlesUsecase{candle: candle}
}

// GetCandles は指定された銘柄の直近のローソク足データを取得します。
func (cu *candlesUsecase) GetCandles(ctx context.Context, symbol string, outputsize int) ([]entity.Candle, error) {
	if outputsize <= 0 || outputsize > MaxOutputSize {
		outputsize = DefaultOutputSize
	}
	return cu.candle.Find(ctx, symbol, outputsize)
}
