// Package adapters はtickersフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"trade_backend/internal/feature/tickers/domain/entity"
	"trade_backend/internal/feature/tickers/usecase"
)

// tickerPostgres はTickerRepositoryインターフェースのPostgreSQL実装です。
// GORMを使用してデータベース操作を行います。
type tickerPostgres struct {
	db *gorm.DB
}

// tickerPostgresがTickerRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.TickerRepository = (*tickerPostgres)(nil)

// NewTickerRepository は指定されたgorm.DB接続でtickerPostgresの新しいインスタンスを生成します。
func NewTickerRepository(db *gorm.DB) *tickerPostgres {
	return &tickerPostgres{db: db}
}

// Search はシンボルの前方一致でティッカーを検索します。大文字小文字は区別しません。
func (r *tickerPostgres) Search(ctx context.Context, prefix string, limit, offset int) ([]entity.Ticker, error) {
	var tickers []entity.Ticker
	q := r.db.WithContext(ctx).Order("symbol ASC").Limit(limit).Offset(offset)
	if prefix != "" {
		q = q.Where("LOWER(symbol) LIKE LOWER(?)", prefix+"%")
	}
	if err := q.Find(&tickers).Error; err != nil {
		return nil, err
	}
	return tickers, nil
}

// FindByID はIDでティッカーを取得します。
// ティッカーが存在しない場合、usecase.ErrTickerNotFoundを返します。
func (r *tickerPostgres) FindByID(ctx context.Context, id uint) (*entity.Ticker, error) {
	var t entity.Ticker
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrTickerNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindBySymbol はシンボルでティッカーを取得します。
func (r *tickerPostgres) FindBySymbol(ctx context.Context, symbol string) (*entity.Ticker, error) {
	var t entity.Ticker
	if err := r.db.WithContext(ctx).Where("symbol = ?", symbol).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrTickerNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List は登録済みの全ティッカーを取得します（ライブパイプラインの購読対象）。
func (r *tickerPostgres) List(ctx context.Context) ([]entity.Ticker, error) {
	var tickers []entity.Ticker
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&tickers).Error; err != nil {
		return nil, err
	}
	return tickers, nil
}

// UpdatePrice はティッカーの最新価格と更新時刻を書き込みます。
func (r *tickerPostgres) UpdatePrice(ctx context.Context, tickerID uint, price float64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&entity.Ticker{}).
		Where("id = ?", tickerID).
		Updates(map[string]interface{}{
			"last_price":   price,
			"last_updated": at,
		}).Error
}
