// Package adapters はtradesフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	tagentity "trade_backend/internal/feature/tags/domain/entity"
	"trade_backend/internal/feature/trades/domain/entity"
	"trade_backend/internal/feature/trades/usecase"
)

// tradePostgres はTradeRepositoryインターフェースのPostgreSQL実装です。
// GORMを使用してデータベース操作を行います。
type tradePostgres struct {
	db *gorm.DB
}

// コンパイル時のインターフェース実装検証。
var (
	_ usecase.TradeRepository = (*tradePostgres)(nil)
	_ usecase.TradeStore      = (*tradePostgres)(nil)
)

// NewTradeRepository は指定されたgorm.DB接続でtradePostgresの新しいインスタンスを生成します。
func NewTradeRepository(db *gorm.DB) *tradePostgres {
	return &tradePostgres{db: db}
}

// Create はトレードをタグの関連付けと共に永続化します。
func (r *tradePostgres) Create(ctx context.Context, t *entity.Trade) error {
	return r.db.WithContext(ctx).Omit("Ticker").Create(t).Error
}

// Update はトレード本体の全フィールドを書き込みます。関連は変更しません。
func (r *tradePostgres) Update(ctx context.Context, t *entity.Trade) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(t).Error
}

// ReplaceTags はトレードのタグ集合を丸ごと置き換えます。
// 外れたタグの行自体は残ります（他のトレードから参照され得るため）。
func (r *tradePostgres) ReplaceTags(ctx context.Context, t *entity.Trade, tags []tagentity.Tag) error {
	return r.db.WithContext(ctx).Model(t).Association("Tags").Replace(tags)
}

// Delete はユーザー所有のトレードを削除します。
// 見つからない場合、usecase.ErrTradeNotFoundを返します。
func (r *tradePostgres) Delete(ctx context.Context, id string, userID uint) error {
	trade, err := r.FindByID(ctx, id, userID)
	if err != nil {
		return err
	}
	// 中間テーブルの行も一緒に消す
	return r.db.WithContext(ctx).Select("Tags").Delete(trade).Error
}

// FindByID はユーザー所有のトレードを関連付きで取得します。
// 他ユーザーのトレードは見つからない扱いで、usecase.ErrTradeNotFoundを返します。
func (r *tradePostgres) FindByID(ctx context.Context, id string, userID uint) (*entity.Trade, error) {
	var t entity.Trade
	err := r.db.WithContext(ctx).
		Preload("Ticker").
		Preload("Tags").
		Where("id = ? AND user_id = ?", id, userID).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrTradeNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List はユーザーのトレード一覧をフィルタ付きで取得します（更新の新しい順）。
func (r *tradePostgres) List(ctx context.Context, userID uint, f usecase.ListFilter) ([]entity.Trade, error) {
	q := r.db.WithContext(ctx).
		Preload("Ticker").
		Preload("Tags").
		Where("user_id = ?", userID).
		Order("created_at DESC")

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Symbol != "" {
		q = q.Where("LOWER(symbol) LIKE LOWER(?)", "%"+f.Symbol+"%")
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}

	var trades []entity.Trade
	if err := q.Find(&trades).Error; err != nil {
		return nil, err
	}
	return trades, nil
}

// ListOpenByTicker は評価対象（終端状態でない）のトレードを全ユーザー分取得します。
func (r *tradePostgres) ListOpenByTicker(ctx context.Context, tickerID uint) ([]*entity.Trade, error) {
	var trades []*entity.Trade
	err := r.db.WithContext(ctx).
		Where("ticker_id = ? AND status IN ?", tickerID, []entity.Status{entity.StatusActive, entity.StatusEntry}).
		Find(&trades).Error
	if err != nil {
		return nil, err
	}
	return trades, nil
}

// Save は評価エンジンが書き換えた状態・到達時刻・ETAを永続化します。
func (r *tradePostgres) Save(ctx context.Context, t *entity.Trade) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(t).Error
}
