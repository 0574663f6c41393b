// Package adapters はcandlesフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"trade_backend/internal/feature/candles/domain/entity"
	"trade_backend/internal/feature/candles/usecase"
	"trade_backend/internal/platform/cache"
)

type candlePostgres struct {
	db *gorm.DB
}

var (
	_ usecase.CandleRepository = (*candlePostgres)(nil)
	_ cache.CandleStore        = (*candlePostgres)(nil)
)

// NewCandleRepository は指定されたgorm.DB接続でcandlePostgresの新しいインスタンスを生成します。
func NewCandleRepository(db *gorm.DB) *candlePostgres {
	return &candlePostgres{db: db}
}

// CandleModel はローソク足の永続化モデルです。
type CandleModel struct {
	ID     uint      `gorm:"primaryKey"`
	Token  uint32    `gorm:"not null;index"`
	Symbol string    `gorm:"size:32;not null;uniqueIndex:candle_sym_time,priority:1"`
	Time   time.Time `gorm:"not null;uniqueIndex:candle_sym_time,priority:2"`

	Open      float64 `gorm:"not null"`
	High      float64 `gorm:"not null"`
	Low       float64 `gorm:"not null"`
	Close     float64 `gorm:"not null"`
	Volume    int64   `gorm:"not null;default:0"`
	TickCount int     `gorm:"not null;default:0"`
}

func (CandleModel) TableName() string {
	return "candles"
}

func toModel(e entity.Candle) CandleModel {
	return CandleModel{
		Token:     e.Token,
		Symbol:    e.Symbol,
		Time:      e.Time,
		Open:      e.Open,
		High:      e.High,
		Low:       e.Low,
		Close:     e.Close,
		Volume:    e.Volume,
		TickCount: e.TickCount,
	}
}

func toEntity(m CandleModel) entity.Candle {
	return entity.Candle{
		Token:     m.Token,
		Symbol:    m.Symbol,
		Time:      m.Time,
		Open:      m.Open,
		High:      m.High,
		Low:       m.Low,
		Close:     m.Close,
		Volume:    m.Volume,
		TickCount: m.TickCount,
	}
}

// UpsertBatch は完了足をまとめて永続化します。同一銘柄・同一時刻の行は上書きします。
func (r *candlePostgres) UpsertBatch(ctx context.Context, candles []entity.Candle) error {
	if len(candles) == 0 {
		return nil
	}
	ms := make([]CandleModel, 0, len(candles))
	for _, e := range candles {
		ms = append(ms, toModel(e))
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "time"}},
		DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "volume", "tick_count"}),
	}).Create(&ms).Error
}

// Find は銘柄のローソク足を新しい順に検索します。
func (r *candlePostgres) Find(ctx context.Context, symbol string, outputsize int) ([]entity.Candle, error) {
	var rows []CandleModel
	q := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("time DESC")
	if outputsize > 0 {
		q = q.Limit(outputsize)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Candle, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}
