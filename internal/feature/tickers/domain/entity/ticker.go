// Package entity はtickersフィーチャーのドメインエンティティを定義します。
package entity

import "time"

// Ticker represents a tradable instrument tracked by the system.
// It carries the stable feed subscription key (InstrumentToken) and the
// last traded price written asynchronously by the live worker.
type Ticker struct {
	// ID is the unique identifier for the ticker.
	ID uint `gorm:"primaryKey"`

	// Symbol is the exchange symbol, unique across all tickers.
	Symbol string `gorm:"size:20;not null;uniqueIndex"`

	// Exchange is the listing exchange (e.g., "NSE").
	Exchange string `gorm:"size:20;not null"`

	// InstrumentToken is the feed subscription key, unique per instrument.
	InstrumentToken uint32 `gorm:"not null;uniqueIndex"`

	// Name is the human-readable instrument name.
	Name string `gorm:"size:200;not null;index"`

	// LastPrice is the latest close observed by the live worker.
	// 完了したローソク足ごとに非同期で更新されるため、リクエスト間で
	// 安定しているとは仮定できません。
	LastPrice float64 `gorm:"not null;default:0"`

	// LastUpdated is when LastPrice was last written.
	LastUpdated time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName gorm用のテーブル名です。
func (Ticker) TableName() string {
	return "tickers"
}
