// Package entity はtradesフィーチャーのドメインエンティティを定義します。
package entity

import (
	"math"
	"time"

	tagentity "trade_backend/internal/feature/tags/domain/entity"
	tickerentity "trade_backend/internal/feature/tickers/domain/entity"
)

// Side はトレードの売買方向です。
type Side string

const (
	SideBuy  Side = "Buy"
	SideSell Side = "Sell"
)

// Type はエントリー確定のトリガー方式です。
// Breakout はエントリー価格をトレードに有利な方向へ抜けたとき、
// Pullback はエントリー価格まで押し戻されたときにエントリーが確定します。
type Type string

const (
	TypeBreakout Type = "Breakout"
	TypePullback Type = "Pullback"
)

// Status はトレードプランの状態機械の状態です。
// StatusStoploss と StatusTarget は終端状態で、以後遷移しません。
type Status string

const (
	StatusActive   Status = "Active"
	StatusEntry    Status = "Entry"
	StatusStoploss Status = "Stoploss"
	StatusTarget   Status = "Target"
)

// Terminal はこれ以上遷移しない状態かどうかを返します。
func (s Status) Terminal() bool {
	return s == StatusStoploss || s == StatusTarget
}

// Timeframe はユーザーがプランを観察する時間足です。
type Timeframe string

const (
	TimeframeMinute         Timeframe = "1m"
	TimeframeFiveMinutes    Timeframe = "5m"
	TimeframeFifteenMinutes Timeframe = "15m"
	TimeframeHour           Timeframe = "1h"
	TimeframeDay            Timeframe = "1D"
	TimeframeWeek           Timeframe = "1W"
	TimeframeMonth          Timeframe = "1M"
)

// ETA は価格レベル到達までの粗い定性的見積もりです。
// 現在価格からのパーセント距離で区分されます。
type ETA string

const (
	ETAOneMinute      ETA = "1 Minute"
	ETAFiveMinutes    ETA = "5 Minutes"
	ETAFifteenMinutes ETA = "15 Minutes"
	ETAOneHour        ETA = "1 Hour"
	ETAOneDay         ETA = "1 Day"
	ETAOneWeek        ETA = "1 Week"
	ETAOneMonth       ETA = "1 Month"
	ETAFar            ETA = "Far"
)

// Trade はあるインストゥルメントに対するユーザーの方向性のあるプランです。
// Status・到達時刻・ETAはライブワーカーの評価エンジンだけが書き換えます。
type Trade struct {
	ID     string `gorm:"primaryKey;size:36"`
	Symbol string `gorm:"size:20;not null;index"`

	Side   Side   `gorm:"size:10;not null"`
	Type   Type   `gorm:"size:10;not null"`
	Status Status `gorm:"size:10;not null;default:Active"`
	Notes  string `gorm:"type:text;not null;default:''"`

	// Price levels. Stoploss and Target are optional.
	Entry    float64  `gorm:"not null"`
	Stoploss *float64 `gorm:""`
	Target   *float64 `gorm:""`

	Timeframe Timeframe `gorm:"size:4;not null;default:1D"`
	Score     *int      `gorm:""`

	// Chart coordinates (x-axis anchors for drawing the levels).
	EntryX    *time.Time
	StoplossX *time.Time
	TargetX   *time.Time

	// ETAs toward each level; recomputed per completed candle.
	EntryETA    *ETA `gorm:"size:12"`
	StoplossETA *ETA `gorm:"size:12"`
	TargetETA   *ETA `gorm:"size:12"`

	// Reached timestamps; unset for levels not yet reached.
	EntryAt    *time.Time
	StoplossAt *time.Time
	TargetAt   *time.Time

	EditedAt        *time.Time
	StatusUpdatedAt *time.Time
	UpdatedAt       *time.Time
	CreatedAt       time.Time

	UserID   uint `gorm:"not null;index"`
	TickerID uint `gorm:"not null;index"`

	Ticker *tickerentity.Ticker `gorm:"foreignKey:TickerID"`
	Tags   []tagentity.Tag      `gorm:"many2many:trade_tags;"`
}

// TableName gorm用のテーブル名です。
func (Trade) TableName() string {
	return "trades"
}

// RiskPerUnit はエントリーからストップロスまでの距離です。
// side にとってストップロスが損失側にあるとき正になるよう符号が付きます。
// ストップロス未設定の場合は nil を返します。
func (t *Trade) RiskPerUnit() *float64 {
	if t.Stoploss == nil {
		return nil
	}
	var r float64
	if t.Side == SideBuy {
		r = t.Entry - *t.Stoploss
	} else {
		r = *t.Stoploss - t.Entry
	}
	return &r
}

// RewardPerUnit はエントリーからターゲットまでの距離です。
// side にとってターゲットが利益側にあるとき正になるよう符号が付きます。
// ターゲット未設定の場合は nil を返します。
func (t *Trade) RewardPerUnit() *float64 {
	if t.Target == nil {
		return nil
	}
	var r float64
	if t.Side == SideBuy {
		r = *t.Target - t.Entry
	} else {
		r = t.Entry - *t.Target
	}
	return &r
}

// RiskRewardRatio は reward_per_unit ÷ risk_per_unit を小数第1位に丸めた値です。
// どちらかのレッグが無い、または risk_per_unit が0の場合は nil です。
func (t *Trade) RiskRewardRatio() *float64 {
	risk := t.RiskPerUnit()
	reward := t.RewardPerUnit()
	if risk == nil || reward == nil || *risk == 0 {
		return nil
	}
	ratio := math.Round(*reward / *risk * 10) / 10
	return &ratio
}
