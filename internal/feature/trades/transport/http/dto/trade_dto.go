// Package dto はtradesフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"time"

	"trade_backend/internal/feature/trades/domain/entity"
	"trade_backend/internal/feature/trades/usecase"
)

// CreateTradeReq はPOST /tradesのリクエストボディを表します。
// sideとtimeframeは省略可能で、省略時はサーバー側で推定・補完されます。
type CreateTradeReq struct {
	TickerID  uint       `json:"ticker_id" binding:"required"`
	Entry     float64    `json:"entry" binding:"required"`
	Stoploss  *float64   `json:"stoploss"`
	Target    *float64   `json:"target"`
	Side      string     `json:"side" binding:"omitempty,oneof=Buy Sell"`
	Notes     string     `json:"notes"`
	Timeframe string     `json:"timeframe" binding:"omitempty,oneof=1m 5m 15m 1h 1D 1W 1M"`
	Score     *int       `json:"score" binding:"omitempty,min=0,max=10"`
	EntryX    *time.Time `json:"entry_x"`
	StoplossX *time.Time `json:"stoploss_x"`
	TargetX   *time.Time `json:"target_x"`
	Tags      []string   `json:"tags"`
}

// UpdateTradeReq はPATCH /trades/:idのリクエストボディを表します。
// nilのフィールドは変更されません。
type UpdateTradeReq struct {
	Notes     *string    `json:"notes"`
	Entry     *float64   `json:"entry"`
	Stoploss  *float64   `json:"stoploss"`
	Target    *float64   `json:"target"`
	Timeframe *string    `json:"timeframe" binding:"omitempty,oneof=1m 5m 15m 1h 1D 1W 1M"`
	Score     *int       `json:"score" binding:"omitempty,min=0,max=10"`
	EntryX    *time.Time `json:"entry_x"`
	StoplossX *time.Time `json:"stoploss_x"`
	TargetX   *time.Time `json:"target_x"`
	Tags      *[]string  `json:"tags"`
}

// TradeResponse はトレード1件のレスポンス表現です。
// リスク・リワード系の値はレスポンス生成時に計算されます。
type TradeResponse struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Side   string `json:"side"`
	Type   string `json:"type"`
	Status string `json:"status"`
	Notes  string `json:"notes"`

	Entry    float64  `json:"entry"`
	Stoploss *float64 `json:"stoploss"`
	Target   *float64 `json:"target"`

	Timeframe string `json:"timeframe"`
	Score     *int   `json:"score"`

	EntryX    *time.Time `json:"entry_x"`
	StoplossX *time.Time `json:"stoploss_x"`
	TargetX   *time.Time `json:"target_x"`

	EntryETA    *string `json:"entry_eta"`
	StoplossETA *string `json:"stoploss_eta"`
	TargetETA   *string `json:"target_eta"`

	EntryAt    *time.Time `json:"entry_at"`
	StoplossAt *time.Time `json:"stoploss_at"`
	TargetAt   *time.Time `json:"target_at"`

	RiskPerUnit     *float64 `json:"risk_per_unit"`
	RewardPerUnit   *float64 `json:"reward_per_unit"`
	RiskRewardRatio *float64 `json:"risk_reward_ratio"`

	LastPrice *float64 `json:"last_price"`
	TickerID  uint     `json:"ticker_id"`
	Tags      []string `json:"tags"`

	EditedAt        *time.Time `json:"edited_at"`
	StatusUpdatedAt *time.Time `json:"status_updated_at"`
	UpdatedAt       *time.Time `json:"updated_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

// FromTrade はドメインエンティティからレスポンスを組み立てます。
func FromTrade(t entity.Trade) TradeResponse {
	resp := TradeResponse{
		ID:              t.ID,
		Symbol:          t.Symbol,
		Side:            string(t.Side),
		Type:            string(t.Type),
		Status:          string(t.Status),
		Notes:           t.Notes,
		Entry:           t.Entry,
		Stoploss:        t.Stoploss,
		Target:          t.Target,
		Timeframe:       string(t.Timeframe),
		Score:           t.Score,
		EntryX:          t.EntryX,
		StoplossX:       t.StoplossX,
		TargetX:         t.TargetX,
		EntryETA:        etaString(t.EntryETA),
		StoplossETA:     etaString(t.StoplossETA),
		TargetETA:       etaString(t.TargetETA),
		EntryAt:         t.EntryAt,
		StoplossAt:      t.StoplossAt,
		TargetAt:        t.TargetAt,
		RiskPerUnit:     t.RiskPerUnit(),
		RewardPerUnit:   t.RewardPerUnit(),
		RiskRewardRatio: t.RiskRewardRatio(),
		TickerID:        t.TickerID,
		Tags:            make([]string, 0, len(t.Tags)),
		EditedAt:        t.EditedAt,
		StatusUpdatedAt: t.StatusUpdatedAt,
		UpdatedAt:       t.UpdatedAt,
		CreatedAt:       t.CreatedAt,
	}
	for _, tag := range t.Tags {
		resp.Tags = append(resp.Tags, tag.Name)
	}
	if t.Ticker != nil {
		lp := t.Ticker.LastPrice
		resp.LastPrice = &lp
	}
	return resp
}

// FromTrades はトレードのスライスをレスポンスへ変換します。
func FromTrades(trades []entity.Trade) []TradeResponse {
	out := make([]TradeResponse, 0, len(trades))
	for _, t := range trades {
		out = append(out, FromTrade(t))
	}
	return out
}

// ToCreateInput はリクエストをユースケースの入力へ変換します。
func (r CreateTradeReq) ToCreateInput() usecase.CreateInput {
	return usecase.CreateInput{
		TickerID:  r.TickerID,
		Entry:     r.Entry,
		Stoploss:  r.Stoploss,
		Target:    r.Target,
		Side:      entity.Side(r.Side),
		Notes:     r.Notes,
		Timeframe: entity.Timeframe(r.Timeframe),
		Score:     r.Score,
		EntryX:    r.EntryX,
		StoplossX: r.StoplossX,
		TargetX:   r.TargetX,
		Tags:      r.Tags,
	}
}

// ToUpdateInput はリクエストをユースケースの入力へ変換します。
func (r UpdateTradeReq) ToUpdateInput() usecase.UpdateInput {
	in := usecase.UpdateInput{
		Notes:     r.Notes,
		Entry:     r.Entry,
		Stoploss:  r.Stoploss,
		Target:    r.Target,
		Score:     r.Score,
		EntryX:    r.EntryX,
		StoplossX: r.StoplossX,
		TargetX:   r.TargetX,
		Tags:      r.Tags,
	}
	if r.Timeframe != nil {
		tf := entity.Timeframe(*r.Timeframe)
		in.Timeframe = &tf
	}
	return in
}

func etaString(e *entity.ETA) *string {
	if e == nil {
		return nil
	}
	s := string(*e)
	return &s
}
