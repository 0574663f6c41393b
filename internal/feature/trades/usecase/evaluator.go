package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	candleentity "trade_backend/internal/feature/candles/domain/entity"
	tickerentity "trade_backend/internal/feature/tickers/domain/entity"
	"trade_backend/internal/feature/trades/domain/entity"
)

// TradeStore は評価エンジンが必要とする永続化層の読み書きを抽象化します。
type TradeStore interface {
	// ListOpenByTicker は終端状態でないトレードを返します。
	ListOpenByTicker(ctx context.Context, tickerID uint) ([]*entity.Trade, error)
	// Save は評価結果（status・到達時刻・ETA）を永続化します。
	Save(ctx context.Context, t *entity.Trade) error
}

// Evaluator は完了したローソク足1本ごとにオープン中のトレードプランの
// 状態機械を進め、各レベルへのETAを再計算します。
// スイープを行う単一のゴルーチンから呼ばれる前提です。CRUD層による
// 並行読み取りは許容されます（書き込みは評価エンジンのみ）。
type Evaluator struct {
	trades TradeStore
	now    func() time.Time
}

// NewEvaluator はEvaluatorの新しいインスタンスを生成します。
func NewEvaluator(trades TradeStore) *Evaluator {
	return &Evaluator{trades: trades, now: time.Now}
}

// OnCompletedCandle はインストゥルメントの完了足に対して全オープントレードを
// 評価し、状態が変化したトレードを返します（通知ディスパッチ用）。
// 個々のトレードの永続化失敗はログに残してスキップし、処理を継続します。
func (e *Evaluator) OnCompletedCandle(ctx context.Context, ticker tickerentity.Ticker, c candleentity.Candle) ([]entity.Trade, error) {
	open, err := e.trades.ListOpenByTicker(ctx, ticker.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list open trades for ticker %d: %w", ticker.ID, err)
	}

	at := e.now()
	var changed []entity.Trade
	for _, trade := range open {
		if trade.Status.Terminal() {
			continue
		}
		transitioned := applyCandle(trade, c.High, c.Low, at)
		updateETAs(trade, ticker.LastPrice)

		if err := e.trades.Save(ctx, trade); err != nil {
			slog.Error("failed to persist trade evaluation", "trade_id", trade.ID, "symbol", trade.Symbol, "error", err)
			continue
		}
		if transitioned {
			slog.Info("trade status changed",
				"trade_id", trade.ID, "symbol", trade.Symbol, "status", trade.Status,
				"high", c.High, "low", c.Low)
			changed = append(changed, *trade)
		}
	}
	return changed, nil
}

// applyCandle は1本の足に対して高々1回の遷移を適用します。
// チェックの順序が、1ウィンドウの高値・安値が複数レベルをまたいだときに
// どの結果が勝つかを決めます（仕様上の固定順）。
func applyCandle(t *entity.Trade, high, low float64, at time.Time) bool {
	switch t.Status {
	case entity.StatusActive:
		return applyActive(t, high, low, at)
	case entity.StatusEntry:
		return applyEntered(t, high, low, at)
	default:
		// Stoploss / Target は終端。
		return false
	}
}

// applyActive はエントリー待ちのトレードの遷移を判定します。
func applyActive(t *entity.Trade, high, low float64, at time.Time) bool {
	switch {
	case t.Side == entity.SideBuy && t.Type == entity.TypeBreakout:
		// ターゲット優先: 1ウィンドウ内でエントリーとターゲットを
		// 両方抜けた「取り逃し」ケースは直接Targetへ。
		if t.Target != nil && high >= *t.Target {
			return transition(t, entity.StatusTarget, at)
		}
		if high >= t.Entry {
			return transition(t, entity.StatusEntry, at)
		}
	case t.Side == entity.SideSell && t.Type == entity.TypeBreakout:
		// トリガー前にストップロスを超えたら失敗扱い。
		if t.Stoploss != nil && high > *t.Stoploss {
			return transition(t, entity.StatusStoploss, at)
		}
		if high >= t.Entry {
			return transition(t, entity.StatusEntry, at)
		}
	case t.Side == entity.SideBuy && t.Type == entity.TypePullback:
		if t.Stoploss != nil && low < *t.Stoploss {
			return transition(t, entity.StatusStoploss, at)
		}
		if low <= t.Entry {
			return transition(t, entity.StatusEntry, at)
		}
	case t.Side == entity.SideSell && t.Type == entity.TypePullback:
		if t.Target != nil && low <= *t.Target {
			return transition(t, entity.StatusTarget, at)
		}
		if low <= t.Entry {
			return transition(t, entity.StatusEntry, at)
		}
	}
	return false
}

// applyEntered はエントリー済みトレードの遷移を判定します。
// ストップロスをターゲットより先に判定します。
func applyEntered(t *entity.Trade, high, low float64, at time.Time) bool {
	if t.Side == entity.SideBuy {
		if t.Stoploss != nil && low < *t.Stoploss {
			return transition(t, entity.StatusStoploss, at)
		}
		if t.Target != nil && high >= *t.Target {
			return transition(t, entity.StatusTarget, at)
		}
		return false
	}
	if t.Stoploss != nil && high > *t.Stoploss {
		return transition(t, entity.StatusStoploss, at)
	}
	if t.Target != nil && low <= *t.Target {
		return transition(t, entity.StatusTarget, at)
	}
	return false
}

// transition は状態を進め、到達時刻と更新時刻を記録します。常にtrueを返します。
func transition(t *entity.Trade, status entity.Status, at time.Time) bool {
	t.Status = status
	switch status {
	case entity.StatusEntry:
		t.EntryAt = &at
	case entity.StatusStoploss:
		t.StoplossAt = &at
	case entity.StatusTarget:
		t.TargetAt = &at
	}
	t.StatusUpdatedAt = &at
	t.UpdatedAt = &at
	return true
}

func updateETAs(t *entity.Trade, lastPrice float64) {
	// 現在価格が無い場合は何も計算しない。
	if lastPrice <= 0 {
		return
	}
	switch t.Status {
	case entity.StatusActive:
		t.EntryETA = etaFor(t.Entry, lastPrice)
		t.StoplossETA = nil
		t.TargetETA = nil
	case entity.StatusEntry:
		t.EntryETA = nil
		t.StoplossETA = etaForLevel(t.Stoploss, lastPrice)
		t.TargetETA = etaForLevel(t.Target, lastPrice)
	default:
		t.EntryETA = nil
		t.StoplossETA = nil
		t.TargetETA = nil
	}
}

// etaFor は現在価格からレベルまでの絶対パーセント距離でETAバケットを選びます。
func etaFor(level, price float64) *entity.ETA {
	eta := entity.ETAFar
	if level > 0 {
		pct := math.Abs(level-price) / price * 100
		switch {
		case pct <= 0.1:
			eta = entity.ETAOneMinute
		case pct <= 0.2:
			eta = entity.ETAFiveMinutes
		case pct <= 0.5:
			eta = entity.ETAFifteenMinutes
		case pct <= 1.0:
			eta = entity.ETAOneHour
		case pct <= 2.0:
			eta = entity.ETAOneDay
		case pct <= 5.0:
			eta = entity.ETAOneWeek
		case pct <= 10.0:
			eta = entity.ETAOneMonth
		}
	}
	return &eta
}

// etaForLevel は省略可能なレベルのETAを返します。未設定・0はFar扱いです。
func etaForLevel(level *float64, price float64) *entity.ETA {
	if level == nil {
		return etaFor(0, price)
	}
	return etaFor(*level, price)
}
