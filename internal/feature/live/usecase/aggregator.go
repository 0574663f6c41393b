package usecase

import (
	"sync"
	"time"

	"trade_backend/internal/feature/candles/domain/entity"
)

// historyCap はインストゥルメントごとに保持する完了足の上限です。
const historyCap = 20

// Aggregator はtickのストリームをインストゥルメントごとの5秒足に集約します。
//
// 進行中の足のテーブルは単一のミューテックスで保護します。tick取り込みと
// スイープのどちらから見ても「1本の足を同時に観測するのは高々一方」という
// 不変条件を単純に保つためで、ロック保持時間は1呼び出しあたりO(1)、
// ロック中にI/Oは行いません。
type Aggregator struct {
	mu      sync.Mutex
	loc     *time.Location
	current map[uint32]*entity.Candle
	history map[uint32][]entity.Candle
}

// NewAggregator はAggregatorの新しいインスタンスを生成します。
func NewAggregator() *Aggregator {
	return &Aggregator{
		loc:     MarketLocation(),
		current: make(map[uint32]*entity.Candle),
		history: make(map[uint32][]entity.Candle),
	}
}

// ObserveTick は1件のtickを取り込みます。物理tickごとに高々1回呼ぶこと。
// tickのウィンドウが進行中の足と異なる場合、前の足は履歴リングに退避され、
// 新しい足が開かれます。開いたウィンドウの最初のtickも含め、すべてのtickが
// 高値・安値・終値・出来高・tick数を更新します。出来高なしのtickも受理します。
func (a *Aggregator) ObserveTick(token uint32, symbol string, price float64, volume int64, ts time.Time) {
	start := entity.WindowStart(ts, a.loc)

	a.mu.Lock()
	defer a.mu.Unlock()

	cur, ok := a.current[token]
	if !ok || !cur.Time.Equal(start) {
		if ok {
			a.pushHistory(token, *cur)
		}
		cur = entity.New(token, symbol, start, price)
		a.current[token] = cur
	}
	cur.Apply(price, volume)
}

// Sweep はウィンドウ幅が経過した進行中の足をすべて取り出して返します。
// 返された足はテーブルから除去され履歴リングへ回るため、同じ足が二度
// 返されることはありません。
func (a *Aggregator) Sweep(now time.Time) []entity.Candle {
	a.mu.Lock()
	defer a.mu.Unlock()

	var completed []entity.Candle
	for token, cur := range a.current {
		if !cur.CompleteAt(now) {
			continue
		}
		completed = append(completed, *cur)
		a.pushHistory(token, *cur)
		delete(a.current, token)
	}
	return completed
}

// History はインストゥルメントの完了足履歴のコピーを返します（古い順）。
func (a *Aggregator) History(token uint32) []entity.Candle {
	a.mu.Lock()
	defer a.mu.Unlock()

	src := a.history[token]
	out := make([]entity.Candle, len(src))
	copy(out, src)
	return out
}

// pushHistory は足を履歴リングに追加します。容量を超えたら最古を落とします。
// 呼び出し側がロックを保持していること。
func (a *Aggregator) pushHistory(token uint32, c entity.Candle) {
	h := append(a.history[token], c)
	if len(h) > historyCap {
		h = h[len(h)-historyCap:]
	}
	a.history[token] = h
}
