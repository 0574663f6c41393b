// Package entity defines the domain models for the candles feature.
package entity

import "time"

// WindowWidth is the fixed aggregation window for live candles.
const WindowWidth = 5 * time.Second

// Candle represents OHLCV (Open, High, Low, Close, Volume) candlestick data
// aggregated from live ticks over one fixed 5-second window of a single
// instrument.
type Candle struct {
	Token     uint32    // Feed subscription key (instrument token)
	Symbol    string    // Ticker symbol (e.g., "RELIANCE", "TCS")
	Time      time.Time // Window start, aligned to a 5-second boundary
	Open      float64   // First traded price in the window
	High      float64   // Highest price during the window
	Low       float64   // Lowest price during the window
	Close     float64   // Last traded price in the window
	Volume    int64     // Sum of per-tick volumes
	TickCount int       // Number of ticks observed in the window
}

// New opens a candle at the given window start with the first traded price.
// The opening tick itself must still be recorded via Apply.
func New(token uint32, symbol string, start time.Time, price float64) *Candle {
	return &Candle{
		Token:  token,
		Symbol: symbol,
		Time:   start,
		Open:   price,
		High:   price,
		Low:    price,
		Close:  price,
	}
}

// Apply folds one tick into the candle.
func (c *Candle) Apply(price float64, volume int64) {
	if price > c.High {
		c.High = price
	}
	if price < c.Low {
		c.Low = price
	}
	c.Close = price
	c.Volume += volume
	c.TickCount++
}

// CompleteAt reports whether the candle's window has fully elapsed at now.
func (c *Candle) CompleteAt(now time.Time) bool {
	return now.Sub(c.Time) >= WindowWidth
}

// WindowStart は tick のタイムスタンプをロケーションの時刻に変換し、
// 秒を5秒単位に切り捨て、サブ秒を0にした値を返します。
// この値がウィンドウに対するローソク足の同一性キーになります。
func WindowStart(ts time.Time, loc *time.Location) time.Time {
	t := ts.In(loc)
	sec := t.Second() - t.Second()%int(WindowWidth/time.Second)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), sec, 0, loc)
}
