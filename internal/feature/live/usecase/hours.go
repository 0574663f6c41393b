// Package usecase はライブ集計パイプラインのコアロジックを実装します。
package usecase

import (
	"sync"
	"time"
)

// 取引時間の判定はすべてインド標準時（IST）で行います。
var (
	marketLoc     *time.Location
	marketLocOnce sync.Once
)

// MarketLocation は取引時間帯のタイムゾーン（Asia/Kolkata）を返します。
// tzdataが無い環境では固定オフセット（UTC+5:30）にフォールバックします。
func MarketLocation() *time.Location {
	marketLocOnce.Do(func() {
		loc, err := time.LoadLocation("Asia/Kolkata")
		if err != nil {
			loc = time.FixedZone("IST", 5*3600+1800)
		}
		marketLoc = loc
	})
	return marketLoc
}

// IsMarketOpen はプロセスの稼働ゲートです。
// 平日の9:10〜15:30（IST）の間だけtrueを返します。開始を取引開始より
// 少し早めているのは、接続確立とサブスクライブを寄り付き前に済ませるためです。
func IsMarketOpen(now time.Time) bool {
	t := now.In(MarketLocation())
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 9, 10, 0, 0, t.Location())
	end := time.Date(t.Year(), t.Month(), t.Day(), 15, 30, 0, 0, t.Location())
	return !t.Before(start) && !t.After(end)
}

// WithinTradingHours はtickのフィルタです。
// 取引所タイムスタンプが平日のレギュラーセッション（9:15〜15:30 IST）内に
// あるときだけtrueを返します。セッション外のtickは破棄され、キューイングされません。
func WithinTradingHours(ts time.Time) bool {
	t := ts.In(MarketLocation())
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 9, 15, 0, 0, t.Location())
	end := time.Date(t.Year(), t.Month(), t.Day(), 15, 30, 0, 0, t.Location())
	return !t.Before(start) && !t.After(end)
}
