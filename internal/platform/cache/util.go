package cache

import (
	"time"

	"trade_backend/internal/feature/live/usecase"
)

// TimeUntilMarketOpen は次の稼働開始時刻（平日9:10 IST）までの期間を返します。
// 稼働時間中に呼ばれた場合は0を返します。
func TimeUntilMarketOpen(now time.Time) time.Duration {
	loc := usecase.MarketLocation()
	t := now.In(loc)

	if usecase.IsMarketOpen(t) {
		return 0
	}

	next := time.Date(t.Year(), t.Month(), t.Day(), 9, 10, 0, 0, loc)
	for !next.After(t) || next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
		next = next.Add(24 * time.Hour)
	}
	return next.Sub(t)
}
