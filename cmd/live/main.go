// ライブワーカーのエントリポイント。市場時間中に起動され、tickフィードの
// 購読からローソク足集約・トレード評価・通知までを1プロセスで駆動します。
// 市場時間外の起動は正常終了（exit 0）です。
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	authadapters "trade_backend/internal/feature/auth/adapters"
	candleadapters "trade_backend/internal/feature/candles/adapters"
	liveadapters "trade_backend/internal/feature/live/adapters"
	liveusecase "trade_backend/internal/feature/live/usecase"
	"trade_backend/internal/feature/notify"
	tickeradapters "trade_backend/internal/feature/tickers/adapters"
	tradeadapters "trade_backend/internal/feature/trades/adapters"
	tradeusecase "trade_backend/internal/feature/trades/usecase"
	"trade_backend/internal/platform/db"
	"trade_backend/internal/shared/ratelimiter"
)

func main() {
	// .envがあれば読み込む（本番は環境変数で注入）
	_ = godotenv.Load()

	gdb := db.OpenDB()

	tickerRepo := tickeradapters.NewTickerRepository(gdb)
	tradeRepo := tradeadapters.NewTradeRepository(gdb)
	candleRepo := candleadapters.NewCandleRepository(gdb)
	userRepo := authadapters.NewUserRepository(gdb)

	evaluator := tradeusecase.NewEvaluator(tradeRepo)
	dispatcher := notify.NewDispatcher(notify.LogSender{}, ratelimiter.NewRateLimiter(60, time.Minute))
	feed := liveadapters.NewWSFeed(liveadapters.FeedConfigFromEnv())

	runner := liveusecase.NewRunner(feed, tickerRepo, candleRepo, evaluator, userRepo, dispatcher)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := runner.Run(ctx)
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		slog.Info("live pipeline stopped")
	case errors.Is(err, liveusecase.ErrMarketClosed):
		// 市場時間外はアイドル終了。スケジューラの再起動に任せる。
		os.Exit(0)
	default:
		log.Fatalf("live pipeline failed: %v", err)
	}
}
