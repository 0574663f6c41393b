package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"trade_backend/internal/app/router"
	authadapters "trade_backend/internal/feature/auth/adapters"
	authhandler "trade_backend/internal/feature/auth/transport/handler"
	authusecase "trade_backend/internal/feature/auth/usecase"
	candleadapters "trade_backend/internal/feature/candles/adapters"
	candlehandler "trade_backend/internal/feature/candles/transport/handler"
	candleusecase "trade_backend/internal/feature/candles/usecase"
	tagadapters "trade_backend/internal/feature/tags/adapters"
	taghandler "trade_backend/internal/feature/tags/transport/handler"
	tagusecase "trade_backend/internal/feature/tags/usecase"
	tickeradapters "trade_backend/internal/feature/tickers/adapters"
	tickerhandler "trade_backend/internal/feature/tickers/transport/handler"
	tickerusecase "trade_backend/internal/feature/tickers/usecase"
	tradeadapters "trade_backend/internal/feature/trades/adapters"
	tradehandler "trade_backend/internal/feature/trades/transport/handler"
	tradeusecase "trade_backend/internal/feature/trades/usecase"
	"trade_backend/internal/platform/cache"
	"trade_backend/internal/platform/db"
	jwtmw "trade_backend/internal/platform/jwt"
	platformredis "trade_backend/internal/platform/redis"
)

func main() {
	// .envがあれば読み込む（本番は環境変数で注入）
	_ = godotenv.Load()

	// db
	gdb := db.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	userRepo := authadapters.NewUserRepository(gdb)
	tickerRepo := tickeradapters.NewTickerRepository(gdb)
	tagRepo := tagadapters.NewTagRepository(gdb)
	tradeRepo := tradeadapters.NewTradeRepository(gdb)
	candleRepo := candleadapters.NewCandleRepository(gdb)

	// Redisキャッシュでラップ（ライブワーカーが5秒ごとに上書きするため短いTTL）
	cachedCandleRepo := cache.NewCachingCandleRepository(rdb, time.Minute, candleRepo, "candles")

	// Usecase
	jwtGen := jwtmw.NewGenerator(os.Getenv(jwtmw.EnvKeyJWTSecret), 24*time.Hour)
	authUC := authusecase.NewAuthUsecase(userRepo, jwtGen)
	tickerUC := tickerusecase.NewTickersUsecase(tickerRepo)
	tagUC := tagusecase.NewTagsUsecase(tagRepo)
	tradeUC := tradeusecase.NewTradeUsecase(tradeRepo, tickerRepo, tagRepo)
	candleUC := candleusecase.NewCandlesUsecase(cachedCandleRepo)

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	userH := authhandler.NewUserHandler(authUC)
	tradeH := tradehandler.NewTradeHandler(tradeUC)
	tickerH := tickerhandler.NewTickerHandler(tickerUC)
	tagH := taghandler.NewTagHandler(tagUC)
	candleH := candlehandler.NewCandleHandler(candleUC)

	// ルータ生成
	r := router.NewRouter(authH, userH, tradeH, tickerH, tagH, candleH)

	// JWT_SECRETチェック（開発中の注意喚起）
	if os.Getenv(jwtmw.EnvKeyJWTSecret) == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
