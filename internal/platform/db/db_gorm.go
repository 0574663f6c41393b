// Package db はデータベース接続の初期化を提供します。
package db

import (
	"fmt"
	"log"
	"os"
	"time"

	gpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	userentity "trade_backend/internal/feature/auth/domain/entity"
	candleadapters "trade_backend/internal/feature/candles/adapters"
	tagentity "trade_backend/internal/feature/tags/domain/entity"
	tickerentity "trade_backend/internal/feature/tickers/domain/entity"
	tradeentity "trade_backend/internal/feature/trades/domain/entity"
)

// OpenDB はPostgreSQLへ接続してgorm.DBを返します。
// 接続確立まで最大60秒リトライし、それでも失敗した場合はプロセスを終了します。
func OpenDB() *gorm.DB {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASSWORD")
	name := os.Getenv("DB_NAME")
	sslmode := os.Getenv("DB_SSLMODE")
	if sslmode == "" {
		sslmode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, pass, name, sslmode)

	var (
		db  *gorm.DB
		err error
	)

	deadline := time.Now().Add(60 * time.Second)
	for {
		db, err = gorm.Open(gpostgres.Open(dsn), &gorm.Config{})
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			log.Fatalf("DB connect failed after 60s: %v", err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		// マイグレーション（User, Ticker, Tag, Trade, Candle）
		if err := db.AutoMigrate(
			&userentity.User{},
			&tickerentity.Ticker{},
			&tagentity.Tag{},
			&tradeentity.Trade{},
			&candleadapters.CandleModel{},
		); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
