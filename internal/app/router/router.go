// Package router はHTTPルーティングを定義します。
package router

import (
	"github.com/gin-gonic/gin"

	authhandler "trade_backend/internal/feature/auth/transport/handler"
	candlehandler "trade_backend/internal/feature/candles/transport/handler"
	taghandler "trade_backend/internal/feature/tags/transport/handler"
	tickerhandler "trade_backend/internal/feature/tickers/transport/handler"
	tradehandler "trade_backend/internal/feature/trades/transport/handler"
	httphandler "trade_backend/internal/platform/http/handler"
	jwtmw "trade_backend/internal/platform/jwt"
)

// NewRouter は全エンドポイントを配線したGinエンジンを返します。
func NewRouter(
	auth *authhandler.AuthHandler,
	users *authhandler.UserHandler,
	trades *tradehandler.TradeHandler,
	tickers *tickerhandler.TickerHandler,
	tags *taghandler.TagHandler,
	candles *candlehandler.CandleHandler,
) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	r.GET("/healthz", httphandler.Health)
	// 新規ユーザー登録
	r.POST("/signup", auth.Signup)
	// ログイン（JWT 発行）
	r.POST("/login", auth.Login)

	// 認証必須のルート
	authed := r.Group("/")
	authed.Use(jwtmw.AuthRequired())
	{
		authed.GET("/me", auth.Profile)

		authed.POST("/trades", trades.Create)
		authed.GET("/trades", trades.List)
		authed.GET("/trades/:id", trades.Get)
		authed.PATCH("/trades/:id", trades.Update)
		authed.DELETE("/trades/:id", trades.Delete)

		authed.GET("/tickers", tickers.Search)
		authed.GET("/tags", tags.Search)
		authed.GET("/candles/:symbol", candles.GetCandles)

		// 管理者のみ
		authed.GET("/users", users.List)
	}

	return r
}
