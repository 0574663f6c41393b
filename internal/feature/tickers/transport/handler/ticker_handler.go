// Package handler はtickersフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"trade_backend/internal/api"
	"trade_backend/internal/feature/tickers/domain/entity"
)

// TickersUsecase はティッカー検索のユースケースを定義します。
type TickersUsecase interface {
	Search(ctx context.Context, prefix string, limit, offset int) ([]entity.Ticker, error)
}

// TickerHandler はティッカー検索のHTTPリクエストを処理します。
type TickerHandler struct {
	tickers TickersUsecase
}

// NewTickerHandler はTickerHandlerの新しいインスタンスを生成します。
func NewTickerHandler(tickers TickersUsecase) *TickerHandler {
	return &TickerHandler{tickers: tickers}
}

// tickerResponse はティッカー1件のレスポンス表現です。
type tickerResponse struct {
	ID        uint    `json:"id"`
	Symbol    string  `json:"symbol"`
	Exchange  string  `json:"exchange"`
	Name      string  `json:"name"`
	LastPrice float64 `json:"last_price"`
}

// Search はGET /tickersを処理します。qクエリでシンボルの前方一致検索を行います。
func (h *TickerHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	tickers, err := h.tickers.Search(c.Request.Context(), c.Query("q"), limit, offset)
	if err != nil {
		slog.Error("ticker search failed", "error", err, "query", c.Query("q"))
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to search tickers"})
		return
	}

	out := make([]tickerResponse, 0, len(tickers))
	for _, t := range tickers {
		out = append(out, tickerResponse{
			ID:        t.ID,
			Symbol:    t.Symbol,
			Exchange:  t.Exchange,
			Name:      t.Name,
			LastPrice: t.LastPrice,
		})
	}
	c.JSON(http.StatusOK, out)
}
