// Package handler はcandlesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"trade_backend/internal/api"
	"trade_backend/internal/feature/candles/domain/entity"
)

// CandlesUsecase はローソク足取得のユースケースを定義します。
type CandlesUsecase interface {
	GetCandles(ctx context.Context, symbol string, outputsize int) ([]entity.Candle, error)
}

// CandleHandler はローソク足取得のHTTPリクエストを処理します。
type CandleHandler struct {
	candles CandlesUsecase
}

// NewCandleHandler はCandleHandlerの新しいインスタンスを生成します。
func NewCandleHandler(candles CandlesUsecase) *CandleHandler {
	return &CandleHandler{candles: candles}
}

// GetCandles はGET /candles/:symbolを処理します。
// outputsizeクエリで返却件数を指定できます（新しい順）。
func (h *CandleHandler) GetCandles(c *gin.Context) {
	symbol := c.Param("symbol")
	outputsize, _ := strconv.Atoi(c.DefaultQuery("outputsize", "20"))

	candles, err := h.candles.GetCandles(c.Request.Context(), symbol, outputsize)
	if err != nil {
		slog.Error("candle fetch failed", "error", err, "symbol", symbol)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to fetch candles"})
		return
	}
	c.JSON(http.StatusOK, candles)
}
