// Package handler はtradesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"trade_backend/internal/api"
	"trade_backend/internal/feature/trades/domain/entity"
	"trade_backend/internal/feature/trades/transport/http/dto"
	"trade_backend/internal/feature/trades/usecase"
	jwtmw "trade_backend/internal/platform/jwt"
)

// TradeUsecase はトレード操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type TradeUsecase interface {
	CreateTrade(ctx context.Context, userID uint, in usecase.CreateInput) (*entity.Trade, error)
	UpdateTrade(ctx context.Context, userID uint, id string, in usecase.UpdateInput) (*entity.Trade, error)
	GetTrade(ctx context.Context, userID uint, id string) (*entity.Trade, error)
	ListTrades(ctx context.Context, userID uint, f usecase.ListFilter) ([]entity.Trade, error)
	DeleteTrade(ctx context.Context, userID uint, id string) error
}

// TradeHandler はトレード操作のHTTPリクエストを処理します。
type TradeHandler struct {
	trades TradeUsecase
}

// NewTradeHandler はTradeHandlerの新しいインスタンスを生成します。
func NewTradeHandler(trades TradeUsecase) *TradeHandler {
	return &TradeHandler{trades: trades}
}

// Create はPOST /tradesを処理します。
// - バリデーションエラー時は400を返却
// - 参照先ティッカー不明・side推定不能時は422を返却
// - 成功時は201でトレードを返却
func (h *TradeHandler) Create(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)

	var req dto.CreateTradeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("trade create validation failed", "error", err, "user_id", userID)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	trade, err := h.trades.CreateTrade(c.Request.Context(), userID, req.ToCreateInput())
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrTickerNotFound), errors.Is(err, usecase.ErrSideRequired):
			c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: err.Error()})
		default:
			slog.Error("trade create failed", "error", err, "user_id", userID)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to create trade"})
		}
		return
	}
	c.JSON(http.StatusCreated, dto.FromTrade(*trade))
}

// List はGET /tradesを処理します。status・symbol・typeクエリで絞り込めます。
func (h *TradeHandler) List(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)

	filter := usecase.ListFilter{
		Status: c.Query("status"),
		Symbol: c.Query("symbol"),
		Type:   c.Query("type"),
	}

	trades, err := h.trades.ListTrades(c.Request.Context(), userID, filter)
	if err != nil {
		slog.Error("trade list failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to list trades"})
		return
	}
	c.JSON(http.StatusOK, dto.FromTrades(trades))
}

// Get はGET /trades/:idを処理します。
func (h *TradeHandler) Get(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)

	trade, err := h.trades.GetTrade(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, usecase.ErrTradeNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "trade not found"})
			return
		}
		slog.Error("trade get failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to get trade"})
		return
	}
	c.JSON(http.StatusOK, dto.FromTrade(*trade))
}

// Update はPATCH /trades/:idを処理します。
func (h *TradeHandler) Update(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)

	var req dto.UpdateTradeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("trade update validation failed", "error", err, "user_id", userID)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	trade, err := h.trades.UpdateTrade(c.Request.Context(), userID, c.Param("id"), req.ToUpdateInput())
	if err != nil {
		if errors.Is(err, usecase.ErrTradeNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "trade not found"})
			return
		}
		slog.Error("trade update failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to update trade"})
		return
	}
	c.JSON(http.StatusOK, dto.FromTrade(*trade))
}

// Delete はDELETE /trades/:idを処理します。
func (h *TradeHandler) Delete(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)

	if err := h.trades.DeleteTrade(c.Request.Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, usecase.ErrTradeNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "trade not found"})
			return
		}
		slog.Error("trade delete failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to delete trade"})
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "deleted"})
}
