// Package handler はtagsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"trade_backend/internal/api"
	"trade_backend/internal/feature/tags/domain/entity"
	jwtmw "trade_backend/internal/platform/jwt"
)

// TagsUsecase はタグ検索のユースケースを定義します。
type TagsUsecase interface {
	Search(ctx context.Context, userID uint, prefix string) ([]entity.Tag, error)
}

// TagHandler はタグ検索のHTTPリクエストを処理します。
type TagHandler struct {
	tags TagsUsecase
}

// NewTagHandler はTagHandlerの新しいインスタンスを生成します。
func NewTagHandler(tags TagsUsecase) *TagHandler {
	return &TagHandler{tags: tags}
}

// tagResponse はタグ1件のレスポンス表現です。
type tagResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Search はGET /tagsを処理します。qクエリで前方一致検索を行います。
func (h *TagHandler) Search(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)

	tags, err := h.tags.Search(c.Request.Context(), userID, c.Query("q"))
	if err != nil {
		slog.Error("tag search failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to search tags"})
		return
	}

	out := make([]tagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, tagResponse{ID: t.ID, Name: t.Name})
	}
	c.JSON(http.StatusOK, out)
}
