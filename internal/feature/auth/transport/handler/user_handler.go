package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"trade_backend/internal/api"
	userentity "trade_backend/internal/feature/auth/domain/entity"
	jwtmw "trade_backend/internal/platform/jwt"
)

// UserAdminUsecase は管理者向けユーザー操作のユースケースを定義します。
type UserAdminUsecase interface {
	GetProfile(ctx context.Context, userID uint) (*userentity.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]userentity.User, error)
}

// UserHandler は管理者向けユーザー操作のHTTPリクエストを処理します。
type UserHandler struct {
	users UserAdminUsecase
}

// NewUserHandler はUserHandlerの新しいインスタンスを生成します。
func NewUserHandler(users UserAdminUsecase) *UserHandler {
	return &UserHandler{users: users}
}

// userResponse はユーザー1件のレスポンス表現です。パスワードは含みません。
type userResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	IsAdmin     bool   `json:"is_admin"`
}

// List はGET /usersを処理します。管理者のみアクセス可能です。
func (h *UserHandler) List(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)

	me, err := h.users.GetProfile(c.Request.Context(), userID)
	if err != nil || !me.IsAdmin {
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "admin access required"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, err := h.users.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		slog.Error("user list failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to list users"})
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse{
			ID:          u.ID,
			Name:        u.Name,
			Email:       u.Email,
			PhoneNumber: u.PhoneNumber,
			IsAdmin:     u.IsAdmin,
		})
	}
	c.JSON(http.StatusOK, out)
}
