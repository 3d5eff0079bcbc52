package admin

import (
	"errors"

	"github.com/easyq-blog/internal/constants"
	"github.com/easyq-blog/internal/http/response"
	"github.com/easyq-blog/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Password string `json:"password"`
}

// Authenticate 管理员口令登录
func (h *Handler) Authenticate(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "Password is required", nil)
		return
	}
	token, expiresAt, err := h.AuthService.Authenticate(req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			requestLog(c).Warnw("admin_login_failed", "client_ip", c.ClientIP())
		}
		respondServiceError(c, err, "Authentication failed")
		return
	}
	requestLog(c).Infow("admin_login_success", "client_ip", c.ClientIP())
	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt.Unix(),
	})
}

// Verify 校验当前令牌
func (h *Handler) Verify(c *gin.Context) {
	raw, ok := c.Get(constants.ContextKeyAdminClaims)
	claims, typeOK := raw.(*service.AdminClaims)
	if !ok || !typeOK || claims == nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	data := gin.H{"valid": true}
	if claims.ExpiresAt != nil {
		data["exp"] = claims.ExpiresAt.Unix()
	}
	response.Success(c, data)
}
