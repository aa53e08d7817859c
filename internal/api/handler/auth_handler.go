package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"restaurantapp/backend/config"
	"restaurantapp/backend/internal/dto"
	"restaurantapp/backend/internal/service"
	"restaurantapp/backend/pkg/redis"
	"restaurantapp/backend/pkg/response"
)

const refreshCookieName = "refresh_token"

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
	rdb     *redis.Client
	cfg     *config.Config
}

// NewAuthHandler 创建 AuthHandler
// rdb 用于登出时将 Token 加入黑名单，为 nil 时登出仅清除 Cookie
func NewAuthHandler(authSvc service.AuthService, rdb *redis.Client, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, rdb: rdb, cfg: cfg}
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	// Refresh Token 同时写入 HttpOnly Cookie，供浏览器端静默刷新
	h.setRefreshCookie(c, result.RefreshToken, req.RememberMe)

	response.OK(c, result)
}

// Register 顾客注册
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.Created(c, result)
}

// RefreshToken 刷新 Token
// POST /api/v1/auth/refresh
// Refresh Token 优先取请求体，缺省时回退到 Cookie
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	_ = c.ShouldBindJSON(&req)

	refreshToken := req.RefreshToken
	if refreshToken == "" {
		if cookie, err := c.Cookie(refreshCookieName); err == nil {
			refreshToken = cookie
		}
	}
	if refreshToken == "" {
		response.BadRequest(c, 10001, "缺少 refresh_token")
		return
	}

	result, err := h.authSvc.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		response.Unauthorized(c, 10002, "Refresh Token 无效或已过期")
		return
	}

	h.setRefreshCookie(c, result.RefreshToken, false)

	response.OK(c, result)
}

// Logout 用户登出
// POST /api/v1/auth/logout
// 将当前 Access Token 加入黑名单并清除 Refresh Cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	if h.rdb != nil {
		jti, _ := c.Get("token_jti")
		exp, _ := c.Get("token_exp")
		jtiStr, okJTI := jti.(string)
		expTime, okExp := exp.(time.Time)
		if okJTI && okExp && jtiStr != "" {
			// 黑名单写入失败不阻断登出，Token 到期后自然失效
			_ = h.rdb.BlacklistToken(c.Request.Context(), jtiStr, time.Until(expTime))
		}
	}

	h.clearRefreshCookie(c)

	response.OK(c, nil)
}

// ChangePassword 修改密码
// PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, nil)
}

// setRefreshCookie 下发 Refresh Token Cookie（HttpOnly）
func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string, rememberMe bool) {
	if token == "" {
		return
	}
	ttl := 7 * 24 * time.Hour
	if h.cfg != nil {
		ttl = h.cfg.Auth.RefreshTokenTTLDefault
		if rememberMe {
			ttl = h.cfg.Auth.RefreshTokenTTLRemember
		}
	}
	c.SetCookie(refreshCookieName, token, int(ttl.Seconds()), "/api/v1/auth", "", false, true)
}

// clearRefreshCookie 清除 Refresh Token Cookie
func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetCookie(refreshCookieName, "", -1, "/api/v1/auth", "", false, true)
}

// handleAuthError 统一处理认证模块业务错误
func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, 11001, "邮箱或密码错误")
	case errors.Is(err, service.ErrUserDisabled):
		response.Forbidden(c, 11002, "账号已停用")
	case errors.Is(err, service.ErrEmailTaken):
		response.Conflict(c, 11003, "该邮箱已注册")
	case errors.Is(err, service.ErrWrongOldPassword):
		response.BadRequest(c, 11004, "原密码不正确")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11005, "用户不存在")
	default:
		response.InternalError(c)
	}
}
