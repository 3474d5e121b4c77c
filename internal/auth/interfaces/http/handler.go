// Package http 经纪人认证 HTTP 接口层
package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/clientonboarding/internal/auth/application"
	"github.com/wyfcoding/clientonboarding/internal/auth/domain"
)

// Handler 认证 HTTP 处理器
type Handler struct {
	service      *application.AuthService
	cookieName   string
	cookieSecure bool
}

// NewHandler 创建认证 HTTP 处理器
func NewHandler(service *application.AuthService, cookieName string, cookieSecure bool) *Handler {
	return &Handler{service: service, cookieName: cookieName, cookieSecure: cookieSecure}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"fullName" binding:"required"`
	RRNumber string `json:"rrNumber"`
}

// Register 注册经纪人账户
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.service.Register(c.Request.Context(), req.Email, req.Password, req.FullName, req.RRNumber)
	if err != nil {
		if errors.Is(err, domain.ErrEmailRegistered) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"broker_id": id})
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login 登录，会话令牌写入 HttpOnly Cookie
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, expiresAt, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.SetCookie(h.cookieName, token, int(time.Until(expiresAt).Seconds()), "/", "", h.cookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"expires_at": expiresAt})
}

// Logout 登出并清除 Cookie
func (h *Handler) Logout(c *gin.Context) {
	token, err := c.Cookie(h.cookieName)
	if err == nil && token != "" {
		if err := h.service.Logout(c.Request.Context(), token); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.SetCookie(h.cookieName, "", -1, "/", "", h.cookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
