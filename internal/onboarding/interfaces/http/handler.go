// Package http 开户问卷 HTTP 接口层
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/clientonboarding/internal/onboarding/application"
	"github.com/wyfcoding/clientonboarding/internal/onboarding/domain"
	"github.com/wyfcoding/clientonboarding/pkg/middleware"
)

// Handler 开户问卷 HTTP 处理器
type Handler struct {
	service *application.OnboardingService
}

// NewHandler 创建 HTTP 处理器
func NewHandler(service *application.OnboardingService) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	onboarding := r.Group("/clients/:clientId/onboarding")
	{
		onboarding.GET("/:form/steps/:step", h.GetStep)
		onboarding.POST("/:form/steps/:step/answers", h.SubmitAnswer)
		onboarding.POST("/:form/review", h.Review)
	}
}

// SubmitAnswerRequest 提交答案请求
type SubmitAnswerRequest struct {
	QuestionID string `json:"questionId" binding:"required"`
	Answer     any    `json:"answer"`
}

// GetStep 读取步骤状态
func (h *Handler) GetStep(c *gin.Context) {
	brokerID, clientID, ok := h.identities(c)
	if !ok {
		return
	}

	state, err := h.service.GetStep(c.Request.Context(), brokerID, clientID, c.Param("form"), c.Param("step"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, state)
}

// SubmitAnswer 提交单条答案
func (h *Handler) SubmitAnswer(c *gin.Context) {
	brokerID, clientID, ok := h.identities(c)
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, rejection, err := h.service.SubmitAnswer(
		c.Request.Context(), brokerID, clientID,
		c.Param("form"), c.Param("step"), req.QuestionID, req.Answer,
	)
	if err != nil {
		if errors.Is(err, domain.ErrVersionConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "The record was modified by another request. Reload and retry."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rejection != nil {
		c.JSON(http.StatusBadRequest, rejection)
		return
	}

	c.JSON(http.StatusOK, state)
}

// Review 表单完成度复核
func (h *Handler) Review(c *gin.Context) {
	brokerID, clientID, ok := h.identities(c)
	if !ok {
		return
	}

	result, err := h.service.Review(c.Request.Context(), brokerID, clientID, c.Param("form"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// identities 从会话与路径参数解析经纪人与客户身份
func (h *Handler) identities(c *gin.Context) (brokerID, clientID uint64, ok bool) {
	brokerID, ok = middleware.BrokerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return 0, 0, false
	}

	clientID, err := strconv.ParseUint(c.Param("clientId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
		return 0, 0, false
	}

	return brokerID, clientID, true
}
