package handler

import (
	"iris-voice-go/internal/model"
	"iris-voice-go/internal/service"
	"iris-voice-go/pkg/log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CompletionHandler 暴露带学习缓存的回答生成接口。
type CompletionHandler struct {
	completionService service.CompletionService
}

// NewCompletionHandler 创建一个新的 CompletionHandler。
func NewCompletionHandler(completionService service.CompletionService) *CompletionHandler {
	return &CompletionHandler{completionService: completionService}
}

// GenerateRequest 是生成接口的请求体。
type GenerateRequest struct {
	Messages []model.ChatMessage `json:"messages" binding:"dive"`
}

// Generate 处理 POST /api/v1/chat/completions。
func (h *CompletionHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Generate: Invalid request payload, error: %v", err)
		fail(c, http.StatusBadRequest, "无效的请求负载")
		return
	}

	reply, err := h.completionService.Generate(c.Request.Context(), req.Messages)
	if err != nil {
		log.Warnf("Generate: failed, error: %v", err)
		failWith(c, err)
		return
	}
	success(c, reply)
}

// CacheStats 处理 GET /api/v1/cache/stats。
func (h *CompletionHandler) CacheStats(c *gin.Context) {
	success(c, h.completionService.Stats())
}
