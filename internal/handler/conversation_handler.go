package handler

import (
	"iris-voice-go/internal/middleware"
	"iris-voice-go/internal/service"
	"iris-voice-go/pkg/log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ConversationHandler 处理与会话历史相关的 API 请求。
type ConversationHandler struct {
	service service.ConversationService
}

// NewConversationHandler 创建一个新的 ConversationHandler。
func NewConversationHandler(service service.ConversationService) *ConversationHandler {
	return &ConversationHandler{service: service}
}

// GetConversation 返回当前会话的历史消息。
func (h *ConversationHandler) GetConversation(c *gin.Context) {
	history, err := h.service.GetConversationHistory(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		log.Errorf("GetConversation: %v", err)
		fail(c, http.StatusInternalServerError, "Failed to retrieve conversation history")
		return
	}
	success(c, history)
}

// ClearConversation 清空当前会话的历史消息。
func (h *ConversationHandler) ClearConversation(c *gin.Context) {
	if err := h.service.ClearConversation(c.Request.Context(), middleware.SessionID(c)); err != nil {
		log.Errorf("ClearConversation: %v", err)
		fail(c, http.StatusInternalServerError, "Failed to clear conversation history")
		return
	}
	success(c, nil)
}
