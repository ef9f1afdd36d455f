package handler

import (
	"iris-voice-go/pkg/log"
	"iris-voice-go/pkg/token"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionHandler 负责签发匿名会话令牌。
type SessionHandler struct {
	jwtManager *token.JWTManager
}

// NewSessionHandler 创建一个新的 SessionHandler。
func NewSessionHandler(jwtManager *token.JWTManager) *SessionHandler {
	return &SessionHandler{jwtManager: jwtManager}
}

// Create 处理 POST /api/v1/sessions。
func (h *SessionHandler) Create(c *gin.Context) {
	sessionID, tokenString, err := h.jwtManager.NewSession()
	if err != nil {
		log.Error("签发会话令牌失败", err)
		fail(c, http.StatusInternalServerError, "无法创建会话")
		return
	}
	log.Infof("新会话已创建: %s", sessionID)
	success(c, gin.H{"sessionId": sessionID, "token": tokenString})
}
