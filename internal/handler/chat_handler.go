package handler

import (
	"encoding/json"
	"errors"
	"iris-voice-go/internal/service"
	"iris-voice-go/pkg/log"
	"iris-voice-go/pkg/token"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var (
	upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true // 允许所有来源
		},
	}
)

// 推送给前端的事件类型。
const (
	eventTranscription = "transcription"
	eventResponse      = "response"
	eventError         = "error"
)

var errInvalidFrame = errors.New("invalid websocket frame")

// ChatHandler 负责处理 WebSocket 语音/文本会话。
type ChatHandler struct {
	assistantService service.AssistantService
	jwtManager       *token.JWTManager
}

// NewChatHandler 创建一个新的 ChatHandler。
func NewChatHandler(assistantService service.AssistantService, jwtManager *token.JWTManager) *ChatHandler {
	return &ChatHandler{
		assistantService: assistantService,
		jwtManager:       jwtManager,
	}
}

// inboundMessage 是客户端发送的 JSON 文本帧。
type inboundMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Handle 处理 GET /ws/:token。
// 文本帧（纯文本或 {"type":"message","content":"..."}）按文本交互处理；
// 二进制帧视为一段录音，先推送 transcription 事件，再推送 response 事件。
func (h *ChatHandler) Handle(c *gin.Context) {
	claims, err := h.jwtManager.VerifyToken(c.Param("token"))
	if err != nil {
		fail(c, http.StatusUnauthorized, "无效的 token")
		return
	}
	sessionID := claims.SessionID

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket 升级失败", err)
		return
	}
	defer conn.Close()

	log.Infof("WebSocket 连接已建立，会话: %s", sessionID)

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warnf("从 WebSocket 读取消息失败: %v", err)
			}
			break
		}

		ctx := c.Request.Context()
		switch messageType {
		case websocket.BinaryMessage:
			turn, err := h.assistantService.HandleAudio(ctx, sessionID, "ws-recording.webm", message)
			if err != nil {
				writeError(conn, err)
				continue
			}
			writeEvent(conn, eventTranscription, gin.H{"message": turn.Transcript, "emotion": turn.Emotion})
			writeEvent(conn, eventResponse, gin.H{"message": turn.Reply, "source": turn.Source, "audio": turn.Audio})
		case websocket.TextMessage:
			text := string(message)
			var in inboundMessage
			if len(message) > 0 && message[0] == '{' {
				if err := json.Unmarshal(message, &in); err != nil || in.Type != "message" {
					writeError(conn, errInvalidFrame)
					continue
				}
				text = in.Content
			}
			turn, err := h.assistantService.HandleText(ctx, sessionID, text)
			if err != nil {
				writeError(conn, err)
				continue
			}
			writeEvent(conn, eventResponse, gin.H{"message": turn.Reply, "source": turn.Source, "audio": turn.Audio})
		}
	}
}

func writeEvent(conn *websocket.Conn, eventType string, payload gin.H) {
	payload["type"] = eventType
	payload["timestamp"] = time.Now().UnixMilli()
	b, _ := json.Marshal(payload)
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		log.Warnf("写入 WebSocket 消息失败: %v", err)
	}
}

func writeError(conn *websocket.Conn, err error) {
	log.Warnf("处理 WebSocket 消息失败: %v", err)
	_, message := statusFor(err)
	if errors.Is(err, errInvalidFrame) {
		message = "无效的消息格式"
	}
	writeEvent(conn, eventError, gin.H{"message": message})
}
