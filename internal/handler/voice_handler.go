package handler

import (
	"io"
	"iris-voice-go/internal/middleware"
	"iris-voice-go/internal/service"
	"iris-voice-go/pkg/log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// maxAudioBytes 是单次上传录音的大小上限（25MB）。
const maxAudioBytes = 25 << 20

// VoiceHandler 处理语音交互相关的请求。
type VoiceHandler struct {
	assistantService service.AssistantService
}

// NewVoiceHandler 创建一个新的 VoiceHandler。
func NewVoiceHandler(assistantService service.AssistantService) *VoiceHandler {
	return &VoiceHandler{assistantService: assistantService}
}

// TextRequest 是文本输入与语音合成接口的请求体。
type TextRequest struct {
	Text string `json:"text" binding:"required"`
}

// Turn 处理 POST /api/v1/voice/turn，表单字段 file 为录音。
func (h *VoiceHandler) Turn(c *gin.Context) {
	fileName, audio, ok := readAudio(c)
	if !ok {
		return
	}
	turn, err := h.assistantService.HandleAudio(c.Request.Context(), middleware.SessionID(c), fileName, audio)
	if err != nil {
		log.Warnf("Turn: failed, error: %v", err)
		failWith(c, err)
		return
	}
	success(c, turn)
}

// Text 处理 POST /api/v1/voice/text。
func (h *VoiceHandler) Text(c *gin.Context) {
	var req TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "无效的请求负载：text 不能为空")
		return
	}
	turn, err := h.assistantService.HandleText(c.Request.Context(), middleware.SessionID(c), req.Text)
	if err != nil {
		log.Warnf("Text: failed, error: %v", err)
		failWith(c, err)
		return
	}
	success(c, turn)
}

// WakeWord 处理 POST /api/v1/voice/wake-word。
func (h *VoiceHandler) WakeWord(c *gin.Context) {
	fileName, audio, ok := readAudio(c)
	if !ok {
		return
	}
	detected, err := h.assistantService.DetectWakeWord(c.Request.Context(), fileName, audio)
	if err != nil {
		failWith(c, err)
		return
	}
	success(c, gin.H{"detected": detected})
}

// Speech 处理 POST /api/v1/voice/speech。
func (h *VoiceHandler) Speech(c *gin.Context) {
	var req TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "无效的请求负载：text 不能为空")
		return
	}
	audio, err := h.assistantService.Speak(c.Request.Context(), req.Text)
	if err != nil {
		failWith(c, err)
		return
	}
	success(c, gin.H{"audio": audio})
}

func readAudio(c *gin.Context) (string, []byte, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "缺少录音文件")
		return "", nil, false
	}
	if fileHeader.Size > maxAudioBytes {
		fail(c, http.StatusRequestEntityTooLarge, "录音文件过大")
		return "", nil, false
	}
	file, err := fileHeader.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, "无法读取录音文件")
		return "", nil, false
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		fail(c, http.StatusBadRequest, "无法读取录音文件")
		return "", nil, false
	}
	return fileHeader.Filename, audio, true
}
