package handler

import (
	"context"
	"iris-voice-go/internal/service"
	"iris-voice-go/pkg/log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// recordingURLExpiry 是录音下载链接的有效期。
const recordingURLExpiry = time.Hour

// RecordingLinker 为录音对象生成临时下载链接。
type RecordingLinker interface {
	GetPresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

// InteractionHandler 查询归档的交互记录。
type InteractionHandler struct {
	archiveService service.ArchiveService
	recordings     RecordingLinker
}

// NewInteractionHandler 创建一个新的 InteractionHandler，recordings 可以为 nil。
func NewInteractionHandler(archiveService service.ArchiveService, recordings RecordingLinker) *InteractionHandler {
	return &InteractionHandler{archiveService: archiveService, recordings: recordings}
}

// List 处理 GET /api/v1/interactions?sessionId=&limit=。
func (h *InteractionHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	items, err := h.archiveService.ListRecent(c.Request.Context(), c.Query("sessionId"), limit)
	if err != nil {
		log.Errorf("ListInteractions: %v", err)
		fail(c, http.StatusInternalServerError, "Failed to list interactions")
		return
	}

	if h.recordings != nil {
		for i := range items {
			if items[i].RecordingObject == "" {
				continue
			}
			url, err := h.recordings.GetPresignedURL(c.Request.Context(), items[i].RecordingObject, recordingURLExpiry)
			if err != nil {
				log.Warnf("生成录音链接失败: %s, error: %v", items[i].RecordingObject, err)
				continue
			}
			items[i].RecordingURL = url
		}
	}
	success(c, items)
}
