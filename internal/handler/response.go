// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"iris-voice-go/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": data})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"code": status, "message": message, "data": nil})
}

// statusFor 把业务错误映射为 HTTP 状态码与提示。
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, "输入不能为空"
	case errors.Is(err, service.ErrNoSpeech):
		return http.StatusUnprocessableEntity, "未识别到语音内容"
	case errors.Is(err, service.ErrGeneration):
		return http.StatusServiceUnavailable, "AI服务暂时不可用，请稍后重试"
	case errors.Is(err, service.ErrInference):
		return http.StatusBadGateway, "语音服务暂时不可用，请稍后重试"
	default:
		return http.StatusInternalServerError, "服务器内部错误"
	}
}

func failWith(c *gin.Context, err error) {
	status, message := statusFor(err)
	fail(c, status, message)
}
