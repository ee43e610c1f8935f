// Package handler 提供 HTTP 处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"coloringbook/internal/apperr"
	"coloringbook/internal/logger"
)

// ErrorResponse 错误响应体
type ErrorResponse struct {
	Error string           `json:"error"`
	Code  apperr.ErrorCode `json:"code"`
}

// writeError 记录完整错误，只向客户端返回简短信息
func writeError(c *gin.Context, err error) {
	appErr := apperr.AsAppError(err)
	entry := logger.FromContext(c.Request.Context()).WithError(err).WithField("code", appErr.Code)
	if appErr.HTTPStatus >= 500 {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus, ErrorResponse{Error: appErr.Message, Code: appErr.Code})
}
