package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler 存活检查，同时报告外部服务是否已配置
type HealthHandler struct {
	llmConfigured   bool
	imageConfigured bool
}

func NewHealthHandler(llmConfigured, imageConfigured bool) *HealthHandler {
	return &HealthHandler{llmConfigured: llmConfigured, imageConfigured: imageConfigured}
}

// Health GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"providers": gin.H{
			"llm":   h.llmConfigured,
			"image": h.imageConfigured,
		},
	})
}
