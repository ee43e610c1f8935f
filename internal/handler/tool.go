package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"coloringbook/internal/apperr"
	"coloringbook/internal/service"
	"coloringbook/internal/tools"
)

type ToolHandler struct {
	registry *tools.Registry
}

func NewToolHandler(registry *tools.Registry) *ToolHandler {
	return &ToolHandler{registry: registry}
}

// List GET /api/tools
func (h *ToolHandler) List(c *gin.Context) {
	infos, err := h.registry.Infos(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	type toolDesc struct {
		Name string `json:"name"`
		Desc string `json:"desc"`
	}
	out := make([]toolDesc, 0, len(infos))
	for _, info := range infos {
		out = append(out, toolDesc{Name: info.Name, Desc: info.Desc})
	}
	c.JSON(http.StatusOK, gin.H{"tools": out})
}

// Invoke POST /api/tools/:name，请求体即工具参数 JSON
func (h *ToolHandler) Invoke(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || !json.Valid(body) {
		writeError(c, apperr.InvalidParam("request body must be a JSON object"))
		return
	}

	out, err := h.registry.Invoke(c.Request.Context(), c.Param("name"), string(body))
	if err != nil {
		if errors.Is(err, tools.ErrToolNotFound) {
			writeError(c, apperr.Wrap(err, apperr.CodeNotFound, "tool not found"))
			return
		}
		// 涂色页工具与 /api/generate-images 使用同一套状态码
		if appErr, ok := service.ImageError(err); ok {
			writeError(c, appErr)
			return
		}
		writeError(c, apperr.Wrap(err, apperr.CodeGenerationFailed, "tool invocation failed"))
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(out))
}
