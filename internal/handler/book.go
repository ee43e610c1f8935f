package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"coloringbook/internal/apperr"
	"coloringbook/internal/model"
)

// BookService 绘本业务接口
type BookService interface {
	GenerateBook(ctx context.Context, req model.BookRequest) (model.Book, error)
	GenerateImages(ctx context.Context, req model.ImagesRequest) (model.ImagesResponse, error)
	ExportPDF(ctx context.Context, book model.Book) ([]byte, string, error)
}

type BookHandler struct {
	svc BookService
}

func NewBookHandler(svc BookService) *BookHandler {
	return &BookHandler{svc: svc}
}

// GenerateBook POST /api/generate-book
func (h *BookHandler) GenerateBook(c *gin.Context) {
	var req model.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.Wrap(err, apperr.CodeInvalidParam, "invalid request body"))
		return
	}

	book, err := h.svc.GenerateBook(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// GenerateImages POST /api/generate-images
func (h *BookHandler) GenerateImages(c *gin.Context) {
	var req model.ImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.Wrap(err, apperr.CodeInvalidParam, "invalid request body"))
		return
	}

	resp, err := h.svc.GenerateImages(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportPDF POST /api/export-pdf
func (h *BookHandler) ExportPDF(c *gin.Context) {
	var book model.Book
	if err := c.ShouldBindJSON(&book); err != nil {
		writeError(c, apperr.Wrap(err, apperr.CodeInvalidParam, "invalid request body"))
		return
	}

	data, filename, err := h.svc.ExportPDF(c.Request.Context(), book)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
