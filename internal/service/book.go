package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"coloringbook/internal/apperr"
	"coloringbook/internal/config"
	"coloringbook/internal/export"
	"coloringbook/internal/illustration"
	"coloringbook/internal/logger"
	"coloringbook/internal/metrics"
	"coloringbook/internal/model"
	"coloringbook/internal/story"
)

// StoryGenerator 生成绘本文本，内部处理所有兜底逻辑
type StoryGenerator interface {
	Generate(ctx context.Context, req model.BookRequest) (model.Book, story.Source)
}

// PageIllustrator 批量生成涂色页图片
type PageIllustrator interface {
	Generate(ctx context.Context, prompts []model.PagePrompt, character, title string) ([]model.GeneratedImage, error)
}

type BookService struct {
	stories StoryGenerator
	images  PageIllustrator
}

func NewBookService(stories StoryGenerator, images PageIllustrator) *BookService {
	return &BookService{stories: stories, images: images}
}

// GenerateBook 校验请求并生成绘本，文本服务的任何失败都不会返回错误
func (s *BookService) GenerateBook(ctx context.Context, req model.BookRequest) (model.Book, error) {
	if !req.HasSubject() {
		return model.Book{}, apperr.InvalidParam("mainCharacter or storyIdea is required")
	}

	book, src := s.stories.Generate(ctx, req)
	metrics.BookGenerationTotal.WithLabelValues(string(src)).Inc()
	logger.FromContext(ctx).WithFields(logrus.Fields{
		"source":     src,
		"paragraphs": len(book.Paragraphs),
		"prompts":    len(book.Prompts),
	}).Info("book generated")
	return book, nil
}

// GenerateImages 生成涂色页，错误被映射为可区分的应用错误
func (s *BookService) GenerateImages(ctx context.Context, req model.ImagesRequest) (model.ImagesResponse, error) {
	if !hasPrompt(req.Prompts) {
		return model.ImagesResponse{}, apperr.InvalidParam("prompts are required")
	}

	images, err := s.images.Generate(ctx, req.Prompts, req.MainCharacter, req.Title)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Warn("image generation failed")
		if appErr, ok := ImageError(err); ok {
			return model.ImagesResponse{}, appErr
		}
		return model.ImagesResponse{}, apperr.AsAppError(err)
	}

	logger.FromContext(ctx).WithField("images", len(images)).Info("coloring pages generated")
	return model.ImagesResponse{Images: images}, nil
}

// ExportPDF 渲染 PDF，返回内容与下载文件名
func (s *BookService) ExportPDF(ctx context.Context, book model.Book) ([]byte, string, error) {
	for i := range book.Prompts {
		if book.Prompts[i].Page <= 0 {
			book.Prompts[i].Page = i + 1
		}
	}
	data, err := export.RenderPDF(book)
	if err != nil {
		metrics.PDFExportTotal.WithLabelValues("error").Inc()
		return nil, "", apperr.Wrap(err, apperr.CodeInternalError, "failed to export pdf")
	}
	metrics.PDFExportTotal.WithLabelValues("success").Inc()
	logger.FromContext(ctx).WithField("bytes", len(data)).Info("pdf exported")
	return data, export.Filename(book.Title) + ".pdf", nil
}

// ImageError 将涂色页生成的错误映射为应用错误，无法识别时 ok 为 false
func ImageError(err error) (*apperr.AppError, bool) {
	switch {
	case errors.Is(err, illustration.ErrNotConfigured):
		return apperr.Wrap(err, apperr.CodeNotConfigured, "Missing "+config.ImageAPIKeyEnv), true
	case errors.Is(err, illustration.ErrBillingRequired):
		return apperr.Wrap(err, apperr.CodePaymentRequired,
			"Image provider requires payment. Please check the account balance or quota."), true
	case errors.Is(err, illustration.ErrNoImages):
		return apperr.Wrap(err, apperr.CodeGenerationFailed, "No images generated"), true
	}
	return nil, false
}

func hasPrompt(prompts []model.PagePrompt) bool {
	for _, p := range prompts {
		if strings.TrimSpace(p.Prompt) != "" {
			return true
		}
	}
	return false
}
