package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"coloringbook/internal/apperr"
	"coloringbook/internal/illustration"
	"coloringbook/internal/model"
	"coloringbook/internal/story"
)

type fakeStories struct {
	calls int
}

func (f *fakeStories) Generate(ctx context.Context, req model.BookRequest) (model.Book, story.Source) {
	f.calls++
	return story.TemplateBook(req), story.SourceTemplate
}

type fakeImages struct {
	images []model.GeneratedImage
	err    error
}

func (f *fakeImages) Generate(ctx context.Context, prompts []model.PagePrompt, character, title string) ([]model.GeneratedImage, error) {
	return f.images, f.err
}

func TestGenerateBook(t *testing.T) {
	stories := &fakeStories{}
	svc := NewBookService(stories, &fakeImages{})

	_, err := svc.GenerateBook(context.Background(), model.BookRequest{Title: "only a title", StoryIdea: "  "})
	if appErr := apperr.AsAppError(err); appErr.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("err = %v, want 400", err)
	}
	if stories.calls != 0 {
		t.Error("invalid request must not reach the generator")
	}

	book, err := svc.GenerateBook(context.Background(), model.BookRequest{MainCharacter: "a bunny", PageCount: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(book.Prompts) > 5 {
		t.Errorf("prompts = %d, want <= 5", len(book.Prompts))
	}
	for _, p := range book.Prompts {
		if p.Page <= 0 {
			t.Errorf("non-positive page %d", p.Page)
		}
	}
}

func TestGenerateImagesErrors(t *testing.T) {
	prompts := []model.PagePrompt{{Page: 1, Prompt: "a fox"}}

	tests := []struct {
		name       string
		req        model.ImagesRequest
		images     *fakeImages
		wantStatus int
		wantMsg    string
	}{
		{"missing prompts", model.ImagesRequest{}, &fakeImages{}, http.StatusBadRequest, "prompts are required"},
		{"blank prompts", model.ImagesRequest{Prompts: []model.PagePrompt{{Prompt: " "}}}, &fakeImages{}, http.StatusBadRequest, "prompts are required"},
		{"not configured", model.ImagesRequest{Prompts: prompts}, &fakeImages{err: illustration.ErrNotConfigured}, http.StatusInternalServerError, "Missing IMAGE_API_KEY"},
		{"billing", model.ImagesRequest{Prompts: prompts}, &fakeImages{err: fmt.Errorf("%w: page 3", illustration.ErrBillingRequired)}, http.StatusPaymentRequired, ""},
		{"no images", model.ImagesRequest{Prompts: prompts}, &fakeImages{err: illustration.ErrNoImages}, http.StatusInternalServerError, "No images generated"},
		{"unexpected", model.ImagesRequest{Prompts: prompts}, &fakeImages{err: errors.New("kaboom")}, http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBookService(&fakeStories{}, tt.images).GenerateImages(context.Background(), tt.req)
			var appErr *apperr.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("expected AppError, got %v", err)
			}
			if appErr.HTTPStatus != tt.wantStatus {
				t.Errorf("status = %d, want %d", appErr.HTTPStatus, tt.wantStatus)
			}
			if tt.wantMsg != "" && appErr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", appErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestGenerateImagesSuccess(t *testing.T) {
	want := []model.GeneratedImage{{Page: 1, URL: "https://img/1"}, {Page: 3, URL: "https://img/3"}}
	svc := NewBookService(&fakeStories{}, &fakeImages{images: want})
	resp, err := svc.GenerateImages(context.Background(), model.ImagesRequest{Prompts: []model.PagePrompt{{Page: 1, Prompt: "a"}}})
	if err != nil {
		t.Fatal(err)
	}
	if fmt.Sprint(resp.Images) != fmt.Sprint(want) {
		t.Errorf("images = %v", resp.Images)
	}
}

func TestExportPDF(t *testing.T) {
	svc := NewBookService(&fakeStories{}, &fakeImages{})
	data, name, err := svc.ExportPDF(context.Background(), model.Book{Title: "Sam's Night: Part 1!"})
	if err != nil {
		t.Fatal(err)
	}
	if name != "Sams_Night_Part_1.pdf" {
		t.Errorf("filename = %q", name)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("expected a PDF document")
	}
}
