package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"coloringbook/internal/model"
	"coloringbook/internal/story"
)

type fakeStories struct{}

func (fakeStories) Generate(ctx context.Context, req model.BookRequest) (model.Book, story.Source) {
	return story.TemplateBook(req), story.SourceTemplate
}

type fakeImages struct {
	got []model.PagePrompt
	err error
}

func (f *fakeImages) Generate(ctx context.Context, prompts []model.PagePrompt, character, title string) ([]model.GeneratedImage, error) {
	f.got = prompts
	if f.err != nil {
		return nil, f.err
	}
	return []model.GeneratedImage{{Page: prompts[0].Page, URL: "https://img/1"}}, nil
}

func newTestRegistry(t *testing.T, images *fakeImages) *Registry {
	t.Helper()
	r, err := NewRegistry(NewStoryTool(fakeStories{}), NewColoringPageTool(images))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestRegistryInfos(t *testing.T) {
	infos, err := newTestRegistry(t, &fakeImages{}).Infos(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 2 || infos[0].Name != ColoringPageToolName || infos[1].Name != StoryToolName {
		t.Errorf("unexpected tool infos: %v", infos)
	}
}

func TestRegistryDuplicate(t *testing.T) {
	if _, err := NewRegistry(NewStoryTool(fakeStories{}), NewStoryTool(fakeStories{})); err == nil {
		t.Error("expected duplicate tool error")
	}
}

func TestStoryTool(t *testing.T) {
	r := newTestRegistry(t, &fakeImages{})
	ctx := context.Background()

	out, err := r.Invoke(ctx, StoryToolName, `{"mainCharacter":"a bunny","pageCount":4}`)
	if err != nil {
		t.Fatal(err)
	}
	var resp StoryToolResp
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Source != story.SourceTemplate || len(resp.Book.Prompts) != 4 {
		t.Errorf("resp = %+v", resp)
	}

	if _, err := r.Invoke(ctx, StoryToolName, `{"title":"x"}`); err == nil {
		t.Error("expected error without character or idea")
	}
	if _, err := r.Invoke(ctx, StoryToolName, `not json`); err == nil {
		t.Error("expected error for invalid arguments")
	}
}

func TestColoringPageTool(t *testing.T) {
	images := &fakeImages{}
	r := newTestRegistry(t, images)
	ctx := context.Background()

	out, err := r.Invoke(ctx, ColoringPageToolName, `{"prompt":"a fox"}`)
	if err != nil {
		t.Fatal(err)
	}
	var resp ColoringPageToolResp
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Image.Page != 1 || resp.Image.URL == "" {
		t.Errorf("resp = %+v", resp)
	}
	if len(images.got) != 1 || images.got[0].Prompt != "a fox" {
		t.Errorf("prompts passed = %+v", images.got)
	}

	if _, err := r.Invoke(ctx, ColoringPageToolName, `{"prompt":" "}`); err == nil {
		t.Error("expected error for blank prompt")
	}

	images.err = errors.New("quota")
	if _, err := r.Invoke(ctx, ColoringPageToolName, `{"prompt":"a fox"}`); err == nil {
		t.Error("expected provider error to propagate")
	}
}

func TestRegistryUnknownTool(t *testing.T) {
	_, err := newTestRegistry(t, &fakeImages{}).Invoke(context.Background(), "video_generate", `{}`)
	if !errors.Is(err, ErrToolNotFound) {
		t.Errorf("err = %v, want ErrToolNotFound", err)
	}
}
