package story

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"coloringbook/internal/model"
)

func TestResolvePageCount(t *testing.T) {
	tests := map[int]int{0: 8, 1: 4, 4: 4, 9: 9, 16: 16, 40: 16, -3: 4}
	for in, want := range tests {
		if got := ResolvePageCount(in); got != want {
			t.Errorf("ResolvePageCount(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestBuildStoryPrompt(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		p := BuildStoryPrompt(model.BookRequest{})
		for _, want := range []string{DefaultTitle, DefaultCharacter, DefaultStoryIdea, "age range: 3-5", "pages: 8", `"paragraphs"`, `"prompts"`, "JSON only", "code fences"} {
			if !strings.Contains(p, want) {
				t.Errorf("prompt missing %q", want)
			}
		}
	})

	t.Run("request values and clamping", func(t *testing.T) {
		p := BuildStoryPrompt(model.BookRequest{
			Title:         "Moon Picnic",
			MainCharacter: "a sleepy owl",
			StoryIdea:     "a picnic on the moon",
			AgeRange:      "4-6",
			PageCount:     30,
		})
		for _, want := range []string{"Moon Picnic", "a sleepy owl", "a picnic on the moon", "4-6", "pages: 16"} {
			if !strings.Contains(p, want) {
				t.Errorf("prompt missing %q", want)
			}
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		req := model.BookRequest{MainCharacter: "a bunny"}
		if BuildStoryPrompt(req) != BuildStoryPrompt(req) {
			t.Error("same request produced different prompts")
		}
	})
}

func TestNormalize(t *testing.T) {
	req := model.BookRequest{Title: "Req Title", AgeRange: "2-4", PageCount: 4}

	t.Run("malformed input soft fallback", func(t *testing.T) {
		book := Normalize("not json", model.BookRequest{})
		if !reflect.DeepEqual(book.Paragraphs, []string{"not json"}) {
			t.Errorf("paragraphs = %v", book.Paragraphs)
		}
		if book.Prompts == nil || len(book.Prompts) != 0 {
			t.Errorf("prompts = %v, want empty non-nil", book.Prompts)
		}
		if book.Title != "" || book.AgeRange != "" {
			t.Errorf("title/age should be empty, got %q %q", book.Title, book.AgeRange)
		}
	})

	t.Run("soft fallback keeps request title and raw text", func(t *testing.T) {
		raw := "  sorry, I cannot  \n"
		book := Normalize(raw, req)
		if book.Title != "Req Title" || book.AgeRange != "2-4" {
			t.Errorf("got %q %q", book.Title, book.AgeRange)
		}
		if len(book.Paragraphs) != 1 || book.Paragraphs[0] != raw {
			t.Errorf("paragraph = %q", book.Paragraphs[0])
		}
	})

	t.Run("fenced output", func(t *testing.T) {
		raw := "```json\n{\"title\":\"Fox\",\"paragraphs\":[\"a\",\"b\"],\"prompts\":[{\"page\":1,\"prompt\":\"p1\"}]}\n```"
		book := Normalize(raw, req)
		if book.Title != "Fox" || len(book.Paragraphs) != 2 || len(book.Prompts) != 1 {
			t.Errorf("book = %+v", book)
		}
	})

	t.Run("prose around object", func(t *testing.T) {
		raw := "Here is your book: {\"title\":\"Fox\",\"paragraphs\":[\"a\"]} Enjoy!"
		book := Normalize(raw, req)
		if book.Title != "Fox" {
			t.Errorf("title = %q", book.Title)
		}
	})

	t.Run("coercion", func(t *testing.T) {
		raw := `{
			"title": 7,
			"tagline": "Cozy",
			"paragraphs": ["one", 2, "", "three"],
			"prompts": [
				{"prompt": "no page"},
				{"page": 5, "prompt": "five"},
				{"page": 3},
				"bare string",
				{"page": -1, "prompt": "negative"},
				{"page": 9, "prompt": "over limit"}
			]
		}`
		book := Normalize(raw, req)
		if book.Title != "Req Title" {
			t.Errorf("non-string title should fall back to request, got %q", book.Title)
		}
		if book.AgeRange != "2-4" {
			t.Errorf("age = %q", book.AgeRange)
		}
		if !reflect.DeepEqual(book.Paragraphs, []string{"one", "", "three"}) {
			t.Errorf("paragraphs = %v", book.Paragraphs)
		}
		want := []model.PagePrompt{
			{Page: 1, Prompt: "no page"},
			{Page: 5, Prompt: "five"},
			{Page: 4, Prompt: "bare string"},
			{Page: 5, Prompt: "negative"},
		}
		if !reflect.DeepEqual(book.Prompts, want) {
			t.Errorf("prompts = %+v, want %+v", book.Prompts, want)
		}
	})

	t.Run("quoted page numbers", func(t *testing.T) {
		raw := `{"prompts":[{"page":"3","prompt":"three"},{"page":" 2 ","prompt":"two"},{"page":"x","prompt":"third"},{"page":"4.0","prompt":"four"}]}`
		book := Normalize(raw, req)
		want := []model.PagePrompt{
			{Page: 3, Prompt: "three"},
			{Page: 2, Prompt: "two"},
			{Page: 3, Prompt: "third"},
			{Page: 4, Prompt: "four"},
		}
		if !reflect.DeepEqual(book.Prompts, want) {
			t.Errorf("prompts = %+v, want %+v", book.Prompts, want)
		}
	})

	t.Run("missing arrays", func(t *testing.T) {
		book := Normalize(`{"title":"x","paragraphs":"nope"}`, req)
		if book.Paragraphs == nil || len(book.Paragraphs) != 0 || book.Prompts == nil || len(book.Prompts) != 0 {
			t.Errorf("book = %+v", book)
		}
	})

	t.Run("idempotent on well formed book", func(t *testing.T) {
		src := model.Book{
			Title:      "Fox",
			Tagline:    "Cozy",
			AgeRange:   "3-5",
			Paragraphs: []string{"a", "b"},
			Prompts:    []model.PagePrompt{{Page: 1, Prompt: "p1"}, {Page: 2, Prompt: "p2"}},
		}
		data, _ := json.Marshal(src)
		once := Normalize(string(data), req)
		if !reflect.DeepEqual(once, src) {
			t.Fatalf("normalize = %+v, want %+v", once, src)
		}
		again, _ := json.Marshal(once)
		if twice := Normalize(string(again), req); !reflect.DeepEqual(twice, once) {
			t.Errorf("second pass changed the book: %+v", twice)
		}
	})

	t.Run("whitespace and empty paragraphs survive", func(t *testing.T) {
		src := model.Book{
			Title:      " Fox ",
			Tagline:    "",
			AgeRange:   "3-5",
			Paragraphs: []string{"", "  Indented line.", "The end."},
			Prompts:    []model.PagePrompt{{Page: 1, Prompt: "  a fox by the river"}},
		}
		data, _ := json.Marshal(src)
		if got := Normalize(string(data), req); !reflect.DeepEqual(got, src) {
			t.Errorf("normalize = %+v, want %+v", got, src)
		}
	})
}

func TestTemplateBook(t *testing.T) {
	for _, count := range []int{0, 4, 5, 16, 99} {
		req := model.BookRequest{MainCharacter: "Pip the penguin", StoryIdea: "finding a lost mitten", PageCount: count}
		book := TemplateBook(req)
		n := ResolvePageCount(count)

		if len(book.Prompts) != n {
			t.Fatalf("count %d: got %d prompts, want %d", count, len(book.Prompts), n)
		}
		for i, p := range book.Prompts {
			if p.Page != i+1 || p.Prompt == "" {
				t.Errorf("count %d: prompt[%d] = %+v", count, i, p)
			}
		}
		if !strings.Contains(book.Prompts[0].Prompt, "waking up") {
			t.Errorf("first page template: %q", book.Prompts[0].Prompt)
		}
		if !strings.Contains(book.Prompts[n-1].Prompt, "tucked into bed") {
			t.Errorf("final page template: %q", book.Prompts[n-1].Prompt)
		}
		if !strings.Contains(book.Prompts[n/2].Prompt, "helper") {
			t.Errorf("helper page template: %q", book.Prompts[n/2].Prompt)
		}
		if !strings.Contains(book.Paragraphs[1], "finding a lost mitten") {
			t.Errorf("story idea missing: %q", book.Paragraphs[1])
		}
		if book.Title != DefaultTitle || book.AgeRange != DefaultAgeRange {
			t.Errorf("defaults: %q %q", book.Title, book.AgeRange)
		}
	}
}

type fakeChatModel struct {
	content string
	err     error
	delay   time.Duration
	got     []*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	f.got = input
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.content, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not supported")
}

func TestGenerator(t *testing.T) {
	ctx := context.Background()
	req := model.BookRequest{MainCharacter: "a bunny", PageCount: 4}

	t.Run("llm output", func(t *testing.T) {
		cm := &fakeChatModel{content: `{"title":"Bunny","paragraphs":["hop"],"prompts":[{"page":1,"prompt":"bunny"}]}`}
		g, err := NewGenerator(ctx, cm, time.Second)
		if err != nil {
			t.Fatal(err)
		}
		book, src := g.Generate(ctx, req)
		if src != SourceLLM || book.Title != "Bunny" {
			t.Errorf("src = %s, book = %+v", src, book)
		}
		if len(cm.got) != 2 || !strings.Contains(cm.got[1].Content, "a bunny") {
			t.Errorf("user message should carry the story brief, got %v", cm.got)
		}
	})

	t.Run("soft fallback", func(t *testing.T) {
		g, _ := NewGenerator(ctx, &fakeChatModel{content: "once upon a time"}, time.Second)
		book, src := g.Generate(ctx, req)
		if src != SourceSoftFallback || book.Paragraphs[0] != "once upon a time" {
			t.Errorf("src = %s, book = %+v", src, book)
		}
	})

	t.Run("provider error uses template", func(t *testing.T) {
		g, _ := NewGenerator(ctx, &fakeChatModel{err: errors.New("http 500")}, time.Second)
		book, src := g.Generate(ctx, req)
		if src != SourceTemplate || len(book.Prompts) != 4 {
			t.Errorf("src = %s, prompts = %d", src, len(book.Prompts))
		}
	})

	t.Run("timeout uses template", func(t *testing.T) {
		g, _ := NewGenerator(ctx, &fakeChatModel{content: "{}", delay: time.Second}, 20*time.Millisecond)
		_, src := g.Generate(ctx, req)
		if src != SourceTemplate {
			t.Errorf("src = %s", src)
		}
	})

	t.Run("no model", func(t *testing.T) {
		g, err := NewGenerator(ctx, nil, 0)
		if err != nil {
			t.Fatal(err)
		}
		if g.Configured() {
			t.Error("generator without model should not be configured")
		}
		if _, src := g.Generate(ctx, req); src != SourceTemplate {
			t.Errorf("src = %s", src)
		}
	})
}
