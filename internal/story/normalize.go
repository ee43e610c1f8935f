package story

import (
	"encoding/json"
	"strconv"
	"strings"

	"coloringbook/internal/model"
)

// Normalize 将模型输出规范化为 Book
// 解析失败不会报错，而是把原文作为唯一段落返回
// 合法字符串按原样保留，已规范的 Book 再次规范化结果不变
func Normalize(raw string, req model.BookRequest) model.Book {
	book, _ := normalize(raw, req)
	return book
}

// normalize 第二个返回值表示是否走了软兜底
func normalize(raw string, req model.BookRequest) (model.Book, bool) {
	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSONObject(stripFences(raw))), &data); err != nil || data == nil {
		return softFallback(raw, req), true
	}

	book := model.Book{
		Title:      stringField(data, "title", req.Title),
		Tagline:    stringField(data, "tagline", ""),
		AgeRange:   stringField(data, "ageRange", req.AgeRange),
		Paragraphs: paragraphsOf(data["paragraphs"]),
		Prompts:    promptsOf(data["prompts"]),
	}

	if limit := ResolvePageCount(req.PageCount); len(book.Prompts) > limit {
		book.Prompts = book.Prompts[:limit]
	}
	return book, false
}

func softFallback(raw string, req model.BookRequest) model.Book {
	return model.Book{
		Title:      req.Title,
		AgeRange:   req.AgeRange,
		Paragraphs: []string{raw},
		Prompts:    []model.PagePrompt{},
	}
}

// stripFences 去掉 ```json ... ``` 包裹
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		// 第一行是语言标记，如 json
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

// extractJSONObject 截取第一个 { 到最后一个 } 之间的内容，模型偶尔会在 JSON 前后附带说明文字
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}

func stringField(data map[string]any, key, def string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return def
}

func paragraphsOf(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func promptsOf(v any) []model.PagePrompt {
	items, ok := v.([]any)
	if !ok {
		return []model.PagePrompt{}
	}
	out := make([]model.PagePrompt, 0, len(items))
	for i, it := range items {
		var (
			page   int
			prompt string
		)
		switch e := it.(type) {
		case string:
			prompt = e
		case map[string]any:
			if p, ok := e["prompt"].(string); ok {
				prompt = p
			}
			page = pageOf(e["page"])
		}
		if strings.TrimSpace(prompt) == "" {
			continue
		}
		if page <= 0 {
			page = i + 1
		}
		out = append(out, model.PagePrompt{Page: page, Prompt: prompt})
	}
	return out
}

// pageOf 页码可能是数字或数字字符串，无法识别时返回 0
func pageOf(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return int(f)
		}
	}
	return 0
}
