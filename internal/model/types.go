package model

import (
	"encoding/json"
	"errors"
	"strings"
)

// BookRequest 生成绘本的用户输入
type BookRequest struct {
	Title         string `json:"title"`         // 书名
	MainCharacter string `json:"mainCharacter"` // 主角描述
	StoryIdea     string `json:"storyIdea"`     // 故事构思
	AgeRange      string `json:"ageRange"`      // 适读年龄，如 "3-5"
	PageCount     int    `json:"pageCount"`     // 页数，0 表示默认
}

// HasSubject 主角或故事构思至少有一个非空
func (r BookRequest) HasSubject() bool {
	return strings.TrimSpace(r.MainCharacter) != "" || strings.TrimSpace(r.StoryIdea) != ""
}

// Book 规范化后的绘本
type Book struct {
	Title      string       `json:"title"`
	Tagline    string       `json:"tagline"`
	AgeRange   string       `json:"ageRange"`
	Paragraphs []string     `json:"paragraphs"` // 故事正文，按叙事顺序
	Prompts    []PagePrompt `json:"prompts"`    // 每页涂色插画的场景描述
}

// MarshalJSON 空切片编码为 []
func (b Book) MarshalJSON() ([]byte, error) {
	type alias Book
	a := alias(b)
	if a.Paragraphs == nil {
		a.Paragraphs = []string{}
	}
	if a.Prompts == nil {
		a.Prompts = []PagePrompt{}
	}
	return json.Marshal(a)
}

// PagePrompt 单页插画提示词
type PagePrompt struct {
	Page   int    `json:"page"`
	Prompt string `json:"prompt"`
}

// UnmarshalJSON 兼容 {"page":1,"prompt":"..."} 与纯字符串两种写法
// 纯字符串的页码为 0，由调用方按位置补齐
func (p *PagePrompt) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = PagePrompt{Prompt: s}
		return nil
	}
	var obj struct {
		Page   json.Number `json:"page"`
		Prompt string      `json:"prompt"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return errors.New("prompt must be a string or an object with page and prompt")
	}
	page := 0
	if obj.Page != "" {
		if n, err := obj.Page.Float64(); err == nil {
			page = int(n)
		}
	}
	*p = PagePrompt{Page: page, Prompt: obj.Prompt}
	return nil
}

// GeneratedImage 单页生成结果，URL 可能是远程地址或 data URL
type GeneratedImage struct {
	Page int    `json:"page"`
	URL  string `json:"url"`
}

// ImagesRequest 批量生成涂色页的请求
type ImagesRequest struct {
	Prompts       []PagePrompt `json:"prompts"`
	MainCharacter string       `json:"mainCharacter"`
	Title         string       `json:"title"`
}

// ImagesResponse 批量生成涂色页的响应
type ImagesResponse struct {
	Images []GeneratedImage `json:"images"`
}
