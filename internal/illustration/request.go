// Package illustration 将页面提示词转换为涂色页图片
package illustration

import (
	"fmt"
	"sort"
	"strings"

	"coloringbook/internal/model"
)

// MaxImagePages 单次请求最多生成的页数，不随请求参数变化
const MaxImagePages = 8

const styleDirective = "Black-and-white line art coloring page for young children: clean thick outlines, " +
	"no shading, no gray tones, no color fill, plain white background, simple shapes with large areas to color."

// ImageRequest 单页图片请求
type ImageRequest struct {
	Page   int
	Prompt string
}

// BuildImageRequests 按页码升序生成最多 MaxImagePages 个请求
// 空提示词被丢弃，缺失页码按原位置补齐
func BuildImageRequests(prompts []model.PagePrompt, character, title string) []ImageRequest {
	pages := make([]model.PagePrompt, 0, len(prompts))
	for i, p := range prompts {
		text := strings.TrimSpace(p.Prompt)
		if text == "" {
			continue
		}
		page := p.Page
		if page <= 0 {
			page = i + 1
		}
		pages = append(pages, model.PagePrompt{Page: page, Prompt: text})
	}
	sort.SliceStable(pages, func(i, j int) bool { return pages[i].Page < pages[j].Page })
	if len(pages) > MaxImagePages {
		pages = pages[:MaxImagePages]
	}

	consistency := consistencyInstruction(strings.TrimSpace(character), strings.TrimSpace(title))
	reqs := make([]ImageRequest, 0, len(pages))
	for _, p := range pages {
		var sb strings.Builder
		sb.WriteString(p.Prompt)
		sb.WriteString("\n\n")
		sb.WriteString(styleDirective)
		if consistency != "" {
			sb.WriteString("\n")
			sb.WriteString(consistency)
		}
		reqs = append(reqs, ImageRequest{Page: p.Page, Prompt: sb.String()})
	}
	return reqs
}

func consistencyInstruction(character, title string) string {
	switch {
	case character != "" && title != "":
		return fmt.Sprintf("This page belongs to the coloring book %q. Draw the main character, %s, with the same look on every page.", title, character)
	case character != "":
		return fmt.Sprintf("Draw the main character, %s, with the same look on every page.", character)
	case title != "":
		return fmt.Sprintf("Keep characters consistent with the other pages of the coloring book %q.", title)
	default:
		return ""
	}
}
