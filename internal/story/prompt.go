// Package story 负责绘本故事的提示词构建、模型输出规范化与模板兜底
package story

import (
	"fmt"
	"strings"

	"coloringbook/internal/model"
)

// 空字段的默认值
const (
	DefaultTitle     = "A Cozy Coloring Adventure"
	DefaultCharacter = "a friendly little fox with a striped scarf"
	DefaultStoryIdea = "exploring a quiet forest and making a new friend before bedtime"
	DefaultAgeRange  = "3-5"
	DefaultPageCount = 8
	MinPageCount     = 4
	MaxPageCount     = 16
)

// ResolvePageCount 0 表示未填写，其余值限制在 [MinPageCount, MaxPageCount]
func ResolvePageCount(n int) int {
	if n == 0 {
		return DefaultPageCount
	}
	if n < MinPageCount {
		return MinPageCount
	}
	if n > MaxPageCount {
		return MaxPageCount
	}
	return n
}

// resolved 应用默认值后的请求参数
type resolved struct {
	Title     string
	Character string
	Idea      string
	AgeRange  string
	PageCount int
}

func resolve(req model.BookRequest) resolved {
	return resolved{
		Title:     orDefault(req.Title, DefaultTitle),
		Character: orDefault(req.MainCharacter, DefaultCharacter),
		Idea:      orDefault(req.StoryIdea, DefaultStoryIdea),
		AgeRange:  orDefault(req.AgeRange, DefaultAgeRange),
		PageCount: ResolvePageCount(req.PageCount),
	}
}

func orDefault(s, def string) string {
	if v := strings.TrimSpace(s); v != "" {
		return v
	}
	return def
}

// BuildStoryPrompt 构建发给文本模型的完整指令
func BuildStoryPrompt(req model.BookRequest) string {
	r := resolve(req)

	var sb strings.Builder
	sb.WriteString("You are a children's author and coloring-book designer. ")
	sb.WriteString("Write a gentle picture-book story and matching coloring page scenes.\n\n")

	fmt.Fprintf(&sb, "Title: %s\n", r.Title)
	fmt.Fprintf(&sb, "Main character: %s\n", r.Character)
	fmt.Fprintf(&sb, "Story idea: %s\n", r.Idea)
	fmt.Fprintf(&sb, "Reader age range: %s\n", r.AgeRange)
	fmt.Fprintf(&sb, "Number of coloring pages: %d\n\n", r.PageCount)

	sb.WriteString("Tone: use short, simple sentences. Keep the energy calm and cozy, suitable for reading aloud at bedtime. ")
	sb.WriteString("Nothing scary or violent.\n\n")

	sb.WriteString("Return an object with exactly these fields:\n")
	sb.WriteString(`- "title": string, the book title` + "\n")
	sb.WriteString(`- "tagline": string, one short sentence for the cover` + "\n")
	sb.WriteString(`- "ageRange": string, the reader age range` + "\n")
	sb.WriteString(`- "paragraphs": array of strings, the story in reading order` + "\n")
	fmt.Fprintf(&sb, `- "prompts": array of exactly %d objects, each with "page" (integer starting at 1) and "prompt" (string describing one simple scene to draw as a coloring page)`+"\n\n", r.PageCount)

	sb.WriteString("Respond with JSON only. Do not add any commentary, and do not wrap the JSON in code fences.")
	return sb.String()
}
