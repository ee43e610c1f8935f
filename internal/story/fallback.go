package story

import (
	"fmt"

	"coloringbook/internal/model"
)

// TemplateBook 文本服务不可用时生成的确定性绘本
func TemplateBook(req model.BookRequest) model.Book {
	r := resolve(req)
	return model.Book{
		Title:      r.Title,
		Tagline:    fmt.Sprintf("A gentle coloring adventure starring %s", r.Character),
		AgeRange:   r.AgeRange,
		Paragraphs: templateParagraphs(r),
		Prompts:    templatePrompts(r),
	}
}

func templateParagraphs(r resolved) []string {
	return []string{
		fmt.Sprintf("Once upon a time, there was %s.", r.Character),
		fmt.Sprintf("One calm morning, our friend set off on a little adventure: %s.", r.Idea),
		"Along the way, there were soft paths to follow, new sounds to hear, and small surprises around every corner.",
		"When things felt tricky, a kind helper appeared and showed that asking for help is a brave thing to do.",
		"Together they laughed, shared a snack, and watched the sky turn gold and pink.",
		fmt.Sprintf("At the end of the day, %s felt happy, safe, and ready for sweet dreams.", r.Character),
	}
}

func templatePrompts(r resolved) []model.PagePrompt {
	n := r.PageCount
	helper := n/2 + 1
	prompts := make([]model.PagePrompt, 0, n)
	for page := 1; page <= n; page++ {
		var text string
		switch page {
		case 1:
			text = fmt.Sprintf("%s waking up in a cozy bedroom, stretching and smiling", r.Character)
		case 2:
			text = fmt.Sprintf("%s stepping outside the front door, ready for %s", r.Character, r.Idea)
		case n:
			text = fmt.Sprintf("%s tucked into bed under a starry sky, sleeping peacefully", r.Character)
		case helper:
			text = fmt.Sprintf("%s meeting a kind helper animal who offers a paw", r.Character)
		default:
			text = fmt.Sprintf("%s on the adventure, scene %d, with simple trees, flowers and friendly clouds", r.Character, page)
		}
		prompts = append(prompts, model.PagePrompt{Page: page, Prompt: text})
	}
	return prompts
}
