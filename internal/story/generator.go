package story

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"coloringbook/internal/logger"
	bookmodel "coloringbook/internal/model"
)

// Source 绘本内容的来源
type Source string

const (
	SourceLLM          Source = "llm"
	SourceSoftFallback Source = "soft_fallback"
	SourceTemplate     Source = "template"
)

const systemPrompt = "You write warm, simple stories for young children and always answer with a single JSON object."

// Generator 通过 eino 链调用文本模型生成绘本
type Generator struct {
	chain   compose.Runnable[map[string]any, *schema.Message]
	timeout time.Duration
}

// NewGenerator cm 为 nil 时所有请求都走模板兜底
func NewGenerator(ctx context.Context, cm model.BaseChatModel, timeout time.Duration) (*Generator, error) {
	g := &Generator{timeout: timeout}
	if cm == nil {
		return g, nil
	}

	tpl := prompt.FromMessages(schema.FString,
		schema.SystemMessage(systemPrompt),
		// 指令里含有 JSON 花括号，整体作为变量传入，避免被模板解析
		schema.UserMessage("{brief}"),
	)
	chain, err := compose.NewChain[map[string]any, *schema.Message]().
		AppendChatTemplate(tpl).
		AppendChatModel(cm).
		Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile story chain: %w", err)
	}
	g.chain = chain
	return g, nil
}

// Configured 是否接入了文本模型
func (g *Generator) Configured() bool {
	return g.chain != nil
}

// Generate 生成绘本，任何模型调用错误都会退回模板，不向调用方返回错误
func (g *Generator) Generate(ctx context.Context, req bookmodel.BookRequest) (bookmodel.Book, Source) {
	log := logger.FromContext(ctx)
	if g.chain == nil {
		log.Info("text model not configured, using template book")
		return TemplateBook(req), SourceTemplate
	}

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	msg, err := g.chain.Invoke(callCtx, map[string]any{"brief": BuildStoryPrompt(req)})
	if err != nil {
		log.WithError(err).Warn("story generation failed, using template book")
		return TemplateBook(req), SourceTemplate
	}
	if msg == nil {
		log.Warn("story generation returned no message, using template book")
		return TemplateBook(req), SourceTemplate
	}

	book, soft := normalize(msg.Content, req)
	if soft {
		log.WithField("raw_length", len(msg.Content)).Warn("model output is not valid JSON, returning raw text")
		return book, SourceSoftFallback
	}
	return book, SourceLLM
}
