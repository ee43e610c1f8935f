package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"coloringbook/internal/model"
)

// PageIllustrator 与 service 层共用的涂色页生成能力
type PageIllustrator interface {
	Generate(ctx context.Context, prompts []model.PagePrompt, character, title string) ([]model.GeneratedImage, error)
}

type ColoringPageTool struct {
	images PageIllustrator
}

type ColoringPageToolArgs struct {
	Prompt        string `json:"prompt"`
	Page          int    `json:"page"`
	MainCharacter string `json:"mainCharacter"`
	Title         string `json:"title"`
}

type ColoringPageToolResp struct {
	Image model.GeneratedImage `json:"image"`
}

func NewColoringPageTool(images PageIllustrator) *ColoringPageTool {
	return &ColoringPageTool{images: images}
}

func (t *ColoringPageTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	params := map[string]*schema.ParameterInfo{
		"prompt":        {Type: schema.String, Required: true, Desc: "场景描述"},
		"page":          {Type: schema.Integer, Required: false, Desc: "页码，默认1"},
		"mainCharacter": {Type: schema.String, Required: false, Desc: "主角描述，用于保持角色一致"},
		"title":         {Type: schema.String, Required: false, Desc: "书名"},
	}
	return &schema.ToolInfo{
		Name:        ColoringPageToolName,
		Desc:        "调用Seedream生成一张黑白线稿涂色页",
		ParamsOneOf: schema.NewParamsOneOfByParams(params),
	}, nil
}

func (t *ColoringPageTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...einotool.Option) (string, error) {
	var args ColoringPageToolArgs
	if err := json.Unmarshal([]byte(argumentsInJSON), &args); err != nil {
		return "", err
	}
	if strings.TrimSpace(args.Prompt) == "" {
		return "", errors.New("prompt required")
	}
	if args.Page <= 0 {
		args.Page = 1
	}

	images, err := t.images.Generate(ctx, []model.PagePrompt{{Page: args.Page, Prompt: args.Prompt}}, args.MainCharacter, args.Title)
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(ColoringPageToolResp{Image: images[0]})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

var _ einotool.InvokableTool = (*ColoringPageTool)(nil)
