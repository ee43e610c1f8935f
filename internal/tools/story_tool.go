package tools

import (
	"context"
	"encoding/json"
	"errors"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"coloringbook/internal/model"
	"coloringbook/internal/story"
)

// StoryGenerator 与 service 层共用的故事生成能力
type StoryGenerator interface {
	Generate(ctx context.Context, req model.BookRequest) (model.Book, story.Source)
}

// StoryTool 实现eino框架的绘本故事生成工具
type StoryTool struct {
	stories StoryGenerator
}

// StoryToolResp 故事生成响应
type StoryToolResp struct {
	Book   model.Book   `json:"book"`
	Source story.Source `json:"source"` // llm / soft_fallback / template
}

// NewStoryTool 创建故事生成工具实例
func NewStoryTool(stories StoryGenerator) *StoryTool {
	return &StoryTool{stories: stories}
}

// Info 获取故事生成工具信息
func (t *StoryTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	params := map[string]*schema.ParameterInfo{
		"title":         {Type: schema.String, Required: false, Desc: "书名"},
		"mainCharacter": {Type: schema.String, Required: false, Desc: "主角描述，与 storyIdea 至少填一个"},
		"storyIdea":     {Type: schema.String, Required: false, Desc: "故事构思，与 mainCharacter 至少填一个"},
		"ageRange":      {Type: schema.String, Required: false, Desc: "适读年龄，如3-5"},
		"pageCount":     {Type: schema.Integer, Required: false, Desc: "涂色页数量，4到16，默认8"},
	}
	return &schema.ToolInfo{
		Name:        StoryToolName,
		Desc:        "为儿童创作涂色绘本故事，返回正文段落和每页插画提示词",
		ParamsOneOf: schema.NewParamsOneOfByParams(params),
	}, nil
}

// InvokableRun 执行故事生成任务
func (t *StoryTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...einotool.Option) (string, error) {
	var args model.BookRequest
	if err := json.Unmarshal([]byte(argumentsInJSON), &args); err != nil {
		return "", err
	}
	if !args.HasSubject() {
		return "", errors.New("mainCharacter or storyIdea required")
	}

	book, src := t.stories.Generate(ctx, args)

	b, err := json.Marshal(StoryToolResp{Book: book, Source: src})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// 确保StoryTool实现了einotool.InvokableTool接口
var _ einotool.InvokableTool = (*StoryTool)(nil)
