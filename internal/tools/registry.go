package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"coloringbook/internal/logger"
	"coloringbook/internal/metrics"
)

const (
	StoryToolName        = "story_generate"
	ColoringPageToolName = "coloring_page_generate"
)

// ErrToolNotFound 工具不存在
var ErrToolNotFound = errors.New("tool not found")

// Registry 按名称管理可调用工具
type Registry struct {
	tools map[string]einotool.InvokableTool
}

func NewRegistry(tools ...einotool.InvokableTool) (*Registry, error) {
	r := &Registry{tools: make(map[string]einotool.InvokableTool, len(tools))}
	for _, t := range tools {
		info, err := t.Info(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to read tool info: %w", err)
		}
		if _, ok := r.tools[info.Name]; ok {
			return nil, fmt.Errorf("duplicate tool %s", info.Name)
		}
		r.tools[info.Name] = t
	}
	return r, nil
}

// Infos 按名称排序返回工具描述
func (r *Registry) Infos(ctx context.Context) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(r.tools))
	for _, t := range r.tools {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Invoke 调用指定工具
func (r *Registry) Invoke(ctx context.Context, name, argumentsInJSON string) (string, error) {
	t, ok := r.tools[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	out, err := t.InvokableRun(ctx, argumentsInJSON)
	if err != nil {
		metrics.ToolCallTotal.WithLabelValues(name, "error").Inc()
		logger.FromContext(ctx).WithError(err).WithField("tool", name).Warn("tool invocation failed")
		return "", err
	}
	metrics.ToolCallTotal.WithLabelValues(name, "success").Inc()
	return out, nil
}
