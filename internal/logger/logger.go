// Package logger 基于 logrus 提供带请求上下文的结构化日志
package logger

import (
	"context"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// ContextKey 用于在 context 中保存日志字段的键类型
type ContextKey string

// 预定义的 context 键
const (
	RequestIDKey ContextKey = "request_id"
	TraceIDKey   ContextKey = "trace_id"
)

var contextKeys = []ContextKey{RequestIDKey, TraceIDKey}

// Init 初始化全局日志器
func Init(level string, format string) {
	if strings.ToLower(format) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(parseLevel(level))
}

func parseLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// WithContext 将日志字段注入到 context
func WithContext(ctx context.Context, key ContextKey, value string) context.Context {
	return context.WithValue(ctx, key, value)
}

// FromContext 从 context 提取请求信息，返回带字段的日志条目
func FromContext(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(logrus.StandardLogger())
	if ctx == nil {
		return entry
	}
	fields := logrus.Fields{}
	for _, key := range contextKeys {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			fields[string(key)] = v
		}
	}
	if len(fields) == 0 {
		return entry.WithContext(ctx)
	}
	return entry.WithContext(ctx).WithFields(fields)
}
