// Package config 提供配置加载和管理功能
package config

import "time"

// 凭证对应的环境变量名，用于启动日志和"未配置"错误提示
const (
	LLMAPIKeyEnv   = "LLM_API_KEY"
	ImageAPIKeyEnv = "IMAGE_API_KEY"
)

// Config 应用配置根结构
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Server        ServerConfig        `mapstructure:"server"`
	LLM           LLMConfig           `mapstructure:"llm"`
	Image         ImageConfig         `mapstructure:"image"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Security      SecurityConfig      `mapstructure:"security"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	// RequestTimeout 单个请求的整体截止时间，0 表示不限制
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	// StaticDir 前端静态资源目录，需包含 index.html
	StaticDir string `mapstructure:"static_dir"`
}

// LLMConfig 文本生成服务配置
type LLMConfig struct {
	// Provider openai 或 ark
	Provider    string        `mapstructure:"provider"`
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Region      string        `mapstructure:"region"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// Configured 文本服务凭证是否存在
func (c LLMConfig) Configured() bool {
	return c.APIKey != ""
}

// ImageConfig 图片生成服务配置
type ImageConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Size    string        `mapstructure:"size"`
	Timeout time.Duration `mapstructure:"timeout"`
	// ResponseFormat url 或 b64_json，b64_json 时返回 data URL
	ResponseFormat string `mapstructure:"response_format"`
	// Concurrency 同时进行的图片请求数，1 为严格顺序
	Concurrency int `mapstructure:"concurrency"`
	// Interval 两次图片请求之间的最小间隔，0 表示不限速
	Interval time.Duration `mapstructure:"interval"`
	// CacheTTL 相同提示词的图片结果缓存时间，0 表示关闭
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	// Mock 不调用外部服务，返回占位图片
	Mock bool `mapstructure:"mock"`
}

// Configured 图片服务是否可用
func (c ImageConfig) Configured() bool {
	return c.APIKey != "" || c.Mock
}

// ObservabilityConfig 可观测性配置
type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Tracing TracingConfig `mapstructure:"tracing"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TracingConfig 追踪配置
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	Endpoint   string  `mapstructure:"endpoint"`
	SampleRate float64 `mapstructure:"sample_rate"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	CORS CORSConfig `mapstructure:"cors"`
}

// CORSConfig CORS 配置
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}
