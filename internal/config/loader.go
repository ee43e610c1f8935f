package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// DefaultConfigFile 默认配置文件路径，可通过 CONFIG_FILE 覆盖
const DefaultConfigFile = "configs/config.yaml"

var envPattern = regexp.MustCompile(`\${(\w+)(:([^}]*))?}`)

// Load 加载配置
// 按优先级加载：默认值 -> 配置文件 -> 环境变量
func Load() (*Config, error) {
	path := os.Getenv("CONFIG_FILE")
	optional := path == ""
	if path == "" {
		path = DefaultConfigFile
	}
	return LoadFile(path, optional)
}

// LoadFile 从指定文件加载配置，optional 为 true 时文件不存在不报错
func LoadFile(path string, optional bool) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := loadConfigFile(v, path, optional); err != nil {
		return nil, err
	}

	// 环境变量直接覆盖，llm.api_key -> LLM_API_KEY
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Image.Concurrency < 1 {
		cfg.Image.Concurrency = 1
	}
	switch cfg.Image.ResponseFormat {
	case "url", "b64_json":
	default:
		return nil, fmt.Errorf("invalid image.response_format %q, want url or b64_json", cfg.Image.ResponseFormat)
	}
	return &cfg, nil
}

// loadConfigFile 读取文件，执行环境变量替换，并合并到 viper
func loadConfigFile(v *viper.Viper, path string, optional bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := v.MergeConfig(strings.NewReader(expandEnv(string(content)))); err != nil {
		return fmt.Errorf("failed to merge config %s: %w", path, err)
	}
	return nil
}

// expandEnv 替换字符串中的 ${VAR} 与 ${VAR:default} 占位符
func expandEnv(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		sub := envPattern.FindStringSubmatch(match)
		if val, ok := os.LookupEnv(sub[1]); ok {
			return val
		}
		if sub[2] != "" {
			return sub[3]
		}
		// 未定义且无默认值时保留原样，便于排查
		return match
	})
}

// setDefaults 设置配置默认值
// 所有需要被环境变量覆盖的键都必须在这里登记
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "coloring-book")
	v.SetDefault("app.env", "development")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "5m")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "4m")
	v.SetDefault("server.static_dir", "public")

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.region", "cn-beijing")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.max_tokens", 2048)
	v.SetDefault("llm.temperature", 0.8)
	v.SetDefault("llm.timeout", "60s")

	v.SetDefault("image.api_key", "")
	v.SetDefault("image.base_url", "https://ark.cn-beijing.volces.com")
	v.SetDefault("image.model", "doubao-seedream-4.0")
	v.SetDefault("image.size", "1024x1024")
	v.SetDefault("image.timeout", "90s")
	v.SetDefault("image.response_format", "url")
	v.SetDefault("image.concurrency", 1)
	v.SetDefault("image.interval", "0s")
	v.SetDefault("image.cache_ttl", "30m")
	v.SetDefault("image.mock", false)

	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "text")
	v.SetDefault("observability.tracing.enabled", false)
	v.SetDefault("observability.tracing.endpoint", "localhost:4317")
	v.SetDefault("observability.tracing.sample_rate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.path", "/metrics")

	v.SetDefault("security.cors.allowed_origins", []string{"*"})
	v.SetDefault("security.cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("security.cors.allowed_headers", []string{"Origin", "Content-Type", "X-Request-ID"})
}
