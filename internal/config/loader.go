package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// envVarPattern 匹配 ${VAR} 或 ${VAR:default} 形式的占位符
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::([^}]*))?\}`)

// Load 加载配置文件并返回 Config
// 先读取 configs/config.yaml，再按 APP_ENV 叠加 config.{env}.yaml，
// 最后允许环境变量覆盖（如 OPENROUTER_TIMEOUT 覆盖 openrouter.timeout）
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v)

	if configPath == "" {
		configPath = "configs"
	}

	base, err := readAndExpand(fmt.Sprintf("%s/config.yaml", configPath))
	if err != nil {
		return nil, fmt.Errorf("读取基础配置失败: %w", err)
	}
	if err := v.ReadConfig(strings.NewReader(base)); err != nil {
		return nil, fmt.Errorf("解析基础配置失败: %w", err)
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	envFile := fmt.Sprintf("%s/config.%s.yaml", configPath, env)
	if _, statErr := os.Stat(envFile); statErr == nil {
		overlay, err := readAndExpand(envFile)
		if err != nil {
			return nil, fmt.Errorf("读取环境配置失败: %w", err)
		}
		if err := v.MergeConfig(strings.NewReader(overlay)); err != nil {
			return nil, fmt.Errorf("合并环境配置失败: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("反序列化配置失败: %w", err)
	}

	cfg.App.Env = env

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// readAndExpand 读取文件并展开其中的环境变量占位符
func readAndExpand(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return expandEnv(string(data)), nil
}

// expandEnv 将 ${VAR:default} 替换为环境变量值或默认值
func expandEnv(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		name, def := groups[1], groups[2]
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return def
	})
}

// validate 校验关键配置项
func validate(cfg *Config) error {
	if cfg.Server.HTTP.Port <= 0 || cfg.Server.HTTP.Port > 65535 {
		return fmt.Errorf("无效的 HTTP 端口: %d", cfg.Server.HTTP.Port)
	}
	if cfg.OpenRouter.BaseURL == "" {
		return fmt.Errorf("openrouter.base_url 不能为空")
	}
	if cfg.Pipeline.SceneCount <= 0 {
		return fmt.Errorf("pipeline.scene_count 必须大于 0")
	}
	if len(cfg.OpenRouter.FallbackModels) == 0 {
		return fmt.Errorf("openrouter.fallback_models 不能为空")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "storymaster-ai-api")
	v.SetDefault("app.version", "1.0.0")

	v.SetDefault("server.http.host", "0.0.0.0")
	v.SetDefault("server.http.port", 8080)
	v.SetDefault("server.http.read_timeout", 30*time.Second)
	v.SetDefault("server.http.write_timeout", 10*time.Minute)
	v.SetDefault("server.http.idle_timeout", 120*time.Second)

	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter.referer", "https://storymaster.ai")
	v.SetDefault("openrouter.app_title", "StoryMaster AI")
	v.SetDefault("openrouter.timeout", 120*time.Second)
	v.SetDefault("openrouter.role_models", map[string]string{
		"architect":    "meta-llama/llama-3.2-3b-instruct:free",
		"psychologist": "mistralai/mistral-7b-instruct:free",
		"writer":       "microsoft/phi-3-mini-128k-instruct:free",
		"editor":       "mistralai/mistral-7b-instruct:free",
		"continuity":   "mistralai/mistral-7b-instruct:free",
		"image":        "meta-llama/llama-3.2-3b-instruct:free",
	})
	v.SetDefault("openrouter.fallback_models", []string{
		"huggingfaceh4/zephyr-7b-beta:free",
		"openchat/openchat-7b:free",
		"google/gemma-7b-it:free",
	})
	v.SetDefault("openrouter.max_retries", 3)
	v.SetDefault("openrouter.backoff_base", 3*time.Second)
	v.SetDefault("openrouter.quota_limit", 10)
	v.SetDefault("openrouter.quota_window", 60*time.Second)

	v.SetDefault("pipeline.scene_count", 6)
	v.SetDefault("pipeline.enable_psychology", true)
	v.SetDefault("pipeline.enable_atmosphere", true)
	v.SetDefault("pipeline.enable_continuity", true)
	v.SetDefault("pipeline.scene_delay", time.Second)
	v.SetDefault("pipeline.edit_delay", 800*time.Millisecond)
	v.SetDefault("pipeline.image_delay", 500*time.Millisecond)
	v.SetDefault("pipeline.min_scene_content", 200)
	v.SetDefault("pipeline.image_prompt_max_len", 150)
	v.SetDefault("pipeline.text.min_classify_len", 50)
	v.SetDefault("pipeline.text.max_punct_ratio", 0.4)
	v.SetDefault("pipeline.text.min_words", 10)
	v.SetDefault("pipeline.text.min_word_len", 3)
	v.SetDefault("pipeline.text.min_cleaned_len", 100)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.story_ttl", 24*time.Hour)
	v.SetDefault("cache.redis.host", "localhost")
	v.SetDefault("cache.redis.port", 6379)
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.pool_size", 10)
	v.SetDefault("cache.redis.min_idle_conns", 5)
	v.SetDefault("cache.redis.dial_timeout", 5*time.Second)
	v.SetDefault("cache.redis.read_timeout", 3*time.Second)
	v.SetDefault("cache.redis.write_timeout", 3*time.Second)

	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "json")
	v.SetDefault("observability.logging.output", "stdout")
	v.SetDefault("observability.tracing.enabled", false)
	v.SetDefault("observability.tracing.exporter", "otlp")
	v.SetDefault("observability.tracing.endpoint", "localhost:4317")
	v.SetDefault("observability.tracing.sample_rate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.path", "/metrics")

	v.SetDefault("security.rate_limit.enabled", false)
	v.SetDefault("security.rate_limit.requests_per_second", 10)
	v.SetDefault("security.rate_limit.burst", 20)
	v.SetDefault("security.cors.allowed_origins", []string{"*"})
	v.SetDefault("security.cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("security.cors.allowed_headers", []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", "X-OpenRouter-Key"})
}
