// Package config 提供配置加载和管理功能
package config

import (
	"time"
)

// Config 应用配置根结构
type Config struct {
	App           AppConfig           `yaml:"app" mapstructure:"app"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	OpenRouter    OpenRouterConfig    `yaml:"openrouter" mapstructure:"openrouter"`
	Pipeline      PipelineConfig      `yaml:"pipeline" mapstructure:"pipeline"`
	Cache         CacheConfig         `yaml:"cache" mapstructure:"cache"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
	Security      SecurityConfig      `yaml:"security" mapstructure:"security"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Version string `yaml:"version" mapstructure:"version"`
	Env     string `yaml:"env" mapstructure:"env"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTP HTTPServerConfig `yaml:"http" mapstructure:"http"`
}

// HTTPServerConfig HTTP 服务器配置
type HTTPServerConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// OpenRouterConfig OpenRouter 上游配置
type OpenRouterConfig struct {
	// BaseURL chat-completions 端点基础地址
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// Referer HTTP-Referer 请求头（OpenRouter 要求标识来源站点）
	Referer string `yaml:"referer" mapstructure:"referer"`
	// AppTitle X-Title 请求头
	AppTitle string `yaml:"app_title" mapstructure:"app_title"`
	// DefaultAPIKey 可选的兜底密钥；请求未携带密钥时使用
	DefaultAPIKey string `yaml:"default_api_key" mapstructure:"default_api_key"`

	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// RoleModels 角色到首选模型的映射（architect/psychologist/writer/editor/continuity/image）
	RoleModels map[string]string `yaml:"role_models" mapstructure:"role_models"`
	// FallbackModels 限流或内容损坏时的候选模型列表
	FallbackModels []string `yaml:"fallback_models" mapstructure:"fallback_models"`

	// MaxRetries 单次调用允许的降级重试次数
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries"`
	// BackoffBase 429 退避基数，第 n 次重试等待 (n+1)*BackoffBase
	BackoffBase time.Duration `yaml:"backoff_base" mapstructure:"backoff_base"`

	// QuotaLimit 滑动窗口内单模型最大调用数（预防性限流）
	QuotaLimit int `yaml:"quota_limit" mapstructure:"quota_limit"`
	// QuotaWindow 滑动窗口长度
	QuotaWindow time.Duration `yaml:"quota_window" mapstructure:"quota_window"`
}

// PipelineConfig 故事生成流水线配置
type PipelineConfig struct {
	// SceneCount 蓝图阶段要求的场景数
	SceneCount int `yaml:"scene_count" mapstructure:"scene_count"`

	// EnablePsychology 角色心理档案阶段开关
	EnablePsychology bool `yaml:"enable_psychology" mapstructure:"enable_psychology"`
	// EnableAtmosphere 氛围备注阶段开关
	EnableAtmosphere bool `yaml:"enable_atmosphere" mapstructure:"enable_atmosphere"`
	// EnableContinuity 场景衔接校验阶段开关
	EnableContinuity bool `yaml:"enable_continuity" mapstructure:"enable_continuity"`

	// SceneDelay 场景写作阶段相邻调用间隔
	SceneDelay time.Duration `yaml:"scene_delay" mapstructure:"scene_delay"`
	// EditDelay 润色阶段相邻调用间隔
	EditDelay time.Duration `yaml:"edit_delay" mapstructure:"edit_delay"`
	// ImageDelay 视觉提示阶段相邻调用间隔
	ImageDelay time.Duration `yaml:"image_delay" mapstructure:"image_delay"`

	// MinSceneContent 场景正文最小长度，低于该值回退
	MinSceneContent int `yaml:"min_scene_content" mapstructure:"min_scene_content"`
	// ImagePromptMaxLen 视觉提示最大长度（字符）
	ImagePromptMaxLen int `yaml:"image_prompt_max_len" mapstructure:"image_prompt_max_len"`

	// Text 上游响应文本校验阈值
	Text TextConfig `yaml:"text" mapstructure:"text"`
}

// TextConfig 响应文本校验与清洗阈值，零值字段使用内置默认
type TextConfig struct {
	// MinClassifyLen 低于该长度跳过损坏检测
	MinClassifyLen int `yaml:"min_classify_len" mapstructure:"min_classify_len"`
	// MaxPunctRatio 标点占比上限，超出判定损坏
	MaxPunctRatio float64 `yaml:"max_punct_ratio" mapstructure:"max_punct_ratio"`
	// MinWords 有效词数下限
	MinWords int `yaml:"min_words" mapstructure:"min_words"`
	// MinWordLen 计入有效词的最小词长
	MinWordLen int `yaml:"min_word_len" mapstructure:"min_word_len"`
	// MinCleanedLen 清洗后文本最小长度
	MinCleanedLen int `yaml:"min_cleaned_len" mapstructure:"min_cleaned_len"`
}

// CacheConfig 缓存配置
type CacheConfig struct {
	Enabled bool        `yaml:"enabled" mapstructure:"enabled"`
	Redis   RedisConfig `yaml:"redis" mapstructure:"redis"`
	// StoryTTL 已生成故事的缓存时长
	StoryTTL time.Duration `yaml:"story_ttl" mapstructure:"story_ttl"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	Password     string        `yaml:"password" mapstructure:"password"`
	DB           int           `yaml:"db" mapstructure:"db"`
	PoolSize     int           `yaml:"pool_size" mapstructure:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// ObservabilityConfig 可观测性配置
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	Output string `yaml:"output" mapstructure:"output"`
}

// TracingConfig 追踪配置
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Exporter   string  `yaml:"exporter" mapstructure:"exporter"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors" mapstructure:"cors"`
}

// RateLimitConfig HTTP 入口限流配置
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerSecond int  `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int  `yaml:"burst" mapstructure:"burst"`
}

// CORSConfig CORS 配置
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
}
