package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"storymaster-ai-api/internal/config"
	"storymaster-ai-api/internal/textproc"
	"storymaster-ai-api/pkg/errors"
	"storymaster-ai-api/pkg/logger"
	"storymaster-ai-api/pkg/metrics"
)

// Client OpenRouter chat-completions 客户端
// API 密钥由调用方逐次传入，从不落盘
type Client struct {
	httpClient *http.Client
	baseURL    string
	referer    string
	appTitle   string

	fallbacks   []string
	maxRetries  int
	backoffBase time.Duration

	tracker    *UsageTracker
	thresholds textproc.Thresholds

	// sleep 可注入，测试时替换以跳过真实等待
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient 创建客户端
func NewClient(cfg config.OpenRouterConfig, text config.TextConfig, tracker *UsageTracker) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		baseURL:     cfg.BaseURL,
		referer:     cfg.Referer,
		appTitle:    cfg.AppTitle,
		fallbacks:   cfg.FallbackModels,
		maxRetries:  cfg.MaxRetries,
		backoffBase: cfg.BackoffBase,
		tracker:     tracker,
		thresholds:  buildThresholds(text),
		sleep:       sleepContext,
	}
}

// buildThresholds 在内置默认上套用配置覆盖，零值字段保持默认
func buildThresholds(text config.TextConfig) textproc.Thresholds {
	th := textproc.DefaultThresholds()
	if text.MinClassifyLen > 0 {
		th.MinClassifyLen = text.MinClassifyLen
	}
	if text.MaxPunctRatio > 0 {
		th.MaxPunctRatio = text.MaxPunctRatio
	}
	if text.MinWords > 0 {
		th.MinWords = text.MinWords
	}
	if text.MinWordLen > 0 {
		th.MinWordLen = text.MinWordLen
	}
	if text.MinCleanedLen > 0 {
		th.MinCleanedLen = text.MinCleanedLen
	}
	return th
}

// sleepContext 可被 ctx 取消的等待
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Chat 执行一次补全调用并返回清洗后的文本
// 策略：发送前查配额预防性换模型；429 按 (重试次数+1)*退避基数 等待后降级；
// 200 但内容损坏同样降级；重试耗尽后把最后的错误交给上层做占位降级
func (c *Client) Chat(ctx context.Context, apiKey, model string, role Role, prompt string) (string, error) {
	return c.chat(ctx, apiKey, model, role, prompt, 0)
}

func (c *Client) chat(ctx context.Context, apiKey, model string, role Role, prompt string, retry int) (string, error) {
	log := logger.FromContext(ctx)

	// 预防性配额切换，不消耗重试次数
	if c.tracker.Saturated(model) {
		if alt := c.tracker.LeastUsed(c.fallbacks, model); alt != "" {
			logger.Warn(ctx, "模型触达配额，预防性切换",
				"from_model", model, "to_model", alt, "role", string(role))
			metrics.LLMFallbackTotal.WithLabelValues(model, "quota").Inc()
			model = alt
		}
	}

	tr := otel.Tracer("openrouter")
	ctx, span := tr.Start(ctx, "openrouter.chat",
		trace.WithAttributes(
			attribute.String("llm.model", model),
			attribute.String("llm.role", string(role)),
			attribute.Int("llm.retry", retry),
		))
	defer span.End()

	start := time.Now()
	c.tracker.Record(model)
	text, err := c.doRequest(ctx, apiKey, model, role, prompt)
	metrics.LLMCallDuration.WithLabelValues(model, string(role)).Observe(time.Since(start).Seconds())

	if err != nil {
		if httpErr, ok := err.(*HTTPError); ok && httpErr.Status == http.StatusTooManyRequests {
			metrics.LLMCallTotal.WithLabelValues(model, string(role), "rate_limited").Inc()
			if retry < c.maxRetries && len(c.fallbacks) > 0 {
				wait := time.Duration(retry+1) * c.backoffBase
				logger.Warn(ctx, "上游限流，退避后降级重试",
					"model", model, "wait", wait.String(), "retry", retry+1)
				metrics.LLMFallbackTotal.WithLabelValues(model, "rate_limited").Inc()
				if serr := c.sleep(ctx, wait); serr != nil {
					return "", errors.Wrap(serr, errors.CodeLLMRateLimited, "等待退避时请求被取消")
				}
				// 备选列表可能全部饱和或只剩当前模型，此时没有可切换的目标
				if next := c.tracker.LeastUsed(c.fallbacks, model); next != "" {
					return c.chat(ctx, apiKey, next, role, prompt, retry+1)
				}
			}
			return "", errors.ErrLLMRateLimited.WithError(err)
		}
		metrics.LLMCallTotal.WithLabelValues(model, string(role), "error").Inc()
		log.Error("上游调用失败", "model", model, "role", string(role), "error", err)
		return "", errors.ErrLLMProvider.WithError(err)
	}

	// 200 但内容损坏也要降级，免费模型偶发返回乱码
	if textproc.IsCorrupted(text, c.thresholds) {
		metrics.LLMCorruptedOutputTotal.Inc()
		metrics.LLMCallTotal.WithLabelValues(model, string(role), "corrupted").Inc()
		if retry < c.maxRetries && len(c.fallbacks) > 0 {
			if next := c.tracker.LeastUsed(c.fallbacks, model); next != "" {
				logger.Warn(ctx, "输出疑似损坏，降级重试", "model", model, "retry", retry+1)
				metrics.LLMFallbackTotal.WithLabelValues(model, "corrupted").Inc()
				return c.chat(ctx, apiKey, next, role, prompt, retry+1)
			}
		}
		return "", errors.ErrContentCorrupted.WithDetail(fmt.Sprintf("模型 %s", model))
	}

	cleaned := textproc.Clean(text, c.thresholds)
	if textproc.NeedsRegeneration(cleaned) {
		metrics.LLMCallTotal.WithLabelValues(model, string(role), "corrupted").Inc()
		if retry < c.maxRetries && len(c.fallbacks) > 0 {
			if next := c.tracker.LeastUsed(c.fallbacks, model); next != "" {
				metrics.LLMFallbackTotal.WithLabelValues(model, "corrupted").Inc()
				return c.chat(ctx, apiKey, next, role, prompt, retry+1)
			}
		}
		return "", errors.ErrContentCorrupted.WithDetail(fmt.Sprintf("模型 %s", model))
	}

	metrics.LLMCallTotal.WithLabelValues(model, string(role), "success").Inc()
	return cleaned, nil
}

// doRequest 发送一次 HTTP 请求，非 2xx 返回 *HTTPError
func (c *Client) doRequest(ctx context.Context, apiKey, model string, role Role, prompt string) (string, error) {
	params := role.Params()
	reqBody := ChatRequest{
		Model: model,
		Messages: []ChatMessage{
			{Role: "system", Content: role.SystemPrompt()},
			{Role: "user", Content: prompt},
		},
		Temperature:      params.Temperature,
		MaxTokens:        params.MaxTokens,
		TopP:             params.TopP,
		FrequencyPenalty: params.FrequencyPenalty,
		PresencePenalty:  params.PresencePenalty,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("序列化请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("构建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("HTTP-Referer", c.referer)
	req.Header.Set("X-Title", c.appTitle)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("发送请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return "", &HTTPError{Status: resp.StatusCode, Model: model}
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("解析响应失败: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("响应缺少 choices (模型 %s)", model)
	}
	return chatResp.Choices[0].Message.Content, nil
}
