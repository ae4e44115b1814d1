// Package openrouter 提供 OpenRouter chat-completions API 的客户端
// 封装按角色区分的采样参数、预防性配额切换、429 退避与模型降级策略
package openrouter

import (
	"fmt"
)

// Role 流水线阶段角色，决定系统提示词与采样参数
type Role string

const (
	RoleArchitect    Role = "architect"
	RolePsychologist Role = "psychologist"
	RoleWriter       Role = "writer"
	RoleEditor       Role = "editor"
	RoleContinuity   Role = "continuity"
	RoleImage        Role = "image"
)

// roleLabels 角色的意大利语称谓，用于系统提示词
var roleLabels = map[Role]string{
	RoleArchitect:    "architetto narrativo",
	RolePsychologist: "psicologo dei personaggi",
	RoleWriter:       "scrittore creativo",
	RoleEditor:       "editor professionale",
	RoleContinuity:   "revisore di continuità",
	RoleImage:        "generatore prompt immagini",
}

// Label 返回角色的意大利语称谓
func (r Role) Label() string {
	if l, ok := roleLabels[r]; ok {
		return l
	}
	return string(r)
}

// SamplingParams 单次调用的采样参数
type SamplingParams struct {
	Temperature      float64
	MaxTokens        int
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
}

// Params 返回角色对应的采样参数
// 结构性角色低温，创作性角色高温；惩罚项抑制重复同时保留变化
func (r Role) Params() SamplingParams {
	p := SamplingParams{
		Temperature:      0.7,
		MaxTokens:        1800,
		TopP:             0.85,
		FrequencyPenalty: 0.4,
		PresencePenalty:  0.3,
	}
	switch r {
	case RoleArchitect:
		p.Temperature = 0.4
		p.MaxTokens = 2000
	case RolePsychologist:
		p.Temperature = 0.3
	case RoleEditor:
		p.Temperature = 0.3
	case RoleContinuity:
		p.Temperature = 0.2
	case RoleImage:
		p.Temperature = 0.6
	}
	return p
}

// SystemPrompt 返回角色的系统提示词
func (r Role) SystemPrompt() string {
	return fmt.Sprintf("Sei un %s professionista. Scrivi sempre in italiano perfetto con grammatica e punteggiatura impeccabili. Segui ESATTAMENTE le istruzioni fornite.", r.Label())
}

// ChatMessage 对话消息
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest chat-completions 请求体
type ChatRequest struct {
	Model            string        `json:"model"`
	Messages         []ChatMessage `json:"messages"`
	Temperature      float64       `json:"temperature"`
	MaxTokens        int           `json:"max_tokens"`
	TopP             float64       `json:"top_p"`
	FrequencyPenalty float64       `json:"frequency_penalty"`
	PresencePenalty  float64       `json:"presence_penalty"`
}

// ChatChoice 单个候选回复
type ChatChoice struct {
	Message ChatMessage `json:"message"`
}

// ChatResponse chat-completions 响应体，只消费第一个 choice
type ChatResponse struct {
	Choices []ChatChoice `json:"choices"`
}

// HTTPError 非 2xx 响应，携带状态码与所用模型
type HTTPError struct {
	Status int
	Model  string
}

// Error 实现 error 接口
func (e *HTTPError) Error() string {
	return fmt.Sprintf("openrouter: HTTP 状态 %d (模型 %s)", e.Status, e.Model)
}
