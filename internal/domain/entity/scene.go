// Package entity 定义领域实体
package entity

// ScenePlan 蓝图阶段产出的单个场景规划
type ScenePlan struct {
	Index       int    `json:"index"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Blueprint 故事蓝图：标题加场景规划列表
type Blueprint struct {
	Title  string      `json:"title"`
	Scenes []ScenePlan `json:"scenes"`
}

// Scene 已写成的场景
type Scene struct {
	Index          int      `json:"index"`
	Title          string   `json:"title"`
	Content        string   `json:"content"`
	EmotionalState string   `json:"emotional_state,omitempty"`
	Hook           string   `json:"hook,omitempty"`
	Symbols        []string `json:"symbols,omitempty"`
	ImagePrompt    string   `json:"image_prompt,omitempty"`
	// Placeholder 表示该场景经多次重试仍失败，正文为占位文本
	Placeholder bool `json:"placeholder,omitempty"`
}

// Summary 返回场景正文的截断摘要，供后续场景的上下文引用
// 按 rune 截断，避免切断多字节字符
func (s *Scene) Summary(maxLen int) string {
	if maxLen <= 0 {
		return s.Content
	}
	runes := []rune(s.Content)
	if len(runes) <= maxLen {
		return s.Content
	}
	return string(runes[:maxLen]) + "..."
}
