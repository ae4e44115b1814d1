// Package story 实现故事生成流水线
// 各阶段从固定模板、向导选择与前序阶段输出构建提示词，
// 经 openrouter 客户端调用后用容错解析器提取字段，失败一律降级不中断
package story

import (
	"fmt"
	"regexp"
	"strings"

	"storymaster-ai-api/internal/domain/entity"
)

// defaultMinContent 提取正文的最小长度，低于该值走回退链
const defaultMinContent = 200

var (
	titlePattern   = regexp.MustCompile(`(?i)TITOLO[_\s]*(?:SCENA|PERFEZIONATO)?:[ \t]*(.+)`)
	contentPattern = regexp.MustCompile(`(?is)CONTENUTO[_\s]*(?:PERFEZIONATO)?:[ \t]*\n?(.*)`)
	emotionPattern = regexp.MustCompile(`(?i)STATO[_\s]*EMOTIVO:[ \t]*(.+)`)
	hookPattern    = regexp.MustCompile(`(?i)GANCIO:[ \t]*(.+)`)
	symbolsPattern = regexp.MustCompile(`(?i)SIMBOLI:[ \t]*(.+)`)

	// trailingLabelPattern 正文尾部附带的标签段，需要从正文中剥离
	trailingLabelPattern = regexp.MustCompile(`(?is)\n[ \t]*(?:STATO[_\s]*EMOTIVO|GANCIO|SIMBOLI):.*$`)
)

// ParseScene 从半结构化的模型输出中提取场景字段
// 对任意输入都保证标题与正文非空：标签缺失时退化为启发式提取，
// 正文短于 minContent 时依次回退到 fallback 的正文、再到原始文本
// minContent 非正数时使用内置默认
func ParseScene(raw string, index int, fallback *entity.Scene, minContent int) entity.Scene {
	if minContent <= 0 {
		minContent = defaultMinContent
	}
	scene := entity.Scene{Index: index, Title: fmt.Sprintf("Scena %d", index)}
	if fallback != nil && fallback.Title != "" {
		scene.Title = fallback.Title
	}

	trimmed := strings.TrimSpace(raw)

	titleLabeled := false
	if m := titlePattern.FindStringSubmatch(trimmed); m != nil {
		if t := strings.TrimSpace(m[1]); t != "" {
			scene.Title = t
			titleLabeled = true
		}
	}

	var content string
	contentLabeled := false
	if m := contentPattern.FindStringSubmatch(trimmed); m != nil {
		content = strings.TrimSpace(trailingLabelPattern.ReplaceAllString(m[1], ""))
		contentLabeled = true
	} else {
		content = heuristicContent(trimmed)
	}

	// 完全无标签时的启发式：较短的首行视作标题，从正文中剔除
	if !titleLabeled && !contentLabeled {
		if first := firstNonEmptyLine(trimmed); first != "" && len([]rune(first)) <= 60 {
			scene.Title = first
			content = strings.TrimSpace(strings.TrimPrefix(content, first))
		}
	}

	// 正文过短时按优先级回退：fallback 正文 > 剥离标签后的原始文本
	if len([]rune(content)) < minContent {
		if fallback != nil && fallback.Content != "" {
			content = fallback.Content
		} else if stripped := heuristicContent(trimmed); stripped != "" {
			content = stripped
		} else {
			content = trimmed
		}
	}
	if content == "" {
		content = "Contenuto non disponibile."
	}
	scene.Content = content

	if m := emotionPattern.FindStringSubmatch(trimmed); m != nil {
		scene.EmotionalState = strings.TrimSpace(m[1])
	} else if fallback != nil {
		scene.EmotionalState = fallback.EmotionalState
	}
	if m := hookPattern.FindStringSubmatch(trimmed); m != nil {
		scene.Hook = strings.TrimSpace(m[1])
	} else if fallback != nil {
		scene.Hook = fallback.Hook
	}
	if m := symbolsPattern.FindStringSubmatch(trimmed); m != nil {
		scene.Symbols = splitSymbols(m[1])
	} else if fallback != nil {
		scene.Symbols = fallback.Symbols
	}

	return scene
}

// heuristicContent 无 CONTENUTO 标签时的启发式提取：
// 跳过标题行和其余标签行，合并剩余文本
func heuristicContent(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		t := strings.TrimSpace(line)
		if t == "" {
			continue
		}
		if titlePattern.MatchString(t) || contentPattern.MatchString(t) ||
			emotionPattern.MatchString(t) || hookPattern.MatchString(t) ||
			symbolsPattern.MatchString(t) {
			continue
		}
		kept = append(kept, t)
	}
	return strings.Join(kept, "\n")
}

func firstNonEmptyLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return t
		}
	}
	return ""
}

func splitSymbols(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
