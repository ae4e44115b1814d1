package story

import (
	"context"
	"strings"

	"storymaster-ai-api/internal/application/story/prompt"
	"storymaster-ai-api/internal/domain/entity"
	"storymaster-ai-api/internal/infrastructure/openrouter"
	"storymaster-ai-api/pkg/logger"
)

const (
	// continuityOKMarker 模型确认衔接无误的标记
	continuityOKMarker = "CONTINUITA_OK"
	// endingExcerptLen 前一场景结尾的截取长度
	endingExcerptLen = 300
	// openingExcerptLen 当前场景开头的截取长度
	openingExcerptLen = 400
)

// verifyContinuity 场景衔接校验阶段
// 逐对检查相邻场景，必要时只重写当前场景的开头，其余内容不动
// 任何失败都静默跳过该场景对
func (p *Pipeline) verifyContinuity(ctx context.Context, apiKey string, scenes []entity.Scene) {
	for i := 1; i < len(scenes); i++ {
		prev, cur := &scenes[i-1], &scenes[i]
		if prev.Placeholder || cur.Placeholder {
			continue
		}

		opening := headRunes(cur.Content, openingExcerptLen)
		data := map[string]string{
			"PreviousEnding": tailRunes(prev.Content, endingExcerptLen),
			"PreviousHook":   prev.Hook,
			"CurrentOpening": opening,
		}
		userPrompt, err := p.registry.Render(prompt.ContinuityV1, data)
		if err != nil {
			logger.Warn(ctx, "衔接校验模板渲染失败", "scene", i+1, "error", err)
			continue
		}

		text, err := p.llm.Chat(ctx, apiKey, p.modelFor(openrouter.RoleContinuity), openrouter.RoleContinuity, userPrompt)
		if err != nil {
			logger.Warn(ctx, "衔接校验失败，保留原开头", "scene", i+1, "error", err)
			continue
		}
		if strings.Contains(text, continuityOKMarker) {
			continue
		}

		rewritten := extractRewrittenOpening(text)
		if rewritten == "" {
			continue
		}
		// 只替换被审查的开头片段
		rest := strings.TrimPrefix(cur.Content, opening)
		cur.Content = rewritten + rest
		logger.Info(ctx, "场景开头已为连贯性重写", "scene", i+1)
	}
}

// extractRewrittenOpening 从校验输出中取重写后的开头
func extractRewrittenOpening(text string) string {
	if m := contentPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	t := strings.TrimSpace(text)
	// 没有标签时，仅当输出像散文而非说明时才接受
	if len([]rune(t)) < 40 {
		return ""
	}
	return t
}

func headRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func tailRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
