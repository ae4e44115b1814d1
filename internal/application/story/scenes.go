package story

import (
	"context"
	"fmt"
	"strings"

	"storymaster-ai-api/internal/application/story/prompt"
	"storymaster-ai-api/internal/domain/entity"
	"storymaster-ai-api/internal/infrastructure/openrouter"
	"storymaster-ai-api/pkg/logger"
	"storymaster-ai-api/pkg/metrics"
)

// prevSummaryLen 前序场景摘要的最大长度
const prevSummaryLen = 150

// writeScenes 场景写作阶段，严格按规划顺序逐场景生成
// 每个场景的失败阶梯：客户端内部重试 → 备选模型重试 → 简化提示词加备选模型 → 占位场景
// 流水线产出的场景数始终等于规划数
func (p *Pipeline) writeScenes(ctx context.Context, apiKey string, sel *entity.WizardSelections, narrative, atmosphere string, bp entity.Blueprint, progress ProgressFunc) []entity.Scene {
	total := len(bp.Scenes)
	scenes := make([]entity.Scene, 0, total)

	for i, plan := range bp.Scenes {
		emit(progress, fmt.Sprintf("✍️ LLM Scrittore: Scena %d/%d - Creazione narrativa...", i+1, total))

		userPrompt, err := p.renderScenePrompt(sel, narrative, atmosphere, plan, scenes)
		if err != nil {
			logger.Warn(ctx, "场景提示词渲染失败，使用占位场景", "scene", i+1, "error", err)
			scenes = append(scenes, p.placeholderScene(i+1, plan, sel))
			metrics.ScenePlaceholderTotal.WithLabelValues("write").Inc()
			continue
		}

		scene, ok := p.writeOneScene(ctx, apiKey, userPrompt, sel, plan, i+1)
		if !ok {
			scene = p.placeholderScene(i+1, plan, sel)
			metrics.ScenePlaceholderTotal.WithLabelValues("write").Inc()
		}
		scenes = append(scenes, scene)

		// 成功后固定停顿，避免连续调用触发限流
		if ok && i+1 < total {
			if err := p.sleep(ctx, p.cfg.SceneDelay); err != nil {
				logger.Warn(ctx, "场景间停顿被取消", "error", err)
			}
		}
	}
	return scenes
}

// writeOneScene 按失败阶梯尝试生成单个场景
func (p *Pipeline) writeOneScene(ctx context.Context, apiKey, userPrompt string, sel *entity.WizardSelections, plan entity.ScenePlan, index int) (entity.Scene, bool) {
	text, err := p.llm.Chat(ctx, apiKey, p.modelFor(openrouter.RoleWriter), openrouter.RoleWriter, userPrompt)
	if err == nil {
		return ParseScene(text, index, nil, p.cfg.MinSceneContent), true
	}
	logger.Warn(ctx, "场景生成失败，尝试备选模型", "scene", index, "error", err)

	alt := p.alternateModel(index)
	if alt == "" {
		return entity.Scene{}, false
	}

	text, err = p.llm.Chat(ctx, apiKey, alt, openrouter.RoleWriter, userPrompt)
	if err == nil {
		return ParseScene(text, index, nil, p.cfg.MinSceneContent), true
	}
	logger.Warn(ctx, "备选模型也失败，尝试简化提示词", "scene", index, "model", alt, "error", err)

	simplePrompt, rerr := p.registry.Render(prompt.SceneSimpleV1, map[string]string{
		"GenreName":      sel.Genre.Name,
		"SceneStructure": plan.Description,
	})
	if rerr != nil {
		return entity.Scene{}, false
	}
	text, err = p.llm.Chat(ctx, apiKey, alt, openrouter.RoleWriter, simplePrompt)
	if err == nil {
		return ParseScene(text, index, nil, p.cfg.MinSceneContent), true
	}
	logger.Warn(ctx, "简化提示词仍失败，退化为占位场景", "scene", index, "error", err)
	return entity.Scene{}, false
}

func (p *Pipeline) renderScenePrompt(sel *entity.WizardSelections, narrative, atmosphere string, plan entity.ScenePlan, previous []entity.Scene) (string, error) {
	return p.registry.Render(prompt.SceneV1, map[string]string{
		"GenreName":       sel.Genre.Name,
		"AuthorName":      sel.Author.Name,
		"Narrative":       narrative,
		"PreviousContext": buildPreviousContext(previous),
		"AtmosphereNotes": atmosphere,
		"SceneStructure":  plan.Description,
	})
}

// buildPreviousContext 构建前序场景上下文
// 场景 i 的提示词必须嵌入场景 i-1 的结尾摘要与衔接钩子，连贯性据此显式传递
func buildPreviousContext(previous []entity.Scene) string {
	if len(previous) == 0 {
		return "Prima scena della storia."
	}
	var b strings.Builder
	b.WriteString("SCENE_PRECEDENTI_GENERATE:\n")
	for i, sc := range previous {
		fmt.Fprintf(&b, "Scena %d: %s\nRiassunto: %s\n", i+1, sc.Title, sc.Summary(prevSummaryLen))
		if i == len(previous)-1 && sc.Hook != "" {
			fmt.Fprintf(&b, "Gancio verso la scena successiva: %s\n", sc.Hook)
		}
	}
	return b.String()
}

// placeholderScene 占位场景，保证流水线始终产出完整场景数
func (p *Pipeline) placeholderScene(index int, plan entity.ScenePlan, sel *entity.WizardSelections) entity.Scene {
	excerpt := plan.Description
	if runes := []rune(excerpt); len(runes) > 100 {
		excerpt = string(runes[:100])
	}
	return entity.Scene{
		Index:       index,
		Title:       defaultSceneTitle(index),
		Content:     fmt.Sprintf("[Scena da rigenerare - %s...]", excerpt),
		ImagePrompt: fallbackImagePrompt(sel, p.cfg.ImagePromptMaxLen),
		Placeholder: true,
	}
}
