package story

import (
	"context"
	"fmt"

	"storymaster-ai-api/internal/application/story/prompt"
	"storymaster-ai-api/internal/domain/entity"
	"storymaster-ai-api/internal/infrastructure/openrouter"
	"storymaster-ai-api/pkg/logger"
)

// polishScenes 润色阶段，逐场景交给编辑模型修订
// 失败时保留原场景；占位场景直接跳过
func (p *Pipeline) polishScenes(ctx context.Context, apiKey string, scenes []entity.Scene, progress ProgressFunc) []entity.Scene {
	total := len(scenes)
	polished := make([]entity.Scene, 0, total)

	for i, scene := range scenes {
		emit(progress, fmt.Sprintf("📝 LLM Editor: Perfezionando scena %d/%d...", i+1, total))

		if scene.Placeholder {
			polished = append(polished, scene)
			continue
		}

		userPrompt, err := p.registry.Render(prompt.EditingV1, map[string]string{
			"Title":   scene.Title,
			"Content": scene.Content,
		})
		if err != nil {
			logger.Warn(ctx, "润色模板渲染失败，保留原场景", "scene", i+1, "error", err)
			polished = append(polished, scene)
			continue
		}

		text, err := p.llm.Chat(ctx, apiKey, p.modelFor(openrouter.RoleEditor), openrouter.RoleEditor, userPrompt)
		if err != nil {
			logger.Warn(ctx, "润色失败，保留原场景", "scene", i+1, "error", err)
			polished = append(polished, scene)
			continue
		}

		// 解析失败时回退到润色前的字段
		polished = append(polished, ParseScene(text, i+1, &scene, p.cfg.MinSceneContent))

		if i+1 < total {
			if serr := p.sleep(ctx, p.cfg.EditDelay); serr != nil {
				logger.Warn(ctx, "润色间停顿被取消", "error", serr)
			}
		}
	}
	return polished
}
