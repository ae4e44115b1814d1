package story

import (
	"context"
	"strings"

	"storymaster-ai-api/internal/application/story/prompt"
	"storymaster-ai-api/internal/domain/entity"
	"storymaster-ai-api/internal/infrastructure/openrouter"
	"storymaster-ai-api/pkg/logger"
)

// generateCharacterProfiles 心理档案阶段
// 产出的档案文本会原样嵌入后续所有提示词；失败只告警，返回空串
func (p *Pipeline) generateCharacterProfiles(ctx context.Context, apiKey string, sel *entity.WizardSelections) string {
	data := map[string]string{
		"GenreName":              sel.Genre.Name,
		"GenreDescription":       sel.Genre.Description,
		"ProtagonistName":        sel.Protagonist.Name,
		"ProtagonistDescription": sel.Protagonist.Description,
		"ProtagonistMotivations": strings.Join(sel.Protagonist.Motivations, ", "),
		"ProtagonistFlaws":       strings.Join(sel.Protagonist.Flaws, ", "),
		"SettingName":            sel.Setting.Name,
	}
	if sel.Antagonist != nil {
		data["AntagonistName"] = sel.Antagonist.Name
		data["AntagonistDescription"] = sel.Antagonist.Description
	}

	userPrompt, err := p.registry.Render(prompt.PsychologyV1, data)
	if err != nil {
		logger.Warn(ctx, "心理档案模板渲染失败", "error", err)
		return ""
	}

	text, err := p.llm.Chat(ctx, apiKey, p.modelFor(openrouter.RolePsychologist), openrouter.RolePsychologist, userPrompt)
	if err != nil {
		logger.Warn(ctx, "心理档案阶段失败，继续无档案生成", "error", err)
		return ""
	}
	return text
}
