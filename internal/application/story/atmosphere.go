package story

import (
	"context"

	"storymaster-ai-api/internal/application/story/prompt"
	"storymaster-ai-api/internal/domain/entity"
	"storymaster-ai-api/internal/infrastructure/openrouter"
	"storymaster-ai-api/pkg/logger"
)

// generateAtmosphereNotes 氛围备注阶段
// 备注文本作为上下文注入场景写作提示词；失败只告警，返回空串
func (p *Pipeline) generateAtmosphereNotes(ctx context.Context, apiKey string, sel *entity.WizardSelections, narrative string) string {
	data := map[string]string{
		"Narrative":          narrative,
		"SettingName":        sel.Setting.Name,
		"SettingDescription": sel.Setting.Description,
		"SettingAtmosphere":  sel.Setting.Atmosphere,
		"GenreName":          sel.Genre.Name,
	}

	userPrompt, err := p.registry.Render(prompt.AtmosphereV1, data)
	if err != nil {
		logger.Warn(ctx, "氛围模板渲染失败", "error", err)
		return ""
	}

	text, err := p.llm.Chat(ctx, apiKey, p.modelFor(openrouter.RoleArchitect), openrouter.RoleArchitect, userPrompt)
	if err != nil {
		logger.Warn(ctx, "氛围阶段失败，继续无氛围备注生成", "error", err)
		return ""
	}
	return text
}

// generateBlueprint 蓝图阶段，唯一允许终止流水线的生成阶段
func (p *Pipeline) generateBlueprint(ctx context.Context, apiKey string, sel *entity.WizardSelections, profiles string) (string, error) {
	data := map[string]any{
		"GenreName":              sel.Genre.Name,
		"GenreDescription":       sel.Genre.Description,
		"AuthorName":             sel.Author.Name,
		"AuthorDescription":      sel.Author.Description,
		"ProtagonistName":        sel.Protagonist.Name,
		"ProtagonistDescription": sel.Protagonist.Description,
		"AntagonistName":         "nessuno",
		"AntagonistDescription":  "la storia non prevede un antagonista esplicito",
		"SettingName":            sel.Setting.Name,
		"SettingDescription":     sel.Setting.Description,
		"PlotName":               sel.Plot.Name,
		"PlotDescription":        sel.Plot.Description,
		"SceneCount":             p.cfg.SceneCount,
		"CharacterProfiles":      profiles,
	}
	if sel.Antagonist != nil {
		data["AntagonistName"] = sel.Antagonist.Name
		data["AntagonistDescription"] = sel.Antagonist.Description
	}

	userPrompt, err := p.registry.Render(prompt.BlueprintV1, data)
	if err != nil {
		return "", err
	}
	return p.llm.Chat(ctx, apiKey, p.modelFor(openrouter.RoleArchitect), openrouter.RoleArchitect, userPrompt)
}
