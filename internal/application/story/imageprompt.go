package story

import (
	"context"
	"fmt"
	"strings"

	"storymaster-ai-api/internal/application/story/prompt"
	"storymaster-ai-api/internal/domain/entity"
	"storymaster-ai-api/internal/infrastructure/openrouter"
	"storymaster-ai-api/pkg/logger"
)

// contentExcerptLen 喂给配图模型的正文截取长度
const contentExcerptLen = 800

// defaultImagePromptMaxLen 提示词截断长度的内置默认
const defaultImagePromptMaxLen = 150

// genericTerms 填充词表，命中过多说明提示词太泛
var genericTerms = []string{
	"scene", "story", "image", "picture", "illustration",
	"cinematic", "high quality", "detailed", "dramatic",
}

// addImagePrompts 视觉提示阶段，为每个场景生成英文图像提示词
// 失败或产出过泛时回退到体裁/场景拼接的通用提示词
func (p *Pipeline) addImagePrompts(ctx context.Context, apiKey string, sel *entity.WizardSelections, scenes []entity.Scene, progress ProgressFunc) {
	total := len(scenes)
	for i := range scenes {
		scene := &scenes[i]
		emit(progress, fmt.Sprintf("🎨 Generando prompt visivo per scena %d...", i+1))

		if scene.Placeholder {
			// 占位场景在创建时已带通用提示词
			continue
		}

		styleName := "cinematico"
		if sel.Style != nil {
			styleName = sel.Style.Name
		}
		userPrompt, err := p.registry.Render(prompt.ImagePromptV1, map[string]string{
			"Title":          scene.Title,
			"ContentExcerpt": headRunes(scene.Content, contentExcerptLen),
			"GenreName":      sel.Genre.Name,
			"SettingName":    sel.Setting.Name,
			"StyleName":      styleName,
		})
		if err != nil {
			logger.Warn(ctx, "配图模板渲染失败，使用通用提示词", "scene", i+1, "error", err)
			scene.ImagePrompt = fallbackImagePrompt(sel, p.cfg.ImagePromptMaxLen)
			continue
		}

		text, err := p.llm.Chat(ctx, apiKey, p.modelFor(openrouter.RoleImage), openrouter.RoleImage, userPrompt)
		if err != nil {
			logger.Warn(ctx, "配图生成失败，使用通用提示词", "scene", i+1, "error", err)
			scene.ImagePrompt = fallbackImagePrompt(sel, p.cfg.ImagePromptMaxLen)
			continue
		}

		scene.ImagePrompt = normalizeImagePrompt(text, sel, p.cfg.ImagePromptMaxLen)

		if i+1 < total {
			if serr := p.sleep(ctx, p.cfg.ImageDelay); serr != nil {
				logger.Warn(ctx, "配图间停顿被取消", "error", serr)
			}
		}
	}
}

// normalizeImagePrompt 清理模型输出并套用长度与风格约束
// maxLen 非正数时使用内置默认
func normalizeImagePrompt(text string, sel *entity.WizardSelections, maxLen int) string {
	if maxLen <= 0 {
		maxLen = defaultImagePromptMaxLen
	}
	p := strings.NewReplacer(`"`, "", "'", "", "\n", " ").Replace(text)
	p = strings.TrimSpace(p)

	if isGenericPrompt(p) {
		return fallbackImagePrompt(sel, maxLen)
	}

	// 追加所选视觉风格片段
	if sel.Style != nil && sel.Style.PromptFragment != "" && !strings.Contains(p, sel.Style.PromptFragment) {
		p += ", " + sel.Style.PromptFragment
	}
	return headRunes(p, maxLen)
}

// isGenericPrompt 过短且堆叠填充词的提示词视为过泛
func isGenericPrompt(p string) bool {
	if p == "" {
		return true
	}
	if len([]rune(p)) >= 60 {
		return false
	}
	lower := strings.ToLower(p)
	hits := 0
	for _, term := range genericTerms {
		if strings.Contains(lower, term) {
			hits++
		}
	}
	return hits >= 2
}

// fallbackImagePrompt 体裁/场景拼接的通用提示词
func fallbackImagePrompt(sel *entity.WizardSelections, maxLen int) string {
	if maxLen <= 0 {
		maxLen = defaultImagePromptMaxLen
	}
	stylePart := "cinematic, high quality"
	if sel.Style != nil && sel.Style.PromptFragment != "" {
		stylePart = sel.Style.PromptFragment
	}
	return headRunes(fmt.Sprintf("%s scene, %s, %s", sel.Genre.Name, sel.Setting.Name, stylePart), maxLen)
}
