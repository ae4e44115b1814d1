package story

import (
	"storymaster-ai-api/internal/domain/entity"
)

// assemble 装配最终故事
// 永不失败：即使所有场景都是占位也返回结构完整的 Story
func (p *Pipeline) assemble(title string, scenes []entity.Scene) *entity.Story {
	if title == "" {
		title = defaultStoryTitle
	}
	return entity.NewStory(title, scenes, p.now())
}
