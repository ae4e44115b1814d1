package dto

import (
	"time"

	"storymaster-ai-api/internal/catalog"
	"storymaster-ai-api/internal/domain/entity"
)

// GenerateStoryRequest 故事生成请求
// 各元素按目录 ID 引用，反派与视觉风格可选
type GenerateStoryRequest struct {
	APIKey        string `json:"api_key,omitempty"`
	GenreID       string `json:"genre_id" binding:"required"`
	AuthorID      string `json:"author_id" binding:"required"`
	ProtagonistID string `json:"protagonist_id" binding:"required"`
	AntagonistID  string `json:"antagonist_id,omitempty"`
	SettingID     string `json:"setting_id" binding:"required"`
	PlotID        string `json:"plot_id" binding:"required"`
	StyleID       string `json:"style_id,omitempty"`
}

// ToSelections 按目录解析为向导选择结果
func (r *GenerateStoryRequest) ToSelections() (*entity.WizardSelections, error) {
	genre, err := catalog.GenreByID(r.GenreID)
	if err != nil {
		return nil, err
	}
	author, err := catalog.AuthorStyleByID(r.AuthorID)
	if err != nil {
		return nil, err
	}
	protagonist, err := catalog.CharacterArchetypeByID(r.ProtagonistID)
	if err != nil {
		return nil, err
	}
	setting, err := catalog.SettingTemplateByID(r.SettingID)
	if err != nil {
		return nil, err
	}
	plot, err := catalog.PlotStructureByID(r.PlotID)
	if err != nil {
		return nil, err
	}

	sel := &entity.WizardSelections{
		Genre:       genre,
		Author:      author,
		Protagonist: protagonist,
		Setting:     setting,
		Plot:        plot,
	}

	if r.AntagonistID != "" {
		antagonist, err := catalog.CharacterArchetypeByID(r.AntagonistID)
		if err != nil {
			return nil, err
		}
		sel.Antagonist = antagonist
	}
	if r.StyleID != "" {
		style, err := catalog.VisualStyleByID(r.StyleID)
		if err != nil {
			return nil, err
		}
		sel.Style = style
	}
	return sel, nil
}

// SceneResponse 场景响应
type SceneResponse struct {
	Index          int      `json:"index"`
	Title          string   `json:"title"`
	Content        string   `json:"content"`
	EmotionalState string   `json:"emotional_state,omitempty"`
	Hook           string   `json:"hook,omitempty"`
	Symbols        []string `json:"symbols,omitempty"`
	ImagePrompt    string   `json:"image_prompt,omitempty"`
	Placeholder    bool     `json:"placeholder,omitempty"`
}

// StoryResponse 故事响应
type StoryResponse struct {
	ID                   string          `json:"id"`
	Title                string          `json:"title"`
	Content              string          `json:"content"`
	Scenes               []SceneResponse `json:"scenes"`
	WordCount            int             `json:"word_count"`
	EstimatedReadingTime int             `json:"estimated_reading_time"`
	CreatedAt            time.Time       `json:"created_at"`
}

// ToStoryResponse 转换故事实体
func ToStoryResponse(story *entity.Story) StoryResponse {
	scenes := make([]SceneResponse, 0, len(story.Scenes))
	for _, s := range story.Scenes {
		scenes = append(scenes, SceneResponse{
			Index:          s.Index,
			Title:          s.Title,
			Content:        s.Content,
			EmotionalState: s.EmotionalState,
			Hook:           s.Hook,
			Symbols:        s.Symbols,
			ImagePrompt:    s.ImagePrompt,
			Placeholder:    s.Placeholder,
		})
	}
	return StoryResponse{
		ID:                   story.ID,
		Title:                story.Title,
		Content:              story.Content,
		Scenes:               scenes,
		WordCount:            story.WordCount,
		EstimatedReadingTime: story.EstimatedReadingTime,
		CreatedAt:            story.CreatedAt,
	}
}
