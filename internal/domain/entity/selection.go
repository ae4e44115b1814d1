// Package entity 定义领域实体
package entity

import (
	"fmt"
)

// Genre 文学体裁
type Genre struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Icon         string   `json:"icon,omitempty"`
	Tones        []string `json:"tones,omitempty"`
	Themes       []string `json:"themes,omitempty"`
	WritingStyle string   `json:"writing_style,omitempty"`
	TargetLength string   `json:"target_length,omitempty"`
}

// AuthorStyle 作家风格
type AuthorStyle struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Period      string   `json:"period,omitempty"`
	Techniques  []string `json:"techniques,omitempty"`
	Signature   string   `json:"signature,omitempty"`
	Genres      []string `json:"genres,omitempty"`
}

// CharacterArchetype 角色原型
type CharacterArchetype struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Motivations      []string `json:"motivations,omitempty"`
	Flaws            []string `json:"flaws,omitempty"`
	Strengths        []string `json:"strengths,omitempty"`
	Family           string   `json:"family,omitempty"`
	CompatibleGenres []string `json:"compatible_genres,omitempty"`
}

// SettingTemplate 场景设定模板
type SettingTemplate struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Atmosphere       string   `json:"atmosphere,omitempty"`
	Conflicts        []string `json:"conflicts,omitempty"`
	Opportunities    []string `json:"opportunities,omitempty"`
	VisualElements   []string `json:"visual_elements,omitempty"`
	CompatibleGenres []string `json:"compatible_genres,omitempty"`
}

// PlotAct 情节结构中的一幕
type PlotAct struct {
	Name      string   `json:"name"`
	Purpose   string   `json:"purpose"`
	KeyEvents []string `json:"key_events,omitempty"`
}

// PlotStructure 情节结构
type PlotStructure struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Acts             []PlotAct `json:"acts"`
	ConflictTypes    []string  `json:"conflict_types,omitempty"`
	Resolution       string    `json:"resolution,omitempty"`
	CompatibleGenres []string  `json:"compatible_genres,omitempty"`
}

// VisualStyle 视觉风格（用于生成图像提示词）
type VisualStyle struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	PromptFragment string `json:"prompt_fragment"`
}

// WizardSelections 向导选择结果，流水线的不可变输入
// 必填项：体裁、作家风格、主角、场景、情节结构；反派与视觉风格可选
type WizardSelections struct {
	Genre       *Genre              `json:"genre"`
	Author      *AuthorStyle        `json:"author"`
	Protagonist *CharacterArchetype `json:"protagonist"`
	Antagonist  *CharacterArchetype `json:"antagonist,omitempty"`
	Setting     *SettingTemplate    `json:"setting"`
	Plot        *PlotStructure      `json:"plot"`
	Style       *VisualStyle        `json:"style,omitempty"`
}

// Validate 校验必填选择项
func (s *WizardSelections) Validate() error {
	if s.Genre == nil {
		return fmt.Errorf("缺少体裁选择")
	}
	if s.Author == nil {
		return fmt.Errorf("缺少作家风格选择")
	}
	if s.Protagonist == nil {
		return fmt.Errorf("缺少主角选择")
	}
	if s.Setting == nil {
		return fmt.Errorf("缺少场景设定选择")
	}
	if s.Plot == nil {
		return fmt.Errorf("缺少情节结构选择")
	}
	return nil
}
