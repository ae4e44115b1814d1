package dto

import (
	"storymaster-ai-api/internal/domain/entity"
)

// GenreResponse 体裁响应
type GenreResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description"`
}

// AuthorStyleResponse 作者风格响应
type AuthorStyleResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Techniques  []string `json:"techniques,omitempty"`
	Genres      []string `json:"genres,omitempty"`
}

// ArchetypeResponse 角色原型响应
type ArchetypeResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Motivations []string `json:"motivations,omitempty"`
	Flaws       []string `json:"flaws,omitempty"`
	Genres      []string `json:"genres,omitempty"`
}

// SettingResponse 场景设定响应
type SettingResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Atmosphere  string `json:"atmosphere,omitempty"`
	Genres      []string `json:"genres,omitempty"`
}

// PlotActResponse 情节幕响应
type PlotActResponse struct {
	Name    string `json:"name"`
	Purpose string `json:"purpose"`
}

// PlotResponse 情节结构响应
type PlotResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Acts        []PlotActResponse `json:"acts,omitempty"`
	Genres      []string          `json:"genres,omitempty"`
}

// VisualStyleResponse 视觉风格响应
type VisualStyleResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ToGenreResponses 转换体裁列表
func ToGenreResponses(genres []entity.Genre) []GenreResponse {
	out := make([]GenreResponse, 0, len(genres))
	for _, g := range genres {
		out = append(out, GenreResponse{
			ID:          g.ID,
			Name:        g.Name,
			Icon:        g.Icon,
			Description: g.Description,
		})
	}
	return out
}

// ToAuthorStyleResponses 转换作者风格列表
func ToAuthorStyleResponses(styles []entity.AuthorStyle) []AuthorStyleResponse {
	out := make([]AuthorStyleResponse, 0, len(styles))
	for _, s := range styles {
		out = append(out, AuthorStyleResponse{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Techniques:  s.Techniques,
			Genres:      s.Genres,
		})
	}
	return out
}

// ToArchetypeResponses 转换角色原型列表
func ToArchetypeResponses(archetypes []entity.CharacterArchetype) []ArchetypeResponse {
	out := make([]ArchetypeResponse, 0, len(archetypes))
	for _, a := range archetypes {
		out = append(out, ArchetypeResponse{
			ID:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			Motivations: a.Motivations,
			Flaws:       a.Flaws,
			Genres:      a.CompatibleGenres,
		})
	}
	return out
}

// ToSettingResponses 转换场景设定列表
func ToSettingResponses(settings []entity.SettingTemplate) []SettingResponse {
	out := make([]SettingResponse, 0, len(settings))
	for _, s := range settings {
		out = append(out, SettingResponse{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Atmosphere:  s.Atmosphere,
			Genres:      s.CompatibleGenres,
		})
	}
	return out
}

// ToPlotResponses 转换情节结构列表
func ToPlotResponses(plots []entity.PlotStructure) []PlotResponse {
	out := make([]PlotResponse, 0, len(plots))
	for _, p := range plots {
		acts := make([]PlotActResponse, 0, len(p.Acts))
		for _, a := range p.Acts {
			acts = append(acts, PlotActResponse{
				Name:    a.Name,
				Purpose: a.Purpose,
			})
		}
		out = append(out, PlotResponse{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Acts:        acts,
			Genres:      p.CompatibleGenres,
		})
	}
	return out
}

// ToVisualStyleResponses 转换视觉风格列表
func ToVisualStyleResponses(styles []entity.VisualStyle) []VisualStyleResponse {
	out := make([]VisualStyleResponse, 0, len(styles))
	for _, s := range styles {
		out = append(out, VisualStyleResponse{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
		})
	}
	return out
}
