package handler

import (
	"github.com/gin-gonic/gin"

	"storymaster-ai-api/internal/catalog"
	"storymaster-ai-api/internal/interfaces/http/dto"
)

// CatalogHandler 故事元素目录处理器
// 向导各阶段的候选列表只读，来自内置目录
type CatalogHandler struct{}

// NewCatalogHandler 创建目录处理器
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// ListGenres 获取体裁列表
// @Summary 获取体裁列表
// @Tags Catalog
// @Produce json
// @Success 200 {object} dto.Response[[]dto.GenreResponse]
// @Router /v1/catalog/genres [get]
func (h *CatalogHandler) ListGenres(c *gin.Context) {
	dto.Success(c, dto.ToGenreResponses(catalog.Genres()))
}

// ListAuthorStyles 获取作家风格列表
// @Summary 获取作家风格列表
// @Description 按体裁过滤，未指定体裁时返回全部
// @Tags Catalog
// @Produce json
// @Param genre_id query string false "体裁 ID"
// @Success 200 {object} dto.Response[[]dto.AuthorStyleResponse]
// @Router /v1/catalog/author-styles [get]
func (h *CatalogHandler) ListAuthorStyles(c *gin.Context) {
	genreID := c.Query("genre_id")
	dto.Success(c, dto.ToAuthorStyleResponses(catalog.AuthorStyles(genreID)))
}

// ListArchetypes 获取角色原型列表
// @Summary 获取角色原型列表
// @Tags Catalog
// @Produce json
// @Param genre_id query string false "体裁 ID"
// @Success 200 {object} dto.Response[[]dto.ArchetypeResponse]
// @Router /v1/catalog/archetypes [get]
func (h *CatalogHandler) ListArchetypes(c *gin.Context) {
	genreID := c.Query("genre_id")
	dto.Success(c, dto.ToArchetypeResponses(catalog.CharacterArchetypes(genreID)))
}

// ListSettings 获取场景设定列表
// @Summary 获取场景设定列表
// @Tags Catalog
// @Produce json
// @Param genre_id query string false "体裁 ID"
// @Success 200 {object} dto.Response[[]dto.SettingResponse]
// @Router /v1/catalog/settings [get]
func (h *CatalogHandler) ListSettings(c *gin.Context) {
	genreID := c.Query("genre_id")
	dto.Success(c, dto.ToSettingResponses(catalog.SettingTemplates(genreID)))
}

// ListPlots 获取情节结构列表
// @Summary 获取情节结构列表
// @Tags Catalog
// @Produce json
// @Param genre_id query string false "体裁 ID"
// @Success 200 {object} dto.Response[[]dto.PlotResponse]
// @Router /v1/catalog/plots [get]
func (h *CatalogHandler) ListPlots(c *gin.Context) {
	genreID := c.Query("genre_id")
	dto.Success(c, dto.ToPlotResponses(catalog.PlotStructures(genreID)))
}

// ListVisualStyles 获取视觉风格列表
// @Summary 获取视觉风格列表
// @Tags Catalog
// @Produce json
// @Success 200 {object} dto.Response[[]dto.VisualStyleResponse]
// @Router /v1/catalog/styles [get]
func (h *CatalogHandler) ListVisualStyles(c *gin.Context) {
	dto.Success(c, dto.ToVisualStyleResponses(catalog.VisualStyles()))
}
