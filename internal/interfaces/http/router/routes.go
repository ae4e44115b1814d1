// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, handlers Handlers, rateLimited gin.HandlerFunc) {
	// 向导元素目录
	catalog := v1.Group("/catalog")
	{
		catalog.GET("/genres", handlers.Catalog.ListGenres)
		catalog.GET("/author-styles", handlers.Catalog.ListAuthorStyles)
		catalog.GET("/archetypes", handlers.Catalog.ListArchetypes)
		catalog.GET("/settings", handlers.Catalog.ListSettings)
		catalog.GET("/plots", handlers.Catalog.ListPlots)
		catalog.GET("/styles", handlers.Catalog.ListVisualStyles)
	}

	// 故事生成与回读
	stories := v1.Group("/stories")
	{
		stories.POST("", rateLimited, handlers.Story.Generate)
		stories.POST("/stream", rateLimited, handlers.Story.GenerateStream) // SSE
		stories.GET("/:sid", handlers.Story.GetStory)
	}
}
