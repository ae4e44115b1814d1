package handler

import (
	"context"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"storymaster-ai-api/internal/application/story"
	"storymaster-ai-api/internal/config"
	"storymaster-ai-api/internal/domain/entity"
	"storymaster-ai-api/internal/infrastructure/persistence/redis"
	"storymaster-ai-api/internal/interfaces/http/dto"
	"storymaster-ai-api/pkg/errors"
	"storymaster-ai-api/pkg/logger"
)

// APIKeyHeader 请求级 OpenRouter 密钥头
const APIKeyHeader = "X-OpenRouter-Key"

// StoryHandler 故事生成处理器
type StoryHandler struct {
	pipeline *story.Pipeline
	store    *redis.StoryStore
	cfg      *config.Config
}

// NewStoryHandler 创建故事处理器
// store 可为 nil，此时生成结果不落缓存，回读接口不可用
func NewStoryHandler(pipeline *story.Pipeline, store *redis.StoryStore, cfg *config.Config) *StoryHandler {
	return &StoryHandler{
		pipeline: pipeline,
		store:    store,
		cfg:      cfg,
	}
}

// resolveAPIKey 解析请求级密钥：请求头优先，其次请求体，最后配置兜底
func (h *StoryHandler) resolveAPIKey(c *gin.Context, bodyKey string) string {
	if key := strings.TrimSpace(c.GetHeader(APIKeyHeader)); key != "" {
		return key
	}
	if key := strings.TrimSpace(bodyKey); key != "" {
		return key
	}
	return h.cfg.OpenRouter.DefaultAPIKey
}

// Generate 同步生成故事
// @Summary 生成故事
// @Description 按向导选择同步执行完整生成流水线并返回故事
// @Tags Stories
// @Accept json
// @Produce json
// @Param X-OpenRouter-Key header string false "OpenRouter API 密钥"
// @Param body body dto.GenerateStoryRequest true "生成请求"
// @Success 201 {object} dto.Response[dto.StoryResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/stories [post]
func (h *StoryHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GenerateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	sel, err := req.ToSelections()
	if err != nil {
		dto.AppError(c, err)
		return
	}

	apiKey := h.resolveAPIKey(c, req.APIKey)

	result, err := h.pipeline.Generate(ctx, apiKey, sel, nil)
	if err != nil {
		logger.Error(ctx, "故事生成失败", err)
		dto.AppError(c, err)
		return
	}

	h.saveStory(ctx, result)
	dto.Created(c, dto.ToStoryResponse(result))
}

// GenerateStream 流式生成故事
// 通过 SSE 推送阶段进度，完成时推送完整故事，终止性失败时推送错误事件
// @Summary 流式生成故事
// @Description 通过 SSE 推送生成进度与最终故事
// @Tags Stories
// @Accept json
// @Produce text/event-stream
// @Param X-OpenRouter-Key header string false "OpenRouter API 密钥"
// @Param body body dto.GenerateStoryRequest true "生成请求"
// @Success 200 "SSE stream"
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/stories/stream [post]
func (h *StoryHandler) GenerateStream(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GenerateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	sel, err := req.ToSelections()
	if err != nil {
		dto.AppError(c, err)
		return
	}

	apiKey := h.resolveAPIKey(c, req.APIKey)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	progressCh := make(chan string, 32)
	done := make(chan struct{})

	var result *entity.Story
	var genErr error

	go func() {
		defer close(done)
		result, genErr = h.pipeline.Generate(ctx, apiKey, sel, func(msg string) {
			select {
			case progressCh <- msg:
			case <-ctx.Done():
			}
		})
	}()

	c.Stream(func(w io.Writer) bool {
		select {
		case msg := <-progressCh:
			c.SSEvent("progress", gin.H{"message": msg})
			return true

		case <-done:
			// 先冲刷残留的进度消息
			for len(progressCh) > 0 {
				c.SSEvent("progress", gin.H{"message": <-progressCh})
			}
			if genErr != nil {
				logger.Error(ctx, "故事生成失败", genErr)
				appErr := errors.AsAppError(genErr)
				c.SSEvent("error", gin.H{
					"code":    string(appErr.Code),
					"message": appErr.Message,
				})
				return false
			}
			h.saveStory(ctx, result)
			c.SSEvent("story", dto.ToStoryResponse(result))
			return false

		case <-ctx.Done():
			// 客户端断开
			return false
		}
	})
}

// GetStory 按 ID 回读已生成的故事
// @Summary 获取故事
// @Description 从缓存按 ID 回读已生成的故事
// @Tags Stories
// @Produce json
// @Param sid path string true "故事 ID"
// @Success 200 {object} dto.Response[dto.StoryResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /v1/stories/{sid} [get]
func (h *StoryHandler) GetStory(c *gin.Context) {
	if h.store == nil {
		dto.ServiceUnavailable(c, "story storage disabled")
		return
	}

	ctx := c.Request.Context()
	id := c.Param("sid")

	result, err := h.store.Get(ctx, id)
	if err != nil {
		dto.AppError(c, err)
		return
	}
	dto.Success(c, dto.ToStoryResponse(result))
}

// saveStory 保存生成结果，失败仅记录不影响响应
func (h *StoryHandler) saveStory(ctx context.Context, result *entity.Story) {
	if h.store == nil {
		return
	}
	if err := h.store.Save(ctx, result); err != nil {
		logger.Warn(ctx, "故事缓存写入失败", "story_id", result.ID, "error", err.Error())
	}
}
