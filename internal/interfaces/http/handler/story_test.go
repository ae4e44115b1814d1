package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storymaster-ai-api/internal/application/story"
	"storymaster-ai-api/internal/config"
	"storymaster-ai-api/internal/infrastructure/openrouter"
	"storymaster-ai-api/internal/interfaces/http/dto"
	"storymaster-ai-api/pkg/errors"
)

type stubLLM struct {
	reply string
	err   error
}

func (s *stubLLM) Chat(ctx context.Context, apiKey, model string, role openrouter.Role, prompt string) (string, error) {
	return s.reply, s.err
}

func newStoryRouter(llm story.LLMClient) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		OpenRouter: config.OpenRouterConfig{
			RoleModels:     map[string]string{"architect": "model-a", "writer": "model-w"},
			FallbackModels: []string{"fb-1"},
		},
		Pipeline: config.PipelineConfig{
			SceneCount:      2,
			MinSceneContent: 10,
		},
	}

	pipeline := story.NewPipeline(llm, cfg.Pipeline, cfg.OpenRouter)
	h := NewStoryHandler(pipeline, nil, cfg)

	r := gin.New()
	r.POST("/v1/stories", h.Generate)
	r.GET("/v1/stories/:sid", h.GetStory)
	return r
}

func validGenerateBody() string {
	return `{
		"api_key": "sk-or-test",
		"genre_id": "literary-fantasy",
		"author_id": "borges-style",
		"protagonist_id": "reluctant-sage",
		"setting_id": "forgotten-library",
		"plot_id": "revelation-spiral"
	}`
}

func TestGenerateInvalidBody(t *testing.T) {
	r := newStoryRouter(&stubLLM{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/stories", strings.NewReader(`{"genre_id":"literary-fantasy"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateUnknownElement(t *testing.T) {
	r := newStoryRouter(&stubLLM{})

	body := strings.Replace(validGenerateBody(), "literary-fantasy", "no-such-genre", 1)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/stories", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(errors.CodeElementNotFound), resp.Error.ErrorCode)
}

func TestGenerateMissingAPIKey(t *testing.T) {
	r := newStoryRouter(&stubLLM{})

	body := strings.Replace(validGenerateBody(), `"api_key": "sk-or-test",`, "", 1)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/stories", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(errors.CodeMissingAPIKey), resp.Error.ErrorCode)
}

func TestGenerateBlueprintFailure(t *testing.T) {
	r := newStoryRouter(&stubLLM{err: errors.ErrLLMProvider})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/stories", strings.NewReader(validGenerateBody()))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(errors.CodeGenerationFailed), resp.Error.ErrorCode)
}

func TestGetStoryStoreDisabled(t *testing.T) {
	r := newStoryRouter(&stubLLM{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/stories/1700000000000", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
