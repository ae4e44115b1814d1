package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storymaster-ai-api/internal/interfaces/http/dto"
)

func newCatalogRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewCatalogHandler()
	r.GET("/v1/catalog/genres", h.ListGenres)
	r.GET("/v1/catalog/author-styles", h.ListAuthorStyles)
	r.GET("/v1/catalog/archetypes", h.ListArchetypes)
	r.GET("/v1/catalog/styles", h.ListVisualStyles)
	return r
}

func TestListGenres(t *testing.T) {
	r := newCatalogRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/catalog/genres", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response[[]dto.GenreResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 200, resp.Code)
	assert.Len(t, resp.Data, 4)
}

func TestListAuthorStylesFiltered(t *testing.T) {
	r := newCatalogRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/catalog/author-styles?genre_id=noir-thriller", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response[[]dto.AuthorStyleResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "chandler-style", resp.Data[0].ID)
}

func TestListArchetypesUnfiltered(t *testing.T) {
	r := newCatalogRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/catalog/archetypes", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response[[]dto.ArchetypeResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 3)
}

func TestListVisualStyles(t *testing.T) {
	r := newCatalogRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/catalog/styles", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response[[]dto.VisualStyleResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 8)
}
