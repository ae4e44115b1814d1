package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDetailDoesNotMutateOriginal(t *testing.T) {
	first := ErrElementNotFound.WithDetail("genre: missing-one")
	second := ErrElementNotFound.WithDetail("genre: missing-two")

	assert.Equal(t, "genre: missing-one", first.Detail)
	assert.Equal(t, "genre: missing-two", second.Detail)
	assert.Empty(t, ErrElementNotFound.Detail)
	assert.NotSame(t, first, second)
	assert.NotSame(t, ErrElementNotFound, first)
}

func TestWithErrorDoesNotMutateOriginal(t *testing.T) {
	cause := fmt.Errorf("connessione rifiutata")
	wrapped := ErrLLMProvider.WithError(cause)

	require.NotSame(t, ErrLLMProvider, wrapped)
	assert.Equal(t, cause, wrapped.Err)
	assert.Nil(t, ErrLLMProvider.Err)

	assert.Equal(t, ErrLLMProvider.Code, wrapped.Code)
	assert.Equal(t, ErrLLMProvider.HTTPStatus, wrapped.HTTPStatus)
}

func TestWithDetailConcurrent(t *testing.T) {
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				e := ErrElementNotFound.WithDetail(fmt.Sprintf("lookup-%d-%d", n, j))
				assert.Equal(t, fmt.Sprintf("lookup-%d-%d", n, j), e.Detail)
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	assert.Empty(t, ErrElementNotFound.Detail)
	close(done)
}

func TestCodeToHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, New(CodeMissingAPIKey, "m").HTTPStatus)
	assert.Equal(t, http.StatusNotFound, New(CodeStoryNotFound, "m").HTTPStatus)
	assert.Equal(t, http.StatusTooManyRequests, New(CodeLLMRateLimited, "m").HTTPStatus)
	assert.Equal(t, http.StatusBadGateway, New(CodeGenerationFailed, "m").HTTPStatus)
	assert.Equal(t, http.StatusInternalServerError, New(CodeUnknown, "m").HTTPStatus)
}
