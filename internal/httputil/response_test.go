package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cinedex/cinedex/internal/models"
	"github.com/cinedex/cinedex/internal/tmdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
}

func TestWriteList(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteList(rec, http.StatusOK, []int{1, 2, 3}, 3)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 3, resp.Meta.Count)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusNotFound, "NOT_FOUND", "movie not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestWriteDomainErrorValidation(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteDomainError(rec, &models.ValidationError{Field: "vote_average", Reason: "out of range"})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "validation_failed", resp.Error.Code)
}

func TestWriteDomainErrorNoAPIKey(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteDomainError(rec, fmt.Errorf("sync: %w", tmdb.ErrNoAPIKey))

	assert.Equal(t, http.StatusConflict, rec.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "not_configured", resp.Error.Code)
}

func TestWriteDomainErrorInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteDomainError(rec, assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
