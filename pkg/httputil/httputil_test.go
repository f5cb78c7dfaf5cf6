package httputil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/KiranKumarPM/servon-1/pkg/errors"
	"github.com/KiranKumarPM/servon-1/pkg/logger"
	"github.com/KiranKumarPM/servon-1/pkg/validator"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestWriteData(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteData(rec, http.StatusCreated, map[string]int{"helpful": 3})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"helpful":3}}`, rec.Body.String())
}

func TestWriteError_AppError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews", nil)
	req = req.WithContext(logger.WithRequestID(req.Context(), "req-7"))
	rec := httptest.NewRecorder()

	WriteError(rec, req, fmt.Errorf("create: %w", apperrors.Conflict("you have already reviewed this service")), slog.Default())

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decode(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "CONFLICT", resp.Error.Code)
	assert.Equal(t, "you have already reviewed this service", resp.Error.Message)
	assert.Equal(t, "req-7", resp.Error.RequestID)
}

func TestWriteError_Sentinel(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/services/9", nil)
	rec := httptest.NewRecorder()

	WriteError(rec, req, fmt.Errorf("get service: %w", apperrors.ErrNotFound), slog.Default())

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, rec).Error.Code)
}

func TestWriteError_InternalIsLoggedAndHidden(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewJSONHandler(&buf, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/requirements", nil)
	rec := httptest.NewRecorder()

	WriteError(rec, req, errors.New("pq: connection reset"), l)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	assert.Equal(t, "an internal error occurred", resp.Error.Message)
	assert.NotContains(t, rec.Body.String(), "connection reset")
	assert.Contains(t, buf.String(), "connection reset")
}

func TestWriteError_PrefersRequestLogger(t *testing.T) {
	var fallbackBuf, scopedBuf bytes.Buffer
	fallback := slog.New(slog.NewJSONHandler(&fallbackBuf, nil))
	scoped := slog.New(slog.NewJSONHandler(&scopedBuf, nil))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(logger.NewContext(req.Context(), scoped))

	WriteError(httptest.NewRecorder(), req, apperrors.Internal(errors.New("boom")), fallback)

	assert.Zero(t, fallbackBuf.Len())
	assert.Contains(t, scopedBuf.String(), "boom")
}

func TestWriteValidationError(t *testing.T) {
	type body struct {
		Rating int `json:"rating" validate:"min=1,max=5"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	t.Run("field errors", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteValidationError(rec, req, validator.Validate(body{Rating: 0}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decode(t, rec)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
		assert.Equal(t, "must be at least 1", resp.Error.Fields["rating"])
	})

	t.Run("decode error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteValidationError(rec, req, errors.New("decode request body: unexpected EOF"))

		resp := decode(t, rec)
		assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
		assert.Empty(t, resp.Error.Fields)
	})
}

func TestParseID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	rec := httptest.NewRecorder()
	id, ok := ParseID(rec, req, "serviceId", "42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"abc", "0", "-3"} {
		rec := httptest.NewRecorder()
		_, ok := ParseID(rec, req, "serviceId", raw)
		assert.False(t, ok, raw)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_PARAMETER", decode(t, rec).Error.Code)
	}
}

func TestParseUUID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	rec := httptest.NewRecorder()
	id, ok := ParseUUID(rec, req, "review id", "5f0c6f5e-8a5b-4c1e-9f3a-2d7b1c9e4a10")
	assert.True(t, ok)
	assert.Equal(t, "5f0c6f5e-8a5b-4c1e-9f3a-2d7b1c9e4a10", id.String())

	for _, raw := range []string{"abc", "", "5f0c6f5e-8a5b-4c1e-9f3a"} {
		rec := httptest.NewRecorder()
		_, ok := ParseUUID(rec, req, "review id", raw)
		assert.False(t, ok, raw)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_PARAMETER", decode(t, rec).Error.Code)
	}
}
