package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"studyai-backend/internal/handlers"
	"studyai-backend/internal/models"
)

type echoGenerator struct{}

func (echoGenerator) Generate(ctx context.Context, requestID, content string) (*models.ProcessingResult, error) {
	return &models.ProcessingResult{Notes: content, Flashcards: []models.Flashcard{}, QuizQuestions: []models.QuizQuestion{}}, nil
}

func newTestRouter() http.Handler {
	return New(Deps{Process: handlers.NewProcessHandler(echoGenerator{}, nil, nil)})
}

func TestRouter_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_Process(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/process", strings.NewReader(`{"fileContent":"hello   world","contentType":"text"}`))
	newTestRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"notes":"hello world","flashcards":[],"quizQuestions":[]}`, rec.Body.String())
}

func TestRouter_OptionsOnAnyPath(t *testing.T) {
	for _, path := range []string{"/api/v1/process", "/api/v1/unknown", "/"} {
		rec := httptest.NewRecorder()
		newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, path, nil))

		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Empty(t, rec.Body.String(), path)
		assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"), path)
	}
}

func TestRouter_OptionalRoutesNotMounted(t *testing.T) {
	for _, path := range []string{"/api/v1/study-materials", "/api/v1/ws?request_id=x"} {
		rec := httptest.NewRecorder()
		newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestRouter_YouTubeWithoutTranscriptSource(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/process/youtube", strings.NewReader(`{"url":"https://youtu.be/dQw4w9WgXcQ"}`))
	newTestRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to fetch video transcript")
}
