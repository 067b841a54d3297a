package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"studyai-backend/internal/middleware"
	"studyai-backend/internal/models"
	"studyai-backend/internal/services"
)

// Generator turns normalized content into study material.
type Generator interface {
	Generate(ctx context.Context, requestID, content string) (*models.ProcessingResult, error)
}

type ProcessHandler struct {
	generator   Generator
	transcripts services.TranscriptSource
	log         *zap.Logger
}

// NewProcessHandler wires the handler. transcripts may be nil, in which case the YouTube route reports a failure.
func NewProcessHandler(generator Generator, transcripts services.TranscriptSource, log *zap.Logger) *ProcessHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProcessHandler{
		generator:   generator,
		transcripts: transcripts,
		log:         log,
	}
}

// Process handles POST /api/v1/process. Every failure is reported as 500 with a short message.
func (h *ProcessHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req models.ProcessingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("Invalid request body"))
		return
	}
	if req.FileContent == "" {
		writeJSON(w, http.StatusInternalServerError, errorResp("fileContent is required"))
		return
	}

	requestID := middleware.GetRequestID(r.Context())
	log := h.log.With(zap.String("request_id", requestID))

	contentType := models.ParseContentType(req.ContentType)
	content, err := services.Normalize(req.FileContent, contentType)
	if err != nil {
		h.writeProcessError(w, log, err)
		return
	}

	log.Debug("processing content",
		zap.String("title", req.Title),
		zap.String("content_type", string(contentType)),
		zap.Int("input_length", len(req.FileContent)),
		zap.Int("normalized_length", len(content)),
	)

	result, err := h.generator.Generate(r.Context(), requestID, content)
	if err != nil {
		h.writeProcessError(w, log, err)
		return
	}

	log.Debug("processing complete",
		zap.Int("notes_length", len(result.Notes)),
		zap.Int("flashcards", len(result.Flashcards)),
		zap.Int("quiz_questions", len(result.QuizQuestions)),
	)

	writeJSON(w, http.StatusOK, result)
}

// ProcessYouTube handles POST /api/v1/process/youtube: the video's transcript is processed like text content.
func (h *ProcessHandler) ProcessYouTube(w http.ResponseWriter, r *http.Request) {
	var req models.ProcessYouTubeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("Invalid request body"))
		return
	}

	videoID, err := services.ExtractVideoID(req.URL)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	requestID := middleware.GetRequestID(r.Context())
	log := h.log.With(zap.String("request_id", requestID), zap.String("video_id", videoID))

	if h.transcripts == nil {
		log.Error("transcript source not configured")
		writeJSON(w, http.StatusInternalServerError, errorResp("Failed to fetch video transcript"))
		return
	}

	transcript, err := h.transcripts.GetTranscript(r.Context(), videoID)
	if err != nil {
		log.Warn("transcript fetch failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResp("Failed to fetch video transcript"))
		return
	}

	content, err := services.Normalize(transcript, models.ContentTypeText)
	if err != nil || content == "" {
		log.Warn("transcript is empty after normalization")
		writeJSON(w, http.StatusInternalServerError, errorResp("Failed to fetch video transcript"))
		return
	}

	title := req.Title
	if title == "" {
		if t, err := h.transcripts.GetVideoTitle(r.Context(), videoID); err == nil {
			title = t
		} else {
			log.Debug("video title lookup failed", zap.Error(err))
			title = "YouTube Video: " + videoID
		}
	}

	result, err := h.generator.Generate(r.Context(), requestID, content)
	if err != nil {
		h.writeProcessError(w, log, err)
		return
	}

	writeJSON(w, http.StatusOK, models.YouTubeProcessingResult{Title: title, ProcessingResult: result})
}

func (h *ProcessHandler) writeProcessError(w http.ResponseWriter, log *zap.Logger, err error) {
	var configErr *services.ConfigurationError
	var decodeErr *services.DecodeError
	var upstreamErr *services.UpstreamError

	switch {
	case errors.As(err, &configErr):
		log.Error("completion service not configured", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResp("Service is not configured"))
	case errors.As(err, &decodeErr):
		log.Warn("content decode failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResp("Failed to decode file content"))
	case errors.As(err, &upstreamErr):
		writeJSON(w, http.StatusInternalServerError, errorResp(upstreamErr.Error()))
	default:
		log.Error("processing failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResp(unexpectedErrorMessage))
	}
}
