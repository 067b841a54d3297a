package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"studyai-backend/internal/models"
)

// StudyMaterialStore is implemented by repository.StudyMaterialRepo.
type StudyMaterialStore interface {
	Create(ctx context.Context, m *models.StudyMaterial) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.StudyMaterial, error)
	List(ctx context.Context, limit int) ([]models.StudyMaterial, error)
}

type StudyMaterialHandler struct {
	store StudyMaterialStore
	log   *zap.Logger
}

func NewStudyMaterialHandler(store StudyMaterialStore, log *zap.Logger) *StudyMaterialHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &StudyMaterialHandler{store: store, log: log}
}

func (h *StudyMaterialHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateStudyMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("Invalid request body"))
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("title is required"))
		return
	}
	if req.ContentType == "" {
		req.ContentType = string(models.ContentTypeText)
	}

	material := &models.StudyMaterial{
		Title:         req.Title,
		ContentType:   string(models.ParseContentType(req.ContentType)),
		Notes:         req.Notes,
		Flashcards:    req.Flashcards,
		QuizQuestions: req.QuizQuestions,
	}

	if err := h.store.Create(r.Context(), material); err != nil {
		h.log.Error("failed to save study material", zap.Error(err))
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, material)
}

func (h *StudyMaterialHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, errorResp("Invalid limit"))
			return
		}
		limit = n
	}

	materials, err := h.store.List(r.Context(), limit)
	if err != nil {
		h.log.Error("failed to list study materials", zap.Error(err))
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, materials)
}

func (h *StudyMaterialHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("Invalid study material ID"))
		return
	}

	material, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, material)
}
