package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"studyai-backend/internal/models"
	"studyai-backend/internal/services"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// DB is the subset of pgxpool.Pool used by the repositories.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type StudyMaterialRepo struct {
	db DB
}

func NewStudyMaterialRepo(db DB) *StudyMaterialRepo {
	return &StudyMaterialRepo{db: db}
}

func (r *StudyMaterialRepo) Create(ctx context.Context, m *models.StudyMaterial) error {
	m.ID = uuid.New()
	if m.Flashcards == nil {
		m.Flashcards = []models.Flashcard{}
	}
	if m.QuizQuestions == nil {
		m.QuizQuestions = []models.QuizQuestion{}
	}

	flashcards, err := json.Marshal(m.Flashcards)
	if err != nil {
		return fmt.Errorf("marshal flashcards: %w", err)
	}
	quiz, err := json.Marshal(m.QuizQuestions)
	if err != nil {
		return fmt.Errorf("marshal quiz questions: %w", err)
	}

	query := `INSERT INTO study_materials (id, title, content_type, notes, flashcards, quiz_questions)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`

	return r.db.QueryRow(ctx, query,
		m.ID, m.Title, m.ContentType, m.Notes, flashcards, quiz,
	).Scan(&m.CreatedAt)
}

func (r *StudyMaterialRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.StudyMaterial, error) {
	query := `SELECT id, title, content_type, notes, flashcards, quiz_questions, created_at
		FROM study_materials WHERE id = $1`

	m, err := scanStudyMaterial(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &services.NotFoundError{Message: "Study material not found"}
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// List returns the newest materials first. limit is clamped to [1, MaxListLimit].
func (r *StudyMaterialRepo) List(ctx context.Context, limit int) ([]models.StudyMaterial, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	query := `SELECT id, title, content_type, notes, flashcards, quiz_questions, created_at
		FROM study_materials ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	materials := []models.StudyMaterial{}
	for rows.Next() {
		m, err := scanStudyMaterial(rows)
		if err != nil {
			return nil, err
		}
		materials = append(materials, *m)
	}
	return materials, rows.Err()
}

func scanStudyMaterial(row pgx.Row) (*models.StudyMaterial, error) {
	m := &models.StudyMaterial{}
	var flashcards, quiz []byte
	if err := row.Scan(&m.ID, &m.Title, &m.ContentType, &m.Notes, &flashcards, &quiz, &m.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(flashcards, &m.Flashcards); err != nil {
		return nil, fmt.Errorf("decode flashcards: %w", err)
	}
	if err := json.Unmarshal(quiz, &m.QuizQuestions); err != nil {
		return nil, fmt.Errorf("decode quiz questions: %w", err)
	}
	return m, nil
}
