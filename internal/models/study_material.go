package models

import (
	"time"

	"github.com/google/uuid"
)

// StudyMaterial is a row of the study_materials table.
type StudyMaterial struct {
	ID            uuid.UUID      `json:"id"`
	Title         string         `json:"title"`
	ContentType   string         `json:"content_type"`
	Notes         string         `json:"notes"`
	Flashcards    []Flashcard    `json:"flashcards"`
	QuizQuestions []QuizQuestion `json:"quiz_questions"`
	CreatedAt     time.Time      `json:"created_at"`
}

type CreateStudyMaterialRequest struct {
	Title         string         `json:"title"`
	ContentType   string         `json:"contentType"`
	Notes         string         `json:"notes"`
	Flashcards    []Flashcard    `json:"flashcards"`
	QuizQuestions []QuizQuestion `json:"quizQuestions"`
}
