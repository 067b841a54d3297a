package services

import (
	"encoding/json"
	"regexp"

	"studyai-backend/internal/models"
)

// jsonArrayPattern matches from the first '[' to the last ']' across newlines.
var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// ExtractJSONArray pulls the first bracketed array out of free-form model output and decodes it.
func ExtractJSONArray[T any](text string) ([]T, error) {
	match := jsonArrayPattern.FindString(text)
	if match == "" {
		return nil, &ExtractionError{Reason: "no JSON array found"}
	}

	var items []T
	if err := json.Unmarshal([]byte(match), &items); err != nil {
		return nil, &ExtractionError{Reason: "invalid JSON array", Err: err}
	}
	return items, nil
}

// ExtractFlashcards returns the flashcards found in text.
func ExtractFlashcards(text string) ([]models.Flashcard, error) {
	return ExtractJSONArray[models.Flashcard](text)
}

// ExtractQuizQuestions returns the well-formed quiz questions found in text.
// An array whose items are all malformed is treated as an extraction failure.
func ExtractQuizQuestions(text string) ([]models.QuizQuestion, error) {
	questions, err := ExtractJSONArray[models.QuizQuestion](text)
	if err != nil {
		return nil, err
	}

	valid := make([]models.QuizQuestion, 0, len(questions))
	for _, q := range questions {
		if q.Valid() {
			valid = append(valid, q)
		}
	}
	if len(questions) > 0 && len(valid) == 0 {
		return nil, &ExtractionError{Reason: "no well-formed quiz questions"}
	}
	return valid, nil
}

var fallbackFlashcards = []models.Flashcard{
	{Question: "Sample Question 1", Answer: "Sample Answer 1"},
	{Question: "Sample Question 2", Answer: "Sample Answer 2"},
}

var fallbackQuizQuestions = []models.QuizQuestion{
	{
		Question:      "Sample quiz question?",
		Options:       []string{"Option A", "Option B", "Option C", "Option D"},
		CorrectAnswer: 0,
	},
}

// FallbackFlashcards returns a fresh copy of the placeholder flashcards.
func FallbackFlashcards() []models.Flashcard {
	out := make([]models.Flashcard, len(fallbackFlashcards))
	copy(out, fallbackFlashcards)
	return out
}

// FallbackQuizQuestions returns a fresh copy of the placeholder quiz.
func FallbackQuizQuestions() []models.QuizQuestion {
	out := make([]models.QuizQuestion, len(fallbackQuizQuestions))
	for i, q := range fallbackQuizQuestions {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}
