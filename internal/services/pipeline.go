package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"studyai-backend/internal/models"
)

const (
	notesSystemPrompt = "You are an expert study assistant. Create comprehensive, well-structured notes from the provided content. " +
		"Use bullet points, headings, and clear organization. Focus on the key concepts and important information."
	flashcardsSystemPrompt = "You are an expert study assistant. Create 8-12 flashcards from the content. " +
		"Return ONLY a JSON array with objects containing 'question' and 'answer' fields. No other text."
	quizSystemPrompt = "You are an expert study assistant. Create 5-8 multiple choice quiz questions. " +
		"Return ONLY a JSON array with objects containing 'question', 'options' (array of 4 choices), and 'correctAnswer' (index 0-3). No other text."

	notesUserPrefix      = "Create detailed study notes from this content:\n\n"
	flashcardsUserPrefix = "Create flashcards from this content:\n\n"
	quizUserPrefix       = "Create quiz questions from this content:\n\n"
)

// Pipeline turns normalized content into notes, flashcards and a quiz with three independent completions.
type Pipeline struct {
	completer  Completer
	publisher  ProgressPublisher
	sequential bool
	log        *zap.Logger
}

func NewPipeline(completer Completer, publisher ProgressPublisher, sequential bool, log *zap.Logger) *Pipeline {
	if publisher == nil {
		publisher = NoopProgressPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		completer:  completer,
		publisher:  publisher,
		sequential: sequential,
		log:        log,
	}
}

// Generate runs the notes, flashcards and quiz stages. The first hard failure aborts the whole run and
// no partial result is returned. Malformed flashcard or quiz output is replaced by the fallback tables.
func (p *Pipeline) Generate(ctx context.Context, requestID, content string) (*models.ProcessingResult, error) {
	if !p.completer.HasCredential() {
		return nil, &ConfigurationError{Message: "completion API key not configured"}
	}

	result := &models.ProcessingResult{}
	log := p.log.With(zap.String("request_id", requestID))

	stages := []func(context.Context) error{
		func(ctx context.Context) error {
			text, err := p.runStage(ctx, log, requestID, StageNotes, notesSystemPrompt, notesUserPrefix+content)
			if err != nil {
				return err
			}
			result.Notes = text
			p.publish(ctx, requestID, StageNotes, StageCompleted, false)
			return nil
		},
		func(ctx context.Context) error {
			text, err := p.runStage(ctx, log, requestID, StageFlashcards, flashcardsSystemPrompt, flashcardsUserPrefix+content)
			if err != nil {
				return err
			}
			cards, err := ExtractFlashcards(text)
			fallback := err != nil
			if fallback {
				log.Warn("using fallback flashcards", zap.Error(err))
				cards = FallbackFlashcards()
			}
			result.Flashcards = cards
			p.publish(ctx, requestID, StageFlashcards, StageCompleted, fallback)
			return nil
		},
		func(ctx context.Context) error {
			text, err := p.runStage(ctx, log, requestID, StageQuiz, quizSystemPrompt, quizUserPrefix+content)
			if err != nil {
				return err
			}
			questions, err := ExtractQuizQuestions(text)
			fallback := err != nil
			if fallback {
				log.Warn("using fallback quiz questions", zap.Error(err))
				questions = FallbackQuizQuestions()
			}
			result.QuizQuestions = questions
			p.publish(ctx, requestID, StageQuiz, StageCompleted, fallback)
			return nil
		},
	}

	if p.sequential {
		for _, stage := range stages {
			if err := stage(ctx); err != nil {
				return nil, err
			}
		}
		return result, nil
	}

	// Each stage writes a distinct field of result, so no locking is needed.
	g, gctx := errgroup.WithContext(ctx)
	for _, stage := range stages {
		g.Go(func() error { return stage(gctx) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// runStage performs one completion and tags any failure with the stage name.
func (p *Pipeline) runStage(ctx context.Context, log *zap.Logger, requestID, stage, systemPrompt, userPrompt string) (string, error) {
	log.Info("generating", zap.String("stage", stage))
	p.publish(ctx, requestID, stage, StageStarted, false)
	start := time.Now()

	text, err := p.completer.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		p.publish(ctx, requestID, stage, StageFailed, false)
		return "", p.stageError(log, stage, err)
	}

	log.Debug("stage finished",
		zap.String("stage", stage),
		zap.Int("response_length", len(text)),
		zap.Duration("duration", time.Since(start)),
	)
	return text, nil
}

func (p *Pipeline) stageError(log *zap.Logger, stage string, err error) error {
	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		return cfgErr
	}

	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		upErr = &UpstreamError{Err: err}
	}
	tagged := *upErr
	tagged.Stage = stage

	if errors.Is(err, context.Canceled) {
		log.Debug("stage cancelled", zap.String("stage", stage))
		return &tagged
	}
	log.Error("generation failed",
		zap.String("stage", stage),
		zap.Int("status", tagged.StatusCode),
		zap.String("detail", tagged.Detail()),
	)
	return &tagged
}

func (p *Pipeline) publish(ctx context.Context, requestID, stage, status string, fallback bool) {
	p.publisher.PublishStage(ctx, models.StageUpdate{
		RequestID: requestID,
		Stage:     stage,
		Status:    status,
		Fallback:  fallback,
	})
}
