package services

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"studyai-backend/internal/models"
)

// Stage statuses published while a pipeline runs.
const (
	StageStarted   = "started"
	StageCompleted = "completed"
	StageFailed    = "failed"
)

// ProgressPublisher reports stage transitions. Implementations must not block the pipeline for long
// and their failures never affect the result.
type ProgressPublisher interface {
	PublishStage(ctx context.Context, update models.StageUpdate)
}

type NoopProgressPublisher struct{}

func (NoopProgressPublisher) PublishStage(context.Context, models.StageUpdate) {}

// ProgressChannel is the Redis pub/sub channel for one request's stage updates.
func ProgressChannel(requestID string) string {
	return "study_material_updates:" + requestID
}

type RedisProgressPublisher struct {
	redis *redis.Client
	log   *zap.Logger
}

func NewRedisProgressPublisher(redisClient *redis.Client, log *zap.Logger) *RedisProgressPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisProgressPublisher{redis: redisClient, log: log}
}

func (p *RedisProgressPublisher) PublishStage(ctx context.Context, update models.StageUpdate) {
	if update.RequestID == "" {
		return
	}
	data, _ := json.Marshal(models.WSMessage{Type: "stage_update", Payload: update})
	if err := p.redis.Publish(context.WithoutCancel(ctx), ProgressChannel(update.RequestID), string(data)).Err(); err != nil {
		p.log.Warn("failed to publish stage update",
			zap.String("request_id", update.RequestID),
			zap.String("stage", update.Stage),
			zap.Error(err),
		)
	}
}
