package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"studyai-backend/internal/models"
)

func TestRedisProgressPublisher_PublishStage(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	sub := client.Subscribe(ctx, ProgressChannel("req-7"))
	t.Cleanup(func() { sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	publisher := NewRedisProgressPublisher(client, zap.NewNop())
	publisher.PublishStage(ctx, models.StageUpdate{RequestID: "req-7", Stage: StageNotes, Status: StageStarted})

	select {
	case msg := <-sub.Channel():
		assert.Equal(t, "study_material_updates:req-7", msg.Channel)

		var got struct {
			Type    string             `json:"type"`
			Payload models.StageUpdate `json:"payload"`
		}
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, "stage_update", got.Type)
		assert.Equal(t, StageNotes, got.Payload.Stage)
		assert.Equal(t, StageStarted, got.Payload.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("no stage update received")
	}
}

func TestRedisProgressPublisher_SkipsEmptyRequestID(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	publisher := NewRedisProgressPublisher(client, zap.NewNop())
	publisher.PublishStage(context.Background(), models.StageUpdate{Stage: StageNotes, Status: StageStarted})

	assert.Empty(t, mr.PubSubChannels(""))
}

func TestRedisProgressPublisher_ToleratesRedisFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	mr.Close()

	publisher := NewRedisProgressPublisher(client, zap.NewNop())
	assert.NotPanics(t, func() {
		publisher.PublishStage(context.Background(), models.StageUpdate{RequestID: "r", Stage: StageQuiz, Status: StageFailed})
	})
}
