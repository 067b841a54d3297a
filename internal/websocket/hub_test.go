package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyai-backend/internal/models"
	"studyai-backend/internal/services"
)

func TestHub_RelaysProgressForRequest(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	hub := NewHub(rdb, nil)
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "?request_id=req-42"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	channel := services.ProgressChannel("req-42")
	require.Eventually(t, func() bool {
		return mr.PubSubNumSub(channel)[channel] == 1
	}, 2*time.Second, 10*time.Millisecond)

	publisher := services.NewRedisProgressPublisher(rdb, nil)
	publisher.PublishStage(context.Background(), models.StageUpdate{
		RequestID: "req-42",
		Stage:     services.StageNotes,
		Status:    services.StageCompleted,
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type    string             `json:"type"`
		Payload models.StageUpdate `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "stage_update", msg.Type)
	assert.Equal(t, services.StageNotes, msg.Payload.Stage)
	assert.Equal(t, services.StageCompleted, msg.Payload.Status)
}

func TestHub_UnsubscribesWhenLastSocketLeaves(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	hub := NewHub(rdb, nil)
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"?request_id=gone", nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return hub.ConnectionCount("gone") == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()

	channel := services.ProgressChannel("gone")
	assert.Eventually(t, func() bool {
		return hub.ConnectionCount("gone") == 0 && mr.PubSubNumSub(channel)[channel] == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHub_RequiresRequestID(t *testing.T) {
	hub := NewHub(nil, nil)
	rec := httptest.NewRecorder()
	hub.HandleWebSocket(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ws", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
