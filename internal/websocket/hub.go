package websocket

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"studyai-backend/internal/services"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub relays pipeline progress events for a request id to every socket watching it.
// One Redis subscription is held per request id while at least one socket is connected.
type Hub struct {
	mu          sync.RWMutex
	connections map[string][]*websocket.Conn
	redisClient *redis.Client
	cancelFuncs map[string]context.CancelFunc
	log         *zap.Logger
}

func NewHub(redisClient *redis.Client, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		connections: make(map[string][]*websocket.Conn),
		redisClient: redisClient,
		cancelFuncs: make(map[string]context.CancelFunc),
		log:         log,
	}
}

// HandleWebSocket serves GET /api/v1/ws?request_id=<id>.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	requestID := r.URL.Query().Get("request_id")
	if requestID == "" {
		http.Error(w, `{"error":"request_id is required"}`, http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.registerConnection(requestID, conn)

	// Reads only detect the client going away.
	go func() {
		defer h.unregisterConnection(requestID, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (h *Hub) registerConnection(requestID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[requestID] = append(h.connections[requestID], conn)

	if len(h.connections[requestID]) == 1 {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancelFuncs[requestID] = cancel
		pubsub := h.redisClient.Subscribe(ctx, services.ProgressChannel(requestID))
		go h.relay(ctx, requestID, pubsub)
	}

	h.log.Debug("websocket connected",
		zap.String("request_id", requestID),
		zap.Int("connections", len(h.connections[requestID])),
	)
}

func (h *Hub) unregisterConnection(requestID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn.Close()

	conns := h.connections[requestID]
	for i, c := range conns {
		if c == conn {
			h.connections[requestID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}

	if len(h.connections[requestID]) == 0 {
		delete(h.connections, requestID)
		if cancel, ok := h.cancelFuncs[requestID]; ok {
			cancel()
			delete(h.cancelFuncs, requestID)
		}
	}

	h.log.Debug("websocket disconnected", zap.String("request_id", requestID))
}

// ConnectionCount reports how many sockets watch requestID.
func (h *Hub) ConnectionCount(requestID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[requestID])
}

func (h *Hub) relay(ctx context.Context, requestID string, pubsub *redis.PubSub) {
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(requestID, []byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(requestID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, conn := range h.connections[requestID] {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Debug("websocket write failed", zap.String("request_id", requestID), zap.Error(err))
		}
	}
}
