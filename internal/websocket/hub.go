package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/momonga11/notenext-server/internal/pkg/logger"
	"github.com/momonga11/notenext-server/pkg/events"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "activity_events"

// Hub fans project activity out to connected clients. Each user may hold
// several connections (multi-device), and a redis channel relays events
// between instances when more than one server is running.
type Hub struct {
	// id marks messages this instance published on the cluster channel, so
	// the subscription can drop its own echo.
	id string

	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		id:         uuid.NewString(),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Notify delivers an activity event to every listed user, locally and via
// redis for clients attached to other instances.
func (h *Hub) Notify(userIds []uuid.UUID, event events.Event) {
	data, err := json.Marshal(map[string]interface{}{
		"type": event.EventType(),
		"data": event.Payload(),
	})
	if err != nil {
		h.logger.Warn("Hub", "Failed to serialize event", map[string]interface{}{"event": event.EventType()})
		return
	}

	for _, userId := range userIds {
		h.sendLocal(userId, data)

		if h.rdb != nil {
			payload, _ := json.Marshal(clusterEvent{
				Origin:       h.id,
				TargetUserID: userId.String(),
				Message:      json.RawMessage(data),
			})
			h.rdb.Publish(context.Background(), clusterChannel, payload)
		}
	}
}

func (h *Hub) sendLocal(userId uuid.UUID, data []byte) {
	h.mu.RLock()
	clients, ok := h.clients[userId]
	h.mu.RUnlock()
	if !ok {
		return
	}

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			// The unregister path owns closing Send; closing here too would
			// close the channel twice.
			h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"user_id": userId})
			h.unregister <- client
		}
	}
}

type clusterEvent struct {
	Origin       string          `json:"origin"`
	TargetUserID string          `json:"target_user_id"`
	Message      json.RawMessage `json:"message"`
}

func (h *Hub) subscribeToRedis() {
	// Every instance subscribes to the shared channel and delivers to the
	// users it holds locally. Events for absent users are discarded.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.deliverClusterEvent([]byte(msg.Payload))
	}
}

func (h *Hub) deliverClusterEvent(raw []byte) {
	var payload clusterEvent
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.logger.Warn("Hub", "Malformed cluster event", map[string]interface{}{"error": err.Error()})
		return
	}

	// Locally attached clients were already served by Notify.
	if payload.Origin == h.id {
		return
	}

	uid, err := uuid.Parse(payload.TargetUserID)
	if err != nil {
		return
	}

	h.sendLocal(uid, payload.Message)
}
