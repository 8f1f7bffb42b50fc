package notification

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RealtimePublisher publishes in-app notification realtime events.
type RealtimePublisher interface {
	NotifyNew(ctx context.Context, userID uuid.UUID, notification *NotificationResponse, unreadCount int) error
}

const (
	userEventsChannel = "notifications:user_events"
	eventNew          = "notification:new"
	sendBufferSize    = 64
)

// Event is the payload delivered to websocket clients
type Event struct {
	Type         string                `json:"type"`
	Notification *NotificationResponse `json:"notification"`
	UnreadCount  int                   `json:"unread_count,omitempty"`
}

type userEventMessage struct {
	UserID           string          `json:"user_id"`
	Payload          json.RawMessage `json:"payload"`
	SenderInstanceID string          `json:"sender_instance_id"`
}

// Connection is a single websocket client of a user
type Connection struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
	Send   chan []byte
}

// NewConnection creates a connection with a buffered send queue
func NewConnection(userID uuid.UUID, conn *websocket.Conn) *Connection {
	return &Connection{UserID: userID, Conn: conn, Send: make(chan []byte, sendBufferSize)}
}

// Hub fans notification events out to websocket clients.
// With Redis configured, events reach clients connected to other instances too.
type Hub struct {
	connections map[uuid.UUID]map[*Connection]struct{}
	mu          sync.RWMutex

	redis  *redis.Client
	pubsub *redis.PubSub

	ctx    context.Context
	cancel context.CancelFunc

	instanceID string
	publishFn  func(ctx context.Context, channel string, payload []byte) error
}

// NewHub creates a notification hub. redisClient may be nil.
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		connections: make(map[uuid.UUID]map[*Connection]struct{}),
		redis:       redisClient,
		ctx:         ctx,
		cancel:      cancel,
		instanceID:  uuid.NewString(),
	}

	if redisClient != nil {
		h.pubsub = redisClient.Subscribe(ctx, userEventsChannel)
		h.publishFn = func(ctx context.Context, channel string, payload []byte) error {
			return redisClient.Publish(ctx, channel, payload).Err()
		}
	}

	return h
}

// Run consumes events published by other instances (call in goroutine)
func (h *Hub) Run() {
	if h.pubsub == nil {
		<-h.ctx.Done()
		return
	}

	ch := h.pubsub.Channel()
	for {
		select {
		case <-h.ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.handleUserEventPayload(msg.Payload)
		}
	}
}

func (h *Hub) handleUserEventPayload(payload string) {
	var event userEventMessage
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return
	}
	if event.SenderInstanceID == h.instanceID {
		return
	}
	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		return
	}
	h.sendLocal(userID, event.Payload)
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.connections[conn.UserID] == nil {
		h.connections[conn.UserID] = make(map[*Connection]struct{})
	}
	h.connections[conn.UserID][conn] = struct{}{}
	log.Debug().Str("user_id", conn.UserID.String()).Msg("Notification client connected")
}

// Unregister removes a connection and closes its send queue
func (h *Hub) Unregister(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.connections[conn.UserID]
	if !ok {
		return
	}
	if _, exists := conns[conn]; exists {
		delete(conns, conn)
		close(conn.Send)
	}
	if len(conns) == 0 {
		delete(h.connections, conn.UserID)
	}
	log.Debug().Str("user_id", conn.UserID.String()).Msg("Notification client disconnected")
}

// NotifyNew delivers a new notification to every client of userID
func (h *Hub) NotifyNew(ctx context.Context, userID uuid.UUID, notification *NotificationResponse, unreadCount int) error {
	data, err := json.Marshal(Event{
		Type:         eventNew,
		Notification: notification,
		UnreadCount:  unreadCount,
	})
	if err != nil {
		return err
	}

	h.sendLocal(userID, data)
	return h.publish(ctx, userID, data)
}

func (h *Hub) sendLocal(userID uuid.UUID, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.connections[userID] {
		select {
		case conn.Send <- data:
		default:
			log.Warn().Str("user_id", userID.String()).Msg("Notification send buffer full")
		}
	}
}

func (h *Hub) publish(ctx context.Context, userID uuid.UUID, data []byte) error {
	if h.publishFn == nil {
		return nil
	}

	payload, err := json.Marshal(userEventMessage{
		UserID:           userID.String(),
		Payload:          data,
		SenderInstanceID: h.instanceID,
	})
	if err != nil {
		return err
	}
	return h.publishFn(ctx, userEventsChannel, payload)
}

// ConnectionCount returns number of local connections
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, conns := range h.connections {
		total += len(conns)
	}
	return total
}

// Shutdown stops the hub
func (h *Hub) Shutdown() {
	h.cancel()
	if h.pubsub != nil {
		h.pubsub.Close()
	}
}
