package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"docpanel-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ClusterChannel carries session reports between instances.
const ClusterChannel = "document_session_reports"

type clusterMessage struct {
	Origin    string          `json:"origin"`
	SessionID uuid.UUID       `json:"session_id"`
	Message   json.RawMessage `json:"message"`
}

// Hub fans session reports out to the websocket viewers of each session.
type Hub struct {
	// SessionID -> viewers
	clients map[uuid.UUID]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex

	// Redis connection for cross-instance delivery; nil keeps delivery local.
	rdb      *redis.Client
	instance string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		rdb:        rdb,
		instance:   uuid.NewString(),
		logger:     log,
	}
}

// Run serves registrations until ctx is done, then disconnects every viewer.
func (h *Hub) Run(ctx context.Context) {
	var wg sync.WaitGroup
	if h.rdb != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.subscribeToRedis(ctx)
		}()
	}

	defer func() {
		close(h.done)
		h.mu.Lock()
		for _, viewers := range h.clients {
			for c := range viewers {
				h.removeLocked(c)
			}
		}
		h.mu.Unlock()
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			viewers, ok := h.clients[client.SessionID]
			if !ok {
				viewers = make(map[*Client]struct{})
				h.clients[client.SessionID] = viewers
			}
			viewers[client] = struct{}{}
			h.mu.Unlock()
			h.logger.Info("Hub", "Viewer registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(client)
			h.mu.Unlock()
		}
	}
}

// Register adds a viewer. It returns false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Viewers reports how many connections watch a session on this instance.
func (h *Hub) Viewers(sessionID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

// SendToSession delivers payload to every local viewer of the session and
// forwards it to the other instances.
func (h *Hub) SendToSession(sessionID uuid.UUID, payload []byte) {
	h.deliverLocal(sessionID, payload)

	if h.rdb == nil {
		return
	}
	data, err := json.Marshal(clusterMessage{
		Origin:    h.instance,
		SessionID: sessionID,
		Message:   payload,
	})
	if err != nil {
		return
	}
	if err := h.rdb.Publish(context.Background(), ClusterChannel, data).Err(); err != nil {
		h.logger.Warn("Hub", "Redis publish failed", map[string]interface{}{"error": err.Error()})
	}
}

func (h *Hub) deliverLocal(sessionID uuid.UUID, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients[sessionID] {
		select {
		case c.Send <- payload:
		default:
			h.logger.Warn("Hub", "Viewer send buffer full, dropping connection", map[string]interface{}{"session_id": sessionID})
			h.removeLocked(c)
		}
	}
}

// removeLocked drops c and closes its Send channel exactly once.
func (h *Hub) removeLocked(c *Client) {
	viewers, ok := h.clients[c.SessionID]
	if !ok {
		return
	}
	if _, ok := viewers[c]; !ok {
		return
	}
	delete(viewers, c)
	close(c.Send)
	if len(viewers) == 0 {
		delete(h.clients, c.SessionID)
		h.logger.Info("Hub", "Session has no more viewers", map[string]interface{}{"session_id": c.SessionID})
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
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
			var payload clusterMessage
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn("Hub", "Redis message parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			if payload.Origin == h.instance {
				continue
			}
			h.deliverLocal(payload.SessionID, payload.Message)
		}
	}
}
