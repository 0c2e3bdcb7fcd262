package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"voice-arena-go/internal/domain/catalog"
	"voice-arena-go/internal/domain/eventbus"
	"voice-arena-go/internal/domain/leaderboard"
	"voice-arena-go/internal/platform/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 8
)

// pushMessage is the envelope written to every connected client.
type pushMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub tracks the active websocket sessions and pushes leaderboard
// and catalog updates to all of them whenever either changes.
type Hub struct {
	logger   *logging.Logger
	board    *leaderboard.Service
	upgrader *websocket.Upgrader

	mu       sync.Mutex
	sessions map[*session]struct{}
	closed   bool
}

// NewHub builds a hub and subscribes it to leaderboard and catalog
// updates. Broadcasts are serialized so clients never see an older
// snapshot after a newer one.
func NewHub(board *leaderboard.Service, logger *logging.Logger) (*Hub, error) {
	h := &Hub{
		logger: logger,
		board:  board,
		upgrader: &websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		sessions: make(map[*session]struct{}),
	}

	if err := eventbus.SubscribeAsync(eventbus.TopicLeaderboardUpdated, h.onLeaderboardUpdated, true); err != nil {
		return nil, err
	}
	if err := eventbus.SubscribeAsync(eventbus.TopicCatalogRefreshed, h.onCatalogRefreshed, true); err != nil {
		eventbus.Unsubscribe(eventbus.TopicLeaderboardUpdated, h.onLeaderboardUpdated)
		return nil, err
	}
	return h, nil
}

// Handle upgrades the HTTP connection and starts a push session.
// The current standings are sent immediately after the upgrade.
func (h *Hub) Handle(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		h.logger.WarnTag("WebSocket", "升级连接失败: %v", err)
		return
	}

	s := newSession(h, conn)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.sessions[s] = struct{}{}
	count := len(h.sessions)
	h.mu.Unlock()

	h.logger.InfoTag("WebSocket", "客户端 %s 已连接，当前 %d 个会话", conn.RemoteAddr(), count)

	s.start()
	s.push(pushMessage{Type: "leaderboard", Data: h.board.Stats()})
}

// Counts exposes the number of active websocket connections.
func (h *Hub) Counts() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Close unsubscribes from the event bus and terminates all sessions.
func (h *Hub) Close() error {
	h.mu.Lock()
	h.closed = true
	sessions := make([]*session, 0, len(h.sessions))
	for s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.sessions = make(map[*session]struct{})
	h.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}

	if err := eventbus.Unsubscribe(eventbus.TopicCatalogRefreshed, h.onCatalogRefreshed); err != nil {
		return err
	}
	return eventbus.Unsubscribe(eventbus.TopicLeaderboardUpdated, h.onLeaderboardUpdated)
}

func (h *Hub) onLeaderboardUpdated(stats []leaderboard.ModelStats) {
	h.broadcast(pushMessage{Type: "leaderboard", Data: stats})
}

func (h *Hub) onCatalogRefreshed(groups []*catalog.VoiceGroup) {
	h.broadcast(pushMessage{Type: "catalog", Data: groups})
}

func (h *Hub) broadcast(msg pushMessage) {
	h.mu.Lock()
	sessions := make([]*session, 0, len(h.sessions))
	for s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.Unlock()

	for _, s := range sessions {
		s.push(msg)
	}
}

func (h *Hub) remove(s *session) {
	h.mu.Lock()
	delete(h.sessions, s)
	h.mu.Unlock()
}
