package ws

import (
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
)

// session wraps a single client connection. Writes go through the
// send channel so only the writer goroutine touches the connection.
type session struct {
	hub  *Hub
	conn *websocket.Conn

	// mu guards send and closed. push and close both run from the
	// hub's broadcast path and from readPump, so the channel may
	// only be closed while no push holds the lock.
	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func newSession(hub *Hub, conn *websocket.Conn) *session {
	return &session{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

func (s *session) start() {
	go s.writePump()
	go s.readPump()
}

// push serializes the message and queues it. Pushes that race a
// disconnect are dropped; slow clients that cannot drain their
// buffer get disconnected instead of blocking the hub.
func (s *session) push(msg pushMessage) {
	data, err := sonic.Marshal(msg)
	if err != nil {
		s.hub.logger.WarnTag("WebSocket", "序列化推送消息失败: %v", err)
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	select {
	case s.send <- data:
		s.mu.Unlock()
	default:
		s.mu.Unlock()
		s.hub.logger.WarnTag("WebSocket", "客户端 %s 消费过慢，断开连接", s.conn.RemoteAddr())
		s.close()
	}
}

func (s *session) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.send)
	s.mu.Unlock()

	s.hub.remove(s)
}

// readPump discards inbound frames. Clients only listen; reading is
// still required to process control frames and detect disconnects.
func (s *session) readPump() {
	defer func() {
		s.close()
		s.conn.Close()
	}()

	s.conn.SetReadLimit(512)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case data, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
