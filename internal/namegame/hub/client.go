package hub

import (
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10

	// sendBuffer 가 가득 찬 연결은 밀린 것으로 보고 닫는다
	sendBuffer = 256
)

// envelope 는 양방향 공통 메시지 틀이다.
type envelope struct {
	Type    string          `json:"type"`
	AckID   string          `json:"ackId,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	gameID     string
	playerID   string
	playerName string

	evicted   atomic.Bool
	closeOnce sync.Once
}

func newClient(h *Hub, conn *websocket.Conn, gameID, playerID, playerName string) *client {
	return &client{
		hub:        h,
		conn:       conn,
		send:       make(chan []byte, sendBuffer),
		gameID:     gameID,
		playerID:   playerID,
		playerName: playerName,
	}
}

// enqueue: 브로드캐스트 순서를 보존하는 FIFO 적재. 밀린 연결은 끊는다.
func (c *client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		c.hub.logger.Warn("client_send_buffer_full",
			"game_id", c.gameID, "player_id", c.playerID)
		c.shutdown()
	}
}

// shutdown: 송신 채널을 닫아 writePump를 통해 연결을 정리한다.
func (c *client) shutdown() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

func (c *client) readPump() {
	defer func() {
		// 호스트가 퇴출한 연결은 이미 엔진에서 제거되었다
		if c.evicted.Load() {
			c.hub.mu.Lock()
			c.hub.removeLocked(c)
			c.hub.mu.Unlock()
		} else {
			c.hub.remove(c)
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("websocket_read_failed",
					"player_id", c.playerID, "error", err)
			}
			return
		}

		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.sendError("malformed message")
			continue
		}
		c.hub.dispatch(c, env)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// sendAck: 요청에 ackId가 있을 때만 응답을 돌려준다.
func (c *client) sendAck(ackID string, payload map[string]any) {
	if ackID == "" {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	data, err := json.Marshal(envelope{Type: "ack", AckID: ackID, Payload: raw})
	if err != nil {
		return
	}
	c.enqueue(data)
}

// sendError: 보낸 연결에만 오류 이벤트를 돌려준다.
func (c *client) sendError(message string) {
	data, err := marshalEnvelope("error", map[string]string{"message": message})
	if err != nil {
		return
	}
	c.enqueue(data)
}
