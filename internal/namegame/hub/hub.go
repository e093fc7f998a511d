// Package hub 는 WebSocket 연결 그룹을 관리하고 엔진의 브로드캐스트를
// 클라이언트별 FIFO 채널로 전파한다. 한 게임에 대한 브로드캐스트는
// 발행 시점에 직렬화되므로 모든 클라이언트가 같은 순서로 받는다.
package hub

import (
	"log/slog"
	"net/http"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/ast4/namegame-go/internal/namegame/engine"
	"github.com/ast4/namegame-go/internal/namegame/model"
)

// upgrader: 게임 클라이언트는 별도 도메인에서 접속하므로 Origin 검증을 완화한다.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub 는 게임별 클라이언트 그룹과 엔진 사이의 전파 계층이다.
// engine.Broadcaster 를 구현한다.
type Hub struct {
	mu     sync.RWMutex
	groups map[string]map[string]*client

	engine *engine.Engine
	logger *slog.Logger
}

func New(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		groups: make(map[string]map[string]*client),
		logger: logger,
	}
}

// AttachEngine: 엔진을 연결한다. 엔진이 허브를 Broadcaster로 받기 때문에
// 생성 순서상 나중에 묶는다. 서비스 기동 중 한 번만 호출한다.
func (h *Hub) AttachEngine(eng *engine.Engine) {
	h.engine = eng
}

// ServeWS: GET /ws?gameId=…&playerId=…&name=… 업그레이드 핸들러.
// playerId는 필수이고 gameId는 createGame 이벤트에서 확정될 수 있다.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		http.Error(w, "playerId is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket_upgrade_failed", "error", err)
		return
	}

	c := newClient(h, conn, r.URL.Query().Get("gameId"), playerID, r.URL.Query().Get("name"))
	if c.gameID != "" {
		h.bind(c, c.gameID)
	}

	h.logger.Info("websocket_connected", "player_id", playerID, "game_id", c.gameID)
	go c.writePump()
	go c.readPump()
}

// bind: 클라이언트를 게임 그룹에 넣는다. 같은 플레이어의 이전 연결은 끊는다.
func (h *Hub) bind(c *client, gameID string) {
	h.mu.Lock()
	if c.gameID != "" && c.gameID != gameID {
		h.removeLocked(c)
	}
	c.gameID = gameID

	group, ok := h.groups[gameID]
	if !ok {
		group = make(map[string]*client)
		h.groups[gameID] = group
	}
	previous := group[c.playerID]
	group[c.playerID] = c
	h.mu.Unlock()

	if previous != nil && previous != c {
		previous.shutdown()
	}
}

// remove: 그룹에서 클라이언트를 뗀다. 다른 연결로 교체된 경우는 건드리지 않는다.
func (h *Hub) remove(c *client) {
	h.mu.Lock()
	removed := h.removeLocked(c)
	h.mu.Unlock()

	if removed && c.gameID != "" {
		h.engine.HandleDisconnect(c.gameID, c.playerID)
	}
}

func (h *Hub) removeLocked(c *client) bool {
	group, ok := h.groups[c.gameID]
	if !ok || group[c.playerID] != c {
		return false
	}
	delete(group, c.playerID)
	if len(group) == 0 {
		delete(h.groups, c.gameID)
	}
	return true
}

// BroadcastToGame: 이벤트를 호출 시점에 직렬화해 게임의 모든 연결에 보낸다.
func (h *Hub) BroadcastToGame(gameID, event string, payload any) {
	data, err := marshalEnvelope(event, payload)
	if err != nil {
		h.logger.Error("broadcast_marshal_failed", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.groups[gameID] {
		c.enqueue(data)
	}
}

// SendToPlayer: 특정 플레이어의 연결에만 이벤트를 보낸다.
func (h *Hub) SendToPlayer(gameID, playerID, event string, payload any) {
	data, err := marshalEnvelope(event, payload)
	if err != nil {
		h.logger.Error("send_marshal_failed", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	c := h.groups[gameID][playerID]
	h.mu.RUnlock()
	if c != nil {
		c.enqueue(data)
	}
}

// EvictPlayer: 플레이어의 연결을 그룹에서 떼고 닫는다.
func (h *Hub) EvictPlayer(gameID, playerID string) {
	h.mu.Lock()
	group := h.groups[gameID]
	c := group[playerID]
	if c != nil {
		delete(group, playerID)
		if len(group) == 0 {
			delete(h.groups, gameID)
		}
	}
	h.mu.Unlock()

	if c != nil {
		c.evicted.Store(true)
		c.shutdown()
	}
}

// sendGameState: 막 그룹에 묶인 클라이언트에게 현재 게임 상태를 보낸다.
// 참여 처리 중의 브로드캐스트는 바인딩 전이라 받지 못하므로 직접 스냅샷을 준다.
func (h *Hub) sendGameState(c *client) {
	h.engine.InspectGame(c.gameID, func(game *model.Game) {
		data, err := marshalEnvelope(engine.EventGameState, game)
		if err != nil {
			h.logger.Error("state_snapshot_marshal_failed", "game_id", c.gameID, "error", err)
			return
		}
		c.enqueue(data)
	})
}

// ConnectedCount: 게임 그룹의 현재 연결 수. 상태 조회 API가 쓴다.
func (h *Hub) ConnectedCount(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[gameID])
}

func marshalEnvelope(event string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Type: event, Payload: raw})
}
