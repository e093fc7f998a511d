package hub

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/ast4/namegame-go/internal/common/messageprovider"
	"github.com/ast4/namegame-go/internal/namegame/assets"
	ngconfig "github.com/ast4/namegame-go/internal/namegame/config"
	"github.com/ast4/namegame-go/internal/namegame/dictionary"
	"github.com/ast4/namegame-go/internal/namegame/engine"
	"github.com/ast4/namegame-go/internal/namegame/model"
	"github.com/ast4/namegame-go/internal/namegame/pipeline"
	"github.com/ast4/namegame-go/internal/namegame/registry"
)

type allowAllValidator struct{}

func (allowAllValidator) Validate(ctx context.Context, word, category string) (dictionary.Result, error) {
	return dictionary.Result{IsValid: true}, nil
}

// gatedValidator: 신호가 올 때까지 판정을 붙잡아 대기 중인 제출을 흉내낸다.
type gatedValidator struct {
	gate chan struct{}
}

func (v *gatedValidator) Validate(ctx context.Context, word, category string) (dictionary.Result, error) {
	<-v.gate
	return dictionary.Result{IsValid: true}, nil
}

type noopSessions struct{}

func (noopSessions) Track(ctx context.Context, playerID string, sess model.PlayerSession) error {
	return nil
}

func (noopSessions) Delete(ctx context.Context, playerID string) error {
	return nil
}

func newTestServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	return newTestServerWithValidator(t, allowAllValidator{})
}

func newTestServerWithValidator(t *testing.T, validator pipeline.Validator) (*Hub, *httptest.Server) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	msgProvider, err := messageprovider.NewFromYAMLAtPath(assets.GameMessagesYAML, "namegame")
	if err != nil {
		t.Fatalf("load messages failed: %v", err)
	}

	h := New(logger)
	eng := engine.New(
		ngconfig.GameConfig{
			MaxPlayers:      8,
			MaxRounds:       3,
			RoundTimer:      30 * time.Second,
			DisconnectGrace: time.Second,
			SessionTTL:      time.Hour,
		},
		registry.New(),
		pipeline.New(validator, logger),
		noopSessions{},
		h,
		nil,
		msgProvider,
		logger,
	)
	h.AttachEngine(eng)

	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	t.Cleanup(srv.Close)
	return h, srv
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s failed: %v", query, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendEvent(t *testing.T, conn *websocket.Conn, eventType, ackID string, payload any) {
	t.Helper()

	env := envelope{Type: eventType, AckID: ackID}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload failed: %v", err)
		}
		env.Payload = raw
	}
	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal envelope failed: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("write %s failed: %v", eventType, err)
	}
}

// waitFor: 원하는 타입의 메시지가 올 때까지 다른 메시지는 건너뛴다.
func waitFor(t *testing.T, conn *websocket.Conn, eventType string) envelope {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %s: read failed: %v", eventType, err)
		}
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			t.Fatalf("unmarshal envelope failed: %v", err)
		}
		if env.Type == eventType {
			return env
		}
	}
}

func waitForAck(t *testing.T, conn *websocket.Conn, ackID string) map[string]any {
	t.Helper()

	for {
		env := waitFor(t, conn, "ack")
		if env.AckID != ackID {
			continue
		}
		var payload map[string]any
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			t.Fatalf("unmarshal ack payload failed: %v", err)
		}
		return payload
	}
}

func TestServeWS_RequiresPlayerID(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestCreateAndJoinFlow(t *testing.T) {
	h, srv := newTestServer(t)

	host := dial(t, srv, "playerId=p1&name=alice")
	sendEvent(t, host, "createGame", "1", map[string]any{
		"gameId":     "g1",
		"categories": []string{"animals"},
	})

	ack := waitForAck(t, host, "1")
	if ack["success"] != true {
		t.Fatalf("createGame ack = %v, want success", ack)
	}
	if ack["gameId"] != "g1" {
		t.Fatalf("createGame gameId = %v, want g1", ack["gameId"])
	}
	waitFor(t, host, "gameStateUpdate")

	guest := dial(t, srv, "playerId=p2&name=bob")
	sendEvent(t, guest, "joinGame", "2", map[string]any{"gameId": "g1"})

	ack = waitForAck(t, guest, "2")
	if ack["success"] != true {
		t.Fatalf("joinGame ack = %v, want success", ack)
	}
	if ack["isReconnection"] != false {
		t.Fatalf("isReconnection = %v, want false", ack["isReconnection"])
	}

	// 새 참가자는 스냅샷을, 기존 참가자는 브로드캐스트를 받는다
	env := waitFor(t, guest, "gameStateUpdate")
	var state struct {
		Players []struct {
			ID string `json:"id"`
		} `json:"players"`
	}
	if err := json.Unmarshal(env.Payload, &state); err != nil {
		t.Fatalf("unmarshal state failed: %v", err)
	}
	if len(state.Players) != 2 {
		t.Fatalf("players = %d, want 2", len(state.Players))
	}
	waitFor(t, host, "gameStateUpdate")

	if got := h.ConnectedCount("g1"); got != 2 {
		t.Fatalf("ConnectedCount = %d, want 2", got)
	}
}

func TestStartGame_NonHostRejected(t *testing.T) {
	_, srv := newTestServer(t)

	host := dial(t, srv, "playerId=p1&name=alice")
	sendEvent(t, host, "createGame", "1", map[string]any{
		"gameId":     "g1",
		"categories": []string{"animals"},
	})
	waitForAck(t, host, "1")

	guest := dial(t, srv, "playerId=p2&name=bob")
	sendEvent(t, guest, "joinGame", "2", map[string]any{"gameId": "g1"})
	waitForAck(t, guest, "2")

	sendEvent(t, guest, "startGame", "3", nil)
	ack := waitForAck(t, guest, "3")
	if ack["success"] != false {
		t.Fatalf("startGame ack = %v, want failure", ack)
	}
	if msg, _ := ack["message"].(string); msg == "" {
		t.Fatal("failure ack has no message")
	}
	waitFor(t, guest, "error")

	sendEvent(t, host, "startGame", "4", nil)
	ack = waitForAck(t, host, "4")
	if ack["success"] != true {
		t.Fatalf("host startGame ack = %v, want success", ack)
	}
}

func TestUnknownEventAndMalformedMessage(t *testing.T) {
	_, srv := newTestServer(t)

	conn := dial(t, srv, "playerId=p1&name=alice")

	sendEvent(t, conn, "teleport", "", nil)
	env := waitFor(t, conn, "error")
	var payload map[string]string
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		t.Fatalf("unmarshal error payload failed: %v", err)
	}
	if !strings.Contains(payload["message"], "teleport") {
		t.Fatalf("error message = %q, want event type mentioned", payload["message"])
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	env = waitFor(t, conn, "error")
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		t.Fatalf("unmarshal error payload failed: %v", err)
	}
	if payload["message"] != "malformed message" {
		t.Fatalf("error message = %q, want malformed message", payload["message"])
	}
}

func TestReplaceConnection_SamePlayer(t *testing.T) {
	h, srv := newTestServer(t)

	first := dial(t, srv, "playerId=p1&name=alice")
	sendEvent(t, first, "createGame", "1", map[string]any{
		"gameId":     "g1",
		"categories": []string{"animals"},
	})
	waitForAck(t, first, "1")

	second := dial(t, srv, "playerId=p1&name=alice&gameId=g1")
	// 이전 연결은 서버 쪽에서 닫힌다
	first.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := first.ReadMessage(); err != nil {
			break
		}
	}

	if got := h.ConnectedCount("g1"); got != 1 {
		t.Fatalf("ConnectedCount = %d, want 1", got)
	}

	sendEvent(t, second, "chatMessage", "2", map[string]any{"text": "hello"})
	// 브로드캐스트가 ack보다 먼저 적재되므로 채팅 이벤트부터 읽는다
	env := waitFor(t, second, "chatMessage")
	ack := waitForAck(t, second, "2")
	if ack["success"] != true {
		t.Fatalf("chatMessage ack = %v, want success", ack)
	}
	var chat struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(env.Payload, &chat); err != nil {
		t.Fatalf("unmarshal chat failed: %v", err)
	}
	if chat.Text != "hello" {
		t.Fatalf("chat text = %q, want hello", chat.Text)
	}
}

// 판정 대기 중에 같은 연결이 다른 게임으로 옮겨가도
// 제출은 접수 시점의 게임에 반영되어야 한다.
func TestSubmitWords_PendingSubmissionKeepsOriginalGame(t *testing.T) {
	validator := &gatedValidator{gate: make(chan struct{})}
	h, srv := newTestServerWithValidator(t, validator)

	conn := dial(t, srv, "playerId=p1&name=alice")
	sendEvent(t, conn, "createGame", "1", map[string]any{
		"gameId":     "g1",
		"categories": []string{"animals"},
	})
	waitForAck(t, conn, "1")
	sendEvent(t, conn, "startGame", "2", nil)
	waitForAck(t, conn, "2")
	sendEvent(t, conn, "selectLetter", "3", map[string]any{"letter": "B"})
	waitForAck(t, conn, "3")

	// 판정이 막혀 있는 동안 같은 연결이 새 게임을 만든다
	sendEvent(t, conn, "submitWords", "4", map[string]any{
		"words": map[string]string{"animals": "Bear"},
	})
	sendEvent(t, conn, "createGame", "5", map[string]any{
		"gameId":     "g2",
		"categories": []string{"things"},
	})
	waitForAck(t, conn, "5")

	close(validator.gate)
	ack := waitForAck(t, conn, "4")
	if ack["success"] != true {
		t.Fatalf("submitWords ack = %v, want success", ack)
	}

	scored := h.engine.InspectGame("g1", func(game *model.Game) {
		if len(game.RoundResults) != 1 {
			t.Errorf("g1 round results = %d, want 1", len(game.RoundResults))
		}
	})
	if !scored {
		t.Fatal("g1 must still exist")
	}
	h.engine.InspectGame("g2", func(game *model.Game) {
		if len(game.RoundResults) != 0 {
			t.Errorf("g2 round results = %d, want none", len(game.RoundResults))
		}
	})
}
