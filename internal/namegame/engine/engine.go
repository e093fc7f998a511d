// Package engine 은 게임 한 판의 단계 전이, 제출 채점, 투표 합의,
// 접속/세션 관리를 담당하는 오케스트레이션 계층이다.
//
// 모든 이벤트 핸들러는 엔진 뮤텍스 아래에서 완결되며, 사전 판정 대기와
// 퇴출 타이머만이 유일한 중단 지점이다. 중단 후 재개하는 코드는 게임을
// ID로 다시 조회해야 하고, 그 사이 라운드가 넘어갔으면 결과를 버린다.
package engine

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ast4/namegame-go/internal/common/messageprovider"
	ngconfig "github.com/ast4/namegame-go/internal/namegame/config"
	"github.com/ast4/namegame-go/internal/namegame/model"
	"github.com/ast4/namegame-go/internal/namegame/pipeline"
	"github.com/ast4/namegame-go/internal/namegame/registry"
)

// 게임 그룹으로 내보내는 이벤트 이름.
const (
	EventGameState         = "gameStateUpdate"
	EventTimerUpdate       = "timerUpdate"
	EventVotingInterrupted = "votingInterrupted"
	EventHostTransfer      = "hostTransfer"
	EventPlayerRemoved     = "playerRemoved"
	EventChatMessage       = "chatMessage"
)

// Broadcaster: 게임 그룹으로의 송신 능력. hub가 구현한다.
// 호출 시점에 페이로드를 직렬화해야 하며, 한 게임에 대한 브로드캐스트는
// 호출 순서대로 전달되어야 한다.
type Broadcaster interface {
	BroadcastToGame(gameID, event string, payload any)
	SendToPlayer(gameID, playerID, event string, payload any)
	EvictPlayer(gameID, playerID string)
}

// SessionTracker: 플레이어 세션 추적 능력. session.Store가 구현한다.
type SessionTracker interface {
	Track(ctx context.Context, playerID string, sess model.PlayerSession) error
	Delete(ctx context.Context, playerID string) error
}

// Archiver: 완료된 게임의 기록 능력. repository가 구현한다.
type Archiver interface {
	ArchiveGame(ctx context.Context, game *model.Game) error
}

// Engine 은 게임 규칙의 단일 진입점이다. 모든 인바운드 이벤트는
// 엔진 뮤텍스 아래에서 처리된다.
type Engine struct {
	mu sync.Mutex

	cfg         ngconfig.GameConfig
	registry    *registry.Registry
	pipeline    *pipeline.Pipeline
	sessions    SessionTracker
	broadcaster Broadcaster
	archiver    Archiver
	messages    *messageprovider.Provider
	logger      *slog.Logger

	// evictions: 연결 끊김 퇴출 타이머. 게임ID:플레이어ID 키로 관리되며 재접속 시 취소된다.
	evictions map[string]*time.Timer
}

// New: 엔진을 생성한다. archiver는 nil일 수 있다(아카이브 비활성).
func New(
	cfg ngconfig.GameConfig,
	reg *registry.Registry,
	pipe *pipeline.Pipeline,
	sessions SessionTracker,
	broadcaster Broadcaster,
	archiver Archiver,
	msgProvider *messageprovider.Provider,
	logger *slog.Logger,
) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:         cfg,
		registry:    reg,
		pipeline:    pipe,
		sessions:    sessions,
		broadcaster: broadcaster,
		archiver:    archiver,
		messages:    msgProvider,
		logger:      logger,
		evictions:   make(map[string]*time.Timer),
	}
}

// NewID: 게임과 채팅 메시지에 쓰는 임의 식별자를 생성한다.
func NewID() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("rand read failed: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}

// InspectGame: 조회 전용 접근. fn은 엔진 뮤텍스를 잡은 채 호출되므로
// 게임 포인터를 밖으로 들고 나가면 안 된다.
func (e *Engine) InspectGame(gameID string, fn func(*model.Game)) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	game, ok := e.registry.Get(gameID)
	if !ok {
		return false
	}
	fn(game)
	return true
}

// broadcastState: 게임 전체 상태를 그룹에 내보낸다. 엔진 뮤텍스 아래에서만 호출한다.
func (e *Engine) broadcastState(game *model.Game) {
	e.broadcaster.BroadcastToGame(game.ID, EventGameState, game)
}

func (e *Engine) trackSession(ctx context.Context, playerID string, sess model.PlayerSession) {
	if err := e.sessions.Track(ctx, playerID, sess); err != nil {
		e.logger.Warn("session_track_failed", "player_id", playerID, "error", err)
	}
}

func (e *Engine) deleteSession(ctx context.Context, playerID string) {
	if err := e.sessions.Delete(ctx, playerID); err != nil {
		e.logger.Warn("session_delete_failed", "player_id", playerID, "error", err)
	}
}

// evictionKey: 퇴출 타이머 맵의 키
func evictionKey(gameID, playerID string) string {
	return gameID + ":" + playerID
}

func (e *Engine) cancelEviction(gameID, playerID string) {
	key := evictionKey(gameID, playerID)
	if timer, ok := e.evictions[key]; ok {
		timer.Stop()
		delete(e.evictions, key)
	}
}

// validatedResults: 파이프라인 결과 타입의 축약
type validatedResults = map[string]pipeline.PlayerSubmissions
