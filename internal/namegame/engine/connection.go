package engine

import (
	"context"
	"time"

	"github.com/ast4/namegame-go/internal/namegame/model"
)

// HandleDisconnect: 연결이 끊긴 플레이어를 소프트 제거한다.
// 점수와 정체성은 유지되며, 유예 시간 안에 재접속하지 않으면 퇴출된다.
func (e *Engine) HandleDisconnect(gameID, playerID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	game, ok := e.registry.Get(gameID)
	if !ok {
		return
	}
	player, ok := game.FindPlayer(playerID)
	if !ok {
		return
	}

	player.Disconnected = true
	e.logger.Info("player_disconnected", "game_id", gameID, "player_id", playerID)
	e.broadcastState(game)

	e.cancelEviction(gameID, playerID)
	key := evictionKey(gameID, playerID)
	e.evictions[key] = time.AfterFunc(e.cfg.DisconnectGrace, func() {
		e.evictIfStillDisconnected(gameID, playerID)
	})
}

// evictIfStillDisconnected: 유예 시간이 지난 뒤 타이머에서 호출된다.
// 타이머 발화와 재접속이 경합할 수 있으므로 게임을 다시 조회해 최신 상태로 판단한다.
func (e *Engine) evictIfStillDisconnected(gameID, playerID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.evictions, evictionKey(gameID, playerID))

	game, ok := e.registry.Get(gameID)
	if !ok {
		return
	}
	player, ok := game.FindPlayer(playerID)
	if !ok || !player.Disconnected {
		return
	}

	game.RemovePlayer(playerID)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	e.deleteSession(ctx, playerID)

	e.logger.Info("player_evicted", "game_id", gameID, "player_id", playerID)

	if len(game.Players) == 0 {
		e.registry.Delete(gameID)
		e.pipeline.ClearGame(gameID)
		e.logger.Info("game_deleted_empty", "game_id", gameID)
		return
	}

	// 호스트가 퇴출되었으면 남은 첫 플레이어가 호스트를 이어받는다
	if _, ok := game.Host(); !ok {
		game.Players[0].IsHost = true
	}

	e.broadcastState(game)
}

// HandleChatMessage: 채팅 메시지에 식별자와 시각을 붙여 기록하고 그룹에 중계한다.
func (e *Engine) HandleChatMessage(gameID, playerID, playerName, text string) error {
	if text == "" {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	game, ok := e.registry.Get(gameID)
	if !ok {
		return nil
	}

	id, err := NewID()
	if err != nil {
		return err
	}

	entry := model.ChatEntry{
		ID:         id,
		PlayerID:   playerID,
		PlayerName: playerName,
		Text:       text,
		SentAt:     time.Now(),
	}
	game.Messages = append(game.Messages, entry)

	e.broadcaster.BroadcastToGame(gameID, EventChatMessage, entry)
	return nil
}
