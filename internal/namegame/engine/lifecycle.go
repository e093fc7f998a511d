package engine

import (
	"context"
	"strings"

	ngerrors "github.com/ast4/namegame-go/internal/namegame/errors"
	"github.com/ast4/namegame-go/internal/namegame/messages"
	"github.com/ast4/namegame-go/internal/namegame/model"
)

// ConnectionResult: 접속/합류 처리 결과
type ConnectionResult struct {
	IsReconnection bool          `json:"isReconnection"`
	Player         *model.Player `json:"player"`
	GameState      *model.Game   `json:"gameState"`
}

// CreateGame: 새 게임을 만들고 요청자를 호스트로 등록한다.
// gameID가 비어 있으면 새 식별자를 발급한다.
func (e *Engine) CreateGame(
	ctx context.Context,
	gameID, playerID, playerName string,
	categories []string,
) (*model.Game, error) {
	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		return nil, ngerrors.MalformedInputError{Message: "player name is required"}
	}
	if strings.TrimSpace(playerID) == "" {
		return nil, ngerrors.MalformedInputError{Message: "player id is required"}
	}
	if gameID == "" {
		id, err := NewID()
		if err != nil {
			return nil, err
		}
		gameID = id
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	host := model.NewPlayer(playerID, playerName, true)
	host.IsReady = true
	game := model.NewGame(gameID, host, categories, e.cfg.MaxRounds)

	if err := e.registry.Create(game); err != nil {
		return nil, err
	}

	e.trackSession(ctx, playerID, model.PlayerSession{
		GameID:     gameID,
		PlayerName: playerName,
		IsHost:     true,
	})

	e.logger.Info("game_created", "game_id", gameID, "host_id", playerID)
	e.broadcastState(game)
	return game, nil
}

// HandleConnection: 접속을 영속 플레이어 ID에 바인딩한다.
// 이미 알려진 ID면 재접속으로 처리하고, 아니면 신규 합류 가드를 거친다.
func (e *Engine) HandleConnection(
	ctx context.Context,
	gameID, playerID, playerName string,
) (*ConnectionResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	game, ok := e.registry.Get(gameID)
	if !ok {
		return nil, ngerrors.GameNotFoundError{GameID: gameID}
	}

	if player, ok := game.FindPlayer(playerID); ok {
		return e.reconnectLocked(ctx, game, player, playerName), nil
	}

	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		return nil, ngerrors.MalformedInputError{Message: "player name is required"}
	}
	if len(game.Players) >= e.cfg.MaxPlayers {
		return nil, ngerrors.GameFullError{
			GameID:     gameID,
			MaxPlayers: e.cfg.MaxPlayers,
			Message:    e.messages.Get(messages.JoinGameFull),
		}
	}
	switch game.Phase {
	case model.PhasePlaying, model.PhaseValidation, model.PhaseLetterSelection:
		// 라운드 도중의 신규 합류는 허용하지 않는다
		return nil, ngerrors.GameInProgressError{
			GameID:  gameID,
			Message: e.messages.Get(messages.JoinInProgress),
		}
	}
	for _, p := range game.Players {
		if strings.EqualFold(p.Name, playerName) {
			return nil, ngerrors.DuplicateNameError{GameID: gameID, Name: playerName}
		}
	}

	player := model.NewPlayer(playerID, playerName, false)
	player.IsReady = true
	game.Players = append(game.Players, player)

	e.trackSession(ctx, playerID, model.PlayerSession{
		GameID:     gameID,
		PlayerName: playerName,
	})

	e.logger.Info("player_joined", "game_id", gameID, "player_id", playerID)
	e.broadcastState(game)
	return &ConnectionResult{Player: player, GameState: game}, nil
}

// reconnectLocked: 알려진 플레이어의 재접속을 처리한다. 뮤텍스를 잡은 채 호출된다.
func (e *Engine) reconnectLocked(
	ctx context.Context,
	game *model.Game,
	player *model.Player,
	playerName string,
) *ConnectionResult {
	player.Disconnected = false
	e.cancelEviction(game.ID, player.ID)

	playerName = strings.TrimSpace(playerName)
	if playerName != "" && playerName != player.Name {
		player.Name = playerName
	}

	e.trackSession(ctx, player.ID, model.PlayerSession{
		GameID:     game.ID,
		PlayerName: player.Name,
		IsHost:     player.IsHost,
	})

	e.logger.Info("player_reconnected", "game_id", game.ID, "player_id", player.ID)
	e.broadcastState(game)
	return &ConnectionResult{IsReconnection: true, Player: player, GameState: game}
}

// RejoinGame: 끊겼던 플레이어의 명시적 재합류. 알려진 ID가 아니면 실패한다.
func (e *Engine) RejoinGame(ctx context.Context, gameID, playerID string) (*ConnectionResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	game, ok := e.registry.Get(gameID)
	if !ok {
		return nil, ngerrors.GameNotFoundError{GameID: gameID}
	}
	player, ok := game.FindPlayer(playerID)
	if !ok {
		return nil, ngerrors.PlayerNotFoundError{GameID: gameID, PlayerID: playerID}
	}

	return e.reconnectLocked(ctx, game, player, ""), nil
}

// StartGame: 호스트가 로비를 끝내고 글자 선택 단계로 넘긴다.
func (e *Engine) StartGame(gameID, playerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	game, ok := e.registry.Get(gameID)
	if !ok {
		return ngerrors.GameNotFoundError{GameID: gameID}
	}
	host, ok := game.Host()
	if !ok || host.ID != playerID {
		return ngerrors.UnauthorizedError{PlayerID: playerID, Action: "start the game"}
	}
	if game.Phase != model.PhaseLobby {
		return ngerrors.InvalidPhaseError{
			GameID:   gameID,
			Current:  string(game.Phase),
			Expected: string(model.PhaseLobby),
		}
	}

	game.Phase = model.PhaseLetterSelection
	e.logger.Info("game_started", "game_id", gameID)
	e.broadcastState(game)
	return nil
}

// TransferHost: 호스트 권한을 다른 플레이어에게 넘긴다.
func (e *Engine) TransferHost(ctx context.Context, gameID, playerID, newHostID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	game, ok := e.registry.Get(gameID)
	if !ok {
		return ngerrors.GameNotFoundError{GameID: gameID}
	}
	host, ok := game.Host()
	if !ok || host.ID != playerID {
		return ngerrors.UnauthorizedError{PlayerID: playerID, Action: "transfer host title"}
	}
	newHost, ok := game.FindPlayer(newHostID)
	if !ok {
		return ngerrors.PlayerNotFoundError{GameID: gameID, PlayerID: newHostID}
	}
	if newHost.ID == host.ID {
		return nil
	}

	host.IsHost = false
	newHost.IsHost = true

	e.trackSession(ctx, host.ID, model.PlayerSession{
		GameID:     gameID,
		PlayerName: host.Name,
	})
	e.trackSession(ctx, newHost.ID, model.PlayerSession{
		GameID:     gameID,
		PlayerName: newHost.Name,
		IsHost:     true,
	})

	e.logger.Info("host_transferred", "game_id", gameID, "from", host.ID, "to", newHost.ID)
	e.broadcastState(game)
	e.broadcaster.BroadcastToGame(gameID, EventHostTransfer, map[string]string{"newHostId": newHostID})
	return nil
}

// RemovePlayer: 호스트가 다른 플레이어를 강제 퇴장시킨다. 호스트 자신은 제거할 수 없다.
func (e *Engine) RemovePlayer(ctx context.Context, gameID, playerID, targetID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	game, ok := e.registry.Get(gameID)
	if !ok {
		return ngerrors.GameNotFoundError{GameID: gameID}
	}
	host, ok := game.Host()
	if !ok || host.ID != playerID {
		return ngerrors.UnauthorizedError{PlayerID: playerID, Action: "remove players"}
	}
	target, ok := game.FindPlayer(targetID)
	if !ok {
		return ngerrors.PlayerNotFoundError{GameID: gameID, PlayerID: targetID}
	}
	if target.IsHost {
		return ngerrors.UnauthorizedError{PlayerID: playerID, Action: "remove the host"}
	}

	game.RemovePlayer(targetID)
	e.cancelEviction(gameID, targetID)
	e.deleteSession(ctx, targetID)

	e.broadcaster.SendToPlayer(gameID, targetID, EventPlayerRemoved, map[string]string{
		"message": e.messages.Get(messages.PlayerRemovedByHost),
	})
	e.broadcaster.EvictPlayer(gameID, targetID)

	e.logger.Info("player_removed", "game_id", gameID, "player_id", targetID)
	e.broadcastState(game)
	return nil
}
