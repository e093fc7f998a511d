package hub

import (
	"context"

	json "github.com/goccy/go-json"

	ngerrors "github.com/ast4/namegame-go/internal/namegame/errors"
	"github.com/ast4/namegame-go/internal/namegame/model"
)

// 인바운드 이벤트 타입
const (
	eventCreateGame   = "createGame"
	eventJoinGame     = "joinGame"
	eventRejoinGame   = "rejoinGame"
	eventStartGame    = "startGame"
	eventSelectLetter = "selectLetter"
	eventSubmitWords  = "submitWords"
	eventTimerEnd     = "timerEnd"
	eventVoteOnName   = "voteOnName"
	eventInterrupt    = "interruptVoting"
	eventTransferHost = "transferHostTitle"
	eventRemovePlayer = "removePlayer"
	eventChatMessage  = "chatMessage"
)

type gamePayload struct {
	GameID     string   `json:"gameId"`
	PlayerName string   `json:"playerName"`
	Categories []string `json:"categories"`
}

type letterPayload struct {
	Letter string `json:"letter"`
}

type wordsPayload struct {
	Words map[string]string `json:"words"`
}

type votePayload struct {
	VotedPlayer string `json:"votedPlayer"`
	Vote        string `json:"vote"`
}

type hostPayload struct {
	NewHostID string `json:"newHostId"`
}

type targetPayload struct {
	PlayerID string `json:"playerId"`
}

type chatPayload struct {
	Text string `json:"text"`
}

// dispatch: 인바운드 이벤트를 엔진 호출로 변환한다.
// submitWords는 사전 판정을 기다리므로 별도 고루틴에서 처리해
// 같은 연결의 후속 이벤트를 막지 않는다.
func (h *Hub) dispatch(c *client, env envelope) {
	ctx := context.Background()

	switch env.Type {
	case eventCreateGame:
		var p gamePayload
		if !c.decode(env, &p) {
			return
		}
		name := p.PlayerName
		if name == "" {
			name = c.playerName
		}
		game, err := h.engine.CreateGame(ctx, p.GameID, c.playerID, name, p.Categories)
		if err != nil {
			c.fail(env, err)
			return
		}
		h.bind(c, game.ID)
		c.sendAck(env.AckID, map[string]any{"success": true, "gameId": game.ID})
		h.sendGameState(c)

	case eventJoinGame:
		var p gamePayload
		if !c.decode(env, &p) {
			return
		}
		gameID := p.GameID
		if gameID == "" {
			gameID = c.gameID
		}
		name := p.PlayerName
		if name == "" {
			name = c.playerName
		}
		result, err := h.engine.HandleConnection(ctx, gameID, c.playerID, name)
		if err != nil {
			c.fail(env, err)
			return
		}
		h.bind(c, gameID)
		c.sendAck(env.AckID, map[string]any{
			"success":        true,
			"isReconnection": result.IsReconnection,
		})
		h.sendGameState(c)

	case eventRejoinGame:
		var p gamePayload
		if !c.decode(env, &p) {
			return
		}
		gameID := p.GameID
		if gameID == "" {
			gameID = c.gameID
		}
		result, err := h.engine.RejoinGame(ctx, gameID, c.playerID)
		if err != nil {
			c.fail(env, err)
			return
		}
		h.bind(c, gameID)
		c.sendAck(env.AckID, map[string]any{
			"success":        true,
			"isReconnection": result.IsReconnection,
		})
		h.sendGameState(c)

	case eventStartGame:
		c.ackOrFail(env, h.engine.StartGame(c.gameID, c.playerID))

	case eventSelectLetter:
		var p letterPayload
		if !c.decode(env, &p) {
			return
		}
		c.ackOrFail(env, h.engine.SelectLetter(c.gameID, p.Letter))

	case eventSubmitWords:
		var p wordsPayload
		if !c.decode(env, &p) {
			return
		}
		// 이후의 bind가 c.gameID를 바꿀 수 있으므로 지금 값을 복사해 둔다
		gameID, playerID := c.gameID, c.playerID
		go func() {
			c.ackOrFail(env, h.engine.SubmitWords(ctx, gameID, playerID, p.Words))
		}()

	case eventTimerEnd:
		c.ackOrFail(env, h.engine.TimerEnd(c.gameID, c.playerID))

	case eventVoteOnName:
		var p votePayload
		if !c.decode(env, &p) {
			return
		}
		vote, err := model.ParseVote(p.Vote)
		if err != nil {
			c.fail(env, err)
			return
		}
		c.ackOrFail(env, h.engine.VoteOnName(c.gameID, c.playerID, p.VotedPlayer, vote))

	case eventInterrupt:
		c.ackOrFail(env, h.engine.InterruptVoting(c.gameID, c.playerID))

	case eventTransferHost:
		var p hostPayload
		if !c.decode(env, &p) {
			return
		}
		c.ackOrFail(env, h.engine.TransferHost(ctx, c.gameID, c.playerID, p.NewHostID))

	case eventRemovePlayer:
		var p targetPayload
		if !c.decode(env, &p) {
			return
		}
		c.ackOrFail(env, h.engine.RemovePlayer(ctx, c.gameID, c.playerID, p.PlayerID))

	case eventChatMessage:
		var p chatPayload
		if !c.decode(env, &p) {
			return
		}
		c.ackOrFail(env, h.engine.HandleChatMessage(c.gameID, c.playerID, c.playerName, p.Text))

	default:
		h.logger.Debug("unknown_event", "type", env.Type, "player_id", c.playerID)
		c.sendError("unknown event type: " + env.Type)
	}
}

// decode: 페이로드를 풀고 실패 시 오류를 돌려준다.
func (c *client) decode(env envelope, out any) bool {
	if len(env.Payload) == 0 {
		return true
	}
	if err := json.Unmarshal(env.Payload, out); err != nil {
		c.fail(env, ngerrors.MalformedInputError{Message: "malformed payload"})
		return false
	}
	return true
}

// ackOrFail: 성공이면 빈 ack, 실패면 오류 응답을 보낸다.
func (c *client) ackOrFail(env envelope, err error) {
	if err != nil {
		c.fail(env, err)
		return
	}
	c.sendAck(env.AckID, map[string]any{"success": true})
}

// fail: 실패 ack와 error 이벤트를 보낸 연결에만 돌려준다.
// 예상 가능한 사용자 행동은 조용히, 나머지는 경고로 남긴다.
func (c *client) fail(env envelope, err error) {
	if ngerrors.IsExpectedUserBehavior(err) {
		c.hub.logger.Debug("event_rejected",
			"type", env.Type, "player_id", c.playerID, "reason", err)
	} else {
		c.hub.logger.Warn("event_failed",
			"type", env.Type, "player_id", c.playerID, "error", err)
	}
	c.sendAck(env.AckID, map[string]any{"success": false, "message": err.Error()})
	c.sendError(err.Error())
}
