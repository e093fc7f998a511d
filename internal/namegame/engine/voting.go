package engine

import (
	"context"
	"time"

	ngerrors "github.com/ast4/namegame-go/internal/namegame/errors"
	"github.com/ast4/namegame-go/internal/namegame/messages"
	"github.com/ast4/namegame-go/internal/namegame/model"
)

// VoteOnName: 이름 답안에 대한 투표를 기록한다.
// 같은 플레이어의 재투표는 이전 표를 덮어쓴다. 전체 표가 voteLength에 닿으면
// 검증을 완료한다.
func (e *Engine) VoteOnName(gameID, voterID, votedPlayerID string, vote model.Vote) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	game, ok := e.registry.Get(gameID)
	if !ok {
		return ngerrors.GameNotFoundError{GameID: gameID}
	}
	if game.Phase != model.PhaseValidation {
		return ngerrors.InvalidPhaseError{
			GameID:   gameID,
			Current:  string(game.Phase),
			Expected: string(model.PhaseValidation),
		}
	}

	var target *model.NameValidation
	for _, nv := range game.NameValidations {
		if nv.PlayerID == votedPlayerID {
			target = nv
			break
		}
	}
	if target == nil {
		return ngerrors.PlayerNotFoundError{GameID: gameID, PlayerID: votedPlayerID}
	}
	if target.PlayerID == voterID {
		return ngerrors.UnauthorizedError{PlayerID: voterID, Action: "vote on their own word"}
	}

	target.Votes[voterID] = vote
	e.logger.Debug("vote_recorded",
		"game_id", gameID,
		"word", target.Word,
		"voter_id", voterID,
		"vote", string(vote),
	)
	e.broadcastState(game)

	if e.totalVotesLocked(game) >= game.VoteLength {
		e.completeValidationLocked(game)
	}
	return nil
}

// totalVotesLocked: 이번 라운드의 모든 이름에 대해 던져진 표의 합
func (e *Engine) totalVotesLocked(game *model.Game) int {
	total := 0
	for _, nv := range game.NameValidations {
		total += len(nv.Votes)
	}
	return total
}

// InterruptVoting: 호스트가 투표를 조기 종료한다.
// 아직 투표하지 않은 플레이어의 표는 "no"로 합성된 뒤 완료가 진행된다.
func (e *Engine) InterruptVoting(gameID, playerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	game, ok := e.registry.Get(gameID)
	if !ok {
		return ngerrors.GameNotFoundError{GameID: gameID}
	}
	host, ok := game.Host()
	if !ok || host.ID != playerID {
		return ngerrors.UnauthorizedError{PlayerID: playerID, Action: "interrupt voting"}
	}
	if game.Phase != model.PhaseValidation {
		return ngerrors.InvalidPhaseError{
			GameID:   gameID,
			Current:  string(game.Phase),
			Expected: string(model.PhaseValidation),
		}
	}

	for _, nv := range game.NameValidations {
		for _, p := range game.Players {
			if p.ID == nv.PlayerID {
				continue
			}
			if _, voted := nv.Votes[p.ID]; !voted {
				nv.Votes[p.ID] = model.VoteNo
			}
		}
	}

	e.logger.Info("voting_interrupted", "game_id", gameID)
	e.completeValidationLocked(game)
	e.broadcaster.BroadcastToGame(gameID, EventVotingInterrupted, map[string]string{
		"message": e.messages.Get(messages.VotingInterrupted),
	})
	return nil
}

// completeValidationLocked: 이름 투표를 확정하고 라운드를 결과 단계로 넘긴다.
// 뮤텍스를 잡은 채 호출되며, 단계 가드 덕에 라운드당 정확히 한 번만 실행된다.
func (e *Engine) completeValidationLocked(game *model.Game) {
	if game.Phase != model.PhaseValidation {
		return
	}
	if len(game.RoundResults) == 0 {
		return
	}
	roundResult := &game.RoundResults[len(game.RoundResults)-1]

	for _, nv := range game.NameValidations {
		yes, no := nv.YesNoCounts()
		if yes > no {
			nv.FinalResult = model.FinalResultValid
		} else {
			nv.FinalResult = model.FinalResultInvalid
		}

		points := model.PointsInvalid
		if nv.FinalResult == model.FinalResultValid {
			points = model.PointsUnique
			if player, ok := game.FindPlayer(nv.PlayerID); ok {
				player.Score += points
			}
			roundResult.Scores[nv.PlayerID] += points
		}

		roundResult.Submissions = append(roundResult.Submissions, model.RoundSubmission{
			PlayerID: nv.PlayerID,
			Category: model.CategoryNames,
			Word:     nv.Word,
			IsValid:  nv.FinalResult == model.FinalResultValid,
			Points:   points,
		})
	}

	game.CurrentRound++
	if game.CurrentRound >= game.MaxRounds {
		e.finishGameLocked(game)
	} else {
		game.Phase = model.PhaseResults
		game.NextTurnID = game.Players[game.CurrentRound%len(game.Players)].ID
	}

	// 클라이언트가 점수를 먼저 그릴 수 있도록 성취 통계 전에 한 번 내보낸다
	e.broadcastState(game)

	e.applyPerfectRoundStats(game, roundResult)
	e.broadcastState(game)
}

// applyPerfectRoundStats: 라운드 최대 점수를 달성한 플레이어의 통계를 올린다.
func (e *Engine) applyPerfectRoundStats(game *model.Game, roundResult *model.RoundResult) {
	maxPossible := model.PointsUnique * len(game.SelectedCategories)
	if maxPossible == 0 {
		return
	}
	for playerID, score := range roundResult.Scores {
		if score != maxPossible {
			continue
		}
		if player, ok := game.FindPlayer(playerID); ok {
			player.Stats.PerfectRounds++
		}
	}
}

// finishGameLocked: 마지막 라운드 이후 게임을 종료 상태로 만든다.
// 전 게임 기준의 고유 단어 수를 다시 세고, 설정된 경우 아카이브에 기록한다.
func (e *Engine) finishGameLocked(game *model.Game) {
	e.recountUniqueWords(game)
	game.Phase = model.PhaseFinished
	game.FinishedAt = time.Now()

	e.logger.Info("game_finished", "game_id", game.ID, "rounds", game.CurrentRound)

	if e.archiver != nil {
		// 아카이브 쓰기는 뮤텍스 밖에서 진행한다. 실패해도 게임 종료에는 영향이 없다.
		// 퇴출 타이머가 종료 후에도 플레이어 목록을 고칠 수 있으므로
		// 뮤텍스를 잡은 지금 깊은 복사본을 떠 둔다.
		snapshot := *game
		snapshot.Players = make([]*model.Player, 0, len(game.Players))
		for _, p := range game.Players {
			cp := *p
			snapshot.Players = append(snapshot.Players, &cp)
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
			defer cancel()
			if err := e.archiver.ArchiveGame(ctx, &snapshot); err != nil {
				e.logger.Error("game_archive_failed", "game_id", snapshot.ID, "error", err)
			}
		}()
	}
}
