package engine

import (
	"context"
	"strings"
	"time"

	"github.com/ast4/namegame-go/internal/namegame/dictionary"
	ngerrors "github.com/ast4/namegame-go/internal/namegame/errors"
	"github.com/ast4/namegame-go/internal/namegame/model"
	"github.com/ast4/namegame-go/internal/namegame/pipeline"
)

// SelectLetter: 라운드 글자를 고르고 제출 단계를 연다.
// 결과 단계에서 호출되면 다음 라운드의 시작을 겸한다. 이미 쓴 글자는 거부된다.
func (e *Engine) SelectLetter(gameID, letter string) error {
	letter = strings.TrimSpace(letter)
	if letter == "" {
		return ngerrors.MalformedInputError{Message: "letter is required"}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	game, ok := e.registry.Get(gameID)
	if !ok {
		return ngerrors.GameNotFoundError{GameID: gameID}
	}

	switch game.Phase {
	case model.PhaseLetterSelection:
	case model.PhaseResults:
		if game.CurrentRound >= game.MaxRounds {
			return ngerrors.InvalidPhaseError{
				GameID:   gameID,
				Current:  string(game.Phase),
				Expected: string(model.PhaseLetterSelection),
			}
		}
	default:
		return ngerrors.InvalidPhaseError{
			GameID:   gameID,
			Current:  string(game.Phase),
			Expected: string(model.PhaseLetterSelection),
		}
	}

	if game.IsLetterUsed(letter) {
		return ngerrors.LetterAlreadyUsedError{GameID: gameID, Letter: letter}
	}

	for _, p := range game.Players {
		p.IsReady = true
		p.HasSubmitted = false
	}
	game.UsedLetters = append(game.UsedLetters, letter)
	game.CurrentLetter = letter
	game.Phase = model.PhasePlaying
	game.RoundStartTime = time.Now()
	game.Submissions = make(map[string]map[string]string)

	// 건너뛴 라운드의 잔여 판정 결과가 남아 있을 수 있다
	e.pipeline.ClearGame(gameID)
	e.pipeline.SetCurrentLetter(gameID, letter)

	e.logger.Info("letter_selected", "game_id", gameID, "letter", letter)
	e.broadcaster.BroadcastToGame(gameID, EventTimerUpdate, map[string]int{
		"seconds": int(e.cfg.RoundTimer.Seconds()),
	})
	e.broadcastState(game)
	return nil
}

// SubmitWords: 플레이어의 원시 답안을 접수하고 사전 판정을 기다린다.
// 판정 대기는 중단 지점이므로, 재개 후에는 게임을 다시 조회하고
// 그 사이 라운드가 끝났으면 결과를 버린다.
func (e *Engine) SubmitWords(
	ctx context.Context,
	gameID, playerID string,
	submissions map[string]string,
) error {
	e.mu.Lock()

	game, ok := e.registry.Get(gameID)
	if !ok {
		e.mu.Unlock()
		return ngerrors.GameNotFoundError{GameID: gameID}
	}
	player, ok := game.FindPlayer(playerID)
	if !ok {
		e.mu.Unlock()
		return ngerrors.PlayerNotFoundError{GameID: gameID, PlayerID: playerID}
	}
	if game.Phase != model.PhasePlaying {
		e.mu.Unlock()
		return ngerrors.InvalidPhaseError{
			GameID:   gameID,
			Current:  string(game.Phase),
			Expected: string(model.PhasePlaying),
		}
	}

	round := game.CurrentRound
	submittedAt := time.Now()
	game.Submissions[playerID] = submissions
	player.HasSubmitted = true

	e.mu.Unlock()

	// 중단 지점: 사전 판정 대기. 뮤텍스는 이미 풀려 있다.
	validated, err := e.pipeline.QueueSubmission(ctx, gameID, playerID, submissions)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// 재개 후 최신 상태를 다시 조회한다
	game, ok = e.registry.Get(gameID)
	if !ok || game.CurrentRound != round || game.Phase != model.PhasePlaying {
		// 대기 중에 라운드가 끝났다. 결과를 버리고 다음 라운드 채점을 오염시키지 않게 지운다.
		e.pipeline.DropSubmission(gameID, playerID)
		e.logger.Debug("stale_submission_discarded", "game_id", gameID, "player_id", playerID)
		return nil
	}
	player, ok = game.FindPlayer(playerID)
	if !ok {
		return nil
	}

	e.updateSubmissionStats(game, player, validated, submittedAt)

	if game.AllSubmitted() && e.resultsReadyLocked(game) {
		e.finishRoundLocked(game)
	}
	return nil
}

// resultsReadyLocked: 제출을 마친 모든 접속 플레이어의 판정 결과가 준비되었는지 확인한다.
func (e *Engine) resultsReadyLocked(game *model.Game) bool {
	results, ok := e.pipeline.GetGameResults(game.ID)
	if !ok {
		return false
	}
	for _, p := range game.Players {
		if p.Disconnected || !p.HasSubmitted {
			continue
		}
		if _, ok := results[p.ID]; !ok {
			return false
		}
	}
	return true
}

// TimerEnd: 호스트가 제출 단계를 끝내고 라운드를 채점한다.
func (e *Engine) TimerEnd(gameID, playerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	game, ok := e.registry.Get(gameID)
	if !ok {
		return ngerrors.GameNotFoundError{GameID: gameID}
	}
	if game.Phase != model.PhasePlaying {
		return ngerrors.InvalidPhaseError{
			GameID:   gameID,
			Current:  string(game.Phase),
			Expected: string(model.PhasePlaying),
		}
	}
	host, ok := game.Host()
	if !ok || host.ID != playerID {
		return ngerrors.UnauthorizedError{PlayerID: playerID, Action: "end the round timer"}
	}

	e.finishRoundLocked(game)
	return nil
}

// finishRoundLocked: 라운드를 채점하고 검증 단계로 넘긴다. 뮤텍스를 잡은 채 호출된다.
// 전원 제출로 강제된 경우와 호스트 타이머 종료가 같은 경로를 쓴다.
func (e *Engine) finishRoundLocked(game *model.Game) {
	results, ok := e.pipeline.GetGameResults(game.ID)
	if !ok {
		// 아무도 제출하지 않은 라운드는 채점 없이 다음 라운드로 넘어간다
		game.CurrentRound++
		if game.CurrentRound >= game.MaxRounds {
			e.finishGameLocked(game)
		} else {
			game.Phase = model.PhaseLetterSelection
			game.NextTurnID = game.Players[game.CurrentRound%len(game.Players)].ID
		}
		e.logger.Info("round_skipped_no_submissions", "game_id", game.ID)
		e.broadcastState(game)
		return
	}

	scored := e.scoreRound(game, results)
	game.RoundResults = append(game.RoundResults, scored)
	game.VoteLength = (len(game.Players) - 1) * len(game.NameValidations)
	game.Phase = model.PhaseValidation
	game.Submissions = make(map[string]map[string]string)
	e.pipeline.ClearGame(game.ID)

	e.logger.Info("round_scored",
		"game_id", game.ID,
		"letter", scored.Letter,
		"name_validations", len(game.NameValidations),
		"vote_length", game.VoteLength,
	)
	e.broadcastState(game)

	if game.VoteLength == 0 {
		// 투표할 이름이 없으면 검증 단계를 그 자리에서 끝낸다
		e.completeValidationLocked(game)
	}
}

// scoreRound: 이름이 아닌 카테고리를 채점하고 이름 답안을 투표 대상으로 쌓는다.
// 유효하고 유일하면 10점, 유효하지만 중복이면 5점, 무효는 0점이다.
func (e *Engine) scoreRound(game *model.Game, results validatedResults) model.RoundResult {
	game.NameValidations = nil

	// 중복 판정을 위해 카테고리별로 정규화된 단어를 모은다
	wordsByCategory := make(map[string][]string)
	for _, subs := range results {
		for category, sub := range subs {
			if strings.TrimSpace(sub.Word) == "" {
				continue
			}
			wordsByCategory[category] = append(wordsByCategory[category], dictionary.Normalize(sub.Word))
		}
	}

	scored := model.RoundResult{
		Letter: game.CurrentLetter,
		Scores: make(map[string]int),
	}

	for playerID, subs := range results {
		player, hasPlayer := game.FindPlayer(playerID)
		total := 0

		for category, sub := range subs {
			extract := sub.Validation.Extract
			if extract == "" && !sub.IsStartValid {
				extract = pipeline.StartLetterNote
			}

			if category == model.CategoryNames {
				opinion := model.FinalResultInvalid
				if sub.Validation.IsValid {
					opinion = model.FinalResultValid
				}
				game.NameValidations = append(game.NameValidations, &model.NameValidation{
					Word:      sub.Word,
					PlayerID:  playerID,
					Votes:     make(map[string]model.Vote),
					AIOpinion: opinion,
					Extract:   extract,
				})
				continue
			}

			isValid := sub.Valid()
			isDuplicate := wordOccurrences(wordsByCategory[category], sub.Word) > 1

			points := model.PointsInvalid
			if isValid {
				if isDuplicate {
					points = model.PointsDuplicate
				} else {
					points = model.PointsUnique
					if hasPlayer {
						player.Stats.UniqueWords++
					}
				}
			}
			total += points

			scored.Submissions = append(scored.Submissions, model.RoundSubmission{
				PlayerID: playerID,
				Category: category,
				Word:     sub.Word,
				IsValid:  isValid,
				Points:   points,
				Extract:  extract,
			})
		}

		scored.Scores[playerID] = total
		if hasPlayer {
			player.Score += total
		}
	}

	return scored
}

// wordOccurrences: 정규화 비교로 같은 단어의 수를 센다.
func wordOccurrences(words []string, word string) int {
	normalized := dictionary.Normalize(word)
	n := 0
	for _, w := range words {
		if w == normalized {
			n++
		}
	}
	return n
}
