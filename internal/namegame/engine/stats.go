package engine

import (
	"slices"
	"time"

	"github.com/ast4/namegame-go/internal/namegame/dictionary"
	"github.com/ast4/namegame-go/internal/namegame/model"
	"github.com/ast4/namegame-go/internal/namegame/pipeline"
)

// archiveTimeout: 게임 종료 후 아카이브 쓰기에 허용하는 시간
const archiveTimeout = 10 * time.Second

// updateSubmissionStats: 제출 한 건에서 파생 통계를 누적한다.
// 게임 로직은 이 값을 읽지 않으며 외부 노출 전용이다.
func (e *Engine) updateSubmissionStats(
	game *model.Game,
	player *model.Player,
	validated pipeline.PlayerSubmissions,
	submittedAt time.Time,
) {
	elapsed := submittedAt.Sub(game.RoundStartTime).Seconds()
	player.Stats.SubmissionTimes = append(player.Stats.SubmissionTimes, elapsed)
	if player.Stats.FastestSubmission == 0 || elapsed < player.Stats.FastestSubmission {
		player.Stats.FastestSubmission = elapsed
	}

	for category, sub := range validated {
		if category == model.CategoryNames || !sub.Valid() {
			continue
		}

		normalized := dictionary.Normalize(sub.Word)
		if !slices.Contains(player.Stats.AllSubmittedWords, normalized) {
			player.Stats.AllSubmittedWords = append(player.Stats.AllSubmittedWords, normalized)
		}

		if len(sub.Word) > len(player.Stats.LongestWord) {
			player.Stats.LongestWord = sub.Word
		}

		// 희귀 단어: 캐시에 없던 단어를 이번 라운드에 혼자만 낸 경우
		if !sub.Validation.FromCache && !rawWordDuplicated(game, player.ID, normalized) {
			player.Stats.RareWords++
		}
	}
}

// rawWordDuplicated: 다른 플레이어의 원시 제출에 같은 단어가 있는지 확인한다.
func rawWordDuplicated(game *model.Game, playerID, normalized string) bool {
	for otherID, subs := range game.Submissions {
		if otherID == playerID {
			continue
		}
		for _, word := range subs {
			if dictionary.Normalize(word) == normalized {
				return true
			}
		}
	}
	return false
}

// recountUniqueWords: 게임 전체 기준으로 고유 단어 수를 다시 센다.
// 한 번이라도 두 명 이상이 낸 단어는 누구의 고유 단어도 아니다.
func (e *Engine) recountUniqueWords(game *model.Game) {
	occurrences := make(map[string]int)
	for _, p := range game.Players {
		for _, word := range p.Stats.AllSubmittedWords {
			occurrences[word]++
		}
	}

	for _, p := range game.Players {
		unique := 0
		for _, word := range p.Stats.AllSubmittedWords {
			if occurrences[word] == 1 {
				unique++
			}
		}
		p.Stats.UniqueWords = unique
	}
}
