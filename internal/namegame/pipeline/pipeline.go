// Package pipeline 은 라운드마다 플레이어의 원시 답안을 받아
// 사전 판정을 거친 제출 집합으로 바꾼다. 판정 대기 중에도 다른 플레이어의
// 제출 기록을 막지 않으며, 게임별 상태는 라운드가 끝날 때 비워진다.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/ast4/namegame-go/internal/namegame/dictionary"
	ngerrors "github.com/ast4/namegame-go/internal/namegame/errors"
)

// StartLetterNote: 시작 글자가 틀린 단어에 남기는 고정 설명
const StartLetterNote = "Word does not start with the correct letter"

// Validator: 단어 판정 능력. dictionary.Client가 구현한다.
type Validator interface {
	Validate(ctx context.Context, word, category string) (dictionary.Result, error)
}

// ValidatedWord: 판정이 끝난 단어 하나
type ValidatedWord struct {
	Word         string            `json:"word"`
	Validation   dictionary.Result `json:"validation"`
	IsStartValid bool              `json:"isStartValid"`
}

// Valid: 단어가 유효 판정인지 확인한다. 시작 글자와 사전 판정을 모두 통과해야 한다.
func (v ValidatedWord) Valid() bool {
	return v.IsStartValid && v.Validation.IsValid
}

// PlayerSubmissions: 카테고리별 판정 결과
type PlayerSubmissions map[string]ValidatedWord

// Pipeline 은 라운드별 제출 답안의 사전 판정 결과를 모은다.
type Pipeline struct {
	mu        sync.Mutex
	validator Validator
	logger    *slog.Logger

	letters map[string]string
	results map[string]map[string]PlayerSubmissions
}

// New: 새 파이프라인을 생성한다.
func New(validator Validator, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		validator: validator,
		logger:    logger,
		letters:   make(map[string]string),
		results:   make(map[string]map[string]PlayerSubmissions),
	}
}

// SetCurrentLetter: 이번 라운드의 시작 글자를 기록한다.
func (p *Pipeline) SetCurrentLetter(gameID, letter string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.letters[gameID] = letter
}

// QueueSubmission: 한 플레이어의 원시 답안을 판정하고 결과를 누적한다.
// 같은 플레이어가 다시 제출하면 마지막 제출이 이전 것을 덮어쓴다.
func (p *Pipeline) QueueSubmission(
	ctx context.Context,
	gameID, playerID string,
	raw map[string]string,
) (PlayerSubmissions, error) {
	p.mu.Lock()
	letter := p.letters[gameID]
	p.mu.Unlock()

	validated := make(PlayerSubmissions, len(raw))
	for category, word := range raw {
		validated[category] = p.validateWord(ctx, letter, word, category)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.results[gameID] == nil {
		p.results[gameID] = make(map[string]PlayerSubmissions)
	}
	p.results[gameID][playerID] = validated

	return validated, nil
}

func (p *Pipeline) validateWord(ctx context.Context, letter, word, category string) ValidatedWord {
	trimmed := strings.TrimSpace(word)
	if trimmed == "" {
		return ValidatedWord{Word: word}
	}

	if !startsWithLetter(trimmed, letter) {
		// 시작 글자가 틀리면 원격 판정 없이 바로 무효 처리한다
		return ValidatedWord{
			Word:       word,
			Validation: dictionary.Result{Extract: StartLetterNote},
		}
	}

	result, err := p.validator.Validate(ctx, trimmed, category)
	if err != nil {
		// 원격 판정 실패는 라운드를 막지 않고 관대한 로컬 판정으로 대체한다
		var dictErr ngerrors.DictionaryError
		if !errors.As(err, &dictErr) {
			p.logger.Warn("dictionary_validate_failed", "word", trimmed, "error", err)
		} else {
			p.logger.Warn("dictionary_unavailable", "word", dictErr.Word, "error", dictErr.Err)
		}
		result = dictionary.Result{IsValid: dictionary.IsReasonableWord(dictionary.Normalize(trimmed))}
	}

	return ValidatedWord{
		Word:         word,
		Validation:   result,
		IsStartValid: true,
	}
}

// startsWithLetter: 첫 글자를 룬 단위로 비교한다. 멀티바이트 글자도 다룬다.
func startsWithLetter(word, letter string) bool {
	if word == "" || letter == "" {
		return false
	}
	wr, _ := utf8.DecodeRuneInString(word)
	lr, _ := utf8.DecodeRuneInString(letter)
	return unicode.ToLower(wr) == unicode.ToLower(lr)
}

// GetGameResults: 이번 라운드에 제출한 모든 플레이어의 판정 결과를 반환한다.
// 아무도 제출하지 않은 경우 두 번째 반환값이 false이다.
func (p *Pipeline) GetGameResults(gameID string) (map[string]PlayerSubmissions, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	results, ok := p.results[gameID]
	if !ok || len(results) == 0 {
		return nil, false
	}

	// 호출자가 이후의 제출과 경합하지 않도록 복사본을 내보낸다
	out := make(map[string]PlayerSubmissions, len(results))
	for playerID, subs := range results {
		out[playerID] = subs
	}
	return out, true
}

// DropSubmission: 특정 플레이어의 판정 결과만 제거한다. 라운드가 지나 무효가 된 제출에 쓴다.
func (p *Pipeline) DropSubmission(gameID, playerID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if results, ok := p.results[gameID]; ok {
		delete(results, playerID)
	}
}

// ClearGame: 게임의 라운드 누적 상태를 모두 제거한다. 라운드 결과 확정 시 호출된다.
func (p *Pipeline) ClearGame(gameID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.letters, gameID)
	delete(p.results, gameID)
}
