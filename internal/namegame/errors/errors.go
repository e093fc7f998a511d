// Package errors: 이름 게임에 특화된 에러 타입들을 정의한다.
// 공통 에러 타입(RedisError 등)은 common/errors 패키지를 직접 사용한다.
package errors

import (
	"errors"
	"fmt"
)

// GameNotFoundError: 해당 ID의 게임이 레지스트리에 없을 때 발생하는 에러
type GameNotFoundError struct {
	GameID string
}

func (e GameNotFoundError) Error() string {
	return fmt.Sprintf("game not found: %s", e.GameID)
}

// PlayerNotFoundError: 게임 안에 해당 플레이어가 없을 때 발생하는 에러
type PlayerNotFoundError struct {
	GameID   string
	PlayerID string
}

func (e PlayerNotFoundError) Error() string {
	return fmt.Sprintf("player not found: game=%s player=%s", e.GameID, e.PlayerID)
}

// UnauthorizedError: 호스트 전용 동작을 일반 플레이어가 시도했거나
// 자기 답안에 투표하는 등 허용되지 않는 행동일 때 발생하는 에러
type UnauthorizedError struct {
	PlayerID string
	Action   string
}

func (e UnauthorizedError) Error() string {
	return fmt.Sprintf("player %s is not allowed to %s", e.PlayerID, e.Action)
}

// InvalidPhaseError: 현재 단계에서 허용되지 않는 동작일 때 발생하는 에러
type InvalidPhaseError struct {
	GameID   string
	Current  string
	Expected string
}

func (e InvalidPhaseError) Error() string {
	return fmt.Sprintf("invalid phase for game %s: current=%s expected=%s", e.GameID, e.Current, e.Expected)
}

// DuplicateGameError: 이미 존재하는 게임 ID로 생성을 시도할 때 발생하는 에러
type DuplicateGameError struct {
	GameID string
}

func (e DuplicateGameError) Error() string {
	return fmt.Sprintf("game already exists: %s", e.GameID)
}

// DuplicateNameError: 게임 내에서 이미 쓰이는 이름으로 합류할 때 발생하는 에러
type DuplicateNameError struct {
	GameID string
	Name   string
}

func (e DuplicateNameError) Error() string {
	return fmt.Sprintf("player name already taken: game=%s name=%s", e.GameID, e.Name)
}

// GameFullError: 최대 인원에 도달한 게임에 합류할 때 발생하는 에러.
// Message에는 사용자에게 그대로 보여줄 안내 문구가 담긴다.
type GameFullError struct {
	GameID     string
	MaxPlayers int
	Message    string
}

func (e GameFullError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("game is full: game=%s max=%d", e.GameID, e.MaxPlayers)
}

// GameInProgressError: 라운드가 진행 중인 게임에 새 플레이어가 합류할 때 발생하는 에러.
// Message에는 사용자에게 그대로 보여줄 안내 문구가 담긴다.
type GameInProgressError struct {
	GameID  string
	Message string
}

func (e GameInProgressError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("game already in progress: %s", e.GameID)
}

// LetterAlreadyUsedError: 이미 쓴 글자를 다시 고를 때 발생하는 에러
type LetterAlreadyUsedError struct {
	GameID string
	Letter string
}

func (e LetterAlreadyUsedError) Error() string {
	return fmt.Sprintf("letter already used: game=%s letter=%s", e.GameID, e.Letter)
}

// MalformedInputError: 필수 필드가 비었거나 형식이 틀린 요청일 때 발생하는 에러
type MalformedInputError struct {
	Message string
}

func (e MalformedInputError) Error() string { return e.Message }

// DictionaryError: 사전 API 호출이나 응답 해석이 실패했을 때 발생하는 에러.
// 사용자 잘못이 아니므로 휴리스틱 판정으로 대체된다.
type DictionaryError struct {
	Word string
	Err  error
}

func (e DictionaryError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("dictionary lookup failed: %s", e.Word)
	}
	return fmt.Sprintf("dictionary lookup failed for %q: %v", e.Word, e.Err)
}

func (e DictionaryError) Unwrap() error { return e.Err }

// IsExpectedUserBehavior: 사용자 입력에서 자연히 발생하는 에러인지 판별한다.
// 이런 에러는 서버 장애가 아니므로 낮은 수준으로만 기록한다.
func IsExpectedUserBehavior(err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.As(err, new(GameNotFoundError)):
		return true
	case errors.As(err, new(PlayerNotFoundError)):
		return true
	case errors.As(err, new(UnauthorizedError)):
		return true
	case errors.As(err, new(InvalidPhaseError)):
		return true
	case errors.As(err, new(DuplicateGameError)):
		return true
	case errors.As(err, new(DuplicateNameError)):
		return true
	case errors.As(err, new(GameFullError)):
		return true
	case errors.As(err, new(GameInProgressError)):
		return true
	case errors.As(err, new(LetterAlreadyUsedError)):
		return true
	case errors.As(err, new(MalformedInputError)):
		return true
	default:
		return false
	}
}
