package model

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Phase: 게임의 라운드 생명주기 단계
type Phase string

// Phase 상수 목록.
const (
	PhaseLobby           Phase = "lobby"
	PhaseLetterSelection Phase = "letter-selection"
	PhasePlaying         Phase = "playing"
	PhaseValidation      Phase = "validation"
	PhaseResults         Phase = "results"
	PhaseFinished        Phase = "finished"
)

// CategoryNames: 또래 투표로 판정되는 이름 카테고리 식별자
const CategoryNames = "names"

// 라운드 채점 점수.
const (
	PointsInvalid   = 0
	PointsDuplicate = 5
	PointsUnique    = 10
)

// Vote: 이름 단어에 대한 플레이어 투표 값
type Vote string

// Vote 상수 목록.
const (
	VoteYes Vote = "yes"
	VoteNo  Vote = "no"
	VoteIDK Vote = "idk"
)

// ParseVote: 문자열을 Vote로 변환한다.
func ParseVote(input string) (Vote, error) {
	lower := strings.ToLower(strings.TrimSpace(input))
	switch Vote(lower) {
	case VoteYes, VoteNo, VoteIDK:
		return Vote(lower), nil
	default:
		return "", fmt.Errorf("unknown vote value: %q", input)
	}
}

// FinalResult 값. 빈 문자열은 아직 판정되지 않은 상태를 뜻한다.
const (
	FinalResultValid   = "valid"
	FinalResultInvalid = "invalid"
)

// PlayerStats: 게임 로직이 읽지 않는 파생 통계 누적기. 외부 노출 전용이다.
type PlayerStats struct {
	UniqueWords       int       `json:"uniqueWords"`
	FastestSubmission float64   `json:"fastestSubmission"`
	LongestWord       string    `json:"longestWord"`
	PerfectRounds     int       `json:"perfectRounds"`
	RareWords         int       `json:"rareWords"`
	SubmissionTimes   []float64 `json:"submissionTimes,omitempty"`
	AllSubmittedWords []string  `json:"allSubmittedWords,omitempty"`
}

// Player: 게임 참가자. ID는 재접속 간에도 유지되는 영속 식별자이다.
type Player struct {
	ID           string      `json:"id"`
	ConnID       string      `json:"-"`
	Name         string      `json:"name"`
	Score        int         `json:"score"`
	IsHost       bool        `json:"isHost"`
	IsReady      bool        `json:"isReady"`
	HasSubmitted bool        `json:"hasSubmitted"`
	Disconnected bool        `json:"disconnected"`
	Stats        PlayerStats `json:"stats"`
}

// NewPlayer: 새 플레이어를 생성한다.
func NewPlayer(id, name string, isHost bool) *Player {
	return &Player{
		ID:     id,
		Name:   name,
		IsHost: isHost,
	}
}

// NameValidation: 또래 투표를 기다리는 이름 카테고리 답안.
// 라운드마다 새로 만들어지고 라운드 종료와 함께 폐기된다.
type NameValidation struct {
	Word        string          `json:"word"`
	PlayerID    string          `json:"playerId"`
	Votes       map[string]Vote `json:"votes"`
	AIOpinion   string          `json:"aiOpinion"`
	FinalResult string          `json:"finalResult"`
	Extract     string          `json:"extract,omitempty"`
}

// YesNoCounts: 현재까지 집계된 yes/no 표 수를 반환한다. idk는 어느 쪽에도 집계되지 않는다.
func (nv *NameValidation) YesNoCounts() (yes int, no int) {
	for _, v := range nv.Votes {
		switch v {
		case VoteYes:
			yes++
		case VoteNo:
			no++
		}
	}
	return yes, no
}

// RoundSubmission: 라운드 결과에 기록되는 단어 하나의 채점 내역
type RoundSubmission struct {
	PlayerID string `json:"playerId"`
	Category string `json:"category"`
	Word     string `json:"word"`
	IsValid  bool   `json:"isValid"`
	Points   int    `json:"points"`
	Extract  string `json:"extract,omitempty"`
}

// RoundResult: 완료된 라운드 하나의 기록. roundResults에 추가된 뒤에는 불변이다.
type RoundResult struct {
	Letter      string            `json:"letter"`
	Submissions []RoundSubmission `json:"submissions"`
	Scores      map[string]int    `json:"scores"`
}

// ChatEntry: 게임 그룹에 중계된 채팅 메시지
type ChatEntry struct {
	ID         string    `json:"id"`
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Text       string    `json:"text"`
	SentAt     time.Time `json:"sentAt"`
}

// Game: 게임 한 판의 전체 상태. Registry가 소유하며 엔진을 통해서만 변경된다.
type Game struct {
	ID                 string                       `json:"id"`
	Phase              Phase                        `json:"phase"`
	Players            []*Player                    `json:"players"`
	Categories         []string                     `json:"categories"`
	SelectedCategories []string                     `json:"selectedCategories"`
	UsedLetters        []string                     `json:"usedLetters"`
	CurrentRound       int                          `json:"currentRound"`
	MaxRounds          int                          `json:"maxRounds"`
	CurrentLetter      string                       `json:"currentLetter"`
	RoundStartTime     time.Time                    `json:"roundStartTime"`
	Submissions        map[string]map[string]string `json:"-"`
	NameValidations    []*NameValidation            `json:"nameValidations,omitempty"`
	RoundResults       []RoundResult                `json:"roundResults"`
	VoteLength         int                          `json:"voteLength"`
	NextTurnID         string                       `json:"nextTurn,omitempty"`
	Messages           []ChatEntry                  `json:"-"`
	CreatedAt          time.Time                    `json:"createdAt"`
	FinishedAt         time.Time                    `json:"finishedAt"`
}

// NewGame: 호스트 한 명으로 새 게임을 생성한다.
func NewGame(id string, host *Player, categories []string, maxRounds int) *Game {
	return &Game{
		ID:                 id,
		Phase:              PhaseLobby,
		Players:            []*Player{host},
		Categories:         slices.Clone(categories),
		SelectedCategories: slices.Clone(categories),
		Submissions:        make(map[string]map[string]string),
		MaxRounds:          maxRounds,
		CreatedAt:          time.Now(),
	}
}

// FindPlayer: 플레이어 ID로 참가자를 찾는다.
func (g *Game) FindPlayer(playerID string) (*Player, bool) {
	for _, p := range g.Players {
		if p.ID == playerID {
			return p, true
		}
	}
	return nil, false
}

// Host: 현재 호스트를 반환한다.
func (g *Game) Host() (*Player, bool) {
	for _, p := range g.Players {
		if p.IsHost {
			return p, true
		}
	}
	return nil, false
}

// IsLetterUsed: 해당 글자가 이미 사용되었는지 확인한다. 대소문자를 구분하지 않는다.
func (g *Game) IsLetterUsed(letter string) bool {
	for _, used := range g.UsedLetters {
		if strings.EqualFold(used, letter) {
			return true
		}
	}
	return false
}

// AllSubmitted: 접속 중인 모든 플레이어가 답안을 제출했는지 확인한다.
func (g *Game) AllSubmitted() bool {
	submitted := false
	for _, p := range g.Players {
		if p.Disconnected {
			continue
		}
		if !p.HasSubmitted {
			return false
		}
		submitted = true
	}
	return submitted
}

// ConnectedCount: 접속 중인 플레이어 수를 반환한다.
func (g *Game) ConnectedCount() int {
	n := 0
	for _, p := range g.Players {
		if !p.Disconnected {
			n++
		}
	}
	return n
}

// RemovePlayer: 플레이어를 목록에서 제거한다. 제거 여부를 반환한다.
func (g *Game) RemovePlayer(playerID string) bool {
	for i, p := range g.Players {
		if p.ID == playerID {
			g.Players = slices.Delete(g.Players, i, i+1)
			return true
		}
	}
	return false
}

// PlayerSession: 영속 플레이어 ID와 현재 게임의 바인딩. Session Store가 소유한다.
type PlayerSession struct {
	GameID     string    `json:"gameId"`
	PlayerName string    `json:"playerName"`
	IsHost     bool      `json:"isHost"`
	LastSeen   time.Time `json:"lastSeen"`
}
