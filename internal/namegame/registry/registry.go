// Package registry: 게임 ID로 조회되는 인메모리 게임 저장소.
// 내부 맵은 절대 밖으로 노출되지 않으며 모든 변경은 이 저장소의 연산을 통해서만 이뤄진다.
package registry

import (
	"sync"

	ngerrors "github.com/ast4/namegame-go/internal/namegame/errors"
	"github.com/ast4/namegame-go/internal/namegame/model"
)

// Registry 는 진행 중인 게임들의 인메모리 저장소다.
type Registry struct {
	mu    sync.RWMutex
	games map[string]*model.Game
}

// New: 빈 레지스트리를 생성한다.
func New() *Registry {
	return &Registry{
		games: make(map[string]*model.Game),
	}
}

// Create: 새 게임을 등록한다. 같은 ID가 이미 있으면 실패한다.
func (r *Registry) Create(game *model.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.games[game.ID]; exists {
		return ngerrors.DuplicateGameError{GameID: game.ID}
	}
	r.games[game.ID] = game
	return nil
}

// Get: 게임을 조회한다.
func (r *Registry) Get(gameID string) (*model.Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	game, ok := r.games[gameID]
	return game, ok
}

// Delete: 게임을 제거한다.
func (r *Registry) Delete(gameID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.games, gameID)
}

// Len: 등록된 게임 수를 반환한다.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.games)
}
