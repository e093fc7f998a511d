// Package session 은 영속 플레이어 ID와 현재 게임의 바인딩을 Valkey에 보관한다.
// 세션은 일시적 연결 끊김보다 오래 살아남아 재접속의 근거가 된다.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/ast4/namegame-go/internal/common/gamesession"
	"github.com/ast4/namegame-go/internal/common/valkeyx"
	ngconfig "github.com/ast4/namegame-go/internal/namegame/config"
	"github.com/ast4/namegame-go/internal/namegame/model"
)

// sessionKey: 플레이어 세션 저장용 키를 생성합니다.
// 형식: namegame:session:{playerID}
func sessionKey(playerID string) string {
	return valkeyx.BuildKey(ngconfig.RedisKeySessionPrefix, playerID)
}

// Store: 플레이어 세션 저장소.
// 공통 gamesession.Store를 내부적으로 사용하여 CRUD 로직을 위임합니다.
type Store struct {
	base *gamesession.Store[model.PlayerSession]
}

// NewStore: 새로운 세션 저장소 인스턴스를 생성합니다.
func NewStore(client valkey.Client, logger *slog.Logger, ttl time.Duration) *Store {
	return &Store{
		base: gamesession.NewStore[model.PlayerSession](client, logger, gamesession.Config{
			KeyFunc: sessionKey,
			TTL:     ttl,
		}),
	}
}

// Track: 플레이어 세션을 생성하거나 갱신합니다. LastSeen은 현재 시각으로 설정됩니다.
func (s *Store) Track(ctx context.Context, playerID string, sess model.PlayerSession) error {
	sess.LastSeen = time.Now()
	if err := s.base.Save(ctx, playerID, sess); err != nil {
		return fmt.Errorf("track session: %w", err)
	}
	return nil
}

// Load: 플레이어 세션을 조회합니다. 조회 성공 시 TTL을 연장합니다.
// 세션이 없거나 만료된 경우 nil을 반환합니다.
func (s *Store) Load(ctx context.Context, playerID string) (*model.PlayerSession, error) {
	sess, err := s.base.Load(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return nil, nil
	}
	if _, err := s.base.RefreshTTL(ctx, playerID); err != nil {
		return nil, fmt.Errorf("refresh session ttl: %w", err)
	}
	return sess, nil
}

// Delete: 플레이어 세션을 삭제합니다. 플레이어가 게임에서 제거될 때 호출됩니다.
func (s *Store) Delete(ctx context.Context, playerID string) error {
	if err := s.base.Delete(ctx, playerID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Exists: 세션이 존재하는지 확인합니다.
func (s *Store) Exists(ctx context.Context, playerID string) (bool, error) {
	exists, err := s.base.Exists(ctx, playerID)
	if err != nil {
		return false, fmt.Errorf("session exists: %w", err)
	}
	return exists, nil
}
