// Package app: Name Game 서비스의 의존성 조립.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/ast4/namegame-go/internal/common/bootstrap"
	"github.com/ast4/namegame-go/internal/namegame/config"
	"github.com/ast4/namegame-go/internal/namegame/hub"
)

const shutdownTimeout = 10 * time.Second

// Initialize 는 Name Game 애플리케이션 의존성을 초기화하고 ServerApp을 반환한다.
func Initialize(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*bootstrap.ServerApp, func(), error) {
	valkeyClient, cleanupValkey, err := newNameGameValkey(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	sessions := newNameGameSessionStore(valkeyClient, cfg, logger)

	msgProvider, err := newNameGameMessageProvider()
	if err != nil {
		cleanupValkey()
		return nil, nil, err
	}

	dict, err := newNameGameDictionary(cfg)
	if err != nil {
		cleanupValkey()
		return nil, nil, err
	}

	repo, cleanupDB, err := newNameGameRepository(ctx, cfg, logger)
	if err != nil {
		cleanupValkey()
		return nil, nil, err
	}

	wsHub := hub.New(logger)
	eng := newNameGameEngine(cfg, wsHub, sessions, dict, repo, msgProvider, logger)
	httpServer := newNameGameHTTPServer(cfg, eng, wsHub, logger)

	serverApp := bootstrap.NewServerApp("namegame", logger, httpServer, shutdownTimeout)

	cleanup := func() {
		cleanupDB()
		cleanupValkey()
	}
	return serverApp, cleanup, nil
}
