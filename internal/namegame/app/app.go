package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/valkey-io/valkey-go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ast4/namegame-go/internal/common/bootstrap"
	"github.com/ast4/namegame-go/internal/common/dbutil"
	"github.com/ast4/namegame-go/internal/common/httpserver"
	"github.com/ast4/namegame-go/internal/common/messageprovider"
	ngassets "github.com/ast4/namegame-go/internal/namegame/assets"
	ngconfig "github.com/ast4/namegame-go/internal/namegame/config"
	"github.com/ast4/namegame-go/internal/namegame/dictionary"
	"github.com/ast4/namegame-go/internal/namegame/engine"
	"github.com/ast4/namegame-go/internal/namegame/httpapi"
	"github.com/ast4/namegame-go/internal/namegame/hub"
	"github.com/ast4/namegame-go/internal/namegame/pipeline"
	"github.com/ast4/namegame-go/internal/namegame/registry"
	"github.com/ast4/namegame-go/internal/namegame/repository"
	"github.com/ast4/namegame-go/internal/namegame/session"
)

func newNameGameValkey(
	ctx context.Context,
	cfg *ngconfig.Config,
	logger *slog.Logger,
) (valkey.Client, func(), error) {
	return bootstrap.NewAndPingValkeyClient(ctx, cfg.Redis, "namegame-sessions", logger)
}

func newNameGameSessionStore(
	client valkey.Client,
	cfg *ngconfig.Config,
	logger *slog.Logger,
) *session.Store {
	return session.NewStore(client, logger, cfg.Game.SessionTTL)
}

func newNameGameMessageProvider() (*messageprovider.Provider, error) {
	provider, err := messageprovider.NewFromYAMLAtPath(ngassets.GameMessagesYAML, "namegame")
	if err != nil {
		return nil, fmt.Errorf("load messages failed: %w", err)
	}
	return provider, nil
}

func newNameGameDictionary(cfg *ngconfig.Config) (*dictionary.Client, error) {
	client, err := dictionary.NewClient(cfg.Dictionary)
	if err != nil {
		return nil, fmt.Errorf("create dictionary client failed: %w", err)
	}
	return client, nil
}

// newNameGameRepository: 아카이브 DB가 설정된 경우에만 리포지토리를 연다.
// Postgres 호스트가 비어 있으면 아카이브 없이 기동한다.
func newNameGameRepository(
	ctx context.Context,
	cfg *ngconfig.Config,
	logger *slog.Logger,
) (*repository.Repository, func(), error) {
	if cfg.Postgres.Host == "" {
		logger.Info("game_archive_disabled", "reason", "no postgres host configured")
		return nil, func() {}, nil
	}

	db, sqlDB, err := dbutil.OpenWithRetry(ctx, func(ctx context.Context) (*gorm.DB, *sql.DB, error) {
		return openPostgres(ctx, cfg.Postgres)
	}, dbutil.DefaultRetryConfig(), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres failed: %w", err)
	}
	closeFn := func() {
		if closeErr := sqlDB.Close(); closeErr != nil {
			logger.Warn("postgres_close_failed", "err", closeErr)
		}
	}

	repo := repository.New(db)
	if err := repo.AutoMigrate(ctx); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("auto migrate failed: %w", err)
	}
	return repo, closeFn, nil
}

func newNameGameEngine(
	cfg *ngconfig.Config,
	wsHub *hub.Hub,
	sessions *session.Store,
	dict *dictionary.Client,
	repo *repository.Repository,
	msgProvider *messageprovider.Provider,
	logger *slog.Logger,
) *engine.Engine {
	pipe := pipeline.New(dict, logger)

	// repo가 nil이면 아카이브는 비활성 상태다. 인터페이스에 nil 포인터가
	// 담기지 않도록 여기서 분기한다.
	var archiver engine.Archiver
	if repo != nil {
		archiver = repo
	}

	eng := engine.New(cfg.Game, registry.New(), pipe, sessions, wsHub, archiver, msgProvider, logger)
	wsHub.AttachEngine(eng)
	return eng
}

func newNameGameHTTPServer(
	cfg *ngconfig.Config,
	eng *engine.Engine,
	wsHub *hub.Hub,
	logger *slog.Logger,
) *http.Server {
	mux := http.NewServeMux()
	handler := httpapi.Register(mux, eng, wsHub, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	return httpserver.NewServer(addr, handler, httpserver.ServerOptions{
		UseH2C:            true,
		ReadHeaderTimeout: cfg.ServerTuning.ReadHeaderTimeout,
		IdleTimeout:       cfg.ServerTuning.IdleTimeout,
		MaxHeaderBytes:    cfg.ServerTuning.MaxHeaderBytes,
	})
}

func openPostgres(ctx context.Context, cfg ngconfig.PostgresConfig) (*gorm.DB, *sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("gorm open failed: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("get sql db failed: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, nil, fmt.Errorf("db ping failed: %w", err)
	}

	return db, sqlDB, nil
}
