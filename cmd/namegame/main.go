package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ast4/namegame-go/internal/common/bootstrap"
	"github.com/ast4/namegame-go/internal/common/health"
	ngapp "github.com/ast4/namegame-go/internal/namegame/app"
	ngconfig "github.com/ast4/namegame-go/internal/namegame/config"
)

// Version: 빌드 시 ldflags로 주입됨 (예: -ldflags="-X main.Version=1.0.0")
var Version = "dev"

func main() {
	health.Init(Version)

	logger := bootstrap.NewLogger()
	slog.SetDefault(logger)

	finalLogger, err := bootstrap.RunServiceEntrypoint(
		context.Background(),
		logger,
		"namegame.log",
		ngconfig.LoadFromEnv,
		func(cfg *ngconfig.Config) ngconfig.LogConfig { return cfg.Log },
		ngapp.Initialize,
	)
	if err != nil {
		logger = finalLogger
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}
