package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/vibecoding/backoffice/internal/config"
	httpapi "github.com/vibecoding/backoffice/internal/interfaces/http"
	"github.com/vibecoding/backoffice/internal/players"
	"github.com/vibecoding/backoffice/internal/service"
	"github.com/vibecoding/backoffice/internal/store"
	"github.com/vibecoding/backoffice/pkg/utils"
)

func main() {
	// Optional .env for local development.
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting players server",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port),
		zap.String("data_dir", cfg.Data.Dir))

	roster := store.NewPlayerStore(cfg.Data.PlayersPath(), logger)
	conditions := store.NewConditionStore(cfg.Data.ConditionsPath(), logger)
	physicals := store.NewPhysicalStore(cfg.Data.PhysicalsPath(), logger)
	sessions := players.NewSessionManager(cfg.Players.SessionTTL)

	playersService := service.NewPlayersService(
		roster,
		conditions,
		physicals,
		sessions,
		cfg.Players.AdminPassword,
		cfg.Players.ImageDir,
		logger,
	)

	server := httpapi.NewPlayersServer(
		httpapi.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		playersService,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil && err != context.Canceled {
		logger.Fatal("Server exited with error", zap.Error(err))
	}
	logger.Info("Server exited successfully")
}
