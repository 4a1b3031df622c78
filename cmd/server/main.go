package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/tom-jt/Diviners-Gambit/internal/config"
	"github.com/tom-jt/Diviners-Gambit/internal/game"
	"github.com/tom-jt/Diviners-Gambit/internal/game/catalog"
	"github.com/tom-jt/Diviners-Gambit/internal/lobby"
	"github.com/tom-jt/Diviners-Gambit/internal/server"
	"github.com/tom-jt/Diviners-Gambit/internal/storage"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting Diviner's Gambit server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
	logger.Info("Diviner's Gambit server stopped")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	presets, err := cfg.Game.Presets()
	if err != nil {
		return fmt.Errorf("load presets: %w", err)
	}
	defaults, err := cfg.Game.Settings(presets)
	if err != nil {
		return fmt.Errorf("game settings: %w", err)
	}
	cat := catalog.Default()

	g, ctx := errgroup.WithContext(ctx)

	base := game.Options{
		Catalog: cat,
		Seed:    cfg.Game.Seed,
		Pacer:   game.DelayPacer(cfg.Game.CardDelay, cfg.Game.RoundDelay, cfg.Game.GameDelay),
		Logger:  logger,
		Strict:  cfg.Game.Strict,
	}
	var replays server.Replays
	if cfg.Replay.Enabled {
		base.Recorder = game.NewReplayRecorder(logger, cfg.Replay.Directory)
		replays = base.Recorder
		logger.Info("replay recording enabled", zap.String("directory", cfg.Replay.Directory))
	}

	var leaderboard server.Leaderboard
	if cfg.Database.Enabled() {
		store, err := storage.Open(ctx, cfg.Database, logger)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Migrate(ctx); err != nil {
			return err
		}

		writer := storage.NewResultWriter(store, 64, logger)
		base.OnGameOver = writer.Submit
		leaderboard = store
		g.Go(func() error { return writer.Run(ctx) })
	} else {
		logger.Warn("database not configured; results will not be persisted")
	}

	var hub *server.Hub
	rooms := lobby.NewManager(func(r *lobby.Room) game.Options {
		return hub.MatchOptions(base)(r)
	}, logger)
	hub = server.NewHub(rooms, server.HubOptions{
		Defaults:       defaults,
		Presets:        presets,
		ReadLimit:      cfg.Server.ReadLimit,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, logger)

	handler := server.NewHTTPHandler(server.HTTPConfig{
		Hub:         hub,
		Rooms:       rooms,
		Catalog:     cat,
		Presets:     presets,
		Leaderboard: leaderboard,
		Replays:     replays,
		Logger:      logger,
	})

	httpLis, err := net.Listen("tcp", cfg.Server.HTTPAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Server.HTTPAddress, err)
	}
	grpcLis, err := net.Listen("tcp", cfg.Server.GRPCAddress)
	if err != nil {
		httpLis.Close()
		return fmt.Errorf("listen on %s: %w", cfg.Server.GRPCAddress, err)
	}
	grpcServer := server.NewGRPCServer(logger)

	g.Go(func() error { return hub.Run(ctx) })
	g.Go(func() error {
		return server.ServeHTTP(ctx, httpLis, handler, cfg.Server.ShutdownTimeout, logger)
	})
	g.Go(func() error { return grpcServer.Serve(ctx, grpcLis) })
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down gracefully...")
		grpcServer.SetServing(false)
		return nil
	})

	logger.Info("Diviner's Gambit server initialized",
		zap.String("http_address", cfg.Server.HTTPAddress),
		zap.String("grpc_address", cfg.Server.GRPCAddress),
		zap.String("mode", defaults.Mode.String()),
		zap.String("pool", string(defaults.Pool)),
		zap.Bool("diviners", defaults.Diviners),
	)

	return g.Wait()
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
