package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/thraizz/dominion-server-go/internal/config"
	"github.com/thraizz/dominion-server-go/internal/game"
	"github.com/thraizz/dominion-server-go/internal/game/expansions"
	"github.com/thraizz/dominion-server-go/internal/game/match"
	"github.com/thraizz/dominion-server-go/internal/spectate"
	"github.com/thraizz/dominion-server-go/internal/tournament"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath   = flag.String("config", "config/config.yaml", "path to configuration file")
	kingdomsPath = flag.String("kingdoms", "", "path to kingdom presets file")
	kingdomName  = flag.String("kingdom", "", "kingdom preset to play")
	turns        = flag.Int("turns", 0, "turn limit per match (0 uses tournament.max_turns)")
	players      = flag.String("players", "", "comma separated strategies (default from config)")
	mode         = flag.String("mode", "match", "\"match\" plays one match, \"tournament\" plays a series, \"spectate\" streams matches over websocket")
	version      = "dev" // set via ldflags during build
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

	logger.Info("starting simulator",
		zap.String("version", version),
		zap.String("config", *configPath),
		zap.String("mode", *mode),
	)

	if *kingdomsPath != "" && *kingdomName != "" {
		kingdoms, err := config.LoadKingdoms(*kingdomsPath)
		if err != nil {
			logger.Fatal("failed to load kingdoms", zap.Error(err))
		}
		k, ok := kingdoms[*kingdomName]
		if !ok {
			logger.Fatal("unknown kingdom", zap.String("kingdom", *kingdomName))
		}
		cfg.Match.Apply(k)
	}
	if *turns > 0 {
		cfg.Tournament.MaxTurns = *turns
	}
	if *players != "" {
		cfg.Tournament.Players = strings.Split(*players, ",")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("received signal, stopping", zap.String("signal", sig.String()))
		cancel()
	}()

	registry, err := expansions.NewRegistry()
	if err != nil {
		logger.Fatal("failed to register cards", zap.Error(err))
	}
	engine := game.NewEngine(registry, nil, game.Options{
		Seed:         cfg.Match.Seed,
		HandSize:     cfg.Match.HandSize,
		Kingdom:      cfg.Match.Kingdom,
		SupplyCounts: cfg.Match.SupplyCounts,
		ActionLogDir: cfg.Match.ActionLogDir,
	}, logger)

	strategies, err := resolveStrategies(cfg.Tournament.Players)
	if err != nil {
		logger.Fatal("invalid players", zap.Error(err))
	}

	switch *mode {
	case "match":
		err = runMatch(ctx, engine, strategies, cfg.Tournament.MaxTurns, logger)
	case "tournament":
		err = runTournament(ctx, engine, strategies, cfg.Tournament, logger)
	case "spectate":
		err = runSpectate(ctx, engine, strategies, cfg, logger)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		logger.Fatal("simulation failed", zap.Error(err))
	}
}

func resolveStrategies(names []string) ([]game.Strategy, error) {
	known := game.Strategies()
	strategies := make([]game.Strategy, 0, len(names))
	for _, name := range names {
		s, ok := known[strings.TrimSpace(name)]
		if !ok {
			return nil, fmt.Errorf("unknown strategy %q (have %s)", name, strings.Join(game.StrategyNames(), ", "))
		}
		strategies = append(strategies, s)
	}
	if len(strategies) < 2 {
		return nil, fmt.Errorf("at least 2 strategies required")
	}
	return strategies, nil
}

func runMatch(ctx context.Context, engine *game.Engine, strategies []game.Strategy, maxTurns int, logger *zap.Logger) error {
	return playMatch(ctx, engine, strategies, maxTurns, 0, logger)
}

func playMatch(ctx context.Context, engine *game.Engine, strategies []game.Strategy, maxTurns int, delay time.Duration, logger *zap.Logger) error {
	seats := make(map[string]game.Strategy, len(strategies))
	seated := make([]match.Player, 0, len(strategies))
	for i, s := range strategies {
		id := fmt.Sprintf("p%d-%s", i+1, s.Name())
		seats[id] = game.Paced(s, delay)
		seated = append(seated, match.Player{ID: id, Name: s.Name()})
	}

	matchID, err := engine.StartMatch(ctx, seated)
	if err != nil {
		return err
	}
	finished, err := engine.PlayOut(ctx, matchID, seats, maxTurns)
	if err != nil {
		return err
	}
	scores, err := engine.Scores(matchID)
	if err != nil {
		return err
	}
	sum, err := engine.Checksum(matchID)
	if err != nil {
		return err
	}

	logger.Info("match finished",
		zap.String("match_id", matchID),
		zap.Bool("game_over", finished),
		zap.Int("turns", sum.Turn),
		zap.Any("scores", scores),
		zap.String("checksum", sum.Hash),
	)
	return engine.EndMatch(matchID)
}

func runTournament(ctx context.Context, engine *game.Engine, strategies []game.Strategy, cfg config.TournamentConfig, logger *zap.Logger) error {
	manager := tournament.NewManager(engine, logger)
	t, err := manager.CreateTournament("simulation", cfg.Rounds, cfg.MaxTurns, strategies...)
	if err != nil {
		return err
	}
	if err := manager.Run(ctx, t.ID); err != nil {
		return err
	}
	for i, p := range t.Standings() {
		logger.Info("standing",
			zap.Int("rank", i+1),
			zap.String("player", p.Name),
			zap.Int("points", p.Points),
			zap.Int("wins", p.Wins),
			zap.Int("losses", p.Losses),
			zap.Int("draws", p.Draws),
			zap.Int("vp", p.VP),
		)
	}
	return nil
}

// runSpectate serves the spectator hub and plays paced matches back to back
// until ctx is cancelled.
func runSpectate(ctx context.Context, engine *game.Engine, strategies []game.Strategy, cfg *config.Config, logger *zap.Logger) error {
	hub := spectate.NewHub(engine, logger.Named("spectate"))
	engine.SetNotificationHandler(hub.Notify)
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	srv := &http.Server{Addr: cfg.Spectate.Addr, Handler: mux}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("spectator server listening", zap.String("addr", cfg.Spectate.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("spectator server shutdown failed", zap.Error(err))
		}
	}()

	for {
		select {
		case err := <-serveErr:
			return err
		default:
		}
		err := playMatch(ctx, engine, strategies, cfg.Tournament.MaxTurns, cfg.Spectate.TurnDelay, logger)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil {
			return err
		}
	}
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
