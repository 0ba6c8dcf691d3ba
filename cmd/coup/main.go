package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/magefree/coup-engine-go/internal/config"
	"github.com/magefree/coup-engine-go/internal/game"
	"github.com/magefree/coup-engine-go/internal/game/rules"
	"github.com/magefree/coup-engine-go/internal/game/watchers"
	"github.com/magefree/coup-engine-go/internal/server"
	"github.com/magefree/coup-engine-go/internal/strategy"
	"github.com/magefree/coup-engine-go/internal/tournament"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	quiet      = flag.Bool("quiet", false, "only print game results")
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

	logger.Info("starting coup simulator",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("simulation aborted", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	seed := cfg.Game.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	logger.Info("seeded shuffler", zap.Uint64("seed", seed))

	players := make([]*game.Player, 0, len(cfg.Game.Players))
	for _, pc := range cfg.Game.Players {
		s, err := strategy.New(pc.Strategy, rng, cfg.Game.ChallengeRate, strategy.TerminalPrompter{})
		if err != nil {
			return fmt.Errorf("seating %s: %w", pc.Name, err)
		}
		players = append(players, game.NewPlayer(pc.Name, s))
	}

	bus := rules.NewEventBus()
	registry, challenges, eliminations, coins := watchers.NewDefaultRegistry()
	registry.Attach(bus)
	recorder := game.NewReplayRecorder(logger)

	g, err := game.NewGame(players,
		game.WithLogger(logger),
		game.WithRand(rng),
		game.WithEventBus(bus),
		game.WithMaxTurns(cfg.Game.MaxTurns),
		game.WithRecorder(recorder),
	)
	if err != nil {
		return err
	}

	if !*quiet {
		bus.Subscribe(printEvent)
		bus.SubscribeTyped(rules.EventTurnEnded, func(rules.Event) {
			printTable(g.Snapshot(""))
		})
	}

	if cfg.Spectator.Enabled {
		hub := server.NewHub(logger)
		go hub.Run(ctx)
		hub.Follow(bus, g)
		go func() {
			if err := hub.ListenAndServe(ctx, cfg.Spectator.Address); err != nil {
				logger.Error("spectator feed stopped", zap.Error(err))
			}
		}()
	}

	series := tournament.NewSeries(cfg.Game.Rounds, logger)
	series.OnRoundStart = func(round int, gameID string) {
		if round > 1 {
			registry.ResetWatchers()
		}
		printRoundHeader(round, cfg.Game.Rounds, gameID)
	}
	series.OnRoundEnd = func(r tournament.Round) {
		recorder.ClearReplay(r.GameID)
		if r.Abandoned {
			logger.Warn("game abandoned at turn limit",
				zap.String("game_id", r.GameID),
				zap.Int("max_turns", cfg.Game.MaxTurns),
			)
			return
		}
		printWinner(r.Winner, r.Turns)
		printRoundSummary(g.State().Players(), challenges, eliminations, coins)
	}

	if err := series.Run(ctx, g); err != nil {
		return err
	}

	printStandings(series.Snapshot())
	return nil
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
