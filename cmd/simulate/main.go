package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tom-jt/Diviners-Gambit/internal/game/settings"
	"github.com/tom-jt/Diviners-Gambit/internal/sim"
)

func main() {
	var (
		players   = flag.String("players", "alice,bob", "comma separated bot names")
		mode      = flag.String("mode", "Remastered", "game mode")
		pool      = flag.String("pool", string(settings.DefaultPool), "generation bitstring or preset name")
		diviners  = flag.Bool("diviners", false, "pick diviners on turn 0")
		seed      = flag.Uint64("seed", 1, "match seed")
		games     = flag.Int("games", 1, "number of games to play")
		maxTurns  = flag.Int("max-turns", 200, "turn limit per game")
		replayDir = flag.String("replay-dir", "", "save replays to this directory")
		verbose   = flag.Bool("v", false, "log every round")
	)
	flag.Parse()

	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if !*verbose {
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	logger, err := zapCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	gameMode, err := settings.ParseMode(*mode)
	if err != nil {
		logger.Fatal("invalid mode", zap.Error(err))
	}
	gamePool := settings.Pool(*pool)
	if !gamePool.Valid() {
		preset, err := settings.FindPreset(settings.Presets, *pool)
		if err != nil {
			logger.Fatal("invalid pool", zap.Error(err))
		}
		gamePool = preset.Pool
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sum, err := sim.Run(ctx, sim.Config{
		Players:   strings.Split(*players, ","),
		Settings:  settings.Settings{Mode: gameMode, Pool: gamePool, Diviners: *diviners},
		Seed:      *seed,
		Games:     *games,
		MaxTurns:  *maxTurns,
		ReplayDir: *replayDir,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("simulation failed", zap.Error(err))
	}

	fmt.Printf("=== %s, pool %s, seed %d ===\n", gameMode, gamePool, *seed)
	for _, r := range sum.Results {
		winner := r.WinnerName
		if winner == "" {
			winner = "tie"
		}
		fmt.Printf("game %d: %-12s turns=%-3d checksum=%s\n", r.Game, winner, r.Turns, short(r.Checksum))
	}
	if sum.Unfinished > 0 {
		fmt.Printf("%d game(s) hit the turn limit\n", sum.Unfinished)
	}
	for _, name := range strings.Split(*players, ",") {
		rec := sum.Records[name]
		fmt.Printf("%-12s W%d L%d T%d\n", name, rec.Wins, rec.Losses, rec.Ties)
	}
}

func short(checksum string) string {
	if len(checksum) > 12 {
		return checksum[:12]
	}
	return checksum
}
