package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wfunc/ghost/broadcast"
	"github.com/wfunc/ghost/config"
	"github.com/wfunc/ghost/console"
	"github.com/wfunc/ghost/dictionary"
	"github.com/wfunc/ghost/game"
	"github.com/wfunc/ghost/logger"
	"github.com/wfunc/ghost/monitor"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "ghost: load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "ghost: initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Log.Errorw("ghost exited", "error", err)
		fmt.Fprintf(os.Stderr, "ghost: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dict, err := dictionary.Load(cfg.Game.Dictionary)
	if err != nil {
		return err
	}
	logger.Log.Infow("dictionary loaded", "path", cfg.Game.Dictionary, "words", dict.Len())

	rule, err := game.ParseEndRule(cfg.Game.EndRule)
	if err != nil {
		return err
	}

	reporters := broadcast.NewBroadcaster(console.NewReporter(os.Stdout))
	if cfg.Metrics.Enabled {
		mon := monitor.NewMonitor(cfg.Metrics.Namespace, prometheus.NewRegistry())
		srv := mon.StartServer(cfg.Metrics.Address)
		defer srv.Close()
		reporters.Add(mon)
	}

	in := console.NewInput(os.Stdin)
	console.Welcome(os.Stdout)
	players, err := console.SetupPlayers(ctx, in, os.Stdout)
	if err != nil {
		return err
	}

	engine, err := game.NewEngine(players, dict, reporters,
		game.WithEndRule(rule),
		game.WithTurnTimeout(cfg.Game.TurnTimeout),
	)
	if err != nil {
		return err
	}

	return engine.Run(ctx)
}
