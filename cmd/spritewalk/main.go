package main

import (
	"flag"
	"log/slog"
	"os"

	"chosenoffset.com/spritewalk/internal/config"
	"chosenoffset.com/spritewalk/internal/game"
	"chosenoffset.com/spritewalk/internal/logging"
	ebitenrender "chosenoffset.com/spritewalk/internal/render/ebiten"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config file")
	spritePath := flag.String("sprite", "", "override the sprite sheet path")
	flag.Parse()

	cfg, found, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fatal(slog.Default(), "failed to load config", err)
	}
	if *spritePath != "" {
		cfg.Sprite.Path = *spritePath
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		fatal(slog.Default(), "invalid config", err)
	}
	logger := logging.New(os.Stderr, level)
	if !found {
		logger.Info("no config file, using defaults", "path", *configPath)
	}

	// Initialize the renderer backend (ebiten)
	renderer := ebitenrender.NewRenderer(logger)
	inputMgr := ebitenrender.NewInputManager()
	loader := ebitenrender.NewResourceLoader()
	engine := ebitenrender.NewEngine()

	assets, err := game.LoadAssets(cfg, loader, logger)
	if err != nil {
		fatal(logger, "failed to load assets", err)
	}

	g, err := game.New(cfg, renderer, inputMgr, assets, logger)
	if err != nil {
		assets.Dispose()
		fatal(logger, "failed to create game", err)
	}
	g.Stats = engine

	// Set up the window
	engine.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	engine.SetWindowTitle(cfg.Window.Title)
	engine.SetWindowResizable(cfg.Window.Resizable)
	engine.SetTPS(cfg.Window.TPS)

	logger.Info("starting game", "tps", cfg.Window.TPS, "width", cfg.Window.Width, "height", cfg.Window.Height)
	err = engine.RunGame(g)
	g.Close()
	if err != nil {
		fatal(logger, "game exited with error", err)
	}
	logger.Info("bye", "ticks", g.TickCount, "frames", g.FrameCount)
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "err", err)
	os.Exit(1)
}
