// Command lemonade5000 runs the game.
//
// Settings come from lemonade.toml in the working directory, or from the
// file named by LEMONADE_CONFIG. Without a file the built-in defaults and
// levels are used. LEMONADE_SCRIPT names an optional input script to replay.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/phanxgames/lemonade"
	"github.com/phanxgames/lemonade/game"
	"github.com/phanxgames/lemonade/menu"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := "lemonade.toml"
	if p := os.Getenv("LEMONADE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := lemonade.LoadConfig(cfgPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg = lemonade.DefaultConfig()
	case err != nil:
		return fmt.Errorf("load config: %w", err)
	}

	log, err := lemonade.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	e, err := lemonade.NewEngine(cfg, log, nil)
	if err != nil {
		return fmt.Errorf("init engine: %w", err)
	}

	if path := os.Getenv("LEMONADE_SCRIPT"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		script, err := lemonade.LoadScript(data)
		if err != nil {
			return err
		}
		e.SetScript(script)
		log.Info("input script attached", zap.String("path", path))
	}

	levels, err := game.LoadLevels(cfg.Assets.Levels)
	if err != nil {
		return fmt.Errorf("load levels: %w", err)
	}
	assets, err := menu.LoadAssets(e)
	if err != nil {
		return fmt.Errorf("load assets: %w", err)
	}
	log.Info("assets loaded", zap.String("config", cfgPath),
		zap.Int("levels", len(levels)), zap.Int("textures", e.Graphics.TextureCount()))

	mainMenu := menu.NewMainMenu(assets, log.Named("menu"))
	e.Director.Register(lemonade.SceneMainMenu, mainMenu)
	e.Director.Register(lemonade.SceneLevelSelector,
		menu.NewLevelSelector(mainMenu, game.Names(levels), log.Named("selector")))
	e.Director.Register(lemonade.SceneGame, game.NewScene(levels, log.Named("game")))

	return lemonade.Run(e, lemonade.SceneMainMenu)
}
