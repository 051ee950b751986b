package lemonade

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the contents of lemonade.toml.
type Config struct {
	Window  WindowConfig  `toml:"window"`
	Assets  AssetsConfig  `toml:"assets"`
	Loop    LoopConfig    `toml:"loop"`
	Limits  LimitsConfig  `toml:"limits"`
	Logging LoggingConfig `toml:"logging"`
	Debug   DebugConfig   `toml:"debug"`
}

type WindowConfig struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Resizable bool   `toml:"resizable"`
}

// AssetsConfig names asset files. Relative names are resolved against Dir.
type AssetsConfig struct {
	Dir           string  `toml:"dir"`
	Font          string  `toml:"font"`
	FontSize      float64 `toml:"font_size"`
	Background    string  `toml:"background"`
	OKButton      string  `toml:"ok_button"`
	BackButton    string  `toml:"back_button"`
	Levels        string  `toml:"levels"` // directory of *.yaml; empty = built-in levels
	ScreenshotDir string  `toml:"screenshot_dir"`
}

type LoopConfig struct {
	Step       time.Duration `toml:"step"`
	MaxCatchUp int           `toml:"max_catch_up"`
}

type LimitsConfig struct {
	MaxTextures int `toml:"max_textures"`
	MaxSprites  int `toml:"max_sprites"`
	MaxWidgets  int `toml:"max_widgets"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type DebugConfig struct {
	Enabled bool `toml:"enabled"`
}

// Path resolves an asset name against Dir. Empty names stay empty.
func (a AssetsConfig) Path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(a.Dir, name)
}

// LoadConfig reads a TOML file on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultConfig returns the settings used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Title:     "Lemonade 5000",
			Width:     1280,
			Height:    720,
			Resizable: true,
		},
		Assets: AssetsConfig{
			Dir:           "assets",
			Font:          "font.ttf",
			FontSize:      24,
			Background:    "background.png",
			OKButton:      "ok.png",
			BackButton:    "back.png",
			ScreenshotDir: "screenshots",
		},
		Loop: LoopConfig{
			Step:       8 * time.Millisecond,
			MaxCatchUp: 5,
		},
		Limits: LimitsConfig{
			MaxTextures: DefaultMaxTextures,
			MaxSprites:  DefaultMaxSprites,
			MaxWidgets:  DefaultMaxWidgets,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func (c *Config) validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	case c.Loop.Step <= 0:
		return fmt.Errorf("loop step %v must be positive", c.Loop.Step)
	case c.Loop.MaxCatchUp <= 0:
		return fmt.Errorf("loop max_catch_up %d must be positive", c.Loop.MaxCatchUp)
	case c.Assets.FontSize <= 0:
		return fmt.Errorf("font size %v must be positive", c.Assets.FontSize)
	}
	return nil
}
