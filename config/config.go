package config

import (
	_ "embed"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/milk9111/tilepuzzle/assets"
	"github.com/milk9111/tilepuzzle/common"
	"github.com/milk9111/tilepuzzle/puzzle"
	"gopkg.in/yaml.v3"
)

const (
	MinGrid = 2
	MaxGrid = 12

	minWindow = 160
)

//go:embed default.yaml
var defaultYAML []byte

type Config struct {
	// Image is the locator of the first picture.
	Image string `yaml:"image"`
	// Gallery lists pictures cycled by "next image". Empty means the embedded pictures.
	Gallery []string      `yaml:"gallery"`
	Rows    int           `yaml:"rows"`
	Cols    int           `yaml:"cols"`
	Seed    uint64        `yaml:"seed"`
	Window  WindowConfig  `yaml:"window"`
	Style   StyleConfig   `yaml:"style"`
	History HistoryConfig `yaml:"history"`
	// Script is an optional tengo file choosing the board after a solve.
	Script string `yaml:"script"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type StyleConfig struct {
	Cursor YAMLColor `yaml:"cursor"`
	Hover  YAMLColor `yaml:"hover"`
}

type HistoryConfig struct {
	Path     string `yaml:"path"`
	Disabled bool   `yaml:"disabled"`
}

// Default returns the built-in configuration.
func Default() Config {
	def := puzzle.DefaultStyle()
	return Config{
		Image: assets.Default,
		Rows:  4,
		Cols:  4,
		Window: WindowConfig{
			Width:  960,
			Height: 720,
			Title:  "tilepuzzle",
		},
		Style: StyleConfig{
			Cursor: YAMLColor{def.Cursor},
			Hover:  YAMLColor{def.Hover},
		},
		History: HistoryConfig{Path: "~/.tilepuzzle/solves.db"},
	}
}

// Load reads the configuration.
// Search order: customPath -> ~/.tilepuzzle/config.yaml -> ./configs/config.yaml -> embedded default.
// It returns the path that was used, or "" for the embedded default.
func Load(customPath string) (Config, string, error) {
	if customPath != "" {
		cfg, err := LoadFile(customPath)
		return cfg, customPath, err
	}

	for _, p := range []string{userConfigPath("config.yaml"), filepath.Join("configs", "config.yaml")} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			continue
		}
		cfg, err := LoadFile(p)
		return cfg, p, err
	}

	cfg, err := Parse(defaultYAML)
	if err != nil {
		return Config{}, "", fmt.Errorf("config: parse embedded default: %w", err)
	}
	return cfg, "", nil
}

// LoadFile reads and validates a config file.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	cfg.Validate()
	return cfg, nil
}

// Validate clamps out-of-range values and fills blanks.
func (c *Config) Validate() {
	c.Rows = common.Clamp(c.Rows, MinGrid, MaxGrid)
	c.Cols = common.Clamp(c.Cols, MinGrid, MaxGrid)
	c.Image = strings.TrimSpace(c.Image)
	if c.Image == "" {
		c.Image = assets.Default
	}
	if len(c.Gallery) == 0 {
		c.Gallery = assets.Names()
	}
	c.Window.Width = max(c.Window.Width, minWindow)
	c.Window.Height = max(c.Window.Height, minWindow)
	if c.Window.Title == "" {
		c.Window.Title = "tilepuzzle"
	}
	def := puzzle.DefaultStyle()
	if c.Style.Cursor.Color == nil {
		c.Style.Cursor.Color = def.Cursor
	}
	if c.Style.Hover.Color == nil {
		c.Style.Hover.Color = def.Hover
	}
}

// PuzzleStyle converts the configured colours.
func (c Config) PuzzleStyle() puzzle.Style {
	return puzzle.Style{Cursor: c.Style.Cursor.Color, Hover: c.Style.Hover.Color}
}

// ExpandHome resolves a leading ~ to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tilepuzzle", filename)
}

// YAMLColor decodes "#rrggbb" or "#rrggbbaa".
type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
