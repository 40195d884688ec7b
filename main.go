// tilepuzzle is a swap picture puzzle: a picture is cut into a grid of tiles,
// the tiles are shuffled, and the player swaps the red cursor tile with its
// neighbours until the picture is whole again.
//
// Usage:
//
//	tilepuzzle [play]        - Open the puzzle window (default)
//	tilepuzzle render        - Draw a shuffled board to a PNG without a window
//	tilepuzzle solves        - Show recorded solves
//
// Global flags:
//
//	--config <path> - Config file (default: ~/.tilepuzzle/config.yaml, then ./configs/config.yaml)
//	--seed <value>  - Shuffle seed (0 = random)
//	--db <path>     - Solves database (default from config)
//	--debug         - Verbose logging and an on-screen debug line
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/milk9111/tilepuzzle/config"
)

var (
	flagConfig string
	flagSeed   uint64
	flagDBPath string
	flagDebug  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tilepuzzle",
	Short: "Swap picture puzzle",
	Long: `tilepuzzle cuts a picture into a grid of tiles and shuffles them.
Click a tile next to the red cursor to swap it in; restore the picture to win.

Keys:
  Esc     menu (restart, grid size, next picture)
  R       restart with a fresh shuffle
  N       next picture in the gallery
  Ctrl+V  paste a picture or an image path/URL

Examples:
  tilepuzzle
  tilepuzzle play --image photo.jpg --rows 5 --cols 3
  tilepuzzle render --moves 20 --out board.png
  tilepuzzle solves --limit 5`,
	SilenceUsage: true,
	RunE:         runPlay,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file")
	rootCmd.PersistentFlags().Uint64Var(&flagSeed, "seed", 0, "Shuffle seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to solves database")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	addBoardFlags(rootCmd)
	addBoardFlags(playCmd)

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(solvesCmd)
}

func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// loadConfig reads the config file and applies the global flag overrides.
func loadConfig(logger *log.Logger) (config.Config, string, error) {
	cfg, path, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, "", err
	}
	if path != "" {
		logger.Debug("config loaded", "path", path)
	}
	if flagSeed != 0 {
		cfg.Seed = flagSeed
	}
	if flagDBPath != "" {
		cfg.History.Path = flagDBPath
	}
	return cfg, path, nil
}
