package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/milk9111/tilepuzzle/history"
)

var (
	flagImage  string
	flagRows   int
	flagCols   int
	flagScript string
	flagWatch  bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the puzzle window",
	Long: `Open the puzzle window. This is what running tilepuzzle without a command does.

Examples:
  tilepuzzle play
  tilepuzzle play --image https://example.com/cat.png --rows 3 --cols 3
  tilepuzzle play --script grow --watch`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func addBoardFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagImage, "image", "", "Picture path, URL or embedded asset name")
	cmd.Flags().IntVar(&flagRows, "rows", 0, "Tiles across the window width")
	cmd.Flags().IntVar(&flagCols, "cols", 0, "Tiles down the window height")
	cmd.Flags().StringVar(&flagScript, "script", "", "Tengo script choosing the board after each solve")
	cmd.Flags().BoolVar(&flagWatch, "watch", true, "Reload the config file when it changes")
}

func runPlay(cmd *cobra.Command, args []string) error {
	logger := newLogger("tilepuzzle")

	cfg, path, err := loadConfig(logger)
	if err != nil {
		return err
	}
	if flagImage != "" {
		cfg.Image = flagImage
	}
	if flagRows != 0 {
		cfg.Rows = flagRows
	}
	if flagCols != 0 {
		cfg.Cols = flagCols
	}
	if flagScript != "" {
		cfg.Script = flagScript
	}
	cfg.Validate()

	var store *history.Store
	if !cfg.History.Disabled {
		store, err = history.Open(cfg.History.Path)
		if err != nil {
			logger.Warn("could not open solves database, solves will not be recorded", "error", err)
			store = nil
		}
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)

	game := NewGame(cmd.Context(), GameOptions{
		Config:     cfg,
		ConfigPath: path,
		Watch:      flagWatch,
		Debug:      flagDebug,
		Logger:     logger,
		Store:      store,
	})
	defer game.Close()

	return ebiten.RunGame(game)
}

