package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/milk9111/tilepuzzle/history"
)

var flagSolvesLimit int

var solvesCmd = &cobra.Command{
	Use:   "solves",
	Short: "Show recorded solves",
	Long: `List the most recent solves and the best result for every grid size.

Examples:
  tilepuzzle solves
  tilepuzzle solves --limit 25`,
	Args: cobra.NoArgs,
	RunE: runSolves,
}

func init() {
	solvesCmd.Flags().IntVar(&flagSolvesLimit, "limit", 10, "Number of recent solves to show")
}

func runSolves(cmd *cobra.Command, args []string) error {
	logger := newLogger("solves")

	cfg, _, err := loadConfig(logger)
	if err != nil {
		return err
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	recent, err := store.Recent(flagSolvesLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(recent) == 0 {
		fmt.Fprintln(out, "No solves recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Run 'tilepuzzle' and put a picture back together!")
		return nil
	}

	fmt.Fprintln(out, "Recent solves")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%-19s  %-5s  %6s  %9s  %s\n", "When", "Grid", "Moves", "Time", "Image")
	for _, e := range recent {
		fmt.Fprintf(out, "%-19s  %-5s  %6d  %9s  %s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"), grid(e.Rows, e.Cols), e.Moves, formatDuration(e.Duration), e.Image)
	}

	sizes, err := store.GridSizes()
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Best per grid")
	fmt.Fprintln(out)
	for _, size := range sizes {
		best, ok, err := store.Best(size[0], size[1])
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		fmt.Fprintf(out, "%-5s  %6d moves  %9s  %s\n", grid(best.Rows, best.Cols), best.Moves, formatDuration(best.Duration), best.Image)
	}
	return nil
}

func grid(rows, cols int) string {
	return fmt.Sprintf("%dx%d", rows, cols)
}

func formatDuration(d time.Duration) string {
	d = d.Round(100 * time.Millisecond)
	m := int(d / time.Minute)
	s := (d % time.Minute).Seconds()
	return fmt.Sprintf("%d:%04.1f", m, s)
}
