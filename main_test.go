package main

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/milk9111/tilepuzzle/assets"
	"github.com/milk9111/tilepuzzle/puzzle"
	"github.com/milk9111/tilepuzzle/render"
)

func TestPlayRandomKeepsBoardConsistent(t *testing.T) {
	raster := render.NewRaster(120, 90)
	board := puzzle.NewBoard(raster, render.NewLoader(), puzzle.WithSeed(3))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := board.Rebuild(ctx, assets.Default, 4, 3); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if err := board.Await(ctx); err != nil {
		t.Fatalf("Await: %v", err)
	}

	played := playRandom(board, rand.New(rand.NewPCG(1, 2)), 25)
	if played == 0 {
		t.Fatalf("no moves played")
	}
	if board.State() == puzzle.StateReady && board.Moves() != played {
		t.Fatalf("moves %d, played %d", board.Moves(), played)
	}

	cursors := 0
	for _, tile := range board.Tiles() {
		if tile.IsCursor() {
			cursors++
			row, col := board.Cursor()
			if tile.Row != row || tile.Col != col {
				t.Fatalf("cursor tile at (%d,%d), board cursor (%d,%d)", tile.Row, tile.Col, row, col)
			}
		}
	}
	if cursors != 1 {
		t.Fatalf("%d cursor tiles", cursors)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00.0"},
		{1500 * time.Millisecond, "0:01.5"},
		{75 * time.Second, "1:15.0"},
		{10*time.Minute + 59960*time.Millisecond, "11:00.0"},
	}
	for _, c := range cases {
		t.Run(c.want, func(t *testing.T) {
			if got := formatDuration(c.in); got != c.want {
				t.Fatalf("formatDuration(%v) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestGalleryIndex(t *testing.T) {
	gallery := []string{"a.png", "b.png"}
	if got := galleryIndex(gallery, "b.png"); got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
	if got := galleryIndex(gallery, "c.png"); got != -1 {
		t.Fatalf("got %d, want -1", got)
	}
}
