package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"golang.design/x/clipboard"

	"github.com/milk9111/tilepuzzle/common"
	"github.com/milk9111/tilepuzzle/config"
	"github.com/milk9111/tilepuzzle/history"
	"github.com/milk9111/tilepuzzle/progression"
	"github.com/milk9111/tilepuzzle/puzzle"
	"github.com/milk9111/tilepuzzle/render"
)

// GameOptions collects what the play command resolved before the window opens.
type GameOptions struct {
	Config     config.Config
	ConfigPath string
	Watch      bool
	Debug      bool
	Logger     *log.Logger
	Store      *history.Store
}

type Game struct {
	ctx    context.Context
	cfg    config.Config
	opts   GameOptions
	logger *log.Logger

	input   *Input
	canvas  *render.Canvas
	board   *puzzle.Board
	menu    *Menu
	watcher *config.Watcher

	menuOpen  bool
	clipboard bool
	pasted    int

	// requested board, kept separately so a failed load can be retried
	image      string
	rows, cols int
	gallery    int

	width, height int
	title         string
}

func NewGame(ctx context.Context, opts GameOptions) *Game {
	cfg := opts.Config
	g := &Game{
		ctx:    ctx,
		cfg:    cfg,
		opts:   opts,
		logger: opts.Logger,
		input:  NewInput(),
		canvas: render.NewCanvas(cfg.Window.Width, cfg.Window.Height),
		image:  cfg.Image,
		rows:   cfg.Rows,
		cols:   cfg.Cols,
		width:  cfg.Window.Width,
		height: cfg.Window.Height,
	}
	g.input.SetBounds(g.width, g.height)
	g.gallery = galleryIndex(cfg.Gallery, cfg.Image)

	boardOpts := []puzzle.Option{
		puzzle.WithStyle(cfg.PuzzleStyle()),
		puzzle.WithLogger(g.logger),
		puzzle.OnSolved(g.recordSolve),
	}
	if cfg.Seed != 0 {
		boardOpts = append(boardOpts, puzzle.WithSeed(cfg.Seed))
	}
	g.board = puzzle.NewBoard(g.canvas, render.NewLoader(), boardOpts...)
	g.loadScript()

	g.menu = NewMenu(g)

	if err := clipboard.Init(); err != nil {
		g.logger.Warn("clipboard unavailable, paste disabled", "error", err)
	} else {
		g.clipboard = true
	}

	if opts.Watch && opts.ConfigPath != "" {
		w, err := config.NewWatcher(opts.ConfigPath)
		if err != nil {
			g.logger.Warn("config watch disabled", "path", opts.ConfigPath, "error", err)
		} else {
			g.watcher = w
		}
	}

	g.rebuild(g.image, g.rows, g.cols)
	return g
}

// Close releases the watcher and the history store.
func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if g.opts.Store != nil {
		_ = g.opts.Store.Close()
	}
}

func (g *Game) Update() error {
	g.input.Update()
	g.pollWatcher()

	if err := g.board.Update(); err != nil {
		g.reportLoadError(err)
	}

	if g.input.MenuPressed {
		g.menuOpen = !g.menuOpen
		if g.menuOpen {
			g.board.HandlePointerLeave()
		}
	}

	if g.menuOpen {
		g.menu.SetGrid(g.rows, g.cols)
		g.menu.UI.Update()
		g.updateTitle()
		return nil
	}

	switch {
	case g.input.RestartPressed:
		g.restart()
	case g.input.NextPressed:
		g.nextImage()
	case g.input.PastePressed:
		g.paste()
	}

	switch {
	case g.input.ClickPressed:
		g.board.HandlePointerClick(g.input.MouseX, g.input.MouseY)
	case g.input.Moved:
		g.board.HandlePointerMove(g.input.MouseX, g.input.MouseY)
	case g.input.Left:
		g.board.HandlePointerLeave()
	}

	g.updateTitle()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.canvas.Target(), nil)

	switch g.board.State() {
	case puzzle.StateLoading:
		ebitenutil.DebugPrint(screen, "loading "+g.image)
	case puzzle.StateEmpty:
		ebitenutil.DebugPrint(screen, "no image loaded, press N or paste a picture")
	}

	if g.opts.Debug {
		r, c := g.board.Cursor()
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.2f  cursor: %d,%d  moves: %d", ebiten.ActualFPS(), r, c, g.board.Moves()), 0, g.height-16)
	}

	if g.menuOpen {
		g.menu.UI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	w, h := max(int(outsideWidth), 1), max(int(outsideHeight), 1)
	if w != g.width || h != g.height {
		g.width, g.height = w, h
		g.canvas.Resize(w, h)
		g.input.SetBounds(w, h)
		g.board.ResizeSurface(w, h)
	}
	return float64(w), float64(h)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

func (g *Game) rebuild(locator string, rows, cols int) {
	g.image, g.rows, g.cols = locator, rows, cols
	if err := g.board.Rebuild(g.ctx, locator, rows, cols); err != nil {
		g.logger.Error("rebuild rejected", "image", locator, "rows", rows, "cols", cols, "error", err)
	}
}

func (g *Game) restart() {
	g.rebuild(g.image, g.rows, g.cols)
}

func (g *Game) resizeGrid(dr, dc int) {
	rows := common.Clamp(g.rows+dr, config.MinGrid, config.MaxGrid)
	cols := common.Clamp(g.cols+dc, config.MinGrid, config.MaxGrid)
	if rows == g.rows && cols == g.cols {
		return
	}
	g.rebuild(g.image, rows, cols)
	g.menu.SetGrid(rows, cols)
}

func (g *Game) nextImage() {
	if len(g.cfg.Gallery) == 0 {
		return
	}
	g.gallery = common.Wrap(g.gallery+1, len(g.cfg.Gallery))
	g.rebuild(g.cfg.Gallery[g.gallery], g.rows, g.cols)
}

// paste starts a board from the clipboard: a PNG image if one is there,
// otherwise text taken as an image locator.
func (g *Game) paste() {
	if !g.clipboard {
		return
	}
	if data := clipboard.Read(clipboard.FmtImage); len(data) > 0 {
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			g.logger.Warn("clipboard image unreadable", "error", err)
			return
		}
		if g.pasted > 0 {
			render.ForgetImage(fmt.Sprintf("clipboard:%d", g.pasted))
		}
		g.pasted++
		key := fmt.Sprintf("clipboard:%d", g.pasted)
		render.RegisterImage(key, img)
		g.rebuild(key, g.rows, g.cols)
		return
	}
	text := string(bytes.TrimSpace(clipboard.Read(clipboard.FmtText)))
	if text == "" {
		return
	}
	g.rebuild(text, g.rows, g.cols)
}

func (g *Game) recordSolve(s puzzle.Solve) {
	g.logger.Info("solved", "image", s.Locator, "grid", fmt.Sprintf("%dx%d", s.Rows, s.Cols), "moves", s.Moves, "time", s.Duration.Round(10*time.Millisecond))
	if g.opts.Store == nil {
		return
	}
	if _, err := g.opts.Store.Record(s); err != nil {
		g.logger.Warn("could not record solve", "error", err)
	}
}

// loadScript installs the progression script from the config, if any. The
// board's default policy repeats the solved board.
func (g *Game) loadScript() {
	repeat := func(s puzzle.Solve) (string, int, int) {
		return g.followBoard(s.Locator, s.Rows, s.Cols)
	}
	if g.cfg.Script == "" {
		g.board.SetNextBoard(repeat)
		return
	}
	runner, err := progression.Load(g.cfg.Script, g.cfg.Gallery)
	if err != nil {
		g.logger.Warn("progression script disabled", "script", g.cfg.Script, "error", err)
		g.board.SetNextBoard(repeat)
		return
	}
	next := runner.NextBoard(g.logger)
	g.board.SetNextBoard(func(s puzzle.Solve) (string, int, int) {
		return g.followBoard(next(s))
	})
}

// followBoard records the board the game is moving to so restart and the
// menu act on it.
func (g *Game) followBoard(locator string, rows, cols int) (string, int, int) {
	rows = common.Clamp(rows, config.MinGrid, config.MaxGrid)
	cols = common.Clamp(cols, config.MinGrid, config.MaxGrid)
	g.image, g.rows, g.cols = locator, rows, cols
	if i := galleryIndex(g.cfg.Gallery, locator); i >= 0 {
		g.gallery = i
	}
	return locator, rows, cols
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path := <-g.watcher.Events:
			g.reloadConfig(path)
		case err := <-g.watcher.Errors:
			g.logger.Warn("config watcher error", "error", err)
		default:
			return
		}
	}
}

func (g *Game) reloadConfig(path string) {
	cfg, err := config.LoadFile(path)
	if err != nil {
		g.logger.Warn("config reload failed, keeping current settings", "error", err)
		return
	}
	g.logger.Info("config reloaded", "path", path)

	prev := g.cfg
	g.cfg = cfg
	g.board.SetStyle(cfg.PuzzleStyle())
	if cfg.Script != prev.Script {
		g.loadScript()
	}
	if cfg.Image != prev.Image || cfg.Rows != prev.Rows || cfg.Cols != prev.Cols {
		g.gallery = galleryIndex(cfg.Gallery, cfg.Image)
		g.rebuild(cfg.Image, cfg.Rows, cfg.Cols)
	}
}

func (g *Game) reportLoadError(err error) {
	var loadErr *puzzle.ImageLoadError
	if errors.As(err, &loadErr) {
		g.logger.Error("image load failed", "image", loadErr.Locator, "error", loadErr.Err)
		if g.board.State() == puzzle.StateReady {
			g.image = g.board.Locator()
			g.rows, g.cols = g.board.Rows(), g.board.Cols()
		}
		return
	}
	g.logger.Error("board update failed", "error", err)
}

func (g *Game) updateTitle() {
	var title string
	switch g.board.State() {
	case puzzle.StateReady:
		title = fmt.Sprintf("%s - %dx%d - %d moves", g.cfg.Window.Title, g.board.Rows(), g.board.Cols(), g.board.Moves())
	default:
		title = fmt.Sprintf("%s - %s", g.cfg.Window.Title, g.board.State())
	}
	if title != g.title {
		g.title = title
		ebiten.SetWindowTitle(title)
	}
}

func galleryIndex(gallery []string, locator string) int {
	for i, g := range gallery {
		if g == locator {
			return i
		}
	}
	return -1
}
