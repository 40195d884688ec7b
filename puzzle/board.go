package puzzle

import (
	"context"
	"fmt"
	"image"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
)

// State is the lifecycle phase of a board.
type State int

const (
	// StateEmpty means no image has been loaded yet.
	StateEmpty State = iota
	// StateLoading means a rebuild is in flight. Mutating events are ignored.
	StateLoading
	// StateReady means the grid is built and accepts input.
	StateReady
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Solve describes a finished board.
type Solve struct {
	Locator  string
	Rows     int
	Cols     int
	Moves    int
	Duration time.Duration
}

// NextBoardFunc picks the board that replaces a solved one.
type NextBoardFunc func(s Solve) (locator string, rows, cols int)

type loadResult struct {
	gen     uint64
	locator string
	rows    int
	cols    int
	img     image.Image
	err     error
}

// Board owns the tile grid, the cursor and the drawing surface.
//
// Tiles live in an arena; slots maps each grid cell (row*cols+col) to the
// index of the tile occupying it. A Board must only be used from one
// goroutine. Image loads run in the background and are applied by Update.
type Board struct {
	surface Surface
	loader  Loader
	style   Style
	rng     *rand.Rand
	logger  *log.Logger
	now     func() time.Time

	onSolved func(Solve)
	next     NextBoardFunc

	state   State
	gen     uint64
	cancel  context.CancelFunc
	results chan loadResult

	img     image.Image
	locator string
	rows    int
	cols    int
	width   int
	height  int

	cursorRow int
	cursorCol int
	tiles     []Tile
	slots     []int

	moves     int
	startedAt time.Time
}

// Option configures a Board.
type Option func(*Board)

// WithSeed makes shuffles reproducible.
func WithSeed(seed uint64) Option {
	return func(b *Board) {
		b.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithRand sets the random source used for shuffling.
func WithRand(r *rand.Rand) Option {
	return func(b *Board) {
		if r != nil {
			b.rng = r
		}
	}
}

func WithStyle(s Style) Option {
	return func(b *Board) { b.style = s }
}

func WithLogger(l *log.Logger) Option {
	return func(b *Board) {
		if l != nil {
			b.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(b *Board) {
		if now != nil {
			b.now = now
		}
	}
}

// OnSolved registers a callback invoked when a click completes the picture.
func OnSolved(fn func(Solve)) Option {
	return func(b *Board) { b.onSolved = fn }
}

// WithNextBoard sets the auto-advance policy. The default keeps the same
// image and grid size.
func WithNextBoard(fn NextBoardFunc) Option {
	return func(b *Board) { b.next = fn }
}

// NewBoard creates an empty board drawing onto surface. Call Rebuild to load
// the first image.
func NewBoard(surface Surface, loader Loader, opts ...Option) *Board {
	w, h := surface.Size()
	b := &Board{
		surface: surface,
		loader:  loader,
		style:   DefaultStyle(),
		rng:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		logger:  log.New(io.Discard),
		now:     time.Now,
		results: make(chan loadResult, 4),
		width:   w,
		height:  h,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Board) State() State { return b.state }
func (b *Board) Rows() int { return b.rows }
func (b *Board) Cols() int { return b.cols }
func (b *Board) Moves() int { return b.moves }
func (b *Board) Locator() string { return b.locator }
func (b *Board) Image() image.Image { return b.img }

// Cursor returns the grid cell holding the cursor tile.
func (b *Board) Cursor() (row, col int) {
	return b.cursorRow, b.cursorCol
}

// SurfaceSize returns the surface dimensions the board lays tiles out against.
func (b *Board) SurfaceSize() (width, height int) {
	return b.width, b.height
}

// TileAt returns a copy of the tile occupying (row, col).
func (b *Board) TileAt(row, col int) (Tile, bool) {
	if row < 0 || row >= b.rows || col < 0 || col >= b.cols || len(b.slots) == 0 {
		return Tile{}, false
	}
	return b.tiles[b.slots[b.slotIndex(row, col)]], true
}

// Tiles returns copies of every tile in row-major slot order.
func (b *Board) Tiles() []Tile {
	out := make([]Tile, 0, len(b.slots))
	for _, id := range b.slots {
		out = append(out, b.tiles[id])
	}
	return out
}

// SetStyle replaces the colours and redraws.
func (b *Board) SetStyle(s Style) {
	b.style = s
	b.Redraw(NoPointer, NoPointer)
}

// SetNextBoard replaces the auto-advance policy.
func (b *Board) SetNextBoard(fn NextBoardFunc) {
	b.next = fn
}

// Rebuild starts loading locator and replaces the grid with a freshly
// shuffled rows x cols board once it arrives. It returns immediately; the
// result is applied by Update or Await. A newer Rebuild supersedes any load
// still in flight.
func (b *Board) Rebuild(ctx context.Context, locator string, rows, cols int) error {
	if rows < 1 || cols < 1 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidGrid, rows, cols)
	}

	if b.cancel != nil {
		b.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.gen++
	gen := b.gen
	b.state = StateLoading

	b.logger.Debug("rebuild requested", "image", locator, "rows", rows, "cols", cols, "gen", gen)

	go func() {
		img, err := b.loader.Load(loadCtx, locator)
		res := loadResult{gen: gen, locator: locator, rows: rows, cols: cols, img: img, err: err}
		select {
		case b.results <- res:
		default:
			// buffer full; a superseded or abandoned load gives up
			select {
			case b.results <- res:
			case <-loadCtx.Done():
			}
		}
	}()
	return nil
}

// Update applies finished image loads without blocking. A failed load is
// returned as *ImageLoadError; the previous board stays as it was.
func (b *Board) Update() error {
	for {
		select {
		case res := <-b.results:
			if err := b.apply(res); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// Await blocks until the newest rebuild has been applied.
func (b *Board) Await(ctx context.Context) error {
	for b.state == StateLoading {
		select {
		case res := <-b.results:
			if err := b.apply(res); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (b *Board) apply(res loadResult) error {
	if res.gen != b.gen {
		b.logger.Debug("discarding stale image load", "image", res.locator, "gen", res.gen, "current", b.gen)
		return nil
	}

	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}

	if res.err == nil && res.img == nil {
		res.err = fmt.Errorf("loader returned no image")
	}
	if res.err != nil {
		if len(b.tiles) > 0 {
			b.state = StateReady
			b.relayout()
		} else {
			b.state = StateEmpty
		}
		return asImageLoadError(res.locator, res.err)
	}

	b.build(res.img, res.locator, res.rows, res.cols)
	b.logger.Info("board ready", "image", res.locator, "rows", res.rows, "cols", res.cols)
	return nil
}

// build replaces the grid, previews the solved picture, shuffles and draws.
func (b *Board) build(img image.Image, locator string, rows, cols int) {
	b.layout(img, locator, rows, cols)

	b.surface.DrawRegion(img, RectFrom(img.Bounds()), Rect{X1: float64(b.width), Y1: float64(b.height)})

	b.Shuffle()
	b.moves = 0
	b.startedAt = b.now()
	b.state = StateReady
	b.Redraw(NoPointer, NoPointer)
}

// layout creates rows x cols tiles at their home placements with the cursor at (0, 0).
func (b *Board) layout(img image.Image, locator string, rows, cols int) {
	bounds := img.Bounds()
	b.img = img
	b.locator = locator
	b.rows = rows
	b.cols = cols
	b.cursorRow, b.cursorCol = 0, 0

	cellW := float64(bounds.Dx()) / float64(rows)
	cellH := float64(bounds.Dy()) / float64(cols)
	destW, destH := b.destSize()

	b.tiles = make([]Tile, 0, rows*cols)
	b.slots = make([]int, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			b.slots[b.slotIndex(r, c)] = len(b.tiles)
			b.tiles = append(b.tiles, newTile(r, c, cellW, cellH, bounds.Min, destW, destH))
		}
	}
	b.tiles[b.slots[0]].cursor = true
}

func (b *Board) destSize() (float64, float64) {
	return float64(b.width) / float64(b.rows), float64(b.height) / float64(b.cols)
}

func (b *Board) slotIndex(row, col int) int {
	return row*b.cols + col
}

// Redraw renders every tile in row-major order. Pass NoPointer for both
// coordinates when the pointer is not over the surface.
func (b *Board) Redraw(px, py float64) {
	if b.state != StateReady {
		return
	}
	for _, id := range b.slots {
		b.tiles[id].Render(b.surface, b.img, b.style, px, py, b.cursorRow, b.cursorCol)
	}
}

func (b *Board) HandlePointerMove(px, py float64) {
	b.Redraw(px, py)
}

func (b *Board) HandlePointerLeave() {
	b.Redraw(NoPointer, NoPointer)
}

// HandlePointerClick swaps the first tile pointed at with the cursor tile and
// moves the cursor onto the clicked cell. It reports whether a swap happened.
// Completing the picture reports the solve and starts the next board.
func (b *Board) HandlePointerClick(px, py float64) bool {
	if b.state != StateReady {
		return false
	}

	target := -1
	for slot, id := range b.slots {
		if b.tiles[id].IsPointedAt(px, py, b.cursorRow, b.cursorCol) {
			target = slot
			break
		}
	}
	if target < 0 {
		return false
	}

	row, col := target/b.cols, target%b.cols
	b.swap(target, b.slotIndex(b.cursorRow, b.cursorCol))
	b.cursorRow, b.cursorCol = row, col
	b.moves++

	b.Redraw(px, py)

	if b.IsSolved() {
		b.finish()
	}
	return true
}

func (b *Board) swap(a, c int) {
	b.slots[a], b.slots[c] = b.slots[c], b.slots[a]
	b.tiles[b.slots[a]].RelocateTo(a/b.cols, a%b.cols)
	b.tiles[b.slots[c]].RelocateTo(c/b.cols, c%b.cols)
}

func (b *Board) finish() {
	solve := Solve{
		Locator:  b.locator,
		Rows:     b.rows,
		Cols:     b.cols,
		Moves:    b.moves,
		Duration: b.now().Sub(b.startedAt),
	}
	b.logger.Info("puzzle solved", "image", solve.Locator, "moves", solve.Moves, "duration", solve.Duration)

	if b.onSolved != nil {
		b.onSolved(solve)
	}

	locator, rows, cols := solve.Locator, solve.Rows, solve.Cols
	if b.next != nil {
		locator, rows, cols = b.next(solve)
	}
	if err := b.Rebuild(context.Background(), locator, rows, cols); err != nil {
		b.logger.Warn("next board rejected, repeating", "error", err)
		_ = b.Rebuild(context.Background(), solve.Locator, solve.Rows, solve.Cols)
	}
}

// IsSolved reports whether every tile sits at its home placement.
func (b *Board) IsSolved() bool {
	if len(b.slots) == 0 {
		return false
	}
	for _, id := range b.slots {
		if !b.tiles[id].IsHome() {
			return false
		}
	}
	return true
}

// ResizeSurface lays tiles out against a new surface size and redraws. While a
// load is in flight the size is only recorded; the next build picks it up.
func (b *Board) ResizeSurface(width, height int) {
	b.width = width
	b.height = height
	if b.state != StateReady {
		return
	}
	b.relayout()
}

// relayout fits every tile to the current surface size and redraws.
func (b *Board) relayout() {
	destW, destH := b.destSize()
	for i := range b.tiles {
		b.tiles[i].resize(destW, destH)
	}
	b.Redraw(NoPointer, NoPointer)
}
