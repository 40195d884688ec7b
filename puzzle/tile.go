package puzzle

import (
	"image"
)

// NoPointer is the coordinate used when no pointer is over the surface.
// It lies outside every tile so it never satisfies a hover test.
const NoPointer = -1

// Tile is one grid cell of the puzzle.
//
// Row and Col are the tile's current placement. The row index runs along the
// surface width and the column index along its height, so a tile at (r, c)
// covers x in [r*w, (r+1)*w] and y in [c*h, (c+1)*h].
type Tile struct {
	Row, Col         int
	HomeRow, HomeCol int

	// image cell size and origin, fixed for the tile's lifetime
	cellW, cellH float64
	origin       image.Point

	// destination size on the surface, updated on resize
	destW, destH float64

	cursor bool
}

func newTile(row, col int, cellW, cellH float64, origin image.Point, destW, destH float64) Tile {
	return Tile{
		Row:     row,
		Col:     col,
		HomeRow: row,
		HomeCol: col,
		cellW:   cellW,
		cellH:   cellH,
		origin:  origin,
		destW:   destW,
		destH:   destH,
	}
}

// DestinationRect is where the tile is drawn on the surface.
func (t *Tile) DestinationRect() Rect {
	x0 := float64(t.Row) * t.destW
	y0 := float64(t.Col) * t.destH
	return Rect{X0: x0, Y0: y0, X1: x0 + t.destW, Y1: y0 + t.destH}
}

// SourceRect is the region of the source image the tile shows.
func (t *Tile) SourceRect() Rect {
	x0 := float64(t.origin.X) + float64(t.HomeRow)*t.cellW
	y0 := float64(t.origin.Y) + float64(t.HomeCol)*t.cellH
	return Rect{X0: x0, Y0: y0, X1: x0 + t.cellW, Y1: y0 + t.cellH}
}

// IsAdjacentTo reports whether the tile is exactly one orthogonal step from the cursor.
func (t *Tile) IsAdjacentTo(cursorRow, cursorCol int) bool {
	dr := abs(t.Row - cursorRow)
	dc := abs(t.Col - cursorCol)
	return dr+dc == 1
}

// IsPointedAt reports whether (px, py) is over the tile and the tile is a legal move target.
func (t *Tile) IsPointedAt(px, py float64, cursorRow, cursorCol int) bool {
	return t.DestinationRect().Contains(px, py) && t.IsAdjacentTo(cursorRow, cursorCol)
}

// RelocateTo moves the tile to a new grid placement. The home placement is untouched.
func (t *Tile) RelocateTo(row, col int) {
	t.Row = row
	t.Col = col
}

// IsHome reports whether the tile sits at its solved placement.
func (t *Tile) IsHome() bool {
	return t.Row == t.HomeRow && t.Col == t.HomeCol
}

// IsCursor reports whether the tile is drawn as the cursor marker.
func (t *Tile) IsCursor() bool {
	return t.cursor
}

func (t *Tile) resize(destW, destH float64) {
	t.destW = destW
	t.destH = destH
}

// Render draws the tile onto s. The cursor tile is a solid marker; every other
// tile shows its slice of img, with the hover overlay when it is a legal target
// under the pointer.
func (t *Tile) Render(s Surface, img image.Image, style Style, px, py float64, cursorRow, cursorCol int) {
	dst := t.DestinationRect()
	if t.cursor {
		s.Fill(dst, style.Cursor)
		return
	}

	s.DrawRegion(img, t.SourceRect(), dst)

	if t.IsPointedAt(px, py, cursorRow, cursorCol) {
		s.Fill(dst, style.Hover)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
