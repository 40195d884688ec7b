package puzzle

import (
	"image"
	"math"
)

// Rect is an axis-aligned rectangle in surface or image pixel space.
// Coordinates are fractional because grid cells rarely divide a surface evenly.
type Rect struct {
	X0, Y0 float64
	X1, Y1 float64
}

// RectFrom converts an integer rectangle.
func RectFrom(r image.Rectangle) Rect {
	return Rect{X0: float64(r.Min.X), Y0: float64(r.Min.Y), X1: float64(r.Max.X), Y1: float64(r.Max.Y)}
}

func (r Rect) Dx() float64 { return r.X1 - r.X0 }
func (r Rect) Dy() float64 { return r.Y1 - r.Y0 }

// Contains reports whether (x, y) lies inside r. Both edges are inclusive,
// so a point on a shared border belongs to both neighbours.
func (r Rect) Contains(x, y float64) bool {
	return r.X0 <= x && x <= r.X1 && r.Y0 <= y && y <= r.Y1
}

// Image rounds r to the nearest integer rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(
		int(math.Round(r.X0)), int(math.Round(r.Y0)),
		int(math.Round(r.X1)), int(math.Round(r.Y1)),
	)
}
