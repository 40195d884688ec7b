package render

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/milk9111/tilepuzzle/puzzle"
	xdraw "golang.org/x/image/draw"
)

// Raster is a CPU-side drawing surface backed by an *image.RGBA. It serves
// headless rendering and tests where no ebiten context exists.
type Raster struct {
	img    *image.RGBA
	Scaler xdraw.Scaler
}

// NewRaster allocates a w x h surface.
func NewRaster(w, h int) *Raster {
	return &Raster{
		img:    image.NewRGBA(image.Rect(0, 0, w, h)),
		Scaler: xdraw.ApproxBiLinear,
	}
}

var _ puzzle.Surface = (*Raster)(nil)

func (r *Raster) Size() (int, int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image exposes the backing pixels.
func (r *Raster) Image() *image.RGBA {
	return r.img
}

// Resize reallocates the surface, discarding its contents.
func (r *Raster) Resize(w, h int) {
	r.img = image.NewRGBA(image.Rect(0, 0, w, h))
}

func (r *Raster) DrawRegion(img image.Image, src, dst puzzle.Rect) {
	d, s := dst.Image(), src.Image()
	if d.Empty() || s.Empty() {
		return
	}
	r.Scaler.Scale(r.img, d, img, s, xdraw.Src, nil)
}

func (r *Raster) Fill(dst puzzle.Rect, c color.Color) {
	op := xdraw.Over
	if _, _, _, a := c.RGBA(); a == 0xffff {
		op = xdraw.Src
	}
	xdraw.Draw(r.img, dst.Image(), image.NewUniform(c), image.Point{}, op)
}

// WritePNG encodes the surface.
func (r *Raster) WritePNG(w io.Writer) error {
	return png.Encode(w, r.img)
}
