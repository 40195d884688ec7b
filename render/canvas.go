package render

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/tilepuzzle/puzzle"
)

// Canvas is an offscreen ebiten image the board paints onto. The game copies
// it to the screen every frame, so what was drawn persists between events.
type Canvas struct {
	target *ebiten.Image

	// last source converted to a GPU image
	src      image.Image
	srcImage *ebiten.Image
}

// NewCanvas allocates a w x h canvas.
func NewCanvas(w, h int) *Canvas {
	return &Canvas{target: ebiten.NewImage(max(w, 1), max(h, 1))}
}

var _ puzzle.Surface = (*Canvas)(nil)

func (c *Canvas) Size() (int, int) {
	b := c.target.Bounds()
	return b.Dx(), b.Dy()
}

// Target is the image to draw to the screen.
func (c *Canvas) Target() *ebiten.Image {
	return c.target
}

// Resize reallocates the canvas when the size changed.
func (c *Canvas) Resize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	if cw, ch := c.Size(); cw == w && ch == h {
		return
	}
	c.target.Deallocate()
	c.target = ebiten.NewImage(w, h)
}

func (c *Canvas) DrawRegion(img image.Image, src, dst puzzle.Rect) {
	source := c.sourceImage(img)
	sub, ok := source.SubImage(src.Image()).(*ebiten.Image)
	if !ok {
		return
	}
	b := sub.Bounds()
	if b.Empty() || dst.Dx() <= 0 || dst.Dy() <= 0 {
		return
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(dst.Dx()/float64(b.Dx()), dst.Dy()/float64(b.Dy()))
	op.GeoM.Translate(dst.X0, dst.Y0)
	op.Filter = ebiten.FilterLinear
	c.target.DrawImage(sub, op)
}

func (c *Canvas) Fill(dst puzzle.Rect, clr color.Color) {
	vector.DrawFilledRect(c.target, float32(dst.X0), float32(dst.Y0), float32(dst.Dx()), float32(dst.Dy()), clr, false)
}

func (c *Canvas) sourceImage(img image.Image) *ebiten.Image {
	if eimg, ok := img.(*ebiten.Image); ok {
		return eimg
	}
	if c.src != img {
		if c.srcImage != nil {
			c.srcImage.Deallocate()
		}
		c.src = img
		c.srcImage = ebiten.NewImageFromImage(img)
	}
	return c.srcImage
}
