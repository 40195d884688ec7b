package puzzle

import (
	"context"
	"image"
	"image/color"

	"golang.org/x/image/colornames"
)

// Surface is the drawing target a board paints its tiles onto.
type Surface interface {
	// Size returns the surface dimensions in pixels.
	Size() (width, height int)
	// DrawRegion scales the src region of img into dst.
	DrawRegion(img image.Image, src, dst Rect)
	// Fill paints dst with c. Translucent colours are blended over what is
	// already there; opaque colours replace it.
	Fill(dst Rect, c color.Color)
}

// Loader turns an image locator (asset name, path or URL) into a decoded image.
type Loader interface {
	Load(ctx context.Context, locator string) (image.Image, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, locator string) (image.Image, error)

func (f LoaderFunc) Load(ctx context.Context, locator string) (image.Image, error) {
	return f(ctx, locator)
}

// Style holds the colours used for the cursor marker and the hover overlay.
type Style struct {
	Cursor color.Color
	Hover  color.Color
}

// DefaultStyle is a solid red cursor and a 30% white hover overlay.
func DefaultStyle() Style {
	return Style{
		Cursor: colornames.Red,
		Hover:  color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x4d},
	}
}
