package render

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/milk9111/tilepuzzle/puzzle"
	xdraw "golang.org/x/image/draw"
)

func twoTone(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < w/2 {
				img.Set(x, y, color.RGBA{R: 0xff, A: 0xff})
			} else {
				img.Set(x, y, color.RGBA{B: 0xff, A: 0xff})
			}
		}
	}
	return img
}

func TestRasterFill(t *testing.T) {
	cases := []struct {
		name  string
		base  color.Color
		fill  color.Color
		check func(t *testing.T, got color.RGBA)
	}{
		{
			name: "opaque_replaces",
			base: color.RGBA{G: 0xff, A: 0xff},
			fill: color.RGBA{R: 0xff, A: 0xff},
			check: func(t *testing.T, got color.RGBA) {
				if got != (color.RGBA{R: 0xff, A: 0xff}) {
					t.Fatalf("expected red, got %v", got)
				}
			},
		},
		{
			name: "translucent_blends",
			base: color.RGBA{A: 0xff},
			fill: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x80},
			check: func(t *testing.T, got color.RGBA) {
				if got.R < 0x70 || got.R > 0x90 || got.A != 0xff {
					t.Fatalf("expected half grey, got %v", got)
				}
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := NewRaster(10, 10)
			r.Fill(puzzle.Rect{X1: 10, Y1: 10}, c.base)
			r.Fill(puzzle.Rect{X0: 2, Y0: 2, X1: 6, Y1: 6}, c.fill)

			c.check(t, r.Image().RGBAAt(3, 3))
			if outside := r.Image().RGBAAt(8, 8); outside != color.RGBAModel.Convert(c.base).(color.RGBA) {
				t.Fatalf("fill leaked outside its rect: %v", outside)
			}
		})
	}
}

func TestRasterDrawRegionScales(t *testing.T) {
	src := twoTone(4, 4)
	r := NewRaster(40, 20)
	r.Scaler = xdraw.NearestNeighbor

	// right half of the source (blue) stretched over the left half of the surface
	r.DrawRegion(src, puzzle.Rect{X0: 2, Y0: 0, X1: 4, Y1: 4}, puzzle.Rect{X0: 0, Y0: 0, X1: 20, Y1: 20})

	if got := r.Image().RGBAAt(10, 10); got != (color.RGBA{B: 0xff, A: 0xff}) {
		t.Fatalf("expected blue inside destination, got %v", got)
	}
	if got := r.Image().RGBAAt(30, 10); got != (color.RGBA{}) {
		t.Fatalf("expected untouched pixel outside destination, got %v", got)
	}
}

func TestRasterWritePNG(t *testing.T) {
	r := NewRaster(8, 6)
	r.Fill(puzzle.Rect{X1: 8, Y1: 6}, color.RGBA{R: 10, G: 20, B: 30, A: 0xff})

	var buf bytes.Buffer
	if err := r.WritePNG(&buf); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Fatalf("unexpected bounds %v", b)
	}
}

func TestRasterBoard(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for i := range src.Pix {
		src.Pix[i] = 0x40
		if i%4 == 3 {
			src.Pix[i] = 0xff
		}
	}
	r := NewRaster(100, 100)
	loader := puzzle.LoaderFunc(func(ctx context.Context, locator string) (image.Image, error) {
		return src, nil
	})
	b := puzzle.NewBoard(r, loader, puzzle.WithSeed(3))

	if err := b.Rebuild(context.Background(), "grey", 2, 2); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := b.Await(ctx); err != nil {
		t.Fatalf("Await: %v", err)
	}

	if got := r.Image().RGBAAt(25, 25); got != (color.RGBA{R: 0xff, A: 0xff}) {
		t.Fatalf("expected cursor marker at (0,0), got %v", got)
	}
	if got := r.Image().RGBAAt(75, 75); got.R != 0x40 {
		t.Fatalf("expected picture at (1,1), got %v", got)
	}

	// hovering the tile right of the cursor brightens it
	b.HandlePointerMove(75, 25)
	if got := r.Image().RGBAAt(75, 25); got.R <= 0x40 {
		t.Fatalf("expected hover overlay, got %v", got)
	}
	b.HandlePointerLeave()
	if got := r.Image().RGBAAt(75, 25); got.R != 0x40 {
		t.Fatalf("overlay should clear on leave, got %v", got)
	}
}
