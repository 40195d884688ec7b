package render

import (
	"context"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/tilepuzzle/assets"
	"github.com/milk9111/tilepuzzle/puzzle"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, twoTone(w, h)); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func TestLoaderSources(t *testing.T) {
	dir := t.TempDir()
	onDisk := filepath.Join(dir, "disk.png")
	writePNG(t, onDisk, 12, 8)

	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/remote.png" {
			http.NotFound(w, r)
			return
		}
		_ = png.Encode(w, twoTone(6, 4))
	}))
	defer srv.Close()

	cases := []struct {
		name    string
		locator string
		wantW   int
		wantErr bool
	}{
		{"embedded", assets.Default, 480, false},
		{"embedded_prefixed", "assets/" + assets.Default, 480, false},
		{"disk", onDisk, 12, false},
		{"remote", srv.URL + "/remote.png", 6, false},
		{"remote_missing", srv.URL + "/nope.png", 0, true},
		{"missing", filepath.Join(dir, "missing.png"), 0, true},
		{"undecodable", garbage, 0, true},
		{"empty", "", 0, true},
	}

	l := NewLoader()
	l.NoCache = true
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			img, err := l.Load(context.Background(), c.locator)
			if c.wantErr {
				var le *puzzle.ImageLoadError
				if !errors.As(err, &le) {
					t.Fatalf("expected ImageLoadError, got %v", err)
				}
				if le.Locator != c.locator {
					t.Fatalf("error names %q, want %q", le.Locator, c.locator)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load(%q): %v", c.locator, err)
			}
			if got := img.Bounds().Dx(); got != c.wantW {
				t.Fatalf("width %d, want %d", got, c.wantW)
			}
		})
	}
}

func TestLoaderCaches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cached.png")
	writePNG(t, path, 4, 4)
	defer ForgetImage(path)

	l := NewLoader()
	first, err := l.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}

	second, err := l.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("cached Load: %v", err)
	}
	if first != second {
		t.Fatalf("expected the cached image")
	}

	ForgetImage(path)
	if _, err := l.Load(context.Background(), path); err == nil {
		t.Fatalf("expected error after forgetting a deleted image")
	}
}

func TestRegistryIgnoresEmpty(t *testing.T) {
	RegisterImage("", twoTone(2, 2))
	RegisterImage("nil", nil)
	if GetImage("") != nil || GetImage("nil") != nil {
		t.Fatalf("empty keys and nil images must not be stored")
	}
}
