package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/tilepuzzle/assets"
	"github.com/milk9111/tilepuzzle/puzzle"
	"gopkg.in/yaml.v3"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name  string
		yaml  string
		check func(t *testing.T, c Config)
	}{
		{
			name: "empty_uses_defaults",
			yaml: "",
			check: func(t *testing.T, c Config) {
				if c.Rows != 4 || c.Cols != 4 || c.Image != assets.Default {
					t.Fatalf("unexpected defaults %+v", c)
				}
				if len(c.Gallery) != len(assets.Names()) {
					t.Fatalf("empty gallery should list embedded pictures, got %v", c.Gallery)
				}
				if c.PuzzleStyle() != puzzle.DefaultStyle() {
					t.Fatalf("expected default style, got %+v", c.PuzzleStyle())
				}
			},
		},
		{
			name: "overrides",
			yaml: "image: photo.jpg\nrows: 3\ncols: 6\nseed: 42\ngallery: [a.png, b.png]\nwindow:\n  title: mine\n",
			check: func(t *testing.T, c Config) {
				if c.Image != "photo.jpg" || c.Rows != 3 || c.Cols != 6 || c.Seed != 42 {
					t.Fatalf("overrides not applied: %+v", c)
				}
				if len(c.Gallery) != 2 || c.Gallery[1] != "b.png" {
					t.Fatalf("gallery %v", c.Gallery)
				}
				if c.Window.Title != "mine" || c.Window.Width != 960 {
					t.Fatalf("window %+v", c.Window)
				}
			},
		},
		{
			name: "clamped_grid",
			yaml: "rows: 0\ncols: 99\nwindow:\n  width: 10\n",
			check: func(t *testing.T, c Config) {
				if c.Rows != MinGrid || c.Cols != MaxGrid {
					t.Fatalf("grid not clamped: %dx%d", c.Rows, c.Cols)
				}
				if c.Window.Width != minWindow {
					t.Fatalf("window width %d", c.Window.Width)
				}
			},
		},
		{
			name: "colors",
			yaml: "style:\n  cursor: \"#00ff00\"\n  hover: \"#0000ff80\"\n",
			check: func(t *testing.T, c Config) {
				if c.Style.Cursor.Color != (color.NRGBA{G: 0xff, A: 0xff}) {
					t.Fatalf("cursor %v", c.Style.Cursor.Color)
				}
				if c.Style.Hover.Color != (color.NRGBA{B: 0xff, A: 0x80}) {
					t.Fatalf("hover %v", c.Style.Hover.Color)
				}
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg, err := Parse([]byte(c.yaml))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			c.check(t, cfg)
		})
	}
}

func TestYAMLColorRejects(t *testing.T) {
	for _, s := range []string{"red", "#fff", "#gg0000", "[1, 2]"} {
		var v struct {
			C YAMLColor `yaml:"c"`
		}
		if err := yaml.Unmarshal([]byte("c: "+s), &v); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "puzzle.yaml")
	if err := os.WriteFile(path, []byte("rows: 5\ncols: 3\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, used, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if used != path || cfg.Rows != 5 || cfg.Cols != 3 {
		t.Fatalf("got %q %dx%d", used, cfg.Rows, cfg.Cols)
	}

	if _, _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing custom path")
	}

	if err := os.WriteFile(path, []byte("rows: [\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadEmbeddedDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	cfg, used, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if used != "" || cfg.Image != assets.Default || cfg.History.Path != "~/.tilepuzzle/solves.db" {
		t.Fatalf("expected embedded default, got %q %+v", used, cfg)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandHome("~/x/solves.db")
	if err != nil {
		t.Fatalf("ExpandHome: %v", err)
	}
	if got != filepath.Join(home, "x", "solves.db") {
		t.Fatalf("got %q", got)
	}
	if got, _ := ExpandHome("/abs"); got != "/abs" {
		t.Fatalf("absolute path changed: %q", got)
	}
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	other := filepath.Join(dir, "other.yaml")
	if err := os.WriteFile(path, []byte("rows: 3\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(other, []byte("x: 1\n"), 0o644); err != nil {
		t.Fatalf("write other: %v", err)
	}
	if err := os.WriteFile(path, []byte("rows: 4\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case name := <-w.Events:
		if name != path {
			t.Fatalf("event for %q, want %q", name, path)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no event for config write")
	}
}

func TestLoadBrokenEmbeddedDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	saved := defaultYAML
	t.Cleanup(func() { defaultYAML = saved })
	defaultYAML = []byte("rows: [\n")

	if _, _, err := Load(""); err == nil {
		t.Fatalf("expected error for a broken embedded default")
	}
}
