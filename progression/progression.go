// Package progression runs an optional tengo script that picks the board
// shown after a puzzle is solved.
//
// A script defines a function
//
//	next := func(solve) { return {image: "...", rows: 4, cols: 4} }
//
// where solve has the keys image, rows, cols, moves, seconds, gallery and
// index (the gallery position of image, or -1). Keys missing from the
// returned map keep the solved board's value.
package progression

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/tilepuzzle/puzzle"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

const dispatchScript = `
__result := next(__solve)
`

// Choice is the board a script asked for.
type Choice struct {
	Image string
	Rows  int
	Cols  int
}

// Runner holds a compiled progression script.
type Runner struct {
	name     string
	compiled *tengo.Compiled
	gallery  []string
}

// LoadScript reads a script from disk, falling back to the embedded scripts
// so "grow" or "scripts/grow.tengo" name a built-in one.
func LoadScript(name string) ([]byte, error) {
	if data, err := os.ReadFile(name); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(cleanScriptPath(name))
}

// Load reads and compiles a script.
func Load(name string, gallery []string) (*Runner, error) {
	src, err := LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("progression: load %s: %w", name, err)
	}
	return Compile(name, src, gallery)
}

// Compile builds a Runner from script source.
func Compile(name string, src []byte, gallery []string) (*Runner, error) {
	script := tengo.NewScript([]byte(string(src) + "\n" + dispatchScript))
	_ = script.Add("__solve", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("progression: compile %s: %w", name, err)
	}
	return &Runner{name: name, compiled: compiled, gallery: gallery}, nil
}

// Next runs the script for a finished board.
func (r *Runner) Next(s puzzle.Solve) (Choice, error) {
	choice := Choice{Image: s.Locator, Rows: s.Rows, Cols: s.Cols}

	gallery := make([]any, 0, len(r.gallery))
	index := -1
	for i, g := range r.gallery {
		gallery = append(gallery, g)
		if g == s.Locator && index < 0 {
			index = i
		}
	}

	solve := map[string]any{
		"image":   s.Locator,
		"rows":    s.Rows,
		"cols":    s.Cols,
		"moves":   s.Moves,
		"seconds": s.Duration.Seconds(),
		"gallery": gallery,
		"index":   index,
	}
	if err := r.compiled.Set("__solve", solve); err != nil {
		return choice, fmt.Errorf("progression: %s: %w", r.name, err)
	}
	if err := r.compiled.Run(); err != nil {
		return choice, fmt.Errorf("progression: run %s: %w", r.name, err)
	}

	result := r.compiled.Get("__result").Map()
	if v, ok := result["image"].(string); ok && strings.TrimSpace(v) != "" {
		choice.Image = v
	}
	if v, ok := asInt(result["rows"]); ok {
		choice.Rows = v
	}
	if v, ok := asInt(result["cols"]); ok {
		choice.Cols = v
	}
	return choice, nil
}

// NextBoard adapts the runner to the board's auto-advance hook. Script
// errors are logged and the solved board is repeated.
func (r *Runner) NextBoard(logger *log.Logger) puzzle.NextBoardFunc {
	return func(s puzzle.Solve) (string, int, int) {
		choice, err := r.Next(s)
		if err != nil && logger != nil {
			logger.Warn("progression script failed", "script", r.name, "error", err)
		}
		return choice.Image, choice.Rows, choice.Cols
	}
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int64:
		return int(n), true
	case int:
		return n, true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func cleanScriptPath(path string) string {
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "progression/"); ok {
		s = after
	}
	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}
	if !strings.HasSuffix(s, ".tengo") {
		s += ".tengo"
	}
	return fmt.Sprintf("scripts/%s", s)
}
