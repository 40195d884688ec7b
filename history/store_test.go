package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/tilepuzzle/puzzle"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "solves.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenCreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b", "solves.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestStoreRecordAndRecent(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	solves := []puzzle.Solve{
		{Locator: "sunset.png", Rows: 4, Cols: 4, Moves: 80, Duration: 95 * time.Second},
		{Locator: "rings.png", Rows: 3, Cols: 3, Moves: 20, Duration: 30 * time.Second},
		{Locator: "mosaic.png", Rows: 4, Cols: 4, Moves: 60, Duration: 120 * time.Second},
	}
	for _, s := range solves {
		if _, err := store.Record(s); err != nil {
			t.Fatalf("Record() failed: %v", err)
		}
	}

	recent, err := store.Recent(2)
	if err != nil {
		t.Fatalf("Recent() failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(recent))
	}
	if recent[0].Image != "mosaic.png" || recent[1].Image != "rings.png" {
		t.Errorf("expected newest first, got %s then %s", recent[0].Image, recent[1].Image)
	}
	if recent[0].Duration != 120*time.Second {
		t.Errorf("duration round trip: got %v", recent[0].Duration)
	}
	if !recent[0].CreatedAt.Equal(base.Add(3 * time.Minute)) {
		t.Errorf("created at %v", recent[0].CreatedAt)
	}
}

func TestStoreBest(t *testing.T) {
	store := openTestStore(t)

	for _, s := range []puzzle.Solve{
		{Locator: "a", Rows: 4, Cols: 4, Moves: 80, Duration: time.Minute},
		{Locator: "b", Rows: 4, Cols: 4, Moves: 60, Duration: 2 * time.Minute},
		{Locator: "c", Rows: 4, Cols: 4, Moves: 60, Duration: time.Minute},
		{Locator: "d", Rows: 3, Cols: 5, Moves: 10, Duration: time.Minute},
	} {
		if _, err := store.Record(s); err != nil {
			t.Fatalf("Record() failed: %v", err)
		}
	}

	best, ok, err := store.Best(4, 4)
	if err != nil || !ok {
		t.Fatalf("Best() = %v, %v", ok, err)
	}
	if best.Image != "c" {
		t.Errorf("expected fewest moves then fastest, got %s", best.Image)
	}

	if _, ok, err := store.Best(9, 9); err != nil || ok {
		t.Errorf("expected no entry for 9x9, got ok=%v err=%v", ok, err)
	}

	sizes, err := store.GridSizes()
	if err != nil {
		t.Fatalf("GridSizes() failed: %v", err)
	}
	if len(sizes) != 2 || sizes[0] != [2]int{3, 5} || sizes[1] != [2]int{4, 4} {
		t.Errorf("unexpected sizes %v", sizes)
	}
}
