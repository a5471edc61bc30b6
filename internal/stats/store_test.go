package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestRecordAndRecent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.sqlite")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	runs := []Run{
		{ID: "a", Kind: KindVideo, Input: "cities.yaml", Output: "cities.mp4", Encoder: "libx264",
			Steps: 4, Frames: 315, Media: 10500 * time.Millisecond, Elapsed: 7 * time.Second, PeakRSS: 200 << 20, CreatedAt: base},
		{ID: "b", Kind: KindImage, Input: "cities.yaml", Output: "cities.png",
			Steps: 4, Elapsed: 800 * time.Millisecond, CreatedAt: base.Add(time.Minute)},
		{ID: "c", Kind: KindVideo, Input: "planets.xlsx", Output: "planets.mp4",
			Steps: 9, Frames: 885, Elapsed: 20 * time.Second, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, r := range runs {
		if err := store.Record(ctx, r); err != nil {
			t.Fatalf("Record %s failed: %v", r.ID, err)
		}
	}

	got, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != "c" || got[1].ID != "b" {
		t.Fatalf("Unexpected order: %+v", got)
	}
	if got[1].Kind != KindImage || got[1].Elapsed != 800*time.Millisecond {
		t.Errorf("Fields not restored: %+v", got[1])
	}

	all, err := store.Recent(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	first := all[len(all)-1]
	if first.Media != 10500*time.Millisecond || first.PeakRSS != 200<<20 || first.Encoder != "libx264" {
		t.Errorf("Fields not restored: %+v", first)
	}
	if !first.CreatedAt.Equal(base) {
		t.Errorf("Expected %v, got %v", base, first.CreatedAt)
	}
	t.Logf("Run a: %.1f fps", first.FPS())
}

func TestDuplicateIDRejected(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "h.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	r := Run{ID: "same", Kind: KindVideo}
	if err := store.Record(context.Background(), r); err != nil {
		t.Fatal(err)
	}
	if err := store.Record(context.Background(), r); err == nil {
		t.Error("Expected primary key violation")
	}
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.sqlite")
	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Record(context.Background(), Run{ID: "x", Kind: KindImage}); err != nil {
		t.Fatal(err)
	}
	store.Close()

	store, err = Open(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer store.Close()
	runs, err := store.Recent(context.Background(), 10)
	if err != nil || len(runs) != 1 {
		t.Errorf("Expected one run after reopen, got %d (%v)", len(runs), err)
	}
}

func TestFPS(t *testing.T) {
	if fps := (Run{Frames: 300, Elapsed: 10 * time.Second}).FPS(); fps != 30 {
		t.Errorf("Expected 30 fps, got %v", fps)
	}
	if fps := (Run{Frames: 300}).FPS(); fps != 0 {
		t.Errorf("Expected 0 fps without elapsed time, got %v", fps)
	}
}
