package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/noisefield/internal/cache"
	"github.com/san-kum/noisefield/internal/experiment"
)

func testResult(name string) *experiment.Result {
	return &experiment.Result{
		Name:      name,
		Source:    "perlin",
		Width:     80,
		Height:    23,
		Frames:    2,
		Precision: 1,
		MaxSize:   2000,
		Elapsed:   100 * time.Millisecond,
		Stats:     cache.Stats{Hits: 3, Misses: 1, Evictions: 7},
		CacheLen:  42,
		Samples: []experiment.Sample{
			{Frame: 0, Duration: 60 * time.Millisecond, HitRatio: 0, CacheLen: 21},
			{Frame: 1, Duration: 40 * time.Millisecond, HitRatio: 0.75, CacheLen: 42},
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(testResult("fast"))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Preset != "fast" {
		t.Errorf("expected preset 'fast', got '%s'", meta.Preset)
	}
	if meta.HitRatio != 0.75 {
		t.Errorf("expected hit ratio 0.75, got %f", meta.HitRatio)
	}
	if meta.FPS != 20 {
		t.Errorf("expected fps 20, got %f", meta.FPS)
	}
	if meta.Evictions != 7 || meta.CacheLen != 42 {
		t.Errorf("expected evictions 7 and cache len 42, got %d and %d", meta.Evictions, meta.CacheLen)
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[0].Duration != 60*time.Millisecond || frames[1].HitRatio != 0.75 || frames[1].CacheLen != 42 {
		t.Errorf("frames did not round-trip: %+v", frames)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	first, err := st.Save(testResult("fast"))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save(testResult("fast"))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if first == second {
		t.Fatalf("two saves share the id %s", first)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != first || runs[1].ID != second {
		t.Errorf("list order = %s, %s; want %s, %s", runs[0].ID, runs[1].ID, first, second)
	}

	latest, err := st.Latest()
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if latest.ID != second {
		t.Errorf("latest = %s, want %s", latest.ID, second)
	}
}

func TestStoreMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("List() = %v, %v; want empty", runs, err)
	}
	if _, err := st.Latest(); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Latest() error = %v, want ErrRunNotFound", err)
	}
}

func TestStoreRunNotFound(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope_1"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Load error = %v, want ErrRunNotFound", err)
	}
	if _, err := st.LoadFrames("nope_1"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("LoadFrames error = %v, want ErrRunNotFound", err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(testResult("exact"))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{"metadata.json", "frames.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}
