package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/noisefield/internal/experiment"
)

var ErrRunNotFound = errors.New("storage: run not found")

var framesHeader = []string{"frame", "frame_ms", "hit_ratio", "cache_len"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string    `json:"id"`
	Preset        string    `json:"preset"`
	Source        string    `json:"source"`
	Timestamp     time.Time `json:"timestamp"`
	Width         int       `json:"width"`
	Height        int       `json:"height"`
	Frames        int       `json:"frames"`
	Precision     int       `json:"precision"`
	MaxSize       int       `json:"max_size"`
	EvictFraction float64   `json:"evict_fraction"`
	Workers       int       `json:"workers"`
	TotalTime     float64   `json:"total_time_s"`
	FPS           float64   `json:"fps"`
	HitRatio      float64   `json:"hit_ratio"`
	CacheLen      int       `json:"cache_len"`
	Evictions     uint64    `json:"evictions"`
	MinObserved   float64   `json:"min_observed"`
	MaxObserved   float64   `json:"max_observed"`
}

// nextID returns an unused run id for name.
func (s *Store) nextID(name string, now time.Time) string {
	base := fmt.Sprintf("%s_%d", name, now.Unix())
	id := base
	for i := 1; ; i++ {
		if _, err := os.Stat(filepath.Join(s.baseDir, id)); os.IsNotExist(err) {
			return id
		}
		id = fmt.Sprintf("%s_%d", base, i)
	}
}

func (s *Store) Save(res *experiment.Result) (string, error) {
	now := time.Now()
	runID := s.nextID(res.Name, now)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Preset:        res.Name,
		Source:        res.Source,
		Timestamp:     now,
		Width:         res.Width,
		Height:        res.Height,
		Frames:        res.Frames,
		Precision:     res.Precision,
		MaxSize:       res.MaxSize,
		EvictFraction: res.EvictFraction,
		Workers:       res.Workers,
		TotalTime:     res.Elapsed.Seconds(),
		FPS:           res.FPS(),
		HitRatio:      res.Stats.HitRatio(),
		CacheLen:      res.CacheLen,
		Evictions:     res.Stats.Evictions,
		MinObserved:   res.MinObserved,
		MaxObserved:   res.MaxObserved,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(framesHeader); err != nil {
		return "", err
	}
	for _, sample := range res.Samples {
		row := []string{
			strconv.Itoa(sample.Frame),
			strconv.FormatFloat(float64(sample.Duration)/float64(time.Millisecond), 'f', 4, 64),
			strconv.FormatFloat(sample.HitRatio, 'f', 4, 64),
			strconv.Itoa(sample.CacheLen),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns saved runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s metadata: %w", runID, err)
	}
	return &meta, nil
}

// Latest returns the most recent run, or ErrRunNotFound when there is none.
func (s *Store) Latest() (*RunMetadata, error) {
	runs, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrRunNotFound
	}
	return &runs[len(runs)-1], nil
}

func (s *Store) LoadFrames(runID string) ([]experiment.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []experiment.Sample{}, nil
	}

	samples := make([]experiment.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < len(framesHeader) {
			continue
		}
		frame, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		ms, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		ratio, _ := strconv.ParseFloat(record[2], 64)
		size, _ := strconv.Atoi(record[3])
		samples = append(samples, experiment.Sample{
			Frame:    frame,
			Duration: time.Duration(ms * float64(time.Millisecond)),
			HitRatio: ratio,
			CacheLen: size,
		})
	}
	return samples, nil
}
