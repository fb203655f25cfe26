// Package storage persists summaries of headless runs: metadata plus one
// value per step for each metric. Point positions are never stored.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/verlet/internal/sim"
)

var (
	ErrRunNotFound    = errors.New("storage: run not found")
	ErrUnknownBackend = errors.New("storage: unknown backend")
)

type RunMetadata struct {
	ID         string             `json:"id"`
	Scene      string             `json:"scene"`
	Preset     string             `json:"preset,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
	Steps      int                `json:"steps"`
	Dt         float64            `json:"dt"`
	Iterations int                `json:"iterations"`
	Gravity    float64            `json:"gravity"`
	Points     int                `json:"points"`
	Links      int                `json:"links"`
	Severed    int                `json:"severed"`
	Metrics    Metrics            `json:"metrics"`
}

type Store interface {
	Init() error
	Save(meta RunMetadata, series map[string][]float64) (string, error)
	List() ([]RunMetadata, error)
	Load(id string) (*RunMetadata, error)
	LoadSeries(id string) (map[string][]float64, error)
	Close() error
}

// Open returns the backend named kind rooted at dir and initialises it.
func Open(kind, dir string) (Store, error) {
	var (
		st  Store
		err error
	)
	switch kind {
	case "", "file":
		st = NewFileStore(dir)
	case "sqlite":
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
		st, err = NewSQLiteStore(filepath.Join(dir, "runs.db"))
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%q: %w", kind, ErrUnknownBackend)
	}

	if err := st.Init(); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// Summarize fills the result-dependent fields of meta.
func Summarize(meta RunMetadata, res *sim.Result) RunMetadata {
	meta.Steps = res.StepsTaken
	meta.Severed = res.Severed
	meta.Metrics = make(Metrics, len(res.Metrics))
	for k, v := range res.Metrics {
		meta.Metrics[k] = v
	}
	return meta
}

func prepare(meta *RunMetadata) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%d", meta.Scene, meta.Timestamp.UnixNano())
	}
	if meta.Metrics == nil {
		meta.Metrics = Metrics{}
	}
}

func seriesNames(series map[string][]float64) []string {
	names := make([]string, 0, len(series))
	for n := range series {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func sortRuns(runs []RunMetadata) {
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].Timestamp.Before(runs[j].Timestamp)
		}
		return runs[i].ID < runs[j].ID
	})
}
