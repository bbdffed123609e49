package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/episim/internal/epidemic"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

var csvHeader = []string{"time", "S", "I", "R"}

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
	ID         string                `json:"id"`
	Model      string                `json:"model"`
	Timestamp  time.Time             `json:"timestamp"`
	Params     epidemic.Params       `json:"params"`
	Initial    epidemic.Compartments `json:"initial"`
	Dt         float64               `json:"dt"`
	Duration   float64               `json:"duration"`
	Integrator string                `json:"integrator"`
	Samples    int                   `json:"samples"`
	Metrics    map[string]float64    `json:"metrics"`
}

// Save writes meta and traj under a fresh run directory and returns the run
// ID. ID, Timestamp and Samples on meta are filled in here. On failure the
// run directory is removed, so List never sees a partial run.
func (s *Store) Save(meta RunMetadata, traj epidemic.Trajectory) (id string, err error) {
	if meta.Model == "" {
		meta.Model = "sir"
	}
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d_%s", meta.Model, now.Unix(), uuid.NewString()[:8])
	meta.Timestamp = now
	meta.Samples = len(traj)

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(runDir)
		}
	}()

	err = writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	})
	if err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}

	err = writeFile(filepath.Join(runDir, statesFile), func(w io.Writer) error {
		return WriteCSV(w, traj)
	})
	if err != nil {
		return "", fmt.Errorf("write states: %w", err)
	}
	return meta.ID, nil
}

// writeFile creates path, fills it with write and syncs it. The file is
// closed before writeFile returns.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteCSV dumps traj as time,S,I,R rows with full float precision.
func WriteCSV(out io.Writer, traj epidemic.Trajectory) error {
	w := csv.NewWriter(out)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range traj {
		row := []string{
			formatFloat(p.Time),
			formatFloat(p.State.S),
			formatFloat(p.State.I),
			formatFloat(p.State.R),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns every readable run, newest first. Directories without valid
// metadata are skipped.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode metadata for %s: %w", runID, err)
	}

	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) (epidemic.Trajectory, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	return ReadCSV(file)
}

// ReadCSV parses the format written by WriteCSV.
func ReadCSV(in io.Reader) (epidemic.Trajectory, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = len(csvHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return epidemic.Trajectory{}, nil
	}

	traj := make(epidemic.Trajectory, 0, len(records)-1)
	for i, record := range records[1:] {
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i+1, csvHeader[j], err)
			}
			vals[j] = v
		}
		traj = append(traj, epidemic.TimePoint{
			Time:  vals[0],
			State: epidemic.Compartments{S: vals[1], I: vals[2], R: vals[3]},
		})
	}

	return traj, nil
}
