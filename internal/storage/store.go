// Package storage persists recorded runs under a base directory, one
// subdirectory per run holding metadata.json and positions.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/georgpou/particlebox/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one persisted run.
type RunMetadata struct {
	ID          string             `json:"id"`
	Engine      string             `json:"engine"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Count       int                `json:"count"`
	RadiusMin   float64            `json:"radius_min"`
	RadiusMax   float64            `json:"radius_max"`
	VelocityMax float64            `json:"velocity_max"`
	Frames      int                `json:"frames"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Params reconstructs the population parameters.
func (m *RunMetadata) Params() sim.Params {
	return sim.Params{
		Count:       m.Count,
		RadiusMin:   m.RadiusMin,
		RadiusMax:   m.RadiusMax,
		VelocityMax: m.VelocityMax,
	}
}

// Save persists one run and returns its id. Position rows carry the
// frame index followed by x and y per particle.
func (s *Store) Save(engine string, p sim.Params, seed int64, run *Run, metrics map[string]float64) (string, error) {
	runID := fmt.Sprintf("%s_%d", engine, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)
	for n := 1; ; n++ {
		if _, err := os.Stat(runDir); os.IsNotExist(err) {
			break
		}
		runID = fmt.Sprintf("%s_%d_%d", engine, time.Now().Unix(), n)
		runDir = filepath.Join(s.baseDir, runID)
	}
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Engine:      engine,
		Timestamp:   time.Now(),
		Seed:        seed,
		Count:       p.Count,
		RadiusMin:   p.RadiusMin,
		RadiusMax:   p.RadiusMax,
		VelocityMax: p.VelocityMax,
		Frames:      run.Len(),
		Metrics:     metrics,
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

	csvFile, err := os.Create(filepath.Join(runDir, "positions.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()
	w := csv.NewWriter(csvFile)

	header := []string{"frame"}
	for i := 0; i < p.Count; i++ {
		header = append(header, fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i))
	}
	if err := w.Write(header); err != nil {
		return "", err
	}
	for i, frame := range run.Frames {
		row := make([]string, 0, 1+len(run.Positions[i]))
		row = append(row, strconv.Itoa(frame))
		for _, v := range run.Positions[i] {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	return runID, w.Error()
}

// List collects the metadata of every readable run, oldest first.
// Directories without parseable metadata are skipped.
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
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadRun reads the position history back. Unparseable rows are
// skipped.
func (s *Store) LoadRun(runID string) (*Run, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "positions.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	run := &Run{}
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 3 {
			continue
		}
		frame, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		pos := make([]float64, 0, len(record)-1)
		for _, field := range record[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				pos = nil
				break
			}
			pos = append(pos, v)
		}
		if pos == nil {
			continue
		}
		run.Frames = append(run.Frames, frame)
		run.Positions = append(run.Positions, pos)
	}
	return run, nil
}

// Delete removes a run directory. Ids must be bare directory names.
func (s *Store) Delete(runID string) error {
	if runID == "" || runID != filepath.Base(runID) {
		return fmt.Errorf("storage: bad run id %q", runID)
	}
	return os.RemoveAll(filepath.Join(s.baseDir, runID))
}
