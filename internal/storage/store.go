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

	"github.com/san-kum/convergent/internal/approx"
	"github.com/san-kum/convergent/internal/metrics"
	"github.com/san-kum/convergent/internal/session"
)

const (
	metadataFile   = "metadata.json"
	convergentFile = "convergents.csv"
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

type RunMetadata struct {
	ID             string             `json:"id"`
	Timestamp      time.Time          `json:"timestamp"`
	Values         []string           `json:"values"`
	Mask           []bool             `json:"mask"`
	Precision      []float64          `json:"precision"`
	FinalPrecision []float64          `json:"final_precision"`
	Pivots         []int              `json:"pivots"`
	Steps          int                `json:"steps"`
	Finished       bool               `json:"finished"`
	State          string             `json:"state,omitempty"`
	Metrics        map[string]float64 `json:"metrics"`
}

// Row is one stored convergent.
type Row struct {
	Step       int               `json:"step"`
	Pivot      int               `json:"pivot"`
	Factor     float64           `json:"factor"`
	Convergent approx.Convergent `json:"convergent"`
}

// Run is everything persisted for one session.
type Run struct {
	Meta RunMetadata
	Rows []Row
}

// FromSession snapshots a session, feeding every convergent to ms.
func FromSession(s *session.Session, ms []metrics.Metric) (*Run, error) {
	state, err := s.Encode()
	if err != nil {
		return nil, err
	}
	in := s.Input()

	run := &Run{
		Meta: RunMetadata{
			Values:         in.Values,
			Mask:           in.Mask,
			Precision:      s.AlgorithmInput().Precision,
			FinalPrecision: s.Precision(),
			Pivots:         s.PivotSequence(),
			Steps:          s.NumOutputs(),
			Finished:       s.Finished(),
			State:          state,
			Metrics:        make(map[string]float64),
		},
		Rows: make([]Row, s.NumOutputs()),
	}

	for _, m := range ms {
		m.Reset()
	}
	for i, c := range s.Outputs() {
		run.Rows[i] = Row{Step: i + 1, Pivot: s.Pivot(i), Factor: s.RatioScalar(i), Convergent: c}
		sample := s.Sample(i)
		for _, m := range ms {
			m.Observe(sample)
		}
	}
	for _, m := range ms {
		run.Meta.Metrics[m.Name()] = m.Value()
	}
	return run, nil
}

// Save writes run under a new run directory and returns its id. On any
// error the directory is removed again.
func (s *Store) Save(run *Run) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("run_%d", now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := run.Meta
	meta.ID = runID
	meta.Timestamp = now

	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	if err := writeRows(filepath.Join(runDir, convergentFile), len(meta.Values), run.Rows); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return runID, nil
}

func writeMetadata(path string, meta RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonSafe(meta)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeRows(path string, dims int, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)

	header := []string{"step", "pivot", "factor"}
	for i := 0; i < dims; i++ {
		header = append(header, fmt.Sprintf("c%d", i))
	}
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}

	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.Step),
			strconv.Itoa(r.Pivot),
			strconv.FormatFloat(r.Factor, 'g', -1, 64),
		}
		for _, v := range r.Convergent {
			record = append(record, strconv.FormatInt(v, 10))
		}
		if err := w.Write(record); err != nil {
			f.Close()
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadRows(runID string) ([]Row, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, convergentFile))
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

	if len(records) < 2 {
		return []Row{}, nil
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 3 {
			continue
		}
		row, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", runID, err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func parseRow(record []string) (Row, error) {
	var row Row
	var err error
	if row.Step, err = strconv.Atoi(record[0]); err != nil {
		return row, err
	}
	if row.Pivot, err = strconv.Atoi(record[1]); err != nil {
		return row, err
	}
	if row.Factor, err = strconv.ParseFloat(record[2], 64); err != nil {
		return row, err
	}
	row.Convergent = make(approx.Convergent, 0, len(record)-3)
	for _, field := range record[3:] {
		v, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return row, err
		}
		row.Convergent = append(row.Convergent, v)
	}
	return row, nil
}
