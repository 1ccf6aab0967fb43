package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/wordflash/internal/words"
)

const (
	metadataFile = "metadata.json"
	timingsFile  = "timings.csv"
	slugRunes    = 24
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

// SessionMetadata describes one completed recording.
type SessionMetadata struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Foreground string    `json:"foreground"`
	Background string    `json:"background"`
	Font       string    `json:"font"`
	Tokens     int       `json:"tokens"`
	TotalMs    int64     `json:"total_ms"`
}

// Save writes a session. ID, Timestamp, Tokens and TotalMs are filled in.
func (s *Store) Save(meta SessionMetadata, tokens []string, timings []time.Duration) (string, error) {
	if len(tokens) != len(timings) {
		return "", fmt.Errorf("storage: %d tokens but %d timings", len(tokens), len(timings))
	}
	if err := s.Init(); err != nil {
		return "", err
	}

	slug := words.Slug(meta.Text, slugRunes)
	if slug == "" {
		slug = "session"
	}
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", slug, now.Unix())
	runDir := filepath.Join(s.baseDir, runID)
	for n := 2; ; n++ {
		if _, err := os.Stat(runDir); os.IsNotExist(err) {
			break
		}
		runID = fmt.Sprintf("%s_%d_%d", slug, now.Unix(), n)
		runDir = filepath.Join(s.baseDir, runID)
	}

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Tokens = len(tokens)
	meta.TotalMs = 0
	for _, d := range timings {
		meta.TotalMs += d.Milliseconds()
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, timingsFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"index", "token", "delay_ms"}); err != nil {
		return "", err
	}
	for i := range tokens {
		row := []string{
			strconv.Itoa(i),
			tokens[i],
			strconv.FormatInt(timings[i].Milliseconds(), 10),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	log.Printf("storage: saved session %s (%d tokens)", runID, len(tokens))
	return runID, nil
}

// List returns every readable session, newest first.
func (s *Store) List() ([]SessionMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SessionMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]SessionMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), metadataFile))
		if err != nil {
			continue
		}

		var meta SessionMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*SessionMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta SessionMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTimings reads the token and delay columns back in index order.
func (s *Store) LoadTimings(runID string) ([]string, []time.Duration, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, timingsFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 3

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return []string{}, []time.Duration{}, nil
	}

	tokens := make([]string, 0, len(records)-1)
	timings := make([]time.Duration, 0, len(records)-1)
	for i, record := range records[1:] {
		idx, err := strconv.Atoi(record[0])
		if err != nil || idx != i {
			return nil, nil, fmt.Errorf("storage: %s row %d: bad index %q", runID, i+1, record[0])
		}
		ms, err := strconv.ParseInt(record[2], 10, 64)
		if err != nil || ms < 0 {
			return nil, nil, fmt.Errorf("storage: %s row %d: bad delay %q", runID, i+1, record[2])
		}
		tokens = append(tokens, record[1])
		timings = append(timings, time.Duration(ms)*time.Millisecond)
	}

	return tokens, timings, nil
}
