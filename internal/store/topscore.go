package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// ErrNoScore is returned by Load when nothing has been saved yet.
var ErrNoScore = errors.New("no top score saved")

// TopScores loads and saves the single persisted top score.
type TopScores interface {
	Load() (int, error)
	Save(score int) error
}

type record struct {
	TopScore int `json:"top_score"`
}

// FileStore keeps the top score in a small JSON file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, ErrNoScore
	}
	if err != nil {
		return 0, fmt.Errorf("read top score: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return 0, fmt.Errorf("decode top score %s: %w", s.path, err)
	}
	if rec.TopScore < 0 {
		return 0, fmt.Errorf("decode top score %s: negative value %d", s.path, rec.TopScore)
	}
	return rec.TopScore, nil
}

// Save writes the score through a temporary file so a crash never leaves a
// truncated file behind.
func (s *FileStore) Save(score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(record{TopScore: score})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create score dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write top score: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace top score: %w", err)
	}
	return nil
}

// LoadOrZero loads the top score, logging and returning 0 on any failure.
// Gameplay never waits on persistence.
func LoadOrZero(s TopScores) int {
	score, err := s.Load()
	if err != nil {
		if !errors.Is(err, ErrNoScore) {
			log.Printf("top score unavailable: %v", err)
		}
		return 0
	}
	return score
}

// SaveIfHigher saves score when it beats what is stored. Failures are logged.
func SaveIfHigher(s TopScores, score int) {
	if current, err := s.Load(); err == nil && current >= score {
		return
	}
	if err := s.Save(score); err != nil {
		log.Printf("saving top score failed: %v", err)
	}
}
