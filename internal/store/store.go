// Package store persists collected vacancy snapshots as timestamped JSON files
// and keeps the newest one in memory for the analytics layer.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fr4nk3nst1ner/salarybarometer/internal/errors"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/models"
)

const (
	filePrefix   = "vacancies_"
	fileSuffix   = ".json"
	stampLayout  = "20060102_150405"
	legacySuffix = ".txt"
)

// Store reads and writes snapshot files in a directory
type Store struct {
	dir string
	now func() time.Time

	mu      sync.RWMutex
	current *models.Snapshot
}

// New creates a store rooted at dir
func New(dir string) *Store {
	return &Store{dir: dir, now: time.Now, current: &models.Snapshot{}}
}

// Dir returns the snapshot directory
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the snapshot to a new timestamped file and returns its path
func (s *Store) Save(snap *models.Snapshot) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", errors.StorageError("create data directory", err)
	}

	name := filePrefix + s.now().Format(stampLayout) + fileSuffix
	path := filepath.Join(s.dir, name)

	data, err := json.MarshalIndent(snap, "", "    ")
	if err != nil {
		return "", errors.StorageError("encode snapshot", err)
	}

	// write then rename so readers never see a half-written file
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", errors.StorageError("write snapshot", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", errors.StorageError("rename snapshot", err)
	}
	return path, nil
}

// LatestPath returns the newest snapshot file, or "" when there is none.
// Files written by older collectors with a .txt suffix are accepted too.
func (s *Store) LatestPath() (string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.StorageError("list data directory", err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) {
			continue
		}
		if strings.HasSuffix(name, fileSuffix) || strings.HasSuffix(name, legacySuffix) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "", nil
	}

	// the timestamp layout sorts lexically
	sort.Slice(names, func(i, j int) bool {
		return stamp(names[i]) < stamp(names[j])
	})
	return filepath.Join(s.dir, names[len(names)-1]), nil
}

func stamp(name string) string {
	name = strings.TrimPrefix(name, filePrefix)
	name = strings.TrimSuffix(name, fileSuffix)
	return strings.TrimSuffix(name, legacySuffix)
}

// Latest loads the newest snapshot. No file yields an empty snapshot.
func (s *Store) Latest() (*models.Snapshot, error) {
	path, err := s.LatestPath()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return &models.Snapshot{}, nil
	}
	return Load(path)
}

// Load reads a snapshot file
func Load(path string) (*models.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.StorageError("read snapshot "+filepath.Base(path), err)
	}
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.StorageError("decode snapshot "+filepath.Base(path), err)
	}
	return &snap, nil
}

// Reload replaces the in-memory snapshot with the newest file
func (s *Store) Reload() (*models.Snapshot, error) {
	snap, err := s.Latest()
	if err != nil {
		return nil, err
	}
	s.Set(snap)
	return snap, nil
}

// Set swaps the in-memory snapshot
func (s *Store) Set(snap *models.Snapshot) {
	if snap == nil {
		snap = &models.Snapshot{}
	}
	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()
}

// Current returns the in-memory snapshot. Callers must not modify it.
func (s *Store) Current() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
