package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/schollz/jsonstore"
)

// Data categories, one file each under the data directory
const (
	CategoryUsers    = "user_ids"
	CategoryConfigs  = "configs"
	CategoryAdmins   = "admin_ids"
	CategoryMessages = "message_ids"
	CategoryReports  = "reports"
	CategoryBad      = "bad_ids"
)

// Categories lists every data file in backup order
var Categories = []string{
	CategoryUsers,
	CategoryConfigs,
	CategoryAdmins,
	CategoryMessages,
	CategoryReports,
	CategoryBad,
}

const dataKey = "data"

// FileStore keeps each data category in its own JSON file
type FileStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the file backing a category
func (s *FileStore) Path(category string) string {
	return filepath.Join(s.dir, category+".json")
}

// Save writes v to the category file through a temporary file
func (s *FileStore) Save(category string, v interface{}) error {
	ks := new(jsonstore.JSONStore)
	if err := ks.Set(dataKey, v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", category, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(category)
	tmp := path + ".tmp"
	if err := jsonstore.Save(ks, tmp); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// Load decodes the category file into v. A missing file leaves v untouched
// and reports false.
func (s *FileStore) Load(category string, v interface{}) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(category)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return false, nil
	}

	ks, err := jsonstore.Open(path)
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", path, err)
	}
	if err := ks.Get(dataKey, v); err != nil {
		var noKey jsonstore.NoSuchKeyError
		if errors.As(err, &noKey) {
			return false, nil
		}
		return false, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return true, nil
}

// ReadRaw returns the file content of a category, nil when it does not exist
func (s *FileStore) ReadRaw(category string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.Path(category))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return data, err
}
