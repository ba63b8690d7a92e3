package mapping

import (
	"fmt"
	"os"
	"path/filepath"
)

// FilePersister stores the overlay document in a single file.
type FilePersister struct {
	Path string
}

// DefaultPath returns <user config dir>/liftlog/exercise_mapping.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}
	return filepath.Join(dir, "liftlog", FileName), nil
}

func (f FilePersister) Read() ([]byte, error) {
	return os.ReadFile(f.Path)
}

// Write creates the parent directory if needed.
func (f FilePersister) Write(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("creating mapping dir: %w", err)
	}
	return os.WriteFile(f.Path, data, 0o644)
}
