package adapters

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"jobprospect/internal/logging/types"
)

// FileAdapter implements the LogAdapter interface for file output
type FileAdapter struct {
	name   string
	path   string
	format string
	file   *os.File
	mu     sync.Mutex
}

// FileConfig represents configuration for the file adapter
type FileConfig struct {
	FilePath   string `yaml:"file_path"`
	Format     string `yaml:"format"` // json or text
	CreateDirs bool   `yaml:"create_dirs"`
}

// NewFileAdapter creates a new file adapter, opening the log file in append
// mode and creating parent directories when asked to.
func NewFileAdapter(name string, config FileConfig) (*FileAdapter, error) {
	if config.FilePath == "" {
		return nil, fmt.Errorf("file_path is required for file adapter")
	}

	if config.CreateDirs {
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	file, err := os.OpenFile(config.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &FileAdapter{
		name:   name,
		path:   config.FilePath,
		format: config.Format,
		file:   file,
	}, nil
}

// Write writes a log entry to the file
func (a *FileAdapter) Write(entry *types.LogEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.file == nil {
		return fmt.Errorf("file adapter %s is closed", a.name)
	}

	var output string
	var err error

	switch strings.ToLower(a.format) {
	case "text":
		output = formatText(entry)
	default:
		output, err = formatJSON(entry)
	}

	if err != nil {
		return fmt.Errorf("failed to format log entry: %w", err)
	}

	_, err = fmt.Fprintln(a.file, output)
	return err
}

// Close closes the underlying file
func (a *FileAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.file == nil {
		return nil
	}

	err := a.file.Close()
	a.file = nil
	return err
}

// Health checks that the log file is still writable
func (a *FileAdapter) Health() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.file == nil {
		return fmt.Errorf("file adapter %s is closed", a.name)
	}
	return nil
}

// Name returns the name of the adapter
func (a *FileAdapter) Name() string {
	return a.name
}
