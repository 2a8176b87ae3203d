package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Manager handles persisted artifacts for one run: JSON documents and,
// when media download is enabled, the media files themselves.
type Manager struct {
	outputDir  string
	pretty     bool
	savedMedia map[string]bool
	mu         sync.RWMutex
}

// NewManager creates a storage manager rooted at the output directory
func NewManager(outputDir string, pretty bool) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Manager{
		outputDir:  outputDir,
		pretty:     pretty,
		savedMedia: make(map[string]bool),
	}, nil
}

// Path returns the absolute path of a named artifact
func (m *Manager) Path(name string) string {
	return filepath.Join(m.outputDir, name)
}

// SaveJSON writes a document as JSON via a temporary file and atomic rename.
// HTML characters in URLs are kept unescaped, matching the wire values.
func (m *Manager) SaveJSON(name string, v interface{}) error {
	filename := m.Path(name)
	tempFile := filename + ".tmp"

	out, err := os.Create(tempFile)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	if m.pretty {
		enc.SetIndent("", "  ")
	}

	err = enc.Encode(v)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// IsDownloaded checks if a media file with the given name was already saved
func (m *Manager) IsDownloaded(name string) bool {
	m.mu.RLock()
	saved := m.savedMedia[name]
	m.mu.RUnlock()
	if saved {
		return true
	}

	if _, err := os.Stat(m.Path(name)); err == nil {
		m.mu.Lock()
		m.savedMedia[name] = true
		m.mu.Unlock()
		return true
	}

	return false
}

// SaveMedia saves a media file from the given reader via atomic rename
func (m *Manager) SaveMedia(r io.Reader, name string) error {
	filename := m.Path(name)
	tempFile := filename + ".tmp"

	out, err := os.Create(tempFile)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to save media data: %w", err)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	m.mu.Lock()
	m.savedMedia[name] = true
	m.mu.Unlock()

	return nil
}
