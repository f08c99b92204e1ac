package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"wocabot/domain/interfaces"
)

const (
	defaultStateDir  = ".wocabot"
	browserStateFile = "state.json"
	chromeProfileDir = "chrome_profile"
)

// BrowserState keeps the browser login state between runs so the operator
// does not have to sign in every time. Quiz progress is never stored here.
type BrowserState struct {
	dir string
}

// NewBrowserState - creates browser state storage under dir (~/.wocabot when empty)
func NewBrowserState(dir string) (*BrowserState, error) {
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = "."
		}
		dir = filepath.Join(homeDir, defaultStateDir)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	return &BrowserState{dir: dir}, nil
}

// Path - returns the storage state file used by playwright
func (s *BrowserState) Path() string {
	return filepath.Join(s.dir, browserStateFile)
}

// ProfileDir - returns the chrome user data directory used by selenium
func (s *BrowserState) ProfileDir() (string, error) {
	profile := filepath.Join(s.dir, chromeProfileDir)
	if err := os.MkdirAll(profile, 0755); err != nil {
		return "", fmt.Errorf("failed to create user data directory: %w", err)
	}
	return profile, nil
}

// Exists - checks if a saved storage state is available
func (s *BrowserState) Exists() bool {
	info, err := os.Stat(s.Path())
	return err == nil && !info.IsDir() && info.Size() > 0
}

// Load - reads the saved storage state
func (s *BrowserState) Load() ([]byte, error) {
	return os.ReadFile(s.Path())
}

// Clear - removes the saved login state and chrome profile
func (s *BrowserState) Clear() error {
	if err := os.Remove(s.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.RemoveAll(filepath.Join(s.dir, chromeProfileDir))
}

// Ensure BrowserState implements SessionStore interface
var _ interfaces.SessionStore = (*BrowserState)(nil)
