// Package browser implements the page capability on top of playwright or selenium.
package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wocabot/domain/interfaces"
	"wocabot/infrastructure/storage"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

const (
	DriverPlaywright = "playwright"
	DriverSelenium   = "selenium"

	DefaultDriverPort = 9515
)

// Config selects and tunes the browser session
type Config struct {
	Driver       string
	Headless     bool
	DriverPath   string // chromedriver, selenium only
	ChromeBinary string // selenium only
	DriverPort   int
	UserDataDir  string // chrome profile, selenium only
}

// New - opens a browser session with the configured driver.
// Login state is kept in state between runs.
func New(cfg Config, state *storage.BrowserState, logger *logrus.Logger) (interfaces.Page, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", DriverPlaywright:
		var store interfaces.SessionStore
		if state != nil {
			store = state
		}
		return NewBrowserController(cfg, store, logger)
	case DriverSelenium:
		if cfg.UserDataDir == "" && state != nil {
			profile, err := state.ProfileDir()
			if err != nil {
				return nil, err
			}
			cfg.UserDataDir = profile
		}
		controller, err := NewSeleniumController(cfg, logger)
		if err != nil {
			return nil, err
		}
		return controller, nil
	default:
		return nil, fmt.Errorf("unknown browser driver %q (want %s or %s)", cfg.Driver, DriverPlaywright, DriverSelenium)
	}
}

// Install - downloads the chromium build used by the playwright driver
func Install(logger *logrus.Logger) error {
	logger.Info("Installing playwright chromium")
	if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}
	return nil
}

// remaining - caps timeout by the context deadline
func remaining(ctx context.Context, timeout time.Duration) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout < time.Millisecond {
		timeout = time.Millisecond
	}
	return timeout, nil
}

// isClosedErr - reports errors caused by an already closed browser or page
func isClosedErr(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "closed") || strings.Contains(errStr, "invalid session id")
}
