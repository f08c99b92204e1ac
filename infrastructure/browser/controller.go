package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"wocabot/domain/entities"
	"wocabot/domain/interfaces"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

const (
	navigationTimeout = 30 * time.Second
	actionTimeout     = 5 * time.Second
)

type browserController struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	state   interfaces.SessionStore
	logger  *logrus.Logger
}

// NewBrowserController - launches chromium through playwright.
// A saved login state is restored when state holds one, and written back on Close.
func NewBrowserController(cfg Config, state interfaces.SessionStore, logger *logrus.Logger) (interfaces.Page, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	contextOptions := playwright.BrowserNewContextOptions{
		NoViewport:        playwright.Bool(true),
		JavaScriptEnabled: playwright.Bool(true),
	}

	if state != nil && state.Exists() {
		data, err := state.Load()
		if err == nil {
			var storageState playwright.StorageState
			if err := json.Unmarshal(data, &storageState); err == nil {
				contextOptions.StorageState = storageState.ToOptionalStorageState()
				logger.Infof("Restored browser login state from %s", state.Path())
			} else {
				logger.WithError(err).Warn("Ignoring unreadable browser state")
			}
		}
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		Args: []string{
			"--start-maximized",
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--disable-infobars",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browserContext, err := browser.NewContext(contextOptions)
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := browserContext.NewPage()
	if err != nil {
		browserContext.Close()
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	page.OnDialog(func(dialog playwright.Dialog) {
		logger.WithField("message", dialog.Message()).Info("Accepting page dialog")
		dialog.Accept()
	})

	return &browserController{
		pw:      pw,
		browser: browser,
		context: browserContext,
		page:    page,
		state:   state,
		logger:  logger,
	}, nil
}

// Navigate - navigates to the specified URL
func (b *browserController) Navigate(ctx context.Context, url string) error {
	timeout, err := remaining(ctx, navigationTimeout)
	if err != nil {
		return err
	}

	b.logger.Infof("Navigating to: %s", url)
	_, err = b.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   milliseconds(timeout),
	})
	return err
}

// WaitForElement - waits for an element to be attached to the DOM
func (b *browserController) WaitForElement(ctx context.Context, selector string, timeout time.Duration) (interfaces.Element, error) {
	timeout, err := remaining(ctx, timeout)
	if err != nil {
		return nil, err
	}

	locator := b.page.Locator(locatorSelector(selector)).First()
	err = locator.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: milliseconds(timeout),
	})
	if err != nil {
		if errors.Is(err, playwright.ErrTimeout) {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: %s after %s", entities.ErrNotFound, selector, timeout)
		}
		return nil, err
	}

	return &pageElement{page: b.page, locator: locator}, nil
}

// FindElement - returns the first matching element without waiting
func (b *browserController) FindElement(ctx context.Context, selector string) (interfaces.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	locator := b.page.Locator(locatorSelector(selector))
	count, err := locator.Count()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: %s", entities.ErrNotFound, selector)
	}

	return &pageElement{page: b.page, locator: locator.First()}, nil
}

// SaveState - saves browser login state to persistent storage
func (b *browserController) SaveState() error {
	if b.context == nil || b.state == nil {
		return nil
	}

	if _, err := b.context.StorageState(b.state.Path()); err != nil {
		if isClosedErr(err) {
			return nil
		}
		return fmt.Errorf("failed to save browser state: %w", err)
	}

	return nil
}

// Close - saves state and closes the browser
func (b *browserController) Close() error {
	var closeErr error

	if err := b.SaveState(); err != nil {
		closeErr = err
	}

	if b.context != nil {
		if err := b.context.Close(); err != nil && !isClosedErr(err) {
			closeErr = errors.Join(closeErr, fmt.Errorf("failed to close context: %w", err))
		}
		b.context = nil
	}

	if b.browser != nil {
		if err := b.browser.Close(); err != nil && !isClosedErr(err) {
			closeErr = errors.Join(closeErr, fmt.Errorf("failed to close browser: %w", err))
		}
		b.browser = nil
	}

	if b.pw != nil {
		if err := b.pw.Stop(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("failed to stop playwright: %w", err))
		}
		b.pw = nil
	}

	return closeErr
}

// pageElement is a locator pinned to the first match
type pageElement struct {
	page    playwright.Page
	locator playwright.Locator
}

func (e *pageElement) Text(ctx context.Context) (string, error) {
	timeout, err := remaining(ctx, actionTimeout)
	if err != nil {
		return "", err
	}
	return e.locator.InnerText(playwright.LocatorInnerTextOptions{Timeout: milliseconds(timeout)})
}

func (e *pageElement) OuterHTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	result, err := e.locator.Evaluate("el => el.outerHTML", nil)
	if err != nil {
		return "", err
	}
	html, _ := result.(string)
	return html, nil
}

func (e *pageElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	result, err := e.locator.Evaluate("(el, name) => el.hasAttribute(name) ? el.getAttribute(name) : null", name)
	if err != nil {
		return "", false, err
	}
	if result == nil {
		return "", false, nil
	}
	value, _ := result.(string)
	return value, true, nil
}

func (e *pageElement) IsDisplayed(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return e.locator.IsVisible()
}

func (e *pageElement) ScrollIntoView(ctx context.Context) error {
	timeout, err := remaining(ctx, actionTimeout)
	if err != nil {
		return err
	}
	return e.locator.ScrollIntoViewIfNeeded(playwright.LocatorScrollIntoViewIfNeededOptions{
		Timeout: milliseconds(timeout),
	})
}

func (e *pageElement) WaitVisible(ctx context.Context, timeout time.Duration) error {
	timeout, err := remaining(ctx, timeout)
	if err != nil {
		return err
	}
	return e.locator.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: milliseconds(timeout),
	})
}

// WaitClickable runs the click actionability checks without clicking
func (e *pageElement) WaitClickable(ctx context.Context, timeout time.Duration) error {
	timeout, err := remaining(ctx, timeout)
	if err != nil {
		return err
	}
	return e.locator.Click(playwright.LocatorClickOptions{
		Trial:   playwright.Bool(true),
		Timeout: milliseconds(timeout),
	})
}

func (e *pageElement) Click(ctx context.Context) error {
	timeout, err := remaining(ctx, actionTimeout)
	if err != nil {
		return err
	}
	return e.locator.Click(playwright.LocatorClickOptions{Timeout: milliseconds(timeout)})
}

// PressKey types one character into the focused element
func (e *pageElement) PressKey(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.page.Keyboard().Type(key)
}

// locatorSelector - marks XPath expressions for playwright
func locatorSelector(selector string) string {
	if strings.HasPrefix(selector, "//") || strings.HasPrefix(selector, "(") {
		return "xpath=" + selector
	}
	return selector
}

// milliseconds - converts a duration into a playwright timeout.
// Playwright treats 0 as "no timeout", so the result is at least 1ms.
func milliseconds(d time.Duration) *float64 {
	ms := float64(d.Milliseconds())
	if ms < 1 {
		ms = 1
	}
	return playwright.Float(ms)
}

// Ensure browserController implements Page interface
var _ interfaces.Page = (*browserController)(nil)
