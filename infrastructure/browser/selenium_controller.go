package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"wocabot/domain/entities"
	"wocabot/domain/interfaces"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

const seleniumPollInterval = 100 * time.Millisecond

type SeleniumController struct {
	wd          selenium.WebDriver
	service     *selenium.Service
	logger      *logrus.Logger
	userDataDir string
}

// findChromeDriver - finds ChromeDriver executable path
func findChromeDriver(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit, nil
		}
	}

	commonPaths := []string{
		"/usr/local/bin/chromedriver",
		"/usr/bin/chromedriver",
		"/opt/homebrew/bin/chromedriver",
		filepath.Join(os.Getenv("HOME"), "bin", "chromedriver"),
	}

	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath("chromedriver"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("chromedriver not found. Please install it or set BROWSER_DRIVER_PATH environment variable")
}

// findChromeBinary - finds Chrome/Chromium browser executable path
func findChromeBinary(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
	}

	chromePaths := []string{
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		`C:\Program Files\Google\Chrome\Application\chrome.exe`,
	}

	for _, path := range chromePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	return ""
}

// NewSeleniumController - starts ChromeDriver and opens a Chrome session.
// The login session lives in cfg.UserDataDir, so it survives restarts.
func NewSeleniumController(cfg Config, logger *logrus.Logger) (*SeleniumController, error) {
	driverPath, err := findChromeDriver(cfg.DriverPath)
	if err != nil {
		return nil, fmt.Errorf("failed to find chromedriver: %w", err)
	}
	logger.Infof("Using ChromeDriver at: %s", driverPath)

	chromeBinary := findChromeBinary(cfg.ChromeBinary)
	if chromeBinary != "" {
		logger.Infof("Using Chrome binary at: %s", chromeBinary)
	}

	port := cfg.DriverPort
	if port == 0 {
		port = DefaultDriverPort
	}

	service, err := selenium.NewChromeDriverService(driverPath, port)
	if err != nil {
		return nil, fmt.Errorf("failed to start chromedriver: %w", err)
	}

	args := []string{
		"--start-maximized",
		"--disable-blink-features=AutomationControlled",
		"--disable-dev-shm-usage",
		"--no-sandbox",
	}
	if cfg.UserDataDir != "" {
		args = append(args, fmt.Sprintf("--user-data-dir=%s", cfg.UserDataDir))
		logger.Infof("Using user data directory: %s (sessions will be preserved)", cfg.UserDataDir)
	}
	if cfg.Headless {
		args = append(args, "--headless=new")
	}

	chromeCaps := chrome.Capabilities{Args: args}
	if chromeBinary != "" {
		chromeCaps.Path = chromeBinary
	}

	caps := selenium.Capabilities{"browserName": "chrome"}
	caps.AddChrome(chromeCaps)

	wd, err := selenium.NewRemote(caps, fmt.Sprintf("http://localhost:%d/wd/hub", port))
	if err != nil {
		service.Stop()
		if strings.Contains(err.Error(), "cannot find Chrome binary") {
			return nil, fmt.Errorf("failed to create webdriver: Chrome browser not found. Please install Google Chrome or set CHROME_BINARY_PATH environment variable. Error: %w", err)
		}
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}

	return &SeleniumController{
		wd:          wd,
		service:     service,
		logger:      logger,
		userDataDir: cfg.UserDataDir,
	}, nil
}

// Navigate - navigates browser to specified URL
func (s *SeleniumController) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger.Infof("Navigating to: %s", url)
	return s.wd.Get(url)
}

// WaitForElement - polls for a selector match until timeout
func (s *SeleniumController) WaitForElement(ctx context.Context, selector string, timeout time.Duration) (interfaces.Element, error) {
	timeout, err := remaining(ctx, timeout)
	if err != nil {
		return nil, err
	}

	by, value := seleniumBy(selector)
	var found selenium.WebElement
	err = s.wd.WaitWithTimeoutAndInterval(func(wd selenium.WebDriver) (bool, error) {
		elements, err := wd.FindElements(by, value)
		if err != nil || len(elements) == 0 {
			return false, nil
		}
		found = elements[0]
		return true, nil
	}, timeout, seleniumPollInterval)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s after %s", entities.ErrNotFound, selector, timeout)
	}

	return &seleniumElement{wd: s.wd, el: found}, nil
}

// FindElement - returns the first match without waiting
func (s *SeleniumController) FindElement(ctx context.Context, selector string) (interfaces.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	by, value := seleniumBy(selector)
	elements, err := s.wd.FindElements(by, value)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, fmt.Errorf("%w: %s", entities.ErrNotFound, selector)
	}

	return &seleniumElement{wd: s.wd, el: elements[0]}, nil
}

// seleniumBy - picks the lookup strategy the same way playwright does:
// XPath for "xpath=" prefixed or path-like selectors, CSS otherwise
func seleniumBy(selector string) (by, value string) {
	if rest, ok := strings.CutPrefix(selector, "xpath="); ok {
		return selenium.ByXPATH, rest
	}
	if rest, ok := strings.CutPrefix(selector, "css="); ok {
		return selenium.ByCSSSelector, rest
	}
	for _, prefix := range []string{"//", "(", ".."} {
		if strings.HasPrefix(selector, prefix) {
			return selenium.ByXPATH, selector
		}
	}
	return selenium.ByCSSSelector, selector
}

// Close - closes browser and stops ChromeDriver service
func (s *SeleniumController) Close() error {
	var closeErr error
	if s.wd != nil {
		if err := s.wd.Quit(); err != nil && !isClosedErr(err) {
			closeErr = fmt.Errorf("failed to quit webdriver: %w", err)
		}
		s.wd = nil
	}
	if s.service != nil {
		if err := s.service.Stop(); err != nil && closeErr == nil {
			closeErr = fmt.Errorf("failed to stop chromedriver: %w", err)
		}
		s.service = nil
	}
	if s.userDataDir != "" {
		s.logger.Debugf("Login session kept in %s", s.userDataDir)
	}
	return closeErr
}

type seleniumElement struct {
	wd selenium.WebDriver
	el selenium.WebElement
}

func (e *seleniumElement) script(ctx context.Context, script string, args ...interface{}) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.wd.ExecuteScript(script, append([]interface{}{e.el}, args...))
}

func (e *seleniumElement) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.el.Text()
}

func (e *seleniumElement) OuterHTML(ctx context.Context) (string, error) {
	result, err := e.script(ctx, "return arguments[0].outerHTML;")
	if err != nil {
		return "", err
	}
	html, _ := result.(string)
	return html, nil
}

func (e *seleniumElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	result, err := e.script(ctx,
		"return arguments[0].hasAttribute(arguments[1]) ? arguments[0].getAttribute(arguments[1]) : null;", name)
	if err != nil {
		return "", false, err
	}
	if result == nil {
		return "", false, nil
	}
	value, _ := result.(string)
	return value, true, nil
}

func (e *seleniumElement) IsDisplayed(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return e.el.IsDisplayed()
}

func (e *seleniumElement) ScrollIntoView(ctx context.Context) error {
	_, err := e.script(ctx, "arguments[0].scrollIntoView(true);")
	return err
}

func (e *seleniumElement) WaitVisible(ctx context.Context, timeout time.Duration) error {
	timeout, err := remaining(ctx, timeout)
	if err != nil {
		return err
	}
	return e.wd.WaitWithTimeoutAndInterval(func(selenium.WebDriver) (bool, error) {
		shown, err := e.el.IsDisplayed()
		return err == nil && shown, nil
	}, timeout, seleniumPollInterval)
}

// WaitClickable waits until the element is displayed and enabled
func (e *seleniumElement) WaitClickable(ctx context.Context, timeout time.Duration) error {
	timeout, err := remaining(ctx, timeout)
	if err != nil {
		return err
	}
	return e.wd.WaitWithTimeoutAndInterval(func(selenium.WebDriver) (bool, error) {
		shown, err := e.el.IsDisplayed()
		if err != nil || !shown {
			return false, nil
		}
		enabled, err := e.el.IsEnabled()
		return err == nil && enabled, nil
	}, timeout, seleniumPollInterval)
}

func (e *seleniumElement) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.el.Click()
}

func (e *seleniumElement) PressKey(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.el.SendKeys(key)
}

// Ensure SeleniumController implements Page interface
var _ interfaces.Page = (*SeleniumController)(nil)
