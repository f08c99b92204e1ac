// Package config loads quiz bot settings from environment, .env and an optional YAML file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config is the root configuration.
type Config struct {
	Quiz    QuizConfig    `yaml:"quiz"`
	Browser BrowserConfig `yaml:"browser"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// QuizConfig holds the target page and loop timing.
// Empty selectors fall back to the built-in page contract.
type QuizConfig struct {
	URL              string        `yaml:"url"               env:"QUIZ_URL"               env-default:"https://wocabee.app"`
	AnswersPath      string        `yaml:"answers"           env:"QUIZ_ANSWERS"           env-default:"answers.json"`
	PageLoadDelay    time.Duration `yaml:"page_load_delay"   env:"QUIZ_PAGE_LOAD_DELAY"   env-default:"5s"`
	LoginWait        time.Duration `yaml:"login_wait"        env:"QUIZ_LOGIN_WAIT"        env-default:"0s"`
	QuestionTimeout  time.Duration `yaml:"question_timeout"  env:"QUIZ_QUESTION_TIMEOUT"  env-default:"10s"`
	ElementTimeout   time.Duration `yaml:"element_timeout"   env:"QUIZ_ELEMENT_TIMEOUT"   env-default:"10s"`
	OverlayTimeout   time.Duration `yaml:"overlay_timeout"   env:"QUIZ_OVERLAY_TIMEOUT"   env-default:"20s"`
	Cooldown         time.Duration `yaml:"cooldown"          env:"QUIZ_COOLDOWN"          env-default:"3s"`
	PollInterval     time.Duration `yaml:"poll_interval"     env:"QUIZ_POLL_INTERVAL"     env-default:"250ms"`
	QuestionSelector string        `yaml:"question_selector" env:"QUIZ_QUESTION_SELECTOR"`
	InputSelector    string        `yaml:"input_selector"    env:"QUIZ_INPUT_SELECTOR"`
	SubmitSelector   string        `yaml:"submit_selector"   env:"QUIZ_SUBMIT_SELECTOR"`
	OverlaySelector  string        `yaml:"overlay_selector"  env:"QUIZ_OVERLAY_SELECTOR"`
}

// BrowserConfig holds browser session settings.
type BrowserConfig struct {
	Driver       string `yaml:"driver"        env:"BROWSER_DRIVER"        env-default:"playwright"`
	Headless     bool   `yaml:"headless"      env:"BROWSER_HEADLESS"      env-default:"false"`
	StateDir     string `yaml:"state_dir"     env:"BROWSER_STATE_DIR"`
	DriverPath   string `yaml:"driver_path"   env:"BROWSER_DRIVER_PATH"`
	ChromeBinary string `yaml:"chrome_binary" env:"CHROME_BINARY_PATH"`
	DriverPort   int    `yaml:"driver_port"   env:"BROWSER_DRIVER_PORT"   env-default:"9515"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// MetricsConfig holds the optional prometheus endpoint. Empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr" env:"METRICS_ADDR"`
}

// Load reads configuration. Priority: ENV > YAML file > defaults.
// A .env file in the working directory is applied to the environment first when present.
// path may be empty, in which case only ENV and defaults are used.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}

	var cfg Config
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// Validate checks values that cleanenv cannot.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Quiz.URL) == "" {
		return fmt.Errorf("quiz.url must not be empty")
	}
	if strings.TrimSpace(c.Quiz.AnswersPath) == "" {
		return fmt.Errorf("quiz.answers must not be empty")
	}

	durations := map[string]time.Duration{
		"quiz.page_load_delay":  c.Quiz.PageLoadDelay,
		"quiz.login_wait":       c.Quiz.LoginWait,
		"quiz.question_timeout": c.Quiz.QuestionTimeout,
		"quiz.element_timeout":  c.Quiz.ElementTimeout,
		"quiz.overlay_timeout":  c.Quiz.OverlayTimeout,
		"quiz.poll_interval":    c.Quiz.PollInterval,
	}
	for name, d := range durations {
		if d < 0 {
			return fmt.Errorf("%s must be >= 0 (got %s)", name, d)
		}
	}

	switch strings.ToLower(c.Browser.Driver) {
	case "playwright", "selenium":
	default:
		return fmt.Errorf("browser.driver must be playwright or selenium (got %q)", c.Browser.Driver)
	}

	if _, err := c.Log.ParseLevel(); err != nil {
		return err
	}

	return nil
}

// ParseLevel - converts the configured level name into a logrus level
func (l LogConfig) ParseLevel() (logrus.Level, error) {
	level, err := logrus.ParseLevel(l.Level)
	if err != nil {
		return logrus.InfoLevel, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
