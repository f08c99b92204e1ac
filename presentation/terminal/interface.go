package terminal

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"wocabot/application/quiz"
	"wocabot/domain/entities"
	"wocabot/domain/interfaces"
	"wocabot/infrastructure/browser"
	"wocabot/infrastructure/config"
	"wocabot/infrastructure/metrics"
	"wocabot/infrastructure/poll"
	"wocabot/infrastructure/storage"

	"github.com/sirupsen/logrus"
)

// PageOpener starts a browser session
type PageOpener func() (interfaces.Page, error)

type TerminalInterface struct {
	cfg      *config.Config
	logger   *logrus.Logger
	answers  interfaces.AnswerSource
	openPage PageOpener
	gate     Gate
	out      io.Writer
}

// NewTerminalInterface - wires the quiz run from configuration
func NewTerminalInterface(cfg *config.Config, logger *logrus.Logger) (*TerminalInterface, error) {
	state, err := storage.NewBrowserState(cfg.Browser.StateDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize browser state: %w", err)
	}

	browserCfg := browser.Config{
		Driver:       cfg.Browser.Driver,
		Headless:     cfg.Browser.Headless,
		DriverPath:   cfg.Browser.DriverPath,
		ChromeBinary: cfg.Browser.ChromeBinary,
		DriverPort:   cfg.Browser.DriverPort,
	}

	return &TerminalInterface{
		cfg:     cfg,
		logger:  logger,
		answers: storage.NewAnswerFile(cfg.Quiz.AnswersPath),
		openPage: func() (interfaces.Page, error) {
			return browser.New(browserCfg, state, logger)
		},
		gate: newGate(cfg.Quiz.LoginWait, os.Stdin, os.Stdout),
		out:  os.Stdout,
	}, nil
}

// Run - loads answers, opens the quiz page, waits for the operator and drives the quiz.
// Answers are loaded before the browser starts so a bad file fails fast.
func (t *TerminalInterface) Run(ctx context.Context) (entities.RunReport, error) {
	answers, err := t.answers.Load()
	if err != nil {
		return entities.RunReport{}, err
	}
	t.logger.WithField("words", answers.Len()).Infof("Loaded answers from %s", t.cfg.Quiz.AnswersPath)

	page, err := t.openPage()
	if err != nil {
		return entities.RunReport{}, fmt.Errorf("failed to initialize browser: %w", err)
	}

	// Until the driver takes the page over, closing it is our job.
	handedOff := false
	defer func() {
		if !handedOff {
			if err := page.Close(); err != nil {
				t.logger.WithError(err).Warn("Failed to close browser session")
			}
		}
	}()

	if err := page.Navigate(ctx, t.cfg.Quiz.URL); err != nil {
		return entities.RunReport{}, fmt.Errorf("failed to open %s: %w", t.cfg.Quiz.URL, err)
	}

	t.logger.Infof("Waiting %s for the page to load", t.cfg.Quiz.PageLoadDelay)
	if err := poll.Sleep(ctx, t.cfg.Quiz.PageLoadDelay); err != nil {
		return entities.RunReport{}, err
	}

	if err := t.gate.Wait(ctx); err != nil {
		return entities.RunReport{}, err
	}

	recorder := metrics.NewRecorder()
	if t.cfg.Metrics.Addr != "" {
		srv := metrics.Serve(t.cfg.Metrics.Addr, recorder, t.logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	driver := quiz.NewDriver(page, answers, quizOptions(t.cfg.Quiz), recorder, t.logger)
	handedOff = true
	return driver.Run(ctx)
}

// PrintReport - writes a one-line run summary for the operator
func (t *TerminalInterface) PrintReport(report entities.RunReport) {
	fmt.Fprintf(t.out, "\nStopped: %s", report.Outcome)
	if report.LastWord != "" {
		fmt.Fprintf(t.out, " (last word %q)", report.LastWord)
	}
	fmt.Fprintf(t.out, "\nAnswered %d of %d questions, %d skipped, %d without submit, in %s\n",
		report.AnswersSubmitted, report.QuestionsSeen, report.IterationsSkipped, report.SubmitsMissing,
		report.Elapsed.Round(time.Second))
}

func quizOptions(cfg config.QuizConfig) quiz.Options {
	return quiz.Options{
		Selectors: quiz.Selectors{
			Question: cfg.QuestionSelector,
			Input:    cfg.InputSelector,
			Submit:   cfg.SubmitSelector,
			Overlay:  cfg.OverlaySelector,
		},
		QuestionTimeout: cfg.QuestionTimeout,
		ElementTimeout:  cfg.ElementTimeout,
		OverlayTimeout:  cfg.OverlayTimeout,
		Cooldown:        cfg.Cooldown,
		PollInterval:    cfg.PollInterval,
	}
}

// newLogger - creates the logger shared by every component
func newLogger(level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return logger
}
