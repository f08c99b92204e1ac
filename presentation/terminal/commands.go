package terminal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"wocabot/infrastructure/browser"
	"wocabot/infrastructure/config"
	"wocabot/infrastructure/storage"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCommand - builds the wocabot command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wocabot",
		Short: "Wocabot answers the falling-word vocabulary quiz",
		Long: `Wocabot opens the quiz page, waits for you to log in, then reads each falling word,
types the translation from your answer file and submits it until the quiz ends
or a word is not in the file.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         runQuiz,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "YAML config file (environment variables still override it)")
	flags.String("state-dir", "", "Directory for the saved browser login (default ~/.wocabot)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.Flags().StringP("answers", "a", "", "Answer file, JSON object or YAML mapping of word to translation")
	rootCmd.Flags().String("url", "", "Quiz site URL")
	rootCmd.Flags().String("driver", "", "Browser driver: playwright or selenium")
	rootCmd.Flags().Bool("headless", false, "Run the browser without a window")
	rootCmd.Flags().Duration("login-wait", 0, "Start after this delay instead of waiting for Enter")
	rootCmd.Flags().String("metrics-addr", "", "Serve prometheus metrics on this address, e.g. :2112")

	rootCmd.AddCommand(newInstallCommand(), newForgetLoginCommand())
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newInstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Download the chromium build used by the playwright driver",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return browser.Install(logger)
		},
	}
}

func newForgetLoginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "forget-login",
		Short: "Remove the saved browser login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			state, err := storage.NewBrowserState(cfg.Browser.StateDir)
			if err != nil {
				return err
			}
			if err := state.Clear(); err != nil {
				return fmt.Errorf("failed to remove saved login: %w", err)
			}

			logger.Infof("Removed saved login from %s", state.Path())
			return nil
		},
	}
}

func runQuiz(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ti, err := NewTerminalInterface(cfg, logger)
	if err != nil {
		return err
	}
	ti.out = cmd.OutOrStdout()
	ti.gate = newGate(cfg.Quiz.LoginWait, cmd.InOrStdin(), cmd.OutOrStdout())

	report, err := ti.Run(cmd.Context())
	if report.Outcome != "" {
		ti.PrintReport(report)
	}

	switch {
	case errors.Is(err, context.Canceled):
		logger.Warn("Interrupted")
		return err
	case err != nil && report.Outcome == "":
		logger.WithError(err).Error("Setup failed")
		return err
	case report.Outcome.IsFailure():
		return err
	}
	return nil
}

// loadConfig - reads configuration and applies command line overrides
func loadConfig(cmd *cobra.Command) (*config.Config, *logrus.Logger, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, nil, err
	}

	level, err := cfg.Log.ParseLevel()
	if err != nil {
		return nil, nil, err
	}
	return cfg, newLogger(level), nil
}

// applyFlags - overrides config values with flags set explicitly on the command line
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	stringFlags := map[string]*string{
		"answers":      &cfg.Quiz.AnswersPath,
		"url":          &cfg.Quiz.URL,
		"driver":       &cfg.Browser.Driver,
		"state-dir":    &cfg.Browser.StateDir,
		"log-level":    &cfg.Log.Level,
		"metrics-addr": &cfg.Metrics.Addr,
	}
	for name, target := range stringFlags {
		if flags.Lookup(name) == nil || !flags.Changed(name) {
			continue
		}
		value, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*target = value
	}

	if flags.Lookup("headless") != nil && flags.Changed("headless") {
		headless, err := flags.GetBool("headless")
		if err != nil {
			return err
		}
		cfg.Browser.Headless = headless
	}

	if flags.Lookup("login-wait") != nil && flags.Changed("login-wait") {
		wait, err := flags.GetDuration("login-wait")
		if err != nil {
			return err
		}
		cfg.Quiz.LoginWait = wait
	}

	return cfg.Validate()
}
