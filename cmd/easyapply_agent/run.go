package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jonathan/easyapply-agent/internal/browser"
	"github.com/jonathan/easyapply-agent/internal/config"
	"github.com/jonathan/easyapply-agent/internal/credentials"
	"github.com/jonathan/easyapply-agent/internal/engine"
	"github.com/jonathan/easyapply-agent/internal/history"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run a full application session end-to-end",
	Long: `Signs in, opens the job search with the Easy Apply filter, and submits
applications listing by listing until the session cap is reached or the
results are exhausted. The run report is written as JSON when the session
ends, including when it ends early.

Credentials come from the local credential store if one exists (see the
"credentials" command), otherwise from LINKEDIN_EMAIL and LINKEDIN_PASSWORD.
Configuration can be loaded from a JSON file using --config; command-line
flags override config file values.`,
	RunE: runSessionCmd,
}

var (
	runConfigPath string
	runKeywords   string
	runLocation   string
	runMaxApps    int
	runMinDelay   float64
	runReportFile string
	runHistoryDB  string
	runHeadless   bool
	runTimeout    int
	runVerbose    bool
)

func init() {
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runKeywords, "keywords", "k", "", "Search keywords")
	runCommand.Flags().StringVarP(&runLocation, "location", "l", "", "Search location")
	runCommand.Flags().IntVar(&runMaxApps, "max-applications", 0, "Session cap on applied plus failed listings")
	runCommand.Flags().Float64Var(&runMinDelay, "min-delay", 0, "Minimum seconds between application attempts")
	runCommand.Flags().StringVar(&runReportFile, "report", "", "Path for the JSON run report")
	runCommand.Flags().StringVar(&runHistoryDB, "history-db", "", "Path to the run history database (optional)")
	runCommand.Flags().BoolVar(&runHeadless, "headless", true, "Run the browser headless")
	runCommand.Flags().IntVar(&runTimeout, "timeout", 0, "Per-action browser timeout in seconds")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(runCommand)
}

func runSessionCmd(cmd *cobra.Command, _ []string) error {
	// Cancellation takes effect between listings, never mid-submission.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	log := newLogger(cfg.Verbose)

	storeDir, err := credentials.DefaultDir()
	if err != nil {
		return fmt.Errorf("could not locate credential store: %w", err)
	}
	creds, source, err := credentials.Resolve(storeDir)
	if err != nil {
		return fmt.Errorf("no credentials available: %w", err)
	}
	log.Debug().Str("source", source).Msg("credentials resolved")

	drv, err := browser.NewChrome(ctx, browser.ChromeOptions{
		Headless:      cfg.Headless,
		ActionTimeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer drv.Close()

	started := time.Now()
	rep, runErr := engine.New(drv, log).Run(ctx, engine.RunConfig{
		Credentials:     creds,
		Keywords:        cfg.Keywords,
		Location:        cfg.Location,
		MaxApplications: cfg.MaxApplications,
		MinDelay:        time.Duration(cfg.MinDelaySeconds * float64(time.Second)),
		ReportPath:      cfg.ReportFile,
	})

	if cfg.HistoryDB != "" {
		appendHistory(log, cfg, rep.TotalApplied, rep.TotalFailed, rep.TotalSkipped, started, runErr)
	}

	fmt.Fprintf(os.Stdout, "Applied: %d  Failed: %d  Skipped: %d\n", rep.TotalApplied, rep.TotalFailed, rep.TotalSkipped)
	if cfg.ReportFile != "" {
		fmt.Fprintf(os.Stdout, "Report written to %s\n", cfg.ReportFile)
	}
	return runErr
}

// resolveConfig loads the optional config file, applies explicit flag
// overrides, then defaults, and validates the result.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if runConfigPath != "" {
		loaded, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	// Only override when the flag was explicitly set.
	if cmd.Flags().Changed("keywords") {
		cfg.Keywords = runKeywords
	}
	if cmd.Flags().Changed("location") {
		cfg.Location = runLocation
	}
	if cmd.Flags().Changed("max-applications") {
		cfg.MaxApplications = runMaxApps
	}
	if cmd.Flags().Changed("min-delay") {
		cfg.MinDelaySeconds = runMinDelay
	}
	if cmd.Flags().Changed("report") {
		cfg.ReportFile = runReportFile
	}
	if cmd.Flags().Changed("history-db") {
		cfg.HistoryDB = runHistoryDB
	}
	if cmd.Flags().Changed("headless") {
		cfg.Headless = runHeadless
	} else if runConfigPath == "" {
		cfg.Headless = true
	}
	if cmd.Flags().Changed("timeout") {
		cfg.TimeoutSeconds = runTimeout
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

func appendHistory(log zerolog.Logger, cfg config.Config, applied, failed, skipped int, started time.Time, runErr error) {
	// The run context may already be canceled; history still gets written.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	st, err := history.Open(cfg.HistoryDB)
	if err != nil {
		log.Warn().Err(err).Msg("could not open history database")
		return
	}
	defer st.Close()

	status := "completed"
	if runErr != nil {
		status = "aborted: " + runErr.Error()
	}
	if _, err := st.Append(ctx, history.Entry{
		StartedAt:  started,
		FinishedAt: time.Now(),
		Keywords:   cfg.Keywords,
		Location:   cfg.Location,
		Applied:    applied,
		Failed:     failed,
		Skipped:    skipped,
		Status:     status,
	}); err != nil {
		log.Warn().Err(err).Msg("could not append run history")
	}
}
