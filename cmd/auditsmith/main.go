package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/amosWeiskopf/auditsmith/internal/config"
	"github.com/amosWeiskopf/auditsmith/internal/models"
	"github.com/amosWeiskopf/auditsmith/pkg/dataforseo"
	"github.com/amosWeiskopf/auditsmith/pkg/report"
	"github.com/amosWeiskopf/auditsmith/pkg/reporter"
	"github.com/amosWeiskopf/auditsmith/pkg/task"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "auditsmith",
	Short: "AuditSmith - SEO audit orchestration over the DataForSEO API",
	Long: `AuditSmith submits website crawl jobs to the DataForSEO on-page API,
tracks them to completion and aggregates the results into a single
normalized SEO audit report.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var auditCmd = &cobra.Command{
	Use:   "audit [URL]",
	Short: "Run a full audit: submit, poll to completion, build the report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := args[0]
		maxPages, _ := cmd.Flags().GetInt("max-pages")
		enableJS, _ := cmd.Flags().GetBool("enable-js")
		loadResources, _ := cmd.Flags().GetBool("load-resources")
		skipRobots, _ := cmd.Flags().GetBool("skip-robots")
		interval, _ := cmd.Flags().GetDuration("poll-interval")
		timeout, _ := cmd.Flags().GetDuration("poll-timeout")
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		priorPath, _ := cmd.Flags().GetString("compare-to")

		app, cfg, err := buildApp(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Config supplies defaults; explicit flags win.
		opts := models.AuditOptions{
			MaxPages:            cfg.Audit.MaxPages,
			EnableJavaScript:    cfg.Audit.EnableJavaScript,
			LoadResources:       cfg.Audit.LoadResources,
			SkipRobotsPreflight: !cfg.Audit.RespectRobotsTxt,
		}
		if cmd.Flags().Changed("max-pages") {
			opts.MaxPages = maxPages
		}
		if cmd.Flags().Changed("enable-js") {
			opts.EnableJavaScript = enableJS
		}
		if cmd.Flags().Changed("load-resources") {
			opts.LoadResources = loadResources
		}
		if cmd.Flags().Changed("skip-robots") {
			opts.SkipRobotsPreflight = skipRobots
		}
		t, err := app.manager.CreateTask(ctx, target, "cli", opts)
		if err != nil {
			return fmt.Errorf("failed to submit audit: %w", err)
		}
		fmt.Printf("Audit submitted: %s (vendor task %s)\n", t.ID, t.VendorTaskID)

		t, err = pollUntilDone(ctx, app.manager, t.ID, interval, timeout)
		if err != nil {
			if ctx.Err() != nil {
				// Interrupted: stop the vendor crawl so it stops billing.
				stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer cancel()
				if stopErr := app.manager.Cancel(stopCtx, t.ID); stopErr != nil {
					fmt.Fprintf(os.Stderr, "failed to cancel crawl: %v\n", stopErr)
				} else {
					fmt.Println("Crawl canceled.")
				}
			}
			return err
		}
		if t.Status == models.TaskFailed {
			return fmt.Errorf("audit failed: %s", t.LastError)
		}
		fmt.Printf("Crawl complete: %d%% (cost $%.4f)\n", t.Progress, t.Cost)

		rep, err := app.engine.GenerateReport(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("report generation failed: %w", err)
		}

		if priorPath != "" {
			prior, err := loadReport(priorPath)
			if err != nil {
				return fmt.Errorf("failed to load prior report: %w", err)
			}
			rep.Historical = report.Compare(rep, prior)
		}

		return writeRendered(rep, reporter.Format(format), output)
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare [CURRENT.json] [PRIOR.json]",
	Short: "Diff two saved audit reports",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		current, err := loadReport(args[0])
		if err != nil {
			return fmt.Errorf("failed to load current report: %w", err)
		}
		prior, err := loadReport(args[1])
		if err != nil {
			return fmt.Errorf("failed to load prior report: %w", err)
		}

		cmp := report.Compare(current, prior)
		data, err := json.MarshalIndent(cmp, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

var renderCmd = &cobra.Command{
	Use:   "render [REPORT.json]",
	Short: "Re-render a saved JSON report in another format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		rep, err := loadReport(args[0])
		if err != nil {
			return fmt.Errorf("failed to load report: %w", err)
		}
		return writeRendered(rep, reporter.Format(format), output)
	},
}

// app bundles the wired pipeline for one CLI invocation.
type app struct {
	manager *task.Manager
	engine  *report.Engine
}

func buildApp(cmd *cobra.Command) (*app, *config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := newLogger(cmd, cfg.Logging)

	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		go serveMetrics(addr, logger)
	}

	client := dataforseo.New(dataforseo.Config{
		BaseURL:       cfg.DataForSEO.Endpoint,
		Login:         cfg.DataForSEO.Login,
		Password:      cfg.DataForSEO.Password,
		Timeout:       cfg.DataForSEO.Timeout,
		MaxRetries:    cfg.DataForSEO.MaxRetries,
		RetryDelay:    cfg.DataForSEO.RetryDelay,
		RateLimit:     cfg.DataForSEO.RateLimit,
		CacheTTL:      cfg.Cache.TTL,
		CacheCapacity: cfg.Cache.Capacity,
		Logger:        logger,
	})

	store := task.NewMemoryStore()
	manager := task.NewManager(client, store, logger)
	engine := report.NewEngine(client, store, logger)

	return &app{manager: manager, engine: engine}, cfg, nil
}

func newLogger(cmd *cobra.Command, cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = zerolog.DebugLevel
	}

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger()
}

func serveMetrics(addr string, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Info().Str("addr", addr).Msg("serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error().Err(err).Msg("metrics server stopped")
	}
}

func pollUntilDone(ctx context.Context, manager *task.Manager, taskID string, interval, timeout time.Duration) (*models.AuditTask, error) {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		t, err := manager.PollStatus(ctx, taskID)
		if err == nil && t.Status.Terminal() {
			return t, nil
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "poll failed, will retry: %v\n", err)
		} else {
			fmt.Printf("Crawl progress: %d%%\n", t.Progress)
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("audit did not finish within %s", timeout)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func loadReport(path string) (*models.SeoAuditReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rep models.SeoAuditReport
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

func writeRendered(rep *models.SeoAuditReport, format reporter.Format, output string) error {
	data, err := reporter.New().Render(rep, format)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if output != "" {
		if err := os.WriteFile(output, data, 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Printf("Report saved to %s\n", output)
		return nil
	}
	fmt.Println(string(data))
	return nil
}

func init() {
	auditCmd.Flags().Int("max-pages", 100, "Maximum pages the vendor crawls")
	auditCmd.Flags().Bool("enable-js", false, "Render pages with JavaScript during the crawl")
	auditCmd.Flags().Bool("load-resources", true, "Fetch page resources during the crawl")
	auditCmd.Flags().Bool("skip-robots", false, "Skip the local robots.txt preflight")
	auditCmd.Flags().Duration("poll-interval", 30*time.Second, "How often to poll crawl progress")
	auditCmd.Flags().Duration("poll-timeout", 45*time.Minute, "Give up if the crawl takes longer than this")
	auditCmd.Flags().String("format", "json", "Report format (json, html, markdown, pdf, xlsx)")
	auditCmd.Flags().String("output", "", "Output file for the report")
	auditCmd.Flags().String("compare-to", "", "Prior JSON report to diff against")

	renderCmd.Flags().String("format", "markdown", "Report format (json, html, markdown, pdf, xlsx)")
	renderCmd.Flags().String("output", "", "Output file for the report")

	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(renderCmd)

	rootCmd.PersistentFlags().String("config", "", "Config file path")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose output")
	rootCmd.PersistentFlags().String("metrics-addr", "", "Serve prometheus metrics on this address")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
