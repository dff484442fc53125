package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"sigwatch-hq/kestrel/pkg/archive"
	"sigwatch-hq/kestrel/pkg/cli"
	"sigwatch-hq/kestrel/pkg/config"
	"sigwatch-hq/kestrel/pkg/retention"
	"sigwatch-hq/kestrel/pkg/rotation"
	"sigwatch-hq/kestrel/pkg/scheduler"
	"sigwatch-hq/kestrel/pkg/telemetry/health"
	"sigwatch-hq/kestrel/pkg/telemetry/logging"
	"sigwatch-hq/kestrel/pkg/telemetry/metrics"
)

var runFlags struct {
	logLevel string
	dryRun   bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the kestrel rotation daemon",
	Long: `Start the kestrel daemon with the specified configuration.

The daemon creates a rotation handle for every managed log file, runs the
background scheduler for trigger checks, maintenance, and retention sweeps,
ships rotated artifacts to the configured archive backends, and serves
Prometheus metrics.

Examples:
  # Start with default config
  kestrel run

  # Start with custom config
  kestrel run --config /etc/kestrel/kestrel.yaml

  # Validate config without starting the daemon
  kestrel run --dry-run`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the daemon")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	// Apply flag overrides
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.New(logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
	})
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	logging.SetDefault(logger)

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	fmt.Printf("Kestrel v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	// Metrics
	collector := metrics.NewCollector(&metrics.Config{
		Enabled: cfg.Telemetry.MetricsEnabled(),
	}, nil)

	// Archive record store
	store, err := archive.NewRecordStore(buildStoreConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to open archive record store: %w", err)
	}
	defer store.Close()
	fmt.Println("✓ Archive record store opened")

	// Archive manager with configured backends
	archiveMgr := archive.NewManager(store, buildArchiveManagerConfig(cfg), collector)
	backends, err := buildBackends(cfg)
	if err != nil {
		return fmt.Errorf("failed to build archive backends: %w", err)
	}
	for _, b := range backends {
		archiveMgr.RegisterBackend(b)
	}
	defer archiveMgr.Close()
	fmt.Printf("✓ Archive manager started (%d backends, %d workers)\n",
		len(backends), cfg.Archive.Workers)

	// Retention manager over the default category table plus overrides
	retentionMgr := retention.NewManager(buildRetentionPolicies(cfg), store, collector)

	// Rotation manager and scheduler
	rotationMgr := rotation.NewManager(buildRotationPolicies(cfg), archiveMgr, collector)
	defer rotationMgr.Close()

	sched := scheduler.New(buildSchedulerConfig(cfg), retentionMgr)
	rotationMgr.SetRegistrar(sched)

	for _, file := range cfg.Files {
		if _, err := rotationMgr.CreateHandle(file.Path, file.Policy); err != nil {
			return fmt.Errorf("failed to create handle for %q: %w", file.Path, err)
		}
	}
	fmt.Printf("✓ Managing %d log files under %d policies\n",
		len(cfg.Files), len(cfg.Policies))

	for _, category := range retentionMgr.Categories() {
		sched.RegisterRetention(category)
	}

	// One context drives the scheduler, the config watcher, and shutdown.
	ctx := cli.SetupSignalHandler()

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()
	if next := sched.NextRun(); next != nil {
		slog.Debug("scheduler started", "next_run", next)
	}
	fmt.Println("✓ Scheduler started")

	// Metrics and health endpoints
	var metricsSrv *http.Server
	if cfg.Telemetry.MetricsEnabled() {
		checker := health.New(5 * time.Second)
		checker.RegisterCheck("archive_store", func(ctx context.Context) error {
			_, err := store.Count(ctx)
			return err
		})
		checker.RegisterCheck("scheduler", func(ctx context.Context) error {
			if !sched.IsRunning() {
				return fmt.Errorf("scheduler not running")
			}
			return nil
		})

		mux := http.NewServeMux()
		mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
		mux.HandleFunc("/health", checker.LivenessHandler())
		mux.HandleFunc("/ready", checker.ReadinessHandler())
		mux.HandleFunc("/version", health.VersionHandler(Version, GitCommit, BuildDate))
		metricsSrv = &http.Server{
			Addr:    cfg.Telemetry.Metrics.ListenAddress,
			Handler: mux,
		}
		go func() {
			slog.Info("metrics endpoint listening",
				"address", cfg.Telemetry.Metrics.ListenAddress,
				"path", cfg.Telemetry.Metrics.Path,
			)
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("metrics endpoint failed", "error", err)
			}
		}()
		fmt.Printf("✓ Metrics endpoint: http://%s%s\n",
			cfg.Telemetry.Metrics.ListenAddress, cfg.Telemetry.Metrics.Path)
	}

	// Config hot reload
	if cfg.Watch {
		watcher, err := config.NewWatcher(cfgFile, config.DefaultDebounceInterval)
		if err != nil {
			return fmt.Errorf("failed to create config watcher: %w", err)
		}
		go func() {
			err := watcher.Watch(ctx, func(next *config.Config) {
				rotationMgr.ReloadPolicies(buildRotationPolicies(next))
			})
			if err != nil {
				slog.Error("config watcher stopped", "error", err)
			}
		}()
		defer watcher.Stop()
		fmt.Println("✓ Configuration watcher started")
	}

	fmt.Println("\nPress Ctrl+C to stop")

	<-ctx.Done()
	fmt.Println("\nShutdown signal received, stopping gracefully...")

	if metricsSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics endpoint shutdown failed", "error", err)
		}
	}

	fmt.Println("✓ Daemon stopped")
	return nil
}
