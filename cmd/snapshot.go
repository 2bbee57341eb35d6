package cmd

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ayothedoc3/whop-analytics-dashboard/app/factory"
	"github.com/ayothedoc3/whop-analytics-dashboard/app/mapper"
	"github.com/ayothedoc3/whop-analytics-dashboard/app/retry"
	"github.com/ayothedoc3/whop-analytics-dashboard/app/service"
	"github.com/ayothedoc3/whop-analytics-dashboard/app/whop"
	"github.com/ayothedoc3/whop-analytics-dashboard/config"
)

var snapshotWorker bool

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Fetch and print a metrics snapshot",
	Long:  "Fetch the Whop record collections once, compute the dashboard metrics and print them as JSON to stdout.",
	Run: func(_ *cobra.Command, _ []string) {
		runCommand(
			"snapshot",
			snapshotWorker,
			func(cfg *config.Config) time.Duration { return cfg.Jobs.SnapshotInterval },
			printSnapshot,
		)
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().BoolVar(&snapshotWorker, "worker", false, "Run continuously using configured interval")
}

func runCommand(
	name string,
	worker bool,
	intervalResolver func(cfg *config.Config) time.Duration,
	fn func(s *service.MetricsService, ctx context.Context) error,
) {
	cfg, metricsService := mustCreateMetricsService()

	if worker {
		runWorker(name, intervalResolver(cfg), metricsService, fn)
		return
	}

	ctx := context.Background()
	runJob(name, func() error { return fn(metricsService, ctx) })
}

func runWorker(
	name string,
	interval time.Duration,
	metricsService *service.MetricsService,
	fn func(s *service.MetricsService, ctx context.Context) error,
) {
	if interval <= 0 {
		factory.NewJobLogger(name).Fatal("invalid worker interval")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runJob(name, func() error { return fn(metricsService, ctx) })

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	for {
		select {
		case <-quit:
			factory.NewJobLogger(name).Info("Worker shutdown requested")
			return
		case <-ticker.C:
			runJob(name, func() error { return fn(metricsService, ctx) })
		}
	}
}

func mustCreateMetricsService() (*config.Config, *service.MetricsService) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	whopClient := whop.NewAPIClient(cfg.Whop)
	metricsService := service.NewMetricsService(whopClient, cfg.Whop, retry.Config{
		MaxAttempts:  cfg.Fetch.MaxAttempts,
		InitialDelay: cfg.Fetch.InitialDelay,
	})

	return cfg, metricsService
}

func printSnapshot(s *service.MetricsService, ctx context.Context) error {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}

	payload, err := json.MarshalIndent(mapper.MetricsResponse(snapshot), "", "  ")
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(append(payload, '\n'))
	return err
}

func runJob(name string, fn func() error) {
	logger := factory.NewJobLogger(name)
	start := time.Now()
	err := fn()
	latency := time.Since(start)
	if err != nil {
		logger.WithError(err).WithField("latency", latency.String()).Error("job_failed")
		return
	}
	logger.WithField("latency", latency.String()).Info("job_completed")
}
