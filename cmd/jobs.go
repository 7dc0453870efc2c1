package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vibast-solutions/ms-go-escrow/app/service"
	"github.com/vibast-solutions/ms-go-escrow/config"
)

var (
	workerMode bool
)

var transfersCmd = &cobra.Command{
	Use:   "transfers",
	Short: "Run outbound transfer commands",
}

var transfersDispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Submit pending payouts, refunds and fee withdrawals to the ledger",
	Run: func(_ *cobra.Command, _ []string) {
		runCommand(
			"transfers_dispatch",
			func(cfg *config.Config) time.Duration { return cfg.Jobs.DispatchInterval },
			func(s *service.EscrowService, ctx context.Context) error {
				return s.RunDispatchTransfersBatch(ctx)
			},
		)
	},
}

var transfersReconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Poll the ledger for submitted transfers without a receipt",
	Run: func(_ *cobra.Command, _ []string) {
		runCommand(
			"transfers_reconcile",
			func(cfg *config.Config) time.Duration { return cfg.Jobs.ReconcileInterval },
			func(s *service.EscrowService, ctx context.Context) error {
				return s.RunReconcileTransfersBatch(ctx)
			},
		)
	},
}

func init() {
	rootCmd.AddCommand(transfersCmd)
	transfersCmd.AddCommand(transfersDispatchCmd)
	transfersCmd.AddCommand(transfersReconcileCmd)

	rootCmd.PersistentFlags().BoolVar(&workerMode, "worker", false, "Run continuously using configured interval")
}

func runCommand(
	name string,
	intervalResolver func(cfg *config.Config) time.Duration,
	fn func(s *service.EscrowService, ctx context.Context) error,
) {
	cfg, escrowService, cleanup := mustCreateEscrowService()
	defer cleanup()

	if workerMode {
		runWorker(name, intervalResolver(cfg), escrowService, fn)
		return
	}

	ctx := context.Background()
	runJob(name, func() error { return fn(escrowService, ctx) })
}

func runWorker(
	name string,
	interval time.Duration,
	escrowService *service.EscrowService,
	fn func(s *service.EscrowService, ctx context.Context) error,
) {
	if interval <= 0 {
		logrus.WithField("job", name).Fatal("invalid worker interval")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runJob(name, func() error { return fn(escrowService, ctx) })

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	for {
		select {
		case <-quit:
			logrus.WithField("job", name).Info("Worker shutdown requested")
			return
		case <-ticker.C:
			runJob(name, func() error { return fn(escrowService, ctx) })
		}
	}
}

func runJob(name string, fn func() error) {
	start := time.Now()
	err := fn()
	latency := time.Since(start)
	if err != nil {
		logrus.WithError(err).WithField("job", name).WithField("latency", latency.String()).Error("job_failed")
		return
	}
	logrus.WithField("job", name).WithField("latency", latency.String()).Info("job_completed")
}
