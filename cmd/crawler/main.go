package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/user/secnews-crawler/internal/app"
	"github.com/user/secnews-crawler/pkg/config"
	"github.com/user/secnews-crawler/pkg/logger"
	"github.com/user/secnews-crawler/pkg/metrics"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "crawler",
		Short:         "Securities news crawler",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newRunCmd(), newStatusCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var noSummary bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Crawl every active company once and print the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, _ *config.Config, a *app.App) error {
				res := a.Manager.RunNow(ctx)
				if err := printJSON(cmd, res); err != nil {
					return err
				}
				if !res.Success {
					return fmt.Errorf("crawl failed: %s", res.Error)
				}
				return nil
			}, func(cfg *config.Config) {
				if noSummary {
					cfg.CrawlSummarize = false
				}
			})
		},
	}
	cmd.Flags().BoolVar(&noSummary, "no-summary", false, "skip AI summaries and store truncated content")
	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the last and the running crawl run",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, _ *config.Config, a *app.App) error {
				status, err := a.Manager.GetStatus(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd, status)
			}, nil)
		},
	}
}

// withApp loads config, applies adjust, builds the App and runs fn with a
// context cancelled on SIGINT or SIGTERM.
func withApp(parent context.Context, fn func(context.Context, *config.Config, *app.App) error, adjust func(*config.Config)) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if adjust != nil {
		adjust(cfg)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	a, err := app.New(ctx, cfg, log, metrics.New(prometheus.NewRegistry()))
	if err != nil {
		log.Error("failed to initialise", zap.Error(err))
		return err
	}
	defer a.Close()

	return fn(ctx, cfg, a)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
