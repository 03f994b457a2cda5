package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/gamebase54/gamebot/internal/config"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the bot in long-polling mode",
	Long: `Starts the bot against the Telegram API using getUpdates long
polling. This is the simplest deployment mode and needs no public
endpoint.`,
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(path)
		if err != nil {
			fmt.Printf("Error loading configuration: %v\n", err)
			os.Exit(1)
		}

		a, err := bootstrap(cfg)
		if err != nil {
			fmt.Printf("Error initializing gamebot: %v\n", err)
			os.Exit(1)
		}
		defer a.cleanup()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		startMetricsServer(ctx, a, cfg.MetricsAddr)

		fmt.Println("Starting gamebot in long-polling mode")
		if err := a.engine.Run(ctx, a.client); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Printf("Bot stopped with error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Gamebot stopped gracefully")
	},
}

// startMetricsServer exposes Prometheus metrics on its own listener. It
// is best effort and never blocks bot startup.
func startMetricsServer(ctx context.Context, a *app, addr string) {
	if addr == "" {
		return
	}
	registry := prometheus.NewRegistry()
	if err := a.collectors.Register(registry); err != nil {
		a.logger.Warn("failed to register metrics", "err", err)
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Warn("metrics server stopped", "err", err)
		}
	}()
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()
}

func init() {
	rootCmd.AddCommand(runCmd)
}
