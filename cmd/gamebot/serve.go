package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/gamebase54/gamebot/internal/adapters/telegram"
	"github.com/gamebase54/gamebot/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the bot behind a Telegram webhook",
	Long: `Starts the bot as an HTTP server that receives updates on a
secret webhook path. Point Telegram's setWebhook at
https://<host>/telegram/webhook/<secret>.`,
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(path)
		if err != nil {
			fmt.Printf("Error loading configuration: %v\n", err)
			os.Exit(1)
		}
		if cfg.WebhookSecret == "" {
			fmt.Println("Webhook mode requires a webhook secret (GAMEBOT_WEBHOOK_SECRET)")
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

		webhook := telegram.NewWebhook(cfg.WebhookSecret, a.logger)

		registry := prometheus.NewRegistry()
		if err := a.collectors.Register(registry); err != nil {
			fmt.Printf("Error registering metrics: %v\n", err)
			os.Exit(1)
		}

		router := chi.NewRouter()
		router.Mount("/", webhook.Handler())
		router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		router.Get("/healthz", func(rw http.ResponseWriter, _ *http.Request) {
			rw.WriteHeader(http.StatusOK)
			_, _ = rw.Write([]byte("ok"))
		})

		srv := &http.Server{
			Addr:    cfg.ListenAddr,
			Handler: router,
		}

		serverErrors := make(chan error, 1)
		go func() {
			fmt.Printf("Starting gamebot webhook server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		engineDone := make(chan error, 1)
		go func() {
			engineDone <- a.engine.Run(ctx, webhook)
		}()

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case err := <-engineDone:
			if err != nil && !errors.Is(err, context.Canceled) {
				fmt.Printf("Bot stopped with error: %v\n", err)
				os.Exit(1)
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Gamebot stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
