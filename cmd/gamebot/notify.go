package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/gamebase54/gamebot/internal/adapters/redis"
	"github.com/gamebase54/gamebot/internal/config"
	"github.com/gamebase54/gamebot/pkg/domain"
)

var notifyCmd = &cobra.Command{
	Use:   "notify [message]",
	Short: "Queue a broadcast notification",
	Long: `Queues a notification for delivery by a running bot. The message
is written straight to the shared queue, so this only works with the
redis session backend.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("config")
		activeOnly, _ := cmd.Flags().GetBool("active-only")

		cfg, err := config.Load(path)
		if err != nil {
			fmt.Printf("Error loading configuration: %v\n", err)
			os.Exit(1)
		}
		if cfg.SessionBackend != config.BackendRedis {
			fmt.Printf("The notify command needs a shared queue; session backend is %q, want %q\n",
				cfg.SessionBackend, config.BackendRedis)
			os.Exit(1)
		}

		client := backend.NewClient(&backend.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()

		store := redis.NewNotificationStore(client)
		notification := &domain.Notification{
			ID:              uuid.NewString(),
			Message:         strings.Join(args, " "),
			ActiveUsersOnly: activeOnly,
			CreatedAt:       time.Now(),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.Enqueue(ctx, notification); err != nil {
			fmt.Printf("Error queueing notification: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Queued notification %s\n", notification.ID)
	},
}

func init() {
	rootCmd.AddCommand(notifyCmd)
	notifyCmd.Flags().Bool("active-only", false, "Deliver only to recently active users")
}
