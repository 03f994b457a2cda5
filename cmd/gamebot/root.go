package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gamebot",
	Short: "Gamebot is a Telegram game-catalog bot",
	Long: `Gamebot serves a browsable game catalog over Telegram: category
folders, paginated game lists, fuzzy search and queued broadcast
notifications.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the configuration file (default: ./gamebot.yaml)")
}
