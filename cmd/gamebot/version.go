package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	gamebot "github.com/gamebase54/gamebot"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gamebot",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gamebot version %s\n", strings.TrimSpace(gamebot.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
