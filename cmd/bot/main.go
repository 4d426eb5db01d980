package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "time/tzdata"
)

var rootCmd = &cobra.Command{
	Use:           "slack-duty-bot",
	Short:         "Daily duty rotation for a Slack channel",
	Long:          "Reminds one team member per active day, in roster order, and moves the rotation on when they confirm, skip or do not answer.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
