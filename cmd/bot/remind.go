package main

import (
	"errors"

	"github.com/diegoclair/slack-duty-bot/internal/domain"
	"github.com/spf13/cobra"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Send today's reminder now and exit",
	Long:  "Runs one reminder cycle outside the scheduler, for example from an external cron. Does nothing if today's reminder was already sent. Refuses to run while a server owns the state directory; use `/rotation remind` in Slack then.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		err = a.instance.Scheduler.RunOnce(cmd.Context())
		if errors.Is(err, domain.ErrAlreadyNotified) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(remindCmd)
}
