package main

import (
	"fmt"

	"github.com/diegoclair/slack-duty-bot/internal/statefile"
	"github.com/spf13/cobra"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the persisted rotation state",
	Long:  "Prints the rotation state file as the server would load it. The file is only read, never repaired or rewritten, so this is safe next to a running server.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := loadState(cfg, log)
		if err != nil {
			return err
		}

		state, repaired, err := store.Peek()
		if err != nil {
			return fmt.Errorf("%s: %w", store.Path(), err)
		}
		if repaired {
			fmt.Fprintln(cmd.ErrOrStderr(), "note: the file has fields that will be repaired on the next server start")
		}

		data, err := statefile.Encode(state)
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stateCmd)
}
