package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"notes-explorer/internal/picker"
)

func newTopicsCmd(deps func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "Print the topic vocabulary as topic<TAB>embedding lines.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			topics, err := deps().engine.Topics(cmd.Context())
			if err != nil {
				return err
			}
			lines, err := picker.FormatTopics(topics)
			if err != nil {
				return err
			}
			for _, line := range lines {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}
