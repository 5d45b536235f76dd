package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"eos-mcp/internal/feedback"
)

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "classify TOPIC...",
		Short:   "Print the feedback category of each OSC address",
		Example: `  eos-feedback-monitor classify /eos/out/user/1/action /eos/out/dmx/1`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, topic := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%-40s %s\n", topic, feedback.Classify(topic))
			}
			return nil
		},
	}
}
