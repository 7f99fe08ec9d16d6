package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "campaigns",
	Short: "Bulk email campaign dispatcher",
	Long:  "Dispatches personalized outbound campaigns on behalf of many senders, with per-sender rounds, randomized pacing, opt-out handling, and daily-limit blocklisting.",
}

// Execute runs the root Cobra command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
