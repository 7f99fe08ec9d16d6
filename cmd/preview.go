package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vibast-solutions/ms-go-campaigns/app/placeholder"
	"github.com/vibast-solutions/ms-go-campaigns/app/source"
)

var previewCmd = &cobra.Command{
	Use:   "preview <csv-file>",
	Short: "Preview a CSV file without sending",
	Long:  "List the columns a CSV file declares, show placeholder usage, and preview the substitution result for the first row.",
	Args:  cobra.ExactArgs(1),
	Run:   runPreview,
}

// init registers the preview command.
func init() {
	rootCmd.AddCommand(previewCmd)
}

// runPreview prints the column list and a first-row substitution preview.
func runPreview(_ *cobra.Command, args []string) {
	log := logrus.New()

	data, err := source.Load(args[0])
	if err != nil {
		log.WithError(err).Fatal("failed to read csv")
	}

	fmt.Printf("Available columns (%d):\n", len(data.Columns))
	for i, col := range data.Columns {
		fmt.Printf("  %2d. %s\n", i+1, col)
	}

	fmt.Println("\nPlaceholder usage:")
	fmt.Println("  Formats: [Column Name], {Column Name}, {{Column Name}}")
	fmt.Println("  Case-insensitive: [first name] = [First Name] = [FIRST NAME]")

	fmt.Println("\nOpt-out handling:")
	fmt.Println("  Column: Unsubscribe")
	fmt.Println("  Values treated as opt-out: remove, unsubscribe, opt-out, opt out, stop, yes, true, x")

	if problems := source.Validate(data.Rows); len(problems) > 0 {
		fmt.Printf("\nValidation problems (%d):\n", len(problems))
		for _, p := range problems {
			fmt.Printf("  %s\n", p)
		}
	}

	row := data.Rows[0]
	fmt.Println("\nFirst-row substitution preview:")
	if row.Subject != "" {
		fmt.Printf("  Subject: %s\n", row.Subject)
		fmt.Printf("        -> %s\n", placeholder.Substitute(row.Subject, row))
	}
	if row.Pitch != "" {
		pitch := row.Pitch
		if len(pitch) > 200 {
			pitch = pitch[:200] + "..."
		}
		fmt.Printf("  Pitch: %s\n", pitch)
		fmt.Printf("      -> %s\n", placeholder.Substitute(pitch, row))
	}

	if optedOut := source.OptedOutCount(data.Rows); optedOut > 0 {
		fmt.Printf("\n%d opted-out recipient(s) will be skipped.\n", optedOut)
	}
}
