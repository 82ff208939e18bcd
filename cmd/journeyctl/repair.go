package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"startup_journey/internal/jsonrepair"
)

func init() {
	rootCmd.AddCommand(repairJSONCmd)
}

var repairJSONCmd = &cobra.Command{
	Use:   "repair-json [file|-]",
	Short: "Recover valid JSON from malformed model output",
	Long: `Recover valid JSON from malformed model output and print it.

The strategy that succeeded is printed to stderr.

Examples:
  # Repair a file
  journeyctl repair-json response.txt

  # Repair from stdin
  pbpaste | journeyctl repair-json -`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			input []byte
			err   error
		)
		if len(args) == 0 || args[0] == "-" {
			input, err = io.ReadAll(cmd.InOrStdin())
		} else {
			input, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		out, strategy, err := jsonrepair.Repair(input)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "strategy: %s\n", strategy)
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	},
}
