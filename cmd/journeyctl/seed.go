package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"startup_journey/internal/seed"
)

var seedFile string

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "YAML fixture to load instead of the built-in one")
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the journey framework and tool catalog",
	Long: `Load phases, domains, steps, tools and step recommendations.

Rows are upserted on their natural keys, so seeding twice is safe.

Examples:
  # Built-in fixture
  journeyctl seed

  # Custom fixture
  journeyctl seed --file ./fixtures/journey.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fixture, err := loadFixture()
		if err != nil {
			return err
		}

		_, pool, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		result, err := seed.Apply(cmd.Context(), pool, fixture)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), result)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Seed complete")
		fmt.Fprintf(out, "  Phases:          %d\n", result.Phases)
		fmt.Fprintf(out, "  Domains:         %d\n", result.Domains)
		fmt.Fprintf(out, "  Steps:           %d\n", result.Steps)
		fmt.Fprintf(out, "  Tools:           %d\n", result.Tools)
		fmt.Fprintf(out, "  Recommendations: %d\n", result.Recommendations)
		return nil
	},
}

func loadFixture() (*seed.Fixture, error) {
	if seedFile == "" {
		return seed.Default()
	}
	return seed.LoadFile(seedFile)
}
