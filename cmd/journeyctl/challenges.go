package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"startup_journey/internal/repositories"
	"startup_journey/internal/services"
)

var challengesDryRun bool

func init() {
	migrateChallengesCmd.Flags().BoolVar(&challengesDryRun, "dry-run", false, "show the challenges that would be created without writing them")
	rootCmd.AddCommand(migrateChallengesCmd)
}

var migrateChallengesCmd = &cobra.Command{
	Use:   "migrate-challenges",
	Short: "Create a challenge for every step that has none",
	Long: `Convert canonical steps into challenges.

Steps that already have a challenge are skipped, so the command can be
re-run safely.

Examples:
  # Preview
  journeyctl migrate-challenges --dry-run

  # Write
  journeyctl migrate-challenges`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, pool, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		svc := services.NewMigrationService(repositories.NewJourneyRepository(pool))
		report, err := svc.MigrateStepsToChallenges(cmd.Context(), challengesDryRun)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), report)
		}

		out := cmd.OutOrStdout()
		if report.DryRun {
			fmt.Fprintln(out, "Mode: DRY RUN (no changes will be made)")
		}
		for _, c := range report.Challenges {
			fmt.Fprintf(out, "  + %s\n", c.Title)
		}
		fmt.Fprintf(out, "Candidates: %d  Created: %d  Skipped: %d\n", report.Candidates, report.Created, report.Skipped)
		return nil
	},
}
