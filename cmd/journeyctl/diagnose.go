package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"startup_journey/internal/llm"
	"startup_journey/internal/repositories"
	"startup_journey/internal/services"
)

func init() {
	diagnoseCmd.AddCommand(diagnoseDBCmd, diagnoseLLMCmd)
	rootCmd.AddCommand(diagnoseCmd)
}

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Check the database and the AI assistant",
}

var diagnoseDBCmd = &cobra.Command{
	Use:   "db",
	Short: "Check connectivity, row counts and dangling journey data",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, pool, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()
		cache, closeCache, err := openCache(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeCache()

		svc := services.NewDiagnosticsService(repositories.NewDiagnosticsRepository(pool), cache, nil)
		report, err := svc.DatabaseReport(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			if err := printJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
		} else {
			writeDatabaseReport(cmd.OutOrStdout(), report)
		}
		if !report.Healthy {
			return fmt.Errorf("database check found %d issue(s)", len(report.Issues))
		}
		return nil
	},
}

func writeDatabaseReport(w io.Writer, r *services.DatabaseReport) {
	fmt.Fprintf(w, "Database: latency %s, cache %s\n\n", r.Latency, r.Cache)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TABLE\tROWS")
	for _, t := range r.Tables {
		if t.Error != "" {
			fmt.Fprintf(tw, "%s\terror: %s\n", t.Table, t.Error)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\n", t.Table, t.Rows)
	}
	_ = tw.Flush()

	fmt.Fprintln(w)
	if len(r.Issues) == 0 {
		fmt.Fprintln(w, "No issues found")
		return
	}
	fmt.Fprintf(w, "Issues (%d):\n", len(r.Issues))
	for _, issue := range r.Issues {
		fmt.Fprintf(w, "  - %s\n", issue)
	}
}

var diagnoseLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Ping the model and run a sample tool suggestion",
	Long: `Ping the configured text-generation endpoint and run one sample tool
suggestion through the JSON repair chain.

Requires HF_API_KEY (or JOURNEY_LLM_API_KEY).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		client, err := llm.New(cfg.LLM)
		if err != nil {
			return err
		}

		report := services.NewDiagnosticsService(nil, nil, client).LLMReport(cmd.Context())
		if jsonOutput {
			if err := printJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
		} else {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Model:     %s\n", report.Model)
			fmt.Fprintf(out, "Reachable: %t\n", report.Reachable)
			if report.Reachable {
				fmt.Fprintf(out, "Latency:   %s\n", report.Latency)
				fmt.Fprintf(out, "Reply:     %q\n", report.Reply)
				fmt.Fprintf(out, "Sample:    %d tools (repair: %s)\n", report.SampleTools, report.RepairStrategy)
			}
		}
		if report.Error != "" {
			return fmt.Errorf("llm check failed: %s", report.Error)
		}
		return nil
	},
}
