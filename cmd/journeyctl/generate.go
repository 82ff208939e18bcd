package main

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/spf13/cobra"

	"startup_journey/internal/recommend"
	"startup_journey/internal/repositories"
	"startup_journey/internal/services"
)

var (
	genTopK      int
	genThreshold float64
	relJitter    float64
	pathJitter   float64
	genWeight    float64
	genSeed      uint64
	genDryRun    bool
)

func init() {
	relDefaults := recommend.DefaultRelationshipOptions()
	generateRelationshipsCmd.Flags().IntVar(&genTopK, "top", relDefaults.TopK, "relationships kept per tool")
	generateRelationshipsCmd.Flags().Float64Var(&genThreshold, "threshold", relDefaults.Threshold, "minimum relationship strength")
	generateRelationshipsCmd.Flags().Float64Var(&relJitter, "jitter", relDefaults.Jitter, "width of the random tie-break term")

	pathDefaults := recommend.DefaultPathwayOptions()
	generatePathwaysCmd.Flags().Float64Var(&pathJitter, "jitter", pathDefaults.Jitter, "randomness of each pathway's first pick")
	generatePathwaysCmd.Flags().Float64Var(&genWeight, "relevance-weight", pathDefaults.RelevanceWeight, "weight of step relevance against similarity")

	for _, c := range []*cobra.Command{generateRelationshipsCmd, generatePathwaysCmd} {
		c.Flags().Uint64Var(&genSeed, "seed", 0, "random seed; 0 picks one and prints it")
		c.Flags().BoolVar(&genDryRun, "dry-run", false, "print the result without storing it")
	}

	generateCmd.AddCommand(generateRelationshipsCmd, generatePathwaysCmd)
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Regenerate derived tool data",
}

var generateRelationshipsCmd = &cobra.Command{
	Use:   "relationships",
	Short: "Rebuild tool relationships from tag and category similarity",
	Long: `Rebuild tool relationships from tag and category similarity.

Tools in the same category become alternatives, the rest complements. The
stored set is replaced as a whole.

Examples:
  # Reproducible run
  journeyctl generate relationships --seed 42

  # Stricter links, preview only
  journeyctl generate relationships --top 3 --threshold 0.4 --dry-run`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := generatorService(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		opts := recommend.RelationshipOptions{TopK: genTopK, Threshold: genThreshold, Jitter: relJitter}
		report, err := svc.GenerateRelationships(cmd.Context(), opts, newSource(cmd), genDryRun)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), report)
		}

		byType := map[string]int{}
		for _, rel := range report.Relationships {
			byType[rel.RelationshipType]++
		}
		types := make([]string, 0, len(byType))
		for t := range byType {
			types = append(types, t)
		}
		sort.Strings(types)

		out := cmd.OutOrStdout()
		if report.DryRun {
			fmt.Fprintln(out, "Mode: DRY RUN (no changes will be made)")
		}
		fmt.Fprintf(out, "Tools: %d  Relationships: %d\n", report.Tools, len(report.Relationships))
		for _, t := range types {
			fmt.Fprintf(out, "  %-12s %d\n", t, byType[t])
		}
		return nil
	},
}

var generatePathwaysCmd = &cobra.Command{
	Use:   "pathways",
	Short: "Rebuild tool pathways for every phase and domain",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := generatorService(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		opts := recommend.PathwayOptions{Jitter: pathJitter, RelevanceWeight: genWeight}
		report, err := svc.GeneratePathways(cmd.Context(), opts, newSource(cmd), genDryRun)
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
		fmt.Fprintf(out, "Steps: %d  Pathways: %d\n", report.Steps, len(report.Pathways))
		for _, p := range report.Pathways {
			fmt.Fprintf(out, "  %-40s tools=%d score=%.3f\n", p.Name, len(p.ToolIDs), p.Score)
		}
		return nil
	},
}

func generatorService(cmd *cobra.Command) (*services.GeneratorService, func(), error) {
	cfg, pool, err := connect(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	cache, closeCache, err := openCache(cmd.Context(), cfg)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	svc := services.NewGeneratorService(
		repositories.NewToolRepository(pool),
		repositories.NewJourneyRepository(pool),
		cache,
	)
	return svc, func() { closeCache(); pool.Close() }, nil
}

// newSource seeds a PCG generator, choosing and reporting a seed when none
// was given so the run can be repeated.
func newSource(cmd *cobra.Command) recommend.Source {
	seed := genSeed
	if seed == 0 {
		seed = rand.Uint64()
		fmt.Fprintf(cmd.ErrOrStderr(), "seed: %d\n", seed)
	}
	return rand.New(rand.NewPCG(seed, seed))
}
