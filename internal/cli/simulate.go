package cli

import (
	"fmt"
	"math"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/spec-kit/lead-distribution/internal/distribution"
	"github.com/spec-kit/lead-distribution/internal/service"
)

// shareTolerance is how far, in percentage points, an observed share may
// drift from its expected share before it is highlighted.
const shareTolerance = 2.0

// SimulateCmd returns the simulate command
func SimulateCmd() *cobra.Command {
	var (
		code  string
		draws int
		seed  uint64
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Dry-run weighted selection for a source without creating contacts",
		Long: `Run the operator selector N times against the current state of a source and
compare how often each eligible operator was picked with the share its weight
predicts. Nothing is written; load does not grow between draws.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if draws <= 0 {
				return fmt.Errorf("--draws must be positive")
			}
			ctx := cmd.Context()
			rt, err := openRuntime(ctx, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			services := service.NewServices(service.Dependencies{Store: rt.store, Logger: rt.logger})
			src, err := services.Sources.GetByCode(ctx, code)
			if err != nil {
				return err
			}

			engine := distribution.NewEngineFromStore(rt.store.Assignments, rt.store.Contacts, distribution.NewRandomSource(seed))
			eligibility, err := engine.Filter().Eligible(ctx, src.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Source %s (%s): %d assigned, %d eligible\n",
				src.Code, src.Name, eligibility.Assigned, len(eligibility.Candidates))
			for _, reason := range eligibility.Exclusions {
				fmt.Fprintf(out, "  %s %s\n", color.New(color.FgYellow).Sprint("excluded"), reason)
			}
			if len(eligibility.Candidates) == 0 {
				fmt.Fprintln(out, color.New(color.FgRed).Sprint("no operator can receive contacts from this source"))
				return nil
			}

			counts := make(map[string]int, len(eligibility.Candidates))
			for i := 0; i < draws; i++ {
				chosen, err := engine.Selector().Select(eligibility.Candidates)
				if err != nil {
					return err
				}
				counts[chosen.Operator.ID]++
			}

			total := distribution.TotalWeight(eligibility.Candidates)
			fmt.Fprintf(out, "\n%-24s %7s %9s %9s\n", "OPERATOR", "WEIGHT", "EXPECTED", "OBSERVED")
			for _, c := range eligibility.Candidates {
				expected := float64(c.Weight) * 100 / float64(total)
				observed := float64(counts[c.Operator.ID]) * 100 / float64(draws)
				paint := color.New(color.FgGreen)
				if math.Abs(observed-expected) > shareTolerance {
					paint = color.New(color.FgYellow)
				}
				fmt.Fprintf(out, "%-24s %7d %8.1f%% %s\n",
					c.Operator.Name, c.Weight, expected, paint.Sprintf("%8.1f%%", observed))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&code, "source", "", "source code to simulate")
	cmd.Flags().IntVarP(&draws, "draws", "n", 1000, "number of selections to draw")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 picks a random one)")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}
