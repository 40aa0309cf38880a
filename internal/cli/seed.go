package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/spec-kit/lead-distribution/internal/seed"
	"github.com/spec-kit/lead-distribution/internal/service"
)

// SeedCmd returns the seed command
func SeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create or update operators, sources and weights from a YAML file",
		Long: `Apply a routing file. Operators are matched by name and sources by code,
so the same file can be applied repeatedly.

Example:
  operators:
    - name: Alice
      max_active_contacts: 5
  sources:
    - code: telegram_bot
      name: Telegram bot
  assignments:
    - operator: Alice
      source: telegram_bot
      weight: 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := seed.Load(file)
			if err != nil {
				return err
			}

			rt, err := openRuntime(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer rt.Close()

			services := service.NewServices(service.Dependencies{Store: rt.store, Logger: rt.logger})
			res, err := seed.Apply(cmd.Context(), services, f, rt.logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Fprintf(out, "operators:   %s created, %d updated\n", green(res.OperatorsCreated), res.OperatorsUpdated)
			fmt.Fprintf(out, "sources:     %s created, %d updated\n", green(res.SourcesCreated), res.SourcesUpdated)
			fmt.Fprintf(out, "assignments: %d applied\n", res.Assignments)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "routing YAML file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
