package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/spec-kit/lead-distribution/internal/service"
)

// LoadCmd returns the load command
func LoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Show every operator's active contacts against capacity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := openRuntime(ctx, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			services := service.NewServices(service.Dependencies{Store: rt.store, Logger: rt.logger})
			operators, err := services.Operators.List(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(operators) == 0 {
				fmt.Fprintln(out, "No operators.")
				return nil
			}
			fmt.Fprintf(out, "%-24s %-8s %s\n", "OPERATOR", "STATE", "LOAD")
			for _, op := range operators {
				state := color.New(color.FgGreen).Sprintf("%-8s", "active")
				if !op.Active {
					state = color.New(color.FgYellow).Sprintf("%-8s", "inactive")
				}
				load := fmt.Sprintf("%d/%d", op.CurrentLoad, op.Capacity)
				if op.CurrentLoad >= op.Capacity {
					load = color.New(color.FgRed).Sprint(load + " full")
				}
				fmt.Fprintf(out, "%-24s %s %s\n", op.Name, state, load)
			}
			return nil
		},
	}
}
