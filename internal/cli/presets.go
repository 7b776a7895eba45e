package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/treasurysim/sim"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the available treasury presets",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%-14s %-14s %8s %8s %8s\n", "name", "label", "shock", "target", "yield")
			for _, p := range sim.Presets {
				fmt.Printf("%-14s %-14s %7g%% %7g%% %7g%%\n",
					p.Name, p.Label,
					p.Params.ShockMagnitude,
					p.Params.TargetReserveRatio,
					p.Params.YieldDistribution)
			}
		},
	}
}
