package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/treasurysim/internal/replay"
	"github.com/rustyeddy/treasurysim/sim"
)

func newScriptCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "script FILE",
		Short: "Drive the simulation from a CSV command script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			log := newLogger(opts, cfg)

			sink, err := openJournal(cfg.Journal)
			if err != nil {
				return err
			}
			defer sink.Close()

			eng := sim.NewEngine(sink, log)
			if err := replay.File(args[0], eng); err != nil {
				return fmt.Errorf("script %s: %w", args[0], err)
			}

			snap := eng.Snapshot()
			for _, line := range snap.Log {
				fmt.Println(line)
			}
			fmt.Println()
			printPortfolio(snap)
			return nil
		},
	}
	return cmd
}
