package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/treasurysim/journal"
	"github.com/rustyeddy/treasurysim/sim"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var (
		preset   string
		shock    float64
		target   float64
		yield    float64
		play     bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the four-step treasury timeline and print a report",
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

			// Record into memory as well so the report can be built from
			// the same rows the journal saw.
			mem := journal.NewMemory()
			eng := sim.NewEngine(tee{mem, sink}, log)

			switch {
			case preset != "":
				eng.ApplyPreset(preset)
			case cfg.Preset != "":
				eng.ApplyPreset(cfg.Preset)
			default:
				p := cfg.SimParams()
				eng.SetParameter(sim.ParamShockMagnitude, p.ShockMagnitude)
				eng.SetParameter(sim.ParamTargetReserveRatio, p.TargetReserveRatio)
				eng.SetParameter(sim.ParamYieldDistribution, p.YieldDistribution)
			}
			if cmd.Flags().Changed("shock") {
				eng.SetParameter(sim.ParamShockMagnitude, shock)
			}
			if cmd.Flags().Changed("target") {
				eng.SetParameter(sim.ParamTargetReserveRatio, target)
			}
			if cmd.Flags().Changed("yield") {
				eng.SetParameter(sim.ParamYieldDistribution, yield)
			}

			if cmd.Flags().Changed("interval") {
				eng.SetInterval(interval)
			} else if d, err := cfg.Simulation.ParseInterval(); err == nil && d > 0 {
				eng.SetInterval(d)
			}

			if play {
				eng.Play()
				for eng.Snapshot().Playing {
					time.Sleep(100 * time.Millisecond)
				}
			} else {
				for eng.Snapshot().StepIndex < sim.TerminalStep {
					eng.Advance()
				}
			}

			snap := eng.Snapshot()
			runs := mem.Runs()
			run := runs[len(runs)-1]
			fmt.Print(journal.FormatRunReport(run, mem.StepsForRun(run.RunID)))
			fmt.Println()
			printPortfolio(snap)
			return nil
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "", "Apply a named preset (conservative|balanced|aggressive)")
	cmd.Flags().Float64Var(&shock, "shock", 20, "Shock magnitude in percent")
	cmd.Flags().Float64Var(&target, "target", 110, "Target reserve ratio in percent")
	cmd.Flags().Float64Var(&yield, "yield", 5, "Yield distribution in percent")
	cmd.Flags().BoolVar(&play, "play", false, "Step on the playback cadence instead of immediately")
	cmd.Flags().DurationVar(&interval, "interval", sim.DefaultInterval, "Playback cadence (with --play)")

	return cmd
}

func printPortfolio(snap sim.Snapshot) {
	fmt.Printf("Final portfolio (step %d, %s):\n", snap.StepIndex, snap.Step.Title)
	for _, a := range sim.Assets {
		fmt.Printf("  %-16s $%12.0f\n", a.Name, snap.Portfolio.Amount(a.ID))
	}
	fmt.Printf("  %-16s $%12.0f\n", "Total", snap.TotalValue)
	fmt.Printf("  reserve ratio %.1f%%  risk score %.1f\n", snap.ReserveRatio, snap.RiskScore)
}

// tee fans every record out to both journals. The first error wins.
type tee struct {
	a, b journal.Journal
}

func (t tee) RecordRun(r journal.RunRecord) error {
	if err := t.a.RecordRun(r); err != nil {
		return err
	}
	return t.b.RecordRun(r)
}

func (t tee) RecordStep(s journal.StepRecord) error {
	if err := t.a.RecordStep(s); err != nil {
		return err
	}
	return t.b.RecordStep(s)
}

func (t tee) Close() error {
	if err := t.a.Close(); err != nil {
		return err
	}
	return t.b.Close()
}
