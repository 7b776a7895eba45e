package journal

import (
	"fmt"
	"strings"
)

// FormatRunReport renders one run's recorded steps as a plain-text block:
// parameters, a per-step value table with deltas, and the log trace.
func FormatRunReport(run RunRecord, steps []StepRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run %s\n", run.RunID)
	fmt.Fprintf(&b, "  shock %g%%  target ratio %g%%  yield %g%%\n\n",
		run.ShockMagnitude, run.TargetReserveRatio, run.YieldDistribution)

	fmt.Fprintf(&b, "  %-4s %-13s %14s %10s %8s %7s\n",
		"#", "step", "total value", "delta", "ratio", "risk")
	for i, s := range steps {
		delta := "-"
		if i > 0 {
			delta = fmt.Sprintf("%+.0f", s.TotalValue-steps[i-1].TotalValue)
		}
		fmt.Fprintf(&b, "  %-4d %-13s %14.0f %10s %7.1f%% %7.1f\n",
			s.StepIndex, s.StepKey, s.TotalValue, delta, s.ReserveRatio, s.RiskScore)
	}

	var trace []string
	for _, s := range steps {
		if s.Message != "" {
			trace = append(trace, s.Message)
		}
	}
	if len(trace) > 0 {
		b.WriteString("\n")
		for _, m := range trace {
			fmt.Fprintf(&b, "  %s\n", m)
		}
	}

	return b.String()
}
