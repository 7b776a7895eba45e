package sim

import (
	"fmt"
	"math"
)

// StepKind identifies one of the four fixed timeline steps.
type StepKind int

const (
	StepInitial StepKind = iota
	StepShock
	StepRebalance
	StepDistribution
)

func (k StepKind) String() string {
	switch k {
	case StepInitial:
		return "INITIAL"
	case StepShock:
		return "SHOCK"
	case StepRebalance:
		return "REBALANCE"
	case StepDistribution:
		return "DISTRIBUTION"
	}
	return fmt.Sprintf("StepKind(%d)", int(k))
}

// StepDef carries the display metadata for one timeline step. The slice
// order is the simulation timeline and is fixed: a step's transition is only
// meaningful applied to the portfolio produced by the step before it.
type StepDef struct {
	Kind        StepKind
	Key         string
	Title       string
	Description string
	Comparison  string
}

// Steps is the full, ordered timeline.
var Steps = []StepDef{
	{
		Kind:        StepInitial,
		Key:         "INITIAL",
		Title:       "Initial Allocation",
		Description: "The treasury starts with a diversified allocation across stablecoins, treasuries, corporate bonds and cash.",
		Comparison:  "Same starting point either way: a treasury holding a mix of liquid and yield-bearing assets.",
	},
	{
		Kind:        StepShock,
		Key:         "SHOCK",
		Title:       "Market Shock",
		Description: "Corporate bond prices fall sharply. The bond position takes an immediate mark-to-market haircut.",
		Comparison:  "Off-chain: analysts notice the drop in the morning and start a thread. On-chain: the oracle reprices the position in the same block.",
	},
	{
		Kind:        StepRebalance,
		Key:         "REBALANCE",
		Title:       "Automatic Rebalance",
		Description: "If the reserve ratio has fallen below target, the policy sells half the remaining bonds into T-Bills.",
		Comparison:  "Off-chain: a risk committee meets, votes, and instructs the desk. On-chain: the policy contract executes the moment the threshold is crossed.",
	},
	{
		Kind:        StepDistribution,
		Key:         "DISTRIBUTION",
		Title:       "Yield Distribution",
		Description: "The scheduled payout distributes a share of total portfolio value to holders, drawing cash first.",
		Comparison:  "Off-chain: finance runs a payout batch and reconciles by hand. On-chain: the distribution executes on schedule with no coordination.",
	},
}

// TerminalStep is the index of the last timeline step.
var TerminalStep = len(Steps) - 1

// applyTransition runs one step's pure transition: (params, previous
// portfolio) to (new portfolio, log message). The initial step ignores the
// previous portfolio and emits no message of its own; the engine logs the
// reset instead.
func applyTransition(kind StepKind, params Params, prev Portfolio) (Portfolio, string) {
	switch kind {
	case StepInitial:
		return InitialAllocation(), ""

	case StepShock:
		p := prev
		loss := p.Bonds * params.ShockMagnitude / 100
		p.Bonds -= loss
		msg := fmt.Sprintf("[T+1] Market shock: Bonds dropped by %g%% (-$%.0fk)",
			params.ShockMagnitude, math.Round(loss/1000))
		return p, msg

	case StepRebalance:
		p := prev
		ratio := p.ReserveRatio()
		if ratio >= params.TargetReserveRatio {
			msg := fmt.Sprintf("[T+2] Rebalance check: Ratio healthy (%.1f%%), no action needed", ratio)
			return p, msg
		}
		sell := p.Bonds * 0.5
		p.Bonds -= sell
		p.TBills += sell
		msg := fmt.Sprintf("[T+2] Rebalance triggered: Sold $%.0fk Bonds, bought T-Bills",
			math.Round(sell/1000))
		return p, msg

	case StepDistribution:
		p := prev
		dist := p.TotalValue() * params.YieldDistribution / 100
		if p.Cash >= dist {
			p.Cash -= dist
		} else {
			// Cash floors at zero and the shortfall comes out of T-Bills,
			// which can go negative when the payout outruns liquid holdings.
			shortfall := dist - p.Cash
			p.Cash = 0
			p.TBills -= shortfall
		}
		msg := fmt.Sprintf("[T+3] Distribution: Paid out $%.0fk (%g%%) yield",
			math.Round(dist/1000), params.YieldDistribution)
		return p, msg
	}

	panic(fmt.Sprintf("unhandled step kind %v", kind))
}
