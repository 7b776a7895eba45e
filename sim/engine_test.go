package sim

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/treasurysim/journal"
)

type testJournal struct {
	runs  []journal.RunRecord
	steps []journal.StepRecord
}

func (j *testJournal) RecordRun(r journal.RunRecord) error {
	j.runs = append(j.runs, r)
	return nil
}

func (j *testJournal) RecordStep(s journal.StepRecord) error {
	j.steps = append(j.steps, s)
	return nil
}

func (j *testJournal) Close() error { return nil }

func newTestEngine(t *testing.T) (*Engine, *testJournal) {
	t.Helper()
	j := &testJournal{}
	return NewEngine(j, zerolog.Nop()), j
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func checkPortfolio(t *testing.T, got, want Portfolio) {
	t.Helper()
	if !approxEqual(got.USDC, want.USDC, 1e-6) ||
		!approxEqual(got.TBills, want.TBills, 1e-6) ||
		!approxEqual(got.Bonds, want.Bonds, 1e-6) ||
		!approxEqual(got.Cash, want.Cash, 1e-6) {
		t.Fatalf("portfolio mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestResetInvariant(t *testing.T) {
	e, _ := newTestEngine(t)

	e.Advance()
	e.Advance()
	e.Reset()

	snap := e.Snapshot()
	if snap.StepIndex != 0 {
		t.Fatalf("step index after reset: got %d want 0", snap.StepIndex)
	}
	checkPortfolio(t, snap.Portfolio, InitialAllocation())
	if len(snap.History) != 1 {
		t.Fatalf("history after reset: got %d entries want 1", len(snap.History))
	}
	if !approxEqual(snap.History[0].TotalValue, 1_000_000, 1e-6) {
		t.Fatalf("history total after reset: got %.2f", snap.History[0].TotalValue)
	}
	if len(snap.Log) != 1 {
		t.Fatalf("log after reset: got %d entries want 1", len(snap.Log))
	}
}

// Walks the balanced (default) timeline end to end: a 20% shock, a
// triggered rebalance at target 110, and a 5% distribution.
func TestAdvanceBalancedTimeline(t *testing.T) {
	e, _ := newTestEngine(t)

	e.Advance() // SHOCK
	snap := e.Snapshot()
	checkPortfolio(t, snap.Portfolio, Portfolio{USDC: 400_000, TBills: 300_000, Bonds: 160_000, Cash: 100_000})
	if !approxEqual(snap.TotalValue, 960_000, 1e-6) {
		t.Fatalf("total after shock: got %.2f want 960000", snap.TotalValue)
	}

	e.Advance() // REBALANCE
	snap = e.Snapshot()
	checkPortfolio(t, snap.Portfolio, Portfolio{USDC: 400_000, TBills: 380_000, Bonds: 80_000, Cash: 100_000})
	if !approxEqual(snap.TotalValue, 960_000, 1e-6) {
		t.Fatalf("rebalance must not change total: got %.2f", snap.TotalValue)
	}

	e.Advance() // DISTRIBUTION
	snap = e.Snapshot()
	checkPortfolio(t, snap.Portfolio, Portfolio{USDC: 400_000, TBills: 380_000, Bonds: 80_000, Cash: 52_000})
	if !approxEqual(snap.TotalValue, 912_000, 1e-6) {
		t.Fatalf("total after distribution: got %.2f want 912000", snap.TotalValue)
	}

	if len(snap.History) != 4 {
		t.Fatalf("history: got %d entries want 4", len(snap.History))
	}
	if len(snap.Log) != 4 { // reset line + one per transition
		t.Fatalf("log: got %d entries want 4", len(snap.Log))
	}
}

func TestAdvancePastTerminalIsNoop(t *testing.T) {
	e, _ := newTestEngine(t)

	for i := 0; i < 3; i++ {
		e.Advance()
	}
	before := e.Snapshot()

	e.Advance()
	after := e.Snapshot()

	if !reflect.DeepEqual(before, after) {
		t.Fatalf("advance at terminal step changed state:\n before %+v\n after %+v", before, after)
	}
}

func TestPauseIdempotent(t *testing.T) {
	e, _ := newTestEngine(t)

	e.Pause()
	once := e.Snapshot()
	e.Pause()
	twice := e.Snapshot()

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("second pause changed state")
	}
}

func TestApplyPresetAggressive(t *testing.T) {
	e, _ := newTestEngine(t)

	e.Advance()
	e.Advance()
	e.ApplyPreset("aggressive")

	snap := e.Snapshot()
	if snap.StepIndex != 0 {
		t.Fatalf("preset must reset to step 0, got %d", snap.StepIndex)
	}
	checkPortfolio(t, snap.Portfolio, InitialAllocation())

	want := Params{ShockMagnitude: 35, TargetReserveRatio: 105, YieldDistribution: 8}
	if snap.Params != want {
		t.Fatalf("params: got %+v want %+v", snap.Params, want)
	}
	if len(snap.Log) != 2 {
		t.Fatalf("log after preset: got %d entries want 2 (reset + preset)", len(snap.Log))
	}
}

func TestApplyPresetUnknownIgnored(t *testing.T) {
	e, _ := newTestEngine(t)

	e.Advance()
	before := e.Snapshot()

	e.ApplyPreset("yolo")
	after := e.Snapshot()

	if !reflect.DeepEqual(before, after) {
		t.Fatalf("unknown preset changed state")
	}
}

// Dragging a slider previews metrics live: the parameter changes, nothing
// re-executes.
func TestSetParameterLivePreview(t *testing.T) {
	e, _ := newTestEngine(t)

	before := e.Snapshot()
	e.SetParameter(ParamShockMagnitude, 50)
	after := e.Snapshot()

	if after.StepIndex != before.StepIndex {
		t.Fatalf("set parameter must not change step index")
	}
	checkPortfolio(t, after.Portfolio, before.Portfolio)
	if after.Params.ShockMagnitude != 50 {
		t.Fatalf("shock magnitude: got %g want 50", after.Params.ShockMagnitude)
	}
	if after.RiskScore <= before.RiskScore {
		t.Fatalf("risk score should rise with shock: before %.2f after %.2f",
			before.RiskScore, after.RiskScore)
	}
	if len(after.Log) != len(before.Log) {
		t.Fatalf("set parameter must not log")
	}
}

func TestSetParameterUnknownIgnored(t *testing.T) {
	e, _ := newTestEngine(t)

	before := e.Snapshot()
	e.SetParameter("leverage", 99)
	after := e.Snapshot()

	if !reflect.DeepEqual(before, after) {
		t.Fatalf("unknown parameter changed state")
	}
}

// A full-value payout on the untouched initial portfolio drains cash and
// drives T-Bills negative. The overdraft is deliberate; the fallback pays
// from cash first and takes the remainder from T-Bills unguarded.
func TestDistributionOverdraft(t *testing.T) {
	e, _ := newTestEngine(t)

	e.SetParameter(ParamShockMagnitude, 0)
	e.SetParameter(ParamTargetReserveRatio, 100)
	e.SetParameter(ParamYieldDistribution, 100)

	for i := 0; i < 3; i++ {
		e.Advance()
	}

	snap := e.Snapshot()
	checkPortfolio(t, snap.Portfolio, Portfolio{USDC: 400_000, TBills: -600_000, Bonds: 200_000, Cash: 0})
	if !approxEqual(snap.TotalValue, 0, 1e-6) {
		t.Fatalf("total: got %.2f want 0", snap.TotalValue)
	}
	if snap.RiskScore != 0 {
		t.Fatalf("risk score must be 0 at zero total value, got %.2f", snap.RiskScore)
	}
}

func TestTotalValueNonNegativeThroughRebalance(t *testing.T) {
	for _, shock := range []float64{0, 25, 50, 100} {
		e, _ := newTestEngine(t)
		e.SetParameter(ParamShockMagnitude, shock)

		e.Advance()
		if tv := e.Snapshot().TotalValue; tv < 0 {
			t.Fatalf("shock %g: negative total after SHOCK: %.2f", shock, tv)
		}
		e.Advance()
		if tv := e.Snapshot().TotalValue; tv < 0 {
			t.Fatalf("shock %g: negative total after REBALANCE: %.2f", shock, tv)
		}
	}
}

func TestJournalRecordsRunAndSteps(t *testing.T) {
	e, j := newTestEngine(t)

	if len(j.runs) != 1 {
		t.Fatalf("runs recorded at construction: got %d want 1", len(j.runs))
	}
	for i := 0; i < 3; i++ {
		e.Advance()
	}
	if len(j.steps) != 4 {
		t.Fatalf("steps recorded: got %d want 4", len(j.steps))
	}
	if j.steps[3].StepKey != "DISTRIBUTION" {
		t.Fatalf("last step key: got %q", j.steps[3].StepKey)
	}

	e.Reset()
	if len(j.runs) != 2 {
		t.Fatalf("runs after reset: got %d want 2", len(j.runs))
	}
	if j.runs[0].RunID == j.runs[1].RunID {
		t.Fatalf("reset must start a new run ID")
	}
}

func TestPlayAtTerminalResetsFirst(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetInterval(time.Minute) // keep the timer from firing during the test

	for i := 0; i < 3; i++ {
		e.Advance()
	}
	e.Play()
	defer e.Pause()

	snap := e.Snapshot()
	if snap.StepIndex != 0 {
		t.Fatalf("play at terminal must reset first, step %d", snap.StepIndex)
	}
	checkPortfolio(t, snap.Portfolio, InitialAllocation())
	if !snap.Playing {
		t.Fatalf("engine should be playing")
	}
	if !snap.EverPlayed {
		t.Fatalf("everPlayed latch should be set")
	}
}

func TestSetIntervalFloorsAtOneSecond(t *testing.T) {
	e, _ := newTestEngine(t)

	e.SetInterval(500 * time.Millisecond)
	if e.interval != time.Second {
		t.Fatalf("sub-second interval: got %v want 1s", e.interval)
	}

	e.SetInterval(3 * time.Second)
	e.SetInterval(-time.Second) // ignored
	if e.interval != 3*time.Second {
		t.Fatalf("interval after non-positive set: got %v want 3s", e.interval)
	}
}

func TestPlayWhileArmedReplacesTimer(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetInterval(time.Minute) // keep either timer from firing during the test

	e.Play()
	first := e.cron
	e.Play()
	defer e.Pause()

	if e.cron == first {
		t.Fatalf("second play must cancel the armed timer and arm a fresh one")
	}
	if !e.Snapshot().Playing {
		t.Fatalf("engine should still be playing after re-arm")
	}
}

func TestPlayTwiceDoesNotDoubleCadence(t *testing.T) {
	if testing.Short() {
		t.Skip("timer-driven")
	}

	e, _ := newTestEngine(t)
	e.SetInterval(time.Second)

	e.Play()
	e.Play()
	defer e.Pause()

	// Under two intervals of wall time only one tick may have fired. A
	// leaked first timer would advance a second step here.
	time.Sleep(1700 * time.Millisecond)
	if got := e.Snapshot().StepIndex; got > 1 {
		t.Fatalf("advanced %d steps in under two intervals; duplicate timer armed", got)
	}
}

func TestPlayRunsToCompletion(t *testing.T) {
	if testing.Short() {
		t.Skip("timer-driven")
	}

	e, _ := newTestEngine(t)
	e.SetInterval(time.Second)
	e.Play()

	deadline := time.Now().Add(10 * time.Second)
	for {
		snap := e.Snapshot()
		if snap.StepIndex == TerminalStep && !snap.Playing {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("playback did not finish: step %d playing %v", snap.StepIndex, snap.Playing)
		}
		time.Sleep(50 * time.Millisecond)
	}

	snap := e.Snapshot()
	if !approxEqual(snap.TotalValue, 912_000, 1e-6) {
		t.Fatalf("final total: got %.2f want 912000", snap.TotalValue)
	}
}
