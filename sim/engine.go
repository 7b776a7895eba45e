package sim

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/rustyeddy/treasurysim/journal"
	"github.com/rustyeddy/treasurysim/pkg/id"
)

// DefaultInterval is the cadence between automatic steps while playing.
const DefaultInterval = 2 * time.Second

// HistoryEntry records the total portfolio value after one executed step.
// The view uses consecutive entries to show per-step deltas.
type HistoryEntry struct {
	StepIndex  int
	TotalValue float64
}

// Engine owns the whole simulation state: the current step, the portfolio,
// the parameters, the history/log trace and the play scheduler. All
// operations are synchronous and silent; bad input (unknown preset or
// parameter names, advancing past the end) is a no-op, never an error.
type Engine struct {
	mu sync.Mutex

	stepIndex  int
	portfolio  Portfolio
	params     Params
	history    []HistoryEntry
	log        []string
	playing    bool
	everPlayed bool

	interval time.Duration
	cron     *cron.Cron

	runID string
	jrnl  journal.Journal
	logr  zerolog.Logger
}

// NewEngine returns an engine at step 0 with the default (balanced)
// parameters. A nil journal disables run recording.
func NewEngine(j journal.Journal, log zerolog.Logger) *Engine {
	if j == nil {
		j = journal.Noop{}
	}
	e := &Engine{
		params:   DefaultParams(),
		interval: DefaultInterval,
		jrnl:     j,
		logr:     log.With().Str("component", "engine").Logger(),
	}
	e.Reset()
	return e
}

// SetInterval changes the play cadence. Takes effect on the next Play.
// The scheduler resolves whole seconds, so shorter durations are raised to
// one second. Non-positive durations are ignored.
func (e *Engine) SetInterval(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if d <= 0 {
		return
	}
	if d < time.Second {
		e.logr.Debug().Dur("interval", d).Msg("interval raised to scheduler minimum of 1s")
		d = time.Second
	}
	e.interval = d
}

// Reset stops any running playback and restores the initial state: step 0,
// initial allocation, one history entry, one log line. Idempotent.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetLocked()
}

func (e *Engine) resetLocked() {
	e.stopLocked()

	e.runID = id.New()
	e.stepIndex = 0
	e.portfolio = InitialAllocation()
	e.history = []HistoryEntry{{StepIndex: 0, TotalValue: e.portfolio.TotalValue()}}
	e.log = []string{"Simulation reset. Portfolio restored to initial allocation."}

	if err := e.jrnl.RecordRun(journal.RunRecord{
		RunID:              e.runID,
		ShockMagnitude:     e.params.ShockMagnitude,
		TargetReserveRatio: e.params.TargetReserveRatio,
		YieldDistribution:  e.params.YieldDistribution,
		StartedAt:          time.Now(),
	}); err != nil {
		e.logr.Error().Err(err).Str("run_id", e.runID).Msg("record run")
	}
	e.recordStepLocked("")

	e.logr.Debug().Str("run_id", e.runID).Msg("simulation reset")
}

// Advance executes the next step. At the terminal step it only stops
// playback; calling it again is a no-op.
func (e *Engine) Advance() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.advanceLocked()
}

func (e *Engine) advanceLocked() {
	if e.stepIndex >= TerminalStep {
		e.stopLocked()
		return
	}

	e.stepIndex++
	e.executeStepLocked(e.stepIndex)

	if e.stepIndex >= TerminalStep {
		e.stopLocked()
	}
}

// executeStepLocked runs one step's transition against the current
// portfolio and records the result in history, log and journal.
func (e *Engine) executeStepLocked(index int) {
	next, msg := applyTransition(Steps[index].Kind, e.params, e.portfolio)
	e.portfolio = next

	entry := HistoryEntry{StepIndex: index, TotalValue: next.TotalValue()}
	if index < len(e.history) {
		e.history[index] = entry
	} else {
		e.history = append(e.history, entry)
	}

	if msg != "" {
		e.log = append(e.log, msg)
	}
	e.recordStepLocked(msg)

	e.logr.Debug().
		Int("step", index).
		Str("key", Steps[index].Key).
		Float64("total_value", entry.TotalValue).
		Msg("step executed")
}

func (e *Engine) recordStepLocked(msg string) {
	err := e.jrnl.RecordStep(journal.StepRecord{
		RunID:        e.runID,
		StepIndex:    e.stepIndex,
		StepKey:      Steps[e.stepIndex].Key,
		USDC:         e.portfolio.USDC,
		TBills:       e.portfolio.TBills,
		Bonds:        e.portfolio.Bonds,
		Cash:         e.portfolio.Cash,
		TotalValue:   e.portfolio.TotalValue(),
		ReserveRatio: e.portfolio.ReserveRatio(),
		RiskScore:    e.portfolio.RiskScore(e.params),
		Message:      msg,
		RecordedAt:   time.Now(),
	})
	if err != nil {
		e.logr.Error().Err(err).Int("step", e.stepIndex).Msg("record step")
	}
}

// Play starts automatic stepping on the configured cadence. Starting from
// the terminal step resets first, so Play always replays the full timeline.
// Any timer already armed is cancelled before a new one starts; at most one
// is ever live.
func (e *Engine) Play() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stepIndex >= TerminalStep {
		e.resetLocked()
	}
	e.stopLocked()

	c := cron.New()
	c.Schedule(cron.Every(e.interval), cron.FuncJob(e.tick))
	c.Start()
	e.cron = c
	e.playing = true
	e.everPlayed = true

	e.logr.Debug().Dur("interval", e.interval).Msg("play started")
}

func (e *Engine) tick() {
	e.Advance()
}

// Pause cancels the play timer. Idempotent; pausing a stopped engine is a
// no-op.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

func (e *Engine) stopLocked() {
	if e.cron != nil {
		e.cron.Stop()
		e.cron = nil
	}
	e.playing = false
}

// ApplyPreset overwrites all three parameters from the named preset and
// resets the simulation. Unknown names are ignored.
func (e *Engine) ApplyPreset(name string) {
	p, ok := PresetByName(name)
	if !ok {
		e.logr.Warn().Str("preset", name).Msg("unknown preset ignored")
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.params = p.Params
	e.resetLocked()
	e.log = append(e.log, fmt.Sprintf("Preset loaded: %s (shock %g%%, target ratio %g%%, yield %g%%)",
		p.Label, p.Params.ShockMagnitude, p.Params.TargetReserveRatio, p.Params.YieldDistribution))
}

// SetParameter mutates a single parameter by name without resetting or
// re-executing any step. Metric reads after this call see the new value,
// so a view can preview the live risk score mid-story. Unknown names are
// ignored.
func (e *Engine) SetParameter(name string, value float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch name {
	case ParamShockMagnitude:
		e.params.ShockMagnitude = value
	case ParamTargetReserveRatio:
		e.params.TargetReserveRatio = value
	case ParamYieldDistribution:
		e.params.YieldDistribution = value
	default:
		e.logr.Warn().Str("param", name).Msg("unknown parameter ignored")
	}
}

// Snapshot is a read-only copy of everything a view needs to render the
// engine.
type Snapshot struct {
	RunID        string
	StepIndex    int
	Step         StepDef
	Portfolio    Portfolio
	Params       Params
	TotalValue   float64
	ReserveRatio float64
	RiskScore    float64
	History      []HistoryEntry
	Log          []string
	Playing      bool
	EverPlayed   bool
}

// Snapshot returns the current state. The returned slices are copies; the
// caller may hold them across further engine mutations.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Snapshot{
		RunID:        e.runID,
		StepIndex:    e.stepIndex,
		Step:         Steps[e.stepIndex],
		Portfolio:    e.portfolio,
		Params:       e.params,
		TotalValue:   e.portfolio.TotalValue(),
		ReserveRatio: e.portfolio.ReserveRatio(),
		RiskScore:    e.portfolio.RiskScore(e.params),
		History:      append([]HistoryEntry(nil), e.history...),
		Log:          append([]string(nil), e.log...),
		Playing:      e.playing,
		EverPlayed:   e.everPlayed,
	}
}
