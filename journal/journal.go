// Package journal records simulation runs for later inspection. The engine
// keeps its own in-memory history and log; a journal is an optional sink
// behind it, chosen by the caller (noop, memory, CSV or SQLite).
package journal

import "time"

// RunRecord identifies one simulation run and the parameters it started
// with. A run begins at every reset.
type RunRecord struct {
	RunID              string
	ShockMagnitude     float64
	TargetReserveRatio float64
	YieldDistribution  float64
	StartedAt          time.Time
}

// StepRecord captures the engine state right after one executed step.
type StepRecord struct {
	RunID        string
	StepIndex    int
	StepKey      string
	USDC         float64
	TBills       float64
	Bonds        float64
	Cash         float64
	TotalValue   float64
	ReserveRatio float64
	RiskScore    float64
	Message      string
	RecordedAt   time.Time
}

type Journal interface {
	RecordRun(RunRecord) error
	RecordStep(StepRecord) error
	Close() error
}
