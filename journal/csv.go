// journal/csv.go
package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	runs   *csv.Writer
	steps  *csv.Writer
	rf, sf *os.File
}

func NewCSV(runsPath, stepsPath string) (*CSVJournal, error) {
	rf, err := os.Create(runsPath)
	if err != nil {
		return nil, err
	}
	sf, err := os.Create(stepsPath)
	if err != nil {
		rf.Close()
		return nil, err
	}

	rw := csv.NewWriter(rf)
	sw := csv.NewWriter(sf)

	closeBoth := func() {
		rf.Close()
		sf.Close()
	}

	if err := rw.Write([]string{"run_id", "shock_magnitude", "target_reserve_ratio", "yield_distribution", "started_at"}); err != nil {
		closeBoth()
		return nil, err
	}
	if err := sw.Write([]string{"run_id", "step_index", "step_key", "usdc", "t_bills", "bonds", "cash", "total_value", "reserve_ratio", "risk_score", "message", "recorded_at"}); err != nil {
		closeBoth()
		return nil, err
	}

	rw.Flush()
	if err := rw.Error(); err != nil {
		closeBoth()
		return nil, err
	}
	sw.Flush()
	if err := sw.Error(); err != nil {
		closeBoth()
		return nil, err
	}

	return &CSVJournal{rw, sw, rf, sf}, nil
}

func (j *CSVJournal) RecordRun(r RunRecord) error {
	err := j.runs.Write([]string{
		r.RunID,
		f(r.ShockMagnitude),
		f(r.TargetReserveRatio),
		f(r.YieldDistribution),
		r.StartedAt.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	j.runs.Flush()
	return j.runs.Error()
}

func (j *CSVJournal) RecordStep(s StepRecord) error {
	err := j.steps.Write([]string{
		s.RunID,
		strconv.Itoa(s.StepIndex),
		s.StepKey,
		f(s.USDC),
		f(s.TBills),
		f(s.Bonds),
		f(s.Cash),
		f(s.TotalValue),
		f(s.ReserveRatio),
		f(s.RiskScore),
		s.Message,
		s.RecordedAt.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	j.steps.Flush()
	return j.steps.Error()
}

func (j *CSVJournal) Close() error {
	j.runs.Flush()
	if err := j.runs.Error(); err != nil {
		return err
	}
	j.steps.Flush()
	if err := j.steps.Error(); err != nil {
		return err
	}

	if err := j.rf.Close(); err != nil {
		return err
	}
	return j.sf.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
