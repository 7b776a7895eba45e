package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT OR REPLACE INTO runs
		(run_id, shock_magnitude, target_reserve_ratio, yield_distribution, started_at)
		VALUES (?, ?, ?, ?, ?)`,
		r.RunID, r.ShockMagnitude, r.TargetReserveRatio, r.YieldDistribution, r.StartedAt,
	)
	return err
}

func (j *SQLite) RecordStep(s StepRecord) error {
	_, err := j.db.Exec(`
		INSERT OR REPLACE INTO steps
		(run_id, step_index, step_key, usdc, t_bills, bonds, cash,
		 total_value, reserve_ratio, risk_score, message, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.RunID, s.StepIndex, s.StepKey, s.USDC, s.TBills, s.Bonds, s.Cash,
		s.TotalValue, s.ReserveRatio, s.RiskScore, s.Message, s.RecordedAt,
	)
	return err
}

// GetRun loads one run's record by ID.
func (j *SQLite) GetRun(runID string) (RunRecord, error) {
	row := j.db.QueryRow(`
		SELECT run_id, shock_magnitude, target_reserve_ratio, yield_distribution, started_at
		FROM runs WHERE run_id = ?`, runID)

	var r RunRecord
	err := row.Scan(&r.RunID, &r.ShockMagnitude, &r.TargetReserveRatio, &r.YieldDistribution, &r.StartedAt)
	if err == sql.ErrNoRows {
		return RunRecord{}, fmt.Errorf("run %q not found", runID)
	}
	return r, err
}

// ListSteps returns all steps recorded for a run, in execution order.
func (j *SQLite) ListSteps(runID string) ([]StepRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, step_index, step_key, usdc, t_bills, bonds, cash,
		       total_value, reserve_ratio, risk_score, message, recorded_at
		FROM steps WHERE run_id = ? ORDER BY step_index`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StepRecord
	for rows.Next() {
		var s StepRecord
		if err := rows.Scan(&s.RunID, &s.StepIndex, &s.StepKey,
			&s.USDC, &s.TBills, &s.Bonds, &s.Cash,
			&s.TotalValue, &s.ReserveRatio, &s.RiskScore,
			&s.Message, &s.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
