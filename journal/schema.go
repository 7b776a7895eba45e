// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	shock_magnitude REAL NOT NULL,
	target_reserve_ratio REAL NOT NULL,
	yield_distribution REAL NOT NULL,
	started_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS steps (
	run_id TEXT NOT NULL,
	step_index INTEGER NOT NULL,
	step_key TEXT NOT NULL,
	usdc REAL NOT NULL,
	t_bills REAL NOT NULL,
	bonds REAL NOT NULL,
	cash REAL NOT NULL,
	total_value REAL NOT NULL,
	reserve_ratio REAL NOT NULL,
	risk_score REAL NOT NULL,
	message TEXT NOT NULL,
	recorded_at DATETIME NOT NULL,
	PRIMARY KEY (run_id, step_index)
);

CREATE INDEX IF NOT EXISTS idx_steps_run ON steps(run_id);
`
