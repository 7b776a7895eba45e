package journal

import "sync"

// Memory keeps records in memory. Used by tests and by callers that only
// want to format a report at the end of a run.
type Memory struct {
	mu    sync.Mutex
	runs  []RunRecord
	steps []StepRecord
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) RecordRun(r RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, r)
	return nil
}

func (m *Memory) RecordStep(s StepRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, s)
	return nil
}

func (m *Memory) Close() error { return nil }

// Runs returns a copy of all recorded runs, oldest first.
func (m *Memory) Runs() []RunRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RunRecord(nil), m.runs...)
}

// Steps returns a copy of all recorded steps, oldest first.
func (m *Memory) Steps() []StepRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]StepRecord(nil), m.steps...)
}

// StepsForRun returns the steps recorded for one run, in execution order.
func (m *Memory) StepsForRun(runID string) []StepRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []StepRecord
	for _, s := range m.steps {
		if s.RunID == runID {
			out = append(out, s)
		}
	}
	return out
}
