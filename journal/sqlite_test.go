package journal

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('runs','steps')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())

	assert.True(t, found["runs"])
	assert.True(t, found["steps"])
}

func TestSQLiteRoundTrip(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	now := time.Now().UTC().Truncate(time.Second)
	run := RunRecord{
		RunID:              "01TESTRUN",
		ShockMagnitude:     20,
		TargetReserveRatio: 110,
		YieldDistribution:  5,
		StartedAt:          now,
	}
	require.NoError(t, j.RecordRun(run))

	steps := []StepRecord{
		{RunID: "01TESTRUN", StepIndex: 0, StepKey: "INITIAL", USDC: 400_000, TBills: 300_000, Bonds: 200_000, Cash: 100_000, TotalValue: 1_000_000, ReserveRatio: 100, RiskScore: 25.2, RecordedAt: now},
		{RunID: "01TESTRUN", StepIndex: 1, StepKey: "SHOCK", USDC: 400_000, TBills: 300_000, Bonds: 160_000, Cash: 100_000, TotalValue: 960_000, ReserveRatio: 96, RiskScore: 21.5, Message: "[T+1] Market shock: Bonds dropped by 20% (-$40k)", RecordedAt: now},
	}
	for _, s := range steps {
		require.NoError(t, j.RecordStep(s))
	}

	gotRun, err := j.GetRun("01TESTRUN")
	require.NoError(t, err)
	assert.Equal(t, run.ShockMagnitude, gotRun.ShockMagnitude)
	assert.Equal(t, run.TargetReserveRatio, gotRun.TargetReserveRatio)

	gotSteps, err := j.ListSteps("01TESTRUN")
	require.NoError(t, err)
	require.Len(t, gotSteps, 2)
	assert.Equal(t, "INITIAL", gotSteps[0].StepKey)
	assert.Equal(t, "SHOCK", gotSteps[1].StepKey)
	assert.InDelta(t, 960_000, gotSteps[1].TotalValue, 1e-6)
	assert.Equal(t, steps[1].Message, gotSteps[1].Message)
}

func TestSQLiteGetRunMissing(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	_, err := j.GetRun("nope")
	assert.Error(t, err)
}

func TestSQLiteStepReplaceSameIndex(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	s := StepRecord{RunID: "r", StepIndex: 1, StepKey: "SHOCK", TotalValue: 1, RecordedAt: time.Now()}
	require.NoError(t, j.RecordStep(s))
	s.TotalValue = 2
	require.NoError(t, j.RecordStep(s))

	got, err := j.ListSteps("r")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 2, got[0].TotalValue, 1e-9)
}
