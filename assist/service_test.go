package assist

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestService(t *testing.T, source string) *Service {
	t.Helper()
	return NewService(Config{DataSource: source}, zap.NewNop())
}

func TestService_Scenario(t *testing.T) {
	svc := newTestService(t, writeFile(t, "articulations.csv", sampleCSV))
	require.NoError(t, svc.Load(context.Background()))

	assert.Equal(t, []string{"MATH 1A"}, svc.DistinctSourceCourses())
	assert.Equal(t, []string{"De Anza College", "Foothill College"}, svc.DistinctTargetInstitutions())

	assert.Equal(t, []Row{
		{Label: "Foothill College", Course: "MATH 1A"},
		{Label: "De Anza College", Course: "MATH 1A"},
	}, svc.Lookup(ViewBySource, "MATH 1A"))
	assert.Equal(t, []Row{{Label: "MATH 1A", Course: "MATH 1A"}}, svc.Lookup(ViewByTarget, "De Anza College"))
}

func TestService_NoSelectionRendersNothing(t *testing.T) {
	svc := newTestService(t, writeFile(t, "articulations.csv", sampleCSV))
	require.NoError(t, svc.Load(context.Background()))

	snap := svc.Snapshot(Selection{})
	assert.Empty(t, snap.BySource)
	assert.Empty(t, snap.ByTarget)
	assert.Len(t, snap.SourceCourses, 1)
	assert.Len(t, snap.TargetInstitutions, 2)
	assert.Equal(t, 2, snap.Records)
	assert.NoError(t, snap.Err)
}

func TestService_SnapshotFollowsSelection(t *testing.T) {
	svc := newTestService(t, writeFile(t, "articulations.csv", sampleCSV))
	require.NoError(t, svc.Load(context.Background()))

	snap := svc.Snapshot(Selection{SourceCourse: "MATH 1A", TargetInstitution: "De Anza College"})
	assert.Len(t, snap.Rows(ViewBySource), 2)
	assert.Equal(t, []Row{{Label: "MATH 1A", Course: "MATH 1A"}}, snap.Rows(ViewByTarget))
	assert.Equal(t, snap.TargetInstitutions, snap.Options(ViewByTarget))
}

func TestService_FailedLoadKeepsPreviousRecords(t *testing.T) {
	path := writeFile(t, "articulations.csv", sampleCSV)
	svc := newTestService(t, path)
	require.NoError(t, svc.Load(context.Background()))

	require.NoError(t, os.WriteFile(path, []byte("nothing,useful\n"), 0o644))
	err := svc.Load(context.Background())
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.ErrorIs(t, err, ErrMissingColumn)

	assert.Len(t, svc.Records(), 2)
	assert.Equal(t, err, svc.LastError())
	assert.Equal(t, err, svc.Snapshot(Selection{}).Err)

	require.NoError(t, os.WriteFile(path, []byte(sampleCSV+"PHYS 7A,Foothill College,PHYS 4A\n"), 0o644))
	require.NoError(t, svc.Load(context.Background()))
	assert.NoError(t, svc.LastError())
	assert.Equal(t, 3, svc.RecordCount())
	assert.Equal(t, []string{"MATH 1A", "PHYS 7A"}, svc.DistinctSourceCourses())
}

func TestService_InitialLoadFailure(t *testing.T) {
	svc := newTestService(t, filepath.Join(t.TempDir(), "missing.csv"))
	err := svc.Load(context.Background())
	require.Error(t, err)

	snap := svc.Snapshot(Selection{SourceCourse: "MATH 1A"})
	assert.Zero(t, snap.Version)
	assert.Empty(t, snap.SourceCourses)
	assert.Empty(t, snap.BySource)
	assert.ErrorIs(t, snap.Err, os.ErrNotExist)
}

func TestService_LoadIsDeterministic(t *testing.T) {
	path := writeFile(t, "articulations.csv", sampleCSV)
	svc := newTestService(t, path)
	require.NoError(t, svc.Load(context.Background()))
	first := svc.Records()
	require.NoError(t, svc.Load(context.Background()))
	assert.Equal(t, first, svc.Records())
}

func TestService_ResultsAreCopies(t *testing.T) {
	svc := newTestService(t, writeFile(t, "articulations.csv", sampleCSV))
	require.NoError(t, svc.Load(context.Background()))

	rows := svc.Lookup(ViewBySource, "MATH 1A")
	rows[0].Label = "mutated"
	courses := svc.DistinctTargetInstitutions()
	courses[0] = "mutated"

	assert.Equal(t, "Foothill College", svc.Lookup(ViewBySource, "MATH 1A")[0].Label)
	assert.Equal(t, "De Anza College", svc.DistinctTargetInstitutions()[0])
}

func TestService_UpdateConfig(t *testing.T) {
	first := writeFile(t, "first.csv", sampleCSV)
	second := writeFile(t, "second.csv", "b_course,cc_name,cc_course\nCS 61A,Laney College,CIS 61\n")
	svc := newTestService(t, first)
	require.NoError(t, svc.Load(context.Background()))

	cfg := svc.Config()
	cfg.DataSource = second
	cfg.Locale = ""
	applied := svc.UpdateConfig(cfg)
	assert.Equal(t, "en", applied.Locale)
	assert.Len(t, svc.Records(), 2, "new source applies on next load")

	require.NoError(t, svc.Load(context.Background()))
	assert.Equal(t, []string{"CS 61A"}, svc.DistinctSourceCourses())
}

func TestService_ConcurrentLoads(t *testing.T) {
	svc := newTestService(t, writeFile(t, "articulations.csv", sampleCSV))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.Load(context.Background()))
			_ = svc.Snapshot(Selection{SourceCourse: "MATH 1A"})
		}()
	}
	wg.Wait()
	assert.Len(t, svc.Lookup(ViewBySource, "MATH 1A"), 2)
	assert.NoError(t, svc.LastError())
}

func TestService_LogsLoads(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	svc := NewService(Config{DataSource: writeFile(t, "articulations.csv", sampleCSV)}, zap.New(core))
	require.NoError(t, svc.Load(context.Background()))

	entries := logs.FilterMessage("records loaded").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ContextMap()["records"])
}

func TestService_NilLogger(t *testing.T) {
	svc := NewService(Config{DataSource: filepath.Join(t.TempDir(), "none.csv")}, nil)
	assert.Error(t, svc.Load(context.Background()))
}
