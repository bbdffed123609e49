package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/episim/internal/epidemic"
)

func sampleRun(t *testing.T) (RunMetadata, epidemic.Trajectory) {
	t.Helper()

	m, err := epidemic.New(0.3, 0.1, 1000)
	require.NoError(t, err)

	c0 := epidemic.Compartments{S: 999, I: 1, R: 0}
	traj, err := m.Simulate(c0, 10, 0.1)
	require.NoError(t, err)

	meta := RunMetadata{
		Params:     m.Params(),
		Initial:    c0,
		Dt:         0.1,
		Duration:   10,
		Integrator: "euler",
		Metrics:    map[string]float64{"peak_infected": 2.5},
	}
	return meta, traj
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	meta, traj := sampleRun(t)
	runID, err := st.Save(meta, traj)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(runID, "sir_"))

	loaded, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, loaded.ID)
	assert.Equal(t, "sir", loaded.Model)
	assert.Equal(t, meta.Params, loaded.Params)
	assert.Equal(t, meta.Initial, loaded.Initial)
	assert.Equal(t, 101, loaded.Samples)
	assert.Equal(t, 2.5, loaded.Metrics["peak_infected"])

	got, err := st.LoadTrajectory(runID)
	require.NoError(t, err)
	assert.Equal(t, traj, got, "csv round trip must be exact")
}

func TestStoreUniqueIDs(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	meta, traj := sampleRun(t)
	a, err := st.Save(meta, traj)
	require.NoError(t, err)
	b, err := st.Save(meta, traj)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	require.NoError(t, st.Init())

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	meta, traj := sampleRun(t)
	first, err := st.Save(meta, traj)
	require.NoError(t, err)
	second, err := st.Save(meta, traj)
	require.NoError(t, err)

	// stray entries are ignored
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "junk"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("x"), 0644))

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)

	ids := []string{runs[0].ID, runs[1].ID}
	assert.ElementsMatch(t, []string{first, second}, ids)
	assert.False(t, runs[0].Timestamp.Before(runs[1].Timestamp))
}

func TestStoreSaveFailureLeavesNoRun(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	require.NoError(t, st.Init())

	// JSON cannot encode NaN, so metadata.json is created but never filled.
	meta, traj := sampleRun(t)
	meta.Metrics = map[string]float64{"conservation_drift": math.NaN()}

	_, err := st.Save(meta, traj)
	require.Error(t, err)

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "partial run directory left behind")

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStoreLoadMissing(t *testing.T) {
	st := New(t.TempDir())

	_, err := st.Load("nope")
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, err = st.LoadTrajectory("nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	require.NoError(t, st.Init())

	meta, traj := sampleRun(t)
	runID, err := st.Save(meta, traj)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(tmpDir, runID, "metadata.json"))
	assert.FileExists(t, filepath.Join(tmpDir, runID, "states.csv"))

	raw, err := os.ReadFile(filepath.Join(tmpDir, runID, "states.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Equal(t, "time,S,I,R", lines[0])
	assert.Equal(t, "0,999,1,0", lines[1])
	assert.Len(t, lines, 102)
}

func TestReadCSVMalformed(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("time,S,I,R\n0,1,x,0\n"))
	assert.ErrorContains(t, err, "column I")

	_, err = ReadCSV(strings.NewReader("time,S,I,R\n0,1,2\n"))
	assert.Error(t, err)

	traj, err := ReadCSV(strings.NewReader("time,S,I,R\n"))
	require.NoError(t, err)
	assert.Empty(t, traj)
}

func TestExportJSON(t *testing.T) {
	meta, traj := sampleRun(t)
	meta.ID = "sir_1_abcdef12"

	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, meta, traj))

	var decoded ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "sir_1_abcdef12", decoded.ID)
	assert.Len(t, decoded.Times, len(traj))
	assert.Len(t, decoded.I, len(traj))
	assert.Equal(t, 1.0, decoded.I[0])
}
