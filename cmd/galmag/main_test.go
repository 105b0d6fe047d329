package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/galmag/internal/covariance"
	"github.com/san-kum/galmag/internal/storage"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	err := execute(root, args)
	return out.String(), err
}

func TestModelsCommand(t *testing.T) {
	out, err := run(t, "models")
	require.NoError(t, err)
	for _, name := range []string{"base", "neCL", "expX", "spur", "cre10", "synCG", "twistX", "nebCor"} {
		assert.Contains(t, out, name)
	}
	assert.Regexp(t, `base\s+yes`, out)
}

func TestFieldCommand(t *testing.T) {
	out, err := run(t, "field", "base", "1", "3", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "-1.769701623")

	out, err = run(t, "field", "base", "40", "0", "0")
	require.NoError(t, err)
	assert.Regexp(t, `\|B\|\s+0 muG`, out)

	_, err = run(t, "field", "jf12", "1", "2", "3")
	assert.Error(t, err)

	_, err = run(t, "field", "base", "1", "x", "3")
	assert.ErrorContains(t, err, `invalid number "x"`)
}

func TestFieldCommandNegativeCoordinates(t *testing.T) {
	out, err := run(t, "field", "base", "-8.2", "0", "0.1")
	require.NoError(t, err)
	assert.Contains(t, out, "(-8.2, 0, 0.1) kpc")

	out, err = run(t, "field", "--max-radius", "5", "base", "-8.2", "0", "-0.1")
	require.NoError(t, err)
	assert.Regexp(t, `\|B\|\s+0 muG`, out)
}

func TestSeparatePositionals(t *testing.T) {
	root := newRootCmd()
	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"field", "base", "1", "3", "2"}, []string{"field", "base", "1", "3", "2"}},
		{[]string{"field", "base", "-8.2", "0", "0.1"}, []string{"field", "--", "base", "-8.2", "0", "0.1"}},
		{
			[]string{"los", "base", "10", "-30", "--step", "0.5", "-v"},
			[]string{"los", "--step", "0.5", "-v", "--", "base", "10", "-30"},
		},
		{
			[]string{"--data", "runs", "sample", "base", "0", "-5", "--observer", "-8,0,0"},
			[]string{"sample", "--data", "runs", "--observer", "-8,0,0", "--", "base", "0", "-5"},
		},
		{[]string{"skymap", "base", "-q", "perp2"}, []string{"skymap", "base", "-q", "perp2"}},
		{
			[]string{"batch", "base", "-oout.csv", "pos.csv", "--workers", "-1"},
			[]string{"batch", "base", "-oout.csv", "pos.csv", "--workers", "-1"},
		},
		{
			[]string{"profile", "base", "0", "-45", "-q", "bz"},
			[]string{"profile", "-q", "bz", "--", "base", "0", "-45"},
		},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			assert.Equal(t, tt.want, separatePositionals(root, tt.args))
		})
	}
}

func TestParamsCommand(t *testing.T) {
	out, err := run(t, "params", "expX")
	require.NoError(t, err)
	assert.Regexp(t, `PoloidalXi\s+20\.92612\s+deg`, out)
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "pos.csv")
	require.NoError(t, os.WriteFile(in, []byte("x,y,z\n1,3,2\n# comment\n50,0,0\n"), 0644))
	outPath := filepath.Join(dir, "out.csv")

	_, err := run(t, "batch", "base", in, "--out", outPath, "--workers", "2")
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "x,y,z,bx,by,bz", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1,3,2,-1.7697016"), lines[1])
	assert.Equal(t, "50,0,0,0,0,0", lines[2])
}

func TestReadPositionsErrors(t *testing.T) {
	_, err := readPositions(strings.NewReader("1,2,3\n4,five,6\n"))
	assert.ErrorContains(t, err, "line 2")

	_, err = readPositions(strings.NewReader("1,2\n"))
	assert.Error(t, err)

	pos, err := readPositions(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, pos)
}

func TestLOSCommand(t *testing.T) {
	out, err := run(t, "los", "base", "90", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "parallel")
	assert.Contains(t, out, "perp2")
	assert.Contains(t, out, "magnitude")

	// sight line from a preset
	out, err = run(t, "los", "base", "--preset", "anticenter")
	require.NoError(t, err)
	assert.Contains(t, out, "l=180 b=0")

	_, err = run(t, "los", "base", "90")
	assert.Error(t, err)
}

func TestLOSCommandSouthernSightline(t *testing.T) {
	out, err := run(t, "los", "base", "10", "-30", "--step", "0.5")
	require.NoError(t, err)
	assert.Contains(t, out, "l=10 b=-30")
	assert.Contains(t, out, "steps")
}

func TestProfileCommand(t *testing.T) {
	out, err := run(t, "profile", "base", "0", "0", "-q", "bz")
	require.NoError(t, err)
	assert.Contains(t, out, "base bz along l=0 b=0")

	_, err = run(t, "profile", "base", "0", "0", "-q", "bogus")
	assert.ErrorContains(t, err, "unknown quantity")
}

func TestCovarianceCommand(t *testing.T) {
	out, err := run(t, "covariance", "base")
	require.NoError(t, err)
	assert.Contains(t, out, "dimension: 20")
	assert.Contains(t, out, "correlation (%)")
	assert.Regexp(t, `ToroidalR`, out)

	_, err = run(t, "covariance", "neCL")
	assert.ErrorIs(t, err, covariance.ErrNoFactor)
}

func TestSampleListExport(t *testing.T) {
	dataDir := t.TempDir()
	out, err := run(t, "sample", "base", "90", "10", "--samples", "16", "--step", "0.5", "--data", dataDir)
	require.NoError(t, err)
	assert.Contains(t, out, "OBSERVABLE")

	m := regexp.MustCompile(`run id: (\S+)`).FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	runID := m[1]

	out, err = run(t, "list", "--data", dataDir)
	require.NoError(t, err)
	assert.Contains(t, out, runID)

	exportPath := filepath.Join(t.TempDir(), "run.json")
	_, err = run(t, "export", runID, "--data", dataDir, "--out", exportPath)
	require.NoError(t, err)
	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	var exported storage.ExportData
	require.NoError(t, json.Unmarshal(data, &exported))
	assert.Equal(t, 16, exported.Samples)
	assert.Len(t, exported.Draws, 16)
	assert.Equal(t, []string{"parallel", "perp2", "magnitude"}, exported.Names)
}

func TestSampleNoSave(t *testing.T) {
	dataDir := t.TempDir()
	out, err := run(t, "sample", "base", "--preset", "quick", "--samples", "8", "--no-save", "--data", dataDir)
	require.NoError(t, err)
	assert.NotContains(t, out, "run id")

	out, err = run(t, "list", "--data", dataDir)
	require.NoError(t, err)
	assert.Contains(t, out, "no runs found")
}

func TestTraceCommand(t *testing.T) {
	dir := t.TempDir()
	svg := filepath.Join(dir, "line.svg")
	csvPath := filepath.Join(dir, "line.csv")
	out, err := run(t, "trace", "base", "-8.178", "0", "0.02",
		"--both", "--max-steps", "100", "--svg", svg, "--out", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "forward")
	assert.Contains(t, out, "backward")

	data, err := os.ReadFile(svg)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "<path"))

	data, err = os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 1+2*101)
}

func TestPresetsCommand(t *testing.T) {
	out, err := run(t, "presets")
	require.NoError(t, err)
	assert.Contains(t, out, "los:")
	assert.Contains(t, out, "  north-spur")

	out, err = run(t, "presets", "nope")
	require.NoError(t, err)
	assert.Contains(t, out, "no presets for group: nope")
}

func TestSkymapCommand(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "map.csv")
	out, err := run(t, "skymap", "base", "--nl", "12", "--nb", "6", "--step", "0.5", "--out", csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 7)
	for _, row := range lines[1:] {
		assert.Len(t, row, 12)
	}

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 1+12*6)

	_, err = run(t, "skymap", "base", "-q", "rm")
	assert.ErrorContains(t, err, "unknown quantity")
}
