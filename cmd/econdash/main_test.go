package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--mock", "--config", cfg}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestShow(t *testing.T) {
	out, err := run(t, "show", "leading", "gdp")
	require.NoError(t, err)
	assert.Contains(t, out, "Economic Indicators Dashboard")
	assert.Contains(t, out, "Key Indicators")
	assert.Contains(t, out, "Leading Indicators  [3y]")
	assert.Contains(t, out, "GDP & Growth  [5y]")
	assert.NotContains(t, out, "Interest Rates  [")
}

func TestShow_Period(t *testing.T) {
	out, err := run(t, "show", "--no-summary", "--period", "5y", "inflation")
	require.NoError(t, err)
	assert.Contains(t, out, "Inflation Indicators  [5y]")
	assert.NotContains(t, out, "Key Indicators")

	_, err = run(t, "show", "--period", "1m", "gdp")
	assert.Error(t, err)

	_, err = run(t, "show", "weather")
	assert.Error(t, err)
}

func TestHealthAndAnalyze(t *testing.T) {
	out, err := run(t, "health")
	require.NoError(t, err)
	assert.Contains(t, out, "healthy")

	out, err = run(t, "analyze")
	require.NoError(t, err)
	assert.Contains(t, out, "Outlook")

	out, err = run(t, "analysis-test")
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "success"`)
}

func TestExport(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "rates.png")
	out, err := run(t, "export", "interest-rates", "--period", "3y", "--out", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+dest)

	b, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(b[:4]))
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, l)

	_, err = newLogger("loud")
	assert.Error(t, err)
}
