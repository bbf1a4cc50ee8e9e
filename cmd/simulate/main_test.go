package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-engine/internal/engine"
	"credit-engine/internal/logging"
	"credit-engine/internal/model"
)

const scenarioYAML = `
tenant_id: bank
assumptions:
  euribor: 3.5
  ftp_spread: 1.5
  quarterly_allocation: [25, 25, 25, 25]
products:
  - id: mortgage
    type: french
    duration: 80
    grace_period: 4
    spread: 1.8
    danger_rate: 1.2
    volumes:
      y1: 200000000
      y10: 400000000
    recovery:
      ltv: 75
      collateral_haircut: 25
      recovery_costs: 5
      time_to_recover: 12
`

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYAML), 0o644))

	req, err := loadScenario(path)
	require.NoError(t, err)
	require.Len(t, req.Products, 1)

	p := req.Products[0]
	assert.Equal(t, "french", p.Type)
	assert.Equal(t, 80, p.Duration)
	assert.Equal(t, 4, p.GracePeriod)
	assert.Equal(t, 75.0, p.Recovery.LTV)
	assert.Equal(t, 400000000.0, p.Volumes.Y10)
	assert.Equal(t, []float64{25, 25, 25, 25}, req.Assumptions.QuarterlyAllocation)
}

func TestLoadScenarioMissing(t *testing.T) {
	_, err := loadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestPrintAnnual(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYAML), 0o644))
	req, err := loadScenario(path)
	require.NoError(t, err)

	res := engine.Simulate(&req.Products[0], &req.Assumptions)
	var buf bytes.Buffer
	printAnnual(&buf, res)

	out := buf.String()
	assert.Contains(t, out, "mortgage (french)")
	assert.Equal(t, 13, strings.Count(out, "\n"))
}

func TestLogMessagesLevels(t *testing.T) {
	var buf bytes.Buffer
	logMessages(logging.NewWithOutput("info", &buf), []model.CalculationMessage{
		{Level: model.LevelCritical, Code: "INVALID_ALLOCATION", Message: "bad weights"},
		{Level: model.LevelWarning, Code: "UNKNOWN_LOAN_TYPE", Message: "bullet fallback", ProductID: "p1"},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"level":"error"`)
	assert.Contains(t, lines[0], "INVALID_ALLOCATION")
	assert.Contains(t, lines[1], `"level":"warn"`)
	assert.Contains(t, lines[1], "UNKNOWN_LOAN_TYPE")
}

func TestWriteChartUsesProcessedResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYAML), 0o644))
	req, err := loadScenario(path)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "chart.png")
	require.NoError(t, writeChart(engine.Process(req), out))
	png, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	failed := engine.Process(&model.SimulationRequest{})
	assert.Error(t, writeChart(failed, filepath.Join(t.TempDir(), "none.png")))
}
