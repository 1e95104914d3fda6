package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rxtech-lab/argo-signal/internal/datasource"
	"github.com/rxtech-lab/argo-signal/mocks"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type CLITestSuite struct {
	suite.Suite
	dir string
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLITestSuite))
}

func (suite *CLITestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
}

func (suite *CLITestSuite) run(args ...string) (string, error) {
	var out bytes.Buffer

	err := newApp(&out).Run(context.Background(), append([]string{"signal"}, args...))

	return out.String(), err
}

func (suite *CLITestSuite) writePeak(name string) string {
	path := filepath.Join(suite.dir, name)
	suite.Require().NoError(datasource.WriteCSV(path, mocks.PeakSeries("PEAK")))

	return path
}

func (suite *CLITestSuite) TestRun() {
	path := suite.writePeak("PEAK.csv")

	out, err := suite.run("run", "--data", path, "--log-level", "error")
	suite.Require().NoError(err)
	suite.Contains(out, "PEAK")
	suite.Contains(out, "SELL")
	suite.NotContains(out, "BUY")
}

func (suite *CLITestSuite) TestRunWithOutput() {
	path := suite.writePeak("PEAK.csv")
	outputDir := filepath.Join(suite.dir, "out")

	out, err := suite.run("run", "--data", path, "--output", outputDir, "--log-level", "error")
	suite.Require().NoError(err)
	suite.Contains(out, "Results written to")

	runs, err := os.ReadDir(outputDir)
	suite.Require().NoError(err)
	suite.Require().Len(runs, 1)

	for _, name := range []string{"PEAK_signals.csv", "PEAK_indicators.csv", "summary.yaml"} {
		_, err := os.Stat(filepath.Join(outputDir, runs[0].Name(), name))
		suite.NoError(err, name)
	}
}

func (suite *CLITestSuite) TestRunWithConfig() {
	path := suite.writePeak("PEAK.csv")
	configPath := filepath.Join(suite.dir, "config.yaml")
	suite.Require().NoError(os.WriteFile(configPath, []byte("strength_threshold: 101\n"), 0o600))

	out, err := suite.run("run", "--data", path, "--config", configPath, "--log-level", "error")
	suite.Require().NoError(err)
	suite.Contains(out, "No signals")
}

func (suite *CLITestSuite) TestRunInvalidConfig() {
	path := suite.writePeak("PEAK.csv")
	configPath := filepath.Join(suite.dir, "config.yaml")
	suite.Require().NoError(os.WriteFile(configPath, []byte("adx_period: 0\n"), 0o600))

	_, err := suite.run("run", "--data", path, "--config", configPath)
	suite.Require().Error(err)
	suite.True(errors.IsConfigError(err))
}

func (suite *CLITestSuite) TestRunMissingData() {
	_, err := suite.run("run")
	suite.Error(err)
}

func (suite *CLITestSuite) TestBatch() {
	suite.writePeak("AAA.csv")
	suite.writePeak("BBB.csv")

	out, err := suite.run("batch", "--data", filepath.Join(suite.dir, "*.csv"), "--no-progress", "--log-level", "error")
	suite.Require().NoError(err)
	suite.Contains(out, "AAA")
	suite.Contains(out, "BBB")
}

func (suite *CLITestSuite) TestBatchNoMatch() {
	_, err := suite.run("batch", "--data", filepath.Join(suite.dir, "*.csv"), "--no-progress")
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeDataNotFound, errors.GetCode(err))
}

func (suite *CLITestSuite) TestSchema() {
	out, err := suite.run("schema")
	suite.Require().NoError(err)

	var decoded map[string]any
	suite.Require().NoError(json.Unmarshal([]byte(out), &decoded))
	suite.Equal("ema-psar-adx-config", decoded["title"])
}

func (suite *CLITestSuite) TestIndicators() {
	out, err := suite.run("indicators")
	suite.Require().NoError(err)
	suite.Contains(out, "adx")
	suite.Contains(out, "ema")
	suite.Contains(out, "psar")
}
