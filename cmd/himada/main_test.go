package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"

	"github.com/janucaria/himada/e2e/marketdata/mockserver"
	"github.com/janucaria/himada/internal/types"
	"github.com/janucaria/himada/internal/version"
	"github.com/janucaria/himada/pkg/errors"
	"github.com/janucaria/himada/pkg/marketdata"
)

type CLITestSuite struct {
	suite.Suite
	server *mockserver.MockYahooServer
	outDir string
	stdout *bytes.Buffer
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLITestSuite))
}

func (suite *CLITestSuite) SetupTest() {
	suite.server = mockserver.NewMockYahooServer()
	suite.Require().NoError(suite.server.Start(":0"))

	suite.server.AddSymbol(mockserver.Symbol{
		Name: "AAPL",
		Bars: mockserver.GenerateBars(mockserver.DefaultGeneratorConfig()),
	})

	suite.outDir = filepath.Join(suite.T().TempDir(), "out")
	suite.stdout = &bytes.Buffer{}
}

func (suite *CLITestSuite) TearDownTest() {
	_ = suite.server.Stop()
}

func (suite *CLITestSuite) run(args ...string) error {
	app := newApp()
	app.Writer = suite.stdout
	app.ErrWriter = &bytes.Buffer{}

	return app.Run(context.Background(), append([]string{"himada"}, args...))
}

func (suite *CLITestSuite) download(args ...string) error {
	base := []string{"download", "--no-progress", "--yahoo-base-url", suite.server.BaseURL(), "--out", suite.outDir}
	return suite.run(append(base, args...)...)
}

func (suite *CLITestSuite) TestDownloadMax() {
	suite.Require().NoError(suite.download("AAPL"))

	path := filepath.Join(suite.outDir, "AAPL_1d_max.csv")
	suite.FileExists(path)
	suite.Equal("Fetching: AAPL | interval=1d | mode=max\n✅ Saved: "+path+"\n", suite.stdout.String())

	data, err := os.ReadFile(path)
	suite.Require().NoError(err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	suite.Equal("Date,Open,High,Low,Close,Volume", lines[0])
	suite.Len(lines, 21)
}

func (suite *CLITestSuite) TestDownloadKeepsGoingAfterBadTicker() {
	suite.Require().NoError(suite.download("-t", "NOPE,AAPL", "-p", "1y"))

	out := suite.stdout.String()
	suite.Contains(out, "❌ Error fetching NOPE:")
	suite.Contains(out, "✅ Saved: "+filepath.Join(suite.outDir, "AAPL_1d_1y.csv"))
	suite.NoFileExists(filepath.Join(suite.outDir, "NOPE_1d_1y.csv"))
}

func (suite *CLITestSuite) TestDownloadClampsIntraday() {
	suite.Require().NoError(suite.download("-i", "1h", "AAPL"))

	out := suite.stdout.String()
	suite.True(strings.HasPrefix(out, "⚠️ Intraday intervals are limited by Yahoo; clamping period to 60d.\n"), out)
	suite.Contains(out, "Fetching: AAPL | interval=1h | mode=period")

	requests := suite.server.Requests()
	suite.Require().Len(requests, 1)
	suite.Equal("60d", requests[0].Query.Get("range"))
}

func (suite *CLITestSuite) TestDownloadFromJobFile() {
	job := filepath.Join(suite.T().TempDir(), "job.json")
	content := `{"tickers":["AAPL"],"interval":"1d","autoAdjust":false,"outDir":"` + suite.outDir + `","mode":"range","start":"2024-01-01","end":"2024-01-10"}`
	suite.Require().NoError(os.WriteFile(job, []byte(content), 0o644))

	suite.Require().NoError(suite.run("download", "--no-progress", "--yahoo-base-url", suite.server.BaseURL(), "--config", job))
	suite.FileExists(filepath.Join(suite.outDir, "AAPL_1d_2024-01-01_2024-01-10.csv"))
}

func (suite *CLITestSuite) TestExplicitModeIgnoresOtherWindowFlags() {
	suite.Require().NoError(suite.download("--mode", "max", "--period", "max", "AAPL"))
	suite.FileExists(filepath.Join(suite.outDir, "AAPL_1d_max.csv"))

	suite.Require().NoError(suite.download("-m", "period", "-p", "1y", "-s", "2024-01-01", "AAPL"))
	suite.FileExists(filepath.Join(suite.outDir, "AAPL_1d_1y.csv"))

	suite.Require().NoError(suite.download("-m", "range", "-s", "2024-01-01", "-e", "2024-01-10", "-p", "1y", "AAPL"))
	suite.FileExists(filepath.Join(suite.outDir, "AAPL_1d_2024-01-01_2024-01-10.csv"))
}

func (suite *CLITestSuite) TestInferredModeStillRejectsMixedFlags() {
	err := suite.download("-p", "1y", "-s", "2024-01-01", "-e", "2024-01-10", "AAPL")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration), "got %v", err)
	suite.Empty(suite.server.Requests())
}

func (suite *CLITestSuite) TestDownloadConfigErrors() {
	err := suite.download()
	suite.True(errors.HasCode(err, errors.ErrCodeMissingTickers), "got %v", err)

	err = suite.download("-s", "2024-02-01", "-e", "2024-01-01", "AAPL")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidDateRange), "got %v", err)

	err = suite.download("-i", "4h", "AAPL")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidInterval), "got %v", err)

	suite.Empty(suite.stdout.String())
	suite.NoDirExists(suite.outDir)
	suite.Empty(suite.server.Requests())
}

func (suite *CLITestSuite) TestProviders() {
	suite.Require().NoError(suite.run("providers"))

	out := suite.stdout.String()
	suite.Contains(out, "Yahoo Finance")
	suite.Contains(out, "Polygon.io (API key required)")
	suite.Contains(out, "binance")
}

func (suite *CLITestSuite) TestSchema() {
	suite.Require().NoError(suite.run("schema"))
	suite.Contains(suite.stdout.String(), `"tickers"`)
	suite.Contains(suite.stdout.String(), `"outDir"`)
}

func (suite *CLITestSuite) TestVersion() {
	suite.Require().NoError(suite.run("version"))
	suite.Equal(version.GetVersion()+"\n", suite.stdout.String())
}

func (suite *CLITestSuite) TestInspect() {
	suite.Require().NoError(suite.download("AAPL"))
	suite.stdout.Reset()

	path := filepath.Join(suite.outDir, "AAPL_1d_max.csv")
	suite.Require().NoError(suite.run("inspect", path))

	out := suite.stdout.String()
	suite.Contains(out, "rows: 20")
	suite.Contains(out, "dates: 2024-01-01 .. 2024-01-20")
	suite.Contains(out, "columns (6)")
}

func (suite *CLITestSuite) TestInspectNeedsFiles() {
	err := suite.run("inspect")
	suite.True(errors.HasCode(err, errors.ErrCodeMissingParameter))
}

func TestInferMode(t *testing.T) {
	s := suite.Suite{}
	s.SetT(t)

	s.Equal(types.ModeMax, inferMode(marketdata.DownloadConfig{}))
	s.Equal(types.ModePeriod, inferMode(marketdata.DownloadConfig{Period: optional.Some("1y")}))
	s.Equal(types.ModeRange, inferMode(marketdata.DownloadConfig{Start: optional.Some("2024-01-01")}))
}

