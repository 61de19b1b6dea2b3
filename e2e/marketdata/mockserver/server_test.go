package mockserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type MockServerTestSuite struct {
	suite.Suite
	server *MockYahooServer
}

func TestMockServerSuite(t *testing.T) {
	suite.Run(t, new(MockServerTestSuite))
}

func (suite *MockServerTestSuite) SetupTest() {
	suite.server = NewMockYahooServer()
	err := suite.server.Start(":0")
	suite.Require().NoError(err)

	config := DefaultGeneratorConfig()
	config.Count = 5
	suite.server.AddSymbol(Symbol{
		Name:      "AAPL",
		Timezone:  "America/New_York",
		Bars:      GenerateBars(config),
		Dividends: []Dividend{{Time: config.StartTime, Amount: 0.24}},
	})
}

func (suite *MockServerTestSuite) TearDownTest() {
	if suite.server != nil {
		suite.server.Stop()
	}
}

func (suite *MockServerTestSuite) get(path string) (*http.Response, map[string]any) {
	resp, err := http.Get(suite.server.BaseURL() + path)
	suite.Require().NoError(err)
	defer resp.Body.Close()

	var body map[string]any
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func result(body map[string]any) map[string]any {
	chart := body["chart"].(map[string]any)
	return chart["result"].([]any)[0].(map[string]any)
}

func (suite *MockServerTestSuite) TestServerStartAndStop() {
	suite.NotEmpty(suite.server.Address())
	suite.Contains(suite.server.BaseURL(), "http://")
}

func (suite *MockServerTestSuite) TestChartReturnsAllBarsForRange() {
	resp, body := suite.get("/v8/finance/chart/AAPL?interval=1d&range=max")
	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Equal("application/json", resp.Header.Get("Content-Type"))

	res := result(body)
	suite.Len(res["timestamp"], 5)
	suite.Equal("America/New_York", res["meta"].(map[string]any)["exchangeTimezoneName"])
	suite.Nil(res["events"])
}

func (suite *MockServerTestSuite) TestChartFiltersByPeriod() {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
	_, body := suite.get(fmt.Sprintf("/v8/finance/chart/AAPL?interval=1d&period1=%d&period2=%d", start.Unix(), end.Unix()))

	timestamps := result(body)["timestamp"].([]any)
	suite.Len(timestamps, 2)
	suite.Equal(float64(start.Unix()), timestamps[0])
}

func (suite *MockServerTestSuite) TestChartIncludesEvents() {
	_, body := suite.get("/v8/finance/chart/AAPL?interval=1d&range=max&events=div,splits")

	events := result(body)["events"].(map[string]any)
	suite.Len(events["dividends"], 1)
	suite.Empty(events["splits"])
}

func (suite *MockServerTestSuite) TestMissingBarIsNull() {
	suite.server.AddSymbol(Symbol{
		Name: "HALT",
		Bars: []Bar{{Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Missing: true}},
	})

	_, body := suite.get("/v8/finance/chart/HALT?interval=1d")
	quote := result(body)["indicators"].(map[string]any)["quote"].([]any)[0].(map[string]any)
	suite.Equal([]any{nil}, quote["close"])
}

func (suite *MockServerTestSuite) TestUnknownSymbol() {
	resp, body := suite.get("/v8/finance/chart/NOPE?interval=1d")
	suite.Equal(http.StatusNotFound, resp.StatusCode)

	chart := body["chart"].(map[string]any)
	suite.Nil(chart["result"])
	suite.Equal("Not Found", chart["error"].(map[string]any)["code"])
}

func (suite *MockServerTestSuite) TestEscapedSlashInSymbol() {
	suite.server.AddSymbol(Symbol{Name: "BRK/B", Bars: GenerateBars(DefaultGeneratorConfig())})

	resp, body := suite.get("/v8/finance/chart/BRK%2FB?interval=1d&range=max")
	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Equal("BRK/B", result(body)["meta"].(map[string]any)["symbol"])
}

func (suite *MockServerTestSuite) TestInvalidInterval() {
	resp, _ := suite.get("/v8/finance/chart/AAPL?interval=3m")
	suite.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
}

func (suite *MockServerTestSuite) TestRequestsAreRecorded() {
	suite.get("/v8/finance/chart/AAPL?interval=1h&range=60d")

	requests := suite.server.Requests()
	suite.Require().Len(requests, 1)
	suite.Equal("AAPL", requests[0].Symbol)
	suite.Equal("60d", requests[0].Query.Get("range"))

	suite.server.Reset()
	suite.Empty(suite.server.Requests())
}

func (suite *MockServerTestSuite) TestGenerateBarsIsDeterministic() {
	config := DefaultGeneratorConfig()
	first := GenerateBars(config)
	second := GenerateBars(config)

	suite.Equal(first, second)
	suite.Len(first, config.Count)
	for _, bar := range first {
		suite.GreaterOrEqual(bar.High, bar.Low)
		suite.Positive(bar.Volume)
	}
}
