package writer

import (
	"testing"
	"time"

	"github.com/janucaria/himada/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type TableTestSuite struct {
	suite.Suite
}

func TestTableSuite(t *testing.T) {
	suite.Run(t, new(TableTestSuite))
}

func dec(s string) decimal.NullDecimal {
	return types.Value(decimal.RequireFromString(s))
}

func (suite *TableTestSuite) TestDateIsFirstColumn() {
	s := types.NewSeries("AAPL", types.ColumnVolume, types.ColumnClose, types.ColumnOpen)
	suite.Require().NoError(s.Append(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), dec("100"), dec("1.5"), dec("1.25")))

	table := NewTable(s)
	suite.Equal([]string{"Date", "Volume", "Close", "Open"}, table.Header)
	suite.Equal([][]string{{"2024-01-02", "100", "1.5", "1.25"}}, table.Records)
}

func (suite *TableTestSuite) TestProviderDateColumnIsDropped() {
	s := types.NewSeries("AAPL", types.ColumnClose, "Date")
	suite.Require().NoError(s.Append(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), dec("1"), dec("7")))

	table := NewTable(s)
	suite.Equal([]string{"Date", "Close"}, table.Header)
	suite.Equal([]string{"2024-01-02", "1"}, table.Records[0])
}

func (suite *TableTestSuite) TestTimezoneIsStripped() {
	jakarta := time.FixedZone("WIB", 7*3600)
	s := types.NewSeries("BBCA.JK", types.ColumnClose)
	suite.Require().NoError(s.Append(time.Date(2024, 1, 2, 9, 0, 0, 0, jakarta), dec("9400")))
	suite.Require().NoError(s.Append(time.Date(2024, 1, 2, 10, 0, 0, 0, jakarta), dec("9425")))

	table := NewTable(s)
	// wall clock of the exchange, no offset
	suite.Equal("2024-01-02 09:00:00", table.Records[0][0])
	suite.Equal("2024-01-02 10:00:00", table.Records[1][0])
}

func (suite *TableTestSuite) TestNullValuesAreEmpty() {
	s := types.NewSeries("X", types.ColumnOpen, types.ColumnClose)
	suite.Require().NoError(s.Append(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), types.Null(), dec("2")))

	suite.Equal([]string{"2024-01-02", "", "2"}, NewTable(s).Records[0])
}

func (suite *TableTestSuite) TestNilSeries() {
	table := NewTable(nil)
	suite.Equal([]string{"Date"}, table.Header)
	suite.Empty(table.Records)
}

func (suite *TableTestSuite) TestFormatDates() {
	midnight := []time.Time{
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	}
	suite.Equal([]string{"2024-01-02", "2024-01-03"}, FormatDates(midnight))

	mixed := append(midnight, time.Date(2024, 1, 3, 15, 30, 0, 0, time.UTC))
	suite.Equal([]string{"2024-01-02 00:00:00", "2024-01-03 00:00:00", "2024-01-03 15:30:00"}, FormatDates(mixed))
}
