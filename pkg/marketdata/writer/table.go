package writer

import (
	"strings"
	"time"

	"github.com/janucaria/himada/internal/types"
)

const (
	dateOnlyLayout = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// Table is a series flattened for export: the time index has become the
// leading Date column and every cell is rendered.
type Table struct {
	Header  []string
	Records [][]string
}

// NewTable flattens a series. The index becomes the leading Date column,
// rendered as a naive timestamp in the zone each bar carries. A provider
// column that is itself called Date is dropped in favour of the index.
func NewTable(series *types.Series) Table {
	if series == nil {
		return Table{Header: []string{types.ColumnDate}, Records: nil}
	}

	keep := make([]int, 0, len(series.Columns))
	header := make([]string, 0, len(series.Columns)+1)
	header = append(header, types.ColumnDate)

	for i, c := range series.Columns {
		if strings.EqualFold(c, types.ColumnDate) {
			continue
		}

		keep = append(keep, i)
		header = append(header, c)
	}

	times := make([]time.Time, len(series.Bars))
	for i, bar := range series.Bars {
		times[i] = bar.Time
	}

	dates := FormatDates(times)
	records := make([][]string, len(series.Bars))

	for i, bar := range series.Bars {
		record := make([]string, 0, len(header))
		record = append(record, dates[i])

		for _, col := range keep {
			record = append(record, formatValue(bar, col))
		}

		records[i] = record
	}

	return Table{Header: header, Records: records}
}

// FormatDates renders timestamps without zone information. When every
// timestamp falls on midnight only the date is written.
func FormatDates(times []time.Time) []string {
	layout := dateOnlyLayout

	for _, t := range times {
		if t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 || t.Nanosecond() != 0 {
			layout = dateTimeLayout

			break
		}
	}

	out := make([]string, len(times))
	for i, t := range times {
		out[i] = t.Format(layout)
	}

	return out
}

func formatValue(bar types.Bar, col int) string {
	if col >= len(bar.Values) || !bar.Values[col].Valid {
		return ""
	}

	return bar.Values[col].Decimal.String()
}
