package types

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Column names produced by the providers.
const (
	ColumnDate        = "Date"
	ColumnOpen        = "Open"
	ColumnHigh        = "High"
	ColumnLow         = "Low"
	ColumnClose       = "Close"
	ColumnAdjClose    = "Adj Close"
	ColumnVolume      = "Volume"
	ColumnDividends   = "Dividends"
	ColumnStockSplits = "Stock Splits"
)

// Bar is one row of a Series. Values line up with Series.Columns; a null
// value is a gap in the provider's data.
type Bar struct {
	Time   time.Time
	Values []decimal.NullDecimal
}

// Series is a time-indexed table returned by a provider.
type Series struct {
	Symbol  string
	Columns []string
	Bars    []Bar
}

// NewSeries creates an empty series with the given data columns.
func NewSeries(symbol string, columns ...string) *Series {
	return &Series{
		Symbol:  symbol,
		Columns: columns,
		Bars:    nil,
	}
}

// Append adds a bar. The number of values must match the number of columns.
func (s *Series) Append(t time.Time, values ...decimal.NullDecimal) error {
	if len(values) != len(s.Columns) {
		return fmt.Errorf("bar at %s has %d values, series has %d columns", t, len(values), len(s.Columns))
	}

	s.Bars = append(s.Bars, Bar{Time: t, Values: values})

	return nil
}

// Len returns the number of bars. A nil series has none.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}

	return len(s.Bars)
}

// IsEmpty reports whether the series is absent or has no rows.
func (s *Series) IsEmpty() bool {
	return s.Len() == 0
}

// ColumnIndex returns the position of a column, or -1.
func (s *Series) ColumnIndex(name string) int {
	for i, c := range s.Columns {
		if c == name {
			return i
		}
	}

	return -1
}

// Value is a shorthand for a present decimal cell.
func Value(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// Null is a missing cell.
func Null() decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.Zero, Valid: false}
}
