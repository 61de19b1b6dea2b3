package provider

import "github.com/shopspring/decimal"

// yahooChartResponse mirrors the v8 chart endpoint. Price arrays contain
// nulls for missing bars, hence NullDecimal.
type yahooChartResponse struct {
	Chart struct {
		Result []yahooChartResult `json:"result"`
		Error  *yahooChartError   `json:"error"`
	} `json:"chart"`
}

type yahooChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type yahooChartResult struct {
	Meta struct {
		Symbol               string `json:"symbol"`
		Currency             string `json:"currency"`
		ExchangeTimezoneName string `json:"exchangeTimezoneName"`
		DataGranularity      string `json:"dataGranularity"`
	} `json:"meta"`
	Timestamp  []int64     `json:"timestamp"`
	Events     yahooEvents `json:"events"`
	Indicators struct {
		Quote []struct {
			Open   []decimal.NullDecimal `json:"open"`
			High   []decimal.NullDecimal `json:"high"`
			Low    []decimal.NullDecimal `json:"low"`
			Close  []decimal.NullDecimal `json:"close"`
			Volume []decimal.NullDecimal `json:"volume"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []decimal.NullDecimal `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

// yahooEvents are keyed by the event's epoch seconds.
type yahooEvents struct {
	Dividends map[string]yahooDividend `json:"dividends"`
	Splits    map[string]yahooSplit    `json:"splits"`
}

type yahooDividend struct {
	Amount decimal.Decimal `json:"amount"`
	Date   int64           `json:"date"`
}

type yahooSplit struct {
	Date        int64           `json:"date"`
	Numerator   decimal.Decimal `json:"numerator"`
	Denominator decimal.Decimal `json:"denominator"`
	SplitRatio  string          `json:"splitRatio"`
}
