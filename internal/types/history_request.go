package types

import "time"

// HistoryRequest is what the pipeline asks a provider for. It comes in three
// shapes, one per Mode; use the constructors rather than filling it by hand.
type HistoryRequest struct {
	Ticker   string
	Interval Interval
	// Start and End bound a range request; End is exclusive.
	Start time.Time
	End   time.Time
	// Period is empty for range requests and PeriodMax for max requests.
	Period     string
	Actions    bool
	AutoAdjust bool
}

func NewRangeRequest(ticker string, interval Interval, start, end time.Time, actions, autoAdjust bool) HistoryRequest {
	return HistoryRequest{
		Ticker:     ticker,
		Interval:   interval,
		Start:      start,
		End:        end,
		Period:     "",
		Actions:    actions,
		AutoAdjust: autoAdjust,
	}
}

func NewPeriodRequest(ticker string, interval Interval, period string, actions, autoAdjust bool) HistoryRequest {
	return HistoryRequest{
		Ticker:     ticker,
		Interval:   interval,
		Period:     period,
		Actions:    actions,
		AutoAdjust: autoAdjust,
	}
}

func NewMaxRequest(ticker string, interval Interval, actions, autoAdjust bool) HistoryRequest {
	return NewPeriodRequest(ticker, interval, PeriodMax, actions, autoAdjust)
}

// IsRange reports whether the request carries explicit dates.
func (r HistoryRequest) IsRange() bool {
	return r.Period == ""
}
