// Package mockserver provides a mock Yahoo Finance chart server for testing.
// It serves the v8 chart endpoint from bars registered per symbol.
package mockserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
)

// MockYahooServer serves /v8/finance/chart/{symbol}.
type MockYahooServer struct {
	mu sync.RWMutex

	httpServer *http.Server
	listener   net.Listener

	symbols  map[string]*Symbol
	requests []Request
}

// Bar is one row of a chart. A Missing bar is served with null prices,
// the way Yahoo reports halted sessions.
type Bar struct {
	Time     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   int64
	Missing  bool
}

type Dividend struct {
	Time   time.Time
	Amount float64
}

type Split struct {
	Time        time.Time
	Numerator   float64
	Denominator float64
}

// Symbol holds everything the server knows about one ticker.
type Symbol struct {
	Name      string
	Timezone  string
	Currency  string
	Bars      []Bar
	Dividends []Dividend
	Splits    []Split
}

// Request records the query of a chart call.
type Request struct {
	Symbol string
	Query  url.Values
}

var validIntervals = []string{"1m", "2m", "5m", "15m", "30m", "60m", "90m", "1h", "1d", "5d", "1wk", "1mo", "3mo"}

func NewMockYahooServer() *MockYahooServer {
	return &MockYahooServer{
		mu:         sync.RWMutex{},
		httpServer: nil,
		listener:   nil,
		symbols:    make(map[string]*Symbol),
		requests:   make([]Request, 0),
	}
}

// Start starts the mock server on the given address.
// If address is empty or ":0", a random available port is used.
func (s *MockYahooServer) Start(address string) error {
	if address == "" {
		address = ":0"
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	s.listener = listener

	// keeps an escaped slash inside {symbol}, e.g. BRK%2FB
	router := mux.NewRouter().UseEncodedPath()
	router.HandleFunc("/v8/finance/chart/{symbol}", s.handleChart).Methods("GET")

	s.httpServer = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != http.ErrServerClosed {
			fmt.Printf("HTTP server error: %v\n", err)
		}
	}()

	return nil
}

// Stop stops the mock server.
func (s *MockYahooServer) Stop() error {
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// Address returns the address the server is listening on.
func (s *MockYahooServer) Address() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// BaseURL returns the base URL for the server.
func (s *MockYahooServer) BaseURL() string {
	return "http://" + s.Address()
}

// AddSymbol registers or replaces a symbol.
func (s *MockYahooServer) AddSymbol(symbol Symbol) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if symbol.Timezone == "" {
		symbol.Timezone = "UTC"
	}
	if symbol.Currency == "" {
		symbol.Currency = "USD"
	}
	s.symbols[symbol.Name] = &symbol
}

// Requests returns the chart calls received so far.
func (s *MockYahooServer) Requests() []Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.requests)
}

// Reset drops all symbols and recorded requests.
func (s *MockYahooServer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.symbols = make(map[string]*Symbol)
	s.requests = make([]Request, 0)
}

// handleChart handles GET /v8/finance/chart/{symbol}
func (s *MockYahooServer) handleChart(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(mux.Vars(r)["symbol"])
	if err != nil {
		writeChartError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	query := r.URL.Query()

	s.mu.Lock()
	s.requests = append(s.requests, Request{Symbol: name, Query: query})
	symbol, ok := s.symbols[name]
	s.mu.Unlock()

	interval := query.Get("interval")
	if interval == "" {
		interval = "1d"
	}
	if !slices.Contains(validIntervals, interval) {
		writeChartError(w, http.StatusUnprocessableEntity, "Unprocessable Entity",
			fmt.Sprintf("Invalid input - interval=%s is not supported", interval))
		return
	}

	if !ok {
		writeChartError(w, http.StatusNotFound, "Not Found", "No data found, symbol may be delisted")
		return
	}

	from, to, err := window(query)
	if err != nil {
		writeChartError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	bars := make([]Bar, 0, len(symbol.Bars))
	for _, bar := range symbol.Bars {
		if inWindow(bar.Time, from, to) {
			bars = append(bars, bar)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(chartBody(symbol, interval, bars, query.Get("events") != "", from, to))
}

// window reads period1/period2. A range query serves every bar.
func window(query url.Values) (time.Time, time.Time, error) {
	var from, to time.Time
	if v := query.Get("period1"); v != "" {
		sec, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return from, to, fmt.Errorf("invalid period1: %s", v)
		}
		from = time.Unix(sec, 0)
	}
	if v := query.Get("period2"); v != "" {
		sec, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return from, to, fmt.Errorf("invalid period2: %s", v)
		}
		to = time.Unix(sec, 0)
	}
	return from, to, nil
}

func inWindow(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}

func chartBody(symbol *Symbol, interval string, bars []Bar, events bool, from, to time.Time) map[string]any {
	if len(bars) == 0 {
		return map[string]any{
			"chart": map[string]any{
				"result": []any{map[string]any{
					"meta":       meta(symbol, interval),
					"indicators": map[string]any{"quote": []any{map[string]any{}}},
				}},
				"error": nil,
			},
		}
	}

	timestamps := make([]int64, len(bars))
	open := make([]any, len(bars))
	high := make([]any, len(bars))
	low := make([]any, len(bars))
	closes := make([]any, len(bars))
	adj := make([]any, len(bars))
	volume := make([]any, len(bars))

	for i, bar := range bars {
		timestamps[i] = bar.Time.Unix()
		if bar.Missing {
			continue
		}
		open[i] = bar.Open
		high[i] = bar.High
		low[i] = bar.Low
		closes[i] = bar.Close
		adj[i] = bar.AdjClose
		if bar.AdjClose == 0 {
			adj[i] = bar.Close
		}
		volume[i] = bar.Volume
	}

	result := map[string]any{
		"meta":      meta(symbol, interval),
		"timestamp": timestamps,
		"indicators": map[string]any{
			"quote": []any{map[string]any{
				"open":   open,
				"high":   high,
				"low":    low,
				"close":  closes,
				"volume": volume,
			}},
			"adjclose": []any{map[string]any{"adjclose": adj}},
		},
	}

	if events {
		dividends := map[string]any{}
		for _, d := range symbol.Dividends {
			if inWindow(d.Time, from, to) {
				key := strconv.FormatInt(d.Time.Unix(), 10)
				dividends[key] = map[string]any{"amount": d.Amount, "date": d.Time.Unix()}
			}
		}
		splits := map[string]any{}
		for _, sp := range symbol.Splits {
			if inWindow(sp.Time, from, to) {
				key := strconv.FormatInt(sp.Time.Unix(), 10)
				splits[key] = map[string]any{
					"date":        sp.Time.Unix(),
					"numerator":   sp.Numerator,
					"denominator": sp.Denominator,
					"splitRatio":  fmt.Sprintf("%g:%g", sp.Numerator, sp.Denominator),
				}
			}
		}
		result["events"] = map[string]any{"dividends": dividends, "splits": splits}
	}

	return map[string]any{
		"chart": map[string]any{
			"result": []any{result},
			"error":  nil,
		},
	}
}

func meta(symbol *Symbol, interval string) map[string]any {
	return map[string]any{
		"symbol":               symbol.Name,
		"currency":             symbol.Currency,
		"exchangeTimezoneName": symbol.Timezone,
		"dataGranularity":      interval,
	}
}

func writeChartError(w http.ResponseWriter, status int, code, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"chart": map[string]any{
			"result": nil,
			"error": map[string]any{
				"code":        code,
				"description": description,
			},
		},
	})
}
