package mockserver

import (
	"math"
	"math/rand"
	"time"
)

// GeneratorConfig configures how bars are generated.
type GeneratorConfig struct {
	// StartTime is the time of the first bar
	StartTime time.Time
	// Interval is the duration between each bar
	Interval time.Duration
	// Count is the number of bars to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% per bar)
	Volatility float64
	// VolumeBase is the average volume per bar
	VolumeBase int64
	// Seed makes the output reproducible
	Seed int64
}

// DefaultGeneratorConfig returns daily bars for the first weeks of 2024.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		StartTime:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:     24 * time.Hour,
		Count:        20,
		InitialPrice: 100.0,
		Volatility:   0.01,
		VolumeBase:   10000,
		Seed:         42,
	}
}

// GenerateBars creates bars following a geometric Brownian motion.
// AdjClose is Close scaled by a fixed 0.98 factor so adjusted output differs
// from raw output.
func GenerateBars(config GeneratorConfig) []Bar {
	rng := rand.New(rand.NewSource(config.Seed))
	bars := make([]Bar, config.Count)
	price := config.InitialPrice
	t := config.StartTime

	for i := 0; i < config.Count; i++ {
		open := price

		// Box-Muller transform for a normal step
		u1 := rng.Float64()
		u2 := rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		closePrice := open * (1 + config.Volatility*z)
		if closePrice <= 0 {
			closePrice = open * 0.99
		}

		high := math.Max(open, closePrice) + math.Abs(rng.Float64()*config.Volatility*open*0.5)
		low := math.Min(open, closePrice) - math.Abs(rng.Float64()*config.Volatility*open*0.5)
		if low <= 0 {
			low = math.Min(open, closePrice) * 0.99
		}

		volume := config.VolumeBase + int64(float64(config.VolumeBase)*(rng.Float64()*0.6-0.3))

		bars[i] = Bar{
			Time:     t,
			Open:     roundToDecimals(open, 4),
			High:     roundToDecimals(high, 4),
			Low:      roundToDecimals(low, 4),
			Close:    roundToDecimals(closePrice, 4),
			AdjClose: roundToDecimals(closePrice*0.98, 4),
			Volume:   volume,
			Missing:  false,
		}

		price = closePrice
		t = t.Add(config.Interval)
	}

	return bars
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
