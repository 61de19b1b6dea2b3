package types

// Mode selects how the time span of a download is expressed.
type Mode string

const (
	// ModeRange downloads between explicit start and end dates.
	ModeRange Mode = "range"
	// ModePeriod downloads a named relative duration such as "1mo".
	ModePeriod Mode = "period"
	// ModeMax downloads the entire history the provider has.
	ModeMax Mode = "max"
)

// Modes lists the modes in the order front-ends present them.
var Modes = []Mode{ModeRange, ModePeriod, ModeMax}

func (m Mode) IsValid() bool {
	return m == ModeRange || m == ModePeriod || m == ModeMax
}

func (m Mode) String() string {
	return string(m)
}

// Named periods understood by the providers.
const (
	Period1d  = "1d"
	Period5d  = "5d"
	Period7d  = "7d"
	Period60d = "60d"
	Period1mo = "1mo"
	Period3mo = "3mo"
	Period6mo = "6mo"
	Period1y  = "1y"
	Period2y  = "2y"
	Period5y  = "5y"
	Period10y = "10y"
	PeriodYTD = "ytd"
	PeriodMax = "max"
)

// Periods lists the periods a user can pick, shortest first.
var Periods = []string{
	Period1d, Period5d, Period1mo, Period3mo, Period6mo,
	Period1y, Period2y, Period5y, Period10y, PeriodYTD, PeriodMax,
}

// DateLayout is the layout of range-mode start and end dates.
const DateLayout = "2006-01-02"
