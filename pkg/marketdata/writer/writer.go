package writer

import (
	"github.com/janucaria/himada/internal/types"
)

// SeriesWriter defines the interface for persisting one ticker's series.
type SeriesWriter interface {
	// Write stores the series under the given file name inside the output
	// directory and returns the path it wrote.
	Write(name string, series *types.Series) (outputPath string, err error)
	// GetOutputDir returns the directory files are written to.
	GetOutputDir() string
}
