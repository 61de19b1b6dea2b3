package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/janucaria/himada/internal/logger"
	"github.com/janucaria/himada/internal/types"
	"github.com/janucaria/himada/pkg/errors"
)

// CSVWriter writes each series to its own comma-delimited file.
type CSVWriter struct {
	outputDir string
	logger    *logger.Logger
	create    func(path string) (io.WriteCloser, error)
}

// NewCSVWriter creates a writer rooted at outputDir. The directory must
// already exist. A nil logger is replaced by a no-op one.
func NewCSVWriter(outputDir string, log *logger.Logger) SeriesWriter {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &CSVWriter{
		outputDir: outputDir,
		logger:    log,
		create: func(path string) (io.WriteCloser, error) {
			return os.Create(path)
		},
	}
}

// FileName builds the output name for a ticker: slashes in the ticker become
// underscores, e.g. BRK/B with interval 1d and tag max gives BRK_B_1d_max.csv.
func FileName(ticker string, interval types.Interval, tag string) string {
	return fmt.Sprintf("%s_%s_%s.csv", strings.ReplaceAll(ticker, "/", "_"), interval, tag)
}

// Write renders the series as a Date-first table and writes it without an
// index column.
func (w *CSVWriter) Write(name string, series *types.Series) (outputPath string, err error) {
	outputPath = filepath.Join(w.outputDir, name)
	table := NewTable(series)

	file, err := w.create(outputPath)
	if err != nil {
		return "", errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to create %s", outputPath)
	}

	defer func() {
		if cerr := file.Close(); cerr != nil {
			if err == nil {
				err = errors.Wrapf(errors.ErrCodeWriteFailed, cerr, "failed to close %s", outputPath)
			} else {
				w.logger.Error("Failed to close file after another error",
					zap.String("path", outputPath),
					zap.Error(cerr),
				)
			}
		}
	}()

	csvWriter := csv.NewWriter(file)

	if err = csvWriter.Write(table.Header); err != nil {
		return "", errors.Wrap(errors.ErrCodeWriteFailed, "failed to write csv header", err)
	}

	// WriteAll flushes
	if err = csvWriter.WriteAll(table.Records); err != nil {
		return "", errors.Wrap(errors.ErrCodeWriteFailed, "failed to write csv records", err)
	}

	return outputPath, nil
}

// GetOutputDir returns the configured output directory.
func (w *CSVWriter) GetOutputDir() string {
	return w.outputDir
}
