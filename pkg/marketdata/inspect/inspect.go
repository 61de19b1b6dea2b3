// Package inspect summarizes CSV files produced by a download run.
package inspect

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/janucaria/himada/internal/logger"
	"github.com/janucaria/himada/internal/types"
	"github.com/janucaria/himada/pkg/errors"
)

const viewName = "csv_data"

// Summary describes one CSV file.
type Summary struct {
	Path      string   `json:"path"`
	Rows      int64    `json:"rows"`
	Columns   []string `json:"columns"`
	FirstDate string   `json:"firstDate"`
	LastDate  string   `json:"lastDate"`
}

// Inspector reads CSV files through an in-memory DuckDB database.
type Inspector struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

func NewInspector(log *logger.Logger) (*Inspector, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceFailure, "failed to open DuckDB connection", err)
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Inspector{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Summarize counts the rows of a CSV file and reports its column names and
// the first and last Date values. Every column is read as text so dates keep
// the rendering they were written with.
func (i *Inspector) Summarize(path string) (Summary, error) {
	i.logger.Debug("Inspecting CSV", zap.String("path", path))

	// squirrel has no CREATE VIEW support
	query := fmt.Sprintf(`CREATE OR REPLACE VIEW %s AS SELECT * FROM read_csv_auto('%s', header=true, all_varchar=true);`,
		viewName, strings.ReplaceAll(path, "'", "''"))
	if _, err := i.db.Exec(query); err != nil {
		return Summary{}, errors.Wrapf(errors.ErrCodeDataSourceFailure, err, "failed to read %s", path)
	}

	columns, err := i.columns()
	if err != nil {
		return Summary{}, err
	}

	if len(columns) == 0 || columns[0] != types.ColumnDate {
		return Summary{}, errors.Newf(errors.ErrCodeColumnMismatch, "%s does not start with a %s column", path, types.ColumnDate)
	}

	statsQuery, args, err := i.sq.
		Select("COUNT(*)", `MIN("Date")`, `MAX("Date")`).
		From(viewName).
		ToSql()
	if err != nil {
		return Summary{}, errors.Wrap(errors.ErrCodeDataSourceFailure, "failed to build query", err)
	}

	var (
		rows        int64
		first, last sql.NullString
	)

	if err := i.db.QueryRow(statsQuery, args...).Scan(&rows, &first, &last); err != nil {
		return Summary{}, errors.Wrapf(errors.ErrCodeDataSourceFailure, err, "failed to summarize %s", path)
	}

	return Summary{
		Path:      path,
		Rows:      rows,
		Columns:   columns,
		FirstDate: first.String,
		LastDate:  last.String,
	}, nil
}

func (i *Inspector) columns() ([]string, error) {
	query, args, err := i.sq.Select("*").From(viewName).Limit(0).ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceFailure, "failed to build query", err)
	}

	rows, err := i.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceFailure, "failed to read columns", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceFailure, "failed to read columns", err)
	}

	return columns, nil
}

func (i *Inspector) Close() error {
	if i.db != nil {
		return i.db.Close()
	}

	return nil
}
