package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	columnUserID      = "user_id"
	columnGroup       = "group"
	columnLandingPage = "landing_page"
	columnConverted   = "converted"
)

var requiredColumns = []string{columnUserID, columnGroup, columnLandingPage, columnConverted}

// Load reads the CSV file at path into a Dataset.
// The file is closed before Load returns, whatever the outcome.
func Load(path string) (Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return Dataset{}, &LoadError{Path: path, Err: err}
	}
	defer file.Close()

	ds, err := Read(file)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			loadErr.Path = path

			return Dataset{}, loadErr
		}

		return Dataset{}, &LoadError{Path: path, Err: err}
	}

	return ds, nil
}

// Read parses CSV records from r. The first row is the header; it must name the
// user_id, group, landing_page and converted columns in any order. Other columns are
// ignored.
func Read(r io.Reader) (Dataset, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return Dataset{}, &LoadError{Err: ErrEmptySource}
	}
	if err != nil {
		return Dataset{}, &LoadError{Line: errorLine(err), Err: err}
	}

	index, err := columnIndex(header)
	if err != nil {
		return Dataset{}, &LoadError{Line: 1, Err: err}
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Dataset{}, &LoadError{Line: errorLine(err), Err: err}
		}
		line, _ := reader.FieldPos(0)

		converted, err := parseConverted(row[index[columnConverted]])
		if err != nil {
			return Dataset{}, &LoadError{Line: line, Err: err}
		}
		records = append(records, Record{
			UserID:      strings.TrimSpace(row[index[columnUserID]]),
			Group:       Group(strings.TrimSpace(row[index[columnGroup]])),
			LandingPage: LandingPage(strings.TrimSpace(row[index[columnLandingPage]])),
			Converted:   converted,
		})
	}

	return Dataset{records: records}, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return nil, errors.Wrap(ErrMissingColumn, name)
		}
	}

	return index, nil
}

func parseConverted(value string) (bool, error) {
	converted, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, errors.Wrapf(ErrInvalidValue, "%s %q", columnConverted, value)
	}

	return converted, nil
}

func errorLine(err error) int {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Line
	}

	return 0
}
