package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/avelar/pillreminder-api/logging"
	"golang.org/x/text/encoding/charmap"
)

// Required column headers, located by name so the file's column order does
// not matter.
const (
	proprietaryNameColumn  = "Proprietary Name"
	inactivationDateColumn = "Inactivation Date"
)

var (
	// ErrScan occurs when the dataset header is missing a required column.
	ErrScan = errors.New("required column not found")

	// ErrDatasetIO occurs when the dataset file cannot be read or parsed at
	// all. Whether this blocks medication creation is the gate's fail-open
	// policy, not the loader's concern.
	ErrDatasetIO = errors.New("failed to read reference dataset")
)

// LoadFile reads and parses the reference dataset CSV at path. Files that
// are not valid UTF-8 are decoded as Windows-1252 first; the regulatory
// exports show up in both encodings.
func LoadFile(path string) ([]Row, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatasetIO, err)
	}

	if !utf8.Valid(raw) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to decode %s as Windows-1252: %v", ErrDatasetIO, path, err)
		}
		raw = decoded
	}

	return Parse(strings.NewReader(string(raw)))
}

// Parse reads the header row, locates the required columns by name and
// collects the rows. Rows missing either column are skipped and counted,
// matching how the mobile app tolerated ragged export files.
func Parse(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read header row: %v", ErrDatasetIO, err)
	}

	nameIndex, dateIndex := -1, -1
	for i, column := range header {
		switch strings.TrimSpace(column) {
		case proprietaryNameColumn:
			nameIndex = i
		case inactivationDateColumn:
			dateIndex = i
		}
	}

	if nameIndex == -1 {
		return nil, fmt.Errorf("%q: %w", proprietaryNameColumn, ErrScan)
	}
	if dateIndex == -1 {
		return nil, fmt.Errorf("%q: %w", inactivationDateColumn, ErrScan)
	}

	var rows []Row
	skippedShortRows := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read row %d: %v", ErrDatasetIO, len(rows)+1, err)
		}

		if len(record) <= nameIndex || len(record) <= dateIndex {
			skippedShortRows++
			continue
		}

		rows = append(rows, Row{
			ProprietaryName:  record[nameIndex],
			InactivationDate: strings.TrimSpace(record[dateIndex]),
		})
	}

	if skippedShortRows > 0 {
		logging.Warn("Skipped dataset rows with missing columns", "count", skippedShortRows)
	}

	return rows, nil
}
